package security

import (
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newLimitedRouter(limits func() (int, time.Duration)) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(RateLimiterFunc(limits))
	router.GET("/ping", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	return router
}

func doRequest(router *gin.Engine) int {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	router.ServeHTTP(w, req)
	return w.Code
}

func TestRateLimiterBlocksOverQuota(t *testing.T) {
	router := newLimitedRouter(func() (int, time.Duration) {
		return 2, time.Minute
	})

	require.Equal(t, http.StatusOK, doRequest(router))
	require.Equal(t, http.StatusOK, doRequest(router))
	assert.Equal(t, http.StatusTooManyRequests, doRequest(router))
}

func TestRateLimiterAppliesReloadedQuota(t *testing.T) {
	var maxRequests atomic.Int64
	maxRequests.Store(1)

	router := newLimitedRouter(func() (int, time.Duration) {
		return int(maxRequests.Load()), time.Minute
	})

	require.Equal(t, http.StatusOK, doRequest(router))
	require.Equal(t, http.StatusTooManyRequests, doRequest(router))

	// 配额调大后后续请求立即按新配额放行
	maxRequests.Store(100)
	assert.Equal(t, http.StatusOK, doRequest(router))
}

func TestCORSOnlyAllowsWhitelistedOrigins(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(CORS([]string{"http://localhost:3000"}))
	router.GET("/ping", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	router.ServeHTTP(w, req)
	assert.Equal(t, "http://localhost:3000", w.Header().Get("Access-Control-Allow-Origin"))

	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set("Origin", "http://evil.example")
	router.ServeHTTP(w, req)
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
}
