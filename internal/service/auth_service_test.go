package service

import (
	"testing"

	"course_hub_backend/internal/config"
	"course_hub_backend/internal/model"
	"course_hub_backend/internal/repository"
	"course_hub_backend/internal/testutil"
	"course_hub_backend/internal/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAuthService(t *testing.T) (*AuthService, *config.Config) {
	db := testutil.NewTestDB(t)
	cfg := &config.Config{}
	cfg.JWT.Secret = "test-secret"
	cfg.JWT.ExpirationHours = 1
	return NewAuthService(repository.NewUserRepository(db), cfg), cfg
}

func TestRegisterHashesPassword(t *testing.T) {
	auth, _ := newAuthService(t)

	user, err := auth.Register(RegisterInput{
		Name:     "Alice",
		Email:    "alice@test.local",
		Password: "super-secret",
	})
	require.NoError(t, err)
	assert.NotEqual(t, "super-secret", user.Password)
	assert.Equal(t, model.Student, user.Role)

	// 重复邮箱拒绝注册
	_, err = auth.Register(RegisterInput{
		Name:     "Alice Again",
		Email:    "alice@test.local",
		Password: "another-secret",
	})
	assert.ErrorIs(t, err, util.ErrEmailRegistered)
}

func TestRegisterRoleDefaultsToStudent(t *testing.T) {
	auth, _ := newAuthService(t)

	// 不允许注册成管理员
	user, err := auth.Register(RegisterInput{
		Name:     "Mallory",
		Email:    "mallory@test.local",
		Password: "super-secret",
		Role:     model.Admin,
	})
	require.NoError(t, err)
	assert.Equal(t, model.Student, user.Role)

	instructor, err := auth.Register(RegisterInput{
		Name:     "Teacher",
		Email:    "teacher@test.local",
		Password: "super-secret",
		Role:     model.Instructor,
	})
	require.NoError(t, err)
	assert.Equal(t, model.Instructor, instructor.Role)
}

func TestLogin(t *testing.T) {
	auth, cfg := newAuthService(t)

	registered, err := auth.Register(RegisterInput{
		Name:     "Alice",
		Email:    "alice@test.local",
		Password: "super-secret",
		Role:     model.Instructor,
	})
	require.NoError(t, err)

	token, user, err := auth.Login("alice@test.local", "super-secret")
	require.NoError(t, err)
	assert.Equal(t, registered.ID, user.ID)

	claims, err := util.ParseJWT(token, cfg.JWT.Secret)
	require.NoError(t, err)
	assert.Equal(t, registered.ID, claims.UserID)
	assert.True(t, claims.IsInstructor())

	_, _, err = auth.Login("alice@test.local", "wrong-password")
	assert.ErrorIs(t, err, util.ErrInvalidCredentials)

	_, _, err = auth.Login("nobody@test.local", "super-secret")
	assert.ErrorIs(t, err, util.ErrInvalidCredentials)
}
