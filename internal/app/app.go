package app

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"
	"time"

	"course_hub_backend/internal/config"
	"course_hub_backend/internal/controller"
	"course_hub_backend/internal/repository"
	"course_hub_backend/internal/service"
	"course_hub_backend/pkg/configwatcher"
	"course_hub_backend/pkg/database"
	"course_hub_backend/pkg/logger"
	"course_hub_backend/pkg/monitoring"
	"course_hub_backend/pkg/security"
	"course_hub_backend/pkg/tracing"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type App struct {
	Config *config.Config
	Router *gin.Engine
	DB     *gorm.DB
	Redis  *redis.Client

	liveConfig atomic.Pointer[config.Config]
}

type repositories struct {
	user        *repository.UserRepository
	course      *repository.CourseRepository
	lesson      *repository.LessonRepository
	payment     *repository.PaymentRepository
	progression *repository.ProgressionRepository
	message     *repository.MessageRepository
	work        *repository.WorkRepository
	workAnswer  *repository.WorkAnswerRepository
}

type services struct {
	auth       *service.AuthService
	user       *service.UserService
	course     *service.CourseService
	access     *service.LessonAccessService
	enrollment *service.EnrollmentService
	message    *service.MessageService
	work       *service.WorkService
	storage    *service.StorageService
}

type controllers struct {
	auth    *controller.AuthController
	user    *controller.UserController
	course  *controller.CourseController
	payment *controller.PaymentController
	message *controller.MessageController
	work    *controller.WorkController
	health  *controller.HealthController
}

func (a *App) initRepositories(db *gorm.DB, rdb *redis.Client) *repositories {
	return &repositories{
		user:        repository.NewUserRepository(db),
		course:      repository.NewCourseRepository(db),
		lesson:      repository.NewLessonRepository(db),
		payment:     repository.NewPaymentRepository(db),
		progression: repository.NewProgressionRepository(db),
		message:     repository.NewMessageRepository(db, rdb),
		work:        repository.NewWorkRepository(db),
		workAnswer:  repository.NewWorkAnswerRepository(db),
	}
}

func (a *App) initServices(repos *repositories, cfg *config.Config, db *gorm.DB) (*services, error) {
	storage, err := service.NewStorageService(cfg)
	if err != nil {
		return nil, err
	}

	s := &services{storage: storage}
	s.auth = service.NewAuthService(repos.user, cfg)
	s.user = service.NewUserService(repos.user)
	s.course = service.NewCourseService(db, repos.course, repos.lesson)
	s.access = service.NewLessonAccessService(repos.lesson, repos.progression)
	s.enrollment = service.NewEnrollmentService(db, repos.course, repos.payment)
	s.message = service.NewMessageService(repos.message, s.enrollment)
	s.work = service.NewWorkService(repos.work, repos.workAnswer, repos.course, s.enrollment)
	return s, nil
}

func (a *App) initControllers(s *services, db *gorm.DB) *controllers {
	return &controllers{
		auth:    controller.NewAuthController(s.auth, s.user),
		user:    controller.NewUserController(s.user),
		course:  controller.NewCourseController(s.course, s.access, s.storage),
		payment: controller.NewPaymentController(s.enrollment, s.access),
		message: controller.NewMessageController(s.message),
		work:    controller.NewWorkController(s.work),
		health:  controller.NewHealthController(db),
	}
}

func (a *App) setupMiddlewares(router *gin.Engine, cfg *config.Config) {
	router.Use(security.CORS(cfg.CORS.AllowedOrigins))
	router.Use(security.Secure())

	// 限流配额跟随配置热更新
	router.Use(security.RateLimiterFunc(func() (int, time.Duration) {
		live := a.LiveConfig()
		return live.RateLimit.MaxRequests, time.Duration(live.RateLimit.WindowMinutes) * time.Minute
	}))

	if cfg.Tracing.Enabled {
		router.Use(tracing.GinMiddleware())
	}

	router.Use(monitoring.MetricsMiddleware())
}

func NewApp(cfg *config.Config) *App {
	logger.InitLogger(cfg.Server.Mode)
	logger.Log.Info("Logger initialized successfully")

	gin.SetMode(cfg.Server.Mode)

	db, err := database.InitDB(&cfg.Database)
	if err != nil {
		logger.Log.Fatal("Failed to initialize database", zap.Error(err))
	}

	// Redis 不可用时退化为直查数据库
	rdb, err := database.InitRedis(&cfg.Redis)
	if err != nil {
		logger.Log.Warn("Redis unavailable, message cache disabled", zap.Error(err))
		rdb = nil
	}

	app := &App{
		Config: cfg,
		DB:     db,
		Redis:  rdb,
	}
	app.liveConfig.Store(cfg)

	repos := app.initRepositories(db, rdb)
	services, err := app.initServices(repos, cfg, db)
	if err != nil {
		logger.Log.Fatal("Failed to initialize services", zap.Error(err))
	}
	controllers := app.initControllers(services, db)

	monitoring.Init()

	if cfg.Tracing.Enabled {
		if _, err := tracing.InitTracer("course-hub", cfg.Tracing.CollectorEndpoint); err != nil {
			logger.Log.Fatal("Failed to initialize tracing", zap.Error(err))
		}
	}

	router := gin.Default()
	app.Router = router

	app.setupMiddlewares(router, cfg)
	app.registerRoutes(router, controllers, repos, cfg)

	if cfg.Storage.Provider == "local" {
		router.Static("/uploads", cfg.Storage.LocalDir)
	}

	// 配置热更新，变更只影响后续读取 liveConfig 的逻辑
	go configwatcher.WatchConfig("configs/config.yaml", func(newCfg *config.Config) {
		app.liveConfig.Store(newCfg)
		logger.Log.Info("config reloaded")
	})

	return app
}

// LiveConfig 当前生效的配置快照
func (a *App) LiveConfig() *config.Config {
	return a.liveConfig.Load()
}

func (a *App) Run() {
	srv := &http.Server{
		Addr:    ":" + a.Config.Server.Port,
		Handler: a.Router,
	}

	go func() {
		log.Printf("Server running on port %s", a.Config.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s\n", err)
		}
	}()

	// 等待中断信号优雅地关闭服务器（设置5秒的超时时间）
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	log.Println("Server exiting")
}
