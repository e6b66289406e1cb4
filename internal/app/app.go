package app

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"quizhub_backend/internal/config"
	"quizhub_backend/internal/controller"
	"quizhub_backend/internal/repository"
	"quizhub_backend/internal/service"
	"quizhub_backend/pkg/database"
	"quizhub_backend/pkg/logger"
	"quizhub_backend/pkg/monitoring"
	"quizhub_backend/pkg/security"
	"quizhub_backend/pkg/tracing"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type App struct {
	Config   *config.Config
	Router   *gin.Engine
	DB       *gorm.DB
	Redis    *redis.Client
	services *services
}

type repositories struct {
	user    *repository.UserRepository
	quiz    *repository.QuizRepository
	attempt *repository.AttemptRepository
}

type services struct {
	auth      *service.AuthService
	user      *service.UserService
	quiz      *service.QuizService
	attempt   *service.AttemptService
	analytics *service.AnalyticsService
	storage   *service.StorageService
}

type controllers struct {
	auth      *controller.AuthController
	user      *controller.UserController
	quiz      *controller.QuizController
	attempt   *controller.AttemptController
	analytics *controller.AnalyticsController
	health    *controller.HealthController
}

func (a *App) initRepositories(db *gorm.DB) *repositories {
	return &repositories{
		user:    repository.NewUserRepository(db),
		quiz:    repository.NewQuizRepository(db),
		attempt: repository.NewAttemptRepository(db),
	}
}

func (a *App) initServices(repos *repositories, cfg *config.Config, rdb *redis.Client) *services {
	s := &services{}

	s.storage = service.NewStorageService(cfg)
	s.auth = service.NewAuthService(repos.user, rdb, cfg)
	s.user = service.NewUserService(repos.user)
	s.quiz = service.NewQuizService(repos.quiz, rdb)
	s.attempt = service.NewAttemptService(repos.attempt, repos.quiz)
	s.analytics = service.NewAnalyticsService(repos.attempt, repos.quiz)

	return s
}

func (a *App) initControllers(s *services, db *gorm.DB) *controllers {
	return &controllers{
		auth:      controller.NewAuthController(s.auth),
		user:      controller.NewUserController(s.user, s.storage),
		quiz:      controller.NewQuizController(s.quiz),
		attempt:   controller.NewAttemptController(s.attempt, s.analytics),
		analytics: controller.NewAnalyticsController(s.analytics),
		health:    controller.NewHealthController(db),
	}
}

func (a *App) setupMiddlewares(router *gin.Engine, cfg *config.Config) {
	router.Use(security.CORS(cfg.CORS.AllowedOrigins))
	router.Use(security.Secure())

	maxRequests := cfg.RateLimit.MaxRequests
	if maxRequests <= 0 {
		maxRequests = 1200
	}
	window := time.Duration(cfg.RateLimit.WindowMinutes) * time.Minute
	if window <= 0 {
		window = time.Minute
	}
	router.Use(security.RateLimiter(maxRequests, window))

	// 分布式追踪中间件
	if cfg.Tracing.Enabled {
		router.Use(tracing.GinMiddleware())
	}

	router.Use(monitoring.MetricsMiddleware())
}

// ReloadConfig 配置热更新回调，仅替换可以安全热替换的部分
func (a *App) ReloadConfig(cfg *config.Config) {
	a.Config.JWT = cfg.JWT
	a.Config.RateLimit = cfg.RateLimit
	a.Config.CORS = cfg.CORS
	logger.Log.Info("Config reloaded")
}

func NewApp(cfg *config.Config) *App {
	logger.InitLogger(cfg)

	logger.Log.Info("Logger initialized successfully")

	gin.SetMode(ginMode(cfg.Server.Mode))

	db, err := database.InitDB(&cfg.Database)
	if err != nil {
		logger.Log.Fatal("Failed to initialize database", zap.Error(err))
	}

	rdb, err := database.InitRedis(&cfg.Redis)
	if err != nil {
		// Redis不可用时降级运行：缓存与令牌黑名单失效
		logger.Log.Warn("Redis unavailable, running without cache", zap.Error(err))
		rdb = nil
	}

	app := &App{
		Config: cfg,
		DB:     db,
		Redis:  rdb,
	}

	repos := app.initRepositories(db)
	services := app.initServices(repos, cfg, rdb)
	app.services = services
	controllers := app.initControllers(services, db)

	monitoring.Init()

	router := gin.New()
	router.Use(gin.Logger(), gin.Recovery())
	app.Router = router

	app.setupMiddlewares(router, cfg)

	if cfg.Tracing.Enabled {
		if _, err := tracing.InitTracer("quizhub", cfg.Tracing.CollectorEndpoint); err != nil {
			logger.Log.Fatal("Failed to initialize tracing", zap.Error(err))
		}
	}

	app.registerRoutes(router, controllers)

	if cfg.Storage.Type == "local" {
		router.Static("/uploads", cfg.Storage.LocalPath)
	}

	return app
}

func ginMode(mode string) string {
	switch mode {
	case "release":
		return gin.ReleaseMode
	case "test":
		return gin.TestMode
	default:
		return gin.DebugMode
	}
}

func (a *App) Run() {
	srv := &http.Server{
		Addr:    ":" + a.Config.Server.Port,
		Handler: a.Router,
	}

	// 启动服务器
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

	if a.Redis != nil {
		a.Redis.Close()
	}

	log.Println("Server exiting")
}
