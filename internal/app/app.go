package app

import (
	"context"
	"crypto_edu_backend/internal/config"
	"crypto_edu_backend/internal/controller"
	"crypto_edu_backend/internal/repository"
	"crypto_edu_backend/internal/service"
	"crypto_edu_backend/pkg/configwatcher"
	"crypto_edu_backend/pkg/database"
	"crypto_edu_backend/pkg/logger"
	"crypto_edu_backend/pkg/monitoring"
	"crypto_edu_backend/pkg/security"
	"crypto_edu_backend/pkg/tracing"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type App struct {
	Config *config.Config
	Router *gin.Engine
	DB     *gorm.DB
	Redis  *redis.Client

	cron     *cron.Cron
	services *services
}

type repositories struct {
	user       *repository.UserRepository
	course     *repository.CourseRepository
	enrollment *repository.EnrollmentRepository
	progress   *repository.ProgressRepository
	quiz       *repository.QuizRepository
	feedback   *repository.FeedbackRepository
	chat       *repository.ChatRepository
}

type services struct {
	auth       *service.AuthService
	email      *service.EmailService
	course     *service.CourseService
	enrollment *service.EnrollmentService
	progress   *service.ProgressService
	metrics    *service.MetricsService
	feedback   *service.FeedbackService
	chat       *service.ChatService
	analytics  *service.AnalyticsService
}

type controllers struct {
	auth         *controller.AuthController
	course       *controller.CourseController
	enrollment   *controller.EnrollmentController
	learningPath *controller.LearningPathController
	user         *controller.UserController
	feedback     *controller.FeedbackController
	chat         *controller.ChatController
	admin        *controller.AdminController
	health       *controller.HealthController
}

func (a *App) initRepositories(db *gorm.DB, rdb *redis.Client) *repositories {
	return &repositories{
		user:       repository.NewUserRepository(db),
		course:     repository.NewCourseRepository(db),
		enrollment: repository.NewEnrollmentRepository(db),
		progress:   repository.NewProgressRepository(db, repository.NewRedisProgressCache(rdb)),
		quiz:       repository.NewQuizRepository(db),
		feedback:   repository.NewFeedbackRepository(db),
		chat:       repository.NewChatRepository(db),
	}
}

func (a *App) initServices(repos *repositories, cfg *config.Config, db *gorm.DB) *services {
	s := &services{}

	s.email = service.NewEmailService(cfg.Email)
	s.auth = service.NewAuthService(repos.user, s.email, cfg)
	s.course = service.NewCourseService(repos.course)
	s.enrollment = service.NewEnrollmentService(repos.enrollment, repos.course)
	s.progress = service.NewProgressService(repos.progress, repos.enrollment, repos.quiz, repos.course, cfg, db)
	s.metrics = service.NewMetricsService(repos.progress, repos.quiz, repos.enrollment)
	s.feedback = service.NewFeedbackService(repos.feedback, repos.course)
	s.chat = service.NewChatService(cfg.AI, repos.chat, repos.enrollment, repos.course)
	s.analytics = service.NewAnalyticsService(repos.user, repos.course, repos.enrollment, repos.quiz)

	return s
}

func (a *App) initControllers(s *services, db *gorm.DB) *controllers {
	return &controllers{
		auth:         controller.NewAuthController(s.auth),
		course:       controller.NewCourseController(s.course),
		enrollment:   controller.NewEnrollmentController(s.enrollment),
		learningPath: controller.NewLearningPathController(s.progress),
		user:         controller.NewUserController(s.metrics),
		feedback:     controller.NewFeedbackController(s.feedback),
		chat:         controller.NewChatController(s.chat),
		admin:        controller.NewAdminController(s.analytics),
		health:       controller.NewHealthController(db),
	}
}

func (a *App) setupMiddlewares(router *gin.Engine, cfg *config.Config) {
	router.Use(security.CORS(cfg.CORS.AllowedOrigins))
	router.Use(security.Secure())
	router.Use(security.RateLimiter(cfg.RateLimit.MaxRequests, time.Duration(cfg.RateLimit.WindowMinutes)*time.Minute))

	if cfg.Tracing.Enabled {
		router.Use(tracing.GinMiddleware())
	}

	router.Use(monitoring.MetricsMiddleware())
}

// startBackgroundTasks schedules the nightly enrollment reconciler.
func (a *App) startBackgroundTasks(s *services) {
	a.cron = cron.New()
	_, err := a.cron.AddFunc("0 3 * * *", s.enrollment.ReconcileCompleted)
	if err != nil {
		logger.Log.Error("failed to schedule enrollment reconciler", zap.Error(err))
		return
	}
	a.cron.Start()
}

func NewApp(cfg *config.Config) *App {
	logger.InitLogger(cfg)

	logger.Log.Info("Logger initialized successfully")

	db, err := database.InitDB(&cfg.Database)
	if err != nil {
		logger.Log.Fatal("Failed to initialize database", zap.Error(err))
	}

	// InitDB already ran the migrations; nothing left to start.
	if cfg.MigrateOnly {
		return &App{Config: cfg, DB: db}
	}

	rdb, err := database.InitRedis(&cfg.Redis)
	if err != nil {
		logger.Log.Fatal("Failed to initialize redis", zap.Error(err))
	}

	app := &App{
		Config: cfg,
		DB:     db,
		Redis:  rdb,
	}

	repos := app.initRepositories(db, rdb)
	services := app.initServices(repos, cfg, db)
	app.services = services
	controllers := app.initControllers(services, db)

	monitoring.Init()

	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.Default()
	app.Router = router

	app.setupMiddlewares(router, cfg)

	if cfg.Tracing.Enabled {
		if _, err := tracing.InitTracer("crypto-edu", cfg.Tracing.CollectorEndpoint); err != nil {
			logger.Log.Fatal("Failed to initialize tracing", zap.Error(err))
		}
	}

	app.registerRoutes(router, controllers, repos, cfg)

	app.startBackgroundTasks(services)

	// Hot-reload tunables such as the default quiz pass threshold.
	go configwatcher.WatchConfig("configs/config.yaml", func(newCfg interface{}) {
		reloaded, ok := newCfg.(*config.Config)
		if !ok {
			return
		}
		app.Config.ApplyReload(reloaded)
		logger.Log.Info("config reloaded",
			zap.Float64("defaultPassThreshold", reloaded.Quiz.DefaultPassThreshold))
	})

	return app
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

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	if a.cron != nil {
		a.cron.Stop()
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	log.Println("Server exiting")
}
