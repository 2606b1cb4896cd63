package app

import (
	"crypto_edu_backend/docs"
	"crypto_edu_backend/internal/config"
	"crypto_edu_backend/internal/middleware"
	"crypto_edu_backend/internal/model"
	"crypto_edu_backend/pkg/monitoring"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func (a *App) registerRoutes(router *gin.Engine, c *controllers, repos *repositories, cfg *config.Config) {
	docs.SwaggerInfo.BasePath = "/api"
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/swagger/doc.json")))

	router.GET("/metrics", monitoring.PrometheusHandler())

	// Public routes
	public := router.Group("/api")
	{
		public.GET("/health", c.health.HealthCheck)
		public.POST("/register", c.auth.Register)
		public.POST("/login", c.auth.Login)
		public.GET("/courses", c.course.List)
		public.GET("/courses/:id", c.course.Get)
		public.GET("/feedback/:courseId", c.feedback.ListByCourse)
	}

	// Authenticated routes
	authGroup := router.Group("/api")
	authGroup.Use(middleware.AuthMiddleware(cfg), middleware.ActivityMiddleware(repos.user))
	{
		authGroup.GET("/profile", c.auth.Profile)

		authGroup.POST("/learning-path/progress", c.learningPath.UpdateProgress)
		authGroup.GET("/learning-path/progress", c.learningPath.GetProgress)
		authGroup.GET("/learning-path/modules/:moduleId", c.learningPath.GetModuleState)

		authGroup.POST("/enrollments", c.enrollment.Enroll)
		authGroup.GET("/enrollments", c.enrollment.List)

		authGroup.GET("/user/metrics", c.user.Metrics)

		authGroup.POST("/feedback", c.feedback.Submit)

		authGroup.POST("/chat", c.chat.Stream)
		authGroup.GET("/chat/:sessionId", c.chat.History)
	}

	// Admin routes
	admin := router.Group("/api/admin")
	admin.Use(middleware.AuthMiddleware(cfg), middleware.RoleMiddleware(model.Admin))
	{
		admin.GET("/users", c.admin.ListUsers)
		admin.GET("/analytics", c.admin.Overview)
	}
}
