package app

import (
	"quizhub_backend/docs"
	"quizhub_backend/internal/middleware"
	"quizhub_backend/pkg/monitoring"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func (a *App) registerRoutes(router *gin.Engine, c *controllers) {
	docs.SwaggerInfo.BasePath = "/api"
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/swagger/doc.json")))

	router.GET("/metrics", monitoring.PrometheusHandler())

	// 1. 公共路由(无需登录)
	public := router.Group("/api")
	{
		public.GET("/health", c.health.HealthCheck)
		public.POST("/register", c.auth.Register)
		public.POST("/login", c.auth.Login)

		// 测验列表和详情公开可读，答案信息在视图层剥离
		public.GET("/quiz", middleware.TryAuthMiddleware(a.Config), c.quiz.ListQuizzes)
		public.GET("/quiz/:id", middleware.TryAuthMiddleware(a.Config), c.quiz.GetQuiz)
	}

	// 2. 需要授权的路由
	authGroup := router.Group("/api")
	authGroup.Use(middleware.AuthMiddleware(a.Config, a.services.auth))
	{
		authGroup.GET("/profile", c.auth.GetProfile)
		authGroup.GET("/verify-token", c.auth.VerifyToken)
		authGroup.GET("/logout", c.auth.Logout)
		authGroup.PUT("/user/profile", c.user.UpdateProfile)
		authGroup.POST("/user/avatar/upload", c.user.UploadAvatar)
		authGroup.DELETE("/delete/:id", c.user.DeleteUser)

		// 测验管理
		authGroup.POST("/quiz", c.quiz.CreateQuiz)
		authGroup.PUT("/quiz/:id", c.quiz.UpdateQuiz)
		authGroup.DELETE("/quiz/:id", c.quiz.DeleteQuiz)

		// 答题
		authGroup.POST("/attempts", c.attempt.SubmitAttempt)
		authGroup.GET("/attempts/user/quizzes", c.attempt.GetHistory)
		authGroup.GET("/attempts/:id/summary", c.attempt.GetSummary)

		// 统计
		authGroup.GET("/attempts/analytics/user/current", c.analytics.GetUserAnalytics)
		authGroup.GET("/attempts/analytics/quiz/:quizId", c.analytics.GetQuizAnalytics)
	}
}
