package app

import (
	"course_hub_backend/docs"
	"course_hub_backend/internal/config"
	"course_hub_backend/internal/middleware"
	"course_hub_backend/internal/model"
	"course_hub_backend/pkg/monitoring"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func (a *App) registerRoutes(router *gin.Engine, c *controllers, repos *repositories, cfg *config.Config) {
	docs.SwaggerInfo.BasePath = "/api"
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/swagger/doc.json")))

	router.GET("/metrics", monitoring.PrometheusHandler())

	// 公共路由(无需登录)
	public := router.Group("/api")
	{
		public.GET("/health", c.health.HealthCheck)
		public.POST("/register", c.auth.Register)
		public.POST("/login", c.auth.Login)
	}

	// 需要授权的路由
	authGroup := router.Group("/api")
	authGroup.Use(middleware.AuthMiddleware(cfg), middleware.ActivityMiddleware(repos.user))
	{
		authGroup.GET("/profile", c.auth.GetProfile)

		// 课程
		authGroup.GET("/courses", c.course.ListCourses)
		authGroup.GET("/courses/:id", c.course.GetCourse)
		authGroup.GET("/courses/:id/render", c.course.RenderCourse)
		authGroup.GET("/courses/:id/lessons/:lessonId", c.course.GetLesson)

		// 支付与进度
		authGroup.POST("/payments/course/:courseId", middleware.RoleMiddleware(model.Student), c.payment.CreatePayment)
		authGroup.GET("/payments", c.payment.ListPayments)
		authGroup.GET("/payments/:id", c.payment.GetPayment)
		authGroup.GET("/progressions", c.payment.ListProgressions)

		// 课程聊天
		authGroup.POST("/courses/:id/messages", c.message.SendMessage)
		authGroup.GET("/courses/:id/messages", c.message.GetMessages)

		// 作业
		authGroup.GET("/courses/:id/works", c.work.ListWorks)
		authGroup.POST("/courses/:id/works/:workId/answers", middleware.RoleMiddleware(model.Student), c.work.SubmitAnswer)
		authGroup.GET("/courses/:id/works/:workId/answers/me", c.work.MyAnswer)

		// 教师接口
		instructor := authGroup.Group("")
		instructor.Use(middleware.RoleMiddleware(model.Instructor))
		{
			instructor.POST("/courses", c.course.CreateCourse)
			instructor.PUT("/courses/:id", c.course.UpdateCourse)
			instructor.DELETE("/courses/:id", c.course.DeleteCourse)
			instructor.POST("/courses/:id/lessons", c.course.CreateLesson)
			instructor.DELETE("/courses/:id/lessons/:lessonId", c.course.DeleteLesson)
			instructor.POST("/courses/:id/lessons/:lessonId/clone", c.course.CloneLesson)
			instructor.POST("/courses/:id/lessons/:lessonId/content", c.course.UploadLessonContent)
			instructor.POST("/courses/:id/works", c.work.CreateWork)
			instructor.DELETE("/courses/:id/works/:workId", c.work.DeleteWork)
			instructor.GET("/courses/:id/works/:workId/answers", c.work.ListAnswers)
		}

		// 管理员接口
		admin := authGroup.Group("")
		admin.Use(middleware.RoleMiddleware(model.Admin))
		{
			admin.GET("/users", c.user.ListUsers)
			admin.GET("/users/:id", c.user.GetUser)
		}
	}
}
