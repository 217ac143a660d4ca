package app

import (
	"edu_center_backend/internal/config"
	"edu_center_backend/internal/middleware"
	"edu_center_backend/internal/model"
	"edu_center_backend/pkg/monitoring"

	"github.com/gin-gonic/gin"
)

func (a *App) registerRoutes(router *gin.Engine, c *controllers, repos *repositories, cfg *config.Config) {
	router.GET("/metrics", monitoring.PrometheusHandler())

	// Public routes, no token required.
	public := router.Group("/api")
	{
		public.GET("/health", c.health.HealthCheck)
		public.POST("/auth/register", c.auth.Register)
		public.POST("/auth/login", c.auth.Login)
		public.GET("/certificates/verify/:code", c.certificate.Verify)
	}

	// Authenticated routes for both roles.
	authGroup := router.Group("/api")
	authGroup.Use(middleware.AuthMiddleware(cfg), middleware.ActivityMiddleware(repos.user))
	{
		authGroup.GET("/profile", c.auth.GetProfile)
		authGroup.GET("/students/me", c.student.GetMe)
		authGroup.PUT("/students/me", c.student.UpdateMe)

		authGroup.GET("/courses", c.course.List)
		authGroup.GET("/courses/:id", c.course.Get)
		authGroup.GET("/courses/:id/structure", c.course.GetStructure)

		authGroup.POST("/orders", c.order.Create)
		authGroup.GET("/orders/me", c.order.ListMine)

		authGroup.POST("/enrollments", c.enrollment.Create)
		authGroup.GET("/enrollments/me", c.enrollment.ListMine)
		authGroup.GET("/enrollments/:id/progress", c.enrollment.GetProgress)

		authGroup.POST("/lessons/:lessonId/complete", c.enrollment.CompleteLesson)

		authGroup.GET("/certificates/me", c.certificate.ListMine)
	}

	// Admin routes.
	admin := router.Group("/api/admin")
	admin.Use(middleware.AuthMiddleware(cfg), middleware.RoleMiddleware(model.Admin))
	{
		admin.GET("/students", c.student.List)
		admin.POST("/students", c.student.Create)
		admin.PUT("/students/:id", c.student.Update)
		admin.DELETE("/students/:id", c.student.Delete)

		admin.POST("/courses", c.course.Create)
		admin.PUT("/courses/:id", c.course.Update)
		admin.DELETE("/courses/:id", c.course.Delete)
		admin.POST("/courses/:id/chapters", c.course.AddChapter)
		admin.POST("/chapters/:chapterId/lessons", c.course.AddLesson)
		admin.DELETE("/chapters/:chapterId", c.course.DeleteChapter)
		admin.DELETE("/lessons/:lessonId", c.course.DeleteLesson)
		admin.POST("/lessons/media", c.course.UploadLessonMedia)

		admin.GET("/orders/pending", c.order.ListPending)
		admin.PUT("/orders/:id/approve", c.order.Approve)
		admin.PUT("/orders/:id/reject", c.order.Reject)

		admin.GET("/enrollments", c.enrollment.List)
		admin.GET("/enrollments/:id", c.enrollment.Get)
		admin.PUT("/enrollments/:id/result", c.enrollment.SetResult)

		admin.POST("/certificates/enrollment/:id", c.certificate.Issue)
		admin.GET("/certificates/enrollment/:id", c.certificate.GetByEnrollment)
		admin.GET("/certificates", c.certificate.List)
	}
}
