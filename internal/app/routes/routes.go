package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/yigit/placementcrm/internal/app/controllers"
	"github.com/yigit/placementcrm/internal/app/models"
	"github.com/yigit/placementcrm/internal/app/models/dto"
	"github.com/yigit/placementcrm/internal/middleware"
)

// Controllers groups the handlers mounted under /api/v1
type Controllers struct {
	Auth       *controllers.AuthController
	Student    *controllers.StudentController
	Job        *controllers.JobController
	Catalog    *controllers.CatalogController
	Invoice    *controllers.InvoiceController
	Attendance *controllers.AttendanceController
}

// SetupRouter configures all application routes
func SetupRouter(router *gin.Engine, c Controllers, authMiddleware *middleware.AuthMiddleware) {
	v1 := router.Group("/api/v1")

	// --- Public Auth routes ---
	auth := v1.Group("/auth")
	{
		auth.POST("/login", c.Auth.Login)
		auth.POST("/refresh", c.Auth.RefreshToken)
		auth.POST("/logout", c.Auth.Logout)
	}

	authenticated := v1.Group("")
	authenticated.Use(authMiddleware.JWTAuth())
	{
		authenticated.GET("/auth/profile", c.Auth.GetProfile)

		admin := authMiddleware.RoleRequired(models.RoleAdmin)
		staff := authMiddleware.RoleRequired(models.RoleAdmin, models.RoleCounselor)
		classroom := authMiddleware.RoleRequired(models.RoleAdmin, models.RoleCounselor, models.RoleTrainer)

		employees := authenticated.Group("/employees", admin)
		{
			employees.GET("", c.Auth.ListEmployees)
			employees.POST("", c.Auth.CreateEmployee)
		}

		// Catalog: every employee reads, admins write
		authenticated.GET("/catalog/codes", c.Catalog.CodeTables)
		courses := authenticated.Group("/courses")
		{
			courses.GET("", c.Catalog.ListCourses)
			courses.GET("/:id", c.Catalog.GetCourse)
			courses.POST("", admin, c.Catalog.CreateCourse)
			courses.PUT("/:id", admin, c.Catalog.UpdateCourse)
			courses.DELETE("/:id", admin, c.Catalog.DeleteCourse)
		}

		students := authenticated.Group("/students")
		{
			students.POST("", staff, c.Student.RegisterStudent)
			students.GET("", staff, c.Student.ListStudents)
			students.GET("/next-code", staff, c.Student.PreviewNextCode)
			students.GET("/code/:code", staff, c.Student.GetStudentByCode)
			students.GET("/:id", staff, c.Student.GetStudent)
			students.PUT("/:id", staff, c.Student.UpdateStudent)
			students.DELETE("/:id", admin, c.Student.DeleteStudent)
			students.POST("/:id/resume", staff, c.Student.UploadResume)

			students.POST("/:id/invoices", staff, c.Invoice.CreateInvoice)
			students.GET("/:id/invoices", staff, c.Invoice.ListInvoices)
			students.GET("/:id/outstanding", staff, c.Invoice.Outstanding)

			students.POST("/:id/attendance", classroom, c.Attendance.MarkAttendance)
			students.GET("/:id/attendance", classroom, c.Attendance.ListAttendance)
			students.GET("/:id/attendance/summary", classroom, c.Attendance.Summary)
		}

		authenticated.POST("/invoices/:id/pay", staff, c.Invoice.MarkPaid)

		jobs := authenticated.Group("/jobs", staff)
		{
			jobs.POST("", c.Job.CreateJob)
			jobs.GET("", c.Job.ListJobs)
			jobs.GET("/next-code", c.Job.PreviewNextCode)
			jobs.GET("/:id", c.Job.GetJob)
			jobs.DELETE("/:id", c.Job.DeleteJob)
			jobs.GET("/:id/matches", c.Job.MatchStudents)
		}
	}

	// Health check endpoint (public)
	v1.GET("/health", func(ctx *gin.Context) {
		ctx.JSON(200, dto.NewSuccessResponse(gin.H{"status": "ok"}, ""))
	})
}
