package routes

import (
	"github.com/gin-gonic/gin"
	appauth "github.com/vidyadaan/scholarhub/internal/app/auth"
	"github.com/vidyadaan/scholarhub/internal/app/controllers"
	"github.com/vidyadaan/scholarhub/internal/app/models/dto"
	"github.com/vidyadaan/scholarhub/internal/middleware"
)

// SetupRouter configures all application routes
func SetupRouter(
	router *gin.Engine,
	authController *controllers.AuthController,
	studentController *controllers.StudentController,
	scholarshipController *controllers.ScholarshipController,
	applicationController *controllers.ApplicationController,
	documentController *controllers.DocumentController,
	paymentController *controllers.PaymentController,
	notificationController *controllers.NotificationController,
	gdprController *controllers.GDPRController,
	adminController *controllers.AdminController,
	authMiddleware *middleware.AuthMiddleware,
) {
	v1 := router.Group("/api/v1")

	// --- Public routes ---
	auth := v1.Group("/auth")
	{
		auth.POST("/register", authController.Register)
		auth.POST("/login", authController.Login)
		auth.POST("/refresh", authController.RefreshToken)
		auth.POST("/logout", authController.Logout)
	}

	// The catalog is browsable without an account
	v1.GET("/scholarships", scholarshipController.ListScholarships)
	v1.GET("/scholarships/:id", scholarshipController.GetScholarship)

	// --- Authenticated routes ---
	authenticated := v1.Group("")
	authenticated.Use(authMiddleware.JWTAuth())
	{
		authenticated.PUT("/auth/password", authController.ChangePassword)

		// Student profiles
		students := authenticated.Group("/students")
		{
			students.GET("/me",
				authMiddleware.RequireCapability(appauth.CapManageOwnProfile), studentController.GetOwnProfile)
			students.PUT("/me",
				authMiddleware.RequireCapability(appauth.CapManageOwnProfile), studentController.UpdateOwnProfile)
			students.GET("",
				authMiddleware.RequireCapability(appauth.CapViewStudents), studentController.ListStudents)
			students.GET("/:id",
				authMiddleware.RequireCapability(appauth.CapViewStudents), studentController.GetStudent)
			students.PATCH("/:id/verify",
				authMiddleware.RequireCapability(appauth.CapVerifyStudents), studentController.VerifyStudent)
		}

		// Scholarship catalog management
		scholarships := authenticated.Group("/scholarships")
		{
			scholarships.POST("",
				authMiddleware.RequireCapability(appauth.CapManageScholarships), scholarshipController.CreateScholarship)
			scholarships.PUT("/:id",
				authMiddleware.RequireCapability(appauth.CapManageScholarships), scholarshipController.UpdateScholarship)
			scholarships.DELETE("/:id",
				authMiddleware.RequireCapability(appauth.CapManageScholarships), scholarshipController.DeactivateScholarship)
			scholarships.GET("/:id/eligibility",
				authMiddleware.RequireCapability(appauth.CapApply), scholarshipController.CheckEligibility)
			scholarships.GET("/stats",
				authMiddleware.RequireCapability(appauth.CapViewAllApplications), scholarshipController.GetStats)
			scholarships.GET("/:id/stats",
				authMiddleware.RequireCapability(appauth.CapViewAllApplications), scholarshipController.GetScholarshipStats)
		}

		// Application workflow
		applications := authenticated.Group("/applications")
		{
			applications.POST("",
				authMiddleware.RequireCapability(appauth.CapApply), applicationController.CreateApplication)
			applications.GET("", applicationController.ListApplications)
			applications.GET("/:id", applicationController.GetApplication)
			applications.PUT("/:id",
				authMiddleware.RequireCapability(appauth.CapApply), applicationController.UpdateApplication)
			applications.PATCH("/:id/submit",
				authMiddleware.RequireCapability(appauth.CapApply), applicationController.SubmitApplication)
			applications.PATCH("/:id/review",
				authMiddleware.RequireCapability(appauth.CapReviewApplications), applicationController.ReviewApplication)
			applications.GET("/:id/payments", paymentController.ListApplicationPayments)
		}

		// Documents
		documents := authenticated.Group("/documents")
		{
			documents.POST("",
				authMiddleware.RequireCapability(appauth.CapUploadDocuments), documentController.UploadDocument)
			documents.GET("", documentController.ListDocuments)
			documents.GET("/:id", documentController.GetDocument)
			documents.GET("/:id/download", documentController.DownloadDocument)
			documents.PATCH("/:id/verify",
				authMiddleware.RequireCapability(appauth.CapVerifyDocuments), documentController.VerifyDocument)
			documents.DELETE("/:id",
				authMiddleware.RequireCapability(appauth.CapUploadDocuments), documentController.DeleteDocument)
		}

		// Payments
		payments := authenticated.Group("/payments")
		{
			payments.GET("", paymentController.ListPayments)
			payments.GET("/:id", paymentController.GetPayment)
			payments.PATCH("/:id/status",
				authMiddleware.RequireCapability(appauth.CapManagePayments), paymentController.UpdatePaymentStatus)
		}

		// Notification inbox
		notifications := authenticated.Group("/notifications")
		{
			notifications.GET("", notificationController.ListNotifications)
			notifications.GET("/unread-count", notificationController.GetUnreadCount)
			notifications.PATCH("/:id/read", notificationController.MarkRead)
			notifications.PATCH("/read-all", notificationController.MarkAllRead)
		}

		// Data subject rights
		gdpr := authenticated.Group("/gdpr")
		{
			gdpr.GET("/export", gdprController.ExportData)
			gdpr.DELETE("/erase",
				authMiddleware.RequireCapability(appauth.CapRequestErasure), gdprController.EraseData)
			gdpr.PATCH("/rectify",
				authMiddleware.RequireCapability(appauth.CapManageOwnProfile), gdprController.RectifyData)
			gdpr.POST("/consent", gdprController.RecordConsent)
		}

		// Administration
		admin := authenticated.Group("/admin")
		{
			admin.GET("/users",
				authMiddleware.RequireCapability(appauth.CapManageUsers), adminController.ListUsers)
			admin.PATCH("/users/:id/active",
				authMiddleware.RequireCapability(appauth.CapManageUsers), adminController.SetUserActive)
			admin.GET("/config",
				authMiddleware.RequireCapability(appauth.CapManageSystemConfig), adminController.GetSystemConfig)
			admin.PUT("/config",
				authMiddleware.RequireCapability(appauth.CapManageSystemConfig), adminController.UpsertSystemConfig)
			admin.GET("/audit-logs",
				authMiddleware.RequireCapability(appauth.CapViewAuditLogs), adminController.ListAuditLogs)
			admin.GET("/applications/:id/versions",
				authMiddleware.RequireCapability(appauth.CapViewAuditLogs), adminController.ListApplicationVersions)
		}
	}

	// Health check endpoint (public)
	v1.GET("/health", func(c *gin.Context) {
		c.JSON(200, dto.NewSuccessResponse(gin.H{"status": "ok"}))
	})
}
