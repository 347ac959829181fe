package routes

import (
	"contract-claims-api/handlers"
	"contract-claims-api/middleware"
	"contract-claims-api/models"

	"github.com/gin-gonic/gin"
)

func SetupRoutes(r *gin.Engine, h *handlers.Handler, secret []byte, users middleware.UserLookup) {
	authRequired := middleware.AuthRequired(secret, users)

	// ── Public routes ──────────────────────────────────────────────
	public := r.Group("/api")
	{
		public.POST("/auth/login", h.Login)
		public.GET("/state-machine", handlers.GetStateMachineInfo)
	}

	// ── Authenticated routes ───────────────────────────────────────
	auth := r.Group("/api")
	auth.Use(authRequired)
	{
		auth.GET("/profile", h.GetProfile)
		auth.GET("/claims/:id/documents/:docId", h.DownloadDocument)
	}

	// ── Lecturer routes ────────────────────────────────────────────
	lecturer := r.Group("/api/lecturer")
	lecturer.Use(authRequired, middleware.RoleRequired(models.RoleLecturer))
	{
		lecturer.GET("/dashboard", h.LecturerDashboard)
		lecturer.GET("/claims", h.GetMyClaims)
		lecturer.GET("/claims/draft", h.DraftClaim)
		lecturer.POST("/claims", h.SubmitClaim)
		lecturer.GET("/claims/:id", h.GetMyClaim)
		lecturer.POST("/claims/:id/documents", h.AddDocuments)
	}

	// ── Review routes (coordinator, manager, HR) ───────────────────
	review := r.Group("/api/review")
	review.Use(authRequired, middleware.ReviewerRequired())
	{
		review.GET("/claims", h.ListClaims)
		review.GET("/claims/:id", h.GetClaim)
		review.PUT("/claims/:id/status", h.UpdateClaimStatus)
		review.DELETE("/claims/:id", h.DeleteClaim)
	}

	// ── HR routes ──────────────────────────────────────────────────
	hr := r.Group("/api/hr")
	hr.Use(authRequired, middleware.RoleRequired(models.RoleHR))
	{
		hr.GET("/dashboard", h.HRDashboard)
		hr.GET("/roles", h.ListRoles)
		hr.GET("/users", h.ListUsers)
		hr.POST("/users", h.CreateUser)
		hr.GET("/users/:id", h.GetUser)
		hr.PUT("/users/:id", h.UpdateUser)
		hr.GET("/reports", h.Report)
		hr.GET("/reports/pdf", h.ExportReport)
	}
}
