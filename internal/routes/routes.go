package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/class-reservations/internal/config"
	"github.com/BruksfildServices01/class-reservations/internal/handlers"
	"github.com/BruksfildServices01/class-reservations/internal/middleware"
)

// Handlers agrupa os handlers montados em cmd/api.
type Handlers struct {
	Me           *handlers.MeHandler
	Appointments *handlers.AppointmentHandler
	Sessions     *handlers.SessionHandler
	AuditLogs    *handlers.AuditLogsHandler
}

func RegisterRoutes(r *gin.Engine, cfg *config.Config, h Handlers) {

	// ======================================================
	// 🌍 MIDDLEWARE GLOBAL
	// ======================================================
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.CORSMiddleware(cfg.CORSAllowedOrigins))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// ======================================================
	// 🌐 API (JSON)
	// ======================================================
	api := r.Group("/api")
	api.Use(middleware.AuthMiddleware(cfg.JWTSecret))
	{
		api.GET("/sessions", h.Sessions.List)

		// ------------------------------
		// 🔐 ALUNO
		// ------------------------------
		api.GET("/me", h.Me.GetMe)

		api.POST("/me/appointments/batch", h.Appointments.BatchBook)
		api.GET("/me/appointments", h.Appointments.ListMine)
		api.PATCH("/me/appointments/:id/cancel", h.Appointments.Cancel)

		// ------------------------------
		// 🔐 ADMIN / PROFESSOR
		// ------------------------------
		staff := api.Group("/admin")
		staff.Use(middleware.RequireRole(middleware.RoleAdmin, middleware.RoleTeacher))
		{
			staff.GET("/appointments", h.Appointments.ListAll)
		}

		admin := api.Group("/admin")
		admin.Use(middleware.RequireRole(middleware.RoleAdmin))
		{
			admin.POST("/appointments/export", h.Appointments.Export)
			admin.GET("/audit-logs", h.AuditLogs.List)
		}
	}
}
