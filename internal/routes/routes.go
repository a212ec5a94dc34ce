package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/mussacharles60/hospital-booking/internal/handlers"
	"github.com/mussacharles60/hospital-booking/internal/middleware"
	"github.com/mussacharles60/hospital-booking/internal/models"
	"github.com/mussacharles60/hospital-booking/internal/store"
	"github.com/mussacharles60/hospital-booking/internal/tokens"
)

// Handlers groups the per-resource action handlers.
type Handlers struct {
	Auth    *handlers.AuthHandler
	User    *handlers.UserHandler
	Admin   *handlers.AdminHandler
	Doctor  *handlers.DoctorHandler
	Patient *handlers.PatientHandler
}

// SetupRoutes configures the application routes. Every resource is a single
// POST endpoint dispatching on the action field; the admin, doctor and
// patient resources are guarded by role middleware.
func SetupRoutes(router *gin.Engine, tk *tokens.Service, accounts store.Accounts, h Handlers) {
	router.GET("/", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "OK"})
	})

	api := router.Group("/api")
	{
		api.POST("/auth", h.Auth.Handle)
		api.POST("/user", h.User.Handle)

		api.POST("/admin", middleware.RequireRole(tk, accounts, models.RoleAdmin), h.Admin.Handle)
		api.POST("/doctor", middleware.RequireRole(tk, accounts, models.RoleDoctor), h.Doctor.Handle)
		api.POST("/patient", middleware.RequireRole(tk, accounts, models.RolePatient), h.Patient.Handle)
	}
}
