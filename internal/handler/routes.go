package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/noah-isme/sma-fees-ledger/internal/middleware"
	"github.com/noah-isme/sma-fees-ledger/internal/models"
)

type tokenValidator interface {
	ValidateToken(tokenString string) (*models.JWTClaims, error)
}

// Handlers groups every HTTP handler mounted by RegisterRoutes.
type Handlers struct {
	Auth      *AuthHandler
	Classes   *ClassHandler
	Students  *StudentHandler
	Teachers  *TeacherHandler
	Bills     *BillHandler
	Payments  *PaymentHandler
	Dashboard *DashboardHandler
	Reports   *ReportHandler
	Settings  *SettingsHandler
	Sync      *SyncHandler
}

// RegisterRoutes mounts the ledger API under prefix. Every route except login requires a token;
// the settings group additionally requires the admin role.
func RegisterRoutes(r gin.IRouter, prefix string, auth tokenValidator, h Handlers) {
	api := r.Group(prefix)
	api.POST("/auth/login", h.Auth.Login)

	secured := api.Group("", middleware.JWT(auth))
	secured.GET("/auth/me", h.Auth.Me)

	staff := secured.Group("", middleware.RequireRoles(models.RoleAdmin, models.RoleCashier))

	staff.GET("/classes", h.Classes.List)
	staff.POST("/classes", h.Classes.Create)
	staff.PUT("/classes/:id", h.Classes.Update)
	staff.DELETE("/classes/:id", h.Classes.Delete)

	staff.GET("/students", h.Students.List)
	staff.POST("/students", h.Students.Create)
	staff.GET("/students/:id", h.Students.Get)
	staff.PUT("/students/:id", h.Students.Update)
	staff.DELETE("/students/:id", h.Students.Delete)
	staff.GET("/students/:id/balance", h.Students.Balance)

	staff.GET("/teachers", h.Teachers.List)
	staff.POST("/teachers", h.Teachers.Create)
	staff.PUT("/teachers/:id", h.Teachers.Update)
	staff.DELETE("/teachers/:id", h.Teachers.Delete)

	staff.GET("/bills", h.Bills.List)
	staff.POST("/bills", h.Bills.Create)
	staff.PUT("/bills/:id", h.Bills.Update)
	staff.DELETE("/bills/:id", h.Bills.Delete)

	staff.GET("/payments", h.Payments.List)
	staff.POST("/payments", h.Payments.Create)

	staff.GET("/dashboard", h.Dashboard.Totals)
	staff.GET("/sync/status", h.Sync.Status)

	staff.GET("/reports/summary.pdf", h.Reports.Summary)
	staff.GET("/reports/receipts.pdf", h.Reports.Receipts)
	staff.GET("/reports/students.csv", h.Reports.StudentsCSV)

	settings := secured.Group("/settings", middleware.RequireRoles(models.RoleAdmin))
	settings.GET("/export", h.Settings.Export)
	settings.POST("/import", h.Settings.Import)
	settings.POST("/clear", h.Settings.Clear)
	settings.POST("/mirror/pull", h.Settings.PullMirror)
}
