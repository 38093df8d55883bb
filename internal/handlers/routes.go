package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/localnerve/excel-analyzer/internal/middleware"
	"github.com/localnerve/excel-analyzer/internal/services"
)

// Handlers groups every route handler of the API
type Handlers struct {
	Auth     *services.AuthService
	Account  *AuthHandler
	Upload   *UploadHandler
	UserData *UserDataHandler
	Summary  *SummaryHandler
	Export   *ExportHandler
	Admin    *AdminHandler
}

// RegisterRoutes mounts the API on router, normally the /api group
func RegisterRoutes(router fiber.Router, h *Handlers) {
	user := middleware.AuthUser(h.Auth)
	admin := middleware.AuthAdmin(h.Auth)

	auth := router.Group("/auth")
	auth.Post("/register", h.Account.Register)
	auth.Post("/login", h.Account.Login)
	auth.Get("/me", user, h.Account.Me)

	router.Post("/upload", user, h.Upload.Upload)
	router.Get("/user/history", user, h.UserData.GetHistory)
	router.Get("/analysis/:analysisId", user, h.UserData.GetAnalysis)
	router.Post("/analysis/:analysisId/chart", user, h.UserData.BuildChart)
	router.Post("/ai/summary/:analysisId", user, h.Summary.GenerateSummary)
	router.Post("/export/pdf", user, h.Export.ExportPDF)
	router.Post("/export/png", user, h.Export.ExportPNG)

	adm := router.Group("/admin", admin)
	adm.Get("/users", h.Admin.ListUsers)
	adm.Delete("/users/:userId", h.Admin.DeleteUser)
	adm.Get("/files", h.Admin.ListFiles)
	adm.Post("/files/delete", h.Admin.DeleteFiles)
	adm.Delete("/files", h.Admin.DeleteFiles)
	adm.Delete("/files/:fileId", h.Admin.DeleteFile)
}
