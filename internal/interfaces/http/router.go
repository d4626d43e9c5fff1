package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/impresos/internal/domain/entity"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC      LoginUseCase
	DocumentPDF DocumentPDFUseCase
	Renderer    BundleRenderer
	Importer    BundleImporter // nil = sin importación por API
	Decode      BundleDecoder
	JWTSecret   string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Auth (público)
	authGroup := api.Group("/auth")
	authHandler := NewAuthHandler(deps.AuthUC)
	authGroup.Post("/login", authHandler.Login)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))

	documents := protected.Group("/documents")
	documentHandler := NewDocumentHandler(deps.DocumentPDF, deps.Renderer, deps.Importer, deps.Decode)
	documents.Post("/render",
		RequireRole(entity.RoleAdmin, entity.RoleVendedor),
		documentHandler.RenderBundle)
	if deps.Importer != nil {
		documents.Post("/import", RequireRole(entity.RoleAdmin), documentHandler.ImportBundle)
	}
	documents.Get("/:model/:code/pdf",
		RequireRole(entity.RoleAdmin, entity.RoleVendedor, entity.RoleLectura),
		documentHandler.DownloadPDF)
}
