package http

import (
	"net/http"

	"github.com/deokslife/portfolio-api/internal/middleware"
	"go.uber.org/zap"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
)

// NewRouter constructs and returns an HTTP handler that serves the
// portfolio API.
//
// Routes:
//
//	GET    /api/apps            → appHandler.List (public)
//	POST   /api/apps            → appHandler.Create
//	DELETE /api/apps            → appHandler.BulkDelete
//	PUT    /api/apps/{id}       → appHandler.Update
//	DELETE /api/apps/{id}       → appHandler.Delete
//	POST   /api/auth/check      → authHandler.CheckPassword
//	PUT    /api/auth/password   → authHandler.ChangePassword
//	POST   /api/upload/image    → uploadHandler.Image (multipart)
//	POST   /api/upload/file     → uploadHandler.File (multipart)
//
// The JSON group enforces Content-Type: application/json; the upload
// endpoints sit outside it because they take multipart bodies.
func NewRouter(
	appHandler *AppHandler,
	authHandler *AuthHandler,
	uploadHandler *UploadHandler,
	logger *zap.Logger,
) http.Handler {
	r := chi.NewRouter()

	// Log each request and its metadata
	r.Use(middleware.WithRequestLogging(logger))

	// Mount API routes
	r.Route("/api", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			// Only allow requests with Content-Type: application/json
			r.Use(chiMiddleware.AllowContentType("application/json"))

			r.Get("/apps", appHandler.List)
			r.Post("/apps", appHandler.Create)
			r.Delete("/apps", appHandler.BulkDelete)
			r.Put("/apps/{id}", appHandler.Update)
			r.Delete("/apps/{id}", appHandler.Delete)

			r.Post("/auth/check", authHandler.CheckPassword)
			r.Put("/auth/password", authHandler.ChangePassword)
		})

		r.Post("/upload/image", uploadHandler.Image)
		r.Post("/upload/file", uploadHandler.File)
	})

	return r
}
