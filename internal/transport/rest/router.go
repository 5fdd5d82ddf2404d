package rest

import (
	"database/sql"
	"log/slog"
	"net/http"

	"github.com/jovitools/portal/internal/announcement"
	"github.com/jovitools/portal/internal/auth"
	"github.com/jovitools/portal/internal/entitlement"
	"github.com/jovitools/portal/internal/platform"
	"github.com/jovitools/portal/internal/presence"
	"github.com/jovitools/portal/internal/provision"
	"github.com/jovitools/portal/internal/storage"
	"github.com/jovitools/portal/internal/transport/middleware"
	"github.com/jovitools/portal/internal/transport/swagger"
	"github.com/jovitools/portal/internal/user"
	"github.com/go-chi/chi"
	chiMiddleware "github.com/go-chi/chi/middleware"
	"github.com/redis/go-redis/v9"
)

// Handlers bundles everything the router mounts.
type Handlers struct {
	Auth         *auth.Handler
	User         *user.Handler
	Platform     *platform.Handler
	Entitlement  *entitlement.Handler
	Announcement *announcement.Handler
	Presence     *presence.Handler
	Provision    *provision.Handler
	Storage      *storage.Handler
}

// RegisterAllRoutes wires middleware and the full route tree. staticCoversDir
// is served under /static/covers for uploaded platform artwork.
func RegisterAllRoutes(router *chi.Mux, db *sql.DB, redisClient *redis.Client, h Handlers, allowedOrigin, staticCoversDir string, logger *slog.Logger) {
	healthHandler := NewHealthHandler(db, redisClient)

	router.Use(middleware.CORS(allowedOrigin))
	router.Use(chiMiddleware.RequestID)
	router.Use(middleware.RequestID)
	router.Use(middleware.RecoveryMiddleware(logger))
	router.Use(middleware.LoggingMiddleware(logger))

	// OpenAPI spec and Swagger UI at root, outside the API prefix
	router.Get("/openapi.yml", func(w http.ResponseWriter, r *http.Request) {
		http.ServeFile(w, r, "./api/openapi.yml")
	})
	router.Handle("/swagger/*", swagger.Handler())

	if staticCoversDir != "" {
		fileServer := http.StripPrefix("/static/covers/", http.FileServer(http.Dir(staticCoversDir)))
		router.Handle("/static/covers/*", fileServer)
	}

	router.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", healthHandler.healthCheckHandler)
		r.Get("/ping", healthHandler.pingHandler)

		r.Route("/auth", func(sr chi.Router) {
			sr.Post("/login", h.Auth.Login)
			sr.Post("/signup", h.Auth.Signup)
			sr.Post("/refresh", h.Auth.RefreshToken)
			sr.Post("/logout", h.Auth.Logout)
		})

		// Member routes
		r.Group(func(pr chi.Router) {
			pr.Use(h.Auth.AuthMiddleware)

			pr.Get("/users/me", h.User.GetCurrentUser)

			pr.Get("/platforms", h.Platform.List)
			pr.Get("/platforms/{platformID}/secret", h.Platform.GetSecret)

			pr.Get("/announcements", h.Announcement.ListActive)
		})

		// Administration routes
		r.Route("/admin", func(ar chi.Router) {
			ar.Use(h.Auth.AuthMiddleware)
			ar.Use(h.Auth.RequireAdmin)

			ar.Get("/profiles", h.User.ListProfiles)

			ar.Route("/users/{userID}", func(ur chi.Router) {
				ur.Put("/grants", h.Entitlement.SetGrants)
				ur.Patch("/expiration", h.Entitlement.AdjustExpiration)
				ur.Post("/toggle-block", h.Entitlement.ToggleBlock)
				ur.Delete("/", h.Entitlement.DeleteUser)
			})

			ar.Route("/platforms", func(plr chi.Router) {
				plr.Post("/", h.Platform.Create)
				plr.Get("/{platformID}", h.Platform.AdminGet)
				plr.Patch("/{platformID}", h.Platform.Update)
				plr.Delete("/{platformID}", h.Platform.Delete)
			})

			ar.Route("/announcements", func(anr chi.Router) {
				anr.Get("/", h.Announcement.ListAll)
				anr.Post("/", h.Announcement.Create)
				anr.Patch("/{announcementID}", h.Announcement.Update)
				anr.Post("/{announcementID}/toggle", h.Announcement.ToggleActive)
				anr.Delete("/{announcementID}", h.Announcement.Delete)
			})

			ar.Get("/presence", h.Presence.ListOnline)
			ar.Post("/covers", h.Storage.UploadCover)
			ar.Post("/provision", h.Provision.CreateOrUpdate)
		})
	})
}
