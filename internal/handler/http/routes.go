package http

import (
	"net/http"

	"github.com/MKhiriev/go-tech-support/models"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func (h *Handler) Init() *chi.Mux {
	router := chi.NewRouter()
	router.Use(middleware.Recoverer, h.withTraceID, h.withLogging)

	if h.gatherer != nil {
		router.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(h.gatherer, promhttp.HandlerOpts{}))
	}
	if h.filesDir != "" {
		router.Handle("/files/*", http.StripPrefix("/files/", http.FileServer(http.Dir(h.filesDir))))
	}

	router.Group(func(r chi.Router) {
		r.Use(withGZip)

		// routes without a session
		r.Get("/api/version", h.getVersion)
		r.Route("/api/auth", func(r chi.Router) {
			r.With(h.withAuthRateLimit).Post("/login", h.login)
			r.With(h.withAuthRateLimit).Post("/register", h.register)
			r.Post("/logout", h.logout)
			r.Post("/reset-password", h.resetPassword)
			r.Post("/update-password", h.updatePassword)
			r.Get("/session", h.session)
		})

		// routes behind the guard
		r.Group(func(r chi.Router) {
			r.Use(h.requireSession)

			catalog := h.services.Catalog
			r.Route("/api/catalog", func(r chi.Router) {
				mountRepository[models.Driver, models.DriverPatch](r, "/drivers", h, catalog.Drivers)
				mountRepository[models.Guide, models.GuidePatch](r, "/guides", h, catalog.Guides)
				mountRepository[models.DisassemblyGuide, models.DisassemblyGuidePatch](r, "/disassembly-guides", h, catalog.DisassemblyGuides)
				mountRepository[models.Document, models.DocumentPatch](r, "/documents", h, catalog.Documents)
				mountRepository[models.WindowsVersion, models.WindowsVersionPatch](r, "/windows-versions", h, catalog.WindowsVersions)
			})

			r.Route("/api/users", func(r chi.Router) {
				r.With(h.adminOnly).Get("/", h.listUsers)
				r.Patch("/me", h.updateMe)
				r.With(h.adminOnly).Patch("/{id}/approval", h.setApproval)
			})

			r.Route("/api/files/{bucket}", func(r chi.Router) {
				r.Use(h.adminOnly)
				r.Post("/", h.uploadFile)
				r.Delete("/", h.removeFiles)
			})
		})
	})

	router.MethodNotAllowed(CheckHTTPMethod(router))

	return router
}
