package http

import (
	"net/http"
	"strings"
	"time"

	"leoniportal/internal/service"
	"leoniportal/internal/store"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type RouterConfig struct {
	CORSOrigins string // comma-separated; empty allows any origin
}

func NewRouter(
	cfg RouterConfig,
	auth service.AuthService,
	tokens service.TokenService,
	reset service.ResetService,
	docs service.DocumentService,
	profiles service.ProfileService,
	st store.Store,
) http.Handler {
	h := &Handler{Auth: auth, Reset: reset, Docs: docs, Profiles: profiles, Store: st}

	r := chi.NewRouter()
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)
	r.Use(chimw.Timeout(30 * time.Second))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   originsOrWildcard(cfg.CORSOrigins),
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type", "X-Request-Id"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/health", h.health)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Post("/register", h.register)
	r.Post("/login", h.login)
	r.Post("/forgot-password", h.forgotPassword)
	r.Post("/reset-password", h.resetPassword)
	r.Get("/users", h.listUsers)

	// Everything touching per-user data requires a session token; the
	// document endpoints were open in the original deployment, which was a
	// defect, not a contract.
	r.Group(func(pr chi.Router) {
		pr.Use(requireAuth(tokens))

		pr.Post("/document-request", h.submitDocument)
		pr.Get("/document-requests", h.listDocuments)
		pr.Put("/update-document-status", h.updateDocumentStatus)

		pr.Get("/users/{id}", h.getUser)
		pr.Get("/me", h.me)
		pr.Get("/api/me", h.me)
		pr.Put("/update-profile", h.updateProfile)
		pr.Put("/api/update-profile", h.updateProfile)
		pr.Post("/upload-profile-picture", h.uploadProfilePicture)
	})

	return r
}

func originsOrWildcard(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return []string{"*"}
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
