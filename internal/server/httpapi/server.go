// Package httpapi exposes the JSON HTTP surface: session endpoints, user
// administration, campaign and review management, and logo storage.
package httpapi

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/reviewflow/reviewflow/internal/logging"
	"github.com/reviewflow/reviewflow/internal/server/auth"
	"github.com/reviewflow/reviewflow/internal/server/models"
	"github.com/reviewflow/reviewflow/internal/server/services"
)

type Server struct {
	logger    logging.Logger
	users     *services.UserService
	campaigns *services.CampaignService
	reviews   *services.ReviewService
	logos     *services.LogoService
}

func NewServer(l logging.Logger, us *services.UserService, cs *services.CampaignService, rs *services.ReviewService, ls *services.LogoService) *Server {
	return &Server{
		logger:    l.With("module", "httpapi"),
		users:     us,
		campaigns: cs,
		reviews:   rs,
		logos:     ls,
	}
}

func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(s.requestLogger)

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/api", func(r chi.Router) {
		r.Post("/auth/login", s.handleLogin)
		r.Post("/auth/logout", s.handleLogout)
		r.Get("/auth/verify", s.handleVerify)
		r.With(s.authMiddleware).Post("/change-password", s.handleChangePassword)

		r.Route("/users", func(r chi.Router) {
			r.Use(s.authMiddleware, s.requireAdmin)
			r.Get("/", s.handleListUsers)
			r.Post("/", s.handleCreateUser)
			r.Put("/{id}", s.handleUpdateUser)
			r.Delete("/{id}", s.handleDeleteUser)
		})

		r.With(s.authMiddleware, s.requireAdmin).Get("/campaigns", s.handleListCampaigns)
		r.With(s.authMiddleware, s.requireAdmin).Post("/campaigns", s.handleCreateCampaign)
		r.With(s.authMiddleware, s.requireAdmin).Get("/campaign-stats", s.handleCampaignStats)

		// The campaign landing page is public: customers open it from a
		// review link without any session.
		r.Get("/campaign/{id}", s.handleGetCampaign)
		r.With(s.authMiddleware, s.requireAdmin).Put("/campaign/{id}", s.handleUpdateCampaign)
		r.With(s.authMiddleware, s.requireAdmin).Delete("/campaign/{id}", s.handleDeleteCampaign)

		r.With(s.authMiddleware, s.requireAdmin).Get("/reviews", s.handleListReviews)
		r.Post("/reviews", s.handleSubmitReview)

		r.With(s.authMiddleware, s.requireAdmin).Post("/upload-logo", s.handleUploadLogo)
		r.Get("/serve-logo", s.handleServeLogo)
	})

	return r
}

// statusRecorder captures the response code for the request log line.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get("X-Request-Id")
		if requestID == "" {
			requestID = uuid.NewString()
		}
		w.Header().Set("X-Request-Id", requestID)

		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		start := time.Now()
		next.ServeHTTP(rec, r)

		s.logger.Info(r.Context(), "request",
			"request_id", requestID,
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"duration", time.Since(start).String(),
		)
	})
}

func (s *Server) authMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, ok := auth.TokenFromRequest(r)
		if !ok {
			writeError(w, http.StatusUnauthorized, "Authentication required")
			return
		}

		claims, err := s.users.ParseClaims(token)
		if err != nil {
			writeError(w, http.StatusUnauthorized, "Invalid or expired token")
			return
		}

		ctx := context.WithValue(r.Context(), claimsKey{}, claims)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// requireAdmin trusts the role baked into the token; it does not re-read the
// user row. Must run after authMiddleware.
func (s *Server) requireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims := claimsFromContext(r.Context())
		if claims == nil || claims.Role != models.RoleAdmin {
			writeError(w, http.StatusUnauthorized, "Admin access required")
			return
		}
		next.ServeHTTP(w, r)
	})
}

type claimsKey struct{}

func claimsFromContext(ctx context.Context) *auth.Claims {
	claims, _ := ctx.Value(claimsKey{}).(*auth.Claims)
	return claims
}

func decodeJSON(r *http.Request, out any) error {
	return json.NewDecoder(r.Body).Decode(out)
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
