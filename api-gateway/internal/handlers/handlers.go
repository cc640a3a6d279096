package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/Thanush-41/AgriXchange/api-gateway/internal/service"
	"github.com/Thanush-41/AgriXchange/shared/auth"
	"github.com/Thanush-41/AgriXchange/shared/logger"
	"github.com/Thanush-41/AgriXchange/shared/models"
)

type ctxKey struct{}

// Handler contains HTTP request handlers
type Handler struct {
	catalog service.Catalog
	auth    *auth.Authenticator
}

// NewHandler creates a new HTTP handler
func NewHandler(catalog service.Catalog, authn *auth.Authenticator) *Handler {
	return &Handler{
		catalog: catalog,
		auth:    authn,
	}
}

// SetupRoutes configures all HTTP routes
func (h *Handler) SetupRoutes() *mux.Router {
	router := mux.NewRouter()

	router.HandleFunc("/health", h.HealthCheck).Methods("GET")

	api := router.PathPrefix("/api").Subrouter()
	api.HandleFunc("/products", h.ListProducts).Methods("GET")
	api.HandleFunc("/auth/login", h.Login).Methods("POST")

	bidding := api.PathPrefix("/bidding").Subrouter()
	bidding.Use(h.requireRole(models.RoleTrader))
	bidding.HandleFunc("/active", h.ActiveListings).Methods("GET")

	router.Use(loggingMiddleware)
	router.Use(corsMiddleware)

	return router
}

// HealthCheck returns service health status
func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{
		"status":  "healthy",
		"service": "api-gateway",
		"time":    time.Now().UTC().Format(time.RFC3339),
	})
}

// ActiveListings returns the wholesale listings open for bidding
func (h *Handler) ActiveListings(w http.ResponseWriter, r *http.Request) {
	listings, err := h.catalog.ActiveListings(r.Context())
	if err != nil {
		fields := map[string]any{"error": err.Error()}
		if claims, ok := ClaimsFrom(r.Context()); ok {
			fields["user_id"] = claims.Subject
		}
		logger.Error("failed to load active listings", fields)
		respondError(w, http.StatusInternalServerError, "Failed to load active listings")
		return
	}
	respondPage(w, listings)
}

// ListProducts returns the product catalog
func (h *Handler) ListProducts(w http.ResponseWriter, r *http.Request) {
	products, err := h.catalog.Products(r.Context())
	if err != nil {
		logger.Error("failed to load products", map[string]any{"error": err.Error()})
		respondError(w, http.StatusInternalServerError, "Failed to load products")
		return
	}
	respondPage(w, products)
}

// Login handles mock logins
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	res, err := h.catalog.Login(r.Context(), req)
	if errors.Is(err, service.ErrInvalidLogin) {
		respondError(w, http.StatusBadRequest, "Phone and a valid role are required")
		return
	}
	if err != nil {
		logger.Error("login failed", map[string]any{"error": err.Error()})
		respondError(w, http.StatusInternalServerError, "Login failed")
		return
	}

	respondJSON(w, http.StatusOK, models.Response[*models.LoginResult]{Success: true, Data: res})
}

// requireRole rejects requests without a valid bearer token (401) or
// whose token carries another role (403)
func (h *Handler) requireRole(role models.Role) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, err := auth.BearerToken(r)
			if err != nil {
				respondError(w, http.StatusUnauthorized, "Authentication required")
				return
			}
			claims, err := h.auth.Verify(token)
			if err != nil {
				respondError(w, http.StatusUnauthorized, "Invalid or expired token")
				return
			}
			if claims.Role != role {
				respondError(w, http.StatusForbidden, "Access restricted to "+string(role)+"s")
				return
			}

			next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), ctxKey{}, claims)))
		})
	}
}

// ClaimsFrom returns the verified token claims of an authenticated request
func ClaimsFrom(ctx context.Context) (*auth.Claims, bool) {
	claims, ok := ctx.Value(ctxKey{}).(*auth.Claims)
	return claims, ok
}

func respondPage[T any](w http.ResponseWriter, items []T) {
	if items == nil {
		items = []T{}
	}
	respondJSON(w, http.StatusOK, models.Response[models.Page[T]]{
		Success: true,
		Data:    models.Page[T]{Data: items},
	})
}

// respondJSON sends a JSON response
func respondJSON(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(data)
}

// respondError sends an error response
func respondError(w http.ResponseWriter, statusCode int, message string) {
	respondJSON(w, statusCode, models.Response[any]{Success: false, Message: message})
}

// statusRecorder captures the status code written by a handler
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// loggingMiddleware logs all HTTP requests
func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)

		logger.Info("request", map[string]any{
			"method":   r.Method,
			"path":     r.RequestURI,
			"status":   rec.status,
			"duration": time.Since(start).String(),
		})
	})
}

// corsMiddleware adds CORS headers (for development)
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}
