package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/sirupsen/logrus"

	"github.com/evesrp/evesrp/internal/auth"
	"github.com/evesrp/evesrp/internal/cache"
	"github.com/evesrp/evesrp/internal/listing"
	"github.com/evesrp/evesrp/internal/store"
)

// Deps holds all dependencies required to build the API router.
type Deps struct {
	BearerAuth *auth.BearerMiddleware
	Users      *store.UserStore
	Divisions  *store.DivisionStore
	Requests   *store.RequestStore
	Listing    *listing.Service
	Choices    *cache.Choices
	Keys       auth.KeyStore
	Log        logrus.FieldLogger
}

// NewAPIRouter creates a chi sub-router for /api/v1.
// All routes require Bearer key authentication and return application/json.
func NewAPIRouter(deps Deps) chi.Router {
	r := chi.NewRouter()
	r.Use(jsonContentType)
	r.Use(deps.BearerAuth.Authenticate)

	registerRequestRoutes(r, deps.Listing, deps.Requests, deps.Log)
	registerFilterRoutes(r, deps.Choices)
	registerAPIKeyRoutes(r, deps.Keys)
	registerDivisionRoutes(r, deps.Divisions, deps.Users, deps.Choices)

	return r
}

// jsonContentType is a middleware that sets Content-Type: application/json on all responses.
func jsonContentType(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		next.ServeHTTP(w, r)
	})
}

// requireAdmin rejects callers who are not site admins with a JSON 403.
func requireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user := auth.UserFromContext(r.Context())
		if user == nil {
			writeError(w, http.StatusUnauthorized, "unauthorized", "UNAUTHORIZED")
			return
		}
		if !user.IsAdmin() {
			writeError(w, http.StatusForbidden, "forbidden", "FORBIDDEN")
			return
		}
		next.ServeHTTP(w, r)
	})
}
