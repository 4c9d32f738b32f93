package handler

import (
	"io/fs"
	"net/http"

	"github.com/alexedwards/scs/v2"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
	httpSwagger "github.com/swaggo/http-swagger/v2"

	_ "github.com/evesrp/evesrp/docs/swagger"
	"github.com/evesrp/evesrp/internal/api"
	"github.com/evesrp/evesrp/internal/auth"
	"github.com/evesrp/evesrp/internal/cache"
	"github.com/evesrp/evesrp/internal/listing"
	"github.com/evesrp/evesrp/internal/store"
	"github.com/evesrp/evesrp/web"
)

// Deps holds all dependencies required to build the HTTP router.
type Deps struct {
	SessionManager *scs.SessionManager
	AuthHandlers   *auth.Handlers
	AuthMiddleware *auth.Middleware
	Users          *store.UserStore
	Divisions      *store.DivisionStore
	Requests       *store.RequestStore
	Keys           auth.KeyStore
	Choices        *cache.Choices
	Log            logrus.FieldLogger
}

// NewRouter assembles the full chi router with all middleware and routes.
func NewRouter(deps Deps) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RealIP)

	staticSub, err := fs.Sub(web.StaticFS, "static")
	if err != nil {
		panic("failed to sub static FS: " + err.Error())
	}
	r.Handle("/static/*", http.StripPrefix("/static", http.FileServerFS(staticSub)))
	r.Handle("/metrics", promhttp.Handler())
	r.Get("/api/docs/*", httpSwagger.WrapHandler)

	ls := listing.NewService(deps.Requests, deps.Divisions, deps.Log)

	// The API authenticates with bearer keys only and never loads a session.
	r.Mount("/api/v1", api.NewAPIRouter(api.Deps{
		BearerAuth: auth.NewBearerMiddleware(deps.Keys, deps.Users, deps.Log),
		Users:      deps.Users,
		Divisions:  deps.Divisions,
		Requests:   deps.Requests,
		Listing:    ls,
		Choices:    deps.Choices,
		Keys:       deps.Keys,
		Log:        deps.Log,
	}))

	f := flasher{sessions: deps.SessionManager}
	requests := NewRequestsHandler(f, ls, deps.Requests, deps.Log)
	apiKeys := NewAPIKeysHandler(f, deps.Keys, deps.Log)
	divisions := NewDivisionsHandler(f, deps.Divisions, deps.Users, deps.Choices, deps.Log)

	r.Group(func(r chi.Router) {
		r.Use(deps.SessionManager.LoadAndSave)

		r.Get("/auth/login", deps.AuthHandlers.Login)
		r.Get("/auth/callback", deps.AuthHandlers.Callback)
		r.Post("/auth/logout", deps.AuthHandlers.Logout)

		r.Group(func(r chi.Router) {
			r.Use(deps.AuthMiddleware.RequireAuth)

			r.Get("/", func(w http.ResponseWriter, r *http.Request) {
				http.Redirect(w, r, auth.DefaultLanding, http.StatusFound)
			})

			r.Get("/requests/{scope}", requests.List)
			r.Get("/requests/{scope}/*", requests.List)
			r.Post("/requests/{scope}/*", requests.Filter)
			r.Get("/request/{id}", requests.Show)
			r.Post("/request/{id}/status", requests.SetStatus)

			r.Get("/apikeys", apiKeys.Index)
			r.Post("/apikeys", apiKeys.Update)

			r.Get("/divisions", divisions.Index)
			r.With(auth.RequireAdmin).Post("/divisions", divisions.Create)
			r.Get("/divisions/{id}", divisions.Show)
			r.Post("/divisions/{id}", divisions.Update)
		})
	})

	return r
}
