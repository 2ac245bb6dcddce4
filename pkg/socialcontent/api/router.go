package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/jwtauth"
)

// Router bundles the handlers into the service's HTTP surface.
type Router struct {
	auth     *AuthHandler
	contents *ContentHandler
	users    *UserHandler
	hashtags *HashtagHandler
	tokens   *jwtauth.JWTAuth
}

// NewRouter creates a new router over the given handlers.
func NewRouter(auth *AuthHandler, contents *ContentHandler, users *UserHandler, hashtags *HashtagHandler, tokens *jwtauth.JWTAuth) *Router {
	return &Router{
		auth:     auth,
		contents: contents,
		users:    users,
		hashtags: hashtags,
		tokens:   tokens,
	}
}

// Handler sets up the HTTP routes.
func (rt *Router) Handler() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Timeout(60 * time.Second))
	r.Use(LanguageResolver)

	r.Get("/health", handleHealth)

	r.Route("/api/v1", func(r chi.Router) {
		// Public reads
		r.Get("/contents/{id}", rt.contents.GetContent)
		r.Get("/users/{id}", rt.users.GetUser)
		r.Get("/users/{id}/contents", rt.contents.ListUserContents)

		// Public account surface
		r.Post("/accounts", rt.auth.CreateAccount)
		r.Post("/accounts/login", rt.auth.Login)

		// Routes requiring a credential
		r.Group(func(r chi.Router) {
			r.Use(CredentialResolver(rt.tokens))
			r.Post("/accounts/register", rt.auth.Register)
			r.Post("/accounts/verify", rt.auth.Verify)
			r.Mount("/pages", rt.users.PageRoutes())
			r.Mount("/hashtags", rt.hashtags.Routes())

			r.Post("/contents", rt.contents.CreateContent)
			r.Put("/contents/{id}", rt.contents.UpdateContent)
			r.Delete("/contents/{id}", rt.contents.DeleteContent)
		})
	})

	return r
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"healthy"}`))
}
