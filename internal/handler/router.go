package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/serenelabs/serenity/internal/auth"
	authhandler "github.com/serenelabs/serenity/internal/handler/auth"
	chathandler "github.com/serenelabs/serenity/internal/handler/chat"
	moodhandler "github.com/serenelabs/serenity/internal/handler/mood"
	"github.com/serenelabs/serenity/internal/middleware"
	"github.com/serenelabs/serenity/internal/service/ai"
	chatservice "github.com/serenelabs/serenity/internal/service/chat"
	"github.com/serenelabs/serenity/internal/service/exchange"
	"github.com/serenelabs/serenity/internal/store"
)

// NewRouter wires HTTP routes to core services. Chat is reachable without an
// account; mood history and profile require a bearer token.
func NewRouter(
	chatSvc *chatservice.Service,
	exchangeSvc *exchange.Service,
	gateway ai.Gateway,
	persistence store.Store,
	tokens *auth.TokenService,
) http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.CORS)

	authHandler := authhandler.New(persistence, tokens)
	chatHandler := chathandler.New(chatSvc, exchangeSvc, gateway)
	moodHandler := moodhandler.New(persistence)

	r.Route("/api", func(api chi.Router) {
		authHandler.RegisterRoutes(api)
		chatHandler.RegisterRoutes(api)

		api.Group(func(private chi.Router) {
			private.Use(tokens.Middleware)
			private.Get("/auth/me", authHandler.HandleMe)
			moodHandler.RegisterRoutes(private)
		})
	})

	return r
}
