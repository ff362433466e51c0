package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/serenelabs/serenity/internal/auth"
	"github.com/serenelabs/serenity/internal/config"
	"github.com/serenelabs/serenity/internal/handler"
	"github.com/serenelabs/serenity/internal/service/ai"
	chatservice "github.com/serenelabs/serenity/internal/service/chat"
	"github.com/serenelabs/serenity/internal/service/exchange"
	"github.com/serenelabs/serenity/internal/store"
	"github.com/serenelabs/serenity/internal/store/postgres"
	"github.com/serenelabs/serenity/internal/store/sqlite"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Load .env file
	if err := godotenv.Load(); err != nil {
		log.Printf("warning: failed to load .env file: %v", err)
		log.Println("continuing with system environment variables only")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	persistence, err := openStore(ctx, cfg.Database)
	if err != nil {
		log.Fatalf("failed to open store: %v", err)
	}
	defer persistence.Close()

	tokens := auth.NewTokenService(cfg.Auth.JWTSecret, time.Duration(cfg.Auth.TokenTTLDays)*24*time.Hour)
	chatSvc := chatservice.NewService()

	gateway := buildGateway(ctx, cfg.AI)
	exchangeSvc := exchange.NewService(chatSvc, gateway, time.Duration(cfg.AI.TimeoutSeconds)*time.Second)

	router := handler.NewRouter(chatSvc, exchangeSvc, gateway, persistence, tokens)

	startServer(ctx, cfg.Server, router)
}

func openStore(ctx context.Context, cfg config.DatabaseConfig) (store.Store, error) {
	if cfg.PostgresURL != "" {
		s, err := postgres.Open(ctx, cfg.PostgresURL)
		if err != nil {
			return nil, err
		}
		log.Println("using Postgres persistence")
		return s, nil
	}

	s, err := sqlite.Open(ctx, cfg.SQLitePath)
	if err != nil {
		return nil, err
	}
	log.Printf("using SQLite persistence at %s", cfg.SQLitePath)
	return s, nil
}

// buildGateway picks the configured AI provider, falling back to the local
// classifier/composer so the service keeps answering without credentials.
func buildGateway(ctx context.Context, cfg config.AIConfig) ai.Gateway {
	switch cfg.Resolve() {
	case config.ProviderArk:
		gateway, err := ai.NewArkGateway(ctx, cfg.Ark)
		if err != nil {
			log.Printf("warning: failed to initialize Ark gateway: %v", err)
			log.Println("continuing with the local fallback responder")
			return ai.NewLocalGateway(nil)
		}
		log.Println("AI gateway initialized: ark")
		return gateway
	case config.ProviderOpenAI:
		gateway, err := ai.NewOpenAIGateway(cfg.OpenAI)
		if err != nil {
			log.Printf("warning: failed to initialize OpenAI gateway: %v", err)
			log.Println("continuing with the local fallback responder")
			return ai.NewLocalGateway(nil)
		}
		log.Println("AI gateway initialized: openai")
		return gateway
	default:
		log.Println("no AI credentials configured, using the local fallback responder")
		return ai.NewLocalGateway(nil)
	}
}

func startServer(ctx context.Context, serverCfg config.ServerConfig, router http.Handler) {
	srv := &http.Server{
		Addr:              serverCfg.Addr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	log.Printf("Serenity backend listening on %s", serverCfg.Addr)
	if err := runServer(ctx, srv); err != nil {
		log.Fatalf("server error: %v", err)
	}
}

func runServer(ctx context.Context, srv *http.Server) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
		err := <-errCh
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}
