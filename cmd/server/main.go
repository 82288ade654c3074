// cmd/server/main.go
package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"

	"github.com/liuyunyi0210-blip/tsa-repair-system-sub000/internal/config"
	"github.com/liuyunyi0210-blip/tsa-repair-system-sub000/internal/handlers"
	"github.com/liuyunyi0210-blip/tsa-repair-system-sub000/internal/logging"
	"github.com/liuyunyi0210-blip/tsa-repair-system-sub000/internal/middleware"
	"github.com/liuyunyi0210-blip/tsa-repair-system-sub000/internal/repo"
	"github.com/liuyunyi0210-blip/tsa-repair-system-sub000/internal/workorder"
)

func main() {
	// --- Load config (.env, config.yaml, env overrides) ---
	_ = godotenv.Load()
	cfg := config.Load()

	// --- Logger ---
	// Configure slog from config: logging.level, logging.format
	logging.Setup(cfg.Logging.Level, cfg.Logging.Format == "json")

	// --- Storage backend ---
	ctx := context.Background()
	var store repo.Repo
	switch cfg.Storage.Backend {
	case "postgres":
		slog.Debug("connecting to database")
		pool, err := pgxpool.New(ctx, cfg.Database.URL)
		if err != nil {
			slog.Error("db connect error", "err", err)
			os.Exit(1)
		}
		defer pool.Close()
		if err := pool.Ping(ctx); err != nil {
			slog.Error("db ping error", "err", err)
			os.Exit(1)
		}
		slog.Debug("database connection ready")
		store = repo.NewPostgres(pool)
	default:
		slog.Warn("using in-memory storage; data is lost on restart")
		store = repo.NewMemory()
	}

	svc := workorder.NewService(store)

	// --- Router ---
	mux := chi.NewRouter()

	// Ensure request ID then log requests with slog
	mux.Use(middleware.RequestID(cfg.Security.RequestID.TrustHeader))
	mux.Use(middleware.SlogRequestLogger)
	if cfg.Security.RateLimit.Enabled {
		mux.Use(middleware.RateLimitWith(cfg.Security.RateLimit.RequestsPerMinute, cfg.Security.RateLimit.Burst, cfg.Security.RateLimit.TTL))
	}

	// --- CORS middleware ---
	mux.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORS.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300, // Maximum value not ignored by browsers
	}))

	// Work orders, reports and registry routes
	handlers.RegisterRoutes(mux, svc, store)

	// Health root
	mux.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte("OK"))
	})

	// --- Start server ---
	addr := cfg.Server.Addr
	if v := os.Getenv("PORT"); v != "" {
		addr = ":" + v
	}
	slog.Info("listening", "addr", addr, "storage", cfg.Storage.Backend)
	if err := http.ListenAndServe(addr, mux); err != nil {
		slog.Error("server error", "err", err)
		os.Exit(1)
	}
}
