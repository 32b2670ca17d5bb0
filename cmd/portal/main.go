package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/zealess/doj-frontend/internal/audit"
	"github.com/zealess/doj-frontend/internal/bootstrap"
	"github.com/zealess/doj-frontend/internal/config"
	"github.com/zealess/doj-frontend/internal/guard"
	"github.com/zealess/doj-frontend/internal/httpapi"
	"github.com/zealess/doj-frontend/internal/identity"
	"github.com/zealess/doj-frontend/internal/profile"
	"github.com/zealess/doj-frontend/internal/session"
	"github.com/zealess/doj-frontend/pkg/logger"
	"github.com/zealess/doj-frontend/pkg/utils"
)

func main() {
	// Root context that cancels on shutdown
	rootCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("config load failed", "err", err)
		os.Exit(1)
	}

	log := logger.New(cfg.App.Env)
	slog.SetDefault(log)

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	backend, err := identity.NewHTTPBackend(cfg.Backend.BaseURL, cfg.Backend.Timeout)
	if err != nil {
		log.Error("identity backend init failed", "err", err)
		os.Exit(1)
	}

	// Session records: redis when configured, process memory otherwise.
	var store session.Store
	if cfg.SessionsInRedis() {
		rdb, err := utils.OpenRedis(rootCtx, utils.RedisConfig{Addr: cfg.RedisAddr()})
		if err != nil {
			log.Error("redis init failed", "err", err)
			os.Exit(1)
		}
		defer rdb.Close()
		store = session.NewRedisStore(rdb, cfg.Session.CookieMaxAge)
	} else {
		log.Warn("redis not configured, sessions held in process memory")
		store = session.NewMemoryStore()
	}

	sessions := session.NewManager(store, session.CookieConfig{
		Name:   cfg.Session.CookieName,
		MaxAge: cfg.Session.CookieMaxAge,
		Secure: cfg.Session.CookieSecure,
	})

	// Audit journal: Postgres when configured, memory otherwise.
	var journal audit.Repository = audit.NewMemoryRepo()
	if cfg.AuditEnabled() {
		db, err := utils.OpenPostgres(rootCtx, "pgx", cfg.PostgresDSN(), utils.PostgresPoolConfig{})
		if err != nil {
			log.Error("postgres init failed", "err", err)
			os.Exit(1)
		}
		defer db.Close()
		journal = audit.NewPostgresRepo(db)
	}

	h := httpapi.Handlers{
		Backend:   backend,
		Sessions:  sessions,
		Boot:      bootstrap.New(backend, sessions, log),
		Editor:    profile.NewEditor(backend, sessions),
		Audit:     audit.NewService(journal),
		EntryPath: cfg.Session.EntryPath,
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(logger.Middleware(log))

	httpapi.RegisterRoutes(r, h, guard.RequireCredential(cfg.Session.CookieName, cfg.Session.EntryPath))

	srv := &http.Server{
		Addr:              cfg.HTTPAddr(),
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		log.Info("portal listening", "addr", srv.Addr, "env", cfg.App.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("http server failed", "err", err)
			stop()
		}
	}()

	<-rootCtx.Done()
	log.Info("shutdown initiated")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 20*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("http shutdown failed", "err", err)
	}
}
