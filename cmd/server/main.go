package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	emailPkg "batalhao/internal/adapters/email"
	web "batalhao/internal/adapters/http"
	"batalhao/internal/adapters/http/middleware"
	"batalhao/internal/adapters/http/perf"
	"batalhao/internal/adapters/storage"
	"batalhao/internal/app"
	"batalhao/internal/application/orchestrators"
	"batalhao/internal/config"
)

// version is set at build time via -ldflags "-X main.version=..."
var version = "dev"

// shutdownTimeout bounds how long in-flight requests get after a signal.
const shutdownTimeout = 15 * time.Second

func main() {
	if err := run(); err != nil {
		slog.Error("server_event", "event", "fatal", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.LoadFromEnv()
	if err != nil {
		return err
	}
	slog.SetDefault(newLogger(cfg))

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	csrfKey, err := cfg.CSRFKeyBytes()
	if err != nil {
		return err
	}

	// Performance instrumentation covers SQL and collection I/O.
	collector := perf.NewCollector(perf.DefaultRingSize)
	portal, err := app.Open(cfg, collector)
	if err != nil {
		return err
	}
	defer portal.Close()

	for _, r := range portal.VerifyCollections(context.Background()) {
		if r.Err != nil {
			slog.Warn("store_event", "event", "collection_unreadable", "collection", r.Name, "path", r.Path, "error", r.Err)
		}
	}

	// Seed the first admin if no accounts exist
	seedDeps := orchestrators.CreateAccountDeps{
		AccountStore: portal.Stores.AccountStore,
		GenerateID:   uuid.NewString,
		Now:          time.Now,
	}
	if err := orchestrators.ExecuteSeedAdmin(context.Background(), seedDeps, cfg.AdminEmail, cfg.AdminPassword); err != nil {
		return fmt.Errorf("seed admin: %w", err)
	}

	// Test accounts and demo content for development only
	if !cfg.IsProduction() {
		if err := orchestrators.ExecuteSeedTestAccounts(context.Background(), orchestrators.TestAccountSeedDeps{
			AccountStore: portal.Stores.AccountStore,
			GenerateID:   uuid.NewString,
			Now:          time.Now,
		}, cfg.AdminPassword); err != nil {
			return fmt.Errorf("seed test accounts: %w", err)
		}
		if err := orchestrators.ExecuteSeedDemoContent(context.Background(), orchestrators.DemoSeedDeps{
			HierarchyStore: portal.Stores.HierarchyStore,
			VideoStore:     portal.Stores.VideoStore,
			GenerateID:     uuid.NewString,
			Now:            time.Now,
		}); err != nil {
			return fmt.Errorf("seed demo content: %w", err)
		}
	}

	sessions := middleware.NewSessionStore(cfg.GetSessionTTL())
	var limiter *middleware.RateLimiter
	if cfg.RateLimit > 0 {
		limiter = middleware.NewRateLimiter(cfg.RateLimit, time.Second)
	}

	handler := web.NewMux(web.Options{
		StaticDir:      cfg.StaticDir,
		CSRFKey:        csrfKey,
		SecureCookies:  cfg.IsProduction(),
		TrustedOrigins: cfg.TrustedOrigins,
		Sessions:       sessions,
		Limiter:        limiter,
		Perf:           collector,
		SlowRequest:    cfg.GetSlowRequest(),
		EmailSender:    newEmailSender(cfg),
		PanelURL:       cfg.PanelURL,
	}, portal.Stores)

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		slog.Info("server_event", "event", "listening", "addr", cfg.Addr, "version", version,
			"env", cfg.Env, "schema", storage.LatestSchemaVersion())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		slog.Info("server_event", "event", "shutting_down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	g.Go(func() error {
		return sessions.Reap(ctx, 10*time.Minute)
	})
	if limiter != nil {
		g.Go(func() error {
			return limiter.Run(ctx)
		})
	}

	err = g.Wait()
	slog.Info("server_event", "event", "stopped", "sessions_dropped", sessions.Len())
	return err
}

func newLogger(cfg *config.Config) *slog.Logger {
	opts := &slog.HandlerOptions{Level: cfg.SlogLevel()}
	if cfg.JSONLogs() {
		return slog.New(slog.NewJSONHandler(os.Stdout, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stdout, opts))
}

func newEmailSender(cfg *config.Config) emailPkg.Sender {
	if cfg.ResendKey != "" {
		slog.Info("email_event", "event", "sender_configured", "provider", "resend")
		return emailPkg.NewResendSender(cfg.ResendKey, cfg.EmailFrom)
	}
	if cfg.IsProduction() {
		slog.Warn("email_event", "event", "sender_disabled", "hint", "set BATALHAO_RESEND_KEY")
	} else {
		slog.Info("email_event", "event", "sender_configured", "provider", "noop")
	}
	return emailPkg.NewNoopSender()
}
