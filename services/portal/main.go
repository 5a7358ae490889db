package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	mw "github.com/diagnosis/visitor-portal/internal/http/middleware"
	"github.com/diagnosis/visitor-portal/internal/platform/mailer"
	"github.com/diagnosis/visitor-portal/internal/session"
	"github.com/diagnosis/visitor-portal/pkg/config"
	"github.com/diagnosis/visitor-portal/pkg/events"
	"github.com/diagnosis/visitor-portal/pkg/logger"
	pkgmw "github.com/diagnosis/visitor-portal/pkg/middleware"
	"github.com/diagnosis/visitor-portal/services/portal/internal/handlers"
	"github.com/diagnosis/visitor-portal/services/portal/internal/remote"
	"github.com/diagnosis/visitor-portal/services/portal/internal/views"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

func main() {
	cfg := config.Load()
	logger.Configure(os.Stdout, cfg.Log.Level)

	store, err := newStore(cfg.Redis)
	if err != nil {
		logger.Error("Failed to connect session store", "error", err)
		os.Exit(1)
	}
	defer store.Close()

	publisher := newPublisher(cfg.NATS)
	defer publisher.Close()

	renderer, err := views.New()
	if err != nil {
		logger.Error("Failed to parse templates", "error", err)
		os.Exit(1)
	}

	api := remote.NewClient(cfg.API.BaseURL, cfg.API.Timeout)
	sessions := session.NewManager(store, session.Options{
		TTL:          cfg.Session.TTL,
		SignUpTTL:    cfg.Session.SignUpTTL,
		RememberTTL:  cfg.Session.RememberTTL,
		Secure:       cfg.Session.CookieSecure,
		CookiePrefix: cfg.Session.CookiePrefix,
	})

	h := handlers.New(handlers.Deps{
		API:      api,
		Sessions: sessions,
		Views:    renderer,
		Events:   publisher,
		Mailer:   mailer.New(cfg.Email),
		Helpdesk: cfg.Email.HelpdeskEmail,
	})

	limiter := mw.NewRateLimiter(store, mw.RateLimitConfig{
		Requests: cfg.RateLimit.Requests,
		Window:   cfg.RateLimit.Window,
		KeyFunc:  mw.ClientIPKeyFunc,
		SkipFunc: mw.OnlyMethods(http.MethodPost),
		OnLimit:  h.TooManyAttempts,
	})

	// Setup router
	r := chi.NewRouter()

	// Global middleware
	r.Use(pkgmw.RequestID)
	r.Use(pkgmw.ServiceName("portal"))
	if cfg.Server.TrustProxy {
		r.Use(middleware.RealIP)
	}
	r.Use(pkgmw.Logging)
	r.Use(pkgmw.Recover)
	r.Use(pkgmw.Health)

	r.Mount("/", h.Routes(limiter, cfg.Server.CORSOrigins))

	// Start server
	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	// Graceful shutdown
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		logger.Info("Shutting down portal...")

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			logger.Error("Portal shutdown error", "error", err)
		}
	}()

	logger.Info("Starting portal",
		"port", cfg.Server.Port,
		"api_base_url", api.BaseURL(),
		"redis", cfg.Redis.URL != "",
		"nats", cfg.NATS.URL != "",
	)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error("Portal server error", "error", err)
		os.Exit(1)
	}
}

// newStore connects to Redis when configured and keeps sessions in memory
// otherwise.
func newStore(cfg config.RedisConfig) (session.Store, error) {
	if cfg.URL == "" {
		logger.Warn("REDIS_URL not set, sessions are kept in memory")
		return session.NewMemoryStore(), nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	store, err := session.NewRedisStore(ctx, cfg.URL, cfg.Password, cfg.DB)
	if err != nil {
		return nil, err
	}
	return store, nil
}

// newPublisher connects to NATS when configured. A failed connection
// disables events rather than stopping the portal.
func newPublisher(cfg config.NATSConfig) events.Publisher {
	if cfg.URL == "" {
		return events.Nop{}
	}
	bus, err := events.NewNATSEventBus(cfg.URL)
	if err != nil {
		logger.Warn("NATS unavailable, events disabled", "error", err)
		return events.Nop{}
	}
	return bus
}
