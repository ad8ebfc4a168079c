package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/sirupsen/logrus"

	"github.com/vaughan-dsouza/myapp/internal/config"
	"github.com/vaughan-dsouza/myapp/internal/db"
	"github.com/vaughan-dsouza/myapp/internal/events"
	"github.com/vaughan-dsouza/myapp/internal/handlers"
	"github.com/vaughan-dsouza/myapp/internal/logger"
	mw "github.com/vaughan-dsouza/myapp/internal/middleware"
	"github.com/vaughan-dsouza/myapp/internal/router"
	"github.com/vaughan-dsouza/myapp/internal/store"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logrus.Fatalf("config: %v", err)
	}

	log := logger.New(cfg.LogLevel, cfg.LogFormat)

	if err := run(cfg, log); err != nil {
		log.WithError(err).Fatal("server exited with error")
	}
	log.Info("server exited")
}

func run(cfg *config.Config, log *logrus.Logger) error {
	dbConn, err := db.Connect(cfg.DatabaseURL, db.Options{
		MaxOpen:     cfg.DBMaxOpen,
		MaxIdle:     cfg.DBMaxIdle,
		MaxLifetime: cfg.DBMaxLifetime,
	})
	if err != nil {
		return err
	}
	defer dbConn.Close()

	if cfg.DBMigrate {
		if err := db.Migrate(dbConn); err != nil {
			return err
		}
		log.Info("database schema up to date")
	}

	var pub events.Publisher = events.NopPublisher{}
	if len(cfg.KafkaBrokers) > 0 {
		pub = events.NewKafkaPublisher(events.KafkaConfig{
			Brokers: cfg.KafkaBrokers,
			Topic:   cfg.KafkaTopic,
		})
		log.WithField("topic", cfg.KafkaTopic).Info("publishing post events to kafka")
	}
	defer pub.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	handler, err := buildHandler(ctx, cfg, store.NewPostStore(dbConn), pub, log, reg)
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Infof("listening on %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}
	log.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// buildHandler assembles the global URL table: every app router is merged
// into one, wrapped in the shared middleware, next to /metrics.
func buildHandler(
	ctx context.Context,
	cfg *config.Config,
	repo store.PostRepository,
	pub events.Publisher,
	log *logrus.Logger,
	reg *prometheus.Registry,
) (http.Handler, error) {
	h := handlers.NewHandler(repo, pub, log)

	// Posts
	posts := router.New()
	if err := posts.Register("posts", h.Posts); err != nil {
		return nil, err
	}

	api := router.New()
	if err := api.Extend(posts); err != nil {
		return nil, err
	}

	metrics := mw.NewMetrics(reg)

	chain := []func(http.Handler) http.Handler{
		mw.RequestLogger(log),
		middleware.Recoverer,
		metrics.Middleware,
	}
	if cfg.RateLimitRPS > 0 {
		rl := mw.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst, log)
		rl.StartCleanup(ctx, time.Minute, 10*time.Minute)
		chain = append(chain, rl.Handler)
	}
	chain = append(chain, mw.RequireTokenForWrites(cfg.AccessSecret))

	mux := http.NewServeMux()
	mux.Handle("/metrics", metrics.Handler())
	mux.Handle("/", api.Handler(chain...))
	return mux, nil
}
