package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"recruitment-tracker/config"
	"recruitment-tracker/infrastructure"
	"recruitment-tracker/interfaces"
	"recruitment-tracker/service"
)

func newServeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			return serve(cmd.Context(), cfg)
		},
	}
}

func serve(ctx context.Context, cfg *config.Config) error {
	log := infrastructure.NewLogger(cfg.LogLevel, cfg.LogFormat)

	db, err := infrastructure.NewDatabase(cfg.Database, log)
	if err != nil {
		return err
	}
	defer closeDB(db)

	if cfg.SeedOnStart {
		n, err := infrastructure.SeedDefaults(db)
		if err != nil {
			return err
		}
		log.WithField("roles", n).Info("seed finished")
	}

	var events service.EventPublisher
	if cfg.RabbitMQURL != "" {
		rmq, err := infrastructure.NewRabbitMQ(cfg.RabbitMQURL, cfg.EventsQueue, log)
		if err != nil {
			return err
		}
		defer rmq.Close()
		events = rmq
	} else {
		log.Info("RABBITMQ_URL not set, stage events are not published")
	}

	var limiter infrastructure.Limiter = infrastructure.NewMemoryLimiter()
	if cfg.RedisURL != "" {
		redisLimiter, err := infrastructure.NewRedisLimiter(cfg.RedisURL)
		if err != nil {
			return err
		}
		defer redisLimiter.Close()
		limiter = redisLimiter
	}

	renderer, err := infrastructure.NewPDFRenderer(cfg.UnidocLicenseKey)
	if err != nil {
		return err
	}

	router, err := interfaces.NewRouter(&interfaces.HTTPHandler{
		DB:               db,
		Catalog:          service.NewCatalog(db),
		Progression:      service.NewProgression(db, events, log),
		Aggregator:       service.NewAggregator(db),
		PDF:              renderer,
		DOCX:             infrastructure.NewDOCXRenderer(),
		Limiter:          limiter,
		Log:              log,
		ExportRateLimit:  cfg.ExportRateLimit,
		ExportRateWindow: cfg.ExportRateWindow,
	}, cfg.TrustedProxies)
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		log.WithField("addr", cfg.HTTPAddr).Info("🚀 Server running")
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

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
