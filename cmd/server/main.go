package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"

	httpapi "github.com/accreditation-hub/accreditation-hub/internal/api/http"
	appAccreditation "github.com/accreditation-hub/accreditation-hub/internal/application/accreditation"
	"github.com/accreditation-hub/accreditation-hub/internal/application/expiry"
	"github.com/accreditation-hub/accreditation-hub/internal/application/transition"
	"github.com/accreditation-hub/accreditation-hub/internal/config"
	"github.com/accreditation-hub/accreditation-hub/internal/domain/accreditation"
	"github.com/accreditation-hub/accreditation-hub/internal/infrastructure/dispatch"
	"github.com/accreditation-hub/accreditation-hub/internal/infrastructure/metrics"
	"github.com/accreditation-hub/accreditation-hub/internal/infrastructure/postgres"
)

func main() {
	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("db error: %v", err)
	}
	defer pool.Close()

	if err := postgres.RunMigrations(ctx, pool, cfg.MigrationsDir); err != nil {
		log.Fatalf("migration error: %v", err)
	}

	repo := postgres.NewAccreditationRepository(pool)
	m := metrics.New(prometheus.DefaultRegisterer)

	// the applier handles dispatched requests, the scheduler submits expiry
	// requests back through the dispatcher; the applier pointer closes that
	// loop and is assigned before anything can submit
	var applier *transition.Service
	dispatcher := dispatch.NewDispatcher(
		dispatch.HandlerFunc(func(ctx context.Context, id uuid.UUID, target accreditation.Status) (bool, error) {
			return applier.Apply(ctx, id, target)
		}),
		cfg.DispatchMaxRetries, cfg.DispatchRetryBackoff, m, logger,
	)
	scheduler := expiry.NewScheduler(repo, dispatcher, cfg.ExpiryPollInterval, m, logger)
	applier = transition.NewService(repo, scheduler, cfg.ExpiryDuration, m, logger)
	accreditationSvc := appAccreditation.NewService(repo, dispatcher, m, logger)

	// confirmed accreditations keep their expiry timers across restarts
	if err := scheduler.Rearm(ctx, cfg.ExpiryDuration); err != nil {
		log.Fatalf("rearm error: %v", err)
	}

	apiServer := httpapi.NewServer(accreditationSvc)
	httpServer := &http.Server{
		Addr:         cfg.ServerAddr,
		Handler:      apiServer.Router(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info().Str("addr", cfg.ServerAddr).Msg("http server started")
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("http server failed")
		}
	}()

	// graceful shutdown: stop intake, then drain the lanes
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	ctxShutdown, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = httpServer.Shutdown(ctxShutdown)
	scheduler.Stop()
	dispatcher.Close()
}
