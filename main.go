package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/duel-keeper/internal/clock"
	"github.com/mauv0809/duel-keeper/internal/config"
	server "github.com/mauv0809/duel-keeper/internal/http"
	"github.com/mauv0809/duel-keeper/internal/metrics"
	"github.com/mauv0809/duel-keeper/internal/notifier"
	"github.com/mauv0809/duel-keeper/internal/notifier/relay"
	"github.com/mauv0809/duel-keeper/internal/notifier/slack"
	"github.com/mauv0809/duel-keeper/internal/pubsub"
	"github.com/mauv0809/duel-keeper/internal/scheduler"
	"github.com/mauv0809/duel-keeper/internal/stats"
	"github.com/mauv0809/duel-keeper/internal/tournament"
)

func main() {
	// Start profiling timer
	startTime := time.Now()
	log.SetFormatter(log.JSONFormatter)
	cfg := config.Load()
	if level, err := log.ParseLevel(cfg.LogLevel); err == nil {
		log.SetLevel(level)
	} else {
		log.Warn("Unknown log level, keeping default", "level", cfg.LogLevel)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	clk := clock.New()
	backend, err := tournament.Open(cfg, clk)
	storeInitDuration := time.Since(startTime)
	log.Info("Store initialization time recorded", "backend", cfg.StoreBackend, "duration_ms", storeInitDuration.Milliseconds())
	if err != nil {
		log.Fatalf("Failed to open record store: %s", err)
	}
	defer func() {
		log.Info("Closing record store")
		backend.Close()
	}()

	metricsSvc := metrics.NewService()
	metricsHandler := metrics.NewMetricsHandler()

	var opts []server.Option
	var n notifier.Notifier
	switch cfg.Notifier.Kind {
	case config.NotifierSlack:
		n = slack.NewNotifier(cfg.Notifier.Slack.Token, cfg.Notifier.Slack.UserMap)
	case config.NotifierPubSub:
		client, err := pubsub.New(ctx, cfg.Notifier.ProjectID)
		if err != nil {
			log.Fatalf("Failed to initialize pubsub: %s", err)
		}
		defer client.Close()
		n = relay.New(client)
		// This instance may also be the push target that performs delivery.
		if cfg.Notifier.Slack.Token != "" {
			opts = append(opts, server.WithNotificationRelay(client, slack.NewNotifier(cfg.Notifier.Slack.Token, cfg.Notifier.Slack.UserMap)))
		}
	default:
		n = notifier.NewLogNotifier()
	}
	log.Info("Notifier configured", "kind", cfg.Notifier.Kind)

	sched := scheduler.New(backend.Store, n, metricsSvc, clk, scheduler.Options{
		Interval: cfg.Scheduler.PollInterval,
		Lead:     cfg.Scheduler.ReminderLead,
		Server:   cfg.Scheduler.GameServer,
	})
	engine := stats.New(backend.Store)

	s := server.NewServer(
		backend.Store,
		engine,
		sched,
		backend,
		metricsHandler,
		cfg,
		clk,
		opts...,
	)

	go sched.Run(ctx)

	// --- Record startup time ---
	startupDuration := time.Since(startTime)
	metricsSvc.SetStartupTime(startupDuration.Seconds())
	log.Info("Startup time recorded", "duration_ms", startupDuration.Milliseconds())

	// --- Graceful shutdown setup ---
	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: s,
	}

	// Channel to listen for errors coming from the server
	serverErrors := make(chan error, 1)

	go func() {
		log.Info("Server started", "port", cfg.Port)
		serverErrors <- srv.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if err != nil && err != http.ErrServerClosed {
			log.Error("Server error", "error", err)
		}
	case sig := <-shutdown:
		log.Info("Shutdown signal received", "signal", sig)

		// Stop the scheduler before draining HTTP.
		cancel()

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error("Server shutdown failed", "error", err)
		} else {
			log.Info("Server gracefully stopped")
		}
	}

	log.Info("Server process shutting down")
}
