// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package main

import (
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/sync/errgroup"

	"github.com/gbesset/alyra-voting/cliparse"
	"github.com/gbesset/alyra-voting/db"
	"github.com/gbesset/alyra-voting/metrics"
	"github.com/gbesset/alyra-voting/notify"
	"github.com/gbesset/alyra-voting/router"
	"github.com/gbesset/alyra-voting/sessions"
	"github.com/gbesset/alyra-voting/telemetry"
)

const shutdownTimeout = 10 * time.Second

func main() {
	// Load .env when present; real environment variables take precedence
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		slog.Warn("failed to load .env", "error", err)
	}

	// Parse configuration
	cfg, err := cliparse.ParseFlags(os.Args[1:])
	if err != nil {
		slog.Error("Error parsing flags", "error", err)
		os.Exit(1)
	}
	slog.SetDefault(newLogger(cfg))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg); err != nil {
		slog.Error("Server closed", "error", err)
		os.Exit(1)
	}
	slog.Info("Server closed")
}

func newLogger(cfg cliparse.Config) *slog.Logger {
	level, _ := cfg.SlogLevel()
	opts := &slog.HandlerOptions{Level: level}
	if cfg.LogFormat == "json" {
		return slog.New(slog.NewJSONHandler(os.Stderr, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stderr, opts))
}

func run(ctx context.Context, cfg cliparse.Config) error {
	shutdownTracing, err := telemetry.Setup(ctx, "alyra-voting", cfg.OtelEndpoint)
	if err != nil {
		return err
	}
	defer shutdownTracing(context.Background())

	// Connect to the journal database
	dbConn, err := db.Open(cfg.DatabaseType, cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer dbConn.Close()

	if err := db.CreateSchema(dbConn); err != nil {
		return err
	}
	slog.Info("Database schema ready", "type", cfg.DatabaseType)

	journal := db.NewJournal(dbConn)
	m := metrics.New(prometheus.DefaultRegisterer)

	sinks := []notify.Sink{
		notify.NewLogSink(slog.Default()),
		journal,
		notify.NewMetricsSink(m),
	}

	if cfg.RedisURL != "" {
		client, err := notify.ConnectRedis(ctx, cfg.RedisURL)
		if err != nil {
			return err
		}
		defer client.Close()
		sinks = append(sinks, notify.NewRedisSink(client, cfg.RedisChannel))
		slog.Info("Publishing events to redis", "channel", cfg.RedisChannel)
	}

	if len(cfg.KafkaBrokers) > 0 {
		client, err := notify.NewKafkaClient(cfg.KafkaBrokers)
		if err != nil {
			return err
		}
		defer client.Close()
		sinks = append(sinks, notify.NewKafkaSink(client, cfg.KafkaTopic))
		slog.Info("Publishing events to kafka", "brokers", cfg.KafkaBrokers, "topic", cfg.KafkaTopic)
	}

	dispatcher := notify.NewDispatcher(cfg.EventBuffer, sinks)
	registry := sessions.NewRegistry(dispatcher.For)

	server := &http.Server{
		Handler:           router.NewRouter(registry, journal, m, prometheus.DefaultGatherer, cfg),
		Addr:              ":" + strconv.Itoa(cfg.Port),
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return dispatcher.Run(gctx)
	})

	g.Go(func() error {
		slog.Info("Listening", "port", cfg.Port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		slog.Info("Shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		err := server.Shutdown(shutdownCtx)

		// Requests are finished, so engines emit nothing more; let Run drain
		dispatcher.Close()
		return err
	})

	return g.Wait()
}
