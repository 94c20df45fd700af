package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"tracking/cmd"
	"tracking/internal/adapters/out/postgres"
	"tracking/internal/metrics"

	"github.com/labstack/gommon/log"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

const shutdownTimeout = 30 * time.Second

func main() {
	config, err := cmd.LoadConfig(os.Getenv("CONFIG_PATH"))
	if err != nil {
		log.Fatalf("Error loading config: %v", err)
	}

	logger := newLogger(config.LogLevel, config.LogFormat)
	slog.SetDefault(logger)

	gormDB, err := postgres.Open(config.DatabaseSettings())
	if err != nil {
		log.Fatalf("Error connecting to database: %v", err)
	}
	if err = postgres.Migrate(gormDB); err != nil {
		log.Fatalf("Error migrating database: %v", err)
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	app := cmd.NewCompositionRoot(config, gormDB, metrics.New(registry), logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	deadLetters := app.CreateDeadLetterPublisher()
	pipeline := app.CreateIngestionPipeline(deadLetters)
	pipeline.Start()

	jobManager := app.CreateJobManager()
	if err = jobManager.StartAll(); err != nil {
		log.Fatalf("Error starting jobs: %v", err)
	}

	consumerDone := make(chan struct{})
	consumer := app.CreateKafkaConsumer(pipeline, deadLetters)
	if consumer != nil {
		go func() {
			defer close(consumerDone)
			if err := consumer.Run(ctx); err != nil {
				logger.Error("kafka consumer stopped", "error", err)
			}
		}()
	} else {
		close(consumerDone)
	}

	e, err := app.CreateRouter(ctx, pipeline, registry)
	if err != nil {
		log.Fatalf("Error building router: %v", err)
	}

	go func() {
		address := fmt.Sprintf("0.0.0.0:%s", config.HTTPPort)
		logger.Info("http server listening", "address", address)
		if err := e.Start(address); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Error starting http server: %v", err)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err = e.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown", "error", err)
	}
	<-consumerDone
	if consumer != nil {
		if err = consumer.Close(); err != nil {
			logger.Error("kafka consumer close", "error", err)
		}
	}
	pipeline.Stop()
	jobManager.StopAll()
	if err = app.Close(); err != nil {
		logger.Error("release clients", "error", err)
	}
	if err = postgres.Close(gormDB); err != nil {
		logger.Error("database close", "error", err)
	}
}

func newLogger(level, format string) *slog.Logger {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		lvl = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: lvl}
	if strings.EqualFold(format, "text") {
		return slog.New(slog.NewTextHandler(os.Stdout, opts))
	}
	return slog.New(slog.NewJSONHandler(os.Stdout, opts))
}
