package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/mailvault-systems/mailvault-stack/archiver/internal/archive"
	"github.com/mailvault-systems/mailvault-stack/archiver/internal/config"
	"github.com/mailvault-systems/mailvault-stack/archiver/internal/consumer"
	"github.com/mailvault-systems/mailvault-stack/archiver/internal/handlers"
	"github.com/mailvault-systems/mailvault-stack/archiver/internal/registry"
	"github.com/mailvault-systems/mailvault-stack/archiver/internal/server"
	"github.com/mailvault-systems/mailvault-stack/archiver/internal/store"
	"github.com/mailvault-systems/mailvault-stack/common/logging"
	natsqueue "github.com/mailvault-systems/mailvault-stack/common/messaging/nats"
)

func main() {
	configPath := flag.String("config", "", "path to config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger := logging.New(
		logging.ParseLevel(cfg.Logging.Level),
		cfg.Logging.Format,
	).With(logging.Service("archiver"))
	logging.SetDefault(logger)

	slog.Info("Starting Archiver service",
		slog.Int("port", cfg.Server.Port),
		slog.String("queue_url", cfg.Queue.URL),
		slog.String("opensearch_url", cfg.OpenSearch.URL),
		slog.String("archive_index", cfg.OpenSearch.Index),
	)
	if *configPath != "" {
		slog.Info("Loaded configuration", slog.String("config_path", *configPath))
	}

	objectStore, err := store.NewOpenSearchStore(store.Config{
		URL:           cfg.OpenSearch.URL,
		Username:      cfg.OpenSearch.Username,
		Password:      cfg.OpenSearch.Password,
		TLSSkipVerify: cfg.OpenSearch.TLSSkipVerify,
		Index:         cfg.OpenSearch.Index,
	})
	if err != nil {
		log.Fatalf("Failed to create object store client: %v", err)
	}

	initCtx, initCancel := context.WithTimeout(context.Background(), 30*time.Second)
	if err := objectStore.Initialize(initCtx); err != nil {
		log.Fatalf("Failed to initialize archive index: %v", err)
	}
	initCancel()

	queueCfg := natsqueue.DefaultConfig()
	queueCfg.URL = cfg.Queue.URL
	queueCfg.Name = "mailvault-archiver"
	queueCfg.Stream = cfg.Queue.Stream
	queueCfg.Subject = cfg.Queue.Subject
	queueCfg.Consumer = cfg.Queue.Consumer
	queueCfg.AckWait = cfg.Queue.AckWait

	queue, err := natsqueue.NewQueue(context.Background(), queueCfg)
	if err != nil {
		log.Fatalf("Failed to create queue client: %v", err)
	}
	defer queue.Close()

	reg := registry.New()

	loop := consumer.New(queue, archive.New(objectStore), reg, consumer.Config{
		BatchSize:    cfg.Consumer.BatchSize,
		WaitTime:     cfg.Consumer.WaitTime,
		PollInterval: cfg.Consumer.PollInterval,
	}, logger)

	loopCtx, stopLoop := context.WithCancel(context.Background())
	loopDone := make(chan struct{})
	go func() {
		defer close(loopDone)
		loop.Run(loopCtx)
	}()

	handler := handlers.New(reg)
	router := server.NewRouter(handler)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		slog.Info("Archiver service listening", slog.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("Shutting down...")

	// Stop polling; the in-flight batch finishes before the loop returns.
	stopLoop()
	select {
	case <-loopDone:
	case <-time.After(30 * time.Second):
		slog.Warn("Consumer loop did not stop in time")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.WriteTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	slog.Info("Server stopped")
}
