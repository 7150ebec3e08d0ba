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

	"github.com/mailvault-systems/mailvault-stack/common/logging"
	natsqueue "github.com/mailvault-systems/mailvault-stack/common/messaging/nats"
	"github.com/mailvault-systems/mailvault-stack/common/secrets"
	"github.com/mailvault-systems/mailvault-stack/relay/internal/config"
	"github.com/mailvault-systems/mailvault-stack/relay/internal/handlers"
	"github.com/mailvault-systems/mailvault-stack/relay/internal/publisher"
	"github.com/mailvault-systems/mailvault-stack/relay/internal/server"
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
	).With(logging.Service("relay"))
	logging.SetDefault(logger)

	slog.Info("Starting Relay service",
		slog.Int("port", cfg.Server.Port),
		slog.String("queue_url", cfg.Queue.URL),
		slog.String("queue_stream", cfg.Queue.Stream),
	)
	if *configPath != "" {
		slog.Info("Loaded configuration", slog.String("config_path", *configPath))
	}

	tokenStore, err := secrets.NewRedisStore(cfg.Secrets.RedisURL)
	if err != nil {
		log.Fatalf("Failed to connect to secret store: %v", err)
	}
	tokens := secrets.NewCachingStore(tokenStore, cfg.Secrets.CacheTTL)
	defer tokens.Close()

	queueCfg := natsqueue.DefaultConfig()
	queueCfg.URL = cfg.Queue.URL
	queueCfg.Name = "mailvault-relay"
	queueCfg.Stream = cfg.Queue.Stream
	queueCfg.Subject = cfg.Queue.Subject
	queueCfg.Consumer = cfg.Queue.Consumer
	queueCfg.AckWait = cfg.Queue.AckWait

	queue, err := natsqueue.NewQueue(context.Background(), queueCfg)
	if err != nil {
		log.Fatalf("Failed to create queue client: %v", err)
	}
	defer queue.Close()

	pub := publisher.New(queue, tokens, cfg.Secrets.TokenName, logger)
	handler := handlers.New(pub, logger)
	router := server.NewRouter(handler)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		slog.Info("Relay service listening", slog.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.WriteTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	slog.Info("Server stopped")
}
