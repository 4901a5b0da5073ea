// Command lrustored runs the lrustore TCP server.
//
// Configuration comes from the environment (optionally via a .env file),
// see server.Config for the recognized variables.
package main

import (
	"context"
	"errors"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/unkn0wn-root/lrustore"
	zaplog "github.com/unkn0wn-root/lrustore/log/zap"
	"github.com/unkn0wn-root/lrustore/protocol"
	"github.com/unkn0wn-root/lrustore/server"
)

func main() {
	_ = godotenv.Load()

	cfg, err := server.LoadConfig()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	cache, err := lrustore.New(cfg.Capacity,
		lrustore.WithLogger(zaplog.ZapLogger{L: logger.Named("cache")}))
	if err != nil {
		logger.Fatal("cache construction failed", zap.Error(err))
	}

	handler := protocol.NewHandler(cache,
		protocol.WithHandlerLogger(zaplog.ZapLogger{L: logger.Named("protocol")}),
		protocol.WithSnapshot(cfg.SnapshotPath, nil))

	srv := server.New(cfg.Addr, cache, handler,
		server.WithLogger(logger.Named("server")),
		server.WithShutdownTimeout(cfg.ShutdownTimeout),
		server.WithWorkers(cfg.Workers),
		server.WithQueueSize(cfg.QueueSize))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := srv.Serve(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logger.Fatal("server failed", zap.Error(err))
	}
}
