package main

import (
    "context"
    "log"
    "os"
    "os/signal"
    "syscall"

    "go.uber.org/zap"

    "postguard/internal/pkg/administrator"
    "postguard/internal/pkg/config"
    "postguard/internal/pkg/logger"
)

func main() {
    cfg, err := config.LoadConfig()
    if err != nil {
        log.Fatalf("failed to load config: %v", err)
    }

    if err := logger.InitLogger(cfg.LogLevel); err != nil {
        log.Fatalf("failed to initialize logger: %v", err)
    }
    defer logger.Log.Sync()

    admin, err := administrator.New(cfg)
    if err != nil {
        logger.Log.Fatal("failed to create administrator", zap.Error(err))
    }

    // Create a cancellable context so we can gracefully shut down.
    ctx, cancel := context.WithCancel(context.Background())
    defer cancel()

    if err := admin.StartWorkers(ctx); err != nil {
        logger.Log.Fatal("failed to start workers", zap.Error(err))
    }

    go admin.StartService(cfg.ServerPort)

    // Listen for OS signals to gracefully shut down.
    sigChan := make(chan os.Signal, 1)
    signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
    <-sigChan

    // Stop first so workers drain what is already queued; cancelling the
    // context beforehand would tear them down mid-drain.
    admin.Stop()
    cancel()
}
