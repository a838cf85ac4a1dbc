package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"syscall"

	"callwatch/internal/config"
	"callwatch/internal/daemon"
	"callwatch/internal/ingest"
	"callwatch/internal/logging"
	"callwatch/internal/store"
)

func main() {
	configPath := flag.String("config", "", "configuration file path")
	flag.Parse()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	cfg, _, _, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	if err := cfg.EnsureDirectories(); err != nil {
		log.Fatalf("ensure directories: %v", err)
	}

	logger, err := logging.NewFromConfig(cfg)
	if err != nil {
		log.Fatalf("init logger: %v", err)
	}

	pidPath := filepath.Join(cfg.Paths.LogDir, "callwatchd.pid")
	if err := writePIDFile(pidPath); err != nil {
		log.Fatalf("write pid file: %v", err)
	}
	defer os.Remove(pidPath)

	st, err := store.Open(cfg.Paths.DatabasePath, logger)
	if err != nil {
		logger.Error("open record store", logging.Error(err))
		os.Exit(1)
	}

	watcher := ingest.NewWatcher(cfg, st, logger)
	d, err := daemon.New(cfg, st, logger, watcher)
	if err != nil {
		logger.Error("create daemon", logging.Error(err))
		os.Exit(1)
	}
	defer d.Close()

	if err := d.Start(ctx); err != nil {
		logger.Error("start daemon", logging.Error(err))
		os.Exit(1)
	}

	<-ctx.Done()
	logger.Info("callwatchd shutting down")
}

func writePIDFile(path string) error {
	value := strconv.Itoa(os.Getpid()) + "\n"
	return os.WriteFile(path, []byte(value), 0o644)
}
