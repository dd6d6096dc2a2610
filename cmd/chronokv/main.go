// Command chronokv hosts a chronokv store as a long-running process: it
// loads configuration, opens the durable store (replaying any existing WAL
// and snapshot), optionally serves Prometheus metrics and health probes, and
// shuts down cleanly on SIGINT/SIGTERM. It carries no read/write/propose
// network surface of its own — spec.md §1 leaves that to an embedding
// process or a future adapter — so today it exists mainly to prove the
// store boots, replays and snapshots correctly under a real process
// lifecycle. Shape grounded on the teacher's storage-node/cmd/storage.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/chronokv/chronokv/internal/config"
	"github.com/chronokv/chronokv/internal/health"
	"github.com/chronokv/chronokv/internal/kv"
	"github.com/chronokv/chronokv/internal/metrics"
	"github.com/chronokv/chronokv/internal/model"
	"github.com/chronokv/chronokv/internal/server"
	"go.uber.org/zap"
)

func main() {
	logger, err := initLogger()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	configPath := os.Getenv("CHRONOKV_CONFIG")
	if configPath == "" {
		configPath = "./config.yaml"
	}

	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		logger.Fatal("failed to load config", zap.Error(err))
	}

	logger.Info("configuration loaded",
		zap.String("node_id", cfg.Server.NodeID),
		zap.String("data_dir", cfg.Storage.DataDir))

	if err := os.MkdirAll(cfg.Storage.WALDir, 0755); err != nil {
		logger.Fatal("failed to create wal directory", zap.Error(err))
	}

	retention, err := retentionFromConfig(cfg.Retention)
	if err != nil {
		logger.Fatal("invalid retention configuration", zap.Error(err))
	}

	policyName, ok := model.ParsePolicy(cfg.Policy.Name)
	if !ok {
		logger.Fatal("invalid policy name", zap.String("name", cfg.Policy.Name))
	}

	var m *metrics.Metrics
	var opts []kv.Option
	if cfg.Metrics.Enabled {
		m = metrics.New()
		opts = append(opts, kv.WithMetrics(m))
	}
	opts = append(opts, kv.WithRetention(retention), kv.WithPolicy(policyName))

	store := kv.Open(cfg.Storage.WALDir, cfg.WAL.SyncWrites, logger, opts...)
	defer store.Close()

	logger.Info("store opened and replayed",
		zap.String("wal_dir", cfg.Storage.WALDir),
		zap.String("policy", policyName.String()))

	checker := health.NewChecker(store, cfg.Storage.DataDir, logger)
	healthCtx, cancelHealth := context.WithCancel(context.Background())
	defer cancelHealth()
	go checker.Start(healthCtx, 10*time.Second)

	var metricsSrv *server.Server
	if cfg.Metrics.Enabled {
		metricsSrv = server.New(server.Config{Addr: cfg.Metrics.Addr}, checker, logger)
		metricsSrv.Start()
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	logger.Info("shutting down gracefully")

	if err := store.CreateSnapshot(); err != nil {
		logger.Error("failed to snapshot during shutdown", zap.Error(err))
	}

	if metricsSrv != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		if err := metricsSrv.Stop(shutdownCtx); err != nil {
			logger.Error("failed to stop metrics server", zap.Error(err))
		}
	}
}

func retentionFromConfig(rc config.RetentionConfig) (model.RetentionPolicy, error) {
	switch rc.Mode {
	case "full":
		return model.FullRetention(), nil
	case "last_n":
		return model.LastNRetention(rc.N), nil
	case "last_t":
		return model.LastTRetention(rc.T), nil
	default:
		return model.RetentionPolicy{}, fmt.Errorf("unrecognized retention mode %q", rc.Mode)
	}
}

// initLogger builds a production zap logger, matching the teacher's
// cmd/storage initLogger.
func initLogger() (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(zap.InfoLevel)
	return cfg.Build()
}
