package main

import (
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/feedcorpus/backend/internal/api"
	"github.com/feedcorpus/backend/internal/config"
	"github.com/feedcorpus/backend/internal/engine"
	"github.com/feedcorpus/backend/internal/storage"
)

func main() {
	// Setup Logging
	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	entry := logger.WithField("service", "corpus-api")

	entry.Info("Starting Feed Corpus API Service")

	// 1. Config (credentials may come from a local .env file)
	_ = godotenv.Load(".env")
	cfg := config.Load()

	// 2. Snapshot storage
	store, err := newStorage(cfg)
	if err != nil {
		entry.Fatalf("Failed to initialize storage: %v", err)
	}
	defer store.Close()

	// 3. Engine
	eng := engine.NewEngine(cfg, entry, store)

	// 4. API Server
	server := api.NewServer(eng, entry)

	entry.Infof("Feed Corpus API ready on %s", cfg.Server.Addr)
	if err := server.Start(cfg.Server.Addr); err != nil {
		entry.Fatal(err)
	}
}

func newStorage(cfg *config.Config) (storage.SnapshotStorage, error) {
	if cfg.Storage.Backend == "sqlite" {
		return storage.NewSQLiteStorage(cfg.Storage.SQLitePath)
	}
	return storage.NewFileStorage(cfg.Storage.DataDir)
}
