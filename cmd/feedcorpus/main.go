package main

import (
	"os"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/feedcorpus/backend/internal/cli"
	"github.com/feedcorpus/backend/internal/config"
	"github.com/feedcorpus/backend/internal/engine"
	"github.com/feedcorpus/backend/internal/storage"
)

func main() {
	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	entry := logger.WithField("service", "feedcorpus-cli")

	_ = godotenv.Load(".env")
	cfg := config.Load()

	var store storage.SnapshotStorage
	var err error
	if cfg.Storage.Backend == "sqlite" {
		store, err = storage.NewSQLiteStorage(cfg.Storage.SQLitePath)
	} else {
		store, err = storage.NewFileStorage(cfg.Storage.DataDir)
	}
	if err != nil {
		entry.Fatalf("Failed to initialize storage: %v", err)
	}
	defer store.Close()

	eng := engine.NewEngine(cfg, entry, store)

	if err := cli.Execute(eng); err != nil {
		os.Exit(1)
	}
}
