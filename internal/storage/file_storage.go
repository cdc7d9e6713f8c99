package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// SnapshotStorage defines the interface for caching fetched corpora so a
// repeated topic does not hit the external feeds again.
type SnapshotStorage interface {
	Save(snap *Snapshot) error
	Load(topic string) (*Snapshot, error)
	Close() error
}

// ErrNoSnapshot reports a topic with no cached snapshot.
var ErrNoSnapshot = errors.New("no snapshot for topic")

// FileStorage implements SnapshotStorage using one JSON file per topic.
type FileStorage struct {
	baseDir string
	mu      sync.RWMutex
}

// NewFileStorage creates a file-based snapshot store.
func NewFileStorage(baseDir string) (*FileStorage, error) {
	if err := os.MkdirAll(baseDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create storage directory: %w", err)
	}
	return &FileStorage{baseDir: baseDir}, nil
}

// Save writes the snapshot to a JSON file named after its topic.
func (fs *FileStorage) Save(snap *Snapshot) error {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal snapshot: %w", err)
	}

	path := filepath.Join(fs.baseDir, safeFilename(snap.Topic))
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write snapshot: %w", err)
	}
	return nil
}

// Load reads a topic's snapshot back from disk.
func (fs *FileStorage) Load(topic string) (*Snapshot, error) {
	fs.mu.RLock()
	defer fs.mu.RUnlock()

	path := filepath.Join(fs.baseDir, safeFilename(topic))
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrNoSnapshot, topic)
		}
		return nil, fmt.Errorf("failed to read snapshot: %w", err)
	}

	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("failed to unmarshal snapshot: %w", err)
	}
	return &snap, nil
}

// Close is a no-op for file storage.
func (fs *FileStorage) Close() error {
	return nil
}

// safeFilename converts a topic key to a safe filename.
func safeFilename(topic string) string {
	safe := ""
	for _, r := range topic {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') {
			safe += string(r)
		} else {
			safe += "_"
		}
	}
	if len(safe) > 100 {
		safe = safe[:100]
	}
	return "corpus_" + safe + ".json"
}
