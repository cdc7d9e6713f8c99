package engine

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/feedcorpus/backend/internal/config"
	"github.com/feedcorpus/backend/internal/corpus"
	"github.com/feedcorpus/backend/internal/ranker"
	"github.com/feedcorpus/backend/internal/similarity"
	"github.com/feedcorpus/backend/internal/source"
	"github.com/feedcorpus/backend/internal/storage"
	"github.com/feedcorpus/backend/internal/textnorm"
	"github.com/feedcorpus/backend/internal/trends"
)

// Engine orchestrates the corpus components: feed sources, the snapshot
// cache, and the in-memory corpus that ranking and similarity consume.
type Engine struct {
	Config  *config.Config
	Logger  *logrus.Entry
	Sources map[corpus.Source]source.DocumentSource
	Storage storage.SnapshotStorage

	mu     sync.RWMutex
	corpus *corpus.Corpus
	stats  Stats
}

// Stats describes the last collection run.
type Stats struct {
	Topic       string    `json:"topic"`
	RunID       string    `json:"run_id"`
	Documents   int       `json:"documents"`
	Authors     int       `json:"authors"`
	FromCache   bool      `json:"from_cache"`
	CollectedAt time.Time `json:"collected_at"`
}

// NewEngine wires the feed sources and snapshot store together.
func NewEngine(cfg *config.Config, logger *logrus.Entry, store storage.SnapshotStorage) *Engine {
	client := source.NewClient(cfg.Fetch.RequestTimeout, cfg.Fetch.UserAgent, cfg.Fetch.EnableRobotsCheck)

	if !cfg.Reddit.Configured() {
		logger.Warn("Reddit credentials not set, relying on the public listing endpoint")
	}

	return &Engine{
		Config: cfg,
		Logger: logger,
		Sources: map[corpus.Source]source.DocumentSource{
			corpus.SourceForum:    source.NewRedditSource(client, logger),
			corpus.SourceAcademic: source.NewArxivSource(client, logger),
		},
		Storage: store,
	}
}

// Collect builds the session corpus for the given queries. A cached
// snapshot for the topic is used when present; otherwise every source is
// queried and the result persisted. Validation and empty-feed errors are
// returned to the caller, never swallowed.
func (e *Engine) Collect(ctx context.Context, queries []source.Query) (Stats, error) {
	if len(queries) == 0 {
		return Stats{}, fmt.Errorf("no queries given: %w", corpus.ErrInvalidArgument)
	}
	for i := range queries {
		if err := queries[i].Validate(e.Config.Fetch.DefaultQuantity); err != nil {
			return Stats{}, err
		}
	}

	topic := queries[0].Topic
	if topic == "" {
		topic = strings.ToLower(queries[0].Keyword)
	}
	log := e.Logger.WithField("topic", topic)

	if snap, err := e.Storage.Load(topic); err == nil {
		c := snap.BuildCorpus()
		stats := e.install(c, snap.Topic, snap.RunID, true)
		log.WithField("documents", stats.Documents).Info("Corpus loaded from snapshot cache")
		return stats, nil
	} else if !errors.Is(err, storage.ErrNoSnapshot) {
		log.WithError(err).Warn("Snapshot load failed, refetching")
	}

	runID := uuid.NewString()
	c := corpus.New(topic)

	for _, q := range queries {
		src, ok := e.Sources[q.Origin]
		if !ok {
			return Stats{}, fmt.Errorf("unsupported origin %q: %w", q.Origin, corpus.ErrInvalidArgument)
		}

		docs, err := src.Fetch(ctx, q)
		if err != nil {
			return Stats{}, err
		}
		for _, doc := range docs {
			if doc.Author == "" {
				doc.Author = "Anonymous"
			}
			c.Add(doc, doc.Author)
		}
	}

	if err := e.Storage.Save(storage.FromCorpus(c, topic, runID)); err != nil {
		log.WithError(err).Error("Failed to persist snapshot")
	}

	stats := e.install(c, topic, runID, false)
	log.WithFields(logrus.Fields{
		"run_id":    runID,
		"documents": stats.Documents,
	}).Info("Corpus collected")
	return stats, nil
}

// LoadTopic restores a previously collected corpus from the snapshot
// cache without touching the feeds.
func (e *Engine) LoadTopic(topic string) (Stats, error) {
	if strings.TrimSpace(topic) == "" {
		return Stats{}, fmt.Errorf("topic is required: %w", corpus.ErrInvalidArgument)
	}
	snap, err := e.Storage.Load(topic)
	if err != nil {
		return Stats{}, err
	}
	return e.install(snap.BuildCorpus(), snap.Topic, snap.RunID, true), nil
}

func (e *Engine) install(c *corpus.Corpus, topic, runID string, fromCache bool) Stats {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.corpus = c
	e.stats = Stats{
		Topic:       topic,
		RunID:       runID,
		Documents:   c.Len(),
		Authors:     c.AuthorCount(),
		FromCache:   fromCache,
		CollectedAt: time.Now().UTC(),
	}
	return e.stats
}

// Corpus returns the current session corpus, which may be nil before the
// first collection.
func (e *Engine) Corpus() *corpus.Corpus {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.corpus
}

// Documents returns an immutable snapshot of the session's documents.
func (e *Engine) Documents() []corpus.Document {
	c := e.Corpus()
	if c == nil {
		return nil
	}
	return c.AllDocuments()
}

// Search normalizes the free-text query and ranks the session documents.
// An empty query is an invalid argument so callers can distinguish "no
// query entered" from "no matches". Result ids are corpus document ids.
func (e *Engine) Search(query string) ([]ranker.Result, error) {
	if strings.TrimSpace(query) == "" {
		return nil, fmt.Errorf("no query entered: %w", corpus.ErrInvalidArgument)
	}
	docs := e.Documents()
	results := ranker.Rank(docs, textnorm.Normalize(query))
	for i := range results {
		results[i].DocumentIndex = docs[results[i].DocumentIndex].ID
	}
	return results, nil
}

// Related recomputes the pairwise similarity matrix over the session
// documents and returns the top-k neighbor groups.
func (e *Engine) Related(k int) map[string]map[string][]similarity.Neighbor {
	if k <= 0 {
		k = 3
	}
	docs := e.Documents()
	return similarity.Related(similarity.Compute(docs), docs, k)
}

// Trends aggregates per-year counts for the tracked words.
func (e *Engine) Trends(words []string) map[trends.WordYear]int {
	return trends.FrequencyByYear(e.Documents(), words)
}

// GetDocument looks a document up by corpus id.
func (e *Engine) GetDocument(id int) (corpus.Document, error) {
	c := e.Corpus()
	if c == nil {
		return corpus.Document{}, fmt.Errorf("document %d: %w", id, corpus.ErrNotFound)
	}
	return c.GetDocument(id)
}

// WordStats computes whole-corpus word statistics, optionally grouped by
// Snowball stem.
func (e *Engine) WordStats(stemmed bool) []corpus.WordStat {
	c := e.Corpus()
	if c == nil {
		return nil
	}
	if stemmed {
		return c.StemmedWordStats()
	}
	return c.WordStats()
}

// Stats returns last-run collection statistics.
func (e *Engine) Stats() Stats {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.stats
}
