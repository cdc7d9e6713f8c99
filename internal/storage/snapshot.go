package storage

import (
	"time"

	"github.com/feedcorpus/backend/internal/corpus"
)

// Snapshot is the persisted form of a fetched corpus. Documents are kept
// in id order; rebuilding replays them through Corpus.Add so ids and
// author groupings come out identical to the session that saved it.
type Snapshot struct {
	Topic     string            `json:"topic"`
	RunID     string            `json:"run_id"`
	CreatedAt time.Time         `json:"created_at"`
	Documents []corpus.Document `json:"documents"`
}

// FromCorpus captures the corpus content under the given topic key.
func FromCorpus(c *corpus.Corpus, topic, runID string) *Snapshot {
	return &Snapshot{
		Topic:     topic,
		RunID:     runID,
		CreatedAt: time.Now().UTC(),
		Documents: c.AllDocuments(),
	}
}

// BuildCorpus reconstructs an equivalent corpus from the snapshot.
func (s *Snapshot) BuildCorpus() *corpus.Corpus {
	c := corpus.New(s.Topic)
	for _, doc := range s.Documents {
		if doc.Author == "" {
			doc.Author = "Anonymous"
		}
		doc.ID = 0 // reassigned in replay order
		c.Add(doc, doc.Author)
	}
	return c
}
