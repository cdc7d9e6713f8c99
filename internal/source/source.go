// Package source holds the document-feed collaborators: validated fetch
// queries, the DocumentSource capability, and its forum and academic
// implementations.
package source

import (
	"context"
	"fmt"
	"strings"

	"github.com/feedcorpus/backend/internal/corpus"
)

// Query describes one fetch against an external feed.
type Query struct {
	Origin   corpus.Source `json:"origin"`
	Keyword  string        `json:"keyword"`
	Topic    string        `json:"topic"`
	Quantity int           `json:"quantity"`
}

// Validate checks the required fields. Origin and keyword must be set;
// quantity falls back to the given default.
func (q *Query) Validate(defaultQuantity int) error {
	if q.Origin == "" {
		return fmt.Errorf("query origin is required: %w", corpus.ErrInvalidArgument)
	}
	if strings.TrimSpace(q.Keyword) == "" {
		return fmt.Errorf("query keyword is required: %w", corpus.ErrInvalidArgument)
	}
	if q.Quantity <= 0 {
		q.Quantity = defaultQuantity
	}
	return nil
}

// DocumentSource yields a flat list of documents for a query. A query
// that the underlying feed answers with zero results fails with
// corpus.ErrEmptySource.
type DocumentSource interface {
	Origin() corpus.Source
	Fetch(ctx context.Context, q Query) ([]corpus.Document, error)
}
