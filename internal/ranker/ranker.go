// Package ranker scores documents against a free-text query using raw
// term frequencies and a boolean query vector. It answers "what matches
// this query"; pairwise resemblance lives in the similarity package.
package ranker

import (
	"math"
	"sort"

	"github.com/feedcorpus/backend/internal/corpus"
	"github.com/feedcorpus/backend/internal/textnorm"
)

// Result is one scored document. DocumentIndex is the position within the
// input collection, not a corpus id.
type Result struct {
	DocumentIndex int           `json:"id"`
	Source        corpus.Source `json:"source"`
	Score         float64       `json:"score"`
}

// Rank scores every document by cosine similarity between its
// term-frequency row and a binary query vector, sorted descending.
// Zero-score documents are excluded; ties keep the original input order.
// Pure function over its inputs.
func Rank(docs []corpus.Document, queryTokens []string) []Result {
	if len(docs) == 0 {
		return nil
	}

	// Union vocabulary over all normalized document texts.
	docTokens := make([][]string, len(docs))
	vocabSet := make(map[string]struct{})
	for i, d := range docs {
		docTokens[i] = textnorm.Normalize(d.Text)
		for _, tok := range docTokens[i] {
			vocabSet[tok] = struct{}{}
		}
	}
	vocab := make([]string, 0, len(vocabSet))
	for tok := range vocabSet {
		vocab = append(vocab, tok)
	}
	sort.Strings(vocab)
	index := make(map[string]int, len(vocab))
	for i, tok := range vocab {
		index[tok] = i
	}

	// Binary query vector: 1.0 where the vocabulary term appears in the
	// query token list. Deliberately not IDF-weighted.
	query := make([]float64, len(vocab))
	querySet := make(map[string]struct{}, len(queryTokens))
	for _, tok := range queryTokens {
		querySet[tok] = struct{}{}
	}
	for i, tok := range vocab {
		if _, ok := querySet[tok]; ok {
			query[i] = 1.0
		}
	}

	results := make([]Result, 0, len(docs))
	for i, d := range docs {
		row := make([]float64, len(vocab))
		for _, tok := range docTokens[i] {
			row[index[tok]]++
		}
		score := cosine(query, row)
		results = append(results, Result{DocumentIndex: i, Source: d.Source, Score: score})
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})

	filtered := results[:0]
	for _, r := range results {
		if r.Score > 0 {
			filtered = append(filtered, r)
		}
	}
	if len(filtered) == 0 {
		return nil
	}
	return filtered
}

func cosine(a, b []float64) float64 {
	var dot, normA, normB float64
	for i := range a {
		dot += a[i] * b[i]
		normA += a[i] * a[i]
		normB += b[i] * b[i]
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
