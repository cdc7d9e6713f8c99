// Package similarity computes dense pairwise TF-IDF resemblance across a
// whole document collection, powering related-document recommendations.
package similarity

import (
	"math"
	"strings"
	"unicode"

	"github.com/feedcorpus/backend/internal/textnorm"
)

// Vectorizer turns text into a TF-IDF vector over a fitted vocabulary.
type Vectorizer struct {
	Vocabulary map[string]int
	IDF        map[string]float64
}

func NewVectorizer() *Vectorizer {
	return &Vectorizer{
		Vocabulary: make(map[string]int),
		IDF:        make(map[string]float64),
	}
}

// Fit analyzes the collection to build the vocabulary and IDF stats.
func (v *Vectorizer) Fit(texts []string) {
	docCount := float64(len(texts))
	wordDocCounts := make(map[string]int)

	for _, text := range texts {
		tokens := tokenize(text)
		seenInDoc := make(map[string]bool)
		for _, token := range tokens {
			if !seenInDoc[token] {
				wordDocCounts[token]++
				seenInDoc[token] = true
			}
			if _, exists := v.Vocabulary[token]; !exists {
				v.Vocabulary[token] = len(v.Vocabulary)
			}
		}
	}

	for word, count := range wordDocCounts {
		// idf = log(N / (df + 1)) + 1
		v.IDF[word] = math.Log(docCount/(float64(count)+1)) + 1
	}
}

// Transform converts text to a TF-IDF vector over the fitted vocabulary.
func (v *Vectorizer) Transform(text string) []float64 {
	vector := make([]float64, len(v.Vocabulary))
	tokens := tokenize(text)
	if len(tokens) == 0 {
		return vector
	}

	tf := make(map[string]float64)
	for _, token := range tokens {
		tf[token]++
	}

	for token, count := range tf {
		if idx, exists := v.Vocabulary[token]; exists {
			vector[idx] = (count / float64(len(tokens))) * v.IDF[token]
		}
	}
	return vector
}

// tokenize splits text into lowercase word tokens, dropping English stop
// words and very short words.
func tokenize(text string) []string {
	f := func(c rune) bool {
		return !unicode.IsLetter(c) && !unicode.IsNumber(c)
	}
	fields := strings.FieldsFunc(text, f)
	var tokens []string
	for _, field := range fields {
		if len(field) <= 2 {
			continue
		}
		lower := strings.ToLower(field)
		if textnorm.IsStopWord(lower) {
			continue
		}
		tokens = append(tokens, lower)
	}
	return tokens
}

// Cosine calculates the cosine similarity between two vectors.
func Cosine(a, b []float64) float64 {
	if len(a) != len(b) {
		return 0
	}
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
