// Package trends computes per-year occurrence counts of tracked words
// across a document collection, feeding trend charts.
package trends

import (
	"sort"
	"strings"

	"github.com/feedcorpus/backend/internal/corpus"
)

// WordYear keys the frequency table: a lower-cased tracked word and a
// publication year.
type WordYear struct {
	Word string
	Year int
}

// FrequencyByYear counts occurrences of each tracked word inside
// text + " " + title per document, accumulated by publication year.
// Counting uses plain whitespace tokenization, a deliberately lighter
// pass than full normalization. Documents without a usable date are
// silently skipped.
func FrequencyByYear(docs []corpus.Document, trackedWords []string) map[WordYear]int {
	tracked := make(map[string]struct{}, len(trackedWords))
	for _, w := range trackedWords {
		tracked[strings.ToLower(w)] = struct{}{}
	}

	table := make(map[WordYear]int)
	for _, d := range docs {
		if d.Date.IsZero() {
			continue
		}
		year := d.Date.Year()
		fields := strings.Fields(strings.ToLower(d.Text + " " + d.Title))
		for _, f := range fields {
			if _, ok := tracked[f]; ok {
				table[WordYear{Word: f, Year: year}]++
			}
		}
	}
	return table
}

// Point is one year of a word's time series.
type Point struct {
	Year  int `json:"year"`
	Count int `json:"count"`
}

// TimeSeries reconstructs the year-sorted series for one tracked word.
func TimeSeries(table map[WordYear]int, word string) []Point {
	word = strings.ToLower(word)
	var series []Point
	for key, count := range table {
		if key.Word == word {
			series = append(series, Point{Year: key.Year, Count: count})
		}
	}
	sort.Slice(series, func(i, j int) bool {
		return series[i].Year < series[j].Year
	})
	return series
}
