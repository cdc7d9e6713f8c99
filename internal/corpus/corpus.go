package corpus

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/feedcorpus/backend/internal/textnorm"
)

// Corpus is the aggregate root holding every ingested document and the
// author index. Document ids are dense integers starting at 1, assigned
// in insertion order and never reused. One logical corpus exists per
// session; callers construct it explicitly and pass it around.
type Corpus struct {
	name string

	mu        sync.RWMutex
	docs      map[int]Document
	ndoc      int
	authors   map[int]*Author
	authorIDs map[string]int // lower-cased name -> author id
	nauthors  int

	// Whole-corpus concatenation, built lazily and rebuilt whenever the
	// document count has changed since the last build.
	concat     string
	bounds     []docSpan
	concatDocs int
}

type docSpan struct {
	docID int
	start int
	end   int
}

// New creates an empty corpus.
func New(name string) *Corpus {
	return &Corpus{
		name:      name,
		docs:      make(map[int]Document),
		authors:   make(map[int]*Author),
		authorIDs: make(map[string]int),
	}
}

// Name returns the corpus name.
func (c *Corpus) Name() string { return c.name }

// Add registers the document under the given author and assigns it the
// next sequential id. The stored document is returned. Author names are
// matched case-insensitively; the first-seen casing becomes the display
// name. Callers must substitute a sentinel such as "Anonymous" for a
// missing author, the corpus does not validate the name.
func (c *Corpus) Add(doc Document, authorName string) Document {
	c.mu.Lock()
	defer c.mu.Unlock()

	key := strings.ToLower(authorName)
	id, ok := c.authorIDs[key]
	if !ok {
		c.nauthors++
		id = c.nauthors
		c.authors[id] = &Author{Name: authorName}
		c.authorIDs[key] = id
	}
	c.authors[id].add(doc.Text)

	c.ndoc++
	doc.ID = c.ndoc
	c.docs[doc.ID] = doc
	return doc
}

// GetDocument returns the document for a known id.
func (c *Corpus) GetDocument(id int) (Document, error) {
	if id < 1 {
		return Document{}, fmt.Errorf("document id %d: %w", id, ErrInvalidArgument)
	}

	c.mu.RLock()
	defer c.mu.RUnlock()

	doc, ok := c.docs[id]
	if !ok {
		return Document{}, fmt.Errorf("document %d: %w", id, ErrNotFound)
	}
	return doc, nil
}

// AllDocuments returns a consistent snapshot of every document, ordered
// by id.
func (c *Corpus) AllDocuments() []Document {
	c.mu.RLock()
	defer c.mu.RUnlock()

	docs := make([]Document, 0, c.ndoc)
	for id := 1; id <= c.ndoc; id++ {
		docs = append(docs, c.docs[id])
	}
	return docs
}

// Len returns the number of documents.
func (c *Corpus) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.ndoc
}

// AuthorCount returns the number of distinct authors.
func (c *Corpus) AuthorCount() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.nauthors
}

// AuthorByName looks an author up case-insensitively.
func (c *Corpus) AuthorByName(name string) (*Author, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	id, ok := c.authorIDs[strings.ToLower(name)]
	if !ok {
		return nil, fmt.Errorf("author %q: %w", name, ErrNotFound)
	}
	return c.authors[id], nil
}

// DocsByAuthor returns the text bodies the given author has produced.
func (c *Corpus) DocsByAuthor(name string) ([]string, error) {
	a, err := c.AuthorByName(name)
	if err != nil {
		return nil, err
	}
	out := make([]string, len(a.Production))
	copy(out, a.Production)
	return out, nil
}

// Record is the flat projection of a document for tabular consumption.
type Record struct {
	ID     int       `json:"id"`
	Title  string    `json:"title"`
	Text   string    `json:"text"`
	Author string    `json:"author"`
	Date   time.Time `json:"date"`
	Source Source    `json:"source"`
	URL    string    `json:"url"`
}

// ToTable projects every document into flat record form, ordered by id.
func (c *Corpus) ToTable() []Record {
	docs := c.AllDocuments()
	records := make([]Record, len(docs))
	for i, d := range docs {
		records[i] = Record{
			ID:     d.ID,
			Title:  d.Title,
			Text:   d.Text,
			Author: d.DisplayAuthor(),
			Date:   d.Date,
			Source: d.Source,
			URL:    d.URL,
		}
	}
	return records
}

// Match is one keyword hit inside a single document. Offsets are relative
// to that document's own text.
type Match struct {
	DocID int    `json:"doc_id"`
	Start int    `json:"start"`
	End   int    `json:"end"`
	Text  string `json:"text"`
}

// SearchText returns every span matching the keyword, which may be a
// regular expression, across each document's text. The whole-corpus
// concatenation is built once and reused; matches that would cross a
// document boundary are discarded.
func (c *Corpus) SearchText(keyword string) ([]Match, error) {
	re, err := regexp.Compile(keyword)
	if err != nil {
		return nil, fmt.Errorf("keyword %q: %w", keyword, ErrInvalidArgument)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.ensureConcat()

	var matches []Match
	for _, loc := range re.FindAllStringIndex(c.concat, -1) {
		span, ok := c.spanAt(loc[0])
		if !ok || loc[1] > span.end {
			continue
		}
		matches = append(matches, Match{
			DocID: span.docID,
			Start: loc[0] - span.start,
			End:   loc[1] - span.start,
			Text:  c.concat[loc[0]:loc[1]],
		})
	}
	return matches, nil
}

// ConcordanceEntry is a keyword occurrence with its surrounding context.
type ConcordanceEntry struct {
	Left       string `json:"left"`
	Expression string `json:"expression"`
	Right      string `json:"right"`
}

// Concordance lists every distinct (left, expression, right) context of
// the keyword across the whole corpus concatenation.
func (c *Corpus) Concordance(keyword string, contextSize int) ([]ConcordanceEntry, error) {
	re, err := regexp.Compile(keyword)
	if err != nil {
		return nil, fmt.Errorf("keyword %q: %w", keyword, ErrInvalidArgument)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.ensureConcat()

	seen := make(map[ConcordanceEntry]struct{})
	var entries []ConcordanceEntry
	for _, loc := range re.FindAllStringIndex(c.concat, -1) {
		start := loc[0] - contextSize
		if start < 0 {
			start = 0
		}
		end := loc[1] + contextSize
		if end > len(c.concat) {
			end = len(c.concat)
		}
		entry := ConcordanceEntry{
			Left:       c.concat[start:loc[0]],
			Expression: c.concat[loc[0]:loc[1]],
			Right:      c.concat[loc[1]:end],
		}
		if _, dup := seen[entry]; dup {
			continue
		}
		seen[entry] = struct{}{}
		entries = append(entries, entry)
	}
	return entries, nil
}

// WordStat holds the per-word statistics over the whole corpus.
type WordStat struct {
	Word     string `json:"word"`
	Count    int    `json:"count"`
	DocCount int    `json:"doc_count"`
}

// WordStats computes, for every distinct normalized word, its total
// occurrence count and the number of documents containing it. Quadratic
// in (distinct words x documents); corpora here are bounded to a few
// hundred documents.
func (c *Corpus) WordStats() []WordStat {
	return c.wordStats(false)
}

// StemmedWordStats is WordStats with words collapsed onto their Snowball
// stems, grouping inflected forms together.
func (c *Corpus) StemmedWordStats() []WordStat {
	return c.wordStats(true)
}

func (c *Corpus) wordStats(stemmed bool) []WordStat {
	c.mu.Lock()
	c.ensureConcat()
	concat := c.concat
	docs := make([]Document, 0, c.ndoc)
	for id := 1; id <= c.ndoc; id++ {
		docs = append(docs, c.docs[id])
	}
	c.mu.Unlock()

	tokens := textnorm.Normalize(concat)
	if stemmed {
		tokens = textnorm.StemTokens(tokens)
	}
	counts := make(map[string]int)
	for _, tok := range tokens {
		counts[tok]++
	}

	docTokens := make([]map[string]struct{}, len(docs))
	for i, d := range docs {
		toks := textnorm.Normalize(d.Text)
		if stemmed {
			toks = textnorm.StemTokens(toks)
		}
		set := make(map[string]struct{}, len(toks))
		for _, tok := range toks {
			set[tok] = struct{}{}
		}
		docTokens[i] = set
	}

	stats := make([]WordStat, 0, len(counts))
	for word, count := range counts {
		df := 0
		for _, set := range docTokens {
			if _, ok := set[word]; ok {
				df++
			}
		}
		stats = append(stats, WordStat{Word: word, Count: count, DocCount: df})
	}
	sort.Slice(stats, func(i, j int) bool {
		if stats[i].Count != stats[j].Count {
			return stats[i].Count > stats[j].Count
		}
		return stats[i].Word < stats[j].Word
	})
	return stats
}

// Summary holds whole-corpus shape statistics.
type Summary struct {
	Documents     int     `json:"documents"`
	Authors       int     `json:"authors"`
	MeanWords     float64 `json:"mean_words"`
	MeanSentences float64 `json:"mean_sentences"`
	TotalWords    int     `json:"total_words"`
	LongDocs      int     `json:"long_docs"`
}

// Stats summarizes the corpus: document and author totals, mean words and
// sentences per document, and the number of documents longer than 20
// characters.
func (c *Corpus) Stats() Summary {
	c.mu.RLock()
	defer c.mu.RUnlock()

	s := Summary{Documents: c.ndoc, Authors: c.nauthors}
	if c.ndoc == 0 {
		return s
	}
	for id := 1; id <= c.ndoc; id++ {
		text := c.docs[id].Text
		words := len(strings.Split(text, " "))
		s.TotalWords += words
		s.MeanWords += float64(words)
		s.MeanSentences += float64(len(strings.Split(text, ".")))
		if len(text) > 20 {
			s.LongDocs++
		}
	}
	s.MeanWords /= float64(c.ndoc)
	s.MeanSentences /= float64(c.ndoc)
	return s
}

// ensureConcat rebuilds the concatenation cache when the document count
// has changed since the last build. Callers must hold the write lock.
func (c *Corpus) ensureConcat() {
	if c.concat != "" && c.concatDocs == c.ndoc {
		return
	}
	var b strings.Builder
	bounds := make([]docSpan, 0, c.ndoc)
	for id := 1; id <= c.ndoc; id++ {
		start := b.Len()
		b.WriteString(c.docs[id].Text)
		bounds = append(bounds, docSpan{docID: id, start: start, end: b.Len()})
	}
	c.concat = b.String()
	c.bounds = bounds
	c.concatDocs = c.ndoc
}

// spanAt locates the document owning the given concatenation offset.
func (c *Corpus) spanAt(offset int) (docSpan, bool) {
	i := sort.Search(len(c.bounds), func(i int) bool {
		return c.bounds[i].end > offset
	})
	if i >= len(c.bounds) || offset < c.bounds[i].start {
		return docSpan{}, false
	}
	return c.bounds[i], true
}
