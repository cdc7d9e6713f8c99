package source

import (
	"context"
	"encoding/xml"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/feedcorpus/backend/internal/corpus"
)

const defaultArxivBaseURL = "http://export.arxiv.org/api/query"

// ArxivSource fetches abstracts from the arXiv Atom query API.
type ArxivSource struct {
	client  *Client
	logger  *logrus.Entry
	baseURL string
}

func NewArxivSource(client *Client, logger *logrus.Entry) *ArxivSource {
	return &ArxivSource{
		client:  client,
		logger:  logger.WithField("source", corpus.SourceAcademic),
		baseURL: defaultArxivBaseURL,
	}
}

// SetBaseURL overrides the query endpoint, used in tests.
func (s *ArxivSource) SetBaseURL(base string) { s.baseURL = base }

func (s *ArxivSource) Origin() corpus.Source { return corpus.SourceAcademic }

type arxivFeed struct {
	XMLName xml.Name     `xml:"feed"`
	Entries []arxivEntry `xml:"entry"`
}

type arxivEntry struct {
	ID        string `xml:"id"`
	Title     string `xml:"title"`
	Published string `xml:"published"`
	Summary   string `xml:"summary"`
	Authors   []struct {
		Name string `xml:"name"`
	} `xml:"author"`
}

// Fetch searches all fields for the keyword and returns the matching
// abstracts.
func (s *ArxivSource) Fetch(ctx context.Context, q Query) ([]corpus.Document, error) {
	params := url.Values{}
	params.Set("search_query", "all:"+q.Keyword)
	params.Set("start", "0")
	params.Set("max_results", fmt.Sprintf("%d", q.Quantity))

	resp, err := s.client.Get(ctx, s.baseURL+"?"+params.Encode())
	if err != nil {
		return nil, fmt.Errorf("arxiv fetch failed: %w", err)
	}
	defer resp.Body.Close()

	var feed arxivFeed
	if err := xml.NewDecoder(resp.Body).Decode(&feed); err != nil {
		return nil, fmt.Errorf("failed to decode arxiv feed: %w", err)
	}

	if len(feed.Entries) == 0 {
		return nil, fmt.Errorf("origin %s: %w", corpus.SourceAcademic, corpus.ErrEmptySource)
	}

	docs := make([]corpus.Document, 0, len(feed.Entries))
	for _, entry := range feed.Entries {
		names := make([]string, 0, len(entry.Authors))
		for _, a := range entry.Authors {
			names = append(names, a.Name)
		}

		var published time.Time
		if t, err := time.Parse("2006-01-02T15:04:05Z", entry.Published); err == nil {
			published = t
		}

		docs = append(docs, corpus.Document{
			Title:    strings.Join(strings.Fields(entry.Title), " "),
			Text:     strings.Join(strings.Fields(entry.Summary), " "),
			Author:   strings.Join(names, ", "),
			Date:     published,
			URL:      entry.ID,
			Source:   corpus.SourceAcademic,
			Academic: &corpus.AcademicMeta{Authors: names},
		})
	}

	s.logger.WithField("count", len(docs)).Info("Fetched academic documents")
	return docs, nil
}
