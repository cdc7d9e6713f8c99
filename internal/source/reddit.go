package source

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/feedcorpus/backend/internal/corpus"
	"github.com/feedcorpus/backend/internal/textnorm"
)

const defaultRedditBaseURL = "https://www.reddit.com"

// RedditSource fetches hot submissions of a subreddit through the public
// listing endpoint. The query keyword names the subreddit.
type RedditSource struct {
	client  *Client
	logger  *logrus.Entry
	baseURL string
}

func NewRedditSource(client *Client, logger *logrus.Entry) *RedditSource {
	return &RedditSource{
		client:  client,
		logger:  logger.WithField("source", corpus.SourceForum),
		baseURL: defaultRedditBaseURL,
	}
}

// SetBaseURL overrides the listing endpoint, used in tests.
func (s *RedditSource) SetBaseURL(base string) { s.baseURL = base }

func (s *RedditSource) Origin() corpus.Source { return corpus.SourceForum }

type redditListing struct {
	Data struct {
		Children []struct {
			Data redditPost `json:"data"`
		} `json:"children"`
	} `json:"data"`
}

type redditPost struct {
	Title        string  `json:"title"`
	Selftext     string  `json:"selftext"`
	SelftextHTML string  `json:"selftext_html"`
	Author       string  `json:"author"`
	CreatedUTC   float64 `json:"created_utc"`
	Permalink    string  `json:"permalink"`
	URL          string  `json:"url"`
	NumComments  int     `json:"num_comments"`
}

// Fetch retrieves up to q.Quantity hot submissions from the subreddit.
func (s *RedditSource) Fetch(ctx context.Context, q Query) ([]corpus.Document, error) {
	endpoint := fmt.Sprintf("%s/r/%s/hot.json?limit=%d",
		s.baseURL, url.PathEscape(q.Keyword), q.Quantity)

	resp, err := s.client.Get(ctx, endpoint)
	if err != nil {
		return nil, fmt.Errorf("reddit fetch failed: %w", err)
	}
	defer resp.Body.Close()

	var listing redditListing
	if err := json.NewDecoder(resp.Body).Decode(&listing); err != nil {
		return nil, fmt.Errorf("failed to decode reddit listing: %w", err)
	}

	docs := make([]corpus.Document, 0, len(listing.Data.Children))
	for _, child := range listing.Data.Children {
		post := child.Data

		text := textnorm.CleanText(post.Selftext)
		if text == "" && post.SelftextHTML != "" {
			text = extractText(strings.NewReader(post.SelftextHTML))
		}

		author := post.Author
		if author == "" {
			author = "Anonymous"
		}

		link := post.URL
		if post.Permalink != "" {
			link = s.baseURL + post.Permalink
		}

		docs = append(docs, corpus.Document{
			Title:  post.Title,
			Text:   text,
			Author: author,
			Date:   time.Unix(int64(post.CreatedUTC), 0).UTC(),
			URL:    link,
			Source: corpus.SourceForum,
			Forum:  &corpus.ForumMeta{NumComments: post.NumComments},
		})
	}

	if len(docs) == 0 {
		return nil, fmt.Errorf("origin %s: %w", corpus.SourceForum, corpus.ErrEmptySource)
	}

	s.logger.WithField("count", len(docs)).Info("Fetched forum documents")
	return docs, nil
}
