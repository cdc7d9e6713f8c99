package source_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/feedcorpus/backend/internal/corpus"
	"github.com/feedcorpus/backend/internal/source"
)

func testLogger() *logrus.Entry {
	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)
	return logrus.NewEntry(logger)
}

func testClient() *source.Client {
	return source.NewClient(5*time.Second, "feedcorpus-test/1.0", false)
}

func TestQueryValidate(t *testing.T) {
	q := source.Query{Origin: corpus.SourceForum, Keyword: "golang"}
	require.NoError(t, q.Validate(25))
	assert.Equal(t, 25, q.Quantity)

	q = source.Query{Origin: corpus.SourceForum, Keyword: "golang", Quantity: 7}
	require.NoError(t, q.Validate(25))
	assert.Equal(t, 7, q.Quantity)

	q = source.Query{Keyword: "golang"}
	assert.ErrorIs(t, q.Validate(25), corpus.ErrInvalidArgument)

	q = source.Query{Origin: corpus.SourceForum, Keyword: "   "}
	assert.ErrorIs(t, q.Validate(25), corpus.ErrInvalidArgument)
}

const redditListingJSON = `{
	"data": {
		"children": [
			{"data": {
				"title": "Go generics in practice",
				"selftext": "Sharing some patterns we found useful.",
				"author": "gopher42",
				"created_utc": 1700000000,
				"permalink": "/r/golang/comments/abc/go_generics/",
				"num_comments": 12
			}},
			{"data": {
				"title": "Weekly thread",
				"selftext": "",
				"selftext_html": "<div><p>What are you working on?</p></div>",
				"author": "",
				"created_utc": 1700000100,
				"permalink": "/r/golang/comments/def/weekly/",
				"num_comments": 3
			}}
		]
	}
}`

func TestRedditFetch(t *testing.T) {
	var gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(redditListingJSON))
	}))
	defer srv.Close()

	s := source.NewRedditSource(testClient(), testLogger())
	s.SetBaseURL(srv.URL)

	docs, err := s.Fetch(context.Background(), source.Query{
		Origin: corpus.SourceForum, Keyword: "golang", Quantity: 10,
	})
	require.NoError(t, err)
	require.Len(t, docs, 2)
	assert.Equal(t, "/r/golang/hot.json", gotPath)

	first := docs[0]
	assert.Equal(t, "Go generics in practice", first.Title)
	assert.Equal(t, "Sharing some patterns we found useful.", first.Text)
	assert.Equal(t, "gopher42", first.Author)
	assert.Equal(t, corpus.SourceForum, first.Source)
	assert.Equal(t, srv.URL+"/r/golang/comments/abc/go_generics/", first.URL)
	assert.Equal(t, time.Unix(1700000000, 0).UTC(), first.Date)
	require.NotNil(t, first.Forum)
	assert.Equal(t, 12, first.Forum.NumComments)

	second := docs[1]
	assert.Equal(t, "Anonymous", second.Author)
	assert.Equal(t, "What are you working on?", second.Text)
	require.NotNil(t, second.Forum)
	assert.Equal(t, 3, second.Forum.NumComments)
}

func TestRedditFetchEmptyListing(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"data": {"children": []}}`))
	}))
	defer srv.Close()

	s := source.NewRedditSource(testClient(), testLogger())
	s.SetBaseURL(srv.URL)

	_, err := s.Fetch(context.Background(), source.Query{
		Origin: corpus.SourceForum, Keyword: "emptysub", Quantity: 5,
	})
	assert.ErrorIs(t, err, corpus.ErrEmptySource)
}

func TestRedditFetchServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	s := source.NewRedditSource(testClient(), testLogger())
	s.SetBaseURL(srv.URL)

	_, err := s.Fetch(context.Background(), source.Query{
		Origin: corpus.SourceForum, Keyword: "golang", Quantity: 5,
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "non-200")
}

const arxivFeedXML = `<?xml version="1.0" encoding="UTF-8"?>
<feed xmlns="http://www.w3.org/2005/Atom">
  <entry>
    <id>http://arxiv.org/abs/2301.00001v1</id>
    <title>Attention Is
      Not All You Need</title>
    <published>2023-01-02T18:30:00Z</published>
    <summary>We revisit transformer
      architectures.</summary>
    <author><name>Ada Lovelace</name></author>
    <author><name>Alan Turing</name></author>
  </entry>
</feed>`

func TestArxivFetch(t *testing.T) {
	var gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query().Get("search_query")
		w.Header().Set("Content-Type", "application/atom+xml")
		_, _ = w.Write([]byte(arxivFeedXML))
	}))
	defer srv.Close()

	s := source.NewArxivSource(testClient(), testLogger())
	s.SetBaseURL(srv.URL)

	docs, err := s.Fetch(context.Background(), source.Query{
		Origin: corpus.SourceAcademic, Keyword: "transformers", Quantity: 5,
	})
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, "all:transformers", gotQuery)

	doc := docs[0]
	assert.Equal(t, "Attention Is Not All You Need", doc.Title)
	assert.Equal(t, "We revisit transformer architectures.", doc.Text)
	assert.Equal(t, "Ada Lovelace, Alan Turing", doc.Author)
	assert.Equal(t, "http://arxiv.org/abs/2301.00001v1", doc.URL)
	assert.Equal(t, corpus.SourceAcademic, doc.Source)
	assert.Equal(t, time.Date(2023, time.January, 2, 18, 30, 0, 0, time.UTC), doc.Date)
	require.NotNil(t, doc.Academic)
	assert.Equal(t, []string{"Ada Lovelace", "Alan Turing"}, doc.Academic.Authors)
}

func TestArxivFetchEmptyFeed(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`<feed xmlns="http://www.w3.org/2005/Atom"></feed>`))
	}))
	defer srv.Close()

	s := source.NewArxivSource(testClient(), testLogger())
	s.SetBaseURL(srv.URL)

	_, err := s.Fetch(context.Background(), source.Query{
		Origin: corpus.SourceAcademic, Keyword: "nothing", Quantity: 5,
	})
	assert.ErrorIs(t, err, corpus.ErrEmptySource)
}

func TestClientRespectsRobots(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/robots.txt" {
			_, _ = w.Write([]byte("User-agent: *\nDisallow: /private/\n"))
			return
		}
		_, _ = w.Write([]byte("ok"))
	}))
	defer srv.Close()

	c := source.NewClient(5*time.Second, "feedcorpus-test/1.0", true)

	resp, err := c.Get(context.Background(), srv.URL+"/public/page")
	require.NoError(t, err)
	resp.Body.Close()

	_, err = c.Get(context.Background(), srv.URL+"/private/page")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "robots.txt disallows")
}

func TestClientAllowsWhenRobotsMissing(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/robots.txt" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		_, _ = w.Write([]byte("ok"))
	}))
	defer srv.Close()

	c := source.NewClient(5*time.Second, "feedcorpus-test/1.0", true)
	resp, err := c.Get(context.Background(), srv.URL+"/anything")
	require.NoError(t, err)
	resp.Body.Close()
}

func TestClientContextCancellation(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	c := testClient()
	_, err := c.Get(ctx, srv.URL)
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.DeadlineExceeded))
}
