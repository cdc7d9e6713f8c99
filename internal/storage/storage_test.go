package storage_test

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/feedcorpus/backend/internal/corpus"
	"github.com/feedcorpus/backend/internal/storage"
)

func sampleSnapshot(topic string) *storage.Snapshot {
	return &storage.Snapshot{
		Topic:     topic,
		RunID:     "run-1234",
		CreatedAt: time.Date(2024, time.June, 1, 12, 0, 0, 0, time.UTC),
		Documents: []corpus.Document{
			{
				ID: 1, Source: corpus.SourceForum,
				Title: "GPU deals", Text: "found a cheap graphics card",
				Author: "gopher42",
				Date:   time.Date(2024, time.May, 30, 8, 0, 0, 0, time.UTC),
				URL:    "https://example.com/r/deals/1",
				Forum:  &corpus.ForumMeta{NumComments: 7},
			},
			{
				ID: 2, Source: corpus.SourceAcademic,
				Title: "GPU scheduling", Text: "we study kernel scheduling on accelerators",
				Author: "Ada Lovelace, Alan Turing",
				Date:   time.Date(2024, time.April, 2, 0, 0, 0, 0, time.UTC),
				URL:    "http://arxiv.org/abs/2404.00002v1",
				Academic: &corpus.AcademicMeta{
					Authors: []string{"Ada Lovelace", "Alan Turing"},
				},
			},
		},
	}
}

func assertSnapshotEqual(t *testing.T, want, got *storage.Snapshot) {
	t.Helper()
	assert.Equal(t, want.Topic, got.Topic)
	assert.Equal(t, want.RunID, got.RunID)
	assert.True(t, want.CreatedAt.Equal(got.CreatedAt))
	require.Len(t, got.Documents, len(want.Documents))
	for i := range want.Documents {
		w, g := want.Documents[i], got.Documents[i]
		assert.Equal(t, w.ID, g.ID)
		assert.Equal(t, w.Title, g.Title)
		assert.Equal(t, w.Text, g.Text)
		assert.Equal(t, w.Author, g.Author)
		assert.Equal(t, w.URL, g.URL)
		assert.Equal(t, w.Source, g.Source)
		assert.True(t, w.Date.Equal(g.Date))
		assert.Equal(t, w.Forum, g.Forum)
		assert.Equal(t, w.Academic, g.Academic)
	}
}

func TestFileStorageRoundTrip(t *testing.T) {
	fs, err := storage.NewFileStorage(t.TempDir())
	require.NoError(t, err)
	defer fs.Close()

	snap := sampleSnapshot("gpu market")
	require.NoError(t, fs.Save(snap))

	got, err := fs.Load("gpu market")
	require.NoError(t, err)
	assertSnapshotEqual(t, snap, got)
}

func TestFileStorageMissingTopic(t *testing.T) {
	fs, err := storage.NewFileStorage(t.TempDir())
	require.NoError(t, err)
	defer fs.Close()

	_, err = fs.Load("never saved")
	assert.ErrorIs(t, err, storage.ErrNoSnapshot)
}

func TestFileStorageOverwrite(t *testing.T) {
	fs, err := storage.NewFileStorage(t.TempDir())
	require.NoError(t, err)
	defer fs.Close()

	snap := sampleSnapshot("topic")
	require.NoError(t, fs.Save(snap))

	snap.RunID = "run-5678"
	snap.Documents = snap.Documents[:1]
	require.NoError(t, fs.Save(snap))

	got, err := fs.Load("topic")
	require.NoError(t, err)
	assert.Equal(t, "run-5678", got.RunID)
	assert.Len(t, got.Documents, 1)
}

func TestSQLiteStorageRoundTrip(t *testing.T) {
	s, err := storage.NewSQLiteStorage(filepath.Join(t.TempDir(), "snapshots.db"))
	require.NoError(t, err)
	defer s.Close()

	snap := sampleSnapshot("gpu market")
	require.NoError(t, s.Save(snap))

	got, err := s.Load("gpu market")
	require.NoError(t, err)
	assertSnapshotEqual(t, snap, got)
}

func TestSQLiteStorageMissingTopic(t *testing.T) {
	s, err := storage.NewSQLiteStorage(filepath.Join(t.TempDir(), "snapshots.db"))
	require.NoError(t, err)
	defer s.Close()

	_, err = s.Load("never saved")
	assert.ErrorIs(t, err, storage.ErrNoSnapshot)
}

func TestSQLiteStorageReplacesOnSave(t *testing.T) {
	s, err := storage.NewSQLiteStorage(filepath.Join(t.TempDir(), "snapshots.db"))
	require.NoError(t, err)
	defer s.Close()

	snap := sampleSnapshot("topic")
	require.NoError(t, s.Save(snap))

	snap.RunID = "run-5678"
	snap.Documents = snap.Documents[:1]
	require.NoError(t, s.Save(snap))

	got, err := s.Load("topic")
	require.NoError(t, err)
	assert.Equal(t, "run-5678", got.RunID)
	assert.Len(t, got.Documents, 1)
}

func TestSnapshotBuildCorpus(t *testing.T) {
	c := corpus.New("gpu market")
	c.Add(corpus.Document{
		Source: corpus.SourceForum, Title: "GPU deals",
		Text: "found a cheap graphics card", Author: "gopher42",
		Date: time.Date(2024, time.May, 30, 8, 0, 0, 0, time.UTC),
	}, "gopher42")
	c.Add(corpus.Document{
		Source: corpus.SourceForum, Title: "More deals",
		Text: "even cheaper cards today", Author: "gopher42",
	}, "gopher42")

	snap := storage.FromCorpus(c, "gpu market", "run-1")
	require.Len(t, snap.Documents, 2)

	rebuilt := snap.BuildCorpus()
	assert.Equal(t, c.Len(), rebuilt.Len())
	assert.Equal(t, c.AuthorCount(), rebuilt.AuthorCount())

	for _, want := range c.AllDocuments() {
		got, err := rebuilt.GetDocument(want.ID)
		require.NoError(t, err)
		assert.Equal(t, want.Title, got.Title)
		assert.Equal(t, want.Text, got.Text)
		assert.Equal(t, want.Author, got.Author)
	}
}

func TestSnapshotBuildCorpusAnonymousFallback(t *testing.T) {
	snap := &storage.Snapshot{
		Topic: "t",
		Documents: []corpus.Document{
			{Source: corpus.SourceForum, Title: "untitled", Text: "body"},
		},
	}

	c := snap.BuildCorpus()
	require.Equal(t, 1, c.Len())
	doc, err := c.GetDocument(1)
	require.NoError(t, err)
	assert.Equal(t, "Anonymous", doc.Author)
}
