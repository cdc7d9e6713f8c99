package storage

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "github.com/glebarez/sqlite"

	"github.com/feedcorpus/backend/internal/corpus"
)

// SQLiteStorage implements SnapshotStorage on a SQLite database, useful
// when snapshots should survive as queryable rows rather than JSON blobs.
type SQLiteStorage struct {
	db *sql.DB
}

// NewSQLiteStorage opens (and if needed initializes) the database at path.
func NewSQLiteStorage(path string) (*SQLiteStorage, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database: %w", err)
	}

	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS snapshots (
			topic TEXT PRIMARY KEY,
			run_id TEXT NOT NULL,
			created_at TEXT NOT NULL
		);

		CREATE TABLE IF NOT EXISTS documents (
			topic TEXT NOT NULL,
			doc_id INTEGER NOT NULL,
			title TEXT,
			body TEXT,
			author TEXT,
			date TEXT,
			url TEXT,
			source TEXT NOT NULL,
			num_comments INTEGER,
			authors TEXT,
			PRIMARY KEY (topic, doc_id)
		);

		CREATE INDEX IF NOT EXISTS idx_documents_topic ON documents(topic);
	`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return &SQLiteStorage{db: db}, nil
}

// Save replaces the stored snapshot for the topic.
func (s *SQLiteStorage) Save(snap *Snapshot) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM documents WHERE topic = ?`, snap.Topic); err != nil {
		return fmt.Errorf("failed to clear documents: %w", err)
	}
	if _, err := tx.Exec(
		`INSERT OR REPLACE INTO snapshots (topic, run_id, created_at) VALUES (?, ?, ?)`,
		snap.Topic, snap.RunID, snap.CreatedAt.Format(time.RFC3339),
	); err != nil {
		return fmt.Errorf("failed to store snapshot row: %w", err)
	}

	for _, d := range snap.Documents {
		var numComments sql.NullInt64
		if d.Forum != nil {
			numComments = sql.NullInt64{Int64: int64(d.Forum.NumComments), Valid: true}
		}
		var authors sql.NullString
		if d.Academic != nil {
			data, err := json.Marshal(d.Academic.Authors)
			if err != nil {
				return fmt.Errorf("failed to marshal authors: %w", err)
			}
			authors = sql.NullString{String: string(data), Valid: true}
		}

		if _, err := tx.Exec(
			`INSERT INTO documents (topic, doc_id, title, body, author, date, url, source, num_comments, authors)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			snap.Topic, d.ID, d.Title, d.Text, d.Author,
			d.Date.Format(time.RFC3339), d.URL, string(d.Source),
			numComments, authors,
		); err != nil {
			return fmt.Errorf("failed to store document %d: %w", d.ID, err)
		}
	}

	return tx.Commit()
}

// Load reconstructs the snapshot for a topic.
func (s *SQLiteStorage) Load(topic string) (*Snapshot, error) {
	snap := &Snapshot{Topic: topic}

	var createdAt string
	err := s.db.QueryRow(
		`SELECT run_id, created_at FROM snapshots WHERE topic = ?`, topic,
	).Scan(&snap.RunID, &createdAt)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: %s", ErrNoSnapshot, topic)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load snapshot row: %w", err)
	}
	if t, err := time.Parse(time.RFC3339, createdAt); err == nil {
		snap.CreatedAt = t
	}

	rows, err := s.db.Query(
		`SELECT doc_id, title, body, author, date, url, source, num_comments, authors
		 FROM documents WHERE topic = ? ORDER BY doc_id`, topic)
	if err != nil {
		return nil, fmt.Errorf("failed to load documents: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var d corpus.Document
		var date, src string
		var numComments sql.NullInt64
		var authors sql.NullString
		if err := rows.Scan(&d.ID, &d.Title, &d.Text, &d.Author,
			&date, &d.URL, &src, &numComments, &authors); err != nil {
			return nil, fmt.Errorf("failed to scan document: %w", err)
		}
		d.Source = corpus.Source(src)
		if t, err := time.Parse(time.RFC3339, date); err == nil {
			d.Date = t
		}
		if numComments.Valid {
			d.Forum = &corpus.ForumMeta{NumComments: int(numComments.Int64)}
		}
		if authors.Valid {
			var names []string
			if err := json.Unmarshal([]byte(authors.String), &names); err != nil {
				return nil, fmt.Errorf("failed to unmarshal authors: %w", err)
			}
			d.Academic = &corpus.AcademicMeta{Authors: names}
		}
		snap.Documents = append(snap.Documents, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate documents: %w", err)
	}

	return snap, nil
}

// Close releases the database handle.
func (s *SQLiteStorage) Close() error {
	return s.db.Close()
}
