// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package store persists research profiles, feedback, and recommendation
// history in a local SQLite database. Implements: prd004-profiles (R1-R4).
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/jpreyes/paperradarai-bot/pkg/types"
)

const dbFile = "paperradar.db"

// maxHistoryRecords caps the per-profile history so the database does not
// grow without bound.
const maxHistoryRecords = 5000

// Store manages the profile and history SQLite database.
type Store struct {
	db *sql.DB
}

// NewStore opens or creates the database at dataDir/paperradar.db and
// creates the schema if it does not exist (R1.2).
func NewStore(cfg types.StoreConfig) (*Store, error) {
	dataDir := cfg.DataDir
	if dataDir == "" {
		dataDir = "data"
	}
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, dbFile)
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{db: db}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS profiles (
			name TEXT PRIMARY KEY,
			summary TEXT NOT NULL,
			topics TEXT,
			topic_weights TEXT,
			updated_at TEXT
		)`,
		`CREATE TABLE IF NOT EXISTS feedback (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			profile TEXT NOT NULL REFERENCES profiles(name),
			kind TEXT NOT NULL CHECK (kind IN ('like','dislike')),
			snippet TEXT NOT NULL,
			created_at TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_feedback_profile ON feedback(profile, kind)`,
		`CREATE TABLE IF NOT EXISTS sent (
			profile TEXT NOT NULL,
			doc_key TEXT NOT NULL,
			sent_at TEXT,
			PRIMARY KEY (profile, doc_key)
		)`,
		`CREATE TABLE IF NOT EXISTS history (
			profile TEXT NOT NULL,
			doc_key TEXT NOT NULL,
			ts TEXT,
			source TEXT,
			title TEXT,
			url TEXT,
			published TEXT,
			score REAL,
			similarities TEXT,
			ideas TEXT,
			tag TEXT,
			note TEXT,
			PRIMARY KEY (profile, doc_key) ON CONFLICT REPLACE
		)`,
	}

	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

func nowISO() string {
	return time.Now().UTC().Format("2006-01-02T15:04:05Z")
}

// SaveProfile upserts the profile's summary, topics, and topic weights.
// Feedback rows are managed separately via AddLike/AddDislike (R1.3).
func (s *Store) SaveProfile(ctx context.Context, p types.Profile) error {
	if p.Name == "" {
		return fmt.Errorf("profile name is empty")
	}

	topicsJSON, err := json.Marshal(p.Topics)
	if err != nil {
		return fmt.Errorf("encoding topics: %w", err)
	}
	weightsJSON, err := json.Marshal(p.TopicWeights)
	if err != nil {
		return fmt.Errorf("encoding topic weights: %w", err)
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO profiles (name, summary, topics, topic_weights, updated_at)
		 VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT(name) DO UPDATE SET
			summary = excluded.summary,
			topics = excluded.topics,
			topic_weights = excluded.topic_weights,
			updated_at = excluded.updated_at`,
		p.Name, p.Summary, string(topicsJSON), string(weightsJSON), nowISO())
	if err != nil {
		return fmt.Errorf("saving profile %s: %w", p.Name, err)
	}
	return nil
}

// GetProfile loads a profile with its likes and dislikes (R1.4).
func (s *Store) GetProfile(ctx context.Context, name string) (types.Profile, error) {
	var (
		p           types.Profile
		topicsJSON  sql.NullString
		weightsJSON sql.NullString
	)

	err := s.db.QueryRowContext(ctx,
		`SELECT name, summary, topics, topic_weights FROM profiles WHERE name = ?`, name,
	).Scan(&p.Name, &p.Summary, &topicsJSON, &weightsJSON)
	if err != nil {
		if err == sql.ErrNoRows {
			return types.Profile{}, fmt.Errorf("profile %s not found", name)
		}
		return types.Profile{}, fmt.Errorf("loading profile %s: %w", name, err)
	}

	if topicsJSON.Valid {
		json.Unmarshal([]byte(topicsJSON.String), &p.Topics)
	}
	if weightsJSON.Valid {
		json.Unmarshal([]byte(weightsJSON.String), &p.TopicWeights)
	}

	p.Likes, err = s.feedback(ctx, name, "like")
	if err != nil {
		return types.Profile{}, err
	}
	p.Dislikes, err = s.feedback(ctx, name, "dislike")
	if err != nil {
		return types.Profile{}, err
	}
	return p, nil
}

// ListProfiles returns all profile names in alphabetical order.
func (s *Store) ListProfiles(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT name FROM profiles ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("listing profiles: %w", err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("scanning profile name: %w", err)
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

func (s *Store) feedback(ctx context.Context, profile, kind string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT snippet FROM feedback WHERE profile = ? AND kind = ? ORDER BY id`, profile, kind)
	if err != nil {
		return nil, fmt.Errorf("loading %ss for %s: %w", kind, profile, err)
	}
	defer rows.Close()

	var snippets []string
	for rows.Next() {
		var snippet string
		if err := rows.Scan(&snippet); err != nil {
			return nil, fmt.Errorf("scanning %s: %w", kind, err)
		}
		snippets = append(snippets, snippet)
	}
	return snippets, rows.Err()
}

func (s *Store) addFeedback(ctx context.Context, profile, kind, snippet string) error {
	if snippet == "" {
		return fmt.Errorf("empty %s snippet", kind)
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO feedback (profile, kind, snippet, created_at) VALUES (?, ?, ?, ?)`,
		profile, kind, snippet, nowISO())
	if err != nil {
		return fmt.Errorf("recording %s for %s: %w", kind, profile, err)
	}
	return nil
}

// AddLike records a positive exemplar snippet for the profile (R2.1).
func (s *Store) AddLike(ctx context.Context, profile, snippet string) error {
	return s.addFeedback(ctx, profile, "like", snippet)
}

// AddDislike records a negative exemplar snippet for the profile (R2.2).
func (s *Store) AddDislike(ctx context.Context, profile, snippet string) error {
	return s.addFeedback(ctx, profile, "dislike", snippet)
}

// MarkSent records that a document was surfaced to the profile, so later
// passes can suppress it (R3.1).
func (s *Store) MarkSent(ctx context.Context, profile, docKey string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT OR IGNORE INTO sent (profile, doc_key, sent_at) VALUES (?, ?, ?)`,
		profile, docKey, nowISO())
	if err != nil {
		return fmt.Errorf("marking %s sent: %w", docKey, err)
	}
	return nil
}

// WasSent reports whether a document was already surfaced to the profile.
func (s *Store) WasSent(ctx context.Context, profile, docKey string) (bool, error) {
	var one int
	err := s.db.QueryRowContext(ctx,
		`SELECT 1 FROM sent WHERE profile = ? AND doc_key = ?`, profile, docKey).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("checking sent state: %w", err)
	}
	return true, nil
}
