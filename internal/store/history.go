// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"io"

	"go.yaml.in/yaml/v3"

	"github.com/jpreyes/paperradarai-bot/pkg/types"
)

// HistoryRecord is one recommended item as stored in the history table.
type HistoryRecord struct {
	Profile      string   `yaml:"profile"`
	DocKey       string   `yaml:"doc_key"`
	Timestamp    string   `yaml:"timestamp"`
	Source       string   `yaml:"source"`
	Title        string   `yaml:"title"`
	URL          string   `yaml:"url"`
	Published    string   `yaml:"published,omitempty"`
	Score        float64  `yaml:"score"`
	Similarities []string `yaml:"similarities,omitempty"`
	Ideas        []string `yaml:"ideas,omitempty"`
	Tag          string   `yaml:"tag"`
	Note         string   `yaml:"note,omitempty"`
}

// RecordHistory upserts one recommended item for the profile. A repeat
// recommendation of the same document replaces the earlier record (R3.2).
func (s *Store) RecordHistory(ctx context.Context, profile string, sd types.ScoredDocument, expl types.Explanation, note string) error {
	simJSON, err := json.Marshal(expl.Similarities)
	if err != nil {
		return fmt.Errorf("encoding similarities: %w", err)
	}
	ideasJSON, err := json.Marshal(expl.Ideas)
	if err != nil {
		return fmt.Errorf("encoding ideas: %w", err)
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO history
			(profile, doc_key, ts, source, title, url, published, score, similarities, ideas, tag, note)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		profile, sd.Document.Key(), nowISO(), sd.Document.Source, sd.Document.Title,
		sd.Document.URL, sd.Document.Published, sd.Score,
		string(simJSON), string(ideasJSON), string(expl.Tag), note)
	if err != nil {
		return fmt.Errorf("recording history for %s: %w", profile, err)
	}
	return s.trimHistory(ctx, profile)
}

func (s *Store) trimHistory(ctx context.Context, profile string) error {
	_, err := s.db.ExecContext(ctx,
		`DELETE FROM history WHERE profile = ? AND rowid NOT IN (
			SELECT rowid FROM history WHERE profile = ? ORDER BY ts DESC, rowid DESC LIMIT ?
		)`, profile, profile, maxHistoryRecords)
	if err != nil {
		return fmt.Errorf("trimming history for %s: %w", profile, err)
	}
	return nil
}

// History returns the most recent records for the profile, newest first.
// A limit of 0 returns everything.
func (s *Store) History(ctx context.Context, profile string, limit int) ([]HistoryRecord, error) {
	if limit <= 0 {
		limit = maxHistoryRecords
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT profile, doc_key, ts, source, title, url, published, score, similarities, ideas, tag, note
		 FROM history WHERE profile = ?
		 ORDER BY ts DESC, rowid DESC LIMIT ?`, profile, limit)
	if err != nil {
		return nil, fmt.Errorf("loading history for %s: %w", profile, err)
	}
	defer rows.Close()

	var records []HistoryRecord
	for rows.Next() {
		var (
			rec       HistoryRecord
			simJSON   sql.NullString
			ideasJSON sql.NullString
		)
		err := rows.Scan(&rec.Profile, &rec.DocKey, &rec.Timestamp, &rec.Source,
			&rec.Title, &rec.URL, &rec.Published, &rec.Score, &simJSON, &ideasJSON,
			&rec.Tag, &rec.Note)
		if err != nil {
			return nil, fmt.Errorf("scanning history record: %w", err)
		}
		if simJSON.Valid {
			json.Unmarshal([]byte(simJSON.String), &rec.Similarities)
		}
		if ideasJSON.Valid {
			json.Unmarshal([]byte(ideasJSON.String), &rec.Ideas)
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

// profileExport is the YAML document written by ExportProfile.
type profileExport struct {
	Name         string             `yaml:"name"`
	Summary      string             `yaml:"summary"`
	Topics       []string           `yaml:"topics,omitempty"`
	TopicWeights map[string]float64 `yaml:"topic_weights,omitempty"`
	Likes        []string           `yaml:"likes,omitempty"`
	Dislikes     []string           `yaml:"dislikes,omitempty"`
	History      []HistoryRecord    `yaml:"history,omitempty"`
}

// ExportProfile writes the profile, its feedback, and its recent history
// as a YAML document (R4.1).
func (s *Store) ExportProfile(ctx context.Context, name string, historyLimit int, w io.Writer) error {
	p, err := s.GetProfile(ctx, name)
	if err != nil {
		return err
	}
	history, err := s.History(ctx, name, historyLimit)
	if err != nil {
		return err
	}

	export := profileExport{
		Name:         p.Name,
		Summary:      p.Summary,
		Topics:       p.Topics,
		TopicWeights: p.TopicWeights,
		Likes:        p.Likes,
		Dislikes:     p.Dislikes,
		History:      history,
	}

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(export); err != nil {
		return fmt.Errorf("encoding profile export: %w", err)
	}
	return enc.Close()
}
