// Package store keeps a local SQLite journal of translation requests and
// their outcomes. It is a history, not a cache: nothing read from it is ever
// served in place of a backend call.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"golang.org/x/text/unicode/norm"
	_ "modernc.org/sqlite"

	"github.com/valpere/dhwani/internal"
)

type Store struct {
	db *sql.DB
}

func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// One writer at a time; the web form may record from concurrent handlers.
	db.SetMaxOpenConns(1)

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate: %w", err)
	}

	return s, nil
}

func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS translation_requests (
		id TEXT PRIMARY KEY,
		source_text TEXT NOT NULL,
		source_lang TEXT NOT NULL,
		target_lang TEXT NOT NULL,
		device_type TEXT NOT NULL,
		endpoint TEXT,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS translation_results (
		request_id TEXT PRIMARY KEY,
		translated_text TEXT NOT NULL,
		chunks INTEGER NOT NULL,
		latency_ms INTEGER,
		error_kind TEXT,
		error TEXT,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		FOREIGN KEY (request_id) REFERENCES translation_requests(id)
	);

	CREATE INDEX IF NOT EXISTS idx_requests_created ON translation_requests(created_at);
	`

	_, err := s.db.Exec(schema)
	return err
}

func (s *Store) SaveRequest(ctx context.Context, req internal.TranslationRequest) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO translation_requests (id, source_text, source_lang, target_lang, device_type, endpoint, created_at) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		req.ID, normalizeText(req.SourceText), req.SourceLang, req.TargetLang, req.DeviceType, req.Endpoint, req.Timestamp)
	return err
}

func (s *Store) SaveOutcome(ctx context.Context, out internal.TranslationOutcome) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO translation_results (request_id, translated_text, chunks, latency_ms, error_kind, error) VALUES (?, ?, ?, ?, ?, ?)`,
		out.RequestID, out.TranslatedText, out.Chunks, out.Latency.Milliseconds(), out.ErrorKind, out.Error)
	return err
}

// HistoryEntry is a request joined with its outcome, if one was recorded.
type HistoryEntry struct {
	ID             string
	SourceText     string
	SourceLang     string
	TargetLang     string
	DeviceType     string
	TranslatedText string
	Chunks         int
	LatencyMs      int64
	ErrorKind      string
	Error          string
	CreatedAt      time.Time
}

// Failed reports whether the recorded call ended in an error.
func (e HistoryEntry) Failed() bool {
	return e.ErrorKind != "" || e.Error != ""
}

// HistoryStats summarises the journal.
type HistoryStats struct {
	TotalRequests int
	Succeeded     int
	Failed        int
	TotalChunks   int
	AvgLatencyMs  float64
}

// ListHistory returns the most recent entries first. limit ≤ 0 returns all.
func (s *Store) ListHistory(ctx context.Context, limit int) ([]HistoryEntry, error) {
	query := `
		SELECT r.id, r.source_text, r.source_lang, r.target_lang, r.device_type,
			COALESCE(o.translated_text, ''), COALESCE(o.chunks, 0), COALESCE(o.latency_ms, 0),
			COALESCE(o.error_kind, ''), COALESCE(o.error, ''), r.created_at
		FROM translation_requests r
		LEFT JOIN translation_results o ON o.request_id = r.id
		ORDER BY r.created_at DESC, r.rowid DESC`
	var args []interface{}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []HistoryEntry
	for rows.Next() {
		var e HistoryEntry
		if err := rows.Scan(&e.ID, &e.SourceText, &e.SourceLang, &e.TargetLang, &e.DeviceType,
			&e.TranslatedText, &e.Chunks, &e.LatencyMs, &e.ErrorKind, &e.Error, &e.CreatedAt); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}

	return entries, rows.Err()
}

// Stats returns summary statistics for the journal.
func (s *Store) Stats(ctx context.Context) (*HistoryStats, error) {
	stats := &HistoryStats{}

	err := s.db.QueryRowContext(ctx, `
		SELECT
			COUNT(*),
			COALESCE(SUM(CASE WHEN o.request_id IS NOT NULL AND COALESCE(o.error_kind, '') = '' THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN COALESCE(o.error_kind, '') <> '' THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(o.chunks), 0),
			COALESCE(AVG(o.latency_ms), 0)
		FROM translation_requests r
		LEFT JOIN translation_results o ON o.request_id = r.id`).Scan(
		&stats.TotalRequests,
		&stats.Succeeded,
		&stats.Failed,
		&stats.TotalChunks,
		&stats.AvgLatencyMs,
	)
	if err != nil {
		return nil, err
	}
	return stats, nil
}

// DeleteEntry permanently removes a request and its outcome.
func (s *Store) DeleteEntry(ctx context.Context, id string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM translation_results WHERE request_id = ?`, id); err != nil {
		return err
	}
	res, err := tx.ExecContext(ctx, `DELETE FROM translation_requests WHERE id = ?`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("history entry not found: %s", id)
	}
	return tx.Commit()
}

// Clear removes every entry and returns the number of requests deleted.
func (s *Store) Clear(ctx context.Context) (int64, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM translation_results`); err != nil {
		return 0, err
	}
	res, err := tx.ExecContext(ctx, `DELETE FROM translation_requests`)
	if err != nil {
		return 0, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, err
	}
	return n, tx.Commit()
}

func (s *Store) Close() error {
	return s.db.Close()
}

// normalizeText trims whitespace and applies Unicode NFC normalization so
// Indic text typed with different input methods is stored consistently.
func normalizeText(text string) string {
	return norm.NFC.String(strings.TrimSpace(text))
}
