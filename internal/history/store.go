// Package history records completed analyses in DuckDB.
package history

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "github.com/duckdb/duckdb-go/v2"
	"github.com/google/uuid"

	"ballot/internal/recommend"
	"ballot/internal/research"
)

// Entry is one recorded analysis.
type Entry struct {
	ID             string
	Race           string
	Preferences    string
	KeyIssues      string
	IssueAnalysis  string
	Recommendation string
	Reasoning      string
	Candidates     []research.Candidate
	Elapsed        time.Duration
	CreatedAt      time.Time
}

// EntryFromResult converts a pipeline result into a history entry.
func EntryFromResult(result recommend.Result, preferences string) Entry {
	return Entry{
		Race:           result.Race,
		Preferences:    preferences,
		KeyIssues:      result.KeyIssues,
		IssueAnalysis:  result.IssueAnalysis,
		Recommendation: result.Recommendation,
		Reasoning:      result.Reasoning,
		Candidates:     result.Candidates,
		Elapsed:        result.Elapsed,
	}
}

// ListOptions filters List results.
type ListOptions struct {
	Limit int
	Race  string
}

// Store reads and writes the analyses table.
type Store struct {
	db  *sql.DB
	now func() time.Time
}

// Open opens (creating if needed) the database at path. An empty path or
// ":memory:" opens an in-memory database.
func Open(ctx context.Context, path string) (*Store, error) {
	if ctx == nil {
		return nil, errors.New("history: context is nil")
	}
	dsn := strings.TrimSpace(path)
	if dsn == ":memory:" {
		dsn = ""
	}
	if dsn != "" {
		if err := os.MkdirAll(filepath.Dir(dsn), 0o755); err != nil {
			return nil, fmt.Errorf("create history dir: %w", err)
		}
	}
	db, err := sql.Open("duckdb", dsn)
	if err != nil {
		return nil, fmt.Errorf("open history: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping history: %w", err)
	}
	if err := EnsureSchema(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("apply history schema: %w", err)
	}
	return &Store{db: db, now: time.Now}, nil
}

func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Record inserts entry and returns its id. A zero CreatedAt is stamped with
// the current time.
func (s *Store) Record(ctx context.Context, entry Entry) (string, error) {
	if s == nil || s.db == nil {
		return "", errors.New("history: store is closed")
	}
	if strings.TrimSpace(entry.Race) == "" {
		return "", errors.New("history: race is required")
	}
	id := entry.ID
	if id == "" {
		id = uuid.NewString()
	}
	createdAt := entry.CreatedAt
	if createdAt.IsZero() {
		createdAt = s.now()
	}
	list := entry.Candidates
	if list == nil {
		list = []research.Candidate{}
	}
	candidatesJSON, err := json.Marshal(list)
	if err != nil {
		return "", fmt.Errorf("encode candidates: %w", err)
	}
	if _, err := s.db.ExecContext(
		ctx,
		`INSERT INTO analyses (id, race, preferences, key_issues, issue_analysis, recommendation, reasoning, candidates, elapsed_ms, created_at)
		 VALUES (CAST(? AS UUID), ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		id,
		entry.Race,
		entry.Preferences,
		entry.KeyIssues,
		entry.IssueAnalysis,
		entry.Recommendation,
		entry.Reasoning,
		string(candidatesJSON),
		entry.Elapsed.Milliseconds(),
		createdAt.UTC(),
	); err != nil {
		return "", fmt.Errorf("insert analysis: %w", err)
	}
	return id, nil
}

// List returns recorded analyses, most recent first.
func (s *Store) List(ctx context.Context, opts ListOptions) ([]Entry, error) {
	if s == nil || s.db == nil {
		return nil, errors.New("history: store is closed")
	}
	query := `SELECT CAST(id AS VARCHAR), race, preferences, key_issues, issue_analysis, recommendation, reasoning, candidates, elapsed_ms, created_at
		FROM analyses`
	args := []any{}
	if race := strings.TrimSpace(opts.Race); race != "" {
		query += " WHERE race = ?"
		args = append(args, race)
	}
	query += " ORDER BY created_at DESC, id"
	if opts.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, opts.Limit)
	}
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query analyses: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var (
			entry          Entry
			candidatesJSON string
			elapsedMs      int64
		)
		if err := rows.Scan(
			&entry.ID,
			&entry.Race,
			&entry.Preferences,
			&entry.KeyIssues,
			&entry.IssueAnalysis,
			&entry.Recommendation,
			&entry.Reasoning,
			&candidatesJSON,
			&elapsedMs,
			&entry.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan analysis: %w", err)
		}
		if err := json.Unmarshal([]byte(candidatesJSON), &entry.Candidates); err != nil {
			return nil, fmt.Errorf("decode candidates for %s: %w", entry.ID, err)
		}
		entry.Elapsed = time.Duration(elapsedMs) * time.Millisecond
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate analyses: %w", err)
	}
	return entries, nil
}
