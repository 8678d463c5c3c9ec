// Package store handles SQL persistence of completed typing tests.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "github.com/lib/pq"  // PostgreSQL driver.
	_ "modernc.org/sqlite" // SQLite driver.

	"github.com/verte-zerg/retype/internal/analysis"
	"github.com/verte-zerg/retype/internal/model"
)

// Supported drivers.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// timeLayout is fixed width so completed_at sorts and compares as text.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// ErrNotFound is returned when a test does not exist.
var ErrNotFound = errors.New("test not found")

// ErrAmbiguousID is returned when an id prefix matches several tests.
var ErrAmbiguousID = errors.New("test id prefix is ambiguous")

// Store wraps SQL access for test records.
type Store struct {
	db     *sql.DB
	driver string
}

// Open opens or creates the SQLite database and applies migrations.
func Open(path string) (*Store, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return OpenDSN(DriverSQLite, path)
}

// OpenDSN opens a database for the given driver and applies migrations.
func OpenDSN(driver, dsn string) (*Store, error) {
	switch driver {
	case DriverSQLite, DriverPostgres:
	default:
		return nil, fmt.Errorf("unsupported store driver %q", driver)
	}
	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, err
	}
	store := &Store{db: db, driver: driver}
	if err := store.migrate(); err != nil {
		if cerr := db.Close(); cerr != nil {
			// Best-effort close on migration failure.
			_ = cerr
		}
		return nil, err
	}
	return store, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Ping checks the database connection.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *Store) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS tests (
			id TEXT PRIMARY KEY,
			title TEXT NOT NULL,
			source TEXT NOT NULL,
			filename TEXT NOT NULL,
			reference_text TEXT NOT NULL,
			typed_text TEXT NOT NULL,
			wpm INTEGER NOT NULL,
			cpm INTEGER NOT NULL,
			accuracy INTEGER NOT NULL,
			elapsed_seconds DOUBLE PRECISION NOT NULL,
			expected_seconds INTEGER NOT NULL,
			correct_chars INTEGER NOT NULL,
			total_typed INTEGER NOT NULL,
			mistakes INTEGER NOT NULL,
			mistake_details TEXT NOT NULL,
			suggestions TEXT NOT NULL,
			completed_at TEXT NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_tests_completed_at ON tests(completed_at);`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// InsertTest stores a completed test and returns its id.
func (s *Store) InsertTest(ctx context.Context, rec model.TestRecord) (string, error) {
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	if rec.CompletedAt.IsZero() {
		rec.CompletedAt = time.Now()
	}
	details, err := json.Marshal(nonNilMistakes(rec.Result.MistakeDetails))
	if err != nil {
		return "", fmt.Errorf("failed to encode mistake details: %w", err)
	}
	suggestions, err := json.Marshal(nonNilStrings(rec.Result.Suggestions))
	if err != nil {
		return "", fmt.Errorf("failed to encode suggestions: %w", err)
	}
	r := rec.Result
	_, err = s.db.ExecContext(ctx, s.rebind(
		`INSERT INTO tests (id, title, source, filename, reference_text, typed_text, wpm, cpm, accuracy,
			elapsed_seconds, expected_seconds, correct_chars, total_typed, mistakes, mistake_details, suggestions, completed_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`),
		rec.ID,
		rec.Title,
		rec.Source,
		rec.Filename,
		rec.Reference,
		rec.Typed,
		r.WPM,
		r.CPM,
		r.Accuracy,
		r.ElapsedSeconds,
		r.ExpectedSeconds,
		r.CorrectChars,
		r.TotalTyped,
		r.Mistakes,
		string(details),
		string(suggestions),
		rec.CompletedAt.UTC().Format(timeLayout),
	)
	if err != nil {
		return "", err
	}
	return rec.ID, nil
}

const selectColumns = `SELECT id, title, source, filename, reference_text, typed_text, wpm, cpm, accuracy,
	elapsed_seconds, expected_seconds, correct_chars, total_typed, mistakes, mistake_details, suggestions, completed_at
	FROM tests`

// GetTest loads a single test by id.
func (s *Store) GetTest(ctx context.Context, id string) (model.TestRecord, error) {
	row := s.db.QueryRowContext(ctx, s.rebind(selectColumns+` WHERE id = ?`), id)
	rec, err := scanRecord(row)
	if errors.Is(err, sql.ErrNoRows) {
		return model.TestRecord{}, ErrNotFound
	}
	if err != nil {
		return model.TestRecord{}, err
	}
	return rec, nil
}

// ListTests returns tests filtered and ordered by the history config.
func (s *Store) ListTests(ctx context.Context, cfg model.HistoryConfig) ([]model.TestRecord, error) {
	clauses := []string{"1=1"}
	args := []any{}
	switch cfg.Filter {
	case model.FilterHigh:
		clauses = append(clauses, "wpm >= 50 AND accuracy >= 90")
	case model.FilterLow:
		clauses = append(clauses, "(wpm < 50 OR accuracy < 90)")
	}
	if cfg.Since != nil {
		clauses = append(clauses, "completed_at >= ?")
		args = append(args, cfg.Since.UTC().Format(timeLayout))
	}
	order := "completed_at DESC"
	switch cfg.SortBy {
	case model.SortWPM:
		order = "wpm DESC, completed_at DESC"
	case model.SortAccuracy:
		order = "accuracy DESC, completed_at DESC"
	}
	query := fmt.Sprintf(`%s WHERE %s ORDER BY %s`, selectColumns, strings.Join(clauses, " AND "), order)
	if cfg.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, cfg.Limit)
	}
	rows, err := s.db.QueryContext(ctx, s.rebind(query), args...)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	var records []model.TestRecord
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return records, nil
}

// DeleteTest removes a test. It reports whether a row was deleted.
func (s *Store) DeleteTest(ctx context.Context, id string) (bool, error) {
	res, err := s.db.ExecContext(ctx, s.rebind(`DELETE FROM tests WHERE id = ?`), id)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// ResolveID expands a unique id prefix to the full test id.
func (s *Store) ResolveID(ctx context.Context, prefix string) (string, error) {
	prefix = strings.TrimSpace(prefix)
	if prefix == "" || strings.ContainsAny(prefix, "%_") {
		return "", ErrNotFound
	}
	rows, err := s.db.QueryContext(ctx, s.rebind(`SELECT id FROM tests WHERE id LIKE ? ORDER BY id LIMIT 2`), prefix+"%")
	if err != nil {
		return "", err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort close for read-only query.
			_ = cerr
		}
	}()
	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return "", err
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return "", err
	}
	switch {
	case len(ids) == 0:
		return "", ErrNotFound
	case len(ids) > 1 && ids[0] != prefix:
		return "", ErrAmbiguousID
	}
	return ids[0], nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRecord(sc scanner) (model.TestRecord, error) {
	var rec model.TestRecord
	var details, suggestions, completedAt string
	r := &rec.Result
	if err := sc.Scan(
		&rec.ID, &rec.Title, &rec.Source, &rec.Filename, &rec.Reference, &rec.Typed,
		&r.WPM, &r.CPM, &r.Accuracy, &r.ElapsedSeconds, &r.ExpectedSeconds,
		&r.CorrectChars, &r.TotalTyped, &r.Mistakes, &details, &suggestions, &completedAt,
	); err != nil {
		return model.TestRecord{}, err
	}
	if err := json.Unmarshal([]byte(details), &r.MistakeDetails); err != nil {
		return model.TestRecord{}, fmt.Errorf("failed to decode mistake details: %w", err)
	}
	if err := json.Unmarshal([]byte(suggestions), &r.Suggestions); err != nil {
		return model.TestRecord{}, fmt.Errorf("failed to decode suggestions: %w", err)
	}
	parsed, err := time.Parse(time.RFC3339Nano, completedAt)
	if err != nil {
		return model.TestRecord{}, err
	}
	rec.CompletedAt = parsed
	return rec, nil
}

// rebind rewrites ? placeholders to $n for PostgreSQL.
func (s *Store) rebind(query string) string {
	if s.driver != DriverPostgres {
		return query
	}
	var b strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

func nonNilMistakes(m []analysis.MistakeDetail) []analysis.MistakeDetail {
	if m == nil {
		return []analysis.MistakeDetail{}
	}
	return m
}

func nonNilStrings(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
