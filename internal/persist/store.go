package persist

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/kayz/sift/internal/search"
	_ "modernc.org/sqlite"
)

var (
	ErrMissingField = errors.New("missing required fields")
	ErrNotFound     = errors.New("evaluation not found")
)

// Store persists evaluations in SQLite.
type Store struct {
	db  *sql.DB
	mu  sync.RWMutex
	now func() time.Time
}

// NewStore opens (creating if needed) the SQLite database at path.
// ":memory:" opens a private in-memory database.
func NewStore(path string) (*Store, error) {
	memory := path == ":memory:"
	if !memory {
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return nil, fmt.Errorf("failed to create directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if memory {
		db.SetMaxOpenConns(1)
	} else if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to set WAL mode: %w", err)
	}

	s := &Store{db: db, now: time.Now}

	if err := s.init(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	return s, nil
}

// init creates the necessary tables if they don't exist
func (s *Store) init() error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS evaluations (
			id            INTEGER PRIMARY KEY AUTOINCREMENT,
			search_id     TEXT NOT NULL,
			query         TEXT NOT NULL,
			mode          TEXT NOT NULL,
			result_url    TEXT NOT NULL,
			result_title  TEXT,
			is_correct    INTEGER NOT NULL,
			created_at    TEXT NOT NULL
		);

		CREATE INDEX IF NOT EXISTS idx_search_id ON evaluations(search_id);
		CREATE INDEX IF NOT EXISTS idx_created_at ON evaluations(created_at);
	`)
	return err
}

// InsertEvaluation stores e and fills in its ID and CreatedAt.
func (s *Store) InsertEvaluation(ctx context.Context, e *Evaluation) error {
	if strings.TrimSpace(e.SearchID) == "" || strings.TrimSpace(e.ResultURL) == "" || strings.TrimSpace(e.Query) == "" {
		return ErrMissingField
	}
	if e.Mode == "" {
		e.Mode = search.ModeOneShot
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	createdAt := s.now().UTC()
	var title sql.NullString
	if e.ResultTitle != "" {
		title = sql.NullString{String: e.ResultTitle, Valid: true}
	}

	result, err := s.db.ExecContext(ctx, `
		INSERT INTO evaluations (search_id, query, mode, result_url, result_title, is_correct, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, e.SearchID, e.Query, string(e.Mode), e.ResultURL, title, boolToInt(e.IsCorrect), formatTime(createdAt))
	if err != nil {
		return fmt.Errorf("insert evaluation: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	e.ID = id
	e.CreatedAt = createdAt
	return nil
}

// ListEvaluations returns evaluations newest first.
func (s *Store) ListEvaluations(ctx context.Context, limit, offset int) ([]Evaluation, error) {
	if limit <= 0 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, search_id, query, mode, result_url, result_title, is_correct, created_at
		FROM evaluations
		ORDER BY created_at DESC, id DESC
		LIMIT ? OFFSET ?
	`, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list evaluations: %w", err)
	}
	defer rows.Close()

	evaluations := make([]Evaluation, 0)
	for rows.Next() {
		e, err := scanEvaluation(rows)
		if err != nil {
			return nil, err
		}
		evaluations = append(evaluations, e)
	}
	return evaluations, rows.Err()
}

// GetEvaluation returns one evaluation by id.
func (s *Store) GetEvaluation(ctx context.Context, id int64) (*Evaluation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRowContext(ctx, `
		SELECT id, search_id, query, mode, result_url, result_title, is_correct, created_at
		FROM evaluations
		WHERE id = ?
	`, id)
	e, err := scanEvaluation(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &e, nil
}

func scanEvaluation(row scanner) (Evaluation, error) {
	var (
		e         Evaluation
		mode      string
		title     sql.NullString
		isCorrect int
		createdAt string
	)
	if err := row.Scan(&e.ID, &e.SearchID, &e.Query, &mode, &e.ResultURL, &title, &isCorrect, &createdAt); err != nil {
		return e, err
	}
	e.Mode = search.Mode(mode)
	e.ResultTitle = title.String
	e.IsCorrect = isCorrect != 0
	e.CreatedAt = parseTime(createdAt)
	return e, nil
}

// Statistics counts correct and incorrect judgments per mode. Rows with an
// unknown mode are not counted.
func (s *Store) Statistics(ctx context.Context) (Statistics, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT mode, is_correct, COUNT(*)
		FROM evaluations
		GROUP BY mode, is_correct
	`)
	if err != nil {
		return nil, fmt.Errorf("statistics: %w", err)
	}
	defer rows.Close()

	stats := newStatistics()
	for rows.Next() {
		var (
			mode      string
			isCorrect int
			count     int64
		)
		if err := rows.Scan(&mode, &isCorrect, &count); err != nil {
			return nil, err
		}
		ms, ok := stats[search.Mode(mode)]
		if !ok {
			continue
		}
		if isCorrect != 0 {
			ms.Correct = count
		} else {
			ms.Incorrect = count
		}
		stats[search.Mode(mode)] = ms
	}
	return stats, rows.Err()
}

// Prune deletes evaluations created before the cutoff.
func (s *Store) Prune(ctx context.Context, before time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	result, err := s.db.ExecContext(ctx, `DELETE FROM evaluations WHERE created_at < ?`, formatTime(before))
	if err != nil {
		return 0, fmt.Errorf("prune evaluations: %w", err)
	}
	return result.RowsAffected()
}

// Checkpoint folds the WAL back into the main database file.
func (s *Store) Checkpoint(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, "PRAGMA wal_checkpoint(TRUNCATE)")
	return err
}

// Close closes the database connection
func (s *Store) Close() error {
	return s.db.Close()
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
