package state

import (
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	_ "modernc.org/sqlite" // sqlite driver
)

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db     *sql.DB
	path   string
	logger *slog.Logger
}

// NewSQLiteStore creates a new SQLite state store instance.
// If logger is nil, a discard logger is used.
func NewSQLiteStore(logger *slog.Logger) *SQLiteStore {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &SQLiteStore{logger: logger}
}

// Open opens a connection to the SQLite database.
// Use ":memory:" for an in-memory database.
func (s *SQLiteStore) Open(path string) error {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return fmt.Errorf("failed to open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to ping sqlite database: %w", err)
	}

	s.db = db
	s.path = path
	s.logger.Debug("state store opened", "path", path)
	return nil
}

// Close closes the SQLite database connection.
func (s *SQLiteStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// CreatePass records the start of a materialization pass.
func (s *SQLiteStore) CreatePass(id, lang string) (*Pass, error) {
	if s.db == nil {
		return nil, fmt.Errorf("database not opened")
	}

	pass := &Pass{
		ID:        id,
		Status:    PassStatusRunning,
		Language:  lang,
		StartedAt: time.Now().UTC(),
	}

	_, err := s.db.Exec(
		`INSERT INTO passes (id, status, language, started_at) VALUES (?, ?, ?, ?)`,
		pass.ID, string(pass.Status), pass.Language, pass.StartedAt.Format(time.RFC3339),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create pass: %w", err)
	}
	return pass, nil
}

// SetPassOffset records the temporal offset the pass was computed with.
func (s *SQLiteStore) SetPassOffset(id string, yearsDifference int) error {
	if s.db == nil {
		return fmt.Errorf("database not opened")
	}
	_, err := s.db.Exec(`UPDATE passes SET years_difference = ? WHERE id = ?`, yearsDifference, id)
	if err != nil {
		return fmt.Errorf("failed to set pass offset: %w", err)
	}
	return nil
}

// CompletePass finalizes a pass.
func (s *SQLiteStore) CompletePass(id string, status PassStatus, flatRows int64, errMsg string) error {
	if s.db == nil {
		return fmt.Errorf("database not opened")
	}
	_, err := s.db.Exec(
		`UPDATE passes SET status = ?, flat_row_count = ?, error = ?, completed_at = ? WHERE id = ?`,
		string(status), flatRows, errMsg, time.Now().UTC().Format(time.RFC3339), id,
	)
	if err != nil {
		return fmt.Errorf("failed to complete pass: %w", err)
	}
	return nil
}

// GetPass returns one pass by ID.
func (s *SQLiteStore) GetPass(id string) (*Pass, error) {
	if s.db == nil {
		return nil, fmt.Errorf("database not opened")
	}
	row := s.db.QueryRow(
		`SELECT id, status, language, years_difference, flat_row_count, error, started_at, completed_at
		 FROM passes WHERE id = ?`, id,
	)
	return scanPass(row)
}

// ListPasses returns passes ordered newest first.
func (s *SQLiteStore) ListPasses(limit int) ([]*Pass, error) {
	if s.db == nil {
		return nil, fmt.Errorf("database not opened")
	}
	if limit <= 0 {
		limit = 50
	}

	rows, err := s.db.Query(
		`SELECT id, status, language, years_difference, flat_row_count, error, started_at, completed_at
		 FROM passes ORDER BY started_at DESC LIMIT ?`, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list passes: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var passes []*Pass
	for rows.Next() {
		pass, err := scanPass(rows)
		if err != nil {
			return nil, err
		}
		passes = append(passes, pass)
	}
	return passes, rows.Err()
}

// rowScanner abstracts sql.Row and sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanPass(row rowScanner) (*Pass, error) {
	var pass Pass
	var status, startedAt string
	var completedAt sql.NullString
	var yearsDifference sql.NullInt64
	var flatRows sql.NullInt64
	var errMsg sql.NullString

	if err := row.Scan(&pass.ID, &status, &pass.Language, &yearsDifference, &flatRows, &errMsg, &startedAt, &completedAt); err != nil {
		return nil, fmt.Errorf("failed to scan pass: %w", err)
	}

	pass.Status = PassStatus(status)
	pass.YearsDifference = int(yearsDifference.Int64)
	pass.FlatRowCount = flatRows.Int64
	pass.Error = errMsg.String

	if t, err := time.Parse(time.RFC3339, startedAt); err == nil {
		pass.StartedAt = t
	}
	if completedAt.Valid {
		if t, err := time.Parse(time.RFC3339, completedAt.String); err == nil {
			pass.CompletedAt = &t
		}
	}
	return &pass, nil
}

// Ensure SQLiteStore implements Store interface
var _ Store = (*SQLiteStore)(nil)
