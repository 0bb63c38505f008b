// Package state records materialization pass history in SQLite.
// Each compiler run becomes one pass row carrying the temporal offset it
// was computed with, so shifted dates are auditable after the fact.
package state

import "time"

// PassStatus is the lifecycle state of a materialization pass.
type PassStatus string

const (
	PassStatusRunning   PassStatus = "running"
	PassStatusCompleted PassStatus = "completed"
	PassStatusFailed    PassStatus = "failed"
)

// Pass is one materialization pass of the semantic layer.
type Pass struct {
	ID              string
	Status          PassStatus
	Language        string
	YearsDifference int
	FlatRowCount    int64
	Error           string
	StartedAt       time.Time
	CompletedAt     *time.Time
}

// Store persists materialization pass history.
type Store interface {
	// Open opens the underlying database. Use ":memory:" for tests.
	Open(path string) error

	// Close closes the store.
	Close() error

	// Migrate brings the schema up to date.
	Migrate() error

	// CreatePass records the start of a pass.
	CreatePass(id, lang string) (*Pass, error)

	// SetPassOffset records the temporal offset once it is fixed.
	SetPassOffset(id string, yearsDifference int) error

	// CompletePass finalizes a pass with its status, flat-table row count,
	// and error message (empty on success).
	CompletePass(id string, status PassStatus, flatRows int64, errMsg string) error

	// GetPass returns one pass by ID.
	GetPass(id string) (*Pass, error)

	// ListPasses returns passes ordered newest first.
	ListPasses(limit int) ([]*Pass, error)
}
