package semantic

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/grimbano/ucm-tfm-grupo-4/internal/state"
	"github.com/grimbano/ucm-tfm-grupo-4/internal/testutil"
	"github.com/grimbano/ucm-tfm-grupo-4/pkg/adapter"
)

func fixedClock(year int) Clock {
	return func() time.Time { return time.Date(year, 6, 1, 0, 0, 0, 0, time.UTC) }
}

func newTestCompiler(t *testing.T, store state.Store) (*Compiler, sqlmock.Sqlmock) {
	t.Helper()

	db, mock := newStubAdapter(t)
	c, err := NewCompiler(Config{
		Logger:         testutil.NewTestLogger(t),
		Store:          store,
		Language:       "es",
		SemanticSchema: "semantic",
		FlatTable:      "sales_flat",
		Clock:          fixedClock(2026),
	})
	require.NoError(t, err)
	c.db = db
	return c, mock
}

func newTestStore(t *testing.T) state.Store {
	t.Helper()

	s := state.NewSQLiteStore(testutil.NewTestLogger(t))
	require.NoError(t, s.Open(":memory:"))
	require.NoError(t, s.Migrate())
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestNewCompiler_Validation(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
	}{
		{"missing language", Config{SemanticSchema: "semantic", FlatTable: "sales_flat"}},
		{"missing schema", Config{Language: "es", FlatTable: "sales_flat"}},
		{"missing flat table", Config{Language: "es", SemanticSchema: "semantic"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewCompiler(tt.cfg)
			assert.Error(t, err)
		})
	}
}

func TestCompiler_ConnectReceivesAdapterConfig(t *testing.T) {
	stub, _ := newStubAdapter(t)
	adapter.Register("stub-warehouse", func(*slog.Logger) adapter.Adapter { return stub })

	cfg := adapter.Config{
		Type:     "stub-warehouse",
		Path:     "/srv/warehouse.db",
		Database: "dwh",
		Username: "semlayer",
		Params:   map[string]any{"threads": 4},
	}
	c, err := NewCompiler(Config{
		AdapterConfig:  cfg,
		Logger:         testutil.NewTestLogger(t),
		Language:       "es",
		SemanticSchema: "semantic",
		FlatTable:      "sales_flat",
		Clock:          fixedClock(2026),
	})
	require.NoError(t, err)

	_, err = c.ensureDBConnected(context.Background())
	require.NoError(t, err)
	require.NotNil(t, stub.connectCfg)
	assert.Equal(t, cfg, *stub.connectCfg)
}

func expectPass(mock sqlmock.Sqlmock, maxYear int) {
	mock.ExpectQuery(`SELECT MAX\(order_year\)`).
		WillReturnRows(sqlmock.NewRows([]string{"max"}).AddRow(maxYear))

	mock.ExpectExec(`CREATE SCHEMA IF NOT EXISTS semantic`).
		WillReturnResult(sqlmock.NewResult(0, 0))

	for _, v := range Views() {
		mock.ExpectExec(`CREATE OR REPLACE VIEW semantic\.` + v.Name).
			WillReturnResult(sqlmock.NewResult(0, 0))
	}

	mock.ExpectExec(`DROP TABLE IF EXISTS semantic\.sales_flat`).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(`CREATE TABLE semantic\.sales_flat AS`).
		WillReturnResult(sqlmock.NewResult(0, 0))

	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM semantic\.sales_flat`).
		WillReturnRows(sqlmock.NewRows([]string{"n"}).AddRow(120))
	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM fact_internet_sales`).
		WillReturnRows(sqlmock.NewRows([]string{"n"}).AddRow(80))
	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM fact_reseller_sales`).
		WillReturnRows(sqlmock.NewRows([]string{"n"}).AddRow(40))
}

func TestCompiler_Run(t *testing.T) {
	store := newTestStore(t)
	c, mock := newTestCompiler(t, store)

	expectPass(mock, 2004)

	res, err := c.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 23, res.YearsDifference)
	assert.Equal(t, int64(120), res.FlatRowCount)
	assert.Len(t, res.ViewsCreated, len(Views()))
	assert.NoError(t, mock.ExpectationsWereMet())

	pass, err := store.GetPass(res.PassID)
	require.NoError(t, err)
	assert.Equal(t, state.PassStatusCompleted, pass.Status)
	assert.Equal(t, "es", pass.Language)
	assert.Equal(t, 23, pass.YearsDifference)
	assert.Equal(t, int64(120), pass.FlatRowCount)
}

func TestCompiler_Run_EmptyFactsAborts(t *testing.T) {
	store := newTestStore(t)
	c, mock := newTestCompiler(t, store)

	mock.ExpectQuery(`SELECT MAX\(order_year\)`).
		WillReturnRows(sqlmock.NewRows([]string{"max"}).AddRow(nil))

	_, err := c.Run(context.Background())

	var baselineErr *TemporalBaselineError
	require.ErrorAs(t, err, &baselineErr)
	assert.NoError(t, mock.ExpectationsWereMet())

	passes, err := store.ListPasses(1)
	require.NoError(t, err)
	require.Len(t, passes, 1)
	assert.Equal(t, state.PassStatusFailed, passes[0].Status)
	assert.Contains(t, passes[0].Error, "temporal baseline")
}

func TestCompiler_Run_ViewFailureIsIsolated(t *testing.T) {
	c, mock := newTestCompiler(t, nil)

	mock.ExpectQuery(`SELECT MAX\(order_year\)`).
		WillReturnRows(sqlmock.NewRows([]string{"max"}).AddRow(2004))
	mock.ExpectExec(`CREATE SCHEMA IF NOT EXISTS semantic`).
		WillReturnResult(sqlmock.NewResult(0, 0))

	// The first view fails; the remaining ones are still attempted before
	// the pass reports the failure.
	views := Views()
	mock.ExpectExec(`CREATE OR REPLACE VIEW semantic\.` + views[0].Name).
		WillReturnError(assert.AnError)
	for _, v := range views[1:] {
		mock.ExpectExec(`CREATE OR REPLACE VIEW semantic\.` + v.Name).
			WillReturnResult(sqlmock.NewResult(0, 0))
	}

	_, err := c.Run(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), views[0].Name)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCompiler_Run_FlatViewFailureAborts(t *testing.T) {
	c, mock := newTestCompiler(t, nil)

	mock.ExpectQuery(`SELECT MAX\(order_year\)`).
		WillReturnRows(sqlmock.NewRows([]string{"max"}).AddRow(2004))
	mock.ExpectExec(`CREATE SCHEMA IF NOT EXISTS semantic`).
		WillReturnResult(sqlmock.NewResult(0, 0))

	for _, v := range Views() {
		if v.Name == FlatTableView {
			mock.ExpectExec(`CREATE OR REPLACE VIEW semantic\.` + v.Name).
				WillReturnError(assert.AnError)
			break
		}
		mock.ExpectExec(`CREATE OR REPLACE VIEW semantic\.` + v.Name).
			WillReturnResult(sqlmock.NewResult(0, 0))
	}

	_, err := c.Run(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), FlatTableView)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCompiler_Run_RowCountMismatchFails(t *testing.T) {
	c, mock := newTestCompiler(t, nil)

	mock.ExpectQuery(`SELECT MAX\(order_year\)`).
		WillReturnRows(sqlmock.NewRows([]string{"max"}).AddRow(2004))
	mock.ExpectExec(`CREATE SCHEMA IF NOT EXISTS semantic`).
		WillReturnResult(sqlmock.NewResult(0, 0))
	for _, v := range Views() {
		mock.ExpectExec(`CREATE OR REPLACE VIEW semantic\.` + v.Name).
			WillReturnResult(sqlmock.NewResult(0, 0))
	}
	mock.ExpectExec(`DROP TABLE IF EXISTS semantic\.sales_flat`).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(`CREATE TABLE semantic\.sales_flat AS`).
		WillReturnResult(sqlmock.NewResult(0, 0))

	// A flat count short of the source facts means a fact row failed to
	// resolve its geography or territory.
	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM semantic\.sales_flat`).
		WillReturnRows(sqlmock.NewRows([]string{"n"}).AddRow(118))
	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM fact_internet_sales`).
		WillReturnRows(sqlmock.NewRows([]string{"n"}).AddRow(80))
	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM fact_reseller_sales`).
		WillReturnRows(sqlmock.NewRows([]string{"n"}).AddRow(40))

	_, err := c.Run(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "118 rows but source facts have 120")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCompiler_Run_BrokenStoreDoesNotStopPass(t *testing.T) {
	// A store that was never opened errors on every call.
	store := state.NewSQLiteStore(testutil.NewTestLogger(t))
	c, mock := newTestCompiler(t, store)

	expectPass(mock, 2004)

	res, err := c.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(120), res.FlatRowCount)
}
