package semantic

import (
	"context"
	"fmt"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"

	"github.com/grimbano/ucm-tfm-grupo-4/pkg/adapter"
)

// stubAdapter drives the compiler against sqlmock instead of a real
// warehouse.
type stubAdapter struct {
	adapter.BaseSQLAdapter
	dialect    *adapter.Dialect
	connectCfg *adapter.Config
}

var _ adapter.Adapter = (*stubAdapter)(nil)

func (s *stubAdapter) Connect(_ context.Context, cfg adapter.Config) error {
	s.connectCfg = &cfg
	return nil
}

func (s *stubAdapter) Dialect() *adapter.Dialect { return s.dialect }

func (s *stubAdapter) GetTableMetadata(ctx context.Context, table string) (*adapter.Metadata, error) {
	return s.GetTableMetadataCommon(ctx, table, s.dialect)
}

func (s *stubAdapter) LoadCSV(_ context.Context, _, _ string) error {
	return nil
}

// testDialect is a minimal dialect whose rendered SQL is easy to assert on.
var testDialect = &adapter.Dialect{
	Name:          "test",
	DefaultSchema: "main",
	Placeholder:   adapter.QuestionPlaceholder,
	ShiftYears: func(expr string, years int) string {
		return fmt.Sprintf("shift(%s, %d)", expr, years)
	},
	CurrentDate: "current_date",
}

func newStubAdapter(t *testing.T) (*stubAdapter, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	stub := &stubAdapter{dialect: testDialect}
	stub.DB = db
	return stub, mock
}
