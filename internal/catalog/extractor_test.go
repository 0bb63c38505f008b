package catalog

import (
	"context"
	"database/sql"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/grimbano/ucm-tfm-grupo-4/pkg/adapter"
)

// mockQuerier wraps a sqlmock database in the Querier contract.
type mockQuerier struct {
	db *sql.DB
}

func (m *mockQuerier) QueryArgs(ctx context.Context, query string, args ...any) (*adapter.Rows, error) {
	rows, err := m.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	return &adapter.Rows{Rows: rows}, nil
}

func (m *mockQuerier) Dialect() *adapter.Dialect {
	return &adapter.Dialect{
		Name:          "postgres",
		DefaultSchema: "public",
		Placeholder:   adapter.DollarPlaceholder,
	}
}

func newMock(t *testing.T) (*mockQuerier, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return &mockQuerier{db: db}, mock
}

// expectWarehouse primes the four information-schema queries with a fact
// table referencing a dimension table. The key_column_usage rows for the
// referenced key are returned after the FK rows to prove arrival order does
// not drive the pairing.
func expectWarehouse(mock sqlmock.Sqlmock) {
	mock.ExpectQuery("information_schema.columns").WillReturnRows(
		sqlmock.NewRows([]string{
			"table_catalog", "table_schema", "table_name", "column_name",
			"data_type", "coalesce", "ordinal_position", "is_nullable",
		}).
			AddRow("dw", "main", "dim_product", "product_key", "integer", 0, 1, "NO").
			AddRow("dw", "main", "dim_product", "spanish_product_name", "character varying", 100, 2, "YES").
			AddRow("dw", "main", "fact_internet_sales", "sales_order_number", "character varying", 20, 1, "NO").
			AddRow("dw", "main", "fact_internet_sales", "product_key", "integer", 0, 2, "NO"),
	)

	mock.ExpectQuery("information_schema.table_constraints").WillReturnRows(
		sqlmock.NewRows([]string{
			"constraint_name", "constraint_type", "table_catalog", "table_schema", "table_name",
		}).
			AddRow("pk_dim_product", "PRIMARY KEY", "dw", "main", "dim_product").
			AddRow("fk_sales_product", "FOREIGN KEY", "dw", "main", "fact_internet_sales"),
	)

	mock.ExpectQuery("information_schema.referential_constraints").WillReturnRows(
		sqlmock.NewRows([]string{"constraint_name", "unique_constraint_name"}).
			AddRow("fk_sales_product", "pk_dim_product"),
	)

	mock.ExpectQuery("information_schema.key_column_usage").WillReturnRows(
		sqlmock.NewRows([]string{"constraint_name", "column_name", "ordinal_position"}).
			AddRow("fk_sales_product", "product_key", 1).
			AddRow("pk_dim_product", "product_key", 1),
	)
}

func TestExtractor_Extract(t *testing.T) {
	q, mock := newMock(t)
	expectWarehouse(mock)

	extractor := NewExtractor(q, nil)
	graph, err := extractor.Extract(context.Background(), []string{"dw"}, []string{"main"})
	require.NoError(t, err)

	records := graph.Records().Collect()
	require.Len(t, records, 4)

	// Ordered by (catalog, schema, table, ordinal position).
	assert.Equal(t, "dim_product", records[0].TableName)
	assert.Equal(t, "product_key", records[0].ColumnName)
	assert.Equal(t, "INTEGER", records[0].ColumnType)
	assert.True(t, records[0].PrimaryKey)
	assert.False(t, records[0].ForeignKey)

	assert.Equal(t, "spanish_product_name", records[1].ColumnName)
	assert.Equal(t, "CHARACTER VARYING(100)", records[1].ColumnType)
	assert.False(t, records[1].PrimaryKey)

	assert.Equal(t, "fact_internet_sales", records[2].TableName)
	assert.Equal(t, "sales_order_number", records[2].ColumnName)
	assert.Equal(t, "VARCHAR(20)", records[2].ColumnType)

	fkRecord := records[3]
	assert.Equal(t, "product_key", fkRecord.ColumnName)
	assert.True(t, fkRecord.ForeignKey)
	require.NotNil(t, fkRecord.Target)
	assert.Equal(t, "main.dim_product.product_key", *fkRecord.Target)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestExtractor_DanglingReferenceDoesNotFail(t *testing.T) {
	q, mock := newMock(t)

	mock.ExpectQuery("information_schema.columns").WillReturnRows(
		sqlmock.NewRows([]string{
			"table_catalog", "table_schema", "table_name", "column_name",
			"data_type", "coalesce", "ordinal_position", "is_nullable",
		}).
			AddRow("dw", "main", "fact_internet_sales", "currency_key", "integer", 0, 1, "NO"),
	)
	mock.ExpectQuery("information_schema.table_constraints").WillReturnRows(
		sqlmock.NewRows([]string{
			"constraint_name", "constraint_type", "table_catalog", "table_schema", "table_name",
		}).
			AddRow("fk_sales_currency", "FOREIGN KEY", "dw", "main", "fact_internet_sales"),
	)
	// The referenced constraint lives outside the extracted schemas.
	mock.ExpectQuery("information_schema.referential_constraints").WillReturnRows(
		sqlmock.NewRows([]string{"constraint_name", "unique_constraint_name"}).
			AddRow("fk_sales_currency", "pk_dim_currency"),
	)
	mock.ExpectQuery("information_schema.key_column_usage").WillReturnRows(
		sqlmock.NewRows([]string{"constraint_name", "column_name", "ordinal_position"}).
			AddRow("fk_sales_currency", "currency_key", 1),
	)

	extractor := NewExtractor(q, nil)
	graph, err := extractor.Extract(context.Background(), []string{"dw"}, []string{"main"})
	require.NoError(t, err)

	records := graph.Records().Collect()
	require.Len(t, records, 1)
	assert.True(t, records[0].ForeignKey)
	assert.Nil(t, records[0].Target)
}

func TestExtractor_EmptyTargetsRejected(t *testing.T) {
	q, _ := newMock(t)
	extractor := NewExtractor(q, nil)

	_, err := extractor.Extract(context.Background(), nil, []string{"main"})
	require.Error(t, err)

	_, err = extractor.Extract(context.Background(), []string{"dw"}, nil)
	require.Error(t, err)
}

func TestExtractor_MultipleTargetsUsePlaceholders(t *testing.T) {
	q, mock := newMock(t)

	mock.ExpectQuery("information_schema.columns").
		WithArgs("dw", "stage", "main", "audit").
		WillReturnRows(sqlmock.NewRows([]string{
			"table_catalog", "table_schema", "table_name", "column_name",
			"data_type", "coalesce", "ordinal_position", "is_nullable",
		}))
	mock.ExpectQuery("information_schema.table_constraints").
		WithArgs("dw", "stage", "main", "audit").
		WillReturnRows(sqlmock.NewRows([]string{
			"constraint_name", "constraint_type", "table_catalog", "table_schema", "table_name",
		}))
	mock.ExpectQuery("information_schema.referential_constraints").
		WithArgs("dw", "stage", "main", "audit").
		WillReturnRows(sqlmock.NewRows([]string{"constraint_name", "unique_constraint_name"}))
	mock.ExpectQuery("information_schema.key_column_usage").
		WithArgs("dw", "stage", "main", "audit").
		WillReturnRows(sqlmock.NewRows([]string{"constraint_name", "column_name", "ordinal_position"}))

	extractor := NewExtractor(q, nil)
	_, err := extractor.Extract(context.Background(), []string{"dw", "stage"}, []string{"main", "audit"})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
