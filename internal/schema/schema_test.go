package schema

import (
	"context"
	"database/sql"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/asksql/internal/database"
)

func openTestDB(t *testing.T, ddl string) *sql.DB {
	t.Helper()

	db, err := database.Open(context.Background(), ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	if ddl != "" {
		_, err = db.Exec(ddl)
		require.NoError(t, err)
	}
	return db
}

func TestInspect_FirstTableInCatalogOrder(t *testing.T) {
	db := openTestDB(t, `
		CREATE TABLE zebra (id INTEGER PRIMARY KEY, stripes INTEGER NOT NULL DEFAULT 0);
		CREATE TABLE aardvark (id INTEGER, name TEXT, weight REAL);
	`)

	got, err := Inspect(context.Background(), db)
	require.NoError(t, err)

	assert.Equal(t, "zebra", got.Name)
	require.Len(t, got.Columns, 2)
	assert.Equal(t, "id", got.Columns[0].Name)
	assert.Equal(t, "stripes", got.Columns[1].Name)

	id := got.Columns[0]
	assert.Equal(t, 0, id.Position)
	assert.Equal(t, "INTEGER", id.Type)
	assert.Equal(t, 1, id.PrimaryKey)
	assert.Nil(t, id.Default)

	stripes := got.Columns[1]
	assert.True(t, stripes.NotNull)
	require.NotNil(t, stripes.Default)
	assert.Equal(t, "0", *stripes.Default)
}

func TestInspect_ColumnCountMatchesDeclaration(t *testing.T) {
	db := openTestDB(t, `CREATE TABLE customers (id INTEGER, name TEXT, orders_count INTEGER)`)

	got, err := Inspect(context.Background(), db)
	require.NoError(t, err)
	assert.Equal(t, "customers", got.Name)
	assert.Len(t, got.Columns, 3)
}

func TestInspect_SkipsInternalTables(t *testing.T) {
	// AUTOINCREMENT creates sqlite_sequence after the user table.
	db := openTestDB(t, `
		CREATE TABLE events (id INTEGER PRIMARY KEY AUTOINCREMENT, kind TEXT);
		INSERT INTO events (kind) VALUES ('signup');
	`)

	tables, err := ListTables(context.Background(), db)
	require.NoError(t, err)
	assert.Equal(t, []string{"events"}, tables)
}

func TestInspect_IgnoresViewsAndIndexes(t *testing.T) {
	db := openTestDB(t, `
		CREATE TABLE orders (id INTEGER, total REAL);
		CREATE INDEX idx_orders_total ON orders(total);
		CREATE VIEW v_orders AS SELECT * FROM orders;
	`)

	tables, err := ListTables(context.Background(), db)
	require.NoError(t, err)
	assert.Equal(t, []string{"orders"}, tables)
}

func TestInspect_NoTables(t *testing.T) {
	db := openTestDB(t, "")

	_, err := Inspect(context.Background(), db)

	var noTables *NoTablesFoundError
	require.ErrorAs(t, err, &noTables)
}

func TestInspect_QuotedTableName(t *testing.T) {
	db := openTestDB(t, `CREATE TABLE "order items" ("sku" TEXT, "qty" INTEGER)`)

	got, err := Inspect(context.Background(), db)
	require.NoError(t, err)
	assert.Equal(t, "order items", got.Name)
	require.Len(t, got.Columns, 2)
	assert.Equal(t, "sku", got.Columns[0].Name)
	assert.Equal(t, "qty", got.Columns[1].Name)
}

func TestInspect_NotADatabase(t *testing.T) {
	path := filepath.Join(t.TempDir(), "garbage.db")
	require.NoError(t, os.WriteFile(path, []byte(strings.Repeat("this is not sqlite\n", 64)), 0600))

	ctx := context.Background()
	db, err := database.Open(ctx, path)
	if err == nil {
		defer func() { _ = db.Close() }()
		_, err = Inspect(ctx, db)
	}

	var accessErr *database.AccessError
	require.ErrorAs(t, err, &accessErr)
}

func TestInspect_CatalogQueryFails(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	mock.ExpectQuery("SELECT name FROM sqlite_master").WillReturnError(errors.New("disk I/O error"))

	_, err = Inspect(context.Background(), db)

	var accessErr *database.AccessError
	require.ErrorAs(t, err, &accessErr)
	assert.Contains(t, err.Error(), "disk I/O error")
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestInspect_ReadsPragmaForFirstTable(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	mock.ExpectQuery("SELECT name FROM sqlite_master").
		WillReturnRows(sqlmock.NewRows([]string{"name"}).AddRow("first").AddRow("second"))
	mock.ExpectQuery(`PRAGMA table_info\("first"\)`).
		WillReturnRows(sqlmock.NewRows([]string{"cid", "name", "type", "notnull", "dflt_value", "pk"}).
			AddRow(0, "id", "INTEGER", 1, nil, 1))

	got, err := Inspect(context.Background(), db)
	require.NoError(t, err)
	assert.Equal(t, "first", got.Name)
	assert.Equal(t, []ColumnInfo{{Position: 0, Name: "id", Type: "INTEGER", NotNull: true, PrimaryKey: 1}}, got.Columns)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestQuoteIdent(t *testing.T) {
	assert.Equal(t, `"plain"`, QuoteIdent("plain"))
	assert.Equal(t, `"with space"`, QuoteIdent("with space"))
	assert.Equal(t, `"say ""hi"""`, QuoteIdent(`say "hi"`))
}
