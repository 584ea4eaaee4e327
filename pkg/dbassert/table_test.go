package dbassert

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"
)

func mockTable(t *testing.T, rows *sqlmock.Rows) *TableAssert {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	mock.ExpectQuery("SELECT \\* FROM orders").WillReturnRows(rows)
	return NewTable(t, db, "orders")
}

func TestTableShape(t *testing.T) {
	table := mockTable(t, sqlmock.NewRows([]string{"id", "name"}).
		AddRow(1, "first").
		AddRow(2, "second"))

	table.HasNumberOfRows(2).HasNumberOfColumns(2)
	require.Equal(t, "orders", table.Name())
}

func TestColumnLookupIsCaseInsensitive(t *testing.T) {
	table := mockTable(t, sqlmock.NewRows([]string{"ID", "NAME"}).
		AddRow(1, "first"))

	table.Column("name").IsText(false)
}

func TestColumnCategories(t *testing.T) {
	table := mockTable(t, sqlmock.NewRows([]string{"id", "name", "flag", "payload", "ref", "created"}).
		AddRow(int64(1), "first", true, []byte{0xde, 0xad}, "bb3e51aa-1b43-4664-a5ea-6c541a92c21f", time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)).
		AddRow(int64(2), []byte("second"), int64(0), []byte{}, "1e52c448-bb48-4e51-9ccd-a56ca9a3282c", "2024-03-01 11:30:00"))

	table.Column("id").IsNumber(false)
	table.Column("name").IsText(false)
	table.Column("flag").IsBoolean(false)
	table.Column("payload").IsBytes(false)
	table.Column("ref").IsUUID(false)
	table.Column("created").IsDateTime(false)
}

func TestLenientSkipsNulls(t *testing.T) {
	table := mockTable(t, sqlmock.NewRows([]string{"name"}).
		AddRow("first").
		AddRow(nil))

	table.Column("name").IsText(true)
}

func TestDateAndTimeCategories(t *testing.T) {
	table := mockTable(t, sqlmock.NewRows([]string{"d", "tm"}).
		AddRow("2024-03-01", "10:15:30").
		AddRow("2024-12-31", "23:59:59.999"))

	table.Column("d").IsDate(false)
	table.Column("tm").IsTime(false)
}

func TestHasValues(t *testing.T) {
	table := mockTable(t, sqlmock.NewRows([]string{"id", "name", "total"}).
		AddRow(int64(1), []byte("first"), "12.5").
		AddRow(int64(2), []byte("second"), "99"))

	table.Column("id").IsNumber(false).HasValues(1, 2)
	table.Column("name").IsText(false).HasValues("first", "second")
	table.Column("total").IsNumber(false).HasValues(12.5, 99)
}

func TestHasValuesWithNulls(t *testing.T) {
	table := mockTable(t, sqlmock.NewRows([]string{"name"}).
		AddRow("first").
		AddRow(nil))

	table.Column("name").IsText(true).HasValues("first", nil)
}

func TestHasValuesTimeAgainstString(t *testing.T) {
	table := mockTable(t, sqlmock.NewRows([]string{"created"}).
		AddRow("2024-03-01 11:30:00"))

	table.Column("created").
		IsDateTime(false).
		HasValues(time.Date(2024, 3, 1, 11, 30, 0, 0, time.UTC))
}

func TestQuerierAcceptsConn(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	mock.ExpectQuery("SELECT \\* FROM orders").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(7)))

	conn, err := db.Conn(context.Background())
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	var _ Querier = conn
	var _ Querier = (*sql.DB)(nil)
	NewTable(t, conn, "orders").Column("id").HasValues(7)
}
