package mysql

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/doublecloud/sinktest/pkg/sinktest"
	"github.com/doublecloud/sinktest/pkg/tcrecipes"
)

func TestNativeURL(t *testing.T) {
	c := &MySQLContainer{
		host:     "localhost",
		port:     "33061",
		username: "root",
		password: "P@ssw0rd",
		database: "sink",
	}
	require.Equal(t, "root:P@ssw0rd@tcp(localhost:33061)/sink", c.NativeURL())

	var _ sinktest.ConnectionProvider = c
}

func TestMySQLSinkEndToEnd(t *testing.T) {
	if !tcrecipes.Enabled() {
		t.Skip("set USE_TESTCONTAINERS=1 to run container tests")
	}
	ctx := context.Background()

	container, err := Run(ctx, DefaultImage)
	require.NoError(t, err)
	defer func() { _ = container.Terminate(ctx) }()

	sink := sinktest.New(sinktest.MySQL, container)
	defer func() { require.NoError(t, sink.Close()) }()

	require.NoError(t, sink.Execute(ctx, "CREATE TABLE orders (id INT PRIMARY KEY, name VARCHAR(255), total DECIMAL(12,4))"))
	require.NoError(t, sink.Execute(ctx, "INSERT INTO orders VALUES (1, 'first', 12.5000)"))

	sink.AssertColumn(t, "orders", "name", "VARCHAR")
	sink.AssertColumnLength(t, "orders", "name", "varchar", 255)
	sink.AssertColumnPrecisionScale(t, "orders", "total", "decimal", 12, 4)

	sink.AssertRows(t, "orders", func(rows *sql.Rows) error {
		var id int64
		var name string
		var total string
		return rows.Scan(&id, &name, &total)
	})

	table := sink.Table(t, "orders")
	sink.AssertColumnValueType(t, table, "id", sinktest.ValueNumber, 1)
	sink.AssertColumnValueType(t, table, "name", sinktest.ValueText, "first")
}
