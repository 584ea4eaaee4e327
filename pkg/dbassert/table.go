// Package dbassert provides fluent assertions over the contents of one
// database table, in the shape pipeline verification tests expect: materialize
// the table once, then check columns by value category and exact values.
package dbassert

import (
	"context"
	"database/sql"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"go.ytsaurus.tech/library/go/core/xerrors"
)

// Querier is the subset of database/sql the package reads through. Both
// *sql.DB and *sql.Conn satisfy it.
type Querier interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

// TableAssert holds the fully materialized contents of one table. Row order
// is whatever the backend returned for a bare SELECT *, callers that assert
// exact value sequences must insert deterministically.
type TableAssert struct {
	t       *testing.T
	name    string
	columns []string
	rows    [][]any
}

// NewTable materializes SELECT * FROM tableName. The name must already be in
// the casing the backend expects.
func NewTable(t *testing.T, q Querier, tableName string) *TableAssert {
	t.Helper()
	columns, rows, err := materialize(q, tableName)
	require.NoError(t, err)
	return &TableAssert{
		t:       t,
		name:    tableName,
		columns: columns,
		rows:    rows,
	}
}

func (a *TableAssert) Name() string {
	return a.name
}

func (a *TableAssert) HasNumberOfRows(expected int) *TableAssert {
	a.t.Helper()
	require.Lenf(a.t, a.rows, expected, "table %s: row count", a.name)
	return a
}

func (a *TableAssert) HasNumberOfColumns(expected int) *TableAssert {
	a.t.Helper()
	require.Lenf(a.t, a.columns, expected, "table %s: column count", a.name)
	return a
}

// Column selects a column by name, case-insensitively: backends disagree on
// the casing SELECT * reports.
func (a *TableAssert) Column(name string) *ColumnAssert {
	a.t.Helper()
	for i, column := range a.columns {
		if strings.EqualFold(column, name) {
			values := make([]any, 0, len(a.rows))
			for _, row := range a.rows {
				values = append(values, row[i])
			}
			return &ColumnAssert{t: a.t, table: a.name, name: name, values: values}
		}
	}
	require.Failf(a.t, "column not found", "column %s not found in table %s", name, a.name)
	return nil
}

func materialize(q Querier, tableName string) ([]string, [][]any, error) {
	rows, err := q.QueryContext(context.Background(), "SELECT * FROM "+tableName)
	if err != nil {
		return nil, nil, xerrors.Errorf("failed to read table %s: %w", tableName, err)
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return nil, nil, xerrors.Errorf("failed to read columns of table %s: %w", tableName, err)
	}
	var result [][]any
	for rows.Next() {
		row := make([]any, len(columns))
		scanTargets := make([]any, len(columns))
		for i := range row {
			scanTargets[i] = &row[i]
		}
		if err := rows.Scan(scanTargets...); err != nil {
			return nil, nil, xerrors.Errorf("failed to scan row of table %s: %w", tableName, err)
		}
		result = append(result, row)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, xerrors.Errorf("failed to read table %s: %w", tableName, err)
	}
	return columns, result, nil
}
