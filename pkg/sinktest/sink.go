package sinktest

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"testing"

	"github.com/doublecloud/sinktest/internal/logger"
	"github.com/doublecloud/sinktest/pkg/dbassert"
	"github.com/stretchr/testify/require"
	"go.ytsaurus.tech/library/go/core/log"
	"go.ytsaurus.tech/library/go/core/xerrors"
)

// ErrSinkClosed is returned on any connection use after Close. A closed sink
// must not be reused, reopening silently would hide teardown ordering bugs in
// the calling test.
var ErrSinkClosed = xerrors.New("sink is closed and cannot be reused")

// ConnectionProvider is the handle to a running database instance, typically
// a testcontainers recipe. The provider owns the instance lifecycle, the sink
// only borrows it.
type ConnectionProvider interface {
	NativeURL() string
	Username() string
	Password() string
	Connect(ctx context.Context, initialSchema string) (*sql.DB, error)
}

// Sink is the verification-side wrapper around the target database of a
// pipeline end-to-end test. One sink serves one backend; assertion methods
// dispatch on the backend through the vendor capability table, so identical
// test code runs unmodified against any supported backend.
//
// Not safe for concurrent use, a sink is meant to live inside one test.
type Sink struct {
	typ     SinkType
	handle  ConnectionProvider
	profile vendorProfile

	// Lazily opened, pinned for the sink's lifetime.
	db     *sql.DB
	conn   *sql.Conn
	closed bool
}

func New(typ SinkType, handle ConnectionProvider) *Sink {
	return &Sink{
		typ:     typ,
		handle:  handle,
		profile: profileFor(typ),
		db:      nil,
		conn:    nil,
		closed:  false,
	}
}

func (s *Sink) Type() SinkType {
	return s.typ
}

func (s *Sink) Username() string {
	return s.handle.Username()
}

func (s *Sink) Password() string {
	return s.handle.Password()
}

// ConnectionURL is the URL a connector under test should be pointed at. For
// SQL Server it carries an explicit databaseName parameter: the driver needs
// the database selected in the URL, while sessions opened by the sink itself
// additionally run USE (see Connection), the two cover different code paths.
func (s *Sink) ConnectionURL() string {
	return s.handle.NativeURL() + s.profile.urlSuffix
}

// NormalizeTableName maps a declared table name to the form the backend's
// catalog reports. Oracle and DB2 report identifiers upper-cased no matter
// how they were declared.
func (s *Sink) NormalizeTableName(tableName string) string {
	return s.profile.normalizeIdent(tableName)
}

func (s *Sink) NormalizeColumnName(columnName string) string {
	return s.profile.normalizeIdent(columnName)
}

// Connection opens the managed connection on first use and pins it so every
// later operation, post-connect state included, sees the same session.
func (s *Sink) Connection(ctx context.Context) (*sql.Conn, error) {
	if s.closed {
		return nil, ErrSinkClosed
	}
	if s.conn != nil {
		return s.conn, nil
	}
	db, err := s.handle.Connect(ctx, "")
	if err != nil {
		return nil, xerrors.Errorf("failed to connect to %s sink: %w", s.typ.Name(), err)
	}
	conn, err := db.Conn(ctx)
	if err != nil {
		_ = db.Close()
		return nil, xerrors.Errorf("failed to acquire %s sink connection: %w", s.typ.Name(), err)
	}
	for _, stmt := range s.profile.postConnect {
		if _, err := conn.ExecContext(ctx, stmt); err != nil {
			_ = conn.Close()
			_ = db.Close()
			return nil, xerrors.Errorf("failed to run post-connect statement %q: %w", stmt, err)
		}
	}
	s.db = db
	s.conn = conn
	return s.conn, nil
}

// Close releases the managed connection. Idempotent, and a no-op when no
// connection was ever opened. Oracle raises spurious errors on close, for
// that backend alone the error is logged and swallowed so tests can pass.
func (s *Sink) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true
	if s.conn == nil {
		return nil
	}
	err := s.conn.Close()
	if dbErr := s.db.Close(); err == nil {
		err = dbErr
	}
	s.conn = nil
	s.db = nil
	if err != nil {
		if s.typ == Oracle {
			logger.Log.Warn("ignoring connection close error from oracle sink", log.Error(err))
			return nil
		}
		return xerrors.Errorf("failed to close %s sink connection: %w", s.typ.Name(), err)
	}
	return nil
}

// Execute runs a single statement on the managed connection. Failures are
// returned as-is, there is no rollback path at this layer.
func (s *Sink) Execute(ctx context.Context, statement string) error {
	conn, err := s.Connection(ctx)
	if err != nil {
		return err
	}
	if _, err := conn.ExecContext(ctx, statement); err != nil {
		return xerrors.Errorf("failed to execute statement: %w", err)
	}
	return nil
}

// AssertColumn checks that the column exists and reports the expected type
// name, compared case-insensitively.
func (s *Sink) AssertColumn(t *testing.T, tableName, columnName, expectedType string) {
	t.Helper()
	meta := s.requireColumnMetadata(t, tableName, columnName)
	requireTypeName(t, columnName, expectedType, meta.TypeName)
}

// AssertColumnLength additionally checks the reported column size.
func (s *Sink) AssertColumnLength(t *testing.T, tableName, columnName, expectedType string, length int) {
	t.Helper()
	meta := s.requireColumnMetadata(t, tableName, columnName)
	requireTypeName(t, columnName, expectedType, meta.TypeName)
	require.Equalf(t, length, meta.Size, "column %s: reported size", columnName)
}

// AssertColumnPrecisionScale additionally checks the reported numeric
// precision and scale.
func (s *Sink) AssertColumnPrecisionScale(t *testing.T, tableName, columnName, expectedType string, precision, scale int) {
	t.Helper()
	meta := s.requireColumnMetadata(t, tableName, columnName)
	requireTypeName(t, columnName, expectedType, meta.TypeName)
	require.Equalf(t, precision, meta.Precision, "column %s: reported precision", columnName)
	require.Equalf(t, scale, meta.Scale, "column %s: reported scale", columnName)
}

// AssertRows requires the table to hold at least one row and hands the
// positioned cursor to the consumer for further inspection.
//
// The table name is passed through unnormalized, unlike the column
// assertions: existing callers pre-normalize, see NormalizeTableName.
func (s *Sink) AssertRows(t *testing.T, tableName string, consumer func(*sql.Rows) error) {
	t.Helper()
	rows, hasFirst, err := s.queryRows(context.Background(), tableName)
	require.NoError(t, err)
	defer rows.Close()
	require.Truef(t, hasFirst, "expected at least one row in table %s", tableName)
	require.NoError(t, consumer(rows))
	require.NoError(t, rows.Err())
}

// Table materializes the named table for fluent dbassert-style inspection.
// The name is normalized before the query.
func (s *Sink) Table(t *testing.T, tableName string) *dbassert.TableAssert {
	t.Helper()
	conn, err := s.Connection(context.Background())
	require.NoError(t, err)
	return dbassert.NewTable(t, conn, s.NormalizeTableName(tableName))
}

// AssertColumnValueType checks the column's values against an abstract value
// category and, when expected values are supplied, against the exact ordered
// sequence. Lenient comparison is applied automatically whenever any expected
// value is nil, the category checks cannot hold for NULLs otherwise.
func (s *Sink) AssertColumnValueType(t *testing.T, table *dbassert.TableAssert, columnName string, valueType ValueType, values ...any) {
	t.Helper()
	column := s.ColumnAssert(table, columnName, valueType, anyValueNil(values))
	if len(values) > 0 {
		column.HasValues(values...)
	}
}

// ColumnAssert maps a value category onto the matching dbassert builder with
// an explicit leniency flag. An unknown category is a programming error.
func (s *Sink) ColumnAssert(table *dbassert.TableAssert, columnName string, valueType ValueType, lenient bool) *dbassert.ColumnAssert {
	column := table.Column(s.NormalizeColumnName(columnName))
	switch valueType {
	case ValueBoolean:
		return column.IsBoolean(lenient)
	case ValueText:
		return column.IsText(lenient)
	case ValueDate:
		return column.IsDate(lenient)
	case ValueTime:
		return column.IsTime(lenient)
	case ValueDateTime:
		return column.IsDateTime(lenient)
	case ValueNumber:
		return column.IsNumber(lenient)
	case ValueUUID:
		return column.IsUUID(lenient)
	case ValueBytes:
		return column.IsBytes(lenient)
	default:
		panic(fmt.Sprintf("unexpected value type: %s", valueType))
	}
}

type columnMetadata struct {
	TypeName  string
	Size      int
	Precision int
	Scale     int
}

// columnMetadata looks the column up in the backend's catalog through the
// vendor profile. Both names must already be normalized.
func (s *Sink) columnMetadata(ctx context.Context, tableName, columnName string) (*columnMetadata, error) {
	conn, err := s.Connection(ctx)
	if err != nil {
		return nil, err
	}
	rows, err := conn.QueryContext(ctx, s.profile.columnMetadata(tableName, columnName))
	if err != nil {
		return nil, xerrors.Errorf("failed to get column %s in table %s: %w", columnName, tableName, err)
	}
	defer rows.Close()
	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return nil, xerrors.Errorf("failed to get column %s in table %s: %w", columnName, tableName, err)
		}
		return nil, nil
	}
	var meta columnMetadata
	if err := rows.Scan(&meta.TypeName, &meta.Size, &meta.Precision, &meta.Scale); err != nil {
		return nil, xerrors.Errorf("failed to get column %s in table %s: %w", columnName, tableName, err)
	}
	return &meta, nil
}

func (s *Sink) requireColumnMetadata(t *testing.T, tableName, columnName string) *columnMetadata {
	t.Helper()
	tableName = s.NormalizeTableName(tableName)
	columnName = s.NormalizeColumnName(columnName)
	meta, err := s.columnMetadata(context.Background(), tableName, columnName)
	require.NoError(t, err)
	require.NotNilf(t, meta, "column %s not found in table %s", columnName, tableName)
	return meta
}

func (s *Sink) queryRows(ctx context.Context, tableName string) (*sql.Rows, bool, error) {
	conn, err := s.Connection(ctx)
	if err != nil {
		return nil, false, err
	}
	rows, err := conn.QueryContext(ctx, "SELECT * FROM "+tableName)
	if err != nil {
		return nil, false, xerrors.Errorf("failed to assert rows: %w", err)
	}
	return rows, rows.Next(), nil
}

func requireTypeName(t *testing.T, columnName, expected, reported string) {
	t.Helper()
	require.Truef(t, strings.EqualFold(expected, reported),
		"column %s: reported type %q does not match %q", columnName, reported, expected)
}

func anyValueNil(values []any) bool {
	for _, value := range values {
		if value == nil {
			return true
		}
	}
	return false
}
