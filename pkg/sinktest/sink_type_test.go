package sinktest

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSinkTypeIs(t *testing.T) {
	require.True(t, Oracle.Is(Oracle))
	require.True(t, Oracle.Is(Oracle, DB2))
	require.True(t, DB2.Is(Oracle, DB2))
	require.False(t, MySQL.Is(Oracle, DB2))
	require.False(t, MySQL.Is())
}

func TestNormalizeUpperCasesOnlyOracleAndDB2(t *testing.T) {
	for _, typ := range KnownSinkTypes() {
		typ := typ
		t.Run(typ.Name(), func(t *testing.T) {
			s := New(typ, nil)
			expected := "orders"
			if typ.Is(Oracle, DB2) {
				expected = strings.ToUpper("orders")
			}
			require.Equal(t, expected, s.NormalizeTableName("orders"))
			require.Equal(t, expected, s.NormalizeColumnName("orders"))
		})
	}
}

func TestNormalizeOracleScenario(t *testing.T) {
	s := New(Oracle, nil)
	require.Equal(t, "ORDERS", s.NormalizeTableName("orders"))
	require.Equal(t, "ID", s.NormalizeColumnName("id"))
}

func TestUnknownSinkTypePanics(t *testing.T) {
	require.Panics(t, func() {
		New(SinkType("mongodb"), nil)
	})
}
