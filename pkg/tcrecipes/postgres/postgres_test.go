package postgres

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/doublecloud/sinktest/pkg/sinktest"
)

func TestNativeURL(t *testing.T) {
	c := &PostgresContainer{
		host:     "localhost",
		port:     "54321",
		username: "postgres",
		password: "P@ssw0rd",
		database: "sink",
	}
	require.Equal(t, "postgres://postgres:P@ssw0rd@localhost:54321/sink", c.NativeURL())

	var _ sinktest.ConnectionProvider = c
}
