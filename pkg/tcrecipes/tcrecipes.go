// Package tcrecipes spins up disposable database containers for sink
// verification tests. Each subpackage provisions one backend and returns a
// handle that satisfies sinktest.ConnectionProvider.
package tcrecipes

import (
	"context"
	"database/sql"
	"os"

	"github.com/cenkalti/backoff/v4"
	"go.ytsaurus.tech/library/go/core/xerrors"
)

// Enabled reports whether tests may provision containers themselves instead
// of expecting a pre-provisioned instance from the environment.
func Enabled() bool {
	return os.Getenv("USE_TESTCONTAINERS") == "1"
}

// AwaitPing waits for the database behind an opened handle to accept
// connections. Container readiness logs race the actual listener on some
// images, a few retries paper over that.
func AwaitPing(ctx context.Context, db *sql.DB) error {
	operation := func() error {
		return db.PingContext(ctx)
	}
	policy := backoff.WithContext(backoff.WithMaxRetries(backoff.NewExponentialBackOff(), 10), ctx)
	if err := backoff.Retry(operation, policy); err != nil {
		return xerrors.Errorf("database did not become ready: %w", err)
	}
	return nil
}
