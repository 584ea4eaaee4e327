package clickhouse

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/ClickHouse/clickhouse-go/v2"
	"github.com/docker/go-connections/nat"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.ytsaurus.tech/library/go/core/xerrors"

	"github.com/doublecloud/sinktest/pkg/tcrecipes"
)

const (
	defaultUser     = "default"
	defaultDatabase = "sink"

	DefaultImage = "clickhouse/clickhouse-server:23.3.8.21-alpine"
	HTTPPort     = nat.Port("8123/tcp")
	NativePort   = nat.Port("9000/tcp")
)

// ClickHouseContainer represents the ClickHouse container used as a
// verification sink.
type ClickHouseContainer struct {
	testcontainers.Container
	host     string
	port     string
	username string
	password string
	database string
}

func Run(ctx context.Context, img string, opts ...testcontainers.ContainerCustomizer) (*ClickHouseContainer, error) {
	req := testcontainers.ContainerRequest{
		Image: img,
		Env: map[string]string{
			"CLICKHOUSE_USER": defaultUser,
			"CLICKHOUSE_DB":   defaultDatabase,
		},
		ExposedPorts: []string{string(HTTPPort), string(NativePort)},
		WaitingFor:   wait.ForListeningPort(NativePort),
	}
	genericContainerReq := testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	}
	for _, opt := range opts {
		if err := opt.Customize(&genericContainerReq); err != nil {
			return nil, xerrors.Errorf("unable to customize container: %w", err)
		}
	}

	container, err := testcontainers.GenericContainer(ctx, genericContainerReq)
	if err != nil {
		return nil, xerrors.Errorf("generic container: %w", err)
	}
	host, err := container.Host(ctx)
	if err != nil {
		return nil, xerrors.Errorf("unable to get clickhouse host: %w", err)
	}
	containerPort, err := container.MappedPort(ctx, NativePort)
	if err != nil {
		return nil, xerrors.Errorf("unable to get clickhouse port: %w", err)
	}

	c := &ClickHouseContainer{
		Container: container,
		host:      host,
		port:      containerPort.Port(),
		username:  req.Env["CLICKHOUSE_USER"],
		password:  req.Env["CLICKHOUSE_PASSWORD"],
		database:  req.Env["CLICKHOUSE_DB"],
	}

	db, err := c.Connect(ctx, "")
	if err != nil {
		return nil, err
	}
	defer db.Close()
	if err := tcrecipes.AwaitPing(ctx, db); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *ClickHouseContainer) NativeURL() string {
	return c.dsn(c.database)
}

func (c *ClickHouseContainer) Username() string {
	return c.username
}

func (c *ClickHouseContainer) Password() string {
	return c.password
}

func (c *ClickHouseContainer) Connect(ctx context.Context, initialSchema string) (*sql.DB, error) {
	database := c.database
	if initialSchema != "" {
		database = initialSchema
	}
	db, err := sql.Open("clickhouse", c.dsn(database))
	if err != nil {
		return nil, xerrors.Errorf("failed to open clickhouse connection: %w", err)
	}
	return db, nil
}

func (c *ClickHouseContainer) dsn(database string) string {
	return fmt.Sprintf("clickhouse://%s:%s@%s:%s/%s", c.username, c.password, c.host, c.port, database)
}
