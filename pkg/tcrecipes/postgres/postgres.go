package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/docker/go-connections/nat"
	_ "github.com/jackc/pgx/v4/stdlib"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.ytsaurus.tech/library/go/core/xerrors"

	"github.com/doublecloud/sinktest/pkg/tcrecipes"
)

const (
	defaultUser     = "postgres"
	defaultPassword = "P@ssw0rd"
	defaultDatabase = "sink"

	DefaultImage = "postgres:13"
	Port         = nat.Port("5432/tcp")
)

// PostgresContainer represents the PostgreSQL container used as a
// verification sink.
type PostgresContainer struct {
	testcontainers.Container
	host     string
	port     string
	username string
	password string
	database string
}

func Run(ctx context.Context, img string, opts ...testcontainers.ContainerCustomizer) (*PostgresContainer, error) {
	req := testcontainers.ContainerRequest{
		Image: img,
		Env: map[string]string{
			"POSTGRES_USER":     defaultUser,
			"POSTGRES_PASSWORD": defaultPassword,
			"POSTGRES_DB":       defaultDatabase,
		},
		ExposedPorts: []string{string(Port)},
		WaitingFor: wait.ForLog("database system is ready to accept connections").
			WithOccurrence(2),
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
		return nil, xerrors.Errorf("unable to get postgres host: %w", err)
	}
	containerPort, err := container.MappedPort(ctx, Port)
	if err != nil {
		return nil, xerrors.Errorf("unable to get postgres port: %w", err)
	}

	c := &PostgresContainer{
		Container: container,
		host:      host,
		port:      containerPort.Port(),
		username:  req.Env["POSTGRES_USER"],
		password:  req.Env["POSTGRES_PASSWORD"],
		database:  req.Env["POSTGRES_DB"],
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

func (c *PostgresContainer) NativeURL() string {
	return c.dsn(c.database)
}

func (c *PostgresContainer) Username() string {
	return c.username
}

func (c *PostgresContainer) Password() string {
	return c.password
}

func (c *PostgresContainer) Connect(ctx context.Context, initialSchema string) (*sql.DB, error) {
	database := c.database
	if initialSchema != "" {
		database = initialSchema
	}
	db, err := sql.Open("pgx", c.dsn(database))
	if err != nil {
		return nil, xerrors.Errorf("failed to open postgres connection: %w", err)
	}
	return db, nil
}

func (c *PostgresContainer) dsn(database string) string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s", c.username, c.password, c.host, c.port, database)
}
