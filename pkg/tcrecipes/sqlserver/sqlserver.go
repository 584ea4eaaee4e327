package sqlserver

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/denisenkom/go-mssqldb"
	"github.com/docker/go-connections/nat"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.ytsaurus.tech/library/go/core/xerrors"

	"github.com/doublecloud/sinktest/pkg/tcrecipes"
)

const (
	saUser          = "sa"
	defaultPassword = "P@ssw0rd!1"

	// The image always starts in master; the verification database has to be
	// created after boot, see Run.
	TestDatabase = "testDB"

	DefaultImage = "mcr.microsoft.com/mssql/server:2022-latest"
	Port         = nat.Port("1433/tcp")
)

// SQLServerContainer represents the SQL Server container used as a
// verification sink.
type SQLServerContainer struct {
	testcontainers.Container
	host     string
	port     string
	username string
	password string
}

func Run(ctx context.Context, img string, opts ...testcontainers.ContainerCustomizer) (*SQLServerContainer, error) {
	req := testcontainers.ContainerRequest{
		Image: img,
		Env: map[string]string{
			"ACCEPT_EULA":       "Y",
			"MSSQL_SA_PASSWORD": defaultPassword,
		},
		ExposedPorts: []string{string(Port)},
		WaitingFor:   wait.ForLog("SQL Server is now ready for client connections"),
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
		return nil, xerrors.Errorf("unable to get sqlserver host: %w", err)
	}
	containerPort, err := container.MappedPort(ctx, Port)
	if err != nil {
		return nil, xerrors.Errorf("unable to get sqlserver port: %w", err)
	}

	c := &SQLServerContainer{
		Container: container,
		host:      host,
		port:      containerPort.Port(),
		username:  saUser,
		password:  req.Env["MSSQL_SA_PASSWORD"],
	}

	db, err := c.Connect(ctx, "master")
	if err != nil {
		return nil, err
	}
	defer db.Close()
	if err := tcrecipes.AwaitPing(ctx, db); err != nil {
		return nil, err
	}
	if _, err := db.ExecContext(ctx, fmt.Sprintf("IF DB_ID(N'%[1]s') IS NULL CREATE DATABASE %[1]s", TestDatabase)); err != nil {
		return nil, xerrors.Errorf("unable to create %s database: %w", TestDatabase, err)
	}
	return c, nil
}

func (c *SQLServerContainer) NativeURL() string {
	return fmt.Sprintf("sqlserver://%s:%s@%s:%s", c.username, c.password, c.host, c.port)
}

func (c *SQLServerContainer) Username() string {
	return c.username
}

func (c *SQLServerContainer) Password() string {
	return c.password
}

func (c *SQLServerContainer) Connect(ctx context.Context, initialSchema string) (*sql.DB, error) {
	dsn := c.NativeURL()
	if initialSchema != "" {
		dsn = fmt.Sprintf("%s?database=%s", dsn, initialSchema)
	}
	db, err := sql.Open("sqlserver", dsn)
	if err != nil {
		return nil, xerrors.Errorf("failed to open sqlserver connection: %w", err)
	}
	return db, nil
}
