package mysql

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/docker/go-connections/nat"
	_ "github.com/go-sql-driver/mysql"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.ytsaurus.tech/library/go/core/xerrors"

	"github.com/doublecloud/sinktest/pkg/tcrecipes"
)

const (
	rootUser        = "root"
	defaultPassword = "P@ssw0rd"
	defaultDatabase = "sink"

	DefaultImage = "mysql:8.0.36"
	Port         = nat.Port("3306/tcp")
)

// MySQLContainer represents the MySQL container used as a verification sink.
type MySQLContainer struct {
	testcontainers.Container
	host     string
	port     string
	username string
	password string
	database string
}

// Run creates a MySQL instance with a ready-to-use sink database.
func Run(ctx context.Context, img string, opts ...testcontainers.ContainerCustomizer) (*MySQLContainer, error) {
	req := testcontainers.ContainerRequest{
		Image: img,
		Env: map[string]string{
			"MYSQL_ROOT_PASSWORD": defaultPassword,
			"MYSQL_DATABASE":      defaultDatabase,
		},
		ExposedPorts: []string{string(Port)},
		WaitingFor:   wait.ForLog("port: 3306  MySQL Community Server"),
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
		return nil, xerrors.Errorf("unable to get mysql host: %w", err)
	}
	containerPort, err := container.MappedPort(ctx, Port)
	if err != nil {
		return nil, xerrors.Errorf("unable to get mysql port: %w", err)
	}

	c := &MySQLContainer{
		Container: container,
		host:      host,
		port:      containerPort.Port(),
		username:  rootUser,
		password:  req.Env["MYSQL_ROOT_PASSWORD"],
		database:  req.Env["MYSQL_DATABASE"],
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

func (c *MySQLContainer) NativeURL() string {
	return c.dsn(c.database)
}

func (c *MySQLContainer) Username() string {
	return c.username
}

func (c *MySQLContainer) Password() string {
	return c.password
}

// Connect opens a database/sql handle to the container. An empty
// initialSchema lands in the container's default sink database.
func (c *MySQLContainer) Connect(ctx context.Context, initialSchema string) (*sql.DB, error) {
	database := c.database
	if initialSchema != "" {
		database = initialSchema
	}
	db, err := sql.Open("mysql", c.dsn(database))
	if err != nil {
		return nil, xerrors.Errorf("failed to open mysql connection: %w", err)
	}
	return db, nil
}

func (c *MySQLContainer) dsn(database string) string {
	return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s", c.username, c.password, c.host, c.port, database)
}
