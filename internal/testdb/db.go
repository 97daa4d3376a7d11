// Package testdb spins up a disposable postgres container for tests that
// need the real database rather than sqlite.
package testdb

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
	"gorm.io/gorm"

	"github.com/mealmosaic/engine/config"
	"github.com/mealmosaic/engine/internal/database"
)

// TestDB wraps a containerized test database instance.
type TestDB struct {
	DB        *gorm.DB
	Config    *config.Config
	Container testcontainers.Container
}

// Close terminates the backing container.
func (td *TestDB) Close() error {
	if td.Container != nil {
		return td.Container.Terminate(context.Background())
	}
	return nil
}

// Setup starts a postgres container, connects, and migrates the schema.
// Skipped unless RUN_CONTAINER_TESTS=true so the suite stays runnable
// without Docker.
func Setup(t *testing.T) *TestDB {
	t.Helper()
	if os.Getenv("RUN_CONTAINER_TESTS") != "true" {
		t.Skip("RUN_CONTAINER_TESTS not set; skipping container-backed database test")
	}

	ctx := context.Background()
	req := testcontainers.ContainerRequest{
		Image:        "postgres:16-alpine",
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_USER":     "test",
			"POSTGRES_PASSWORD": "test",
			"POSTGRES_DB":       "test",
		},
		WaitingFor: wait.ForAll(
			wait.ForLog("database system is ready to accept connections"),
			wait.ForListeningPort("5432/tcp"),
		),
	}

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(t, err)

	host, err := container.Host(ctx)
	require.NoError(t, err)
	port, err := container.MappedPort(ctx, "5432")
	require.NoError(t, err)

	cfg := config.Default()
	cfg.DBHost = host
	cfg.DBPort = port.Port()
	cfg.DBUser = "test"
	cfg.DBPassword = "test"
	cfg.DBName = "test"

	db, err := database.New(cfg)
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))

	testDB := &TestDB{
		DB:        db,
		Config:    cfg,
		Container: container,
	}
	t.Cleanup(func() {
		if err := testDB.Close(); err != nil {
			t.Logf("error cleaning up test database: %v", err)
		}
	})
	return testDB
}
