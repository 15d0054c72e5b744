package database

import (
	"context"
	"log"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/gitadaily/gita-daily-api/pkg/config"
)

var testCfg *config.Config

func mustStartPostgresContainer() (func(context.Context, ...testcontainers.TerminateOption) error, error) {
	var (
		dbName = "gita_daily"
		dbUser = "postgres"
		dbPswd = "password"
	)

	ctx := context.Background()

	container, err := tcpostgres.Run(
		ctx,
		"postgres:16-alpine",
		tcpostgres.WithDatabase(dbName),
		tcpostgres.WithUsername(dbUser),
		tcpostgres.WithPassword(dbPswd),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	if err != nil {
		return nil, err
	}

	host, err := container.Host(ctx)
	if err != nil {
		return container.Terminate, err
	}

	port, err := container.MappedPort(ctx, "5432/tcp")
	if err != nil {
		return container.Terminate, err
	}

	testCfg = &config.Config{
		DBHost:     host,
		DBPort:     port.Port(),
		DBName:     dbName,
		DBUser:     dbUser,
		DBPassword: dbPswd,
		DBSchema:   "public",
	}

	return container.Terminate, nil
}

func TestMain(m *testing.M) {
	teardown, err := mustStartPostgresContainer()
	if err != nil {
		log.Fatalf("could not start postgres container: %v", err)
	}

	code := m.Run()

	if teardown != nil {
		if err := teardown(context.Background()); err != nil {
			log.Printf("could not teardown postgres container: %v", err)
		}
	}

	os.Exit(code)
}

func TestNew(t *testing.T) {
	srv, err := New(testCfg)
	require.NoError(t, err)
	defer srv.Close()

	assert.NotNil(t, srv.DB())
}

func TestHealth(t *testing.T) {
	srv, err := New(testCfg)
	require.NoError(t, err)
	defer srv.Close()

	stats := srv.Health()
	assert.Equal(t, "up", stats["status"])
	assert.NotContains(t, stats, "error")
}

func TestEnsureSchema(t *testing.T) {
	srv, err := New(testCfg)
	require.NoError(t, err)
	defer srv.Close()

	ctx := context.Background()
	require.NoError(t, srv.EnsureSchema(ctx))
	// Idempotent.
	require.NoError(t, srv.EnsureSchema(ctx))

	var count int
	err = srv.DB().QueryRowContext(ctx, `SELECT COUNT(*) FROM verses`).Scan(&count)
	require.NoError(t, err)
	assert.Equal(t, 0, count)
}
