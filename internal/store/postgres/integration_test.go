//go:build integration

package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/jackc/pgx/v5/stdlib" // pgx driver for database/sql
	"github.com/pressly/goose/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/rymp/etymologeek-parse/internal/models"
	"github.com/rymp/etymologeek-parse/internal/store/migrations"
)

// setupTestDB 启动PostgreSQL容器并执行迁移
func setupTestDB(t *testing.T) *pgxpool.Pool {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), 120*time.Second)
	defer cancel()

	req := testcontainers.ContainerRequest{
		Image:        "postgres:17-alpine",
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_USER":     "testuser",
			"POSTGRES_PASSWORD": "testpass",
			"POSTGRES_DB":       "testdb",
		},
		WaitingFor: wait.ForLog("database system is ready to accept connections").
			WithOccurrence(2).
			WithStartupTimeout(60 * time.Second),
	}

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = container.Terminate(context.Background()) })

	host, err := container.Host(ctx)
	require.NoError(t, err)
	port, err := container.MappedPort(ctx, "5432")
	require.NoError(t, err)

	dsn := fmt.Sprintf("postgres://testuser:testpass@%s:%s/testdb?sslmode=disable", host, port.Port())

	db, err := sql.Open("pgx", dsn)
	require.NoError(t, err)
	defer db.Close()

	provider, err := goose.NewProvider(goose.DialectPostgres, db, migrations.Postgres())
	require.NoError(t, err)
	_, err = provider.Up(ctx)
	require.NoError(t, err)

	pool, err := NewPool(ctx, PoolConfig{DSN: dsn, MaxConns: 2})
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	return pool
}

func TestSink_Integration(t *testing.T) {
	pool := setupTestDB(t)
	sink := NewWithPool(pool)
	ctx := context.Background()

	rows := sampleRows()

	got, err := sink.Append(ctx, rows)
	require.NoError(t, err)
	assert.Equal(t, models.AppendInserted, got)

	got, err = sink.Append(ctx, sampleRows())
	require.NoError(t, err)
	assert.Equal(t, models.AppendAlreadyExists, got)

	var count int
	require.NoError(t, pool.QueryRow(ctx, `SELECT COUNT(*) FROM etymology.vocabulary`).Scan(&count))
	assert.Equal(t, len(rows), count)

	var graph string
	require.NoError(t, pool.QueryRow(ctx,
		`SELECT graph::text FROM etymology.vocabulary WHERE role = 'summary'`).Scan(&graph))
	assert.JSONEq(t, `[["lat_campus","gmh_kampf"]]`, graph)
}
