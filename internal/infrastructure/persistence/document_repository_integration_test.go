//go:build integration

package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/dms/backend/internal/domain/document"
	"github.com/dms/backend/internal/domain/shared"
	"github.com/dms/backend/internal/infrastructure/config"
	"github.com/dms/backend/internal/infrastructure/migration"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

// newPostgresDatabase starts a throwaway PostgreSQL container and applies
// the embedded migrations to it
func newPostgresDatabase(t *testing.T) *Database {
	t.Helper()
	ctx := context.Background()

	container, err := tcpostgres.Run(ctx,
		"postgres:16-alpine",
		tcpostgres.WithDatabase("dms_test"),
		tcpostgres.WithUsername("postgres"),
		tcpostgres.WithPassword("postgres"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second)),
	)
	require.NoError(t, err, "Failed to start PostgreSQL container")
	t.Cleanup(func() {
		_ = container.Terminate(context.Background())
	})

	host, err := container.Host(ctx)
	require.NoError(t, err)
	port, err := container.MappedPort(ctx, "5432/tcp")
	require.NoError(t, err)

	db, err := NewDatabase(&config.DatabaseConfig{
		Driver:       "postgres",
		Host:         host,
		Port:         port.Int(),
		User:         "postgres",
		Password:     "postgres",
		DBName:       "dms_test",
		SSLMode:      "disable",
		MaxOpenConns: 5,
		MaxIdleConns: 2,
	}, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	sqlDB, err := db.DB.DB()
	require.NoError(t, err)
	m, err := migration.New(sqlDB, "postgres", nil)
	require.NoError(t, err)
	require.NoError(t, m.Up())

	return db
}

func TestGormDocumentRepository_Postgres(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping container test in short mode")
	}
	db := newPostgresDatabase(t)
	repo := NewGormDocumentRepository(db.DB)
	ctx := context.Background()

	first := document.NewRecord(document.KindContract, "HD001", "ord-1", "contract/2026/03/HD001-a.pdf", 2048, "aa", "user-1")
	first.CreatedAt = time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)
	second := document.NewRecord(document.KindContract, "HD001", "ord-1", "contract/2026/03/HD001-b.pdf", 4096, "bb", "user-1")
	second.CreatedAt = first.CreatedAt.Add(time.Hour)
	quote := document.NewRecord(document.KindQuote, "BG007", "", "quote/2026/03/BG007.pdf", 1024, "cc", "user-2")

	for _, rec := range []*document.Record{first, second, quote} {
		require.NoError(t, repo.Save(ctx, rec))
	}

	t.Run("duplicate storage key", func(t *testing.T) {
		dup := document.NewRecord(document.KindContract, "HD001", "ord-1", first.StorageKey, 1, "dd", "user-1")
		assert.ErrorIs(t, repo.Save(ctx, dup), shared.ErrAlreadyExists)
	})

	t.Run("find by id", func(t *testing.T) {
		got, err := repo.FindByID(ctx, quote.ID)
		require.NoError(t, err)
		assert.Equal(t, document.KindQuote, got.Kind)
		assert.Empty(t, got.OrderID)
		assert.Equal(t, int64(1024), got.SizeBytes)
	})

	t.Run("order documents newest first", func(t *testing.T) {
		got, err := repo.FindByOrder(ctx, "ord-1")
		require.NoError(t, err)
		require.Len(t, got, 2)
		assert.Equal(t, second.ID, got[0].ID)
		assert.Equal(t, first.ID, got[1].ID)
	})
}
