package postgres_test

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cattyman919/contact/app/domain"
	"github.com/cattyman919/contact/app/driver/postgres"
	"github.com/cattyman919/contact/app/usecase"
	"github.com/cattyman919/contact/app/utils/database"
	"github.com/cattyman919/contact/app/utils/migration"
)

// integrationDatabaseURL points at a disposable database; its contacts table is truncated
const integrationDatabaseURL = "CONTACT_INTEGRATION_DATABASE_URL"

func setupIntegrationDB(t *testing.T) *pgxpool.Pool {
	t.Helper()
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}
	dsn := os.Getenv(integrationDatabaseURL)
	if dsn == "" {
		t.Skipf("%s not set", integrationDatabaseURL)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))

	conn, err := database.NewConnection(ctx, &database.Config{
		DSN:             dsn,
		MaxOpenConns:    2,
		MaxIdleConns:    1,
		ConnMaxLifetime: time.Minute,
		ConnTimeout:     10 * time.Second,
	}, logger)
	require.NoError(t, err, "Should connect to test database")
	defer conn.Close()

	migrator := migration.NewMigrator(conn.DB(), logger, os.DirFS("../../cmd/migrate/migrations"))
	_, err = migrator.Up(ctx)
	require.NoError(t, err, "Should apply migrations")

	pool, err := pgxpool.New(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	_, err = pool.Exec(ctx, "TRUNCATE contacts")
	require.NoError(t, err)
	return pool
}

func TestContactRepositoryIntegration_PaginatesTiedTimestamps(t *testing.T) {
	pool := setupIntegrationDB(t)
	ctx := context.Background()
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
	repo := postgres.NewContactRepository(pool, logger)

	// one transaction shares a single now(), so the batch is fully tied on created_at
	batch := make([]*domain.Contact, 0, 7)
	for i := range 7 {
		batch = append(batch, &domain.Contact{
			ID:    uuid.New(),
			Name:  fmt.Sprintf("Batch %d", i),
			Phone: fmt.Sprintf("0812000000%02d", i),
			Email: fmt.Sprintf("batch%d@example.com", i),
		})
	}
	_, err := repo.InsertBatch(ctx, batch)
	require.NoError(t, err)

	for i := range 3 {
		_, err := repo.Insert(ctx, &domain.Contact{
			ID:    uuid.New(),
			Name:  fmt.Sprintf("Single %d", i),
			Phone: fmt.Sprintf("0813000000%02d", i),
			Email: fmt.Sprintf("single%d@example.com", i),
		})
		require.NoError(t, err)
	}

	all, err := repo.FindAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 10)

	paginator := usecase.NewCursorPaginator(repo, logger)

	var (
		forward []uuid.UUID
		pages   []*domain.ContactPage
		query   = domain.ContactPageQuery{Limit: 3}
	)
	for {
		page, err := paginator.Paginate(ctx, query)
		require.NoError(t, err)
		pages = append(pages, page)
		for _, c := range page.Data {
			forward = append(forward, c.ID)
		}
		if page.NextCursor == nil {
			break
		}
		query = domain.ContactPageQuery{NextCursor: *page.NextCursor, Limit: 3}
	}

	want := make([]uuid.UUID, 0, len(all))
	for _, c := range all {
		want = append(want, c.ID)
	}
	assert.Equal(t, want, forward)
	require.Len(t, pages, 4)

	// walking back from the last page revisits the earlier pages exactly
	last := pages[len(pages)-1]
	require.NotNil(t, last.PrevCursor)
	back, err := paginator.Paginate(ctx, domain.ContactPageQuery{PrevCursor: *last.PrevCursor, Limit: 3})
	require.NoError(t, err)
	assert.Equal(t, pages[2].Data, back.Data)
}
