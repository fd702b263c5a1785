package repositories_test

import (
	"context"
	"os"
	"sync"
	"testing"
	"time"

	"solarforyou/internal/repositories"
	"solarforyou/internal/services"
	"solarforyou/migrations"
	"solarforyou/pkg/database/postgresql"
	"solarforyou/pkg/numbering"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// testPool подключается к TEST_DATABASE_URL и применяет миграции; без переменной тест пропускается.
func testPool(t *testing.T) *pgxpool.Pool {
	t.Helper()
	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL не задан")
	}
	pool, err := pgxpool.New(context.Background(), dsn)
	require.NoError(t, err)
	t.Cleanup(pool.Close)
	require.NoError(t, postgresql.Migrate(pool, migrations.FS))
	return pool
}

func TestSequence_ConcurrentTransactionsGetDistinctNumbers(t *testing.T) {
	pool := testPool(t)
	ctx := context.Background()
	at := time.Date(2099, time.December, 31, 12, 0, 0, 0, time.UTC)
	kind := numbering.TransportRequest

	_, err := pool.Exec(ctx, "DELETE FROM sequence_counters WHERE scope = $1", kind.Scope(at))
	require.NoError(t, err)

	txManager := repositories.NewTxManager(pool)
	svc := services.NewSequenceService(repositories.NewSequenceRepository(pool), zap.NewNop())

	const workers = 20
	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		numbers = make(map[string]struct{}, workers)
	)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := txManager.RunInTransaction(ctx, func(tx pgx.Tx) error {
				n, err := svc.Next(ctx, tx, kind, at)
				if err != nil {
					return err
				}
				mu.Lock()
				numbers[n] = struct{}{}
				mu.Unlock()
				return nil
			})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	assert.Len(t, numbers, workers)
	assert.Contains(t, numbers, "TR/2099/12/31/1")
	assert.Contains(t, numbers, "TR/2099/12/31/20")
}

func TestSequence_RollbackReleasesNumber(t *testing.T) {
	pool := testPool(t)
	ctx := context.Background()
	at := time.Date(2099, time.December, 30, 12, 0, 0, 0, time.UTC)
	kind := numbering.HRRequisition

	_, err := pool.Exec(ctx, "DELETE FROM sequence_counters WHERE scope = $1", kind.Scope(at))
	require.NoError(t, err)

	txManager := repositories.NewTxManager(pool)
	svc := services.NewSequenceService(repositories.NewSequenceRepository(pool), zap.NewNop())

	err = txManager.RunInTransaction(ctx, func(tx pgx.Tx) error {
		n, err := svc.Next(ctx, tx, kind, at)
		require.NoError(t, err)
		assert.Equal(t, "HR/2099/12/30/1", n)
		return assert.AnError
	})
	require.ErrorIs(t, err, assert.AnError)

	err = txManager.RunInTransaction(ctx, func(tx pgx.Tx) error {
		n, err := svc.Next(ctx, tx, kind, at)
		assert.Equal(t, "HR/2099/12/30/1", n)
		return err
	})
	require.NoError(t, err)
}
