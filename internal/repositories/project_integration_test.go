package repositories_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"solarforyou/internal/authz"
	"solarforyou/internal/entities"
	"solarforyou/internal/repositories"
	apperrors "solarforyou/pkg/errors"
	"solarforyou/pkg/types"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func insertID(t *testing.T, pool *pgxpool.Pool, query string, args ...interface{}) uint64 {
	t.Helper()
	var id uint64
	require.NoError(t, pool.QueryRow(context.Background(), query, args...).Scan(&id))
	return id
}

func projectIDs(list []*entities.Project) []uint64 {
	ids := make([]uint64, 0, len(list))
	for _, p := range list {
		ids = append(ids, p.ID)
	}
	return ids
}

func TestProjectRepository_VisibilityByAuthorOrClientUser(t *testing.T) {
	pool := testPool(t)
	ctx := context.Background()
	suffix := time.Now().UnixNano()

	owner := insertID(t, pool, "INSERT INTO users (username, password_hash) VALUES ($1, 'x') RETURNING id",
		fmt.Sprintf("vis_owner_%d", suffix))
	other := insertID(t, pool, "INSERT INTO users (username, password_hash) VALUES ($1, 'x') RETURNING id",
		fmt.Sprintf("vis_other_%d", suffix))
	ownersClient := insertID(t, pool, "INSERT INTO clients (name, user_id) VALUES ($1, $2) RETURNING id",
		fmt.Sprintf("Klient A %d", suffix), owner)
	foreignClient := insertID(t, pool, "INSERT INTO clients (name) VALUES ($1) RETURNING id",
		fmt.Sprintf("Klient B %d", suffix))
	t.Cleanup(func() {
		_, _ = pool.Exec(ctx, "DELETE FROM clients WHERE id IN ($1, $2)", ownersClient, foreignClient)
		_, _ = pool.Exec(ctx, "DELETE FROM users WHERE id IN ($1, $2)", owner, other)
	})

	newProject := func(name string, clientID, author uint64) uint64 {
		return insertID(t, pool, "INSERT INTO projects (name, client_id, created_by) VALUES ($1, $2, $3) RETURNING id",
			fmt.Sprintf("%s %d", name, suffix), clientID, author)
	}
	authored := newProject("Farma Opole", foreignClient, owner)
	viaClient := newProject("Farma Brzeg", ownersClient, other)
	hidden := newProject("Farma Nysa", foreignClient, other)

	repo := repositories.NewProjectRepository(pool, zap.NewNop())
	own := authz.Scope{UserID: owner}

	list, total, err := repo.GetAll(ctx, types.Filter{}, own)
	require.NoError(t, err)
	assert.Equal(t, uint64(2), total)
	assert.ElementsMatch(t, []uint64{authored, viaClient}, projectIDs(list))

	list, _, err = repo.GetAll(ctx, types.Filter{}, authz.Scope{All: true})
	require.NoError(t, err)
	assert.Subset(t, projectIDs(list), []uint64{authored, viaClient, hidden})

	p, err := repo.FindByID(ctx, nil, viaClient, own)
	require.NoError(t, err)
	assert.Equal(t, viaClient, p.ID)

	_, err = repo.FindByID(ctx, nil, hidden, own)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	_, err = repo.FindByID(ctx, nil, hidden, authz.Scope{All: true})
	assert.NoError(t, err)
}
