package services

import (
	"context"
	"testing"

	"solarforyou/internal/authz"
	"solarforyou/internal/entities"
	"solarforyou/internal/repositories"
	"solarforyou/pkg/types"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type scopeRecordingProjectRepo struct {
	repositories.ProjectRepositoryInterface
	scopes []authz.Scope
}

func (r *scopeRecordingProjectRepo) GetAll(_ context.Context, _ types.Filter, scope authz.Scope) ([]*entities.Project, uint64, error) {
	r.scopes = append(r.scopes, scope)
	return []*entities.Project{}, 0, nil
}

func (r *scopeRecordingProjectRepo) FindByID(_ context.Context, _ pgx.Tx, id uint64, scope authz.Scope) (*entities.Project, error) {
	r.scopes = append(r.scopes, scope)
	return &entities.Project{ID: id}, nil
}

func TestProjectService_ScopeFollowsPrivileges(t *testing.T) {
	testCases := []struct {
		name string
		ctx  context.Context
		want authz.Scope
	}{
		{"свои проекты", actorCtx(4, false, authz.ManageProjects), authz.Scope{UserID: 4}},
		{"просмотр всех", actorCtx(4, false, authz.ViewAllProjects), authz.Scope{All: true, UserID: 4}},
		{"staff", actorCtx(4, true), authz.Scope{All: true, UserID: 4}},
		{"чужая привилегия не расширяет", actorCtx(4, false, authz.ViewAllRequisitions), authz.Scope{UserID: 4}},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			repo := &scopeRecordingProjectRepo{}
			svc := NewProjectService(fakeTxManager{}, repo, zap.NewNop())

			_, _, err := svc.GetProjects(tc.ctx, types.Filter{})
			require.NoError(t, err)
			_, err = svc.FindProject(tc.ctx, 11)
			require.NoError(t, err)

			assert.Equal(t, []authz.Scope{tc.want, tc.want}, repo.scopes)
		})
	}
}
