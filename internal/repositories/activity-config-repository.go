package repositories

import (
	"context"

	"solarforyou/internal/entities"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	activityConfigTable  = "project_activity_configs"
	activityConfigFields = "id, project_id, config_data, file_path, created_by, created_at, updated_at"
)

type ActivityConfigRepositoryInterface interface {
	FindByProjectID(ctx context.Context, projectID uint64) (*entities.ProjectActivityConfig, error)
	// Upsert создаёт или заменяет конфигурацию проекта.
	Upsert(ctx context.Context, tx pgx.Tx, c entities.ProjectActivityConfig) (uint64, error)
}

type activityConfigRepository struct {
	storage *pgxpool.Pool
}

func NewActivityConfigRepository(storage *pgxpool.Pool) ActivityConfigRepositoryInterface {
	return &activityConfigRepository{storage: storage}
}

func (r *activityConfigRepository) scanRow(row pgx.Row) (*entities.ProjectActivityConfig, error) {
	var (
		c   entities.ProjectActivityConfig
		raw []byte
	)
	if err := row.Scan(&c.ID, &c.ProjectID, &raw, &c.FilePath, &c.CreatedBy, &c.CreatedAt, &c.UpdatedAt); err != nil {
		return nil, scanErr(err, activityConfigTable)
	}
	c.ConfigData = raw
	return &c, nil
}

func (r *activityConfigRepository) FindByProjectID(ctx context.Context, projectID uint64) (*entities.ProjectActivityConfig, error) {
	builder := psql.Select(activityConfigFields).From(activityConfigTable).Where(sq.Eq{"project_id": projectID})
	return findOne(ctx, r.storage, builder, r.scanRow)
}

func (r *activityConfigRepository) Upsert(ctx context.Context, tx pgx.Tx, c entities.ProjectActivityConfig) (uint64, error) {
	var q Querier = r.storage
	if tx != nil {
		q = tx
	}
	builder := psql.Insert(activityConfigTable).
		Columns("project_id", "config_data", "file_path", "created_by").
		Values(c.ProjectID, string(c.ConfigData), c.FilePath, c.CreatedBy).
		Suffix(`ON CONFLICT (project_id) DO UPDATE
			SET config_data = EXCLUDED.config_data, file_path = EXCLUDED.file_path, updated_at = NOW()`)
	return insertReturningID(ctx, q, builder, activityConfigTable)
}
