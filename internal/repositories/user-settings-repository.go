package repositories

import (
	"context"

	"solarforyou/internal/entities"
	"solarforyou/pkg/types"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	userSettingsTable  = "user_settings"
	userSettingsFields = "s.id, s.user_id, s.project_id, s.created_at, s.updated_at, p.name"
)

type UserSettingsRepositoryInterface interface {
	FindByID(ctx context.Context, id uint64) (*entities.UserSettings, error)
	FindByUserID(ctx context.Context, tx pgx.Tx, userID uint64) (*entities.UserSettings, error)
	GetAll(ctx context.Context, filter types.Filter, userID uint64) ([]*entities.UserSettings, uint64, error)
	// GetOrCreate возвращает настройки пользователя, создавая пустые при отсутствии.
	GetOrCreate(ctx context.Context, tx pgx.Tx, userID uint64) (*entities.UserSettings, error)
	Update(ctx context.Context, tx pgx.Tx, s entities.UserSettings) error
	Delete(ctx context.Context, id uint64) error
}

type userSettingsRepository struct {
	storage *pgxpool.Pool
}

func NewUserSettingsRepository(storage *pgxpool.Pool) UserSettingsRepositoryInterface {
	return &userSettingsRepository{storage: storage}
}

func (r *userSettingsRepository) getQuerier(tx pgx.Tx) Querier {
	return querierFor(r.storage, tx)
}

func (r *userSettingsRepository) scanRow(row pgx.Row) (*entities.UserSettings, error) {
	var s entities.UserSettings
	if err := row.Scan(&s.ID, &s.UserID, &s.ProjectID, &s.CreatedAt, &s.UpdatedAt, &s.ProjectName); err != nil {
		return nil, scanErr(err, userSettingsTable)
	}
	return &s, nil
}

func (r *userSettingsRepository) selectBase() sq.SelectBuilder {
	return psql.Select(userSettingsFields).From("user_settings s").LeftJoin("projects p ON p.id = s.project_id")
}

func (r *userSettingsRepository) FindByID(ctx context.Context, id uint64) (*entities.UserSettings, error) {
	return findOne(ctx, r.storage, r.selectBase().Where(sq.Eq{"s.id": id}), r.scanRow)
}

func (r *userSettingsRepository) FindByUserID(ctx context.Context, tx pgx.Tx, userID uint64) (*entities.UserSettings, error) {
	return findOne(ctx, r.getQuerier(tx), r.selectBase().Where(sq.Eq{"s.user_id": userID}), r.scanRow)
}

// GetAll userID == 0 - все записи.
func (r *userSettingsRepository) GetAll(ctx context.Context, filter types.Filter, userID uint64) ([]*entities.UserSettings, uint64, error) {
	params := listParams{
		From:         "user_settings s",
		Joins:        []string{"LEFT JOIN projects p ON p.id = s.project_id"},
		Columns:      userSettingsFields,
		CountColumn:  "s.id",
		Filters:      map[string]string{"project": "s.project_id", "user": "s.user_id"},
		Sorts:        map[string]string{"id": "s.id"},
		DefaultOrder: "s.id ASC",
	}
	var where []sq.Sqlizer
	if userID != 0 {
		where = append(where, sq.Eq{"s.user_id": userID})
	}
	return fetchList(ctx, r.storage, params, filter, where, r.scanRow)
}

func (r *userSettingsRepository) GetOrCreate(ctx context.Context, tx pgx.Tx, userID uint64) (*entities.UserSettings, error) {
	q := r.getQuerier(tx)
	query, args, err := psql.Insert(userSettingsTable).
		Columns("user_id").Values(userID).
		Suffix("ON CONFLICT (user_id) DO NOTHING").
		ToSql()
	if err != nil {
		return nil, err
	}
	if _, err := q.Exec(ctx, query, args...); err != nil {
		return nil, writeErr(err, "create", userSettingsTable)
	}
	return findOne(ctx, q, r.selectBase().Where(sq.Eq{"s.user_id": userID}), r.scanRow)
}

func (r *userSettingsRepository) Update(ctx context.Context, tx pgx.Tx, s entities.UserSettings) error {
	builder := psql.Update(userSettingsTable).
		Set("project_id", s.ProjectID).
		Set("updated_at", sq.Expr("NOW()")).
		Where(sq.Eq{"id": s.ID})
	return execAffected(ctx, r.getQuerier(tx), builder, "update", userSettingsTable)
}

func (r *userSettingsRepository) Delete(ctx context.Context, id uint64) error {
	return deleteByID(ctx, r.storage, userSettingsTable, id)
}
