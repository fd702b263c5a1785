package repositories

import (
	"context"
	"fmt"

	"solarforyou/internal/authz"
	"solarforyou/internal/entities"
	"solarforyou/pkg/types"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

const (
	profileTable    = "user_profiles"
	privilegeTable  = "user_privileges"
	profileFields   = "p.id, p.user_id, p.phone, p.address, p.status, p.created_at, p.updated_at"
	privilegesAggSQ = "COALESCE((SELECT string_agg(up.privilege, ',' ORDER BY up.privilege) FROM user_privileges up WHERE up.profile_id = p.id), '')"
)

var profileListParams = listParams{
	From:          "user_profiles p",
	Joins:         []string{"JOIN users u ON u.id = p.user_id"},
	Columns:       profileFields + ", " + privilegesAggSQ,
	CountColumn:   "p.id",
	SearchColumns: []string{"u.username", "u.first_name", "u.last_name", "p.phone"},
	Filters: map[string]string{
		"status": "p.status",
		"user":   "p.user_id",
	},
	Sorts: map[string]string{
		"id":         "p.id",
		"status":     "p.status",
		"created_at": "p.created_at",
	},
	DefaultOrder: "p.id ASC",
}

type ProfileRepositoryInterface interface {
	FindByID(ctx context.Context, tx pgx.Tx, id uint64) (*entities.UserProfile, error)
	FindByUserID(ctx context.Context, tx pgx.Tx, userID uint64) (*entities.UserProfile, error)
	GetAll(ctx context.Context, filter types.Filter) ([]*entities.UserProfile, uint64, error)
	Create(ctx context.Context, tx pgx.Tx, p entities.UserProfile) (uint64, error)
	Update(ctx context.Context, tx pgx.Tx, p entities.UserProfile) error
	Delete(ctx context.Context, tx pgx.Tx, id uint64) error
	// ReplacePrivileges переписывает набор привилегий профиля целиком.
	ReplacePrivileges(ctx context.Context, tx pgx.Tx, profileID uint64, privileges authz.Privileges) error
}

type profileRepository struct {
	storage *pgxpool.Pool
	logger  *zap.Logger
}

func NewProfileRepository(storage *pgxpool.Pool, logger *zap.Logger) ProfileRepositoryInterface {
	return &profileRepository{storage: storage, logger: logger}
}

func (r *profileRepository) getQuerier(tx pgx.Tx) Querier {
	return querierFor(r.storage, tx)
}

func (r *profileRepository) scanRow(row pgx.Row) (*entities.UserProfile, error) {
	var (
		p     entities.UserProfile
		privs string
	)
	err := row.Scan(&p.ID, &p.UserID, &p.Phone, &p.Address, &p.Status, &p.CreatedAt, &p.UpdatedAt, &privs)
	if err != nil {
		return nil, scanErr(err, profileTable)
	}
	p.Privileges = authz.ParsePrivileges(privs)
	return &p, nil
}

func (r *profileRepository) selectOne() sq.SelectBuilder {
	return psql.Select(profileFields + ", " + privilegesAggSQ).From("user_profiles p")
}

func (r *profileRepository) FindByID(ctx context.Context, tx pgx.Tx, id uint64) (*entities.UserProfile, error) {
	return findOne(ctx, r.getQuerier(tx), r.selectOne().Where(sq.Eq{"p.id": id}), r.scanRow)
}

func (r *profileRepository) FindByUserID(ctx context.Context, tx pgx.Tx, userID uint64) (*entities.UserProfile, error) {
	return findOne(ctx, r.getQuerier(tx), r.selectOne().Where(sq.Eq{"p.user_id": userID}), r.scanRow)
}

func (r *profileRepository) GetAll(ctx context.Context, filter types.Filter) ([]*entities.UserProfile, uint64, error) {
	return fetchList(ctx, r.storage, profileListParams, filter, nil, r.scanRow)
}

func (r *profileRepository) Create(ctx context.Context, tx pgx.Tx, p entities.UserProfile) (uint64, error) {
	builder := psql.Insert(profileTable).
		Columns("user_id", "phone", "address", "status").
		Values(p.UserID, p.Phone, p.Address, p.Status)
	return insertReturningID(ctx, r.getQuerier(tx), builder, profileTable)
}

func (r *profileRepository) Update(ctx context.Context, tx pgx.Tx, p entities.UserProfile) error {
	builder := psql.Update(profileTable).
		Set("phone", p.Phone).
		Set("address", p.Address).
		Set("status", p.Status).
		Set("updated_at", sq.Expr("NOW()")).
		Where(sq.Eq{"id": p.ID})
	return execAffected(ctx, r.getQuerier(tx), builder, "update", profileTable)
}

func (r *profileRepository) Delete(ctx context.Context, tx pgx.Tx, id uint64) error {
	return deleteByID(ctx, r.getQuerier(tx), profileTable, id)
}

func (r *profileRepository) ReplacePrivileges(ctx context.Context, tx pgx.Tx, profileID uint64, privileges authz.Privileges) error {
	del, args, err := psql.Delete(privilegeTable).Where(sq.Eq{"profile_id": profileID}).ToSql()
	if err != nil {
		return err
	}
	if _, err := tx.Exec(ctx, del, args...); err != nil {
		return fmt.Errorf("не удалось очистить привилегии профиля %d: %w", profileID, err)
	}
	if privileges.Len() == 0 {
		return nil
	}

	insert := psql.Insert(privilegeTable).Columns("profile_id", "privilege")
	for _, p := range privileges.List() {
		insert = insert.Values(profileID, p)
	}
	query, args, err := insert.ToSql()
	if err != nil {
		return err
	}
	if _, err := tx.Exec(ctx, query, args...); err != nil {
		return writeErr(err, "create", privilegeTable)
	}
	return nil
}
