package repositories

import (
	"context"

	"solarforyou/internal/entities"
	"solarforyou/pkg/types"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

const (
	userTable  = "users"
	userFields = "u.id, u.username, u.password_hash, u.first_name, u.last_name, u.email, u.is_staff, u.is_active, u.last_login, u.created_at, u.updated_at"
)

var userListParams = listParams{
	From:          "users u",
	Columns:       userFields,
	CountColumn:   "u.id",
	SearchColumns: []string{"u.username", "u.first_name", "u.last_name", "u.email"},
	Filters: map[string]string{
		"is_staff":  "u.is_staff",
		"is_active": "u.is_active",
		"username":  "u.username",
	},
	Sorts: map[string]string{
		"id":          "u.id",
		"username":    "u.username",
		"last_name":   "u.last_name",
		"date_joined": "u.created_at",
	},
	DefaultOrder: "u.username ASC",
}

type UserRepositoryInterface interface {
	FindByID(ctx context.Context, tx pgx.Tx, id uint64) (*entities.User, error)
	FindByUsername(ctx context.Context, username string) (*entities.User, error)
	FindByIDs(ctx context.Context, ids []uint64) ([]*entities.User, error)
	GetAll(ctx context.Context, filter types.Filter) ([]*entities.User, uint64, error)
	Create(ctx context.Context, tx pgx.Tx, u entities.User) (uint64, error)
	Update(ctx context.Context, tx pgx.Tx, u entities.User) error
	UpdatePassword(ctx context.Context, tx pgx.Tx, id uint64, hash string) error
	TouchLastLogin(ctx context.Context, id uint64) error
	Delete(ctx context.Context, tx pgx.Tx, id uint64) error
}

type userRepository struct {
	storage *pgxpool.Pool
	logger  *zap.Logger
}

func NewUserRepository(storage *pgxpool.Pool, logger *zap.Logger) UserRepositoryInterface {
	return &userRepository{storage: storage, logger: logger}
}

func (r *userRepository) getQuerier(tx pgx.Tx) Querier {
	return querierFor(r.storage, tx)
}

func (r *userRepository) scanRow(row pgx.Row) (*entities.User, error) {
	var u entities.User
	err := row.Scan(&u.ID, &u.Username, &u.PasswordHash, &u.FirstName, &u.LastName, &u.Email,
		&u.IsStaff, &u.IsActive, &u.LastLogin, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return nil, scanErr(err, userTable)
	}
	return &u, nil
}

func (r *userRepository) FindByID(ctx context.Context, tx pgx.Tx, id uint64) (*entities.User, error) {
	return findOne(ctx, r.getQuerier(tx), psql.Select(userFields).From("users u").Where(sq.Eq{"u.id": id}), r.scanRow)
}

func (r *userRepository) FindByUsername(ctx context.Context, username string) (*entities.User, error) {
	return findOne(ctx, r.storage, psql.Select(userFields).From("users u").Where(sq.Eq{"u.username": username}), r.scanRow)
}

func (r *userRepository) FindByIDs(ctx context.Context, ids []uint64) ([]*entities.User, error) {
	if len(ids) == 0 {
		return []*entities.User{}, nil
	}
	return queryMany(ctx, r.storage, psql.Select(userFields).From("users u").Where(sq.Eq{"u.id": ids}), r.scanRow)
}

func (r *userRepository) GetAll(ctx context.Context, filter types.Filter) ([]*entities.User, uint64, error) {
	return fetchList(ctx, r.storage, userListParams, filter, nil, r.scanRow)
}

func (r *userRepository) Create(ctx context.Context, tx pgx.Tx, u entities.User) (uint64, error) {
	builder := psql.Insert(userTable).
		Columns("username", "password_hash", "first_name", "last_name", "email", "is_staff", "is_active").
		Values(u.Username, u.PasswordHash, u.FirstName, u.LastName, u.Email, u.IsStaff, u.IsActive)
	return insertReturningID(ctx, r.getQuerier(tx), builder, userTable)
}

func (r *userRepository) Update(ctx context.Context, tx pgx.Tx, u entities.User) error {
	builder := psql.Update(userTable).
		Set("username", u.Username).
		Set("first_name", u.FirstName).
		Set("last_name", u.LastName).
		Set("email", u.Email).
		Set("is_staff", u.IsStaff).
		Set("is_active", u.IsActive).
		Set("updated_at", sq.Expr("NOW()")).
		Where(sq.Eq{"id": u.ID})
	return execAffected(ctx, r.getQuerier(tx), builder, "update", userTable)
}

func (r *userRepository) UpdatePassword(ctx context.Context, tx pgx.Tx, id uint64, hash string) error {
	builder := psql.Update(userTable).
		Set("password_hash", hash).
		Set("updated_at", sq.Expr("NOW()")).
		Where(sq.Eq{"id": id})
	return execAffected(ctx, r.getQuerier(tx), builder, "update", userTable)
}

func (r *userRepository) TouchLastLogin(ctx context.Context, id uint64) error {
	return execAffected(ctx, r.storage, psql.Update(userTable).Set("last_login", sq.Expr("NOW()")).Where(sq.Eq{"id": id}), "update", userTable)
}

func (r *userRepository) Delete(ctx context.Context, tx pgx.Tx, id uint64) error {
	return deleteByID(ctx, r.getQuerier(tx), userTable, id)
}
