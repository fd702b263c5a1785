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
	clientTable  = "clients"
	clientFields = "c.id, c.name, c.email, c.phone, c.address, c.user_id, c.created_by, c.created_at, c.updated_at"
)

var clientListParams = listParams{
	From:          "clients c",
	Columns:       clientFields,
	CountColumn:   "c.id",
	SearchColumns: []string{"c.name", "c.email", "c.phone"},
	Filters: map[string]string{
		"user":       "c.user_id",
		"created_by": "c.created_by",
	},
	Sorts: map[string]string{
		"id":         "c.id",
		"name":       "c.name",
		"created_at": "c.created_at",
	},
	DefaultOrder: "c.name ASC",
}

type ClientRepositoryInterface interface {
	FindByID(ctx context.Context, tx pgx.Tx, id uint64) (*entities.Client, error)
	GetAll(ctx context.Context, filter types.Filter) ([]*entities.Client, uint64, error)
	Create(ctx context.Context, tx pgx.Tx, c entities.Client) (uint64, error)
	Update(ctx context.Context, tx pgx.Tx, c entities.Client) error
	Delete(ctx context.Context, tx pgx.Tx, id uint64) error
}

type clientRepository struct {
	storage *pgxpool.Pool
	logger  *zap.Logger
}

func NewClientRepository(storage *pgxpool.Pool, logger *zap.Logger) ClientRepositoryInterface {
	return &clientRepository{storage: storage, logger: logger}
}

func (r *clientRepository) getQuerier(tx pgx.Tx) Querier {
	return querierFor(r.storage, tx)
}

func (r *clientRepository) scanRow(row pgx.Row) (*entities.Client, error) {
	var c entities.Client
	err := row.Scan(&c.ID, &c.Name, &c.Email, &c.Phone, &c.Address, &c.UserID, &c.CreatedBy, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, scanErr(err, clientTable)
	}
	return &c, nil
}

func (r *clientRepository) FindByID(ctx context.Context, tx pgx.Tx, id uint64) (*entities.Client, error) {
	return findOne(ctx, r.getQuerier(tx), psql.Select(clientFields).From("clients c").Where(sq.Eq{"c.id": id}), r.scanRow)
}

func (r *clientRepository) GetAll(ctx context.Context, filter types.Filter) ([]*entities.Client, uint64, error) {
	return fetchList(ctx, r.storage, clientListParams, filter, nil, r.scanRow)
}

func (r *clientRepository) Create(ctx context.Context, tx pgx.Tx, c entities.Client) (uint64, error) {
	builder := psql.Insert(clientTable).
		Columns("name", "email", "phone", "address", "user_id", "created_by").
		Values(c.Name, c.Email, c.Phone, c.Address, c.UserID, c.CreatedBy)
	return insertReturningID(ctx, r.getQuerier(tx), builder, clientTable)
}

func (r *clientRepository) Update(ctx context.Context, tx pgx.Tx, c entities.Client) error {
	builder := psql.Update(clientTable).
		Set("name", c.Name).
		Set("email", c.Email).
		Set("phone", c.Phone).
		Set("address", c.Address).
		Set("user_id", c.UserID).
		Set("updated_at", sq.Expr("NOW()")).
		Where(sq.Eq{"id": c.ID})
	return execAffected(ctx, r.getQuerier(tx), builder, "update", clientTable)
}

func (r *clientRepository) Delete(ctx context.Context, tx pgx.Tx, id uint64) error {
	return deleteByID(ctx, r.getQuerier(tx), clientTable, id)
}
