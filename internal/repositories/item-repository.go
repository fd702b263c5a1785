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
	itemTable  = "items"
	itemFields = `id, "index", name, unit, price, description, created_at, updated_at`
)

var itemListParams = listParams{
	From:          itemTable,
	Columns:       itemFields,
	CountColumn:   "id",
	SearchColumns: []string{`"index"`, "name", "description"},
	Filters: map[string]string{
		"unit":  "unit",
		"index": `"index"`,
	},
	Sorts: map[string]string{
		"id":    "id",
		"index": `"index"`,
		"name":  "name",
		"price": "price",
	},
	DefaultOrder: `"index" ASC`,
}

type ItemRepositoryInterface interface {
	FindByID(ctx context.Context, tx pgx.Tx, id uint64) (*entities.Item, error)
	GetAll(ctx context.Context, filter types.Filter) ([]*entities.Item, uint64, error)
	Create(ctx context.Context, tx pgx.Tx, item entities.Item) (uint64, error)
	Update(ctx context.Context, tx pgx.Tx, item entities.Item) error
	Delete(ctx context.Context, tx pgx.Tx, id uint64) error
}

type itemRepository struct {
	storage *pgxpool.Pool
	logger  *zap.Logger
}

func NewItemRepository(storage *pgxpool.Pool, logger *zap.Logger) ItemRepositoryInterface {
	return &itemRepository{storage: storage, logger: logger}
}

func (r *itemRepository) getQuerier(tx pgx.Tx) Querier {
	return querierFor(r.storage, tx)
}

func (r *itemRepository) scanRow(row pgx.Row) (*entities.Item, error) {
	var i entities.Item
	if err := row.Scan(&i.ID, &i.Index, &i.Name, &i.Unit, &i.Price, &i.Description, &i.CreatedAt, &i.UpdatedAt); err != nil {
		return nil, scanErr(err, itemTable)
	}
	return &i, nil
}

func (r *itemRepository) FindByID(ctx context.Context, tx pgx.Tx, id uint64) (*entities.Item, error) {
	return findOne(ctx, r.getQuerier(tx), psql.Select(itemFields).From(itemTable).Where(sq.Eq{"id": id}), r.scanRow)
}

func (r *itemRepository) GetAll(ctx context.Context, filter types.Filter) ([]*entities.Item, uint64, error) {
	return fetchList(ctx, r.storage, itemListParams, filter, nil, r.scanRow)
}

func (r *itemRepository) Create(ctx context.Context, tx pgx.Tx, item entities.Item) (uint64, error) {
	builder := psql.Insert(itemTable).
		Columns(`"index"`, "name", "unit", "price", "description").
		Values(item.Index, item.Name, item.Unit, item.Price, item.Description)
	return insertReturningID(ctx, r.getQuerier(tx), builder, itemTable)
}

// Update не трогает индекс: он присваивается один раз.
func (r *itemRepository) Update(ctx context.Context, tx pgx.Tx, item entities.Item) error {
	builder := psql.Update(itemTable).
		Set("name", item.Name).
		Set("unit", item.Unit).
		Set("price", item.Price).
		Set("description", item.Description).
		Set("updated_at", sq.Expr("NOW()")).
		Where(sq.Eq{"id": item.ID})
	return execAffected(ctx, r.getQuerier(tx), builder, "update", itemTable)
}

func (r *itemRepository) Delete(ctx context.Context, tx pgx.Tx, id uint64) error {
	return deleteByID(ctx, r.getQuerier(tx), itemTable, id)
}
