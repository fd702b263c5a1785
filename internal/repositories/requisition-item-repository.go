package repositories

import (
	"context"

	"solarforyou/internal/authz"
	"solarforyou/internal/entities"
	"solarforyou/pkg/types"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	requisitionItemTable  = "requisition_items"
	requisitionItemFields = `ri.id, ri.requisition_id, ri.item_id, ri.quantity, ri.price, ri.comment, ri.created_at, ri.updated_at,
		i.name, i."index", i.unit`
)

var requisitionItemJoins = []string{
	"JOIN items i ON i.id = ri.item_id",
	"JOIN requisitions r ON r.id = ri.requisition_id",
}

var requisitionItemListParams = listParams{
	From:          "requisition_items ri",
	Joins:         requisitionItemJoins,
	Columns:       requisitionItemFields,
	CountColumn:   "ri.id",
	SearchColumns: []string{"i.name", `i."index"`, "ri.comment"},
	Filters: map[string]string{
		"requisition": "ri.requisition_id",
		"item":        "ri.item_id",
	},
	Sorts: map[string]string{
		"id":       "ri.id",
		"quantity": "ri.quantity",
		"price":    "ri.price",
	},
	DefaultOrder: "ri.id ASC",
}

type RequisitionItemRepositoryInterface interface {
	FindByID(ctx context.Context, tx pgx.Tx, id uint64, scope authz.Scope) (*entities.RequisitionItem, error)
	GetAll(ctx context.Context, filter types.Filter, scope authz.Scope) ([]*entities.RequisitionItem, uint64, error)
	FindByRequisitionIDs(ctx context.Context, tx pgx.Tx, ids []uint64) (map[uint64][]entities.RequisitionItem, error)
	Create(ctx context.Context, tx pgx.Tx, item entities.RequisitionItem) (uint64, error)
	Update(ctx context.Context, tx pgx.Tx, item entities.RequisitionItem) error
	Delete(ctx context.Context, tx pgx.Tx, id uint64) error
}

type requisitionItemRepository struct {
	storage *pgxpool.Pool
}

func NewRequisitionItemRepository(storage *pgxpool.Pool) RequisitionItemRepositoryInterface {
	return &requisitionItemRepository{storage: storage}
}

func (r *requisitionItemRepository) getQuerier(tx pgx.Tx) Querier {
	return querierFor(r.storage, tx)
}

func (r *requisitionItemRepository) scanRow(row pgx.Row) (*entities.RequisitionItem, error) {
	var i entities.RequisitionItem
	err := row.Scan(&i.ID, &i.RequisitionID, &i.ItemID, &i.Quantity, &i.Price, &i.Comment, &i.CreatedAt, &i.UpdatedAt,
		&i.ItemName, &i.ItemIndex, &i.ItemUnit)
	if err != nil {
		return nil, scanErr(err, requisitionItemTable)
	}
	return &i, nil
}

func (r *requisitionItemRepository) selectBase() sq.SelectBuilder {
	builder := psql.Select(requisitionItemFields).From("requisition_items ri")
	for _, j := range requisitionItemJoins {
		builder = builder.JoinClause(j)
	}
	return builder
}

// FindByID видимость позиции определяется автором заявки.
func (r *requisitionItemRepository) FindByID(ctx context.Context, tx pgx.Tx, id uint64, scope authz.Scope) (*entities.RequisitionItem, error) {
	builder := r.selectBase().Where(sq.Eq{"ri.id": id})
	if vis := ownedBy(scope, "r.created_by"); vis != nil {
		builder = builder.Where(vis)
	}
	return findOne(ctx, r.getQuerier(tx), builder, r.scanRow)
}

func (r *requisitionItemRepository) GetAll(ctx context.Context, filter types.Filter, scope authz.Scope) ([]*entities.RequisitionItem, uint64, error) {
	return fetchList(ctx, r.storage, requisitionItemListParams, filter, []sq.Sqlizer{ownedBy(scope, "r.created_by")}, r.scanRow)
}

func (r *requisitionItemRepository) FindByRequisitionIDs(ctx context.Context, tx pgx.Tx, ids []uint64) (map[uint64][]entities.RequisitionItem, error) {
	result := make(map[uint64][]entities.RequisitionItem, len(ids))
	if len(ids) == 0 {
		return result, nil
	}
	items, err := queryMany(ctx, r.getQuerier(tx), r.selectBase().Where(sq.Eq{"ri.requisition_id": ids}).OrderBy("ri.id"), r.scanRow)
	if err != nil {
		return nil, err
	}
	for _, i := range items {
		result[i.RequisitionID] = append(result[i.RequisitionID], *i)
	}
	return result, nil
}

func (r *requisitionItemRepository) Create(ctx context.Context, tx pgx.Tx, item entities.RequisitionItem) (uint64, error) {
	builder := psql.Insert(requisitionItemTable).
		Columns("requisition_id", "item_id", "quantity", "price", "comment").
		Values(item.RequisitionID, item.ItemID, item.Quantity, item.Price, item.Comment)
	return insertReturningID(ctx, r.getQuerier(tx), builder, requisitionItemTable)
}

func (r *requisitionItemRepository) Update(ctx context.Context, tx pgx.Tx, item entities.RequisitionItem) error {
	builder := psql.Update(requisitionItemTable).
		Set("item_id", item.ItemID).
		Set("quantity", item.Quantity).
		Set("price", item.Price).
		Set("comment", item.Comment).
		Set("updated_at", sq.Expr("NOW()")).
		Where(sq.Eq{"id": item.ID})
	return execAffected(ctx, r.getQuerier(tx), builder, "update", requisitionItemTable)
}

func (r *requisitionItemRepository) Delete(ctx context.Context, tx pgx.Tx, id uint64) error {
	return deleteByID(ctx, r.getQuerier(tx), requisitionItemTable, id)
}
