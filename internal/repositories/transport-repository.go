package repositories

import (
	"context"

	"solarforyou/internal/authz"
	"solarforyou/internal/entities"
	"solarforyou/pkg/types"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

const (
	transportTable  = "transport_requests"
	transportItems  = "transport_items"
	transportFields = `t.id, t.number, t.pickup_project_id, t.pickup_address, t.pickup_date, t.delivery_project_id,
		t.delivery_address, t.delivery_date, t.loading_method, t.cost_project_id, t.requester_phone, t.notes, t.status,
		t.created_by, t.updated_by, t.created_at, t.updated_at, TRIM(u.first_name || ' ' || u.last_name)`
	transportItemFields = `ti.id, ti.transport_request_id, ti.description, ti.length, ti.width, ti.height, ti.weight,
		ti.quantity, ti.price, ti.created_at, ti.updated_at`
)

var transportListParams = listParams{
	From:          "transport_requests t",
	Joins:         []string{"JOIN users u ON u.id = t.created_by"},
	Columns:       transportFields,
	CountColumn:   "t.id",
	SearchColumns: []string{"t.number", "t.pickup_address", "t.delivery_address", "t.notes"},
	Filters: map[string]string{
		"status":           "t.status",
		"loading_method":   "t.loading_method",
		"pickup_project":   "t.pickup_project_id",
		"delivery_project": "t.delivery_project_id",
		"cost_project":     "t.cost_project_id",
		"created_by":       "t.created_by",
	},
	Sorts: map[string]string{
		"id":            "t.id",
		"number":        "t.number",
		"pickup_date":   "t.pickup_date",
		"delivery_date": "t.delivery_date",
		"created_at":    "t.created_at",
	},
	DefaultOrder: "t.created_at DESC",
}

var transportItemListParams = listParams{
	From:          "transport_items ti",
	Joins:         []string{"JOIN transport_requests t ON t.id = ti.transport_request_id"},
	Columns:       transportItemFields,
	CountColumn:   "ti.id",
	SearchColumns: []string{"ti.description"},
	Filters:       map[string]string{"transport_request": "ti.transport_request_id"},
	Sorts:         map[string]string{"id": "ti.id"},
	DefaultOrder:  "ti.id ASC",
}

type TransportRepositoryInterface interface {
	FindByID(ctx context.Context, tx pgx.Tx, id uint64, scope authz.Scope) (*entities.TransportRequest, error)
	GetAll(ctx context.Context, filter types.Filter, scope authz.Scope) ([]*entities.TransportRequest, uint64, error)
	Create(ctx context.Context, tx pgx.Tx, t entities.TransportRequest) (uint64, error)
	Update(ctx context.Context, tx pgx.Tx, t entities.TransportRequest) error
	UpdateStatus(ctx context.Context, tx pgx.Tx, id uint64, status string, updatedBy uint64) error
	Delete(ctx context.Context, tx pgx.Tx, id uint64) error

	FindItemByID(ctx context.Context, tx pgx.Tx, id uint64, scope authz.Scope) (*entities.TransportItem, error)
	GetItems(ctx context.Context, filter types.Filter, scope authz.Scope) ([]*entities.TransportItem, uint64, error)
	CreateItem(ctx context.Context, tx pgx.Tx, item entities.TransportItem) (uint64, error)
	UpdateItem(ctx context.Context, tx pgx.Tx, item entities.TransportItem) error
	DeleteItem(ctx context.Context, tx pgx.Tx, id uint64) error
}

type transportRepository struct {
	storage *pgxpool.Pool
	logger  *zap.Logger
}

func NewTransportRepository(storage *pgxpool.Pool, logger *zap.Logger) TransportRepositoryInterface {
	return &transportRepository{storage: storage, logger: logger}
}

func (r *transportRepository) getQuerier(tx pgx.Tx) Querier {
	return querierFor(r.storage, tx)
}

func (r *transportRepository) scanRow(row pgx.Row) (*entities.TransportRequest, error) {
	var t entities.TransportRequest
	err := row.Scan(&t.ID, &t.Number, &t.PickupProjectID, &t.PickupAddress, &t.PickupDate, &t.DeliveryProjectID,
		&t.DeliveryAddress, &t.DeliveryDate, &t.LoadingMethod, &t.CostProjectID, &t.RequesterPhone, &t.Notes, &t.Status,
		&t.CreatedBy, &t.UpdatedBy, &t.CreatedAt, &t.UpdatedAt, &t.CreatedByName)
	if err != nil {
		return nil, scanErr(err, transportTable)
	}
	t.Items = []entities.TransportItem{}
	return &t, nil
}

func (r *transportRepository) scanItem(row pgx.Row) (*entities.TransportItem, error) {
	var i entities.TransportItem
	err := row.Scan(&i.ID, &i.TransportRequestID, &i.Description, &i.Length, &i.Width, &i.Height, &i.Weight,
		&i.Quantity, &i.Price, &i.CreatedAt, &i.UpdatedAt)
	if err != nil {
		return nil, scanErr(err, transportItems)
	}
	return &i, nil
}

func (r *transportRepository) attachItems(ctx context.Context, q Querier, list ...*entities.TransportRequest) error {
	if len(list) == 0 {
		return nil
	}
	ids := make([]uint64, 0, len(list))
	byID := make(map[uint64]*entities.TransportRequest, len(list))
	for _, t := range list {
		ids = append(ids, t.ID)
		byID[t.ID] = t
	}
	builder := psql.Select(transportItemFields).From("transport_items ti").
		Where(sq.Eq{"ti.transport_request_id": ids}).OrderBy("ti.id")
	items, err := queryMany(ctx, q, builder, r.scanItem)
	if err != nil {
		return err
	}
	for _, i := range items {
		t := byID[i.TransportRequestID]
		t.Items = append(t.Items, *i)
	}
	return nil
}

func (r *transportRepository) FindByID(ctx context.Context, tx pgx.Tx, id uint64, scope authz.Scope) (*entities.TransportRequest, error) {
	q := r.getQuerier(tx)
	builder := psql.Select(transportFields).From("transport_requests t").
		Join("users u ON u.id = t.created_by").
		Where(sq.Eq{"t.id": id})
	if vis := ownedBy(scope, "t.created_by"); vis != nil {
		builder = builder.Where(vis)
	}
	t, err := findOne(ctx, q, builder, r.scanRow)
	if err != nil {
		return nil, err
	}
	return t, r.attachItems(ctx, q, t)
}

func (r *transportRepository) GetAll(ctx context.Context, filter types.Filter, scope authz.Scope) ([]*entities.TransportRequest, uint64, error) {
	list, total, err := fetchList(ctx, r.storage, transportListParams, filter, []sq.Sqlizer{ownedBy(scope, "t.created_by")}, r.scanRow)
	if err != nil {
		return nil, 0, err
	}
	return list, total, r.attachItems(ctx, r.storage, list...)
}

func (r *transportRepository) Create(ctx context.Context, tx pgx.Tx, t entities.TransportRequest) (uint64, error) {
	builder := psql.Insert(transportTable).
		Columns("number", "pickup_project_id", "pickup_address", "pickup_date", "delivery_project_id", "delivery_address",
			"delivery_date", "loading_method", "cost_project_id", "requester_phone", "notes", "status", "created_by").
		Values(t.Number, t.PickupProjectID, t.PickupAddress, t.PickupDate, t.DeliveryProjectID, t.DeliveryAddress,
			t.DeliveryDate, t.LoadingMethod, t.CostProjectID, t.RequesterPhone, t.Notes, t.Status, t.CreatedBy)
	return insertReturningID(ctx, r.getQuerier(tx), builder, transportTable)
}

func (r *transportRepository) Update(ctx context.Context, tx pgx.Tx, t entities.TransportRequest) error {
	builder := psql.Update(transportTable).
		Set("pickup_project_id", t.PickupProjectID).
		Set("pickup_address", t.PickupAddress).
		Set("pickup_date", t.PickupDate).
		Set("delivery_project_id", t.DeliveryProjectID).
		Set("delivery_address", t.DeliveryAddress).
		Set("delivery_date", t.DeliveryDate).
		Set("loading_method", t.LoadingMethod).
		Set("cost_project_id", t.CostProjectID).
		Set("requester_phone", t.RequesterPhone).
		Set("notes", t.Notes).
		Set("status", t.Status).
		Set("updated_by", t.UpdatedBy).
		Set("updated_at", sq.Expr("NOW()")).
		Where(sq.Eq{"id": t.ID})
	return execAffected(ctx, r.getQuerier(tx), builder, "update", transportTable)
}

func (r *transportRepository) UpdateStatus(ctx context.Context, tx pgx.Tx, id uint64, status string, updatedBy uint64) error {
	builder := psql.Update(transportTable).
		Set("status", status).
		Set("updated_by", updatedBy).
		Set("updated_at", sq.Expr("NOW()")).
		Where(sq.Eq{"id": id})
	return execAffected(ctx, r.getQuerier(tx), builder, "update", transportTable)
}

func (r *transportRepository) Delete(ctx context.Context, tx pgx.Tx, id uint64) error {
	return deleteByID(ctx, r.getQuerier(tx), transportTable, id)
}

func (r *transportRepository) FindItemByID(ctx context.Context, tx pgx.Tx, id uint64, scope authz.Scope) (*entities.TransportItem, error) {
	builder := psql.Select(transportItemFields).From("transport_items ti").
		Join("transport_requests t ON t.id = ti.transport_request_id").
		Where(sq.Eq{"ti.id": id})
	if vis := ownedBy(scope, "t.created_by"); vis != nil {
		builder = builder.Where(vis)
	}
	return findOne(ctx, r.getQuerier(tx), builder, r.scanItem)
}

func (r *transportRepository) GetItems(ctx context.Context, filter types.Filter, scope authz.Scope) ([]*entities.TransportItem, uint64, error) {
	return fetchList(ctx, r.storage, transportItemListParams, filter, []sq.Sqlizer{ownedBy(scope, "t.created_by")}, r.scanItem)
}

func (r *transportRepository) CreateItem(ctx context.Context, tx pgx.Tx, item entities.TransportItem) (uint64, error) {
	builder := psql.Insert(transportItems).
		Columns("transport_request_id", "description", "length", "width", "height", "weight", "quantity", "price").
		Values(item.TransportRequestID, item.Description, item.Length, item.Width, item.Height, item.Weight, item.Quantity, item.Price)
	return insertReturningID(ctx, r.getQuerier(tx), builder, transportItems)
}

func (r *transportRepository) UpdateItem(ctx context.Context, tx pgx.Tx, item entities.TransportItem) error {
	builder := psql.Update(transportItems).
		Set("description", item.Description).
		Set("length", item.Length).
		Set("width", item.Width).
		Set("height", item.Height).
		Set("weight", item.Weight).
		Set("quantity", item.Quantity).
		Set("price", item.Price).
		Set("updated_at", sq.Expr("NOW()")).
		Where(sq.Eq{"id": item.ID})
	return execAffected(ctx, r.getQuerier(tx), builder, "update", transportItems)
}

func (r *transportRepository) DeleteItem(ctx context.Context, tx pgx.Tx, id uint64) error {
	return deleteByID(ctx, r.getQuerier(tx), transportItems, id)
}
