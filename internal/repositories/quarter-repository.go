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
	quarterTable      = "quarters"
	quarterImageTable = "quarter_images"
	quarterFields     = `q.id, q.name, q.address, q.city, q.country, q.payment_day, q.max_occupants, q.created_by, q.updated_by,
		q.created_at, q.updated_at, (SELECT COUNT(*) FROM employees e WHERE e.quarter_id = q.id)`
	quarterImageFields = "id, quarter_id, image_path, name, uploaded_by, created_at"
)

var quarterListParams = listParams{
	From:          "quarters q",
	Columns:       quarterFields,
	CountColumn:   "q.id",
	SearchColumns: []string{"q.name", "q.address", "q.city"},
	Filters: map[string]string{
		"city":        "q.city",
		"country":     "q.country",
		"payment_day": "q.payment_day",
	},
	Sorts: map[string]string{
		"id":            "q.id",
		"name":          "q.name",
		"city":          "q.city",
		"payment_day":   "q.payment_day",
		"max_occupants": "q.max_occupants",
	},
	DefaultOrder: "q.name ASC",
}

type QuarterRepositoryInterface interface {
	FindByID(ctx context.Context, tx pgx.Tx, id uint64) (*entities.Quarter, error)
	// LockByID блокирует строку квартиры до конца транзакции.
	LockByID(ctx context.Context, tx pgx.Tx, id uint64) (*entities.Quarter, error)
	GetAll(ctx context.Context, filter types.Filter) ([]*entities.Quarter, uint64, error)
	Create(ctx context.Context, tx pgx.Tx, q entities.Quarter) (uint64, error)
	Update(ctx context.Context, tx pgx.Tx, q entities.Quarter) error
	Delete(ctx context.Context, tx pgx.Tx, id uint64) error

	FindImageByID(ctx context.Context, id uint64) (*entities.QuarterImage, error)
	GetImages(ctx context.Context, filter types.Filter) ([]*entities.QuarterImage, uint64, error)
	CreateImage(ctx context.Context, tx pgx.Tx, img entities.QuarterImage) (uint64, error)
	UpdateImageName(ctx context.Context, id uint64, name string) error
	DeleteImage(ctx context.Context, tx pgx.Tx, id uint64) error
}

type quarterRepository struct {
	storage *pgxpool.Pool
	logger  *zap.Logger
}

func NewQuarterRepository(storage *pgxpool.Pool, logger *zap.Logger) QuarterRepositoryInterface {
	return &quarterRepository{storage: storage, logger: logger}
}

func (r *quarterRepository) getQuerier(tx pgx.Tx) Querier {
	return querierFor(r.storage, tx)
}

func (r *quarterRepository) scanRow(row pgx.Row) (*entities.Quarter, error) {
	var q entities.Quarter
	err := row.Scan(&q.ID, &q.Name, &q.Address, &q.City, &q.Country, &q.PaymentDay, &q.MaxOccupants,
		&q.CreatedBy, &q.UpdatedBy, &q.CreatedAt, &q.UpdatedAt, &q.OccupantsCount)
	if err != nil {
		return nil, scanErr(err, quarterTable)
	}
	return &q, nil
}

func (r *quarterRepository) scanImage(row pgx.Row) (*entities.QuarterImage, error) {
	var i entities.QuarterImage
	if err := row.Scan(&i.ID, &i.QuarterID, &i.ImagePath, &i.Name, &i.UploadedBy, &i.CreatedAt); err != nil {
		return nil, scanErr(err, quarterImageTable)
	}
	return &i, nil
}

func (r *quarterRepository) FindByID(ctx context.Context, tx pgx.Tx, id uint64) (*entities.Quarter, error) {
	return findOne(ctx, r.getQuerier(tx), psql.Select(quarterFields).From("quarters q").Where(sq.Eq{"q.id": id}), r.scanRow)
}

func (r *quarterRepository) LockByID(ctx context.Context, tx pgx.Tx, id uint64) (*entities.Quarter, error) {
	builder := psql.Select(quarterFields).From("quarters q").Where(sq.Eq{"q.id": id}).Suffix("FOR UPDATE OF q")
	return findOne(ctx, tx, builder, r.scanRow)
}

func (r *quarterRepository) GetAll(ctx context.Context, filter types.Filter) ([]*entities.Quarter, uint64, error) {
	return fetchList(ctx, r.storage, quarterListParams, filter, nil, r.scanRow)
}

func (r *quarterRepository) Create(ctx context.Context, tx pgx.Tx, q entities.Quarter) (uint64, error) {
	builder := psql.Insert(quarterTable).
		Columns("name", "address", "city", "country", "payment_day", "max_occupants", "created_by", "updated_by").
		Values(q.Name, q.Address, q.City, q.Country, q.PaymentDay, q.MaxOccupants, q.CreatedBy, q.UpdatedBy)
	return insertReturningID(ctx, r.getQuerier(tx), builder, quarterTable)
}

func (r *quarterRepository) Update(ctx context.Context, tx pgx.Tx, q entities.Quarter) error {
	builder := psql.Update(quarterTable).
		Set("name", q.Name).
		Set("address", q.Address).
		Set("city", q.City).
		Set("country", q.Country).
		Set("payment_day", q.PaymentDay).
		Set("max_occupants", q.MaxOccupants).
		Set("updated_by", q.UpdatedBy).
		Set("updated_at", sq.Expr("NOW()")).
		Where(sq.Eq{"id": q.ID})
	return execAffected(ctx, r.getQuerier(tx), builder, "update", quarterTable)
}

func (r *quarterRepository) Delete(ctx context.Context, tx pgx.Tx, id uint64) error {
	return deleteByID(ctx, r.getQuerier(tx), quarterTable, id)
}

func (r *quarterRepository) FindImageByID(ctx context.Context, id uint64) (*entities.QuarterImage, error) {
	return findOne(ctx, r.storage, psql.Select(quarterImageFields).From(quarterImageTable).Where(sq.Eq{"id": id}), r.scanImage)
}

func (r *quarterRepository) GetImages(ctx context.Context, filter types.Filter) ([]*entities.QuarterImage, uint64, error) {
	params := listParams{
		From:         quarterImageTable,
		Columns:      quarterImageFields,
		CountColumn:  "id",
		Filters:      map[string]string{"quarter_id": "quarter_id", "quarter": "quarter_id"},
		Sorts:        map[string]string{"id": "id", "uploaded_at": "created_at"},
		DefaultOrder: "created_at DESC",
	}
	return fetchList(ctx, r.storage, params, filter, nil, r.scanImage)
}

func (r *quarterRepository) CreateImage(ctx context.Context, tx pgx.Tx, img entities.QuarterImage) (uint64, error) {
	builder := psql.Insert(quarterImageTable).
		Columns("quarter_id", "image_path", "name", "uploaded_by").
		Values(img.QuarterID, img.ImagePath, img.Name, img.UploadedBy)
	return insertReturningID(ctx, r.getQuerier(tx), builder, quarterImageTable)
}

func (r *quarterRepository) UpdateImageName(ctx context.Context, id uint64, name string) error {
	return execAffected(ctx, r.storage, psql.Update(quarterImageTable).Set("name", name).Where(sq.Eq{"id": id}), "update", quarterImageTable)
}

func (r *quarterRepository) DeleteImage(ctx context.Context, tx pgx.Tx, id uint64) error {
	return deleteByID(ctx, r.getQuerier(tx), quarterImageTable, id)
}
