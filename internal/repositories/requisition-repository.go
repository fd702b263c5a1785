package repositories

import (
	"context"
	"time"

	"solarforyou/internal/authz"
	"solarforyou/internal/entities"
	"solarforyou/pkg/types"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

const (
	requisitionTable  = "requisitions"
	requisitionFields = `r.id, r.number, r.project_id, r.requisition_type, r.status, r.deadline, r.comment, r.email_sent,
		r.created_by, r.updated_by, r.created_at, r.updated_at, p.name, TRIM(u.first_name || ' ' || u.last_name)`
)

var requisitionJoins = []string{
	"JOIN projects p ON p.id = r.project_id",
	"JOIN users u ON u.id = r.created_by",
}

var requisitionListParams = listParams{
	From:          "requisitions r",
	Joins:         requisitionJoins,
	Columns:       requisitionFields,
	CountColumn:   "r.id",
	SearchColumns: []string{"r.number", "p.name", "r.comment"},
	Filters: map[string]string{
		"project":          "r.project_id",
		"status":           "r.status",
		"requisition_type": "r.requisition_type",
		"created_by":       "r.created_by",
		"email_sent":       "r.email_sent",
	},
	Sorts: map[string]string{
		"id":         "r.id",
		"number":     "r.number",
		"deadline":   "r.deadline",
		"status":     "r.status",
		"created_at": "r.created_at",
	},
	DefaultOrder: "r.created_at DESC",
}

type RequisitionRepositoryInterface interface {
	FindByID(ctx context.Context, tx pgx.Tx, id uint64, scope authz.Scope) (*entities.Requisition, error)
	GetAll(ctx context.Context, filter types.Filter, scope authz.Scope) ([]*entities.Requisition, uint64, error)
	Create(ctx context.Context, tx pgx.Tx, r entities.Requisition) (uint64, error)
	Update(ctx context.Context, tx pgx.Tx, r entities.Requisition) error
	Delete(ctx context.Context, tx pgx.Tx, id uint64) error
	MarkEmailSent(ctx context.Context, id uint64) error
	// PendingNotification - заявки после since, письмо по которым не ушло.
	PendingNotification(ctx context.Context, since time.Time) ([]*entities.Requisition, error)
}

type requisitionRepository struct {
	storage *pgxpool.Pool
	items   RequisitionItemRepositoryInterface
	logger  *zap.Logger
}

func NewRequisitionRepository(storage *pgxpool.Pool, items RequisitionItemRepositoryInterface, logger *zap.Logger) RequisitionRepositoryInterface {
	return &requisitionRepository{storage: storage, items: items, logger: logger}
}

func (r *requisitionRepository) getQuerier(tx pgx.Tx) Querier {
	return querierFor(r.storage, tx)
}

func (r *requisitionRepository) scanRow(row pgx.Row) (*entities.Requisition, error) {
	var q entities.Requisition
	err := row.Scan(&q.ID, &q.Number, &q.ProjectID, &q.RequisitionType, &q.Status, &q.Deadline, &q.Comment, &q.EmailSent,
		&q.CreatedBy, &q.UpdatedBy, &q.CreatedAt, &q.UpdatedAt, &q.ProjectName, &q.CreatedByName)
	if err != nil {
		return nil, scanErr(err, requisitionTable)
	}
	q.Items = []entities.RequisitionItem{}
	return &q, nil
}

func (r *requisitionRepository) selectBase() sq.SelectBuilder {
	builder := psql.Select(requisitionFields).From("requisitions r")
	for _, j := range requisitionJoins {
		builder = builder.JoinClause(j)
	}
	return builder
}

func (r *requisitionRepository) attachItems(ctx context.Context, tx pgx.Tx, list ...*entities.Requisition) error {
	if len(list) == 0 {
		return nil
	}
	ids := make([]uint64, 0, len(list))
	for _, q := range list {
		ids = append(ids, q.ID)
	}
	grouped, err := r.items.FindByRequisitionIDs(ctx, tx, ids)
	if err != nil {
		return err
	}
	for _, q := range list {
		if items, ok := grouped[q.ID]; ok {
			q.Items = items
		}
	}
	return nil
}

func (r *requisitionRepository) FindByID(ctx context.Context, tx pgx.Tx, id uint64, scope authz.Scope) (*entities.Requisition, error) {
	builder := r.selectBase().Where(sq.Eq{"r.id": id})
	if vis := ownedBy(scope, "r.created_by"); vis != nil {
		builder = builder.Where(vis)
	}
	q, err := findOne(ctx, r.getQuerier(tx), builder, r.scanRow)
	if err != nil {
		return nil, err
	}
	return q, r.attachItems(ctx, tx, q)
}

func (r *requisitionRepository) GetAll(ctx context.Context, filter types.Filter, scope authz.Scope) ([]*entities.Requisition, uint64, error) {
	list, total, err := fetchList(ctx, r.storage, requisitionListParams, filter, []sq.Sqlizer{ownedBy(scope, "r.created_by")}, r.scanRow)
	if err != nil {
		return nil, 0, err
	}
	return list, total, r.attachItems(ctx, nil, list...)
}

func (r *requisitionRepository) Create(ctx context.Context, tx pgx.Tx, q entities.Requisition) (uint64, error) {
	builder := psql.Insert(requisitionTable).
		Columns("number", "project_id", "requisition_type", "status", "deadline", "comment", "email_sent", "created_by").
		Values(q.Number, q.ProjectID, q.RequisitionType, q.Status, q.Deadline, q.Comment, q.EmailSent, q.CreatedBy)
	return insertReturningID(ctx, r.getQuerier(tx), builder, requisitionTable)
}

// Update не меняет номер и автора.
func (r *requisitionRepository) Update(ctx context.Context, tx pgx.Tx, q entities.Requisition) error {
	builder := psql.Update(requisitionTable).
		Set("project_id", q.ProjectID).
		Set("requisition_type", q.RequisitionType).
		Set("status", q.Status).
		Set("deadline", q.Deadline).
		Set("comment", q.Comment).
		Set("updated_by", q.UpdatedBy).
		Set("updated_at", sq.Expr("NOW()")).
		Where(sq.Eq{"id": q.ID})
	return execAffected(ctx, r.getQuerier(tx), builder, "update", requisitionTable)
}

func (r *requisitionRepository) Delete(ctx context.Context, tx pgx.Tx, id uint64) error {
	return deleteByID(ctx, r.getQuerier(tx), requisitionTable, id)
}

func (r *requisitionRepository) MarkEmailSent(ctx context.Context, id uint64) error {
	return execAffected(ctx, r.storage, psql.Update(requisitionTable).Set("email_sent", true).Where(sq.Eq{"id": id}), "update", requisitionTable)
}

func (r *requisitionRepository) PendingNotification(ctx context.Context, since time.Time) ([]*entities.Requisition, error) {
	builder := r.selectBase().
		Where(sq.Eq{"r.email_sent": false}).
		Where(sq.GtOrEq{"r.created_at": since}).
		OrderBy("r.created_at ASC")
	list, err := queryMany(ctx, r.storage, builder, r.scanRow)
	if err != nil {
		return nil, err
	}
	return list, r.attachItems(ctx, nil, list...)
}
