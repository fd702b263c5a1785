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
	hrRequisitionTable  = "hr_requisitions"
	hrPositionTable     = "hr_requisition_positions"
	hrRequisitionFields = `h.id, h.number, h.project_id, h.status, h.deadline, h.special_requirements, h.comment, h.email_sent,
		h.created_by, h.updated_by, h.created_at, h.updated_at, p.name, TRIM(u.first_name || ' ' || u.last_name)`
	hrPositionFields = "hp.id, hp.requisition_id, hp.position, hp.quantity, hp.experience, hp.created_at, hp.updated_at"
)

var hrRequisitionJoins = []string{
	"JOIN projects p ON p.id = h.project_id",
	"JOIN users u ON u.id = h.created_by",
}

var hrRequisitionListParams = listParams{
	From:          "hr_requisitions h",
	Joins:         hrRequisitionJoins,
	Columns:       hrRequisitionFields,
	CountColumn:   "h.id",
	SearchColumns: []string{"h.number", "p.name", "h.special_requirements"},
	Filters: map[string]string{
		"project":    "h.project_id",
		"status":     "h.status",
		"created_by": "h.created_by",
	},
	Sorts: map[string]string{
		"id":         "h.id",
		"number":     "h.number",
		"deadline":   "h.deadline",
		"created_at": "h.created_at",
	},
	DefaultOrder: "h.created_at DESC",
}

var hrPositionListParams = listParams{
	From:        "hr_requisition_positions hp",
	Joins:       []string{"JOIN hr_requisitions h ON h.id = hp.requisition_id"},
	Columns:     hrPositionFields,
	CountColumn: "hp.id",
	Filters: map[string]string{
		"requisition": "hp.requisition_id",
		"position":    "hp.position",
		"experience":  "hp.experience",
	},
	Sorts:        map[string]string{"id": "hp.id", "quantity": "hp.quantity"},
	DefaultOrder: "hp.id ASC",
}

type HRRequisitionRepositoryInterface interface {
	FindByID(ctx context.Context, tx pgx.Tx, id uint64, scope authz.Scope) (*entities.HRRequisition, error)
	GetAll(ctx context.Context, filter types.Filter, scope authz.Scope) ([]*entities.HRRequisition, uint64, error)
	Create(ctx context.Context, tx pgx.Tx, r entities.HRRequisition) (uint64, error)
	Update(ctx context.Context, tx pgx.Tx, r entities.HRRequisition) error
	Delete(ctx context.Context, tx pgx.Tx, id uint64) error
	MarkEmailSent(ctx context.Context, id uint64) error
	PendingNotification(ctx context.Context, since time.Time) ([]*entities.HRRequisition, error)

	FindPositionByID(ctx context.Context, tx pgx.Tx, id uint64, scope authz.Scope) (*entities.HRRequisitionPosition, error)
	GetPositions(ctx context.Context, filter types.Filter, scope authz.Scope) ([]*entities.HRRequisitionPosition, uint64, error)
	CreatePosition(ctx context.Context, tx pgx.Tx, p entities.HRRequisitionPosition) (uint64, error)
	UpdatePosition(ctx context.Context, tx pgx.Tx, p entities.HRRequisitionPosition) error
	DeletePosition(ctx context.Context, tx pgx.Tx, id uint64) error
}

type hrRequisitionRepository struct {
	storage *pgxpool.Pool
	logger  *zap.Logger
}

func NewHRRequisitionRepository(storage *pgxpool.Pool, logger *zap.Logger) HRRequisitionRepositoryInterface {
	return &hrRequisitionRepository{storage: storage, logger: logger}
}

func (r *hrRequisitionRepository) getQuerier(tx pgx.Tx) Querier {
	return querierFor(r.storage, tx)
}

func (r *hrRequisitionRepository) scanRow(row pgx.Row) (*entities.HRRequisition, error) {
	var h entities.HRRequisition
	err := row.Scan(&h.ID, &h.Number, &h.ProjectID, &h.Status, &h.Deadline, &h.SpecialRequirements, &h.Comment, &h.EmailSent,
		&h.CreatedBy, &h.UpdatedBy, &h.CreatedAt, &h.UpdatedAt, &h.ProjectName, &h.CreatedByName)
	if err != nil {
		return nil, scanErr(err, hrRequisitionTable)
	}
	h.Positions = []entities.HRRequisitionPosition{}
	return &h, nil
}

func (r *hrRequisitionRepository) scanPosition(row pgx.Row) (*entities.HRRequisitionPosition, error) {
	var p entities.HRRequisitionPosition
	if err := row.Scan(&p.ID, &p.RequisitionID, &p.Position, &p.Quantity, &p.Experience, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return nil, scanErr(err, hrPositionTable)
	}
	return &p, nil
}

func (r *hrRequisitionRepository) selectBase() sq.SelectBuilder {
	builder := psql.Select(hrRequisitionFields).From("hr_requisitions h")
	for _, j := range hrRequisitionJoins {
		builder = builder.JoinClause(j)
	}
	return builder
}

func (r *hrRequisitionRepository) attachPositions(ctx context.Context, q Querier, list ...*entities.HRRequisition) error {
	if len(list) == 0 {
		return nil
	}
	ids := make([]uint64, 0, len(list))
	byID := make(map[uint64]*entities.HRRequisition, len(list))
	for _, h := range list {
		ids = append(ids, h.ID)
		byID[h.ID] = h
	}
	builder := psql.Select(hrPositionFields).From("hr_requisition_positions hp").
		Where(sq.Eq{"hp.requisition_id": ids}).OrderBy("hp.id")
	positions, err := queryMany(ctx, q, builder, r.scanPosition)
	if err != nil {
		return err
	}
	for _, p := range positions {
		h := byID[p.RequisitionID]
		h.Positions = append(h.Positions, *p)
	}
	return nil
}

func (r *hrRequisitionRepository) FindByID(ctx context.Context, tx pgx.Tx, id uint64, scope authz.Scope) (*entities.HRRequisition, error) {
	q := r.getQuerier(tx)
	builder := r.selectBase().Where(sq.Eq{"h.id": id})
	if vis := ownedBy(scope, "h.created_by"); vis != nil {
		builder = builder.Where(vis)
	}
	h, err := findOne(ctx, q, builder, r.scanRow)
	if err != nil {
		return nil, err
	}
	return h, r.attachPositions(ctx, q, h)
}

func (r *hrRequisitionRepository) GetAll(ctx context.Context, filter types.Filter, scope authz.Scope) ([]*entities.HRRequisition, uint64, error) {
	list, total, err := fetchList(ctx, r.storage, hrRequisitionListParams, filter, []sq.Sqlizer{ownedBy(scope, "h.created_by")}, r.scanRow)
	if err != nil {
		return nil, 0, err
	}
	return list, total, r.attachPositions(ctx, r.storage, list...)
}

func (r *hrRequisitionRepository) Create(ctx context.Context, tx pgx.Tx, h entities.HRRequisition) (uint64, error) {
	builder := psql.Insert(hrRequisitionTable).
		Columns("number", "project_id", "status", "deadline", "special_requirements", "comment", "email_sent", "created_by").
		Values(h.Number, h.ProjectID, h.Status, h.Deadline, h.SpecialRequirements, h.Comment, h.EmailSent, h.CreatedBy)
	return insertReturningID(ctx, r.getQuerier(tx), builder, hrRequisitionTable)
}

func (r *hrRequisitionRepository) Update(ctx context.Context, tx pgx.Tx, h entities.HRRequisition) error {
	builder := psql.Update(hrRequisitionTable).
		Set("project_id", h.ProjectID).
		Set("status", h.Status).
		Set("deadline", h.Deadline).
		Set("special_requirements", h.SpecialRequirements).
		Set("comment", h.Comment).
		Set("updated_by", h.UpdatedBy).
		Set("updated_at", sq.Expr("NOW()")).
		Where(sq.Eq{"id": h.ID})
	return execAffected(ctx, r.getQuerier(tx), builder, "update", hrRequisitionTable)
}

func (r *hrRequisitionRepository) Delete(ctx context.Context, tx pgx.Tx, id uint64) error {
	return deleteByID(ctx, r.getQuerier(tx), hrRequisitionTable, id)
}

func (r *hrRequisitionRepository) MarkEmailSent(ctx context.Context, id uint64) error {
	return execAffected(ctx, r.storage, psql.Update(hrRequisitionTable).Set("email_sent", true).Where(sq.Eq{"id": id}), "update", hrRequisitionTable)
}

func (r *hrRequisitionRepository) PendingNotification(ctx context.Context, since time.Time) ([]*entities.HRRequisition, error) {
	builder := r.selectBase().
		Where(sq.Eq{"h.email_sent": false}).
		Where(sq.GtOrEq{"h.created_at": since}).
		OrderBy("h.created_at ASC")
	list, err := queryMany(ctx, r.storage, builder, r.scanRow)
	if err != nil {
		return nil, err
	}
	return list, r.attachPositions(ctx, r.storage, list...)
}

func (r *hrRequisitionRepository) FindPositionByID(ctx context.Context, tx pgx.Tx, id uint64, scope authz.Scope) (*entities.HRRequisitionPosition, error) {
	builder := psql.Select(hrPositionFields).From("hr_requisition_positions hp").
		Join("hr_requisitions h ON h.id = hp.requisition_id").
		Where(sq.Eq{"hp.id": id})
	if vis := ownedBy(scope, "h.created_by"); vis != nil {
		builder = builder.Where(vis)
	}
	return findOne(ctx, r.getQuerier(tx), builder, r.scanPosition)
}

func (r *hrRequisitionRepository) GetPositions(ctx context.Context, filter types.Filter, scope authz.Scope) ([]*entities.HRRequisitionPosition, uint64, error) {
	return fetchList(ctx, r.storage, hrPositionListParams, filter, []sq.Sqlizer{ownedBy(scope, "h.created_by")}, r.scanPosition)
}

func (r *hrRequisitionRepository) CreatePosition(ctx context.Context, tx pgx.Tx, p entities.HRRequisitionPosition) (uint64, error) {
	builder := psql.Insert(hrPositionTable).
		Columns("requisition_id", "position", "quantity", "experience").
		Values(p.RequisitionID, p.Position, p.Quantity, p.Experience)
	return insertReturningID(ctx, r.getQuerier(tx), builder, hrPositionTable)
}

func (r *hrRequisitionRepository) UpdatePosition(ctx context.Context, tx pgx.Tx, p entities.HRRequisitionPosition) error {
	builder := psql.Update(hrPositionTable).
		Set("position", p.Position).
		Set("quantity", p.Quantity).
		Set("experience", p.Experience).
		Set("updated_at", sq.Expr("NOW()")).
		Where(sq.Eq{"id": p.ID})
	return execAffected(ctx, r.getQuerier(tx), builder, "update", hrPositionTable)
}

func (r *hrRequisitionRepository) DeletePosition(ctx context.Context, tx pgx.Tx, id uint64) error {
	return deleteByID(ctx, r.getQuerier(tx), hrPositionTable, id)
}
