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
	brigadeTable  = "brigade_members"
	brigadeFields = `bm.id, bm.leader_id, bm.employee_id, bm.created_at,
		e.id, e.first_name, e.last_name, e.pesel, e.phone, e.current_project_id, e.quarter_id, e.created_by, e.created_at, e.updated_at`
)

type BrigadeRepositoryInterface interface {
	FindByID(ctx context.Context, tx pgx.Tx, id uint64, leaderID uint64) (*entities.BrigadeMember, error)
	GetByLeader(ctx context.Context, filter types.Filter, leaderID uint64) ([]*entities.BrigadeMember, uint64, error)
	EmployeeIDsByLeader(ctx context.Context, tx pgx.Tx, leaderID uint64) ([]uint64, error)
	Create(ctx context.Context, tx pgx.Tx, m entities.BrigadeMember) (uint64, error)
	Delete(ctx context.Context, tx pgx.Tx, id uint64) error
}

type brigadeRepository struct {
	storage *pgxpool.Pool
}

func NewBrigadeRepository(storage *pgxpool.Pool) BrigadeRepositoryInterface {
	return &brigadeRepository{storage: storage}
}

func (r *brigadeRepository) getQuerier(tx pgx.Tx) Querier {
	return querierFor(r.storage, tx)
}

func (r *brigadeRepository) scanRow(row pgx.Row) (*entities.BrigadeMember, error) {
	var (
		m entities.BrigadeMember
		e entities.Employee
	)
	err := row.Scan(&m.ID, &m.LeaderID, &m.EmployeeID, &m.CreatedAt,
		&e.ID, &e.FirstName, &e.LastName, &e.Pesel, &e.Phone, &e.CurrentProjectID, &e.QuarterID, &e.CreatedBy, &e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		return nil, scanErr(err, brigadeTable)
	}
	e.TagIDs = []uint64{}
	m.Employee = &e
	return &m, nil
}

func (r *brigadeRepository) FindByID(ctx context.Context, tx pgx.Tx, id uint64, leaderID uint64) (*entities.BrigadeMember, error) {
	builder := psql.Select(brigadeFields).From("brigade_members bm").
		Join("employees e ON e.id = bm.employee_id").
		Where(sq.Eq{"bm.id": id, "bm.leader_id": leaderID})
	return findOne(ctx, r.getQuerier(tx), builder, r.scanRow)
}

func (r *brigadeRepository) GetByLeader(ctx context.Context, filter types.Filter, leaderID uint64) ([]*entities.BrigadeMember, uint64, error) {
	params := listParams{
		From:          "brigade_members bm",
		Joins:         []string{"JOIN employees e ON e.id = bm.employee_id"},
		Columns:       brigadeFields,
		CountColumn:   "bm.id",
		SearchColumns: []string{"e.first_name", "e.last_name"},
		Sorts:         map[string]string{"id": "bm.id", "last_name": "e.last_name"},
		DefaultOrder:  "e.last_name ASC",
	}
	return fetchList(ctx, r.storage, params, filter, []sq.Sqlizer{sq.Eq{"bm.leader_id": leaderID}}, r.scanRow)
}

func (r *brigadeRepository) EmployeeIDsByLeader(ctx context.Context, tx pgx.Tx, leaderID uint64) ([]uint64, error) {
	builder := psql.Select("employee_id").From(brigadeTable).Where(sq.Eq{"leader_id": leaderID})
	return queryMany(ctx, r.getQuerier(tx), builder, func(row pgx.Row) (uint64, error) {
		var id uint64
		return id, row.Scan(&id)
	})
}

func (r *brigadeRepository) Create(ctx context.Context, tx pgx.Tx, m entities.BrigadeMember) (uint64, error) {
	builder := psql.Insert(brigadeTable).Columns("leader_id", "employee_id").Values(m.LeaderID, m.EmployeeID)
	return insertReturningID(ctx, r.getQuerier(tx), builder, brigadeTable)
}

func (r *brigadeRepository) Delete(ctx context.Context, tx pgx.Tx, id uint64) error {
	return deleteByID(ctx, r.getQuerier(tx), brigadeTable, id)
}
