package repositories

import (
	"context"

	"solarforyou/internal/entities"
	"solarforyou/pkg/types"

	sq "github.com/Masterminds/squirrel"
	"github.com/aarondl/null/v8"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

const (
	employeeTable     = "employees"
	employeeTagsTable = "employee_tag_links"
	employeeFields    = `e.id, e.first_name, e.last_name, e.pesel, e.phone, e.current_project_id, e.quarter_id,
		e.created_by, e.created_at, e.updated_at, p.name, q.name`
)

var employeeJoins = []string{
	"LEFT JOIN projects p ON p.id = e.current_project_id",
	"LEFT JOIN quarters q ON q.id = e.quarter_id",
}

var employeeListParams = listParams{
	From:          "employees e",
	Joins:         employeeJoins,
	Columns:       employeeFields,
	CountColumn:   "e.id",
	SearchColumns: []string{"e.first_name", "e.last_name", "e.pesel", "e.phone"},
	Filters: map[string]string{
		"current_project": "e.current_project_id",
		"quarter":         "e.quarter_id",
		"quarter_id":      "e.quarter_id",
	},
	Sorts: map[string]string{
		"id":         "e.id",
		"last_name":  "e.last_name",
		"first_name": "e.first_name",
		"created_at": "e.created_at",
	},
	DefaultOrder: "e.last_name ASC, e.first_name ASC",
}

type EmployeeRepositoryInterface interface {
	FindByID(ctx context.Context, tx pgx.Tx, id uint64) (*entities.Employee, error)
	FindByIDs(ctx context.Context, tx pgx.Tx, ids []uint64) ([]*entities.Employee, error)
	GetAll(ctx context.Context, filter types.Filter) ([]*entities.Employee, uint64, error)
	// GetAvailable - сотрудники, не входящие ни в одну бригаду.
	GetAvailable(ctx context.Context, filter types.Filter) ([]*entities.Employee, uint64, error)
	Create(ctx context.Context, tx pgx.Tx, e entities.Employee) (uint64, error)
	Update(ctx context.Context, tx pgx.Tx, e entities.Employee) error
	Delete(ctx context.Context, tx pgx.Tx, id uint64) error
	SetTags(ctx context.Context, tx pgx.Tx, employeeID uint64, tagIDs []uint64) error
	PeselExists(ctx context.Context, pesel string, excludeID uint64) (bool, error)
	SetProject(ctx context.Context, tx pgx.Tx, employeeIDs []uint64, projectID null.Int64) error
	SetQuarter(ctx context.Context, tx pgx.Tx, employeeID uint64, quarterID null.Int64) error
	CountInQuarter(ctx context.Context, tx pgx.Tx, quarterID uint64) (int, error)
}

type employeeRepository struct {
	storage *pgxpool.Pool
	logger  *zap.Logger
}

func NewEmployeeRepository(storage *pgxpool.Pool, logger *zap.Logger) EmployeeRepositoryInterface {
	return &employeeRepository{storage: storage, logger: logger}
}

func (r *employeeRepository) getQuerier(tx pgx.Tx) Querier {
	return querierFor(r.storage, tx)
}

func (r *employeeRepository) scanRow(row pgx.Row) (*entities.Employee, error) {
	var e entities.Employee
	err := row.Scan(&e.ID, &e.FirstName, &e.LastName, &e.Pesel, &e.Phone, &e.CurrentProjectID, &e.QuarterID,
		&e.CreatedBy, &e.CreatedAt, &e.UpdatedAt, &e.ProjectName, &e.QuarterName)
	if err != nil {
		return nil, scanErr(err, employeeTable)
	}
	e.TagIDs = []uint64{}
	return &e, nil
}

func (r *employeeRepository) selectBase() sq.SelectBuilder {
	builder := psql.Select(employeeFields).From("employees e")
	for _, j := range employeeJoins {
		builder = builder.JoinClause(j)
	}
	return builder
}

func (r *employeeRepository) attachTags(ctx context.Context, q Querier, list ...*entities.Employee) error {
	ids := make([]uint64, 0, len(list))
	for _, e := range list {
		ids = append(ids, e.ID)
	}
	links, err := loadLinks(ctx, q, employeeTagsTable, "employee_id", ids)
	if err != nil {
		return err
	}
	for _, e := range list {
		if tags, ok := links[e.ID]; ok {
			e.TagIDs = tags
		}
	}
	return nil
}

func (r *employeeRepository) FindByID(ctx context.Context, tx pgx.Tx, id uint64) (*entities.Employee, error) {
	q := r.getQuerier(tx)
	e, err := findOne(ctx, q, r.selectBase().Where(sq.Eq{"e.id": id}), r.scanRow)
	if err != nil {
		return nil, err
	}
	return e, r.attachTags(ctx, q, e)
}

func (r *employeeRepository) FindByIDs(ctx context.Context, tx pgx.Tx, ids []uint64) ([]*entities.Employee, error) {
	if len(ids) == 0 {
		return []*entities.Employee{}, nil
	}
	return queryMany(ctx, r.getQuerier(tx), r.selectBase().Where(sq.Eq{"e.id": ids}).OrderBy("e.id"), r.scanRow)
}

func (r *employeeRepository) GetAll(ctx context.Context, filter types.Filter) ([]*entities.Employee, uint64, error) {
	var where []sq.Sqlizer
	if tag, ok := filter.Filter["tag"]; ok {
		where = append(where, sq.Expr("EXISTS (SELECT 1 FROM employee_tag_links l WHERE l.employee_id = e.id AND l.tag_id = ?)", tag))
	}
	list, total, err := fetchList(ctx, r.storage, employeeListParams, filter, where, r.scanRow)
	if err != nil {
		return nil, 0, err
	}
	return list, total, r.attachTags(ctx, r.storage, list...)
}

func (r *employeeRepository) GetAvailable(ctx context.Context, filter types.Filter) ([]*entities.Employee, uint64, error) {
	where := []sq.Sqlizer{sq.Expr("NOT EXISTS (SELECT 1 FROM brigade_members bm WHERE bm.employee_id = e.id)")}
	return fetchList(ctx, r.storage, employeeListParams, filter, where, r.scanRow)
}

func (r *employeeRepository) Create(ctx context.Context, tx pgx.Tx, e entities.Employee) (uint64, error) {
	builder := psql.Insert(employeeTable).
		Columns("first_name", "last_name", "pesel", "phone", "current_project_id", "quarter_id", "created_by").
		Values(e.FirstName, e.LastName, e.Pesel, e.Phone, e.CurrentProjectID, e.QuarterID, e.CreatedBy)
	return insertReturningID(ctx, r.getQuerier(tx), builder, employeeTable)
}

func (r *employeeRepository) Update(ctx context.Context, tx pgx.Tx, e entities.Employee) error {
	builder := psql.Update(employeeTable).
		Set("first_name", e.FirstName).
		Set("last_name", e.LastName).
		Set("pesel", e.Pesel).
		Set("phone", e.Phone).
		Set("current_project_id", e.CurrentProjectID).
		Set("quarter_id", e.QuarterID).
		Set("updated_at", sq.Expr("NOW()")).
		Where(sq.Eq{"id": e.ID})
	return execAffected(ctx, r.getQuerier(tx), builder, "update", employeeTable)
}

func (r *employeeRepository) Delete(ctx context.Context, tx pgx.Tx, id uint64) error {
	return deleteByID(ctx, r.getQuerier(tx), employeeTable, id)
}

func (r *employeeRepository) SetTags(ctx context.Context, tx pgx.Tx, employeeID uint64, tagIDs []uint64) error {
	return replaceLinks(ctx, tx, employeeTagsTable, "employee_id", employeeID, tagIDs)
}

func (r *employeeRepository) PeselExists(ctx context.Context, pesel string, excludeID uint64) (bool, error) {
	builder := psql.Select("1").From(employeeTable).Where(sq.Eq{"pesel": pesel})
	if excludeID > 0 {
		builder = builder.Where(sq.NotEq{"id": excludeID})
	}
	return exists(ctx, r.storage, builder)
}

func (r *employeeRepository) SetProject(ctx context.Context, tx pgx.Tx, employeeIDs []uint64, projectID null.Int64) error {
	if len(employeeIDs) == 0 {
		return nil
	}
	query, args, err := psql.Update(employeeTable).
		Set("current_project_id", projectID).
		Set("updated_at", sq.Expr("NOW()")).
		Where(sq.Eq{"id": employeeIDs}).
		ToSql()
	if err != nil {
		return err
	}
	if _, err := r.getQuerier(tx).Exec(ctx, query, args...); err != nil {
		return writeErr(err, "update", employeeTable)
	}
	return nil
}

func (r *employeeRepository) SetQuarter(ctx context.Context, tx pgx.Tx, employeeID uint64, quarterID null.Int64) error {
	builder := psql.Update(employeeTable).
		Set("quarter_id", quarterID).
		Set("updated_at", sq.Expr("NOW()")).
		Where(sq.Eq{"id": employeeID})
	return execAffected(ctx, r.getQuerier(tx), builder, "update", employeeTable)
}

func (r *employeeRepository) CountInQuarter(ctx context.Context, tx pgx.Tx, quarterID uint64) (int, error) {
	query, args, err := psql.Select("COUNT(*)").From(employeeTable).Where(sq.Eq{"quarter_id": quarterID}).ToSql()
	if err != nil {
		return 0, err
	}
	var n int
	err = r.getQuerier(tx).QueryRow(ctx, query, args...).Scan(&n)
	return n, err
}
