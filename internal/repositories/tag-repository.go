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
	ProjectTagTable  = "project_tags"
	EmployeeTagTable = "employee_tags"
	tagFields        = "id, name, color, created_at, updated_at"
)

// TagRepositoryInterface обслуживает обе таблицы меток; таблица задаётся в конструкторе.
type TagRepositoryInterface interface {
	FindByID(ctx context.Context, tx pgx.Tx, id uint64) (*entities.Tag, error)
	GetAll(ctx context.Context, filter types.Filter) ([]*entities.Tag, uint64, error)
	Create(ctx context.Context, tx pgx.Tx, t entities.Tag) (uint64, error)
	Update(ctx context.Context, tx pgx.Tx, t entities.Tag) error
	Delete(ctx context.Context, tx pgx.Tx, id uint64) error
}

type tagRepository struct {
	storage *pgxpool.Pool
	table   string
}

func NewTagRepository(storage *pgxpool.Pool, table string) TagRepositoryInterface {
	return &tagRepository{storage: storage, table: table}
}

func (r *tagRepository) getQuerier(tx pgx.Tx) Querier {
	return querierFor(r.storage, tx)
}

func (r *tagRepository) scanRow(row pgx.Row) (*entities.Tag, error) {
	var t entities.Tag
	if err := row.Scan(&t.ID, &t.Name, &t.Color, &t.CreatedAt, &t.UpdatedAt); err != nil {
		return nil, scanErr(err, r.table)
	}
	return &t, nil
}

func (r *tagRepository) FindByID(ctx context.Context, tx pgx.Tx, id uint64) (*entities.Tag, error) {
	return findOne(ctx, r.getQuerier(tx), psql.Select(tagFields).From(r.table).Where(sq.Eq{"id": id}), r.scanRow)
}

func (r *tagRepository) GetAll(ctx context.Context, filter types.Filter) ([]*entities.Tag, uint64, error) {
	params := listParams{
		From:          r.table,
		Columns:       tagFields,
		CountColumn:   "id",
		SearchColumns: []string{"name"},
		Sorts:         map[string]string{"id": "id", "name": "name"},
		DefaultOrder:  "name ASC",
	}
	return fetchList(ctx, r.storage, params, filter, nil, r.scanRow)
}

func (r *tagRepository) Create(ctx context.Context, tx pgx.Tx, t entities.Tag) (uint64, error) {
	return insertReturningID(ctx, r.getQuerier(tx), psql.Insert(r.table).Columns("name", "color").Values(t.Name, t.Color), r.table)
}

func (r *tagRepository) Update(ctx context.Context, tx pgx.Tx, t entities.Tag) error {
	builder := psql.Update(r.table).
		Set("name", t.Name).
		Set("color", t.Color).
		Set("updated_at", sq.Expr("NOW()")).
		Where(sq.Eq{"id": t.ID})
	return execAffected(ctx, r.getQuerier(tx), builder, "update", r.table)
}

func (r *tagRepository) Delete(ctx context.Context, tx pgx.Tx, id uint64) error {
	return deleteByID(ctx, r.getQuerier(tx), r.table, id)
}

// replaceLinks переписывает связи сущности с метками.
func replaceLinks(ctx context.Context, tx pgx.Tx, linkTable, ownerColumn string, ownerID uint64, tagIDs []uint64) error {
	query, args, err := psql.Delete(linkTable).Where(sq.Eq{ownerColumn: ownerID}).ToSql()
	if err != nil {
		return err
	}
	if _, err := tx.Exec(ctx, query, args...); err != nil {
		return writeErr(err, "delete", linkTable)
	}
	if len(tagIDs) == 0 {
		return nil
	}
	insert := psql.Insert(linkTable).Columns(ownerColumn, "tag_id")
	for _, id := range tagIDs {
		insert = insert.Values(ownerID, id)
	}
	query, args, err = insert.Suffix("ON CONFLICT DO NOTHING").ToSql()
	if err != nil {
		return err
	}
	if _, err := tx.Exec(ctx, query, args...); err != nil {
		return writeErr(err, "create", linkTable)
	}
	return nil
}

// loadLinks возвращает ID меток для набора владельцев.
func loadLinks(ctx context.Context, q Querier, linkTable, ownerColumn string, ownerIDs []uint64) (map[uint64][]uint64, error) {
	result := make(map[uint64][]uint64, len(ownerIDs))
	if len(ownerIDs) == 0 {
		return result, nil
	}
	builder := psql.Select(ownerColumn, "tag_id").From(linkTable).Where(sq.Eq{ownerColumn: ownerIDs}).OrderBy("tag_id")
	pairs, err := queryMany(ctx, q, builder, func(row pgx.Row) ([2]uint64, error) {
		var p [2]uint64
		return p, row.Scan(&p[0], &p[1])
	})
	if err != nil {
		return nil, err
	}
	for _, p := range pairs {
		result[p[0]] = append(result[p[0]], p[1])
	}
	return result, nil
}
