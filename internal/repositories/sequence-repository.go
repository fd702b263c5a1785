package repositories

import (
	"context"
	"fmt"

	"solarforyou/pkg/numbering"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const sequenceTable = "sequence_counters"

// sequenceSources - где лежат уже выданные номера каждой серии.
var sequenceSources = map[string]struct{ table, column string }{
	numbering.Requisition.Code:      {"requisitions", "number"},
	numbering.HRRequisition.Code:    {"hr_requisitions", "number"},
	numbering.TransportRequest.Code: {"transport_requests", "number"},
	numbering.ItemIndex.Code:        {"items", `"index"`},
}

type SequenceRepositoryInterface interface {
	// Lock создаёт строку счётчика при необходимости и блокирует её до конца транзакции.
	Lock(ctx context.Context, tx pgx.Tx, scope string) (value int64, initialized bool, err error)
	Store(ctx context.Context, tx pgx.Tx, scope string, value int64) error
	ExistingValues(ctx context.Context, tx pgx.Tx, kind numbering.Kind, prefix string) ([]string, error)
}

type sequenceRepository struct {
	storage *pgxpool.Pool
}

func NewSequenceRepository(storage *pgxpool.Pool) SequenceRepositoryInterface {
	return &sequenceRepository{storage: storage}
}

func (r *sequenceRepository) Lock(ctx context.Context, tx pgx.Tx, scope string) (int64, bool, error) {
	insert, args, err := psql.Insert(sequenceTable).
		Columns("scope").Values(scope).
		Suffix("ON CONFLICT (scope) DO NOTHING").
		ToSql()
	if err != nil {
		return 0, false, err
	}
	if _, err := tx.Exec(ctx, insert, args...); err != nil {
		return 0, false, fmt.Errorf("не удалось создать счётчик %s: %w", scope, err)
	}

	query, args, err := psql.Select("value", "initialized").
		From(sequenceTable).
		Where(sq.Eq{"scope": scope}).
		Suffix("FOR UPDATE").
		ToSql()
	if err != nil {
		return 0, false, err
	}

	var (
		value       int64
		initialized bool
	)
	if err := tx.QueryRow(ctx, query, args...).Scan(&value, &initialized); err != nil {
		return 0, false, fmt.Errorf("не удалось заблокировать счётчик %s: %w", scope, err)
	}
	return value, initialized, nil
}

func (r *sequenceRepository) Store(ctx context.Context, tx pgx.Tx, scope string, value int64) error {
	builder := psql.Update(sequenceTable).
		Set("value", value).
		Set("initialized", true).
		Set("updated_at", sq.Expr("NOW()")).
		Where(sq.Eq{"scope": scope})
	return execAffected(ctx, tx, builder, "update", sequenceTable)
}

func (r *sequenceRepository) ExistingValues(ctx context.Context, tx pgx.Tx, kind numbering.Kind, prefix string) ([]string, error) {
	src, ok := sequenceSources[kind.Code]
	if !ok {
		return nil, fmt.Errorf("неизвестная серия номеров %q", kind.Code)
	}
	builder := psql.Select(src.column).From(src.table)
	if prefix != "" {
		builder = builder.Where(sq.Like{src.column: prefix + "%"})
	}
	return queryMany(ctx, tx, builder, func(row pgx.Row) (string, error) {
		var v string
		return v, row.Scan(&v)
	})
}
