package repositories

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"solarforyou/internal/authz"
	apperrors "solarforyou/pkg/errors"
	"solarforyou/pkg/types"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

// listParams описывает выборку для fetchList: источник, колонки и белые списки.
type listParams struct {
	From          string
	Joins         []string
	Columns       string
	CountColumn   string
	SearchColumns []string
	// ключ запроса -> колонка БД
	Filters      map[string]string
	Sorts        map[string]string
	DefaultOrder string
}

func applyListConditions(builder sq.SelectBuilder, params listParams, filter types.Filter, where []sq.Sqlizer) sq.SelectBuilder {
	for _, join := range params.Joins {
		builder = builder.JoinClause(join)
	}
	for _, w := range where {
		if w != nil {
			builder = builder.Where(w)
		}
	}

	if filter.Search != "" && len(params.SearchColumns) > 0 {
		pattern := "%" + filter.Search + "%"
		or := sq.Or{}
		for _, col := range params.SearchColumns {
			or = append(or, sq.ILike{col: pattern})
		}
		builder = builder.Where(or)
	}

	for key, value := range filter.Filter {
		column, ok := params.Filters[key]
		if !ok {
			continue
		}
		if items, ok := value.(string); ok && strings.Contains(items, ",") {
			builder = builder.Where(sq.Eq{column: strings.Split(items, ",")})
		} else {
			builder = builder.Where(sq.Eq{column: value})
		}
	}
	return builder
}

// fetchList выполняет COUNT и SELECT с одинаковыми условиями, затем сортировку и пагинацию.
func fetchList[T any](ctx context.Context, q Querier, params listParams, filter types.Filter, where []sq.Sqlizer, scan func(pgx.Row) (T, error)) ([]T, uint64, error) {
	countColumn := params.CountColumn
	if countColumn == "" {
		countColumn = "*"
	}
	countBuilder := applyListConditions(psql.Select("COUNT("+countColumn+")").From(params.From), params, filter, where)
	countQuery, countArgs, err := countBuilder.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("ошибка сборки SQL count: %w", err)
	}

	var total uint64
	if err := q.QueryRow(ctx, countQuery, countArgs...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("ошибка выполнения count: %w", err)
	}
	if total == 0 {
		return []T{}, 0, nil
	}

	selectBuilder := applyListConditions(psql.Select(params.Columns).From(params.From), params, filter, where)

	ordered := false
	for field, direction := range filter.Sort {
		column, ok := params.Sorts[field]
		if !ok {
			continue
		}
		safeDirection := "ASC"
		if strings.EqualFold(direction, "desc") {
			safeDirection = "DESC"
		}
		selectBuilder = selectBuilder.OrderBy(column + " " + safeDirection)
		ordered = true
	}
	if !ordered && params.DefaultOrder != "" {
		selectBuilder = selectBuilder.OrderBy(params.DefaultOrder)
	}

	if filter.WithPagination {
		if filter.Limit > 0 {
			selectBuilder = selectBuilder.Limit(uint64(filter.Limit))
		}
		if filter.Offset > 0 {
			selectBuilder = selectBuilder.Offset(uint64(filter.Offset))
		}
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("ошибка сборки SQL select: %w", err)
	}

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("ошибка выполнения select: %w", err)
	}
	defer rows.Close()

	list := make([]T, 0)
	for rows.Next() {
		item, err := scan(rows)
		if err != nil {
			return nil, 0, err
		}
		list = append(list, item)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return list, total, nil
}

// ownedBy ограничивает выборку записями автора, если область видимости не "все".
func ownedBy(scope authz.Scope, column string) sq.Sqlizer {
	if scope.All {
		return nil
	}
	return sq.Eq{column: scope.UserID}
}

func scanErr(err error, table string) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return apperrors.ErrNotFound
	}
	return fmt.Errorf("ошибка сканирования %s: %w", table, err)
}

// writeErr переводит ошибки ограничений PostgreSQL в ошибки приложения.
func writeErr(err error, action, table string) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23505":
			return fmt.Errorf("%s: %w", pgErr.ConstraintName, apperrors.ErrConflict)
		case "23503":
			if action == "delete" {
				return apperrors.NewHttpError(http.StatusBadRequest, "Rekord jest używany i nie może zostać usunięty", err, nil)
			}
			return apperrors.NewHttpError(http.StatusBadRequest, "Powiązany rekord nie istnieje", err, map[string]string{"constraint": pgErr.ConstraintName})
		case "23514":
			return apperrors.NewHttpError(http.StatusBadRequest, "Wartość narusza ograniczenie "+pgErr.ConstraintName, err, nil)
		}
	}
	return fmt.Errorf("ошибка %s %s: %w", action, table, err)
}

func execAffected(ctx context.Context, q Querier, builder sq.Sqlizer, action, table string) error {
	query, args, err := builder.ToSql()
	if err != nil {
		return fmt.Errorf("ошибка сборки запроса %s %s: %w", action, table, err)
	}
	result, err := q.Exec(ctx, query, args...)
	if err != nil {
		return writeErr(err, action, table)
	}
	if result.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func insertReturningID(ctx context.Context, q Querier, builder sq.InsertBuilder, table string) (uint64, error) {
	query, args, err := builder.Suffix("RETURNING id").ToSql()
	if err != nil {
		return 0, fmt.Errorf("ошибка сборки запроса create %s: %w", table, err)
	}
	var id uint64
	if err := q.QueryRow(ctx, query, args...).Scan(&id); err != nil {
		return 0, writeErr(err, "create", table)
	}
	return id, nil
}

func deleteByID(ctx context.Context, q Querier, table string, id uint64) error {
	return execAffected(ctx, q, psql.Delete(table).Where(sq.Eq{"id": id}), "delete", table)
}

func findOne[T any](ctx context.Context, q Querier, builder sq.SelectBuilder, scan func(pgx.Row) (T, error)) (T, error) {
	query, args, err := builder.ToSql()
	if err != nil {
		var zero T
		return zero, fmt.Errorf("ошибка сборки SQL: %w", err)
	}
	return scan(q.QueryRow(ctx, query, args...))
}

func queryMany[T any](ctx context.Context, q Querier, builder sq.SelectBuilder, scan func(pgx.Row) (T, error)) ([]T, error) {
	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("ошибка сборки SQL: %w", err)
	}
	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	list := make([]T, 0)
	for rows.Next() {
		item, err := scan(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, item)
	}
	return list, rows.Err()
}

func exists(ctx context.Context, q Querier, builder sq.SelectBuilder) (bool, error) {
	inner, args, err := builder.ToSql()
	if err != nil {
		return false, err
	}
	var found bool
	err = q.QueryRow(ctx, "SELECT EXISTS ("+inner+")", args...).Scan(&found)
	return found, err
}
