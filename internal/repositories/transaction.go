package repositories

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// TxManagerInterface открывает транзакцию на одну операцию сервиса:
// создание заявки, резерв номера и строки позиций коммитятся вместе.
type TxManagerInterface interface {
	RunInTransaction(ctx context.Context, fn func(tx pgx.Tx) error) error
}

type TxManager struct {
	pool *pgxpool.Pool
}

func NewTxManager(pool *pgxpool.Pool) TxManagerInterface {
	return &TxManager{pool: pool}
}

// RunInTransaction возвращает ошибку fn без обёртки, чтобы сервис мог сравнить её с apperrors.
// Откат при ошибке или панике делает pgx.BeginFunc; блокировки счётчиков номеров снимаются вместе с ним.
func (m *TxManager) RunInTransaction(ctx context.Context, fn func(tx pgx.Tx) error) error {
	var fnErr error
	err := pgx.BeginFunc(ctx, m.pool, func(tx pgx.Tx) error {
		fnErr = fn(tx)
		return fnErr
	})
	if err != nil && fnErr == nil {
		return fmt.Errorf("ошибка транзакции: %w", err)
	}
	return err
}
