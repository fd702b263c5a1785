package services

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"solarforyou/internal/repositories"
	apperrors "solarforyou/pkg/errors"
	"solarforyou/pkg/metrics"
	"solarforyou/pkg/numbering"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type SequenceServiceInterface interface {
	// Next резервирует следующий номер серии в транзакции tx.
	// Строка счётчика остаётся заблокированной до коммита или отката.
	Next(ctx context.Context, tx pgx.Tx, kind numbering.Kind, at time.Time) (string, error)
}

type SequenceService struct {
	repo   repositories.SequenceRepositoryInterface
	logger *zap.Logger
}

func NewSequenceService(repo repositories.SequenceRepositoryInterface, logger *zap.Logger) SequenceServiceInterface {
	return &SequenceService{repo: repo, logger: logger}
}

func (s *SequenceService) Next(ctx context.Context, tx pgx.Tx, kind numbering.Kind, at time.Time) (string, error) {
	scope := kind.Scope(at)
	prefix := kind.Prefix(at)

	value, initialized, err := s.repo.Lock(ctx, tx, scope)
	if err != nil {
		return "", err
	}

	if !initialized {
		// первая выдача в серии: продолжаем с максимума уже существующих номеров
		existing, err := s.repo.ExistingValues(ctx, tx, kind, prefix)
		if err != nil {
			return "", fmt.Errorf("не удалось прочитать номера серии %s: %w", scope, err)
		}
		maxN, anomalies := numbering.MaxSuffix(existing, prefix)
		for _, a := range anomalies {
			s.logger.Warn("Номер серии не удалось разобрать, пропущен", zap.String("scope", scope), zap.String("value", a))
		}
		if len(anomalies) > 0 {
			metrics.ObserveSequenceAnomalies(len(anomalies))
		}
		if maxN > value {
			value = maxN
		}
	}

	value++
	if limit := kind.Max(); limit > 0 && value > limit {
		s.logger.Error("Серия номеров исчерпана", zap.String("scope", scope), zap.Int64("limit", limit))
		return "", apperrors.NewHttpError(http.StatusBadRequest,
			fmt.Sprintf("Wyczerpano pulę numerów (maksymalnie %d)", limit), nil, map[string]string{"scope": scope})
	}
	if err := s.repo.Store(ctx, tx, scope, value); err != nil {
		return "", err
	}

	metrics.ObserveSequenceReservation(kindLabel(kind))
	number := kind.Format(prefix, value)
	s.logger.Debug("Зарезервирован номер", zap.String("scope", scope), zap.String("number", number))
	return number, nil
}

func kindLabel(kind numbering.Kind) string {
	if kind.Code == "" {
		return "ITEM"
	}
	return kind.Code
}
