package services

import (
	"context"

	"solarforyou/internal/authz"
	"solarforyou/internal/dto"
	"solarforyou/internal/entities"
	"solarforyou/internal/repositories"
	apperrors "solarforyou/pkg/errors"
	"solarforyou/pkg/types"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type UserSettingsServiceInterface interface {
	GetSettings(ctx context.Context, filter types.Filter) ([]*entities.UserSettings, uint64, error)
	FindSettings(ctx context.Context, id uint64) (*entities.UserSettings, error)
	MySettings(ctx context.Context) (*entities.UserSettings, error)
	UpdateMySettings(ctx context.Context, payload dto.UpdateUserSettingsDTO, rawBody []byte) (*entities.UserSettings, error)
	UpdateSettings(ctx context.Context, id uint64, payload dto.UpdateUserSettingsDTO, rawBody []byte) (*entities.UserSettings, error)
	DeleteSettings(ctx context.Context, id uint64) error
}

type UserSettingsService struct {
	txManager repositories.TxManagerInterface
	repo      repositories.UserSettingsRepositoryInterface
	logger    *zap.Logger
}

func NewUserSettingsService(
	txManager repositories.TxManagerInterface,
	repo repositories.UserSettingsRepositoryInterface,
	logger *zap.Logger,
) UserSettingsServiceInterface {
	return &UserSettingsService{txManager: txManager, repo: repo, logger: logger}
}

// Staff видит все настройки, остальные только свои.
func ownerFilter(actor *authz.Actor) uint64 {
	if actor.IsStaff {
		return 0
	}
	return actor.UserID
}

func (s *UserSettingsService) GetSettings(ctx context.Context, filter types.Filter) ([]*entities.UserSettings, uint64, error) {
	actor, err := authz.ActorFromContext(ctx)
	if err != nil {
		return nil, 0, err
	}
	return s.repo.GetAll(ctx, filter, ownerFilter(actor))
}

func (s *UserSettingsService) FindSettings(ctx context.Context, id uint64) (*entities.UserSettings, error) {
	actor, err := authz.ActorFromContext(ctx)
	if err != nil {
		return nil, err
	}
	settings, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !actor.IsStaff && settings.UserID != actor.UserID {
		return nil, apperrors.ErrNotFound
	}
	return settings, nil
}

func (s *UserSettingsService) MySettings(ctx context.Context) (*entities.UserSettings, error) {
	actor, err := authz.ActorFromContext(ctx)
	if err != nil {
		return nil, err
	}
	return s.repo.GetOrCreate(ctx, nil, actor.UserID)
}

func (s *UserSettingsService) UpdateMySettings(ctx context.Context, payload dto.UpdateUserSettingsDTO, rawBody []byte) (*entities.UserSettings, error) {
	actor, err := authz.ActorFromContext(ctx)
	if err != nil {
		return nil, err
	}
	var updated *entities.UserSettings
	err = s.txManager.RunInTransaction(ctx, func(tx pgx.Tx) error {
		current, err := s.repo.GetOrCreate(ctx, tx, actor.UserID)
		if err != nil {
			return err
		}
		updated, err = s.applySettings(ctx, tx, current, payload, rawBody)
		return err
	})
	if err != nil {
		return nil, wrapInternal(s.logger, "не удалось обновить настройки пользователя", err)
	}
	return updated, nil
}

func (s *UserSettingsService) UpdateSettings(ctx context.Context, id uint64, payload dto.UpdateUserSettingsDTO, rawBody []byte) (*entities.UserSettings, error) {
	current, err := s.FindSettings(ctx, id)
	if err != nil {
		return nil, err
	}
	var updated *entities.UserSettings
	err = s.txManager.RunInTransaction(ctx, func(tx pgx.Tx) error {
		updated, err = s.applySettings(ctx, tx, current, payload, rawBody)
		return err
	})
	if err != nil {
		return nil, wrapInternal(s.logger, "не удалось обновить настройки пользователя", err)
	}
	return updated, nil
}

func (s *UserSettingsService) applySettings(ctx context.Context, tx pgx.Tx, current *entities.UserSettings, payload dto.UpdateUserSettingsDTO, rawBody []byte) (*entities.UserSettings, error) {
	if err := patchEntity(current, payload, rawBody); err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, tx, *current); err != nil {
		return nil, err
	}
	return s.repo.FindByUserID(ctx, tx, current.UserID)
}

func (s *UserSettingsService) DeleteSettings(ctx context.Context, id uint64) error {
	if _, err := s.FindSettings(ctx, id); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}
