package services

import (
	"context"

	"solarforyou/internal/authz"
	"solarforyou/internal/dto"
	"solarforyou/internal/entities"
	"solarforyou/internal/repositories"
	"solarforyou/pkg/types"

	"github.com/aarondl/null/v8"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

// Бригада - сотрудники, у которых лидером записан текущий пользователь.
// Участники работают на проекте, выбранном в настройках лидера.
type BrigadeServiceInterface interface {
	GetMembers(ctx context.Context, filter types.Filter) ([]*entities.BrigadeMember, uint64, error)
	FindMember(ctx context.Context, id uint64) (*entities.BrigadeMember, error)
	AddMember(ctx context.Context, payload dto.AddBrigadeMemberDTO) (*entities.BrigadeMember, error)
	RemoveMember(ctx context.Context, id uint64) error
	// SyncProject переназначает всех участников на текущий проект лидера.
	SyncProject(ctx context.Context) (int, error)
}

type BrigadeService struct {
	txManager    repositories.TxManagerInterface
	repo         repositories.BrigadeRepositoryInterface
	employeeRepo repositories.EmployeeRepositoryInterface
	settingsRepo repositories.UserSettingsRepositoryInterface
	logger       *zap.Logger
}

func NewBrigadeService(
	txManager repositories.TxManagerInterface,
	repo repositories.BrigadeRepositoryInterface,
	employeeRepo repositories.EmployeeRepositoryInterface,
	settingsRepo repositories.UserSettingsRepositoryInterface,
	logger *zap.Logger,
) BrigadeServiceInterface {
	return &BrigadeService{
		txManager:    txManager,
		repo:         repo,
		employeeRepo: employeeRepo,
		settingsRepo: settingsRepo,
		logger:       logger,
	}
}

func (s *BrigadeService) GetMembers(ctx context.Context, filter types.Filter) ([]*entities.BrigadeMember, uint64, error) {
	actor, err := authz.ActorFromContext(ctx)
	if err != nil {
		return nil, 0, err
	}
	return s.repo.GetByLeader(ctx, filter, actor.UserID)
}

func (s *BrigadeService) FindMember(ctx context.Context, id uint64) (*entities.BrigadeMember, error) {
	actor, err := authz.ActorFromContext(ctx)
	if err != nil {
		return nil, err
	}
	return s.repo.FindByID(ctx, nil, id, actor.UserID)
}

func (s *BrigadeService) AddMember(ctx context.Context, payload dto.AddBrigadeMemberDTO) (*entities.BrigadeMember, error) {
	actor, err := authz.ActorFromContext(ctx)
	if err != nil {
		return nil, err
	}
	var member *entities.BrigadeMember
	err = s.txManager.RunInTransaction(ctx, func(tx pgx.Tx) error {
		if _, err := s.employeeRepo.FindByID(ctx, tx, payload.EmployeeID); err != nil {
			return err
		}
		id, err := s.repo.Create(ctx, tx, entities.BrigadeMember{LeaderID: actor.UserID, EmployeeID: payload.EmployeeID})
		if err != nil {
			return err
		}
		settings, err := s.settingsRepo.GetOrCreate(ctx, tx, actor.UserID)
		if err != nil {
			return err
		}
		if settings.ProjectID.Valid {
			if err := s.employeeRepo.SetProject(ctx, tx, []uint64{payload.EmployeeID}, settings.ProjectID); err != nil {
				return err
			}
		}
		member, err = s.repo.FindByID(ctx, tx, id, actor.UserID)
		return err
	})
	if err != nil {
		return nil, wrapInternal(s.logger, "не удалось добавить сотрудника в бригаду", err)
	}
	s.logger.Info("Сотрудник добавлен в бригаду",
		zap.Uint64("leaderID", actor.UserID),
		zap.Uint64("employeeID", payload.EmployeeID),
	)
	return member, nil
}

func (s *BrigadeService) RemoveMember(ctx context.Context, id uint64) error {
	actor, err := authz.ActorFromContext(ctx)
	if err != nil {
		return err
	}
	err = s.txManager.RunInTransaction(ctx, func(tx pgx.Tx) error {
		member, err := s.repo.FindByID(ctx, tx, id, actor.UserID)
		if err != nil {
			return err
		}
		if err := s.repo.Delete(ctx, tx, id); err != nil {
			return err
		}
		return s.employeeRepo.SetProject(ctx, tx, []uint64{member.EmployeeID}, null.Int64{})
	})
	if err != nil {
		return wrapInternal(s.logger, "не удалось удалить сотрудника из бригады", err)
	}
	return nil
}

func (s *BrigadeService) SyncProject(ctx context.Context) (int, error) {
	actor, err := authz.ActorFromContext(ctx)
	if err != nil {
		return 0, err
	}
	var updated int
	err = s.txManager.RunInTransaction(ctx, func(tx pgx.Tx) error {
		settings, err := s.settingsRepo.GetOrCreate(ctx, tx, actor.UserID)
		if err != nil {
			return err
		}
		ids, err := s.repo.EmployeeIDsByLeader(ctx, tx, actor.UserID)
		if err != nil {
			return err
		}
		updated = len(ids)
		return s.employeeRepo.SetProject(ctx, tx, ids, settings.ProjectID)
	})
	if err != nil {
		return 0, wrapInternal(s.logger, "не удалось обновить проект бригады", err)
	}
	s.logger.Info("Проект бригады обновлён", zap.Uint64("leaderID", actor.UserID), zap.Int("members", updated))
	return updated, nil
}
