package services

import (
	"context"
	"net/http"

	"solarforyou/internal/authz"
	"solarforyou/internal/dto"
	"solarforyou/internal/entities"
	"solarforyou/internal/repositories"
	apperrors "solarforyou/pkg/errors"
	"solarforyou/pkg/types"
	"solarforyou/pkg/utils"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type UserServiceInterface interface {
	GetUsers(ctx context.Context, filter types.Filter) ([]*entities.User, uint64, error)
	FindUser(ctx context.Context, id uint64) (*entities.User, error)
	CreateUser(ctx context.Context, payload dto.CreateUserDTO) (*entities.User, error)
	UpdateUser(ctx context.Context, id uint64, payload dto.UpdateUserDTO, rawBody []byte) (*entities.User, error)
	DeleteUser(ctx context.Context, id uint64) error
}

type UserService struct {
	txManager repositories.TxManagerInterface
	userRepo  repositories.UserRepositoryInterface
	authPerm  AuthPermissionServiceInterface
	logger    *zap.Logger
}

func NewUserService(
	txManager repositories.TxManagerInterface,
	userRepo repositories.UserRepositoryInterface,
	authPerm AuthPermissionServiceInterface,
	logger *zap.Logger,
) UserServiceInterface {
	return &UserService{txManager: txManager, userRepo: userRepo, authPerm: authPerm, logger: logger}
}

func (s *UserService) GetUsers(ctx context.Context, filter types.Filter) ([]*entities.User, uint64, error) {
	return s.userRepo.GetAll(ctx, filter)
}

func (s *UserService) FindUser(ctx context.Context, id uint64) (*entities.User, error) {
	return s.userRepo.FindByID(ctx, nil, id)
}

func (s *UserService) CreateUser(ctx context.Context, payload dto.CreateUserDTO) (*entities.User, error) {
	hash, err := utils.HashPassword(payload.Password)
	if err != nil {
		s.logger.Error("Не удалось захешировать пароль", zap.Error(err))
		return nil, apperrors.ErrInternalServer
	}

	user := entities.User{
		Username:     payload.Username,
		PasswordHash: hash,
		FirstName:    payload.FirstName,
		LastName:     payload.LastName,
		Email:        payload.Email,
		IsStaff:      payload.IsStaff,
		IsActive:     payload.IsActive == nil || *payload.IsActive,
	}

	var created *entities.User
	err = s.txManager.RunInTransaction(ctx, func(tx pgx.Tx) error {
		id, err := s.userRepo.Create(ctx, tx, user)
		if err != nil {
			return err
		}
		created, err = s.userRepo.FindByID(ctx, tx, id)
		return err
	})
	if err != nil {
		return nil, wrapInternal(s.logger, "не удалось создать пользователя", err)
	}
	s.logger.Info("Пользователь создан", zap.Uint64("userID", created.ID), zap.String("username", created.Username))
	return created, nil
}

func (s *UserService) UpdateUser(ctx context.Context, id uint64, payload dto.UpdateUserDTO, rawBody []byte) (*entities.User, error) {
	var updated *entities.User
	err := s.txManager.RunInTransaction(ctx, func(tx pgx.Tx) error {
		current, err := s.userRepo.FindByID(ctx, tx, id)
		if err != nil {
			return err
		}
		if err := patchEntity(current, payload, rawBody); err != nil {
			return err
		}
		if err := s.userRepo.Update(ctx, tx, *current); err != nil {
			return err
		}
		if payload.Password != nil {
			hash, err := utils.HashPassword(*payload.Password)
			if err != nil {
				return err
			}
			if err := s.userRepo.UpdatePassword(ctx, tx, id, hash); err != nil {
				return err
			}
		}
		updated, err = s.userRepo.FindByID(ctx, tx, id)
		return err
	})
	if err != nil {
		return nil, wrapInternal(s.logger, "не удалось обновить пользователя", err)
	}
	_ = s.authPerm.InvalidateActor(ctx, id)
	return updated, nil
}

func (s *UserService) DeleteUser(ctx context.Context, id uint64) error {
	actor, err := authz.ActorFromContext(ctx)
	if err != nil {
		return err
	}
	if actor.UserID == id {
		return apperrors.NewHttpError(http.StatusBadRequest, "Nie można usunąć własnego konta", nil, nil)
	}
	if err := s.userRepo.Delete(ctx, nil, id); err != nil {
		return err
	}
	_ = s.authPerm.InvalidateActor(ctx, id)
	s.logger.Info("Пользователь удалён", zap.Uint64("userID", id), zap.Uint64("actorID", actor.UserID))
	return nil
}
