package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"solarforyou/internal/authz"
	"solarforyou/internal/repositories"
	"solarforyou/pkg/constants"
	apperrors "solarforyou/pkg/errors"

	"go.uber.org/zap"
)

// AuthPermissionServiceInterface собирает актора запроса и кеширует его в Redis.
type AuthPermissionServiceInterface interface {
	ResolveActor(ctx context.Context, userID uint64) (*authz.Actor, error)
	InvalidateActor(ctx context.Context, userID uint64) error
}

type AuthPermissionService struct {
	userRepo    repositories.UserRepositoryInterface
	profileRepo repositories.ProfileRepositoryInterface
	cacheRepo   repositories.CacheRepositoryInterface
	logger      *zap.Logger
	cacheTTL    time.Duration
}

func NewAuthPermissionService(
	userRepo repositories.UserRepositoryInterface,
	profileRepo repositories.ProfileRepositoryInterface,
	cacheRepo repositories.CacheRepositoryInterface,
	logger *zap.Logger,
	cacheTTL time.Duration,
) AuthPermissionServiceInterface {
	return &AuthPermissionService{
		userRepo:    userRepo,
		profileRepo: profileRepo,
		cacheRepo:   cacheRepo,
		logger:      logger,
		cacheTTL:    cacheTTL,
	}
}

func (s *AuthPermissionService) ResolveActor(ctx context.Context, userID uint64) (*authz.Actor, error) {
	cacheKey := fmt.Sprintf(constants.CacheKeyActor, userID)

	cached, errGet := s.cacheRepo.Get(ctx, cacheKey)
	if errGet == nil {
		var actor authz.Actor
		if err := json.Unmarshal([]byte(cached), &actor); err == nil {
			return &actor, nil
		} else {
			s.logger.Warn("AuthPermissionService: повреждённая запись кеша актора", zap.String("key", cacheKey), zap.Error(err))
		}
	} else if !errors.Is(errGet, apperrors.ErrNotFound) {
		s.logger.Warn("AuthPermissionService: кеш недоступен, чтение из БД", zap.Uint64("userID", userID), zap.Error(errGet))
	}

	user, err := s.userRepo.FindByID(ctx, nil, userID)
	if err != nil {
		return nil, err
	}
	if !user.IsActive {
		return nil, apperrors.ErrUserInactive
	}

	actor := &authz.Actor{UserID: user.ID, Username: user.Username, IsStaff: user.IsStaff}
	profile, err := s.profileRepo.FindByUserID(ctx, nil, userID)
	switch {
	case err == nil:
		actor.HasProfile = true
		actor.Privileges = profile.Privileges
	case errors.Is(err, apperrors.ErrNotFound):
	default:
		s.logger.Error("AuthPermissionService: не удалось загрузить профиль", zap.Uint64("userID", userID), zap.Error(err))
		return nil, apperrors.ErrInternalServer
	}

	if payload, err := json.Marshal(actor); err == nil {
		if errSet := s.cacheRepo.Set(ctx, cacheKey, string(payload), s.cacheTTL); errSet != nil {
			s.logger.Warn("AuthPermissionService: не удалось закешировать актора", zap.Uint64("userID", userID), zap.Error(errSet))
		}
	}
	return actor, nil
}

// InvalidateActor вызывается после изменения пользователя или его профиля.
func (s *AuthPermissionService) InvalidateActor(ctx context.Context, userID uint64) error {
	if err := s.cacheRepo.Del(ctx, fmt.Sprintf(constants.CacheKeyActor, userID)); err != nil {
		s.logger.Warn("AuthPermissionService: не удалось сбросить кеш актора", zap.Uint64("userID", userID), zap.Error(err))
		return err
	}
	return nil
}
