package services

import (
	"context"
	"errors"

	"solarforyou/internal/authz"
	"solarforyou/internal/dto"
	"solarforyou/internal/entities"
	"solarforyou/internal/repositories"
	"solarforyou/pkg/constants"
	"solarforyou/pkg/customvalidator"
	apperrors "solarforyou/pkg/errors"
	"solarforyou/pkg/types"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type ProfileServiceInterface interface {
	GetProfiles(ctx context.Context, filter types.Filter) ([]*dto.ProfileDTO, uint64, error)
	FindProfile(ctx context.Context, id uint64) (*dto.ProfileDTO, error)
	// MyProfile возвращает профиль текущего пользователя, создавая пустой при отсутствии.
	MyProfile(ctx context.Context) (*dto.ProfileDTO, error)
	CreateProfile(ctx context.Context, payload dto.CreateProfileDTO) (*dto.ProfileDTO, error)
	UpdateProfile(ctx context.Context, id uint64, payload dto.UpdateProfileDTO, rawBody []byte) (*dto.ProfileDTO, error)
	DeleteProfile(ctx context.Context, id uint64) error
}

type ProfileService struct {
	txManager   repositories.TxManagerInterface
	profileRepo repositories.ProfileRepositoryInterface
	userRepo    repositories.UserRepositoryInterface
	authPerm    AuthPermissionServiceInterface
	logger      *zap.Logger
}

func NewProfileService(
	txManager repositories.TxManagerInterface,
	profileRepo repositories.ProfileRepositoryInterface,
	userRepo repositories.UserRepositoryInterface,
	authPerm AuthPermissionServiceInterface,
	logger *zap.Logger,
) ProfileServiceInterface {
	return &ProfileService{
		txManager:   txManager,
		profileRepo: profileRepo,
		userRepo:    userRepo,
		authPerm:    authPerm,
		logger:      logger,
	}
}

// collectPrivileges объединяет строку и список; неизвестные токены принимаются с предупреждением.
func (s *ProfileService) collectPrivileges(raw string, list []string) authz.Privileges {
	privileges := authz.ParsePrivileges(raw)
	for _, p := range list {
		privileges.Add(p)
	}
	if unknown := customvalidator.UnknownPrivileges(privileges); len(unknown) > 0 {
		s.logger.Warn("Профиль получил неизвестные привилегии", zap.Strings("privileges", unknown))
	}
	return privileges
}

func (s *ProfileService) attachUsers(ctx context.Context, profiles ...*entities.UserProfile) error {
	ids := make([]uint64, 0, len(profiles))
	for _, p := range profiles {
		ids = append(ids, p.UserID)
	}
	users, err := s.userRepo.FindByIDs(ctx, ids)
	if err != nil {
		return err
	}
	byID := make(map[uint64]*entities.User, len(users))
	for _, u := range users {
		byID[u.ID] = u
	}
	for _, p := range profiles {
		p.User = byID[p.UserID]
	}
	return nil
}

func (s *ProfileService) toDTO(ctx context.Context, p *entities.UserProfile) (*dto.ProfileDTO, error) {
	if err := s.attachUsers(ctx, p); err != nil {
		return nil, err
	}
	return dto.NewProfileDTO(p), nil
}

func (s *ProfileService) GetProfiles(ctx context.Context, filter types.Filter) ([]*dto.ProfileDTO, uint64, error) {
	profiles, total, err := s.profileRepo.GetAll(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	if len(profiles) > 0 {
		if err := s.attachUsers(ctx, profiles...); err != nil {
			return nil, 0, err
		}
	}
	result := make([]*dto.ProfileDTO, 0, len(profiles))
	for _, p := range profiles {
		result = append(result, dto.NewProfileDTO(p))
	}
	return result, total, nil
}

func (s *ProfileService) FindProfile(ctx context.Context, id uint64) (*dto.ProfileDTO, error) {
	profile, err := s.profileRepo.FindByID(ctx, nil, id)
	if err != nil {
		return nil, err
	}
	return s.toDTO(ctx, profile)
}

func (s *ProfileService) MyProfile(ctx context.Context) (*dto.ProfileDTO, error) {
	actor, err := authz.ActorFromContext(ctx)
	if err != nil {
		return nil, err
	}

	profile, err := s.profileRepo.FindByUserID(ctx, nil, actor.UserID)
	if errors.Is(err, apperrors.ErrNotFound) {
		err = s.txManager.RunInTransaction(ctx, func(tx pgx.Tx) error {
			if _, err := s.profileRepo.Create(ctx, tx, entities.UserProfile{
				UserID: actor.UserID,
				Status: constants.ProfileStatusActive,
			}); err != nil {
				return err
			}
			profile, err = s.profileRepo.FindByUserID(ctx, tx, actor.UserID)
			return err
		})
		if err == nil {
			s.logger.Info("Создан пустой профиль пользователя", zap.Uint64("userID", actor.UserID))
			_ = s.authPerm.InvalidateActor(ctx, actor.UserID)
		}
	}
	if err != nil {
		return nil, wrapInternal(s.logger, "не удалось получить профиль", err)
	}
	return s.toDTO(ctx, profile)
}

func (s *ProfileService) CreateProfile(ctx context.Context, payload dto.CreateProfileDTO) (*dto.ProfileDTO, error) {
	profile := entities.UserProfile{
		UserID:     payload.UserID,
		Phone:      payload.Phone,
		Address:    payload.Address,
		Status:     payload.Status,
		Privileges: s.collectPrivileges(payload.Privileges, payload.PrivilegesList),
	}
	if profile.Status == "" {
		profile.Status = constants.ProfileStatusActive
	}

	var created *entities.UserProfile
	err := s.txManager.RunInTransaction(ctx, func(tx pgx.Tx) error {
		id, err := s.profileRepo.Create(ctx, tx, profile)
		if err != nil {
			return err
		}
		if err := s.profileRepo.ReplacePrivileges(ctx, tx, id, profile.Privileges); err != nil {
			return err
		}
		created, err = s.profileRepo.FindByID(ctx, tx, id)
		return err
	})
	if err != nil {
		return nil, wrapInternal(s.logger, "не удалось создать профиль", err)
	}
	_ = s.authPerm.InvalidateActor(ctx, created.UserID)
	return s.toDTO(ctx, created)
}

func (s *ProfileService) UpdateProfile(ctx context.Context, id uint64, payload dto.UpdateProfileDTO, rawBody []byte) (*dto.ProfileDTO, error) {
	var updated *entities.UserProfile
	err := s.txManager.RunInTransaction(ctx, func(tx pgx.Tx) error {
		current, err := s.profileRepo.FindByID(ctx, tx, id)
		if err != nil {
			return err
		}
		if err := patchEntity(current, payload, rawBody); err != nil {
			return err
		}
		if err := s.profileRepo.Update(ctx, tx, *current); err != nil {
			return err
		}
		if payload.Privileges != nil || payload.PrivilegesList != nil {
			var raw string
			if payload.Privileges != nil {
				raw = *payload.Privileges
			}
			if err := s.profileRepo.ReplacePrivileges(ctx, tx, id, s.collectPrivileges(raw, payload.PrivilegesList)); err != nil {
				return err
			}
		}
		updated, err = s.profileRepo.FindByID(ctx, tx, id)
		return err
	})
	if err != nil {
		return nil, wrapInternal(s.logger, "не удалось обновить профиль", err)
	}
	_ = s.authPerm.InvalidateActor(ctx, updated.UserID)
	return s.toDTO(ctx, updated)
}

func (s *ProfileService) DeleteProfile(ctx context.Context, id uint64) error {
	profile, err := s.profileRepo.FindByID(ctx, nil, id)
	if err != nil {
		return err
	}
	if err := s.profileRepo.Delete(ctx, nil, id); err != nil {
		return err
	}
	_ = s.authPerm.InvalidateActor(ctx, profile.UserID)
	return nil
}
