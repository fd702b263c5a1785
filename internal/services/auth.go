package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"solarforyou/internal/authz"
	"solarforyou/internal/dto"
	"solarforyou/internal/entities"
	"solarforyou/internal/repositories"
	"solarforyou/pkg/constants"
	apperrors "solarforyou/pkg/errors"
	"solarforyou/pkg/service"
	"solarforyou/pkg/utils"

	"go.uber.org/zap"
)

const (
	maxLoginAttempts = 5
	loginLockout     = 15 * time.Minute
)

type AuthServiceInterface interface {
	// Login проверяет пароль и открывает веб-сессию.
	Login(ctx context.Context, payload dto.LoginDTO) (*entities.User, string, error)
	Logout(ctx context.Context, sessionID string) error
	MobileLogin(ctx context.Context, payload dto.LoginDTO) (*dto.MobileLoginResponseDTO, error)
	Me(ctx context.Context) (*dto.MeDTO, error)
}

type AuthService struct {
	userRepo  repositories.UserRepositoryInterface
	cacheRepo repositories.CacheRepositoryInterface
	sessions  service.SessionStore
	jwtSvc    service.JWTService
	logger    *zap.Logger
}

func NewAuthService(
	userRepo repositories.UserRepositoryInterface,
	cacheRepo repositories.CacheRepositoryInterface,
	sessions service.SessionStore,
	jwtSvc service.JWTService,
	logger *zap.Logger,
) AuthServiceInterface {
	return &AuthService{
		userRepo:  userRepo,
		cacheRepo: cacheRepo,
		sessions:  sessions,
		jwtSvc:    jwtSvc,
		logger:    logger,
	}
}

func (s *AuthService) authenticate(ctx context.Context, payload dto.LoginDTO) (*entities.User, error) {
	logger := s.logger.With(zap.String("username", payload.Username))
	attemptsKey := fmt.Sprintf(constants.CacheKeyLoginAttempts, payload.Username)

	attemptsStr, _ := s.cacheRepo.Get(ctx, attemptsKey)
	if attempts, _ := strconv.Atoi(attemptsStr); attempts >= maxLoginAttempts {
		logger.Warn("Слишком много неудачных попыток входа")
		return nil, apperrors.NewHttpError(
			http.StatusTooManyRequests,
			fmt.Sprintf("Zbyt wiele prób logowania. Spróbuj ponownie za %.0f minut.", loginLockout.Minutes()),
			nil,
			nil,
		)
	}

	user, err := s.userRepo.FindByUsername(ctx, payload.Username)
	if err == nil {
		err = utils.ComparePasswords(user.PasswordHash, payload.Password)
	}
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			logger.Info("Неверный пароль", zap.Error(err))
		}
		if _, countErr := s.cacheRepo.CountAttempt(ctx, attemptsKey, loginLockout); countErr != nil {
			logger.Warn("Не удалось учесть попытку входа", zap.Error(countErr))
		}
		return nil, apperrors.ErrInvalidCredentials
	}
	if !user.IsActive {
		logger.Warn("Попытка входа в отключённую учётную запись")
		return nil, apperrors.ErrUserInactive
	}

	_ = s.cacheRepo.Del(ctx, attemptsKey)
	if err := s.userRepo.TouchLastLogin(ctx, user.ID); err != nil {
		logger.Warn("Не удалось обновить last_login", zap.Error(err))
	}
	return user, nil
}

func (s *AuthService) Login(ctx context.Context, payload dto.LoginDTO) (*entities.User, string, error) {
	user, err := s.authenticate(ctx, payload)
	if err != nil {
		return nil, "", err
	}
	sessionID, err := s.sessions.Create(ctx, user.ID)
	if err != nil {
		s.logger.Error("Не удалось создать сессию", zap.Uint64("userID", user.ID), zap.Error(err))
		return nil, "", apperrors.ErrInternalServer
	}
	s.logger.Info("Пользователь вошёл в систему", zap.Uint64("userID", user.ID))
	return user, sessionID, nil
}

func (s *AuthService) Logout(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return nil
	}
	return s.sessions.Destroy(ctx, sessionID)
}

func (s *AuthService) MobileLogin(ctx context.Context, payload dto.LoginDTO) (*dto.MobileLoginResponseDTO, error) {
	user, err := s.authenticate(ctx, payload)
	if err != nil {
		return nil, err
	}
	token, err := s.jwtSvc.GenerateToken(user.ID, user.Username)
	if err != nil {
		s.logger.Error("Не удалось выпустить токен", zap.Uint64("userID", user.ID), zap.Error(err))
		return nil, apperrors.ErrInternalServer
	}

	resp := &dto.MobileLoginResponseDTO{
		Success: true,
		Message: "Login successful",
		Email:   user.Email,
		Access:  "user",
		Token:   token,
	}
	if user.FirstName != "" || user.LastName != "" {
		resp.Name = user.FullName()
	}
	return resp, nil
}

func (s *AuthService) Me(ctx context.Context) (*dto.MeDTO, error) {
	actor, err := authz.ActorFromContext(ctx)
	if err != nil {
		return nil, err
	}
	user, err := s.userRepo.FindByID(ctx, nil, actor.UserID)
	if err != nil {
		return nil, err
	}
	privileges := actor.Privileges.List()
	if privileges == nil {
		privileges = []string{}
	}
	return &dto.MeDTO{User: user, Privileges: privileges, HasProfile: actor.HasProfile}, nil
}
