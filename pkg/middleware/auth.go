package middleware

import (
	"context"
	"errors"
	"strings"

	"solarforyou/internal/authz"
	"solarforyou/pkg/contextkeys"
	apperrors "solarforyou/pkg/errors"
	"solarforyou/pkg/service"
	"solarforyou/pkg/utils"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// ActorResolver собирает актора (флаги пользователя и привилегии профиля) по ID.
type ActorResolver interface {
	ResolveActor(ctx context.Context, userID uint64) (*authz.Actor, error)
}

type AuthMiddleware struct {
	jwtService service.JWTService
	sessions   service.SessionStore
	actors     ActorResolver
	cookieName string
	logger     *zap.Logger
}

func NewAuthMiddleware(jwtSvc service.JWTService, sessions service.SessionStore, actors ActorResolver, cookieName string, logger *zap.Logger) *AuthMiddleware {
	return &AuthMiddleware{
		jwtService: jwtSvc,
		sessions:   sessions,
		actors:     actors,
		cookieName: cookieName,
		logger:     logger,
	}
}

// Auth принимает Bearer-токен мобильного клиента или cookie веб-сессии.
func (m *AuthMiddleware) Auth(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		reqCtx := c.Request().Context()

		userID, sessionID, err := m.identify(c)
		if err != nil {
			m.logger.Debug("AuthMiddleware: запрос без действительных учётных данных", zap.Error(err), zap.String("uri", c.Request().RequestURI))
			return utils.ErrorResponse(c, err, m.logger)
		}

		actor, err := m.actors.ResolveActor(reqCtx, userID)
		if err != nil {
			if errors.Is(err, apperrors.ErrNotFound) {
				err = apperrors.ErrUnauthorized
			}
			m.logger.Warn("AuthMiddleware: не удалось загрузить пользователя", zap.Uint64("userID", userID), zap.Error(err))
			return utils.ErrorResponse(c, err, m.logger)
		}

		newCtx := authz.WithActor(reqCtx, actor)
		if sessionID != "" {
			newCtx = context.WithValue(newCtx, contextkeys.SessionIDKey, sessionID)
		}
		c.SetRequest(c.Request().WithContext(newCtx))
		return next(c)
	}
}

func (m *AuthMiddleware) identify(c echo.Context) (uint64, string, error) {
	if authHeader := c.Request().Header.Get(echo.HeaderAuthorization); authHeader != "" {
		parts := strings.Fields(authHeader)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			return 0, "", apperrors.ErrInvalidAuthHeader
		}
		claims, err := m.jwtService.ValidateToken(parts[1])
		if err != nil {
			return 0, "", err
		}
		return claims.UserID, "", nil
	}

	cookie, err := c.Cookie(m.cookieName)
	if err != nil || cookie.Value == "" {
		return 0, "", apperrors.ErrEmptyAuthHeader
	}
	userID, err := m.sessions.Resolve(c.Request().Context(), cookie.Value)
	if err != nil {
		return 0, "", err
	}
	return userID, cookie.Value, nil
}
