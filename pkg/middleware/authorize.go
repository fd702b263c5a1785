package middleware

import (
	"solarforyou/internal/authz"
	apperrors "solarforyou/pkg/errors"
	"solarforyou/pkg/utils"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// Authorize сверяет актора с привилегией маршрута из таблицы политик.
// Маршрут, которого нет в таблице, закрыт для всех.
func Authorize(policy authz.RoutePolicy, gk *authz.Gatekeeper, logger *zap.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			actor, err := authz.ActorFromContext(c.Request().Context())
			if err != nil {
				return utils.ErrorResponse(c, err, logger)
			}

			method, path := c.Request().Method, c.Path()
			required, ok := policy.Lookup(method, path)
			if !ok {
				logger.Error("Маршрут отсутствует в таблице привилегий", zap.String("method", method), zap.String("path", path))
				return utils.ErrorResponse(c, apperrors.ErrForbidden, logger)
			}

			if !gk.Can(actor, required) {
				logger.Info("Недостаточно привилегий",
					zap.Uint64("userID", actor.UserID),
					zap.String("route", authz.RouteKey(method, path)),
					zap.String("required", required),
				)
				return utils.ErrorResponse(c, apperrors.ErrForbidden, logger)
			}
			return next(c)
		}
	}
}
