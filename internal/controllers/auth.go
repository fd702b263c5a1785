package controllers

import (
	"net/http"
	"time"

	"solarforyou/internal/dto"
	"solarforyou/internal/services"
	"solarforyou/pkg/config"
	"solarforyou/pkg/utils"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

type AuthController struct {
	authService           services.AuthServiceInterface
	authPermissionService services.AuthPermissionServiceInterface
	session               config.SessionConfig
	logger                *zap.Logger
}

func NewAuthController(
	authService services.AuthServiceInterface,
	authPermissionService services.AuthPermissionServiceInterface,
	session config.SessionConfig,
	logger *zap.Logger,
) *AuthController {
	return &AuthController{
		authService:           authService,
		authPermissionService: authPermissionService,
		session:               session,
		logger:                logger,
	}
}

func (ctrl *AuthController) errorResponse(c echo.Context, err error) error {
	return utils.ErrorResponse(c, err, ctrl.logger)
}

func (ctrl *AuthController) sessionCookie(value string, maxAge int) *http.Cookie {
	return &http.Cookie{
		Name:     ctrl.session.CookieName,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   ctrl.session.Secure,
		SameSite: http.SameSiteLaxMode,
	}
}

func (ctrl *AuthController) Login(c echo.Context) error {
	var payload dto.LoginDTO
	if err := bindBody(c, &payload); err != nil {
		ctrl.logger.Warn("Login: неверные данные для входа", zap.Error(err))
		return ctrl.errorResponse(c, err)
	}

	user, sessionID, err := ctrl.authService.Login(c.Request().Context(), payload)
	if err != nil {
		return ctrl.errorResponse(c, err)
	}

	privileges := []string{}
	actor, err := ctrl.authPermissionService.ResolveActor(c.Request().Context(), user.ID)
	if err != nil {
		ctrl.logger.Error("Login: не удалось получить привилегии пользователя", zap.Uint64("userID", user.ID), zap.Error(err))
	} else {
		privileges = actor.Privileges.List()
	}

	c.SetCookie(ctrl.sessionCookie(sessionID, int(ctrl.session.TTL/time.Second)))
	return utils.SuccessResponse(c, dto.LoginResponseDTO{User: user, Privileges: privileges}, "Zalogowano pomyślnie", http.StatusOK)
}

func (ctrl *AuthController) Logout(c echo.Context) error {
	if cookie, err := c.Cookie(ctrl.session.CookieName); err == nil {
		if err := ctrl.authService.Logout(c.Request().Context(), cookie.Value); err != nil {
			ctrl.logger.Warn("Logout: не удалось удалить сессию", zap.Error(err))
		}
	}
	c.SetCookie(ctrl.sessionCookie("", -1))
	return utils.SuccessResponse(c, nil, "Wylogowano", http.StatusOK)
}

// MobileLogin и при отказе отвечает в формате мобильного клиента (success=false).
func (ctrl *AuthController) MobileLogin(c echo.Context) error {
	var payload dto.LoginDTO
	if err := bindBody(c, &payload); err != nil {
		return c.JSON(http.StatusBadRequest, dto.MobileLoginResponseDTO{Message: "Nazwa użytkownika i hasło są wymagane"})
	}
	resp, err := ctrl.authService.MobileLogin(c.Request().Context(), payload)
	if err != nil {
		ctrl.logger.Info("MobileLogin: вход отклонён", zap.String("username", payload.Username), zap.Error(err))
		return c.JSON(http.StatusUnauthorized, dto.MobileLoginResponseDTO{Message: "Nieprawidłowe dane logowania"})
	}
	return c.JSON(http.StatusOK, resp)
}

func (ctrl *AuthController) Me(c echo.Context) error {
	me, err := ctrl.authService.Me(c.Request().Context())
	if err != nil {
		return ctrl.errorResponse(c, err)
	}
	return utils.SuccessResponse(c, me, "Bieżący użytkownik", http.StatusOK)
}

// CSRF: cookie выставляет middleware CSRF, обработчику остаётся подтвердить.
func (ctrl *AuthController) CSRF(c echo.Context) error {
	return c.JSON(http.StatusOK, dto.DetailDTO{Detail: "CSRF cookie set"})
}
