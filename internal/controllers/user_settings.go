package controllers

import (
	"net/http"

	"solarforyou/internal/dto"
	"solarforyou/internal/services"
	"solarforyou/pkg/utils"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

type UserSettingsController struct {
	settingsService services.UserSettingsServiceInterface
	logger          *zap.Logger
}

func NewUserSettingsController(settingsService services.UserSettingsServiceInterface, logger *zap.Logger) *UserSettingsController {
	return &UserSettingsController{settingsService: settingsService, logger: logger}
}

func (c *UserSettingsController) GetSettings(ctx echo.Context) error {
	filter := utils.ParseFilterFromQuery(ctx.Request().URL.Query())
	list, total, err := c.settingsService.GetSettings(ctx.Request().Context(), filter)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, list, "Ustawienia użytkowników", http.StatusOK, total)
}

func (c *UserSettingsController) FindSettings(ctx echo.Context) error {
	id, err := utils.ParseIDParam(ctx, "id")
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	settings, err := c.settingsService.FindSettings(ctx.Request().Context(), id)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, settings, "Ustawienia znalezione", http.StatusOK)
}

func (c *UserSettingsController) MySettings(ctx echo.Context) error {
	settings, err := c.settingsService.MySettings(ctx.Request().Context())
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, settings, "Moje ustawienia", http.StatusOK)
}

func (c *UserSettingsController) UpdateMySettings(ctx echo.Context) error {
	var payload dto.UpdateUserSettingsDTO
	rawBody, err := bindPatch(ctx, &payload)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	settings, err := c.settingsService.UpdateMySettings(ctx.Request().Context(), payload, rawBody)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, settings, "Ustawienia zapisane", http.StatusOK)
}

func (c *UserSettingsController) UpdateSettings(ctx echo.Context) error {
	id, err := utils.ParseIDParam(ctx, "id")
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	var payload dto.UpdateUserSettingsDTO
	rawBody, err := bindPatch(ctx, &payload)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	settings, err := c.settingsService.UpdateSettings(ctx.Request().Context(), id, payload, rawBody)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, settings, "Ustawienia zapisane", http.StatusOK)
}

func (c *UserSettingsController) DeleteSettings(ctx echo.Context) error {
	id, err := utils.ParseIDParam(ctx, "id")
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	if err := c.settingsService.DeleteSettings(ctx.Request().Context(), id); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, struct{}{}, "Ustawienia usunięte", http.StatusOK)
}
