package controllers

import (
	"net/http"
	"strconv"

	"solarforyou/internal/dto"
	"solarforyou/internal/services"
	apperrors "solarforyou/pkg/errors"
	"solarforyou/pkg/utils"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

type ActivityConfigController struct {
	configService services.ActivityConfigServiceInterface
	logger        *zap.Logger
}

func NewActivityConfigController(configService services.ActivityConfigServiceInterface, logger *zap.Logger) *ActivityConfigController {
	return &ActivityConfigController{configService: configService, logger: logger}
}

// GetConfig: GET /project-activities-config?project_id=
func (c *ActivityConfigController) GetConfig(ctx echo.Context) error {
	projectID, err := queryID(ctx, "project_id")
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	if projectID == 0 {
		return utils.ErrorResponse(ctx, apperrors.NewHttpError(http.StatusBadRequest, "Parametr project_id jest wymagany", nil, nil), c.logger)
	}
	config, err := c.configService.GetConfig(ctx.Request().Context(), projectID)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, config, "Konfiguracja aktywności", http.StatusOK)
}

func (c *ActivityConfigController) SaveConfig(ctx echo.Context) error {
	var payload dto.SaveActivityConfigDTO
	if err := bindBody(ctx, &payload); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	config, err := c.configService.SaveConfig(ctx.Request().Context(), payload)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, config, "Konfiguracja zapisana", http.StatusOK)
}

// ImportWorkbook принимает multipart: file (.xlsx) и project_id.
func (c *ActivityConfigController) ImportWorkbook(ctx echo.Context) error {
	projectID, err := strconv.ParseUint(ctx.FormValue("project_id"), 10, 64)
	if err != nil || projectID == 0 {
		return utils.ErrorResponse(ctx, apperrors.NewHttpError(http.StatusBadRequest, "Parametr project_id jest wymagany", err, nil), c.logger)
	}
	header, err := ctx.FormFile("file")
	if err != nil {
		return utils.ErrorResponse(ctx, apperrors.NewHttpError(http.StatusBadRequest, "Nie przesłano pliku", err, nil), c.logger)
	}
	config, err := c.configService.ImportWorkbook(ctx.Request().Context(), projectID, header)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	c.logger.Info("Конфигурация активностей импортирована", zap.Uint64("projectID", projectID), zap.String("file", header.Filename))
	return utils.SuccessResponse(ctx, config, "Plik zaimportowany", http.StatusOK)
}
