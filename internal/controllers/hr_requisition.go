package controllers

import (
	"net/http"

	"solarforyou/internal/dto"
	"solarforyou/internal/services"
	"solarforyou/pkg/utils"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

type HRRequisitionController struct {
	hrService services.HRRequisitionServiceInterface
	logger    *zap.Logger
}

func NewHRRequisitionController(hrService services.HRRequisitionServiceInterface, logger *zap.Logger) *HRRequisitionController {
	return &HRRequisitionController{hrService: hrService, logger: logger}
}

func (c *HRRequisitionController) GetRequisitions(ctx echo.Context) error {
	filter := utils.ParseFilterFromQuery(ctx.Request().URL.Query())
	list, total, err := c.hrService.GetRequisitions(ctx.Request().Context(), filter)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, list, "Lista zapotrzebowań kadrowych", http.StatusOK, total)
}

func (c *HRRequisitionController) FindRequisition(ctx echo.Context) error {
	id, err := utils.ParseIDParam(ctx, "id")
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	requisition, err := c.hrService.FindRequisition(ctx.Request().Context(), id)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, requisition, "Zapotrzebowanie kadrowe znalezione", http.StatusOK)
}

func (c *HRRequisitionController) CreateRequisition(ctx echo.Context) error {
	var payload dto.CreateHRRequisitionDTO
	if err := bindBody(ctx, &payload); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	requisition, err := c.hrService.CreateRequisition(ctx.Request().Context(), payload)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, requisition, "Zapotrzebowanie kadrowe utworzone", http.StatusCreated)
}

func (c *HRRequisitionController) UpdateRequisition(ctx echo.Context) error {
	id, err := utils.ParseIDParam(ctx, "id")
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	var payload dto.UpdateHRRequisitionDTO
	rawBody, err := bindPatch(ctx, &payload)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	requisition, err := c.hrService.UpdateRequisition(ctx.Request().Context(), id, payload, rawBody)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, requisition, "Zapotrzebowanie kadrowe zaktualizowane", http.StatusOK)
}

func (c *HRRequisitionController) DeleteRequisition(ctx echo.Context) error {
	id, err := utils.ParseIDParam(ctx, "id")
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	if err := c.hrService.DeleteRequisition(ctx.Request().Context(), id); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, struct{}{}, "Zapotrzebowanie kadrowe usunięte", http.StatusOK)
}

func (c *HRRequisitionController) ValidateRequisition(ctx echo.Context) error {
	var payload dto.CreateHRRequisitionDTO
	if err := bindJSON(ctx, &payload); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	result, err := c.hrService.ValidateRequisition(ctx.Request().Context(), payload)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return ctx.JSON(http.StatusOK, result)
}

func (c *HRRequisitionController) GetPositions(ctx echo.Context) error {
	filter := utils.ParseFilterFromQuery(ctx.Request().URL.Query())
	positions, total, err := c.hrService.GetPositions(ctx.Request().Context(), filter)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, positions, "Lista stanowisk", http.StatusOK, total)
}

func (c *HRRequisitionController) FindPosition(ctx echo.Context) error {
	id, err := utils.ParseIDParam(ctx, "id")
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	position, err := c.hrService.FindPosition(ctx.Request().Context(), id)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, position, "Stanowisko znalezione", http.StatusOK)
}

func (c *HRRequisitionController) CreatePosition(ctx echo.Context) error {
	var payload dto.CreateHRPositionDTO
	if err := bindBody(ctx, &payload); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	position, err := c.hrService.CreatePosition(ctx.Request().Context(), payload)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, position, "Stanowisko dodane", http.StatusCreated)
}

func (c *HRRequisitionController) UpdatePosition(ctx echo.Context) error {
	id, err := utils.ParseIDParam(ctx, "id")
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	var payload dto.UpdateHRPositionDTO
	rawBody, err := bindPatch(ctx, &payload)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	position, err := c.hrService.UpdatePosition(ctx.Request().Context(), id, payload, rawBody)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, position, "Stanowisko zaktualizowane", http.StatusOK)
}

func (c *HRRequisitionController) DeletePosition(ctx echo.Context) error {
	id, err := utils.ParseIDParam(ctx, "id")
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	if err := c.hrService.DeletePosition(ctx.Request().Context(), id); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, struct{}{}, "Stanowisko usunięte", http.StatusOK)
}
