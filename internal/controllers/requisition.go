package controllers

import (
	"net/http"

	"solarforyou/internal/dto"
	"solarforyou/internal/services"
	"solarforyou/pkg/utils"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

type RequisitionController struct {
	requisitionService services.RequisitionServiceInterface
	logger             *zap.Logger
}

func NewRequisitionController(requisitionService services.RequisitionServiceInterface, logger *zap.Logger) *RequisitionController {
	return &RequisitionController{requisitionService: requisitionService, logger: logger}
}

func (c *RequisitionController) GetRequisitions(ctx echo.Context) error {
	filter := utils.ParseFilterFromQuery(ctx.Request().URL.Query())
	list, total, err := c.requisitionService.GetRequisitions(ctx.Request().Context(), filter)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, list, "Lista zapotrzebowań", http.StatusOK, total)
}

func (c *RequisitionController) FindRequisition(ctx echo.Context) error {
	id, err := utils.ParseIDParam(ctx, "id")
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	requisition, err := c.requisitionService.FindRequisition(ctx.Request().Context(), id)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, requisition, "Zapotrzebowanie znalezione", http.StatusOK)
}

func (c *RequisitionController) CreateRequisition(ctx echo.Context) error {
	var payload dto.CreateRequisitionDTO
	if err := bindBody(ctx, &payload); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	requisition, err := c.requisitionService.CreateRequisition(ctx.Request().Context(), payload)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, requisition, "Zapotrzebowanie utworzone", http.StatusCreated)
}

func (c *RequisitionController) UpdateRequisition(ctx echo.Context) error {
	id, err := utils.ParseIDParam(ctx, "id")
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	var payload dto.UpdateRequisitionDTO
	rawBody, err := bindPatch(ctx, &payload)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	requisition, err := c.requisitionService.UpdateRequisition(ctx.Request().Context(), id, payload, rawBody)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, requisition, "Zapotrzebowanie zaktualizowane", http.StatusOK)
}

func (c *RequisitionController) DeleteRequisition(ctx echo.Context) error {
	id, err := utils.ParseIDParam(ctx, "id")
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	if err := c.requisitionService.DeleteRequisition(ctx.Request().Context(), id); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, struct{}{}, "Zapotrzebowanie usunięte", http.StatusOK)
}

// ValidateRequisition проверяет тело создания без сохранения.
func (c *RequisitionController) ValidateRequisition(ctx echo.Context) error {
	var payload dto.CreateRequisitionDTO
	if err := bindJSON(ctx, &payload); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	result, err := c.requisitionService.ValidateRequisition(ctx.Request().Context(), payload)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return ctx.JSON(http.StatusOK, result)
}

func (c *RequisitionController) GetItems(ctx echo.Context) error {
	filter := utils.ParseFilterFromQuery(ctx.Request().URL.Query())
	items, total, err := c.requisitionService.GetItems(ctx.Request().Context(), filter)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, items, "Pozycje zapotrzebowań", http.StatusOK, total)
}

func (c *RequisitionController) FindItem(ctx echo.Context) error {
	id, err := utils.ParseIDParam(ctx, "id")
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	item, err := c.requisitionService.FindItem(ctx.Request().Context(), id)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, item, "Pozycja znaleziona", http.StatusOK)
}

func (c *RequisitionController) CreateItem(ctx echo.Context) error {
	var payload dto.CreateRequisitionItemDTO
	if err := bindBody(ctx, &payload); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	item, err := c.requisitionService.CreateItem(ctx.Request().Context(), payload)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, item, "Pozycja dodana", http.StatusCreated)
}

func (c *RequisitionController) UpdateItem(ctx echo.Context) error {
	id, err := utils.ParseIDParam(ctx, "id")
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	var payload dto.UpdateRequisitionItemDTO
	rawBody, err := bindPatch(ctx, &payload)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	item, err := c.requisitionService.UpdateItem(ctx.Request().Context(), id, payload, rawBody)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, item, "Pozycja zaktualizowana", http.StatusOK)
}

func (c *RequisitionController) DeleteItem(ctx echo.Context) error {
	id, err := utils.ParseIDParam(ctx, "id")
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	if err := c.requisitionService.DeleteItem(ctx.Request().Context(), id); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, struct{}{}, "Pozycja usunięta", http.StatusOK)
}
