package controllers

import (
	"net/http"

	"solarforyou/internal/dto"
	"solarforyou/internal/services"
	"solarforyou/pkg/utils"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

type TransportController struct {
	transportService services.TransportServiceInterface
	logger           *zap.Logger
}

func NewTransportController(transportService services.TransportServiceInterface, logger *zap.Logger) *TransportController {
	return &TransportController{transportService: transportService, logger: logger}
}

func (c *TransportController) GetRequests(ctx echo.Context) error {
	filter := utils.ParseFilterFromQuery(ctx.Request().URL.Query())
	list, total, err := c.transportService.GetRequests(ctx.Request().Context(), filter)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, list, "Lista zleceń transportowych", http.StatusOK, total)
}

func (c *TransportController) FindRequest(ctx echo.Context) error {
	id, err := utils.ParseIDParam(ctx, "id")
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	request, err := c.transportService.FindRequest(ctx.Request().Context(), id)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, request, "Zlecenie transportowe znalezione", http.StatusOK)
}

func (c *TransportController) CreateRequest(ctx echo.Context) error {
	var payload dto.CreateTransportRequestDTO
	if err := bindBody(ctx, &payload); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	request, err := c.transportService.CreateRequest(ctx.Request().Context(), payload)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, request, "Zlecenie transportowe utworzone", http.StatusCreated)
}

func (c *TransportController) UpdateRequest(ctx echo.Context) error {
	id, err := utils.ParseIDParam(ctx, "id")
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	var payload dto.UpdateTransportRequestDTO
	rawBody, err := bindPatch(ctx, &payload)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	request, err := c.transportService.UpdateRequest(ctx.Request().Context(), id, payload, rawBody)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, request, "Zlecenie transportowe zaktualizowane", http.StatusOK)
}

func (c *TransportController) ChangeStatus(ctx echo.Context) error {
	id, err := utils.ParseIDParam(ctx, "id")
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	var payload dto.ChangeTransportStatusDTO
	if err := bindBody(ctx, &payload); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	request, err := c.transportService.ChangeStatus(ctx.Request().Context(), id, payload.Status)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, request, "Status zmieniony", http.StatusOK)
}

func (c *TransportController) DeleteRequest(ctx echo.Context) error {
	id, err := utils.ParseIDParam(ctx, "id")
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	if err := c.transportService.DeleteRequest(ctx.Request().Context(), id); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, struct{}{}, "Zlecenie transportowe usunięte", http.StatusOK)
}

func (c *TransportController) ValidateRequest(ctx echo.Context) error {
	var payload dto.CreateTransportRequestDTO
	if err := bindJSON(ctx, &payload); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	result, err := c.transportService.ValidateRequest(ctx.Request().Context(), payload)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return ctx.JSON(http.StatusOK, result)
}

func (c *TransportController) GetItems(ctx echo.Context) error {
	filter := utils.ParseFilterFromQuery(ctx.Request().URL.Query())
	items, total, err := c.transportService.GetItems(ctx.Request().Context(), filter)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, items, "Pozycje transportu", http.StatusOK, total)
}

func (c *TransportController) FindItem(ctx echo.Context) error {
	id, err := utils.ParseIDParam(ctx, "id")
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	item, err := c.transportService.FindItem(ctx.Request().Context(), id)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, item, "Pozycja znaleziona", http.StatusOK)
}

func (c *TransportController) CreateItem(ctx echo.Context) error {
	var payload dto.CreateTransportItemDTO
	if err := bindBody(ctx, &payload); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	item, err := c.transportService.CreateItem(ctx.Request().Context(), payload)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, item, "Pozycja dodana", http.StatusCreated)
}

func (c *TransportController) UpdateItem(ctx echo.Context) error {
	id, err := utils.ParseIDParam(ctx, "id")
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	var payload dto.UpdateTransportItemDTO
	rawBody, err := bindPatch(ctx, &payload)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	item, err := c.transportService.UpdateItem(ctx.Request().Context(), id, payload, rawBody)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, item, "Pozycja zaktualizowana", http.StatusOK)
}

func (c *TransportController) DeleteItem(ctx echo.Context) error {
	id, err := utils.ParseIDParam(ctx, "id")
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	if err := c.transportService.DeleteItem(ctx.Request().Context(), id); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, struct{}{}, "Pozycja usunięta", http.StatusOK)
}
