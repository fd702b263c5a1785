package controllers

import (
	"net/http"

	"solarforyou/internal/dto"
	"solarforyou/internal/services"
	"solarforyou/pkg/utils"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

type ItemController struct {
	itemService services.ItemServiceInterface
	logger      *zap.Logger
}

func NewItemController(itemService services.ItemServiceInterface, logger *zap.Logger) *ItemController {
	return &ItemController{itemService: itemService, logger: logger}
}

func (c *ItemController) GetItems(ctx echo.Context) error {
	filter := utils.ParseFilterFromQuery(ctx.Request().URL.Query())
	items, total, err := c.itemService.GetItems(ctx.Request().Context(), filter)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, items, "Lista towarów", http.StatusOK, total)
}

func (c *ItemController) FindItem(ctx echo.Context) error {
	id, err := utils.ParseIDParam(ctx, "id")
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	item, err := c.itemService.FindItem(ctx.Request().Context(), id)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, item, "Towar znaleziony", http.StatusOK)
}

func (c *ItemController) CreateItem(ctx echo.Context) error {
	var payload dto.CreateItemDTO
	if err := bindBody(ctx, &payload); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	item, err := c.itemService.CreateItem(ctx.Request().Context(), payload)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, item, "Towar utworzony", http.StatusCreated)
}

func (c *ItemController) UpdateItem(ctx echo.Context) error {
	id, err := utils.ParseIDParam(ctx, "id")
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	var payload dto.UpdateItemDTO
	rawBody, err := bindPatch(ctx, &payload)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	item, err := c.itemService.UpdateItem(ctx.Request().Context(), id, payload, rawBody)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, item, "Towar zaktualizowany", http.StatusOK)
}

func (c *ItemController) DeleteItem(ctx echo.Context) error {
	id, err := utils.ParseIDParam(ctx, "id")
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	if err := c.itemService.DeleteItem(ctx.Request().Context(), id); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, struct{}{}, "Towar usunięty", http.StatusOK)
}
