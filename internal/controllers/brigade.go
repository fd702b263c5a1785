package controllers

import (
	"net/http"

	"solarforyou/internal/dto"
	"solarforyou/internal/services"
	"solarforyou/pkg/utils"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// BrigadeController: лидер бригады - всегда текущий пользователь.
type BrigadeController struct {
	brigadeService services.BrigadeServiceInterface
	logger         *zap.Logger
}

func NewBrigadeController(brigadeService services.BrigadeServiceInterface, logger *zap.Logger) *BrigadeController {
	return &BrigadeController{brigadeService: brigadeService, logger: logger}
}

func (c *BrigadeController) GetMembers(ctx echo.Context) error {
	filter := utils.ParseFilterFromQuery(ctx.Request().URL.Query())
	members, total, err := c.brigadeService.GetMembers(ctx.Request().Context(), filter)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, members, "Członkowie brygady", http.StatusOK, total)
}

func (c *BrigadeController) FindMember(ctx echo.Context) error {
	id, err := utils.ParseIDParam(ctx, "id")
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	member, err := c.brigadeService.FindMember(ctx.Request().Context(), id)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, member, "Członek brygady", http.StatusOK)
}

func (c *BrigadeController) AddMember(ctx echo.Context) error {
	var payload dto.AddBrigadeMemberDTO
	if err := bindBody(ctx, &payload); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	member, err := c.brigadeService.AddMember(ctx.Request().Context(), payload)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, member, "Pracownik dodany do brygady", http.StatusCreated)
}

func (c *BrigadeController) RemoveMember(ctx echo.Context) error {
	id, err := utils.ParseIDParam(ctx, "id")
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	if err := c.brigadeService.RemoveMember(ctx.Request().Context(), id); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, struct{}{}, "Pracownik usunięty z brygady", http.StatusOK)
}

func (c *BrigadeController) SyncProject(ctx echo.Context) error {
	updated, err := c.brigadeService.SyncProject(ctx.Request().Context())
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, map[string]int{"updated": updated}, "Projekt brygady zaktualizowany", http.StatusOK)
}
