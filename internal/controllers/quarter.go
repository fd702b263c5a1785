package controllers

import (
	"net/http"

	"solarforyou/internal/dto"
	"solarforyou/internal/services"
	"solarforyou/pkg/utils"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

type QuarterController struct {
	quarterService services.QuarterServiceInterface
	logger         *zap.Logger
}

func NewQuarterController(quarterService services.QuarterServiceInterface, logger *zap.Logger) *QuarterController {
	return &QuarterController{quarterService: quarterService, logger: logger}
}

func (c *QuarterController) GetQuarters(ctx echo.Context) error {
	filter := utils.ParseFilterFromQuery(ctx.Request().URL.Query())
	quarters, total, err := c.quarterService.GetQuarters(ctx.Request().Context(), filter)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, quarters, "Lista kwater", http.StatusOK, total)
}

func (c *QuarterController) FindQuarter(ctx echo.Context) error {
	id, err := utils.ParseIDParam(ctx, "id")
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	quarter, err := c.quarterService.FindQuarter(ctx.Request().Context(), id)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, quarter, "Kwatera znaleziona", http.StatusOK)
}

func (c *QuarterController) CreateQuarter(ctx echo.Context) error {
	var payload dto.CreateQuarterDTO
	if err := bindBody(ctx, &payload); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	quarter, err := c.quarterService.CreateQuarter(ctx.Request().Context(), payload)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, quarter, "Kwatera utworzona", http.StatusCreated)
}

func (c *QuarterController) UpdateQuarter(ctx echo.Context) error {
	id, err := utils.ParseIDParam(ctx, "id")
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	var payload dto.UpdateQuarterDTO
	rawBody, err := bindPatch(ctx, &payload)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	quarter, err := c.quarterService.UpdateQuarter(ctx.Request().Context(), id, payload, rawBody)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, quarter, "Kwatera zaktualizowana", http.StatusOK)
}

func (c *QuarterController) DeleteQuarter(ctx echo.Context) error {
	id, err := utils.ParseIDParam(ctx, "id")
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	if err := c.quarterService.DeleteQuarter(ctx.Request().Context(), id); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, struct{}{}, "Kwatera usunięta", http.StatusOK)
}

func (c *QuarterController) AssignEmployee(ctx echo.Context) error {
	var payload dto.AssignQuarterDTO
	if err := bindBody(ctx, &payload); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	employee, err := c.quarterService.AssignEmployee(ctx.Request().Context(), payload)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, employee, "Pracownik zakwaterowany", http.StatusOK)
}

func (c *QuarterController) RemoveEmployee(ctx echo.Context) error {
	var payload dto.RemoveFromQuarterDTO
	if err := bindBody(ctx, &payload); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	employee, err := c.quarterService.RemoveEmployee(ctx.Request().Context(), payload.EmployeeID)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, employee, "Pracownik wykwaterowany", http.StatusOK)
}

func (c *QuarterController) GetImages(ctx echo.Context) error {
	filter := utils.ParseFilterFromQuery(ctx.Request().URL.Query())
	images, total, err := c.quarterService.GetImages(ctx.Request().Context(), filter)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, images, "Zdjęcia kwatery", http.StatusOK, total)
}

func (c *QuarterController) FindImage(ctx echo.Context) error {
	id, err := utils.ParseIDParam(ctx, "id")
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	image, err := c.quarterService.FindImage(ctx.Request().Context(), id)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, image, "Zdjęcie znalezione", http.StatusOK)
}

func (c *QuarterController) UploadImage(ctx echo.Context) error {
	quarterID, name, header, err := imageUpload(ctx, "quarter")
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	image, err := c.quarterService.UploadImage(ctx.Request().Context(), quarterID, name, header)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, image, "Zdjęcie dodane", http.StatusCreated)
}

func (c *QuarterController) RenameImage(ctx echo.Context) error {
	id, err := utils.ParseIDParam(ctx, "id")
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	var payload dto.RenameImageDTO
	if err := bindBody(ctx, &payload); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	image, err := c.quarterService.RenameImage(ctx.Request().Context(), id, payload.Name)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, image, "Zdjęcie zaktualizowane", http.StatusOK)
}

func (c *QuarterController) DeleteImage(ctx echo.Context) error {
	id, err := utils.ParseIDParam(ctx, "id")
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	if err := c.quarterService.DeleteImage(ctx.Request().Context(), id); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, struct{}{}, "Zdjęcie usunięte", http.StatusOK)
}
