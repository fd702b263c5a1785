package controllers

import (
	"net/http"

	"solarforyou/internal/dto"
	"solarforyou/internal/services"
	"solarforyou/pkg/utils"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

type ProgressReportController struct {
	reportService services.ProgressReportServiceInterface
	logger        *zap.Logger
}

func NewProgressReportController(reportService services.ProgressReportServiceInterface, logger *zap.Logger) *ProgressReportController {
	return &ProgressReportController{reportService: reportService, logger: logger}
}

func (c *ProgressReportController) GetReports(ctx echo.Context) error {
	filter := utils.ParseFilterFromQuery(ctx.Request().URL.Query())
	reports, total, err := c.reportService.GetReports(ctx.Request().Context(), filter)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, reports, "Lista raportów", http.StatusOK, total)
}

func (c *ProgressReportController) FindReport(ctx echo.Context) error {
	id, err := utils.ParseIDParam(ctx, "id")
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	report, err := c.reportService.FindReport(ctx.Request().Context(), id)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, report, "Raport znaleziony", http.StatusOK)
}

func (c *ProgressReportController) CreateReport(ctx echo.Context) error {
	var payload dto.CreateProgressReportDTO
	if err := bindBody(ctx, &payload); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	report, err := c.reportService.CreateReport(ctx.Request().Context(), payload)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, report, "Raport utworzony", http.StatusCreated)
}

// CreateBulk создаёт отчёт вместе с записями сотрудников.
func (c *ProgressReportController) CreateBulk(ctx echo.Context) error {
	var payload dto.BulkProgressReportDTO
	if err := bindBody(ctx, &payload); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	report, err := c.reportService.CreateBulk(ctx.Request().Context(), payload)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, report, "Raport utworzony", http.StatusCreated)
}

func (c *ProgressReportController) UpdateReport(ctx echo.Context) error {
	id, err := utils.ParseIDParam(ctx, "id")
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	var payload dto.UpdateProgressReportDTO
	rawBody, err := bindPatch(ctx, &payload)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	report, err := c.reportService.UpdateReport(ctx.Request().Context(), id, payload, rawBody)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, report, "Raport zaktualizowany", http.StatusOK)
}

func (c *ProgressReportController) DeleteReport(ctx echo.Context) error {
	id, err := utils.ParseIDParam(ctx, "id")
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	if err := c.reportService.DeleteReport(ctx.Request().Context(), id); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, struct{}{}, "Raport usunięty", http.StatusOK)
}

func (c *ProgressReportController) GetEntries(ctx echo.Context) error {
	filter := utils.ParseFilterFromQuery(ctx.Request().URL.Query())
	entries, total, err := c.reportService.GetEntries(ctx.Request().Context(), filter)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, entries, "Wpisy raportów", http.StatusOK, total)
}

func (c *ProgressReportController) FindEntry(ctx echo.Context) error {
	id, err := utils.ParseIDParam(ctx, "id")
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	entry, err := c.reportService.FindEntry(ctx.Request().Context(), id)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, entry, "Wpis znaleziony", http.StatusOK)
}

func (c *ProgressReportController) CreateEntry(ctx echo.Context) error {
	var payload dto.CreateReportEntryDTO
	if err := bindBody(ctx, &payload); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	entry, err := c.reportService.CreateEntry(ctx.Request().Context(), payload)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, entry, "Wpis dodany", http.StatusCreated)
}

func (c *ProgressReportController) UpdateEntry(ctx echo.Context) error {
	id, err := utils.ParseIDParam(ctx, "id")
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	var payload dto.UpdateReportEntryDTO
	rawBody, err := bindPatch(ctx, &payload)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	entry, err := c.reportService.UpdateEntry(ctx.Request().Context(), id, payload, rawBody)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, entry, "Wpis zaktualizowany", http.StatusOK)
}

func (c *ProgressReportController) DeleteEntry(ctx echo.Context) error {
	id, err := utils.ParseIDParam(ctx, "id")
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	if err := c.reportService.DeleteEntry(ctx.Request().Context(), id); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, struct{}{}, "Wpis usunięty", http.StatusOK)
}

func (c *ProgressReportController) GetImages(ctx echo.Context) error {
	filter := utils.ParseFilterFromQuery(ctx.Request().URL.Query())
	images, total, err := c.reportService.GetImages(ctx.Request().Context(), filter)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, images, "Zdjęcia raportów", http.StatusOK, total)
}

func (c *ProgressReportController) FindImage(ctx echo.Context) error {
	id, err := utils.ParseIDParam(ctx, "id")
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	image, err := c.reportService.FindImage(ctx.Request().Context(), id)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, image, "Zdjęcie znalezione", http.StatusOK)
}

func (c *ProgressReportController) UploadImage(ctx echo.Context) error {
	reportID, name, header, err := imageUpload(ctx, "report")
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	image, err := c.reportService.UploadImage(ctx.Request().Context(), reportID, name, header)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, image, "Zdjęcie dodane", http.StatusCreated)
}

func (c *ProgressReportController) RenameImage(ctx echo.Context) error {
	id, err := utils.ParseIDParam(ctx, "id")
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	var payload dto.RenameImageDTO
	if err := bindBody(ctx, &payload); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	image, err := c.reportService.RenameImage(ctx.Request().Context(), id, payload.Name)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, image, "Zdjęcie zaktualizowane", http.StatusOK)
}

func (c *ProgressReportController) DeleteImage(ctx echo.Context) error {
	id, err := utils.ParseIDParam(ctx, "id")
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	if err := c.reportService.DeleteImage(ctx.Request().Context(), id); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, struct{}{}, "Zdjęcie usunięte", http.StatusOK)
}

func (c *ProgressReportController) GetActivities(ctx echo.Context) error {
	filter := utils.ParseFilterFromQuery(ctx.Request().URL.Query())
	activities, total, err := c.reportService.GetActivities(ctx.Request().Context(), filter)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, activities, "Aktywności raportów", http.StatusOK, total)
}

func (c *ProgressReportController) FindActivity(ctx echo.Context) error {
	id, err := utils.ParseIDParam(ctx, "id")
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	activity, err := c.reportService.FindActivity(ctx.Request().Context(), id)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, activity, "Aktywność znaleziona", http.StatusOK)
}

func (c *ProgressReportController) CreateActivity(ctx echo.Context) error {
	var payload dto.CreateActivityDTO
	if err := bindBody(ctx, &payload); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	activity, err := c.reportService.CreateActivity(ctx.Request().Context(), payload)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, activity, "Aktywność dodana", http.StatusCreated)
}

func (c *ProgressReportController) UpdateActivity(ctx echo.Context) error {
	id, err := utils.ParseIDParam(ctx, "id")
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	var payload dto.UpdateActivityDTO
	rawBody, err := bindPatch(ctx, &payload)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	activity, err := c.reportService.UpdateActivity(ctx.Request().Context(), id, payload, rawBody)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, activity, "Aktywność zaktualizowana", http.StatusOK)
}

func (c *ProgressReportController) DeleteActivity(ctx echo.Context) error {
	id, err := utils.ParseIDParam(ctx, "id")
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	if err := c.reportService.DeleteActivity(ctx.Request().Context(), id); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, struct{}{}, "Aktywność usunięta", http.StatusOK)
}

func (c *ProgressReportController) AddActivities(ctx echo.Context) error {
	var payload dto.AddActivitiesDTO
	if err := bindBody(ctx, &payload); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	report, err := c.reportService.AddActivities(ctx.Request().Context(), payload)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, report, "Aktywności dodane do raportu", http.StatusOK)
}
