package controllers

import (
	"fmt"
	"net/http"
	"time"

	"solarforyou/internal/dto"
	"solarforyou/internal/services"
	"solarforyou/pkg/constants"
	"solarforyou/pkg/utils"

	"github.com/labstack/echo/v4"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

type RequisitionExportController struct {
	requisitionService services.RequisitionServiceInterface
	logger             *zap.Logger
}

func NewRequisitionExportController(requisitionService services.RequisitionServiceInterface, logger *zap.Logger) *RequisitionExportController {
	return &RequisitionExportController{requisitionService: requisitionService, logger: logger}
}

var requisitionExportHeaders = []string{
	"Numer", "Projekt", "Typ", "Status", "Termin", "Zgłaszający",
	"Indeks", "Towar", "Ilość", "J.m.", "Cena", "Wartość", "Razem",
}

// Export выгружает видимые пользователю заявки: строка на каждую позицию.
func (c *RequisitionExportController) Export(ctx echo.Context) error {
	filter := utils.ParseFilterFromQuery(ctx.Request().URL.Query())
	filter.WithPagination = false

	list, _, err := c.requisitionService.GetRequisitions(ctx.Request().Context(), filter)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	c.logger.Debug("Экспорт заявок", zap.Int("count", len(list)))

	f, err := buildRequisitionWorkbook(list)
	if err != nil {
		c.logger.Error("Не удалось сформировать xlsx", zap.Error(err))
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	defer f.Close()

	fileName := fmt.Sprintf("zapotrzebowania_%s.xlsx", time.Now().Format("2006-01-02"))
	ctx.Response().Header().Set(echo.HeaderContentType, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	ctx.Response().Header().Set(echo.HeaderContentDisposition, "attachment; filename="+fileName)
	ctx.Response().WriteHeader(http.StatusOK)
	return f.Write(ctx.Response().Writer)
}

func requisitionRows(r *dto.RequisitionDTO) [][]interface{} {
	head := []interface{}{
		r.Number, r.ProjectName, r.RequisitionType, r.Status,
		r.Deadline.Format(constants.DisplayDateLayout), r.CreatedByName,
	}
	total, _ := r.TotalPrice.Float64()
	if len(r.Items) == 0 {
		return [][]interface{}{append(head, "", "", "", "", "", "", total)}
	}
	rows := make([][]interface{}, 0, len(r.Items))
	for _, item := range r.Items {
		qty, _ := item.Quantity.Float64()
		price, _ := item.Price.Float64()
		value, _ := item.Price.Mul(item.Quantity).Round(2).Float64()
		row := append(append([]interface{}{}, head...), item.ItemIndex, item.ItemName, qty, item.ItemUnit, price, value, total)
		rows = append(rows, row)
	}
	return rows
}

func buildRequisitionWorkbook(list []*dto.RequisitionDTO) (*excelize.File, error) {
	f := excelize.NewFile()
	sheet := "Zapotrzebowania"
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return nil, err
	}
	if err := f.SetSheetRow(sheet, "A1", &requisitionExportHeaders); err != nil {
		return nil, err
	}
	style, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, err
	}
	lastHeader, _ := excelize.CoordinatesToCellName(len(requisitionExportHeaders), 1)
	if err := f.SetCellStyle(sheet, "A1", lastHeader, style); err != nil {
		return nil, err
	}

	rowNum := 2
	for _, r := range list {
		for _, row := range requisitionRows(r) {
			cell, _ := excelize.CoordinatesToCellName(1, rowNum)
			row := row
			if err := f.SetSheetRow(sheet, cell, &row); err != nil {
				return nil, err
			}
			rowNum++
		}
	}
	f.SetColWidth(sheet, "A", "B", 22)
	f.SetColWidth(sheet, "F", "F", 25)
	f.SetColWidth(sheet, "H", "H", 40)
	return f, nil
}
