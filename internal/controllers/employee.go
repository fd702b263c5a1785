package controllers

import (
	"net/http"

	"solarforyou/internal/dto"
	"solarforyou/internal/services"
	"solarforyou/pkg/utils"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

type EmployeeController struct {
	employeeService services.EmployeeServiceInterface
	logger          *zap.Logger
}

func NewEmployeeController(employeeService services.EmployeeServiceInterface, logger *zap.Logger) *EmployeeController {
	return &EmployeeController{employeeService: employeeService, logger: logger}
}

func (c *EmployeeController) GetEmployees(ctx echo.Context) error {
	filter := utils.ParseFilterFromQuery(ctx.Request().URL.Query())
	employees, total, err := c.employeeService.GetEmployees(ctx.Request().Context(), filter)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, employees, "Lista pracowników", http.StatusOK, total)
}

// GetAvailable - сотрудники, не входящие ни в одну бригаду.
func (c *EmployeeController) GetAvailable(ctx echo.Context) error {
	filter := utils.ParseFilterFromQuery(ctx.Request().URL.Query())
	employees, total, err := c.employeeService.GetAvailableEmployees(ctx.Request().Context(), filter)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, employees, "Dostępni pracownicy", http.StatusOK, total)
}

func (c *EmployeeController) FindEmployee(ctx echo.Context) error {
	id, err := utils.ParseIDParam(ctx, "id")
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	employee, err := c.employeeService.FindEmployee(ctx.Request().Context(), id)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, employee, "Pracownik znaleziony", http.StatusOK)
}

func (c *EmployeeController) CreateEmployee(ctx echo.Context) error {
	var payload dto.CreateEmployeeDTO
	if err := bindBody(ctx, &payload); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	employee, err := c.employeeService.CreateEmployee(ctx.Request().Context(), payload)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, employee, "Pracownik utworzony", http.StatusCreated)
}

func (c *EmployeeController) UpdateEmployee(ctx echo.Context) error {
	id, err := utils.ParseIDParam(ctx, "id")
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	var payload dto.UpdateEmployeeDTO
	rawBody, err := bindPatch(ctx, &payload)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	employee, err := c.employeeService.UpdateEmployee(ctx.Request().Context(), id, payload, rawBody)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, employee, "Pracownik zaktualizowany", http.StatusOK)
}

func (c *EmployeeController) DeleteEmployee(ctx echo.Context) error {
	id, err := utils.ParseIDParam(ctx, "id")
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	if err := c.employeeService.DeleteEmployee(ctx.Request().Context(), id); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, struct{}{}, "Pracownik usunięty", http.StatusOK)
}

func (c *EmployeeController) AssignProject(ctx echo.Context) error {
	id, err := utils.ParseIDParam(ctx, "id")
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	var payload dto.AssignProjectDTO
	if err := bindBody(ctx, &payload); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	employee, err := c.employeeService.AssignProject(ctx.Request().Context(), id, payload.ProjectID)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, employee, "Projekt przypisany", http.StatusOK)
}

// CheckPesel: GET /check-pesel?pesel=&exclude_id=
func (c *EmployeeController) CheckPesel(ctx echo.Context) error {
	excludeID, err := queryID(ctx, "exclude_id")
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	result, err := c.employeeService.CheckPesel(ctx.Request().Context(), ctx.QueryParam("pesel"), excludeID)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return ctx.JSON(http.StatusOK, result)
}
