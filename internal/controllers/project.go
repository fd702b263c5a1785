package controllers

import (
	"net/http"
	"strings"

	"solarforyou/internal/dto"
	"solarforyou/internal/services"
	"solarforyou/pkg/utils"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

type ProjectController struct {
	projectService services.ProjectServiceInterface
	logger         *zap.Logger
}

func NewProjectController(projectService services.ProjectServiceInterface, logger *zap.Logger) *ProjectController {
	return &ProjectController{projectService: projectService, logger: logger}
}

func (c *ProjectController) GetProjects(ctx echo.Context) error {
	filter := utils.ParseFilterFromQuery(ctx.Request().URL.Query())
	projects, total, err := c.projectService.GetProjects(ctx.Request().Context(), filter)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, projects, "Lista projektów", http.StatusOK, total)
}

func (c *ProjectController) FindProject(ctx echo.Context) error {
	id, err := utils.ParseIDParam(ctx, "id")
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	project, err := c.projectService.FindProject(ctx.Request().Context(), id)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, project, "Projekt znaleziony", http.StatusOK)
}

func (c *ProjectController) CreateProject(ctx echo.Context) error {
	var payload dto.CreateProjectDTO
	if err := bindBody(ctx, &payload); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	project, err := c.projectService.CreateProject(ctx.Request().Context(), payload)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, project, "Projekt utworzony", http.StatusCreated)
}

func (c *ProjectController) UpdateProject(ctx echo.Context) error {
	id, err := utils.ParseIDParam(ctx, "id")
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	var payload dto.UpdateProjectDTO
	rawBody, err := bindPatch(ctx, &payload)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	project, err := c.projectService.UpdateProject(ctx.Request().Context(), id, payload, rawBody)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, project, "Projekt zaktualizowany", http.StatusOK)
}

func (c *ProjectController) DeleteProject(ctx echo.Context) error {
	id, err := utils.ParseIDParam(ctx, "id")
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	if err := c.projectService.DeleteProject(ctx.Request().Context(), id); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, struct{}{}, "Projekt usunięty", http.StatusOK)
}

// CheckName: GET /check-project-name?name=&exclude_id=
func (c *ProjectController) CheckName(ctx echo.Context) error {
	name := strings.TrimSpace(ctx.QueryParam("name"))
	excludeID, err := queryID(ctx, "exclude_id")
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	exists := false
	if name != "" {
		exists, err = c.projectService.CheckName(ctx.Request().Context(), name, excludeID)
		if err != nil {
			return utils.ErrorResponse(ctx, err, c.logger)
		}
	}
	return ctx.JSON(http.StatusOK, dto.ExistsDTO{Exists: exists})
}

type ClientController struct {
	clientService services.ClientServiceInterface
	logger        *zap.Logger
}

func NewClientController(clientService services.ClientServiceInterface, logger *zap.Logger) *ClientController {
	return &ClientController{clientService: clientService, logger: logger}
}

func (c *ClientController) GetClients(ctx echo.Context) error {
	filter := utils.ParseFilterFromQuery(ctx.Request().URL.Query())
	clients, total, err := c.clientService.GetClients(ctx.Request().Context(), filter)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, clients, "Lista klientów", http.StatusOK, total)
}

func (c *ClientController) FindClient(ctx echo.Context) error {
	id, err := utils.ParseIDParam(ctx, "id")
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	client, err := c.clientService.FindClient(ctx.Request().Context(), id)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, client, "Klient znaleziony", http.StatusOK)
}

func (c *ClientController) CreateClient(ctx echo.Context) error {
	var payload dto.CreateClientDTO
	if err := bindBody(ctx, &payload); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	client, err := c.clientService.CreateClient(ctx.Request().Context(), payload)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, client, "Klient utworzony", http.StatusCreated)
}

func (c *ClientController) UpdateClient(ctx echo.Context) error {
	id, err := utils.ParseIDParam(ctx, "id")
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	var payload dto.UpdateClientDTO
	rawBody, err := bindPatch(ctx, &payload)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	client, err := c.clientService.UpdateClient(ctx.Request().Context(), id, payload, rawBody)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, client, "Klient zaktualizowany", http.StatusOK)
}

func (c *ClientController) DeleteClient(ctx echo.Context) error {
	id, err := utils.ParseIDParam(ctx, "id")
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	if err := c.clientService.DeleteClient(ctx.Request().Context(), id); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, struct{}{}, "Klient usunięty", http.StatusOK)
}

// TagController обслуживает и теги проектов, и теги сотрудников: различаются сервисом.
type TagController struct {
	tagService services.TagServiceInterface
	logger     *zap.Logger
}

func NewTagController(tagService services.TagServiceInterface, logger *zap.Logger) *TagController {
	return &TagController{tagService: tagService, logger: logger}
}

func (c *TagController) GetTags(ctx echo.Context) error {
	filter := utils.ParseFilterFromQuery(ctx.Request().URL.Query())
	tags, total, err := c.tagService.GetTags(ctx.Request().Context(), filter)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, tags, "Lista tagów", http.StatusOK, total)
}

func (c *TagController) FindTag(ctx echo.Context) error {
	id, err := utils.ParseIDParam(ctx, "id")
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	tag, err := c.tagService.FindTag(ctx.Request().Context(), id)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, tag, "Tag znaleziony", http.StatusOK)
}

func (c *TagController) CreateTag(ctx echo.Context) error {
	var payload dto.CreateTagDTO
	if err := bindBody(ctx, &payload); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	tag, err := c.tagService.CreateTag(ctx.Request().Context(), payload)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, tag, "Tag utworzony", http.StatusCreated)
}

func (c *TagController) UpdateTag(ctx echo.Context) error {
	id, err := utils.ParseIDParam(ctx, "id")
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	var payload dto.UpdateTagDTO
	rawBody, err := bindPatch(ctx, &payload)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	tag, err := c.tagService.UpdateTag(ctx.Request().Context(), id, payload, rawBody)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, tag, "Tag zaktualizowany", http.StatusOK)
}

func (c *TagController) DeleteTag(ctx echo.Context) error {
	id, err := utils.ParseIDParam(ctx, "id")
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	if err := c.tagService.DeleteTag(ctx.Request().Context(), id); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, struct{}{}, "Tag usunięty", http.StatusOK)
}
