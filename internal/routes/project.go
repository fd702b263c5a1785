package routes

import (
	"solarforyou/internal/controllers"

	"github.com/labstack/echo/v4"
)

func runProjectRouter(
	secureGroup *echo.Group,
	projectCtrl *controllers.ProjectController,
	clientCtrl *controllers.ClientController,
	tagCtrl *controllers.TagController,
	activityCtrl *controllers.ActivityConfigController,
) {
	crud(secureGroup, "/projects", projectCtrl.GetProjects, projectCtrl.FindProject, projectCtrl.CreateProject, projectCtrl.UpdateProject, projectCtrl.DeleteProject)
	secureGroup.GET("/check-project-name", projectCtrl.CheckName)

	crud(secureGroup, "/clients", clientCtrl.GetClients, clientCtrl.FindClient, clientCtrl.CreateClient, clientCtrl.UpdateClient, clientCtrl.DeleteClient)
	crud(secureGroup, "/project-tags", tagCtrl.GetTags, tagCtrl.FindTag, tagCtrl.CreateTag, tagCtrl.UpdateTag, tagCtrl.DeleteTag)

	secureGroup.GET("/project-activities-config", activityCtrl.GetConfig)
	secureGroup.POST("/project-activities-config", activityCtrl.SaveConfig)
	secureGroup.POST("/project-activities-config/import", activityCtrl.ImportWorkbook)
}
