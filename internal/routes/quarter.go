package routes

import (
	"solarforyou/internal/controllers"

	"github.com/labstack/echo/v4"
)

func runQuarterRouter(secureGroup *echo.Group, quarterCtrl *controllers.QuarterController) {
	crud(secureGroup, "/quarters", quarterCtrl.GetQuarters, quarterCtrl.FindQuarter, quarterCtrl.CreateQuarter, quarterCtrl.UpdateQuarter, quarterCtrl.DeleteQuarter)
	secureGroup.POST("/assign-employee-to-quarter", quarterCtrl.AssignEmployee)
	secureGroup.POST("/remove-employee-from-quarter", quarterCtrl.RemoveEmployee)

	crud(secureGroup, "/quarter-images", quarterCtrl.GetImages, quarterCtrl.FindImage, quarterCtrl.UploadImage, quarterCtrl.RenameImage, quarterCtrl.DeleteImage)
}
