package routes

import (
	"solarforyou/internal/controllers"

	"github.com/labstack/echo/v4"
)

func runProgressReportRouter(secureGroup *echo.Group, reportCtrl *controllers.ProgressReportController) {
	crud(secureGroup, "/progress-reports", reportCtrl.GetReports, reportCtrl.FindReport, reportCtrl.CreateReport, reportCtrl.UpdateReport, reportCtrl.DeleteReport)
	secureGroup.POST("/progress-reports/bulk", reportCtrl.CreateBulk)

	crud(secureGroup, "/progress-report-entries", reportCtrl.GetEntries, reportCtrl.FindEntry, reportCtrl.CreateEntry, reportCtrl.UpdateEntry, reportCtrl.DeleteEntry)
	crud(secureGroup, "/progress-report-images", reportCtrl.GetImages, reportCtrl.FindImage, reportCtrl.UploadImage, reportCtrl.RenameImage, reportCtrl.DeleteImage)
	crud(secureGroup, "/progress-report-activities", reportCtrl.GetActivities, reportCtrl.FindActivity, reportCtrl.CreateActivity, reportCtrl.UpdateActivity, reportCtrl.DeleteActivity)
	secureGroup.POST("/add-activities-to-report", reportCtrl.AddActivities)
}
