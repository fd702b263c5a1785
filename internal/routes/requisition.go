package routes

import (
	"solarforyou/internal/controllers"

	"github.com/labstack/echo/v4"
)

func runRequisitionRouter(
	secureGroup *echo.Group,
	itemCtrl *controllers.ItemController,
	requisitionCtrl *controllers.RequisitionController,
	exportCtrl *controllers.RequisitionExportController,
) {
	crud(secureGroup, "/items", itemCtrl.GetItems, itemCtrl.FindItem, itemCtrl.CreateItem, itemCtrl.UpdateItem, itemCtrl.DeleteItem)

	crud(secureGroup, "/requisitions", requisitionCtrl.GetRequisitions, requisitionCtrl.FindRequisition, requisitionCtrl.CreateRequisition, requisitionCtrl.UpdateRequisition, requisitionCtrl.DeleteRequisition)
	crud(secureGroup, "/requisition-items", requisitionCtrl.GetItems, requisitionCtrl.FindItem, requisitionCtrl.CreateItem, requisitionCtrl.UpdateItem, requisitionCtrl.DeleteItem)
	secureGroup.POST("/validate-requisition", requisitionCtrl.ValidateRequisition)
	secureGroup.GET("/export-requisitions", exportCtrl.Export)
}

func runHRRequisitionRouter(secureGroup *echo.Group, hrCtrl *controllers.HRRequisitionController) {
	crud(secureGroup, "/hr-requisitions", hrCtrl.GetRequisitions, hrCtrl.FindRequisition, hrCtrl.CreateRequisition, hrCtrl.UpdateRequisition, hrCtrl.DeleteRequisition)
	crud(secureGroup, "/hr-requisition-positions", hrCtrl.GetPositions, hrCtrl.FindPosition, hrCtrl.CreatePosition, hrCtrl.UpdatePosition, hrCtrl.DeletePosition)
	secureGroup.POST("/validate-hr-requisition", hrCtrl.ValidateRequisition)
}

func runTransportRouter(secureGroup *echo.Group, transportCtrl *controllers.TransportController) {
	crud(secureGroup, "/transport-requests", transportCtrl.GetRequests, transportCtrl.FindRequest, transportCtrl.CreateRequest, transportCtrl.UpdateRequest, transportCtrl.DeleteRequest)
	secureGroup.POST("/transport-requests/:id/change-status", transportCtrl.ChangeStatus)
	crud(secureGroup, "/transport-items", transportCtrl.GetItems, transportCtrl.FindItem, transportCtrl.CreateItem, transportCtrl.UpdateItem, transportCtrl.DeleteItem)
	secureGroup.POST("/validate-transport-request", transportCtrl.ValidateRequest)
}
