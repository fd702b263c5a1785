package routes

import (
	"solarforyou/internal/controllers"

	"github.com/labstack/echo/v4"
)

func runEmployeeRouter(
	secureGroup *echo.Group,
	employeeCtrl *controllers.EmployeeController,
	tagCtrl *controllers.TagController,
	brigadeCtrl *controllers.BrigadeController,
) {
	crud(secureGroup, "/employees", employeeCtrl.GetEmployees, employeeCtrl.FindEmployee, employeeCtrl.CreateEmployee, employeeCtrl.UpdateEmployee, employeeCtrl.DeleteEmployee)
	secureGroup.POST("/employees/:id/assign-project", employeeCtrl.AssignProject)
	secureGroup.GET("/check-pesel", employeeCtrl.CheckPesel)
	secureGroup.GET("/available-employees", employeeCtrl.GetAvailable)

	crud(secureGroup, "/employee-tags", tagCtrl.GetTags, tagCtrl.FindTag, tagCtrl.CreateTag, tagCtrl.UpdateTag, tagCtrl.DeleteTag)

	// Бригада всегда принадлежит запросившему, обновления нет.
	secureGroup.GET("/brigade-members", brigadeCtrl.GetMembers)
	secureGroup.GET("/brigade-members/:id", brigadeCtrl.FindMember)
	secureGroup.POST("/brigade-members", brigadeCtrl.AddMember)
	secureGroup.DELETE("/brigade-members/:id", brigadeCtrl.RemoveMember)
	secureGroup.POST("/brigade-members/update-project", brigadeCtrl.SyncProject)
}
