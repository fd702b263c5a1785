package routes

import (
	"net/http"

	"solarforyou/internal/authz"
)

// Policy - привилегии всех защищённых маршрутов /api.
// Ключ - шаблон пути echo, как его возвращает c.Path().
func Policy() authz.RoutePolicy {
	p := authz.RoutePolicy{}

	resource := func(required, path string) {
		p.Allow(required, "/api"+path, http.MethodGet, http.MethodPost)
		p.Allow(required, "/api"+path+"/:id", http.MethodGet, http.MethodPut, http.MethodPatch, http.MethodDelete)
	}
	action := func(required, method, path string) {
		p.Allow(required, "/api"+path, method)
	}

	// Пользователи и профили
	resource(authz.AdminUsers, "/users")
	action("", http.MethodGet, "/users/me")
	resource(authz.ManageUsers, "/profiles")
	action("", http.MethodGet, "/profiles/my-profile")

	// Настройки и бригада: доступ ограничен владельцем внутри сервиса
	p.Allow("", "/api/user-settings", http.MethodGet)
	p.Allow("", "/api/user-settings/:id", http.MethodGet, http.MethodPut, http.MethodPatch, http.MethodDelete)
	p.Allow("", "/api/user-settings/me", http.MethodGet, http.MethodPatch)
	p.Allow("", "/api/brigade-members", http.MethodGet, http.MethodPost)
	p.Allow("", "/api/brigade-members/:id", http.MethodGet, http.MethodDelete)
	action("", http.MethodPost, "/brigade-members/update-project")
	action("", http.MethodGet, "/available-employees")
	action("", http.MethodGet, "/ws")

	// Проекты и клиенты
	resource(authz.ManageProjects, "/projects")
	resource(authz.ManageProjects, "/project-tags")
	action(authz.ManageProjects, http.MethodGet, "/check-project-name")
	p.Allow(authz.ManageProjects, "/api/project-activities-config", http.MethodGet, http.MethodPost)
	action(authz.ManageProjects, http.MethodPost, "/project-activities-config/import")
	resource(authz.ManageClients, "/clients")

	// Персонал и кварталы
	resource(authz.ManageEmployees, "/employees")
	resource(authz.ManageEmployees, "/employee-tags")
	action(authz.ManageEmployees, http.MethodPost, "/employees/:id/assign-project")
	action(authz.ManageEmployees, http.MethodGet, "/check-pesel")
	resource(authz.ManageQuarters, "/quarters")
	resource(authz.ManageQuarters, "/quarter-images")
	action(authz.ManageQuarters, http.MethodPost, "/assign-employee-to-quarter")
	action(authz.ManageQuarters, http.MethodPost, "/remove-employee-from-quarter")

	// Склад и заявки
	resource(authz.ManageWarehouse, "/items")
	resource(authz.ManageRequisitions, "/requisitions")
	resource(authz.ManageRequisitions, "/requisition-items")
	action(authz.ManageRequisitions, http.MethodPost, "/validate-requisition")
	action(authz.ExportData, http.MethodGet, "/export-requisitions")

	resource(authz.ManageHR, "/hr-requisitions")
	resource(authz.ManageHR, "/hr-requisition-positions")
	action(authz.ManageHR, http.MethodPost, "/validate-hr-requisition")

	resource(authz.ManageTransport, "/transport-requests")
	resource(authz.ManageTransport, "/transport-items")
	action(authz.ManageTransport, http.MethodPost, "/transport-requests/:id/change-status")
	action(authz.ManageTransport, http.MethodPost, "/validate-transport-request")

	// Отчёты о ходе работ
	resource(authz.ManageReports, "/progress-reports")
	resource(authz.ManageReports, "/progress-report-entries")
	resource(authz.ManageReports, "/progress-report-images")
	resource(authz.ManageReports, "/progress-report-activities")
	action(authz.ManageReports, http.MethodPost, "/progress-reports/bulk")
	action(authz.ManageReports, http.MethodPost, "/add-activities-to-report")

	return p
}
