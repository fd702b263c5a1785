// internal/authz/permissions.go
package authz

// --- СПИСОК ВСЕХ ПРИВИЛЕГИЙ В СИСТЕМЕ ---
// Привилегии - непрозрачные строки, сравниваются только на точное совпадение.

const (
	// Пользователи
	AdminUsers  = "admin_users"
	ManageUsers = "manage_users"

	// Проекты и клиенты
	ManageProjects  = "manage_projects"
	ViewAllProjects = "view_all_projects"
	ManageClients   = "manage_clients"

	// Прочие модули
	ManageComponents = "manage_components"
	ViewReports      = "view_reports"
	ExportData       = "export_data"
	ManageNotes      = "manage_notes"
	ManageInvoices   = "manage_invoices"

	ManageEmployees     = "manage_employees"
	ManageQuarters      = "manage_quarters"
	ManageRequisitions  = "manage_requisitions"
	ViewAllRequisitions = "view_all_requisitions"
	ManageWarehouse     = "manage_warehouse"
	ManageTransport     = "manage_transport"
	ManageHR            = "manage_hr"
	ManageReports       = "manage_reports"
)

// Catalogue - известные системе привилегии с описанием для интерфейса администратора.
var Catalogue = []struct {
	Code  string `json:"code"`
	Label string `json:"label"`
}{
	{AdminUsers, "Administracja użytkownikami"},
	{ManageUsers, "Zarządzanie użytkownikami"},
	{ManageProjects, "Zarządzanie projektami"},
	{ViewAllProjects, "Podgląd wszystkich projektów"},
	{ManageComponents, "Zarządzanie komponentami"},
	{ViewReports, "Podgląd raportów"},
	{ExportData, "Eksport danych"},
	{ManageNotes, "Zarządzanie notatkami"},
	{ManageClients, "Zarządzanie klientami"},
	{ManageInvoices, "Zarządzanie fakturami"},
	{ManageEmployees, "Zarządzanie pracownikami"},
	{ManageQuarters, "Zarządzanie kwaterami"},
	{ManageRequisitions, "Zapotrzebowania materiałowe"},
	{ViewAllRequisitions, "Podgląd wszystkich zapotrzebowań"},
	{ManageWarehouse, "Magazyn"},
	{ManageTransport, "Transport"},
	{ManageHR, "Zapotrzebowania kadrowe"},
	{ManageReports, "Raporty postępu"},
}

func IsKnown(privilege string) bool {
	for _, p := range Catalogue {
		if p.Code == privilege {
			return true
		}
	}
	return false
}
