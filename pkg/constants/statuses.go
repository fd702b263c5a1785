package constants

import "slices"

// Статусы профиля пользователя.
const (
	ProfileStatusActive   = "active"
	ProfileStatusInactive = "inactive"
	ProfileStatusPending  = "pending"
)

// Статусы проекта.
const (
	ProjectStatusNew        = "new"
	ProjectStatusInProgress = "in_progress"
	ProjectStatusCompleted  = "completed"
	ProjectStatusCancelled  = "cancelled"
	ProjectStatusOnHold     = "on_hold"
)

var ProjectStatuses = []string{ProjectStatusNew, ProjectStatusInProgress, ProjectStatusCompleted, ProjectStatusCancelled, ProjectStatusOnHold}

// Статусы материальных и кадровых заявок.
const (
	RequisitionStatusToAccept   = "to_accept"
	RequisitionStatusAccepted   = "accepted"
	RequisitionStatusRejected   = "rejected"
	RequisitionStatusInProgress = "in_progress"
	RequisitionStatusCompleted  = "completed"
)

var RequisitionStatuses = []string{
	RequisitionStatusToAccept, RequisitionStatusAccepted, RequisitionStatusRejected,
	RequisitionStatusInProgress, RequisitionStatusCompleted,
}

const (
	RequisitionTypeMaterial = "material"
	RequisitionTypeTool     = "tool"
	RequisitionTypeOther    = "other"
)

var RequisitionTypes = []string{RequisitionTypeMaterial, RequisitionTypeTool, RequisitionTypeOther}

// Статусы заявок на транспорт.
const (
	TransportStatusNew        = "new"
	TransportStatusAccepted   = "accepted"
	TransportStatusInProgress = "in_progress"
	TransportStatusCompleted  = "completed"
	TransportStatusCancelled  = "cancelled"
)

var TransportStatuses = []string{TransportStatusNew, TransportStatusAccepted, TransportStatusInProgress, TransportStatusCompleted, TransportStatusCancelled}

var LoadingMethods = []string{"external", "internal"}

// IsOneOf проверяет значение по допустимому набору.
func IsOneOf(value string, allowed []string) bool {
	return slices.Contains(allowed, value)
}
