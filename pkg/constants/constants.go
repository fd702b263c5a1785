// pkg/constants/constants.go
package constants

//============== UPLOAD CONTEXTS ==============

type UploadContext string

const (
	UploadContextQuarterImage     UploadContext = "quarter_image"
	UploadContextReportImage      UploadContext = "report_image"
	UploadContextActivityWorkbook UploadContext = "activity_workbook"
)

func (uc UploadContext) String() string {
	return string(uc)
}

//============== CACHE KEYS ==============

const (
	// Формат: session:<uuid> -> userID
	CacheKeySession = "session:%s"

	// Формат: auth:privileges:user:<userID> -> JSON актора
	CacheKeyActor = "auth:privileges:user:%d"

	// Формат: login_attempts:<username> -> count
	CacheKeyLoginAttempts = "login_attempts:%s"
)

//============== EVENTS ==============

const (
	EventRequisitionCreated      = "requisition.created"
	EventHRRequisitionCreated    = "hr_requisition.created"
	EventTransportRequestCreated = "transport_request.created"
	EventTransportStatusChanged  = "transport_request.status_changed"
)

// Путь к JSON-конфигурации активностей проекта внутри файлового хранилища.
const ActivityConfigPathFormat = "activity_configs/%d.json"

// Формат даты в письмах и выгрузках.
const DisplayDateLayout = "02.01.2006"
