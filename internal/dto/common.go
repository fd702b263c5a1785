package dto

// ValidationResultDTO - ответ эндпоинтов validate-* без сохранения данных.
type ValidationResultDTO struct {
	Valid  bool              `json:"valid"`
	Errors map[string]string `json:"errors"`
}

type ExistsDTO struct {
	Exists bool `json:"exists"`
}

type PeselCheckDTO struct {
	Valid   bool   `json:"valid"`
	Exists  bool   `json:"exists"`
	Message string `json:"message"`
}

type DetailDTO struct {
	Detail string `json:"detail"`
}
