package errors

import (
	"fmt"
	"net/http"
)

var (
	// JWT и сессии
	ErrInvalidSigningMethod = fmt.Errorf("nieprawidłowa metoda podpisu tokenu")
	ErrInvalidToken         = fmt.Errorf("nieprawidłowy token")
	ErrTokenExpired         = fmt.Errorf("token wygasł")
	ErrSessionNotFound      = fmt.Errorf("sesja nie istnieje lub wygasła")

	// Авторизация
	ErrEmptyAuthHeader    = fmt.Errorf("nie podano danych uwierzytelniających")
	ErrInvalidAuthHeader  = fmt.Errorf("nieprawidłowy format nagłówka Authorization")
	ErrInvalidCredentials = fmt.Errorf("nieprawidłowa nazwa użytkownika lub hasło")
	ErrUserInactive       = fmt.Errorf("konto jest nieaktywne")
	ErrUnauthorized       = fmt.Errorf("brak autoryzacji")
	ErrForbidden          = fmt.Errorf("brak uprawnień")

	// Контекст
	ErrUserIDNotFoundInContext = fmt.Errorf("brak identyfikatora użytkownika w kontekście żądania")

	// Общие
	ErrNotFound       = fmt.Errorf("nie znaleziono rekordu")
	ErrBadRequest     = fmt.Errorf("nieprawidłowe żądanie")
	ErrConflict       = fmt.Errorf("rekord o takich danych już istnieje")
	ErrInternalServer = fmt.Errorf("wewnętrzny błąd serwera")
)

// HttpError несёт код ответа, сообщение для клиента и исходную причину для лога.
type HttpError struct {
	Code    int
	Message string
	Err     error
	Details interface{}
	Context map[string]interface{}
}

func (e *HttpError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *HttpError) Unwrap() error { return e.Err }

func NewHttpError(code int, message string, err error, details interface{}) *HttpError {
	return &HttpError{Code: code, Message: message, Err: err, Details: details}
}

// StatusOf сопоставляет сигнальные ошибки с HTTP-кодами.
var StatusOf = map[error]int{
	ErrNotFound:                http.StatusNotFound,
	ErrBadRequest:              http.StatusBadRequest,
	ErrConflict:                http.StatusConflict,
	ErrForbidden:               http.StatusForbidden,
	ErrUnauthorized:            http.StatusUnauthorized,
	ErrEmptyAuthHeader:         http.StatusUnauthorized,
	ErrInvalidAuthHeader:       http.StatusUnauthorized,
	ErrInvalidCredentials:      http.StatusUnauthorized,
	ErrUserInactive:            http.StatusUnauthorized,
	ErrInvalidToken:            http.StatusUnauthorized,
	ErrInvalidSigningMethod:    http.StatusUnauthorized,
	ErrTokenExpired:            http.StatusUnauthorized,
	ErrSessionNotFound:         http.StatusUnauthorized,
	ErrUserIDNotFoundInContext: http.StatusUnauthorized,
}
