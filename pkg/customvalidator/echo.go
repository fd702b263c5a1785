package customvalidator

import (
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// EchoValidator реализует echo.Validator поверх validator с правилами пакета.
// Поля в ошибках называются по json-тегу, как их видит клиент.
type EchoValidator struct {
	validate *validator.Validate
}

func New() (*EchoValidator, error) {
	v := validator.New()
	if err := RegisterCustomValidations(v); err != nil {
		return nil, err
	}
	v.RegisterTagNameFunc(jsonFieldName)
	return &EchoValidator{validate: v}, nil
}

func (ev *EchoValidator) Validate(i interface{}) error {
	return ev.validate.Struct(i)
}

func jsonFieldName(field reflect.StructField) string {
	name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
	switch name {
	case "-":
		return ""
	case "":
		return field.Name
	}
	return name
}
