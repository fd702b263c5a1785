package utils

import (
	"encoding/json"
	"reflect"
	"strings"
)

// ApplyPatch переносит в entity только те поля patchDTO, ключи которых присутствуют в теле запроса.
// Поле DTO сопоставляется с полем сущности по имени. Явный null обнуляет значение.
func ApplyPatch(entity interface{}, patchDTO interface{}, rawRequestBody []byte) error {
	var sentFields map[string]json.RawMessage
	if err := json.Unmarshal(rawRequestBody, &sentFields); err != nil {
		return err
	}

	entityValue := reflect.ValueOf(entity).Elem()
	patchValue := reflect.ValueOf(patchDTO)
	if patchValue.Kind() == reflect.Ptr {
		patchValue = patchValue.Elem()
	}

	for i := 0; i < patchValue.NumField(); i++ {
		fieldType := patchValue.Type().Field(i)
		jsonName := strings.Split(fieldType.Tag.Get("json"), ",")[0]
		if jsonName == "" || jsonName == "-" {
			continue
		}
		if _, sent := sentFields[jsonName]; !sent {
			continue
		}

		dst := entityValue.FieldByName(fieldType.Name)
		if !dst.IsValid() || !dst.CanSet() {
			continue
		}
		src := patchValue.Field(i)

		switch {
		case src.Type() == dst.Type():
			dst.Set(src)
		case src.Kind() != reflect.Ptr && src.Type().ConvertibleTo(dst.Type()):
			dst.Set(src.Convert(dst.Type()))
		case src.Kind() == reflect.Ptr && src.Type().Elem() == dst.Type():
			if src.IsNil() {
				dst.Set(reflect.Zero(dst.Type()))
			} else {
				dst.Set(src.Elem())
			}
		case src.Kind() == reflect.Ptr && src.Type().Elem().ConvertibleTo(dst.Type()):
			if src.IsNil() {
				dst.Set(reflect.Zero(dst.Type()))
			} else {
				dst.Set(src.Elem().Convert(dst.Type()))
			}
		}
	}
	return nil
}
