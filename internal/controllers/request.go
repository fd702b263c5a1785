package controllers

import (
	"bytes"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"

	apperrors "solarforyou/pkg/errors"

	"github.com/labstack/echo/v4"
)

func bindJSON(ctx echo.Context, dst interface{}) error {
	if err := ctx.Bind(dst); err != nil {
		return apperrors.NewHttpError(http.StatusBadRequest, "Nieprawidłowe dane", err, nil)
	}
	return nil
}

// bindBody разбирает JSON тела и проверяет DTO валидатором echo.
func bindBody(ctx echo.Context, dst interface{}) error {
	if err := bindJSON(ctx, dst); err != nil {
		return err
	}
	return ctx.Validate(dst)
}

// bindPatch дополнительно возвращает сырое тело: по нему сервис понимает, какие поля прислали.
func bindPatch(ctx echo.Context, dst interface{}) ([]byte, error) {
	rawBody, err := io.ReadAll(ctx.Request().Body)
	if err != nil {
		return nil, apperrors.NewHttpError(http.StatusBadRequest, "Nie udało się odczytać treści żądania", err, nil)
	}
	if len(bytes.TrimSpace(rawBody)) == 0 {
		rawBody = []byte("{}")
	}
	ctx.Request().Body = io.NopCloser(bytes.NewBuffer(rawBody))
	if err := bindBody(ctx, dst); err != nil {
		return nil, err
	}
	return rawBody, nil
}

// queryID читает необязательный числовой параметр строки запроса; 0 - не задан.
func queryID(ctx echo.Context, name string) (uint64, error) {
	raw := ctx.QueryParam(name)
	if raw == "" {
		return 0, nil
	}
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return 0, apperrors.NewHttpError(http.StatusBadRequest, "Nieprawidłowy parametr "+name, err, nil)
	}
	return id, nil
}

// imageUpload читает multipart-форму: image (файл), name и ID родителя в поле parentField.
func imageUpload(ctx echo.Context, parentField string) (uint64, string, *multipart.FileHeader, error) {
	parentID, err := strconv.ParseUint(ctx.FormValue(parentField), 10, 64)
	if err != nil || parentID == 0 {
		return 0, "", nil, apperrors.NewHttpError(http.StatusBadRequest, "Pole "+parentField+" jest wymagane", err, nil)
	}
	header, err := ctx.FormFile("image")
	if err != nil {
		return 0, "", nil, apperrors.NewHttpError(http.StatusBadRequest, "Nie przesłano pliku", err, nil)
	}
	name := ctx.FormValue("name")
	if name == "" {
		name = header.Filename
	}
	return parentID, name, header, nil
}
