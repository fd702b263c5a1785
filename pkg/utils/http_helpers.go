package utils

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	apperrors "solarforyou/pkg/errors"
	"solarforyou/pkg/types"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

type HTTPResponse struct {
	Status  bool        `json:"status"`
	Body    interface{} `json:"body,omitempty"`
	Message string      `json:"message"`
}

const (
	DefaultLimit = 50
	MaxLimit     = 500
)

// ParseFilterFromQuery разбирает search, sort[..], filter[..], limit, page, offset и withPagination.
// Простые параметры вида ?project=1 тоже считаются фильтрами.
func ParseFilterFromQuery(values url.Values) types.Filter {
	filterReq := types.Filter{
		Sort:   make(map[string]string),
		Filter: make(map[string]interface{}),
		Limit:  DefaultLimit,
		Page:   1,
	}

	if limitStr := values.Get("limit"); limitStr != "" {
		if l, err := strconv.Atoi(limitStr); err == nil && l > 0 {
			filterReq.Limit = min(l, MaxLimit)
		}
	}

	if pageStr := values.Get("page"); pageStr != "" {
		if p, err := strconv.Atoi(pageStr); err == nil && p > 0 {
			filterReq.Page = p
		}
	}

	if offsetStr := values.Get("offset"); offsetStr != "" {
		if o, err := strconv.Atoi(offsetStr); err == nil && o >= 0 {
			filterReq.Offset = o
			filterReq.Page = o/filterReq.Limit + 1
		}
	} else {
		filterReq.Offset = (filterReq.Page - 1) * filterReq.Limit
	}

	filterReq.WithPagination = values.Get("withPagination") == "true"

	for key, vals := range values {
		if len(vals) == 0 || vals[0] == "" {
			continue
		}

		switch {
		case key == "search":
			filterReq.Search = vals[0]
		case strings.HasPrefix(key, "sort[") && strings.HasSuffix(key, "]"):
			field := key[5 : len(key)-1]
			direction := strings.ToLower(vals[0])
			if direction == "asc" || direction == "desc" {
				filterReq.Sort[field] = direction
			}
		case key == "ordering":
			// ordering=-created_at
			field, direction := vals[0], "asc"
			if strings.HasPrefix(field, "-") {
				field, direction = field[1:], "desc"
			}
			filterReq.Sort[field] = direction
		case strings.HasPrefix(key, "filter[") && strings.HasSuffix(key, "]"):
			field := key[7 : len(key)-1]
			if existing, ok := filterReq.Filter[field]; ok {
				filterReq.Filter[field] = fmt.Sprintf("%v,%s", existing, vals[0])
			} else {
				filterReq.Filter[field] = vals[0]
			}
		case key == "limit" || key == "page" || key == "offset" || key == "withPagination":
		default:
			if _, ok := filterReq.Filter[key]; !ok {
				filterReq.Filter[key] = vals[0]
			}
		}
	}

	return filterReq
}

// ParseIDParam читает числовой параметр пути.
func ParseIDParam(ctx echo.Context, name string) (uint64, error) {
	id, err := strconv.ParseUint(ctx.Param(name), 10, 64)
	if err != nil || id == 0 {
		return 0, apperrors.NewHttpError(http.StatusBadRequest, "Nieprawidłowy identyfikator", err, nil)
	}
	return id, nil
}

func SuccessResponse(ctx echo.Context, body interface{}, message string, code int, total ...uint64) error {
	response := &HTTPResponse{Status: true, Message: message}
	withPagination, _ := strconv.ParseBool(ctx.QueryParam("withPagination"))
	if withPagination && len(total) > 0 {
		filter := ParseFilterFromQuery(ctx.Request().URL.Query())
		totalPages := 0
		if filter.Limit > 0 {
			totalPages = int((total[0] + uint64(filter.Limit) - 1) / uint64(filter.Limit))
		}
		pagination := types.Pagination{
			TotalCount: total[0],
			Page:       filter.Page,
			Limit:      filter.Limit,
			TotalPages: totalPages,
		}
		response.Body = map[string]interface{}{"list": body, "pagination": pagination}
	} else {
		response.Body = body
	}
	return ctx.JSON(code, response)
}

func ErrorResponse(c echo.Context, err error, logger *zap.Logger) error {
	var httpErr *apperrors.HttpError
	if errors.As(err, &httpErr) {
		if httpErr.Err != nil {
			logger.Warn("HTTP Error",
				zap.Int("code", httpErr.Code),
				zap.String("message", httpErr.Message),
				zap.Error(httpErr.Err),
				zap.Any("context", httpErr.Context),
			)
		}

		response := map[string]interface{}{
			"status":  false,
			"message": httpErr.Message,
		}
		if httpErr.Details != nil {
			response["body"] = httpErr.Details
		}
		return c.JSON(httpErr.Code, response)
	}

	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) {
		fields := make(map[string]string, len(validationErrors))
		msgs := make([]string, 0, len(validationErrors))
		for _, e := range validationErrors {
			fields[e.Field()] = e.Tag()
			msgs = append(msgs, fmt.Sprintf("Pole '%s' nie spełnia reguły '%s'", e.Field(), e.Tag()))
		}
		return c.JSON(http.StatusBadRequest, map[string]interface{}{
			"status":  false,
			"message": "Błąd walidacji: " + strings.Join(msgs, "; "),
			"body":    fields,
		})
	}

	for sentinel, code := range apperrors.StatusOf {
		if errors.Is(err, sentinel) {
			if code >= http.StatusInternalServerError {
				logger.Error("Ошибка запроса", zap.Error(err))
			}
			return c.JSON(code, map[string]interface{}{"status": false, "message": err.Error()})
		}
	}

	logger.Error("Unexpected Error", zap.Error(err), zap.String("uri", c.Request().RequestURI))
	return c.JSON(http.StatusInternalServerError, map[string]interface{}{
		"status":  false,
		"message": "Wewnętrzny błąd serwera",
	})
}
