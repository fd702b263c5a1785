package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"solarforyou/internal/authz"
	"solarforyou/internal/dto"
	apperrors "solarforyou/pkg/errors"
	"solarforyou/pkg/eventbus"
	"solarforyou/pkg/utils"

	"go.uber.org/zap"
)

// actorWithScope достаёт актора запроса и его область видимости для ресурса.
func actorWithScope(ctx context.Context, resource string) (*authz.Actor, authz.Scope, error) {
	actor, err := authz.ActorFromContext(ctx)
	if err != nil {
		return nil, authz.Scope{}, err
	}
	return actor, authz.VisibilityFor(actor, resource), nil
}

// requireModify: staff, автор или держатель расширяющей привилегии.
func requireModify(logger *zap.Logger, actor *authz.Actor, target authz.Owned, resource string) error {
	if authz.CanModify(actor, target, resource) {
		return nil
	}
	logger.Warn("Изменение чужой записи запрещено",
		zap.Uint64("userID", actor.UserID),
		zap.Uint64("ownerID", target.OwnerID()),
		zap.String("resource", resource),
	)
	return apperrors.ErrForbidden
}

// patchEntity применяет PATCH-тело к копии сущности.
func patchEntity(entity, patchDTO interface{}, rawBody []byte) error {
	if err := utils.ApplyPatch(entity, patchDTO, rawBody); err != nil {
		return apperrors.NewHttpError(http.StatusBadRequest, "Nieprawidłowe dane", err, nil)
	}
	return nil
}

func bodyHasKey(rawBody []byte, key string) bool {
	var sent map[string]json.RawMessage
	if err := json.Unmarshal(rawBody, &sent); err != nil {
		return false
	}
	_, ok := sent[key]
	return ok
}

func badRequest(field, message string) error {
	return apperrors.NewHttpError(http.StatusBadRequest, message, nil, map[string]string{field: message})
}

// wrapInternal логирует неожиданную ошибку, сигнальные ошибки пропускает как есть.
func wrapInternal(logger *zap.Logger, msg string, err error) error {
	var httpErr *apperrors.HttpError
	if errors.As(err, &httpErr) {
		return err
	}
	for sentinel := range apperrors.StatusOf {
		if errors.Is(err, sentinel) {
			return err
		}
	}
	logger.Error(msg, zap.Error(err))
	return fmt.Errorf("%s: %w", msg, err)
}

// EventPublisher - шина событий, в которую сервисы публикуют после коммита.
type EventPublisher interface {
	Publish(ctx context.Context, event eventbus.Event)
}

// fieldErrors собирает ошибки бизнес-валидации по полям.
type fieldErrors map[string]string

func (f fieldErrors) add(field, message string) {
	if _, exists := f[field]; !exists {
		f[field] = message
	}
}

func (f fieldErrors) err() error {
	if len(f) == 0 {
		return nil
	}
	return apperrors.NewHttpError(http.StatusBadRequest, "Błąd walidacji", nil, map[string]string(f))
}

func (f fieldErrors) result() *dto.ValidationResultDTO {
	errs := map[string]string(f)
	if errs == nil {
		errs = map[string]string{}
	}
	return &dto.ValidationResultDTO{Valid: len(errs) == 0, Errors: errs}
}
