package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"solarforyou/internal/authz"
	"solarforyou/internal/dto"
	"solarforyou/internal/entities"
	"solarforyou/internal/events"
	"solarforyou/internal/repositories"
	"solarforyou/pkg/constants"
	"solarforyou/pkg/numbering"
	"solarforyou/pkg/types"

	"github.com/aarondl/null/v8"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type TransportServiceInterface interface {
	GetRequests(ctx context.Context, filter types.Filter) ([]*dto.TransportRequestDTO, uint64, error)
	FindRequest(ctx context.Context, id uint64) (*dto.TransportRequestDTO, error)
	CreateRequest(ctx context.Context, payload dto.CreateTransportRequestDTO) (*dto.TransportRequestDTO, error)
	UpdateRequest(ctx context.Context, id uint64, payload dto.UpdateTransportRequestDTO, rawBody []byte) (*dto.TransportRequestDTO, error)
	ChangeStatus(ctx context.Context, id uint64, status string) (*dto.TransportRequestDTO, error)
	DeleteRequest(ctx context.Context, id uint64) error
	ValidateRequest(ctx context.Context, payload dto.CreateTransportRequestDTO) (*dto.ValidationResultDTO, error)

	GetItems(ctx context.Context, filter types.Filter) ([]*entities.TransportItem, uint64, error)
	FindItem(ctx context.Context, id uint64) (*entities.TransportItem, error)
	CreateItem(ctx context.Context, payload dto.CreateTransportItemDTO) (*entities.TransportItem, error)
	UpdateItem(ctx context.Context, id uint64, payload dto.UpdateTransportItemDTO, rawBody []byte) (*entities.TransportItem, error)
	DeleteItem(ctx context.Context, id uint64) error
}

type TransportService struct {
	txManager repositories.TxManagerInterface
	repo      repositories.TransportRepositoryInterface
	sequence  SequenceServiceInterface
	publisher EventPublisher
	logger    *zap.Logger
}

func NewTransportService(
	txManager repositories.TxManagerInterface,
	repo repositories.TransportRepositoryInterface,
	sequence SequenceServiceInterface,
	publisher EventPublisher,
	logger *zap.Logger,
) TransportServiceInterface {
	return &TransportService{
		txManager: txManager,
		repo:      repo,
		sequence:  sequence,
		publisher: publisher,
		logger:    logger,
	}
}

func checkTransportDates(pickup, delivery time.Time, errs fieldErrors) {
	if pickup.IsZero() {
		errs.add("pickup_date", "Data odbioru jest wymagana")
	}
	if delivery.IsZero() {
		errs.add("delivery_date", "Data dostawy jest wymagana")
	}
	if !pickup.IsZero() && !delivery.IsZero() && delivery.Before(pickup) {
		errs.add("delivery_date", "Data dostawy nie może być wcześniejsza niż data odbioru")
	}
}

// checkTransportState проверяет заявку после PATCH: null в теле обнуляет поле.
func checkTransportState(t *entities.TransportRequest) error {
	errs := fieldErrors{}
	checkTransportDates(t.PickupDate, t.DeliveryDate, errs)
	if strings.TrimSpace(t.PickupAddress) == "" {
		errs.add("pickup_address", "Adres odbioru jest wymagany")
	}
	if strings.TrimSpace(t.DeliveryAddress) == "" {
		errs.add("delivery_address", "Adres dostawy jest wymagany")
	}
	if !constants.IsOneOf(t.LoadingMethod, constants.LoadingMethods) {
		errs.add("loading_method", "Nieprawidłowy sposób załadunku")
	}
	if !constants.IsOneOf(t.Status, constants.TransportStatuses) {
		errs.add("status", "Nieprawidłowy status")
	}
	return errs.err()
}

func checkTransportItem(line dto.CreateTransportItemLineDTO, prefix string, errs fieldErrors) {
	if !line.Quantity.IsPositive() {
		errs.add(prefix+"quantity", "Ilość musi być większa od zera")
	}
	if line.Price.Valid && line.Price.Decimal.IsNegative() {
		errs.add(prefix+"price", "Cena nie może być ujemna")
	}
	for field, v := range map[string]decimal.NullDecimal{
		"length": line.Length, "width": line.Width, "height": line.Height, "weight": line.Weight,
	} {
		if v.Valid && v.Decimal.IsNegative() {
			errs.add(prefix+field, "Wartość nie może być ujemna")
		}
	}
}

func checkTransportRequest(payload dto.CreateTransportRequestDTO, errs fieldErrors) {
	checkTransportDates(payload.PickupDate.Time(), payload.DeliveryDate.Time(), errs)
	if !constants.IsOneOf(payload.LoadingMethod, constants.LoadingMethods) {
		errs.add("loading_method", "Nieprawidłowy sposób załadunku")
	}
	if payload.Status != "" && !constants.IsOneOf(payload.Status, constants.TransportStatuses) {
		errs.add("status", "Nieprawidłowy status")
	}
	for i, line := range payload.Items {
		checkTransportItem(line, fmt.Sprintf("items[%d].", i), errs)
	}
}

func (s *TransportService) GetRequests(ctx context.Context, filter types.Filter) ([]*dto.TransportRequestDTO, uint64, error) {
	_, scope, err := actorWithScope(ctx, authz.ResourceRequisitions)
	if err != nil {
		return nil, 0, err
	}
	list, total, err := s.repo.GetAll(ctx, filter, scope)
	if err != nil {
		return nil, 0, err
	}
	result := make([]*dto.TransportRequestDTO, 0, len(list))
	for _, t := range list {
		result = append(result, dto.NewTransportRequestDTO(t))
	}
	return result, total, nil
}

func (s *TransportService) FindRequest(ctx context.Context, id uint64) (*dto.TransportRequestDTO, error) {
	_, scope, err := actorWithScope(ctx, authz.ResourceRequisitions)
	if err != nil {
		return nil, err
	}
	t, err := s.repo.FindByID(ctx, nil, id, scope)
	if err != nil {
		return nil, err
	}
	return dto.NewTransportRequestDTO(t), nil
}

func (s *TransportService) ValidateRequest(ctx context.Context, payload dto.CreateTransportRequestDTO) (*dto.ValidationResultDTO, error) {
	errs := fieldErrors{}
	checkTransportRequest(payload, errs)
	return errs.result(), nil
}

func newTransportItem(requestID uint64, line dto.CreateTransportItemLineDTO) entities.TransportItem {
	return entities.TransportItem{
		TransportRequestID: requestID,
		Description:        line.Description,
		Length:             line.Length,
		Width:              line.Width,
		Height:             line.Height,
		Weight:             line.Weight,
		Quantity:           line.Quantity,
		Price:              line.Price,
	}
}

func (s *TransportService) CreateRequest(ctx context.Context, payload dto.CreateTransportRequestDTO) (*dto.TransportRequestDTO, error) {
	actor, err := authz.ActorFromContext(ctx)
	if err != nil {
		return nil, err
	}
	errs := fieldErrors{}
	checkTransportRequest(payload, errs)
	if err := errs.err(); err != nil {
		return nil, err
	}

	var created *entities.TransportRequest
	err = s.txManager.RunInTransaction(ctx, func(tx pgx.Tx) error {
		number, err := s.sequence.Next(ctx, tx, numbering.TransportRequest, time.Now())
		if err != nil {
			return err
		}
		request := entities.TransportRequest{
			Number:            number,
			PickupProjectID:   payload.PickupProjectID,
			PickupAddress:     payload.PickupAddress,
			PickupDate:        payload.PickupDate.Time(),
			DeliveryProjectID: payload.DeliveryProjectID,
			DeliveryAddress:   payload.DeliveryAddress,
			DeliveryDate:      payload.DeliveryDate.Time(),
			LoadingMethod:     payload.LoadingMethod,
			CostProjectID:     payload.CostProjectID,
			RequesterPhone:    payload.RequesterPhone,
			Notes:             payload.Notes,
			Status:            payload.Status,
			CreatedBy:         actor.UserID,
		}
		if request.Status == "" {
			request.Status = constants.TransportStatusNew
		}
		id, err := s.repo.Create(ctx, tx, request)
		if err != nil {
			return err
		}
		for _, line := range payload.Items {
			if _, err := s.repo.CreateItem(ctx, tx, newTransportItem(id, line)); err != nil {
				return err
			}
		}
		created, err = s.repo.FindByID(ctx, tx, id, authz.Scope{All: true})
		return err
	})
	if err != nil {
		return nil, wrapInternal(s.logger, "не удалось создать заявку на транспорт", err)
	}

	s.logger.Info("Заявка на транспорт создана", zap.Uint64("id", created.ID), zap.String("number", created.Number))
	s.publisher.Publish(ctx, events.TransportRequestCreatedEvent{RequestID: created.ID, Number: created.Number, ActorID: actor.UserID})
	return dto.NewTransportRequestDTO(created), nil
}

func (s *TransportService) UpdateRequest(ctx context.Context, id uint64, payload dto.UpdateTransportRequestDTO, rawBody []byte) (*dto.TransportRequestDTO, error) {
	actor, scope, err := actorWithScope(ctx, authz.ResourceRequisitions)
	if err != nil {
		return nil, err
	}
	var (
		updated   *entities.TransportRequest
		oldStatus string
	)
	err = s.txManager.RunInTransaction(ctx, func(tx pgx.Tx) error {
		current, err := s.repo.FindByID(ctx, tx, id, scope)
		if err != nil {
			return err
		}
		if err := requireModify(s.logger, actor, current, authz.ResourceRequisitions); err != nil {
			return err
		}
		oldStatus = current.Status
		if err := patchEntity(current, payload, rawBody); err != nil {
			return err
		}
		if err := checkTransportState(current); err != nil {
			return err
		}
		current.UpdatedBy = null.Int64From(int64(actor.UserID))
		if err := s.repo.Update(ctx, tx, *current); err != nil {
			return err
		}
		updated, err = s.repo.FindByID(ctx, tx, id, authz.Scope{All: true})
		return err
	})
	if err != nil {
		return nil, wrapInternal(s.logger, "не удалось обновить заявку на транспорт", err)
	}
	if oldStatus != updated.Status {
		s.publishStatusChange(ctx, updated, oldStatus, actor.UserID)
	}
	return dto.NewTransportRequestDTO(updated), nil
}

func (s *TransportService) ChangeStatus(ctx context.Context, id uint64, status string) (*dto.TransportRequestDTO, error) {
	actor, scope, err := actorWithScope(ctx, authz.ResourceRequisitions)
	if err != nil {
		return nil, err
	}
	if !constants.IsOneOf(status, constants.TransportStatuses) {
		return nil, badRequest("status", "Nieprawidłowy status")
	}
	var (
		updated   *entities.TransportRequest
		oldStatus string
	)
	err = s.txManager.RunInTransaction(ctx, func(tx pgx.Tx) error {
		current, err := s.repo.FindByID(ctx, tx, id, scope)
		if err != nil {
			return err
		}
		if err := requireModify(s.logger, actor, current, authz.ResourceRequisitions); err != nil {
			return err
		}
		oldStatus = current.Status
		if err := s.repo.UpdateStatus(ctx, tx, id, status, actor.UserID); err != nil {
			return err
		}
		updated, err = s.repo.FindByID(ctx, tx, id, authz.Scope{All: true})
		return err
	})
	if err != nil {
		return nil, wrapInternal(s.logger, "не удалось сменить статус заявки на транспорт", err)
	}
	if oldStatus != status {
		s.publishStatusChange(ctx, updated, oldStatus, actor.UserID)
	}
	return dto.NewTransportRequestDTO(updated), nil
}

func (s *TransportService) publishStatusChange(ctx context.Context, t *entities.TransportRequest, oldStatus string, actorID uint64) {
	s.logger.Info("Статус заявки на транспорт изменён",
		zap.Uint64("id", t.ID),
		zap.String("from", oldStatus),
		zap.String("to", t.Status),
	)
	s.publisher.Publish(ctx, events.TransportStatusChangedEvent{
		RequestID: t.ID,
		Number:    t.Number,
		OldStatus: oldStatus,
		NewStatus: t.Status,
		ActorID:   actorID,
	})
}

func (s *TransportService) DeleteRequest(ctx context.Context, id uint64) error {
	actor, scope, err := actorWithScope(ctx, authz.ResourceRequisitions)
	if err != nil {
		return err
	}
	current, err := s.repo.FindByID(ctx, nil, id, scope)
	if err != nil {
		return err
	}
	if err := requireModify(s.logger, actor, current, authz.ResourceRequisitions); err != nil {
		return err
	}
	return s.repo.Delete(ctx, nil, id)
}

func (s *TransportService) GetItems(ctx context.Context, filter types.Filter) ([]*entities.TransportItem, uint64, error) {
	_, scope, err := actorWithScope(ctx, authz.ResourceRequisitions)
	if err != nil {
		return nil, 0, err
	}
	return s.repo.GetItems(ctx, filter, scope)
}

func (s *TransportService) FindItem(ctx context.Context, id uint64) (*entities.TransportItem, error) {
	_, scope, err := actorWithScope(ctx, authz.ResourceRequisitions)
	if err != nil {
		return nil, err
	}
	return s.repo.FindItemByID(ctx, nil, id, scope)
}

func (s *TransportService) parentForWrite(ctx context.Context, tx pgx.Tx, requestID uint64) error {
	actor, scope, err := actorWithScope(ctx, authz.ResourceRequisitions)
	if err != nil {
		return err
	}
	parent, err := s.repo.FindByID(ctx, tx, requestID, scope)
	if err != nil {
		return err
	}
	return requireModify(s.logger, actor, parent, authz.ResourceRequisitions)
}

func (s *TransportService) CreateItem(ctx context.Context, payload dto.CreateTransportItemDTO) (*entities.TransportItem, error) {
	errs := fieldErrors{}
	checkTransportItem(payload.CreateTransportItemLineDTO, "", errs)
	if err := errs.err(); err != nil {
		return nil, err
	}
	var created *entities.TransportItem
	err := s.txManager.RunInTransaction(ctx, func(tx pgx.Tx) error {
		if err := s.parentForWrite(ctx, tx, payload.TransportRequestID); err != nil {
			return err
		}
		id, err := s.repo.CreateItem(ctx, tx, newTransportItem(payload.TransportRequestID, payload.CreateTransportItemLineDTO))
		if err != nil {
			return err
		}
		created, err = s.repo.FindItemByID(ctx, tx, id, authz.Scope{All: true})
		return err
	})
	if err != nil {
		return nil, wrapInternal(s.logger, "не удалось добавить груз", err)
	}
	return created, nil
}

func (s *TransportService) UpdateItem(ctx context.Context, id uint64, payload dto.UpdateTransportItemDTO, rawBody []byte) (*entities.TransportItem, error) {
	_, scope, err := actorWithScope(ctx, authz.ResourceRequisitions)
	if err != nil {
		return nil, err
	}
	var updated *entities.TransportItem
	err = s.txManager.RunInTransaction(ctx, func(tx pgx.Tx) error {
		current, err := s.repo.FindItemByID(ctx, tx, id, scope)
		if err != nil {
			return err
		}
		if err := s.parentForWrite(ctx, tx, current.TransportRequestID); err != nil {
			return err
		}
		if err := patchEntity(current, payload, rawBody); err != nil {
			return err
		}
		errs := fieldErrors{}
		checkTransportItem(dto.CreateTransportItemLineDTO{
			Description: current.Description,
			Length:      current.Length,
			Width:       current.Width,
			Height:      current.Height,
			Weight:      current.Weight,
			Quantity:    current.Quantity,
			Price:       current.Price,
		}, "", errs)
		if err := errs.err(); err != nil {
			return err
		}
		if err := s.repo.UpdateItem(ctx, tx, *current); err != nil {
			return err
		}
		updated, err = s.repo.FindItemByID(ctx, tx, id, authz.Scope{All: true})
		return err
	})
	if err != nil {
		return nil, wrapInternal(s.logger, "не удалось обновить груз", err)
	}
	return updated, nil
}

func (s *TransportService) DeleteItem(ctx context.Context, id uint64) error {
	_, scope, err := actorWithScope(ctx, authz.ResourceRequisitions)
	if err != nil {
		return err
	}
	return s.txManager.RunInTransaction(ctx, func(tx pgx.Tx) error {
		current, err := s.repo.FindItemByID(ctx, tx, id, scope)
		if err != nil {
			return err
		}
		if err := s.parentForWrite(ctx, tx, current.TransportRequestID); err != nil {
			return err
		}
		return s.repo.DeleteItem(ctx, tx, id)
	})
}
