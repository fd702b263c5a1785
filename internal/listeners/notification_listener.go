package listeners

import (
	"context"
	"fmt"

	"solarforyou/internal/authz"
	"solarforyou/internal/events"
	"solarforyou/internal/repositories"
	"solarforyou/internal/services"
	"solarforyou/pkg/constants"
	"solarforyou/pkg/eventbus"
	"solarforyou/pkg/websocket"

	"go.uber.org/zap"
)

// NotificationListener отправляет письма о новых заявках и пишет события в живую ленту.
// Ошибки здесь не влияют на уже сохранённые заявки.
type NotificationListener struct {
	notificationService services.NotificationServiceInterface
	feedService         services.LiveFeedServiceInterface
	userRepo            repositories.UserRepositoryInterface
	logger              *zap.Logger
}

func NewNotificationListener(
	notificationService services.NotificationServiceInterface,
	feedService services.LiveFeedServiceInterface,
	userRepo repositories.UserRepositoryInterface,
	logger *zap.Logger,
) *NotificationListener {
	return &NotificationListener{
		notificationService: notificationService,
		feedService:         feedService,
		userRepo:            userRepo,
		logger:              logger,
	}
}

func (l *NotificationListener) Register(bus *eventbus.Bus) {
	bus.Subscribe(constants.EventRequisitionCreated, l.handleRequisitionCreated)
	bus.Subscribe(constants.EventHRRequisitionCreated, l.handleHRRequisitionCreated)
	bus.Subscribe(constants.EventTransportRequestCreated, l.handleTransportCreated)
	bus.Subscribe(constants.EventTransportStatusChanged, l.handleTransportStatusChanged)
	l.logger.Info("NotificationListener подписан на события заявок")
}

func (l *NotificationListener) handleRequisitionCreated(ctx context.Context, e eventbus.Event) error {
	event, ok := e.(events.RequisitionCreatedEvent)
	if !ok {
		return fmt.Errorf("неожиданный тип события %T", e)
	}
	l.pushFeed(ctx, authz.ManageWarehouse, websocket.FeedPayload{
		Entity:  "requisition",
		ID:      event.RequisitionID,
		Number:  event.Number,
		Actor:   l.actorInfo(ctx, event.ActorID),
		Message: fmt.Sprintf("Nowe zapotrzebowanie %s", event.Number),
		Link:    fmt.Sprintf("/requisitions/%d", event.RequisitionID),
	})
	return l.notificationService.NotifyRequisition(ctx, event.RequisitionID)
}

func (l *NotificationListener) handleHRRequisitionCreated(ctx context.Context, e eventbus.Event) error {
	event, ok := e.(events.HRRequisitionCreatedEvent)
	if !ok {
		return fmt.Errorf("неожиданный тип события %T", e)
	}
	l.pushFeed(ctx, authz.ManageHR, websocket.FeedPayload{
		Entity:  "hr_requisition",
		ID:      event.RequisitionID,
		Number:  event.Number,
		Actor:   l.actorInfo(ctx, event.ActorID),
		Message: fmt.Sprintf("Nowe zapotrzebowanie kadrowe %s", event.Number),
		Link:    fmt.Sprintf("/hr-requisitions/%d", event.RequisitionID),
	})
	return l.notificationService.NotifyHRRequisition(ctx, event.RequisitionID)
}

func (l *NotificationListener) handleTransportCreated(ctx context.Context, e eventbus.Event) error {
	event, ok := e.(events.TransportRequestCreatedEvent)
	if !ok {
		return fmt.Errorf("неожиданный тип события %T", e)
	}
	l.pushFeed(ctx, authz.ManageTransport, websocket.FeedPayload{
		Entity:  "transport_request",
		ID:      event.RequestID,
		Number:  event.Number,
		Status:  constants.TransportStatusNew,
		Actor:   l.actorInfo(ctx, event.ActorID),
		Message: fmt.Sprintf("Nowe zlecenie transportu %s", event.Number),
		Link:    fmt.Sprintf("/transport-requests/%d", event.RequestID),
	})
	return nil
}

func (l *NotificationListener) handleTransportStatusChanged(ctx context.Context, e eventbus.Event) error {
	event, ok := e.(events.TransportStatusChangedEvent)
	if !ok {
		return fmt.Errorf("неожиданный тип события %T", e)
	}
	l.pushFeed(ctx, authz.ManageTransport, websocket.FeedPayload{
		Entity:  "transport_request",
		ID:      event.RequestID,
		Number:  event.Number,
		Status:  event.NewStatus,
		Actor:   l.actorInfo(ctx, event.ActorID),
		Message: fmt.Sprintf("Zlecenie %s: %s → %s", event.Number, event.OldStatus, event.NewStatus),
		Link:    fmt.Sprintf("/transport-requests/%d", event.RequestID),
	})
	return nil
}

func (l *NotificationListener) pushFeed(ctx context.Context, privilege string, payload websocket.FeedPayload) {
	if err := l.feedService.Publish(ctx, privilege, payload); err != nil {
		l.logger.Warn("Не удалось отправить событие в ленту", zap.String("entity", payload.Entity), zap.Error(err))
	}
}

func (l *NotificationListener) actorInfo(ctx context.Context, userID uint64) websocket.ActorInfo {
	info := websocket.ActorInfo{ID: userID}
	user, err := l.userRepo.FindByID(ctx, nil, userID)
	if err != nil {
		l.logger.Debug("Автор события не найден", zap.Uint64("userID", userID), zap.Error(err))
		return info
	}
	info.Name = user.FullName()
	return info
}
