package services

import (
	"context"

	"solarforyou/internal/authz"
	"solarforyou/pkg/websocket"

	"go.uber.org/zap"
)

const feedMessageType = "feed"

// LiveFeedServiceInterface рассылает события ленты подключённым пользователям с нужной привилегией.
type LiveFeedServiceInterface interface {
	Publish(ctx context.Context, privilege string, payload websocket.FeedPayload) error
}

type LiveFeedService struct {
	hub        *websocket.Hub
	authPerm   AuthPermissionServiceInterface
	gatekeeper *authz.Gatekeeper
	logger     *zap.Logger
}

func NewLiveFeedService(hub *websocket.Hub, authPerm AuthPermissionServiceInterface, logger *zap.Logger) LiveFeedServiceInterface {
	return &LiveFeedService{
		hub:        hub,
		authPerm:   authPerm,
		gatekeeper: authz.NewGatekeeper(),
		logger:     logger,
	}
}

func (s *LiveFeedService) Publish(ctx context.Context, privilege string, payload websocket.FeedPayload) error {
	allowed := make(map[uint64]bool)
	for _, userID := range s.hub.ConnectedUsers() {
		actor, err := s.authPerm.ResolveActor(ctx, userID)
		if err != nil {
			s.logger.Debug("Пользователь ленты пропущен", zap.Uint64("userID", userID), zap.Error(err))
			continue
		}
		allowed[userID] = s.gatekeeper.Can(actor, privilege)
	}
	if len(allowed) == 0 {
		return nil
	}

	delivered, err := s.hub.Broadcast(payload, feedMessageType, func(userID uint64) bool { return allowed[userID] })
	if err != nil {
		return err
	}
	s.logger.Info("Отправка WebSocket-уведомления",
		zap.String("entity", payload.Entity),
		zap.Uint64("id", payload.ID),
		zap.Int("delivered", delivered),
	)
	return nil
}
