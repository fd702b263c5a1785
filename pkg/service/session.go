package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"solarforyou/pkg/constants"
	apperrors "solarforyou/pkg/errors"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
)

// SessionStore хранит веб-сессии в Redis: session:<uuid> -> userID.
type SessionStore interface {
	Create(ctx context.Context, userID uint64) (string, error)
	Resolve(ctx context.Context, sessionID string) (uint64, error)
	Destroy(ctx context.Context, sessionID string) error
	TTL() time.Duration
}

type redisSessionStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisSessionStore(client *redis.Client, ttl time.Duration) SessionStore {
	return &redisSessionStore{client: client, ttl: ttl}
}

func (s *redisSessionStore) Create(ctx context.Context, userID uint64) (string, error) {
	sessionID := uuid.NewString()
	key := fmt.Sprintf(constants.CacheKeySession, sessionID)
	if err := s.client.Set(ctx, key, userID, s.ttl).Err(); err != nil {
		return "", fmt.Errorf("не удалось сохранить сессию: %w", err)
	}
	return sessionID, nil
}

// Resolve продлевает сессию при каждом обращении.
func (s *redisSessionStore) Resolve(ctx context.Context, sessionID string) (uint64, error) {
	if _, err := uuid.Parse(sessionID); err != nil {
		return 0, apperrors.ErrSessionNotFound
	}
	key := fmt.Sprintf(constants.CacheKeySession, sessionID)
	raw, err := s.client.Get(ctx, key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return 0, apperrors.ErrSessionNotFound
		}
		return 0, fmt.Errorf("ошибка чтения сессии: %w", err)
	}
	userID, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || userID == 0 {
		return 0, apperrors.ErrSessionNotFound
	}
	s.client.Expire(ctx, key, s.ttl)
	return userID, nil
}

func (s *redisSessionStore) Destroy(ctx context.Context, sessionID string) error {
	return s.client.Del(ctx, fmt.Sprintf(constants.CacheKeySession, sessionID)).Err()
}

func (s *redisSessionStore) TTL() time.Duration { return s.ttl }
