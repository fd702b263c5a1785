package repositories

import (
	"context"
	"time"
)

// CacheRepositoryInterface хранит в Redis кэш актора (привилегии профиля) и счётчики неудачных входов.
type CacheRepositoryInterface interface {
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error
	Get(ctx context.Context, key string) (string, error)
	Del(ctx context.Context, key ...string) error
	// CountAttempt увеличивает счётчик; окно window отсчитывается от первой попытки.
	CountAttempt(ctx context.Context, key string, window time.Duration) (int64, error)
}
