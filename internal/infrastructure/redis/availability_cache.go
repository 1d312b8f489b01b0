package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

var (
	ErrCacheMiss = errors.New("キャッシュが見つかりません")
)

// AvailabilityCacheInterface は空席数キャッシュのインターフェース
// アプリケーション層のテストでモックに差し替える
type AvailabilityCacheInterface interface {
	GetAvailableCount(ctx context.Context, flightID string) (int, error)
	SetAvailableCount(ctx context.Context, flightID string, count int, ttl time.Duration) error
	Invalidate(ctx context.Context, flightID string) error
}

// AvailabilityCache はフライトごとの空席数キャッシュを管理する
type AvailabilityCache struct {
	client *redis.Client
}

// NewAvailabilityCache は新しいAvailabilityCacheインスタンスを作成する
func NewAvailabilityCache(client *redis.Client) *AvailabilityCache {
	return &AvailabilityCache{client: client}
}

// GetAvailableCount はフライトの空席数をキャッシュから取得する
func (c *AvailabilityCache) GetAvailableCount(ctx context.Context, flightID string) (int, error) {
	key := c.availableCountKey(flightID)
	val, err := c.client.Get(ctx, key).Int()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return 0, ErrCacheMiss
		}
		return 0, fmt.Errorf("キャッシュ取得に失敗: %w", err)
	}
	return val, nil
}

// SetAvailableCount はフライトの空席数をキャッシュに保存する
func (c *AvailabilityCache) SetAvailableCount(ctx context.Context, flightID string, count int, ttl time.Duration) error {
	key := c.availableCountKey(flightID)
	if err := c.client.Set(ctx, key, count, ttl).Err(); err != nil {
		return fmt.Errorf("キャッシュ保存に失敗: %w", err)
	}
	return nil
}

// Invalidate はフライトのキャッシュを無効化する
// ホールド・確定・解放で空席数が変わるたびに呼ぶ
func (c *AvailabilityCache) Invalidate(ctx context.Context, flightID string) error {
	key := c.availableCountKey(flightID)
	if err := c.client.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("キャッシュ無効化に失敗: %w", err)
	}
	return nil
}

func (c *AvailabilityCache) availableCountKey(flightID string) string {
	return fmt.Sprintf("seats:available:%s", flightID)
}

var _ AvailabilityCacheInterface = (*AvailabilityCache)(nil)
