package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/K-AMeus/PartynApp/internal/domain/event"
)

var (
	ErrCacheMiss = errors.New("キャッシュが見つかりません")
)

// EventCache はイベント情報のキャッシュを管理する
type EventCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewEventCache は新しいEventCacheインスタンスを作成する
func NewEventCache(client *redis.Client, ttl time.Duration) *EventCache {
	return &EventCache{client: client, ttl: ttl}
}

// Get はイベントをキャッシュから取得する
func (c *EventCache) Get(ctx context.Context, id int64) (*event.Event, error) {
	data, err := c.client.Get(ctx, c.eventKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrCacheMiss
		}
		return nil, fmt.Errorf("キャッシュ取得に失敗: %w", err)
	}

	var e event.Event
	if err := json.Unmarshal(data, &e); err != nil {
		return nil, fmt.Errorf("キャッシュの復元に失敗: %w", err)
	}
	return &e, nil
}

// Set はイベントをキャッシュに保存する
func (c *EventCache) Set(ctx context.Context, e *event.Event) error {
	data, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("キャッシュの変換に失敗: %w", err)
	}
	if err := c.client.Set(ctx, c.eventKey(e.ID), data, c.ttl).Err(); err != nil {
		return fmt.Errorf("キャッシュ保存に失敗: %w", err)
	}
	return nil
}

// GetList はイベント一覧をキャッシュから取得する
func (c *EventCache) GetList(ctx context.Context) ([]*event.Event, error) {
	data, err := c.client.Get(ctx, c.listKey()).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrCacheMiss
		}
		return nil, fmt.Errorf("キャッシュ取得に失敗: %w", err)
	}

	var events []*event.Event
	if err := json.Unmarshal(data, &events); err != nil {
		return nil, fmt.Errorf("キャッシュの復元に失敗: %w", err)
	}
	return events, nil
}

// SetList はイベント一覧をキャッシュに保存する
func (c *EventCache) SetList(ctx context.Context, events []*event.Event) error {
	data, err := json.Marshal(events)
	if err != nil {
		return fmt.Errorf("キャッシュの変換に失敗: %w", err)
	}
	if err := c.client.Set(ctx, c.listKey(), data, c.ttl).Err(); err != nil {
		return fmt.Errorf("キャッシュ保存に失敗: %w", err)
	}
	return nil
}

// Invalidate は指定イベントのキャッシュと一覧キャッシュを無効化する
func (c *EventCache) Invalidate(ctx context.Context, id int64) error {
	if err := c.client.Del(ctx, c.eventKey(id), c.listKey()).Err(); err != nil {
		return fmt.Errorf("キャッシュ無効化に失敗: %w", err)
	}
	return nil
}

func (c *EventCache) eventKey(id int64) string {
	return fmt.Sprintf("events:%d", id)
}

func (c *EventCache) listKey() string {
	return "events:all"
}
