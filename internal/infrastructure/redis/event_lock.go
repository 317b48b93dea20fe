package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

var (
	ErrLockNotAcquired = errors.New("ロックを取得できませんでした")
	ErrLockNotOwned    = errors.New("ロックの所有者ではありません")
)

// EventLock は Redis を使用したイベント単位のロック
type EventLock struct {
	client *redis.Client
	key    string
	value  string
}

// LockManager はイベント単位のロックを管理する
// 同一イベントへの並行更新を直列化するために使用する
type LockManager struct {
	client *redis.Client
}

func NewLockManager(client *redis.Client) *LockManager {
	return &LockManager{client: client}
}

// AcquireEventLock は指定イベントのロックを取得する
func (m *LockManager) AcquireEventLock(ctx context.Context, eventID int64, ttl time.Duration) (*EventLock, error) {
	lockKey := fmt.Sprintf("lock:event:%d", eventID)
	lockValue := uuid.New().String()

	// SetNX でキーが存在しない場合のみロックを設定
	ok, err := m.client.SetNX(ctx, lockKey, lockValue, ttl).Result()
	if err != nil {
		return nil, fmt.Errorf("ロック取得に失敗: %w", err)
	}
	if !ok {
		return nil, ErrLockNotAcquired
	}

	return &EventLock{
		client: m.client,
		key:    lockKey,
		value:  lockValue,
	}, nil
}

// AcquireEventLockWithRetry はリトライ付きでイベントロックを取得する
func (m *LockManager) AcquireEventLockWithRetry(ctx context.Context, eventID int64, ttl time.Duration, maxRetries int, retryDelay time.Duration) (*EventLock, error) {
	var lastErr error
	for i := 0; i < maxRetries; i++ {
		lock, err := m.AcquireEventLock(ctx, eventID, ttl)
		if err == nil {
			return lock, nil
		}
		lastErr = err
		if !errors.Is(err, ErrLockNotAcquired) {
			return nil, err
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(retryDelay):
		}
	}
	return nil, lastErr
}

// Release はロックを解放する（Lua スクリプトで所有者確認と削除をアトミックに実行）
func (l *EventLock) Release(ctx context.Context) error {
	script := `
		if redis.call("GET", KEYS[1]) == ARGV[1] then
			return redis.call("DEL", KEYS[1])
		else
			return 0
		end
	`
	result, err := l.client.Eval(ctx, script, []string{l.key}, l.value).Int()
	if err != nil {
		return fmt.Errorf("ロック解放に失敗: %w", err)
	}
	if result == 0 {
		return ErrLockNotOwned
	}
	return nil
}
