package application

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/K-AMeus/PartynApp/internal/domain/auth"
	"github.com/K-AMeus/PartynApp/internal/domain/event"
	"github.com/K-AMeus/PartynApp/internal/domain/storage"
	redisinfra "github.com/K-AMeus/PartynApp/internal/infrastructure/redis"
	"github.com/K-AMeus/PartynApp/internal/pkg/logger"
	"github.com/K-AMeus/PartynApp/internal/pkg/metrics"
)

// 更新処理のイベント単位ロック設定
const (
	updateLockTTL        = 10 * time.Second
	updateLockMaxRetries = 3
	updateLockRetryDelay = 100 * time.Millisecond
)

// EventService はイベントのライフサイクルを管理するアプリケーションサービス
// 管理者権限の検証、画像アップロードと永続化の調整を行う
type EventService struct {
	eventRepo   event.Repository
	imageStore  storage.ImageStore
	cache       *redisinfra.EventCache
	lockManager *redisinfra.LockManager
	metrics     *metrics.Metrics
}

// NewEventService はEventServiceを作成する
// cache・lockManager・m はnil許容（未設定時は該当機能をスキップ）
func NewEventService(eventRepo event.Repository, imageStore storage.ImageStore, cache *redisinfra.EventCache, lockManager *redisinfra.LockManager, m *metrics.Metrics) *EventService {
	return &EventService{
		eventRepo:   eventRepo,
		imageStore:  imageStore,
		cache:       cache,
		lockManager: lockManager,
		metrics:     m,
	}
}

// ImageUpload はリクエストに添付された画像を表す
type ImageUpload struct {
	Data        []byte
	Filename    string
	ContentType string
}

func (u *ImageUpload) isEmpty() bool {
	return u == nil || len(u.Data) == 0
}

type CreateEventInput struct {
	Name        string
	Description string
	Location    string
	StartAt     time.Time
	EndAt       time.Time
	TicketPrice int
	TopPick     bool
}

// CreateEvent は新しいイベントを作成する（管理者のみ）
// 画像が添付されている場合は先にアップロードし、成功した場合のみ永続化する
func (s *EventService) CreateEvent(ctx context.Context, claims auth.Claims, input CreateEventInput, image *ImageUpload) (*event.Event, error) {
	if err := auth.RequireAdmin(claims); err != nil {
		s.countMutation("create", "denied")
		return nil, err
	}

	e := event.NewEvent(input.Name, input.Description, input.Location, input.StartAt, input.EndAt, input.TicketPrice, input.TopPick)
	if err := e.Validate(); err != nil {
		s.countMutation("create", "invalid")
		return nil, fmt.Errorf("バリデーションエラー: %w", err)
	}

	if !image.isEmpty() {
		url, err := s.uploadImage(ctx, image)
		if err != nil {
			s.countMutation("create", "storage_error")
			return nil, err
		}
		e.ImageURL = url
	}

	if err := s.eventRepo.Create(ctx, e); err != nil {
		s.countMutation("create", "error")
		return nil, fmt.Errorf("イベント作成に失敗しました: %w", err)
	}

	s.invalidateCache(ctx, e.ID)
	s.countMutation("create", "success")
	logger.Info("イベントを作成しました", zap.Int64("event_id", e.ID), zap.String("name", e.Name))
	return e, nil
}

// GetEvent はIDからイベントを取得する
func (s *EventService) GetEvent(ctx context.Context, id int64) (*event.Event, error) {
	if s.cache != nil {
		if e, err := s.cache.Get(ctx, id); err == nil {
			return e, nil
		}
	}

	e, err := s.eventRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, e); err != nil {
			logger.Warn("キャッシュ保存に失敗しました", zap.Int64("event_id", id), zap.Error(err))
		}
	}
	return e, nil
}

// ListEvents は全イベントを取得する
func (s *EventService) ListEvents(ctx context.Context) ([]*event.Event, error) {
	if s.cache != nil {
		if events, err := s.cache.GetList(ctx); err == nil {
			return events, nil
		}
	}

	events, err := s.eventRepo.List(ctx)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.SetList(ctx, events); err != nil {
			logger.Warn("一覧キャッシュ保存に失敗しました", zap.Error(err))
		}
	}
	return events, nil
}

type UpdateEventInput struct {
	Name        string
	Description string
	Location    string
	StartAt     time.Time
	EndAt       time.Time
	TicketPrice int
	TopPick     bool
}

// UpdateEvent は既存イベントを更新する（管理者のみ）
// パッチの全フィールドを上書きし、画像が添付されている場合のみImageURLを差し替える
// 同一イベントへの並行更新はイベント単位ロックで直列化する
func (s *EventService) UpdateEvent(ctx context.Context, claims auth.Claims, id int64, input UpdateEventInput, image *ImageUpload) (*event.Event, error) {
	if err := auth.RequireAdmin(claims); err != nil {
		s.countMutation("update", "denied")
		return nil, err
	}

	if s.lockManager != nil {
		lock, err := s.lockManager.AcquireEventLockWithRetry(ctx, id, updateLockTTL, updateLockMaxRetries, updateLockRetryDelay)
		if err != nil {
			if errors.Is(err, redisinfra.ErrLockNotAcquired) {
				s.countMutation("update", "lock_failed")
				return nil, fmt.Errorf("イベントが他の処理で更新中です: %w", err)
			}
			return nil, fmt.Errorf("ロック取得に失敗: %w", err)
		}
		defer lock.Release(ctx)
	}

	e, err := s.eventRepo.GetByID(ctx, id)
	if err != nil {
		s.countMutation("update", "not_found")
		return nil, err
	}

	// 画像の差し替えはアップロード成功後にのみ行う
	// 旧画像は同期的には削除しない（孤児画像はワーカーが回収する）
	if !image.isEmpty() {
		url, err := s.uploadImage(ctx, image)
		if err != nil {
			s.countMutation("update", "storage_error")
			return nil, err
		}
		e.ImageURL = url
	}

	e.Merge(event.Patch{
		Name:        input.Name,
		Description: input.Description,
		Location:    input.Location,
		StartAt:     input.StartAt,
		EndAt:       input.EndAt,
		TicketPrice: input.TicketPrice,
		TopPick:     input.TopPick,
	})
	if err := e.Validate(); err != nil {
		s.countMutation("update", "invalid")
		return nil, fmt.Errorf("バリデーションエラー: %w", err)
	}

	if err := s.eventRepo.Update(ctx, e); err != nil {
		s.countMutation("update", "error")
		return nil, err
	}

	s.invalidateCache(ctx, id)
	s.countMutation("update", "success")
	logger.Info("イベントを更新しました", zap.Int64("event_id", id))
	return e, nil
}

// DeleteEvent はイベントを削除する（管理者のみ）
// 関連する画像は同期的には削除しない（孤児画像はワーカーが回収する）
func (s *EventService) DeleteEvent(ctx context.Context, claims auth.Claims, id int64) error {
	if err := auth.RequireAdmin(claims); err != nil {
		s.countMutation("delete", "denied")
		return err
	}

	if _, err := s.eventRepo.GetByID(ctx, id); err != nil {
		s.countMutation("delete", "not_found")
		return err
	}

	if err := s.eventRepo.Delete(ctx, id); err != nil {
		s.countMutation("delete", "error")
		return err
	}

	s.invalidateCache(ctx, id)
	s.countMutation("delete", "success")
	logger.Info("イベントを削除しました", zap.Int64("event_id", id))
	return nil
}

// LikeEvent はいいね数を1だけ加算する（認証不要）
// ストア側のアトミックな加算を使うため、並行呼び出しでも加算が失われない
func (s *EventService) LikeEvent(ctx context.Context, id int64) error {
	if err := s.eventRepo.IncrementLikes(ctx, id); err != nil {
		return err
	}

	s.invalidateCache(ctx, id)
	if s.metrics != nil {
		s.metrics.EventLikesTotal.Inc()
	}
	return nil
}

// CleanupOrphanImages はどのイベントからも参照されていない保存済み画像を削除する
// アップロード直後でまだ永続化されていない画像を消さないよう、olderThanより新しいものは残す
func (s *EventService) CleanupOrphanImages(ctx context.Context, olderThan time.Duration) (int, error) {
	if s.imageStore == nil {
		return 0, nil
	}

	urls, err := s.eventRepo.ListImageURLs(ctx)
	if err != nil {
		return 0, err
	}
	referenced := make(map[string]struct{}, len(urls))
	for _, u := range urls {
		referenced[u] = struct{}{}
	}

	objects, err := s.imageStore.List(ctx)
	if err != nil {
		return 0, err
	}

	cutoff := time.Now().Add(-olderThan)
	removed := 0
	for _, obj := range objects {
		if _, ok := referenced[obj.URL]; ok {
			continue
		}
		if obj.LastModified.After(cutoff) {
			continue
		}
		if err := s.imageStore.Remove(ctx, obj.Key); err != nil {
			logger.Warn("孤児画像の削除に失敗しました", zap.String("key", obj.Key), zap.Error(err))
			continue
		}
		removed++
	}
	return removed, nil
}

// uploadImage は画像をストレージへ保存し、公開URLを返す
func (s *EventService) uploadImage(ctx context.Context, image *ImageUpload) (string, error) {
	if s.imageStore == nil {
		return "", fmt.Errorf("画像ストレージが設定されていません: %w", storage.ErrStorageUnavailable)
	}

	start := time.Now()
	url, err := s.imageStore.Store(ctx, image.Data, image.Filename, image.ContentType)
	if s.metrics != nil {
		s.metrics.ImageUploadDuration.Observe(time.Since(start).Seconds())
	}
	if err != nil {
		return "", fmt.Errorf("画像アップロードに失敗しました: %w", err)
	}
	return url, nil
}

func (s *EventService) invalidateCache(ctx context.Context, id int64) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx, id); err != nil {
		logger.Warn("キャッシュ無効化に失敗しました", zap.Int64("event_id", id), zap.Error(err))
	}
}

func (s *EventService) countMutation(operation, status string) {
	if s.metrics != nil {
		s.metrics.EventMutationsTotal.WithLabelValues(operation, status).Inc()
	}
}
