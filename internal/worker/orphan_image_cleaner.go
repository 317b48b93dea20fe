package worker

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/K-AMeus/PartynApp/internal/pkg/logger"
)

// ImageCleaner は孤立画像を削除するインターフェース
type ImageCleaner interface {
	CleanupOrphanImages(ctx context.Context, olderThan time.Duration) (int, error)
}

// OrphanImageCleaner はどのイベントからも参照されていない画像を
// ストレージから定期的に削除するワーカー
type OrphanImageCleaner struct {
	eventService ImageCleaner
	interval     time.Duration
	olderThan    time.Duration
	stopCh       chan struct{}
	doneCh       chan struct{}
}

// NewOrphanImageCleaner は新しいクリーナーを作成
func NewOrphanImageCleaner(
	es ImageCleaner,
	interval time.Duration,
	olderThan time.Duration,
) *OrphanImageCleaner {
	return &OrphanImageCleaner{
		eventService: es,
		interval:     interval,
		olderThan:    olderThan,
		stopCh:       make(chan struct{}),
		doneCh:       make(chan struct{}),
	}
}

// Start はクリーナーを開始
func (c *OrphanImageCleaner) Start(ctx context.Context) {
	logger.Info("孤立画像クリーナー開始",
		zap.Duration("interval", c.interval),
		zap.Duration("older_than", c.olderThan),
	)

	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()
	defer close(c.doneCh)

	for {
		select {
		case <-ctx.Done():
			logger.Info("孤立画像クリーナー停止（コンテキストキャンセル）")
			return
		case <-c.stopCh:
			logger.Info("孤立画像クリーナー停止（シグナル受信）")
			return
		case <-ticker.C:
			c.cleanup(ctx)
		}
	}
}

// Stop はクリーナーを停止
func (c *OrphanImageCleaner) Stop() {
	close(c.stopCh)
	<-c.doneCh
}

// cleanup は孤立画像を削除
func (c *OrphanImageCleaner) cleanup(ctx context.Context) {
	log := logger.Get()
	log.Debug("孤立画像のクリーンアップ開始")

	count, err := c.eventService.CleanupOrphanImages(ctx, c.olderThan)
	if err != nil {
		log.Error("孤立画像のクリーンアップ失敗", zap.Error(err))
		return
	}

	if count > 0 {
		log.Info("孤立画像を削除", zap.Int("count", count))
	} else {
		log.Debug("孤立画像なし")
	}
}
