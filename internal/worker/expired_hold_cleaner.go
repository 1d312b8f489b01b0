package worker

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/sanosuguru/go-flight-seat-reservation/internal/pkg/logger"
)

// HoldReleaser は期限切れホールドを解放するインターフェース
type HoldReleaser interface {
	ReleaseExpiredHolds(ctx context.Context) (int, error)
}

// ExpiredHoldCleaner は期限切れホールドを定期的に解放するワーカー
// 解放された座席は空席に戻り、他のユーザーがホールドできるようになる
type ExpiredHoldCleaner struct {
	holdService HoldReleaser
	interval    time.Duration
	stopCh      chan struct{}
	doneCh      chan struct{}
}

// NewExpiredHoldCleaner は新しいクリーナーを作成
func NewExpiredHoldCleaner(hs HoldReleaser, interval time.Duration) *ExpiredHoldCleaner {
	return &ExpiredHoldCleaner{
		holdService: hs,
		interval:    interval,
		stopCh:      make(chan struct{}),
		doneCh:      make(chan struct{}),
	}
}

// Start はクリーナーを開始
func (c *ExpiredHoldCleaner) Start(ctx context.Context) {
	logger.Info("期限切れホールドクリーナー開始",
		zap.Duration("interval", c.interval),
	)

	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()
	defer close(c.doneCh)

	for {
		select {
		case <-ctx.Done():
			logger.Info("期限切れホールドクリーナー停止（コンテキストキャンセル）")
			return
		case <-c.stopCh:
			logger.Info("期限切れホールドクリーナー停止（シグナル受信）")
			return
		case <-ticker.C:
			c.sweep(ctx)
		}
	}
}

// Stop はクリーナーを停止
func (c *ExpiredHoldCleaner) Stop() {
	close(c.stopCh)
	<-c.doneCh
}

// sweep は期限切れホールドを解放する
func (c *ExpiredHoldCleaner) sweep(ctx context.Context) {
	log := logger.Get()
	log.Debug("期限切れホールドの掃除開始")

	count, err := c.holdService.ReleaseExpiredHolds(ctx)
	if err != nil {
		log.Error("期限切れホールドの掃除失敗", zap.Error(err))
		return
	}

	if count > 0 {
		log.Info("期限切れホールドを解放", zap.Int("count", count))
	} else {
		log.Debug("期限切れホールドなし")
	}
}
