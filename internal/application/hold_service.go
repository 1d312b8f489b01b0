package application

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/sanosuguru/go-flight-seat-reservation/internal/domain/flight"
	"github.com/sanosuguru/go-flight-seat-reservation/internal/domain/hold"
	"github.com/sanosuguru/go-flight-seat-reservation/internal/domain/order"
	"github.com/sanosuguru/go-flight-seat-reservation/internal/domain/seat"
	"github.com/sanosuguru/go-flight-seat-reservation/internal/domain/transaction"
	redisinfra "github.com/sanosuguru/go-flight-seat-reservation/internal/infrastructure/redis"
	"github.com/sanosuguru/go-flight-seat-reservation/internal/pkg/logger"
	"github.com/sanosuguru/go-flight-seat-reservation/internal/pkg/metrics"
)

const (
	seatLockTTL        = 10 * time.Second
	seatLockMaxRetries = 3
	seatLockRetryDelay = 100 * time.Millisecond
)

// OrderAssembler は確定ホールドから注文を組み立てるインターフェース
// ホールド確定と同一トランザクション内で呼ばれる
type OrderAssembler interface {
	AssembleOrder(ctx context.Context, tx transaction.Tx, h *hold.Hold) (*order.Order, error)
}

// HoldService は座席ホールドのリクエストレベルの調整役
// 座席状態の変更は必ず座席リポジトリの原子的操作を通して行う
type HoldService struct {
	txManager   transaction.Manager
	holdRepo    hold.Repository
	seatRepo    seat.Repository
	flightRepo  flight.Repository
	assembler   OrderAssembler
	lockManager redisinfra.LockManagerInterface
	cache       redisinfra.AvailabilityCacheInterface
	holdTTL     time.Duration
}

func NewHoldService(
	txManager transaction.Manager,
	hr hold.Repository,
	sr seat.Repository,
	fr flight.Repository,
	assembler OrderAssembler,
	lm redisinfra.LockManagerInterface,
	cache redisinfra.AvailabilityCacheInterface,
	holdTTL time.Duration,
) *HoldService {
	return &HoldService{
		txManager: txManager, holdRepo: hr, seatRepo: sr, flightRepo: fr,
		assembler: assembler, lockManager: lm, cache: cache, holdTTL: holdTTL,
	}
}

type RequestHoldInput struct {
	FlightID       string
	UserID         string
	SeatIDs        []string
	IdempotencyKey string
}

// RequestHold は座席ホールドを作成する
// 同一フライトへのホールド要求はフライト単位の分散ロックで直列化し、
// 全席が空いている場合のみ全席をホールドする（全か無か）
func (s *HoldService) RequestHold(ctx context.Context, input RequestHoldInput) (*hold.Hold, error) {
	h := hold.NewHold(input.FlightID, input.UserID, input.IdempotencyKey, input.SeatIDs, s.holdTTL)
	if err := h.Validate(); err != nil {
		s.countHold("invalid")
		return nil, err
	}

	// 冪等性チェック
	// キーはクライアントが選ぶため、他ユーザーのホールドは返さない
	existing, err := s.holdRepo.GetByIdempotencyKey(ctx, input.IdempotencyKey)
	if err == nil {
		if !existing.IsOwnedBy(input.UserID) {
			return nil, hold.ErrIdempotencyKeyAlreadyExists
		}
		return existing, nil
	}
	if !errors.Is(err, hold.ErrHoldNotFound) {
		return nil, fmt.Errorf("冪等性チェックに失敗: %w", err)
	}

	// フライト単位の排他区間（フライトをまたぐロックは取らない）
	if s.lockManager != nil {
		lockStart := time.Now()
		lock, err := s.lockManager.AcquireLockWithRetry(ctx, s.flightLockKey(input.FlightID), seatLockTTL, seatLockMaxRetries, seatLockRetryDelay)
		if err != nil {
			s.observeLock("acquire", "failed", lockStart)
			if errors.Is(err, redisinfra.ErrLockNotAcquired) {
				s.countHold("lock_failed")
				return nil, fmt.Errorf("座席が他のユーザーによって処理中です: %w", seat.ErrSeatNotAvailable)
			}
			return nil, fmt.Errorf("ロック取得に失敗: %w", err)
		}
		s.observeLock("acquire", "success", lockStart)
		defer func() {
			releaseStart := time.Now()
			if err := lock.Release(ctx); err != nil {
				s.observeLock("release", "failed", releaseStart)
				logger.Warn("ロック解放に失敗", zap.String("flight_id", input.FlightID), zap.Error(err))
				return
			}
			s.observeLock("release", "success", releaseStart)
		}()
	}

	// フライトと座席の確認
	if _, err := s.flightRepo.GetByID(ctx, input.FlightID); err != nil {
		return nil, fmt.Errorf("フライト取得に失敗: %w", err)
	}
	seats, err := s.seatRepo.GetByFlightID(ctx, input.FlightID)
	if err != nil {
		return nil, fmt.Errorf("座席取得に失敗: %w", err)
	}
	seatMap := make(map[string]*seat.Seat, len(seats))
	for _, se := range seats {
		seatMap[se.ID] = se
	}
	var conflicting []string
	for _, id := range input.SeatIDs {
		se, ok := seatMap[id]
		if !ok {
			// 指定フライトに属さない座席は入力エラー
			s.countHold("invalid")
			return nil, seat.ErrSeatNotFound
		}
		if !se.IsAvailable() {
			conflicting = append(conflicting, id)
		}
	}
	if len(conflicting) > 0 {
		s.countHold("conflict")
		return nil, &seat.UnavailableError{SeatIDs: conflicting}
	}

	// トランザクション：ホールド作成と座席遷移は不可分
	tx, err := s.txManager.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("トランザクション開始に失敗: %w", err)
	}
	defer tx.Rollback()

	if err := s.holdRepo.Create(ctx, tx, h); err != nil {
		return nil, err
	}
	if err := s.seatRepo.HoldSeats(ctx, tx, h.SeatIDs, h.ID); err != nil {
		// ロック越しに状態が変わっていた場合のバックストップ
		s.countHold("conflict")
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("コミットに失敗: %w", err)
	}

	s.invalidateCache(ctx, input.FlightID)
	s.countHold("success")
	if m := metrics.Get(); m != nil {
		m.ActiveHolds.WithLabelValues(string(hold.StatusActive)).Inc()
	}
	logger.Info("ホールド作成",
		zap.String("hold_id", h.ID),
		zap.String("flight_id", h.FlightID),
		zap.Int("seats", len(h.SeatIDs)),
		zap.Time("expires_at", h.ExpiresAt),
	)
	return h, nil
}

// ConfirmHold はホールドを確定し、同一トランザクションで注文を生成する
// 注文の永続化に失敗した場合はホールド確定ごとロールバックされる
func (s *HoldService) ConfirmHold(ctx context.Context, holdID, userID string) (*hold.Hold, *order.Order, error) {
	h, err := s.holdRepo.GetByID(ctx, holdID)
	if err != nil {
		return nil, nil, err
	}
	if !h.IsOwnedBy(userID) {
		return nil, nil, hold.ErrNotHoldOwner
	}
	if err := h.Confirm(); err != nil {
		return nil, nil, err
	}

	tx, err := s.txManager.Begin(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("トランザクション開始に失敗: %w", err)
	}
	defer tx.Rollback()

	// 期限切れワーカーとの競合はこの条件付き遷移で決着する
	if err := s.holdRepo.MarkConfirmed(ctx, tx, h.ID); err != nil {
		return nil, nil, err
	}
	if err := s.seatRepo.BookSeatsByHold(ctx, tx, h.ID, len(h.SeatIDs)); err != nil {
		return nil, nil, err
	}
	ord, err := s.assembler.AssembleOrder(ctx, tx, h)
	if err != nil {
		return nil, nil, fmt.Errorf("注文生成に失敗: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return nil, nil, fmt.Errorf("コミットに失敗: %w", err)
	}

	s.invalidateCache(ctx, h.FlightID)
	if m := metrics.Get(); m != nil {
		m.ActiveHolds.WithLabelValues(string(hold.StatusActive)).Dec()
		m.ActiveHolds.WithLabelValues(string(hold.StatusConfirmed)).Inc()
		m.OrdersTotal.WithLabelValues("created").Inc()
	}
	logger.Info("ホールド確定",
		zap.String("hold_id", h.ID),
		zap.String("order_id", ord.ID),
		zap.Int("total_amount", ord.TotalAmount),
	)
	return h, ord, nil
}

// CancelHold はホールドを明示的に解放する
// 解放済みへの再実行は何もしない（期限切れとの競合が前提）
func (s *HoldService) CancelHold(ctx context.Context, holdID, userID string) (*hold.Hold, error) {
	h, err := s.holdRepo.GetByID(ctx, holdID)
	if err != nil {
		return nil, err
	}
	if !h.IsOwnedBy(userID) {
		return nil, hold.ErrNotHoldOwner
	}
	if h.Status == hold.StatusConfirmed {
		return nil, hold.ErrHoldAlreadyConfirmed
	}
	if h.Status == hold.StatusReleased {
		return h, nil
	}

	tx, err := s.txManager.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("トランザクション開始に失敗: %w", err)
	}
	defer tx.Rollback()

	released, err := s.holdRepo.MarkReleased(ctx, tx, h.ID)
	if err != nil {
		return nil, err
	}
	if released {
		if err := s.seatRepo.ReleaseSeatsByHold(ctx, tx, h.ID); err != nil {
			return nil, err
		}
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("コミットに失敗: %w", err)
	}

	if released {
		s.invalidateCache(ctx, h.FlightID)
		if m := metrics.Get(); m != nil {
			m.ActiveHolds.WithLabelValues(string(hold.StatusActive)).Dec()
		}
	}
	return s.holdRepo.GetByID(ctx, holdID)
}

// ReleaseExpiredHolds は期限切れホールドを解放して座席を空席に戻す
// ワーカーから定期的に呼ばれる。1件の失敗は記録して次へ進む（次回tickで再試行）
func (s *HoldService) ReleaseExpiredHolds(ctx context.Context) (int, error) {
	const batchLimit = 100
	expired, err := s.holdRepo.GetExpiredActive(ctx, batchLimit)
	if err != nil {
		return 0, fmt.Errorf("期限切れホールド取得に失敗: %w", err)
	}

	count := 0
	for _, h := range expired {
		released, err := s.releaseOne(ctx, h)
		if err != nil {
			logger.Error("期限切れホールド解放に失敗",
				zap.String("hold_id", h.ID), zap.Error(err))
			continue
		}
		if released {
			count++
			s.invalidateCache(ctx, h.FlightID)
			if m := metrics.Get(); m != nil {
				m.HoldsExpiredTotal.Inc()
				m.ActiveHolds.WithLabelValues(string(hold.StatusActive)).Dec()
			}
		}
	}
	return count, nil
}

func (s *HoldService) releaseOne(ctx context.Context, h *hold.Hold) (bool, error) {
	tx, err := s.txManager.Begin(ctx)
	if err != nil {
		return false, fmt.Errorf("トランザクション開始に失敗: %w", err)
	}
	defer tx.Rollback()

	// 確定との競合に敗れた場合は false（座席には触れない）
	released, err := s.holdRepo.MarkReleased(ctx, tx, h.ID)
	if err != nil {
		return false, err
	}
	if released {
		if err := s.seatRepo.ReleaseSeatsByHold(ctx, tx, h.ID); err != nil {
			return false, err
		}
	}
	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("コミットに失敗: %w", err)
	}
	return released, nil
}

func (s *HoldService) GetHold(ctx context.Context, id string) (*hold.Hold, error) {
	return s.holdRepo.GetByID(ctx, id)
}

func (s *HoldService) GetUserHolds(ctx context.Context, userID string, limit, offset int) ([]*hold.Hold, error) {
	if limit <= 0 {
		limit = 20
	}
	return s.holdRepo.GetByUserID(ctx, userID, limit, offset)
}

func (s *HoldService) flightLockKey(flightID string) string {
	return "flight:" + flightID + ":seats"
}

func (s *HoldService) invalidateCache(ctx context.Context, flightID string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx, flightID); err != nil {
		logger.Warn("キャッシュ無効化エラー", zap.Error(err))
	}
}

func (s *HoldService) countHold(status string) {
	if m := metrics.Get(); m != nil {
		m.HoldsTotal.WithLabelValues(status).Inc()
	}
}

func (s *HoldService) observeLock(operation, status string, start time.Time) {
	if m := metrics.Get(); m != nil {
		m.DistributedLockDuration.WithLabelValues(operation, status).Observe(time.Since(start).Seconds())
	}
}
