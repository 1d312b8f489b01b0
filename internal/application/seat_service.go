package application

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/sanosuguru/go-flight-seat-reservation/internal/domain/seat"
	redisinfra "github.com/sanosuguru/go-flight-seat-reservation/internal/infrastructure/redis"
	"github.com/sanosuguru/go-flight-seat-reservation/internal/pkg/logger"
)

const availabilityCacheTTL = 30 * time.Second

// SeatService は座席在庫の読み取り系操作を提供する
type SeatService struct {
	seatRepo seat.Repository
	cache    redisinfra.AvailabilityCacheInterface
}

func NewSeatService(sr seat.Repository, cache redisinfra.AvailabilityCacheInterface) *SeatService {
	return &SeatService{seatRepo: sr, cache: cache}
}

func (s *SeatService) GetSeat(ctx context.Context, id string) (*seat.Seat, error) {
	return s.seatRepo.GetByID(ctx, id)
}

func (s *SeatService) GetSeatsByFlight(ctx context.Context, flightID string) ([]*seat.Seat, error) {
	return s.seatRepo.GetByFlightID(ctx, flightID)
}

func (s *SeatService) GetAvailableSeatsByFlight(ctx context.Context, flightID string) ([]*seat.Seat, error) {
	return s.seatRepo.GetAvailableByFlightID(ctx, flightID)
}

// CountAvailableSeats はフライトの空席数を返す
// キャッシュヒット時はDBに触れない。キャッシュは状態変更時に無効化される
func (s *SeatService) CountAvailableSeats(ctx context.Context, flightID string) (int, error) {
	if s.cache != nil {
		count, err := s.cache.GetAvailableCount(ctx, flightID)
		if err == nil {
			return count, nil
		}
		if !errors.Is(err, redisinfra.ErrCacheMiss) {
			logger.Warn("空席数キャッシュ取得エラー", zap.Error(err))
		}
	}

	count, err := s.seatRepo.CountAvailableByFlightID(ctx, flightID)
	if err != nil {
		return 0, fmt.Errorf("空席数取得に失敗: %w", err)
	}

	if s.cache != nil {
		if err := s.cache.SetAvailableCount(ctx, flightID, count, availabilityCacheTTL); err != nil {
			logger.Warn("空席数キャッシュ保存エラー", zap.Error(err))
		}
	}
	return count, nil
}
