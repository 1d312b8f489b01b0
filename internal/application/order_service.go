package application

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/sanosuguru/go-flight-seat-reservation/internal/domain/flight"
	"github.com/sanosuguru/go-flight-seat-reservation/internal/domain/hold"
	"github.com/sanosuguru/go-flight-seat-reservation/internal/domain/order"
	"github.com/sanosuguru/go-flight-seat-reservation/internal/domain/seat"
	"github.com/sanosuguru/go-flight-seat-reservation/internal/domain/transaction"
	"github.com/sanosuguru/go-flight-seat-reservation/internal/pkg/logger"
	"github.com/sanosuguru/go-flight-seat-reservation/internal/pkg/metrics"
)

// OrderService は注文の組み立てと支払い状態の管理を行う
type OrderService struct {
	orderRepo  order.Repository
	seatRepo   seat.Repository
	flightRepo flight.Repository
}

func NewOrderService(or order.Repository, sr seat.Repository, fr flight.Repository) *OrderService {
	return &OrderService{orderRepo: or, seatRepo: sr, flightRepo: fr}
}

// AssembleOrder は確定ホールドから注文を組み立てて永続化する
// 価格は基本運賃×クラス倍率でサーバー側が再計算する
// 呼び出し元のトランザクションに参加し、失敗は確定ごと巻き戻される
func (s *OrderService) AssembleOrder(ctx context.Context, tx transaction.Tx, h *hold.Hold) (*order.Order, error) {
	f, err := s.flightRepo.GetByID(ctx, h.FlightID)
	if err != nil {
		return nil, fmt.Errorf("フライト取得に失敗: %w", err)
	}
	seats, err := s.seatRepo.GetByIDs(ctx, h.SeatIDs)
	if err != nil {
		return nil, fmt.Errorf("座席取得に失敗: %w", err)
	}
	if len(seats) != len(h.SeatIDs) {
		return nil, seat.ErrSeatNotFound
	}

	lines := make([]order.Line, len(seats))
	for i, se := range seats {
		lines[i] = order.Line{SeatID: se.ID, Price: f.PriceFor(se.Class)}
	}
	o := order.NewOrder(h.ID, h.FlightID, h.UserID, lines)
	if err := o.Validate(); err != nil {
		return nil, err
	}
	if err := s.orderRepo.Create(ctx, tx, o); err != nil {
		return nil, err
	}
	return o, nil
}

// MarkPaid は注文を支払い済みにする
// 支払い済みへの再適用は現在の注文をそのまま返す（冪等）
func (s *OrderService) MarkPaid(ctx context.Context, orderID string) (*order.Order, error) {
	o, err := s.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	changed, err := o.MarkPaid()
	if err != nil {
		return nil, err
	}
	if !changed {
		return o, nil
	}
	updated, err := s.orderRepo.UpdateStatus(ctx, o)
	if err != nil {
		return nil, err
	}
	if !updated {
		// 読み取り後に別の呼び出しが先に確定させた。再読みして冪等判定
		return s.resolveRace(ctx, orderID, order.StatusPaid)
	}
	if m := metrics.Get(); m != nil {
		m.OrdersTotal.WithLabelValues("paid").Inc()
	}
	logger.Info("注文支払い完了",
		zap.String("order_id", o.ID),
		zap.Int("total_amount", o.TotalAmount),
	)
	return o, nil
}

// CancelOrder は未払いの注文をキャンセルする（決済失敗・タイムアウト時）
// 座席状態には触れない。キャンセル済みへの再適用は冪等
func (s *OrderService) CancelOrder(ctx context.Context, orderID string) (*order.Order, error) {
	o, err := s.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	changed, err := o.Cancel()
	if err != nil {
		return nil, err
	}
	if !changed {
		return o, nil
	}
	updated, err := s.orderRepo.UpdateStatus(ctx, o)
	if err != nil {
		return nil, err
	}
	if !updated {
		return s.resolveRace(ctx, orderID, order.StatusCancelled)
	}
	if m := metrics.Get(); m != nil {
		m.OrdersTotal.WithLabelValues("cancelled").Inc()
	}
	logger.Info("注文キャンセル", zap.String("order_id", o.ID))
	return o, nil
}

// resolveRace は条件付きUPDATEに敗れた側の結果を確定させる
// 既に目的の状態であれば冪等な成功、そうでなければ確定済みエラー
func (s *OrderService) resolveRace(ctx context.Context, orderID string, want order.Status) (*order.Order, error) {
	current, err := s.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if current.Status == want {
		return current, nil
	}
	return nil, order.ErrOrderAlreadyResolved
}

func (s *OrderService) GetOrder(ctx context.Context, id string) (*order.Order, error) {
	return s.orderRepo.GetByID(ctx, id)
}

func (s *OrderService) GetOrderByHold(ctx context.Context, holdID string) (*order.Order, error) {
	return s.orderRepo.GetByHoldID(ctx, holdID)
}

func (s *OrderService) GetUserOrders(ctx context.Context, userID string, limit, offset int) ([]*order.Order, error) {
	if limit <= 0 {
		limit = 20
	}
	return s.orderRepo.GetByUserID(ctx, userID, limit, offset)
}

var _ OrderAssembler = (*OrderService)(nil)
