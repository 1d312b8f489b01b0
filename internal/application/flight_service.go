package application

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/sanosuguru/go-flight-seat-reservation/internal/domain/flight"
	"github.com/sanosuguru/go-flight-seat-reservation/internal/domain/seat"
	"github.com/sanosuguru/go-flight-seat-reservation/internal/domain/transaction"
	"github.com/sanosuguru/go-flight-seat-reservation/internal/pkg/logger"
)

// FlightService はフライトカタログの管理を行う
type FlightService struct {
	txManager  transaction.Manager
	flightRepo flight.Repository
	seatRepo   seat.Repository
}

func NewFlightService(txManager transaction.Manager, fr flight.Repository, sr seat.Repository) *FlightService {
	return &FlightService{txManager: txManager, flightRepo: fr, seatRepo: sr}
}

type CreateFlightInput struct {
	FlightNumber string
	Origin       string
	Destination  string
	DepartureAt  time.Time
	ArrivalAt    time.Time
	BasePrice    int
	Layout       []flight.SeatLayout
}

// CreateFlight はフライトと座席レイアウトを作成する
// レイアウトの全座席は available で初期化される
func (s *FlightService) CreateFlight(ctx context.Context, input CreateFlightInput) (*flight.Flight, error) {
	f := flight.NewFlight(input.FlightNumber, input.Origin, input.Destination,
		input.DepartureAt, input.ArrivalAt, input.BasePrice)
	if err := f.Validate(); err != nil {
		return nil, err
	}
	if err := flight.ValidateLayout(input.Layout); err != nil {
		return nil, err
	}

	// フライトと座席レイアウトは同一トランザクションで作成する
	// 座席作成が失敗した場合に座席のないフライトが残らないようにする
	tx, err := s.txManager.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("トランザクション開始に失敗: %w", err)
	}
	defer tx.Rollback()

	if err := s.flightRepo.Create(ctx, tx, f); err != nil {
		return nil, fmt.Errorf("フライト作成に失敗: %w", err)
	}

	seats := make([]*seat.Seat, len(input.Layout))
	for i, l := range input.Layout {
		seats[i] = seat.NewSeat(f.ID, l.SeatNumber, l.Class)
	}
	if err := s.seatRepo.CreateBulk(ctx, tx, seats); err != nil {
		return nil, fmt.Errorf("座席作成に失敗: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("コミットに失敗: %w", err)
	}

	logger.Info("フライト作成",
		zap.String("flight_id", f.ID),
		zap.String("flight_number", f.FlightNumber),
		zap.Int("seats", len(seats)),
	)
	return f, nil
}

func (s *FlightService) GetFlight(ctx context.Context, id string) (*flight.Flight, error) {
	return s.flightRepo.GetByID(ctx, id)
}

func (s *FlightService) ListFlights(ctx context.Context, limit, offset int) ([]*flight.Flight, error) {
	if limit <= 0 {
		limit = 20
	}
	return s.flightRepo.List(ctx, limit, offset)
}
