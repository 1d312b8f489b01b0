package handler

import (
	"context"

	"github.com/sanosuguru/go-flight-seat-reservation/internal/application"
	"github.com/sanosuguru/go-flight-seat-reservation/internal/domain/flight"
	"github.com/sanosuguru/go-flight-seat-reservation/internal/domain/hold"
	"github.com/sanosuguru/go-flight-seat-reservation/internal/domain/order"
	"github.com/sanosuguru/go-flight-seat-reservation/internal/domain/seat"
)

// FlightServiceInterface はフライトサービスのインターフェース
type FlightServiceInterface interface {
	CreateFlight(ctx context.Context, input application.CreateFlightInput) (*flight.Flight, error)
	GetFlight(ctx context.Context, id string) (*flight.Flight, error)
	ListFlights(ctx context.Context, limit, offset int) ([]*flight.Flight, error)
}

// SeatServiceInterface は座席サービスのインターフェース
type SeatServiceInterface interface {
	GetSeat(ctx context.Context, id string) (*seat.Seat, error)
	GetSeatsByFlight(ctx context.Context, flightID string) ([]*seat.Seat, error)
	GetAvailableSeatsByFlight(ctx context.Context, flightID string) ([]*seat.Seat, error)
	CountAvailableSeats(ctx context.Context, flightID string) (int, error)
}

// HoldServiceInterface はホールドサービスのインターフェース
type HoldServiceInterface interface {
	RequestHold(ctx context.Context, input application.RequestHoldInput) (*hold.Hold, error)
	GetHold(ctx context.Context, id string) (*hold.Hold, error)
	GetUserHolds(ctx context.Context, userID string, limit, offset int) ([]*hold.Hold, error)
	ConfirmHold(ctx context.Context, holdID, userID string) (*hold.Hold, *order.Order, error)
	CancelHold(ctx context.Context, holdID, userID string) (*hold.Hold, error)
}

// OrderServiceInterface は注文サービスのインターフェース
type OrderServiceInterface interface {
	GetOrder(ctx context.Context, id string) (*order.Order, error)
	GetUserOrders(ctx context.Context, userID string, limit, offset int) ([]*order.Order, error)
	MarkPaid(ctx context.Context, orderID string) (*order.Order, error)
	CancelOrder(ctx context.Context, orderID string) (*order.Order, error)
}
