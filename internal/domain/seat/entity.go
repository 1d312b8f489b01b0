package seat

import (
	"time"

	"github.com/sanosuguru/go-flight-seat-reservation/internal/domain/flight"
)

// Status は座席の状態を表す
type Status string

const (
	StatusAvailable Status = "available"
	StatusHeld      Status = "held"
	StatusBooked    Status = "booked"
)

// Seat は座席エンティティを表す
// 1座席は常にちょうど1つの状態を持ち、状態遷移は座席単位で直列化される
type Seat struct {
	ID         string
	FlightID   string
	SeatNumber string
	Class      flight.SeatClass
	Status     Status
	HeldBy     *string // hold_id
	HeldAt     *time.Time
	CreatedAt  time.Time
	UpdatedAt  time.Time
	Version    int // 楽観的ロック用
}

// NewSeat は新しい座席を作成する
func NewSeat(flightID, seatNumber string, class flight.SeatClass) *Seat {
	now := time.Now()
	return &Seat{
		FlightID:   flightID,
		SeatNumber: seatNumber,
		Class:      class,
		Status:     StatusAvailable,
		CreatedAt:  now,
		UpdatedAt:  now,
		Version:    0,
	}
}

// IsAvailable は座席がホールド可能かを返す
func (s *Seat) IsAvailable() bool {
	return s.Status == StatusAvailable
}

// Hold は座席をホールド状態にする
func (s *Seat) Hold(holdID string) error {
	if s.Status != StatusAvailable {
		return ErrSeatNotAvailable
	}
	now := time.Now()
	s.Status = StatusHeld
	s.HeldBy = &holdID
	s.HeldAt = &now
	s.UpdatedAt = now
	return nil
}

// Book はホールド中の座席を予約確定状態にする
func (s *Seat) Book() error {
	if s.Status != StatusHeld {
		return ErrSeatNotHeld
	}
	s.Status = StatusBooked
	s.UpdatedAt = time.Now()
	return nil
}

// Release は座席を解放する
// 既に解放済みでも安全（期限切れとの競合が前提）
func (s *Seat) Release() {
	s.Status = StatusAvailable
	s.HeldBy = nil
	s.HeldAt = nil
	s.UpdatedAt = time.Now()
}

// Validate は座席の検証を行う
func (s *Seat) Validate() error {
	if s.FlightID == "" {
		return ErrFlightIDRequired
	}
	if s.SeatNumber == "" {
		return ErrSeatNumberRequired
	}
	if !s.Class.IsValid() {
		return ErrInvalidSeatClass
	}
	return nil
}
