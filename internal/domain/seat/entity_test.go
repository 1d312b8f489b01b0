package seat

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sanosuguru/go-flight-seat-reservation/internal/domain/flight"
)

func TestNewSeat(t *testing.T) {
	s := NewSeat("flight-123", "12A", flight.ClassEconomy)

	assert.Equal(t, "flight-123", s.FlightID)
	assert.Equal(t, "12A", s.SeatNumber)
	assert.Equal(t, flight.ClassEconomy, s.Class)
	assert.Equal(t, StatusAvailable, s.Status)
	assert.Nil(t, s.HeldBy)
	assert.Nil(t, s.HeldAt)
	assert.Equal(t, 0, s.Version)
}

func TestSeat_IsAvailable(t *testing.T) {
	tests := []struct {
		name     string
		status   Status
		expected bool
	}{
		{"空席", StatusAvailable, true},
		{"ホールド中", StatusHeld, false},
		{"予約確定", StatusBooked, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := &Seat{Status: tt.status}
			assert.Equal(t, tt.expected, s.IsAvailable())
		})
	}
}

func TestSeat_Hold(t *testing.T) {
	t.Run("空席をホールドできる", func(t *testing.T) {
		s := NewSeat("flight-123", "12A", flight.ClassEconomy)

		err := s.Hold("hold-456")

		require.NoError(t, err)
		assert.Equal(t, StatusHeld, s.Status)
		require.NotNil(t, s.HeldBy)
		assert.Equal(t, "hold-456", *s.HeldBy)
		assert.NotNil(t, s.HeldAt)
	})

	t.Run("ホールド中の座席はホールドできない", func(t *testing.T) {
		s := NewSeat("flight-123", "12A", flight.ClassEconomy)
		s.Status = StatusHeld

		err := s.Hold("hold-456")

		require.Error(t, err)
		assert.ErrorIs(t, err, ErrSeatNotAvailable)
	})

	t.Run("予約確定済みの座席はホールドできない", func(t *testing.T) {
		s := NewSeat("flight-123", "12A", flight.ClassEconomy)
		s.Status = StatusBooked

		err := s.Hold("hold-456")

		require.Error(t, err)
		assert.ErrorIs(t, err, ErrSeatNotAvailable)
	})
}

func TestSeat_Book(t *testing.T) {
	t.Run("ホールド中の座席を確定できる", func(t *testing.T) {
		s := NewSeat("flight-123", "12A", flight.ClassEconomy)
		s.Hold("hold-456")

		err := s.Book()

		require.NoError(t, err)
		assert.Equal(t, StatusBooked, s.Status)
	})

	t.Run("空席は確定できない", func(t *testing.T) {
		s := NewSeat("flight-123", "12A", flight.ClassEconomy)

		err := s.Book()

		require.Error(t, err)
		assert.ErrorIs(t, err, ErrSeatNotHeld)
	})
}

func TestSeat_Release(t *testing.T) {
	s := NewSeat("flight-123", "12A", flight.ClassEconomy)
	s.Hold("hold-456")

	s.Release()

	assert.Equal(t, StatusAvailable, s.Status)
	assert.Nil(t, s.HeldBy)
	assert.Nil(t, s.HeldAt)

	// 二重解放も安全
	s.Release()
	assert.Equal(t, StatusAvailable, s.Status)
}

func TestSeat_Validate(t *testing.T) {
	tests := []struct {
		name        string
		seat        *Seat
		expectedErr error
	}{
		{
			name:        "有効な座席",
			seat:        &Seat{FlightID: "flight-123", SeatNumber: "12A", Class: flight.ClassEconomy},
			expectedErr: nil,
		},
		{
			name:        "フライトIDが空",
			seat:        &Seat{FlightID: "", SeatNumber: "12A", Class: flight.ClassEconomy},
			expectedErr: ErrFlightIDRequired,
		},
		{
			name:        "座席番号が空",
			seat:        &Seat{FlightID: "flight-123", SeatNumber: "", Class: flight.ClassEconomy},
			expectedErr: ErrSeatNumberRequired,
		},
		{
			name:        "クラスが無効",
			seat:        &Seat{FlightID: "flight-123", SeatNumber: "12A", Class: "jump"},
			expectedErr: ErrInvalidSeatClass,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.seat.Validate()
			if tt.expectedErr != nil {
				require.Error(t, err)
				assert.ErrorIs(t, err, tt.expectedErr)
			} else {
				require.NoError(t, err)
			}
		})
	}
}

func TestUnavailableError(t *testing.T) {
	err := &UnavailableError{SeatIDs: []string{"seat-1", "seat-2"}}

	assert.ErrorIs(t, err, ErrSeatNotAvailable)
	assert.Contains(t, err.Error(), "seat-1")
	assert.Contains(t, err.Error(), "seat-2")
}
