package order

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewOrder(t *testing.T) {
	lines := []Line{
		{SeatID: "seat-1", Price: 10000},
		{SeatID: "seat-2", Price: 25000},
	}

	o := NewOrder("hold-1", "flight-1", "user-1", lines)

	assert.Equal(t, "hold-1", o.HoldID)
	assert.Equal(t, StatusPendingPayment, o.Status)
	assert.Equal(t, 35000, o.TotalAmount)
	assert.Equal(t, []string{"seat-1", "seat-2"}, o.SeatIDs())
	assert.Nil(t, o.PaidAt)
}

func TestOrder_MarkPaid(t *testing.T) {
	t.Run("支払い待ちの注文を支払い済みにできる", func(t *testing.T) {
		o := NewOrder("hold-1", "flight-1", "user-1", []Line{{SeatID: "seat-1", Price: 10000}})

		changed, err := o.MarkPaid()

		require.NoError(t, err)
		assert.True(t, changed)
		assert.Equal(t, StatusPaid, o.Status)
		assert.NotNil(t, o.PaidAt)
	})

	t.Run("二重通知は冪等", func(t *testing.T) {
		o := NewOrder("hold-1", "flight-1", "user-1", []Line{{SeatID: "seat-1", Price: 10000}})
		_, err := o.MarkPaid()
		require.NoError(t, err)
		paidAt := o.PaidAt

		changed, err := o.MarkPaid()

		require.NoError(t, err)
		assert.False(t, changed)
		assert.Equal(t, StatusPaid, o.Status)
		assert.Equal(t, paidAt, o.PaidAt)
	})

	t.Run("キャンセル済みの注文は支払い済みにできない", func(t *testing.T) {
		o := NewOrder("hold-1", "flight-1", "user-1", []Line{{SeatID: "seat-1", Price: 10000}})
		_, err := o.Cancel()
		require.NoError(t, err)

		changed, err := o.MarkPaid()

		require.Error(t, err)
		assert.False(t, changed)
		assert.ErrorIs(t, err, ErrOrderAlreadyResolved)
	})
}

func TestOrder_Cancel(t *testing.T) {
	t.Run("支払い待ちの注文をキャンセルできる", func(t *testing.T) {
		o := NewOrder("hold-1", "flight-1", "user-1", []Line{{SeatID: "seat-1", Price: 10000}})

		changed, err := o.Cancel()

		require.NoError(t, err)
		assert.True(t, changed)
		assert.Equal(t, StatusCancelled, o.Status)
	})

	t.Run("二重キャンセルは冪等", func(t *testing.T) {
		o := NewOrder("hold-1", "flight-1", "user-1", []Line{{SeatID: "seat-1", Price: 10000}})
		_, err := o.Cancel()
		require.NoError(t, err)

		changed, err := o.Cancel()

		require.NoError(t, err)
		assert.False(t, changed)
	})

	t.Run("支払い済みの注文はキャンセルできない", func(t *testing.T) {
		o := NewOrder("hold-1", "flight-1", "user-1", []Line{{SeatID: "seat-1", Price: 10000}})
		_, err := o.MarkPaid()
		require.NoError(t, err)

		changed, err := o.Cancel()

		require.Error(t, err)
		assert.False(t, changed)
		assert.ErrorIs(t, err, ErrOrderAlreadyResolved)
	})
}

func TestOrder_Validate(t *testing.T) {
	valid := func() *Order {
		return &Order{
			HoldID: "hold-1", FlightID: "flight-1", UserID: "user-1",
			Lines: []Line{{SeatID: "seat-1", Price: 10000}},
		}
	}

	tests := []struct {
		name        string
		mutate      func(*Order)
		expectedErr error
	}{
		{"有効な注文", func(o *Order) {}, nil},
		{"ホールドIDが空", func(o *Order) { o.HoldID = "" }, ErrHoldIDRequired},
		{"フライトIDが空", func(o *Order) { o.FlightID = "" }, ErrFlightIDRequired},
		{"ユーザーIDが空", func(o *Order) { o.UserID = "" }, ErrUserIDRequired},
		{"明細が空", func(o *Order) { o.Lines = nil }, ErrLinesRequired},
		{"価格が負", func(o *Order) { o.Lines[0].Price = -1 }, ErrInvalidPrice},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o := valid()
			tt.mutate(o)
			err := o.Validate()
			if tt.expectedErr != nil {
				require.Error(t, err)
				assert.ErrorIs(t, err, tt.expectedErr)
			} else {
				require.NoError(t, err)
			}
		})
	}
}
