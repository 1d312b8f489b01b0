package application

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/sanosuguru/go-flight-seat-reservation/internal/domain/flight"
)

type flightTestDeps struct {
	txManager  *MockTxManager
	tx         *MockTx
	flightRepo *MockFlightRepositoryUnit
	seatRepo   *MockSeatRepositoryUnit
	service    *FlightService
}

func newFlightTestService() flightTestDeps {
	txm := new(MockTxManager)
	tx := new(MockTx)
	flightRepo := new(MockFlightRepositoryUnit)
	seatRepo := new(MockSeatRepositoryUnit)
	return flightTestDeps{
		txManager:  txm,
		tx:         tx,
		flightRepo: flightRepo,
		seatRepo:   seatRepo,
		service:    NewFlightService(txm, flightRepo, seatRepo),
	}
}

func validCreateFlightInput() CreateFlightInput {
	return CreateFlightInput{
		FlightNumber: "NH204",
		Origin:       "HND",
		Destination:  "SFO",
		DepartureAt:  time.Now().Add(48 * time.Hour),
		ArrivalAt:    time.Now().Add(57 * time.Hour),
		BasePrice:    10000,
		Layout: []flight.SeatLayout{
			{SeatNumber: "1A", Class: flight.ClassFirst},
			{SeatNumber: "2A", Class: flight.ClassBusiness},
			{SeatNumber: "12A", Class: flight.ClassEconomy},
			{SeatNumber: "12B", Class: flight.ClassEconomy},
		},
	}
}

func TestFlightService_CreateFlight_Success(t *testing.T) {
	d := newFlightTestService()
	ctx := context.Background()

	d.txManager.On("Begin", ctx).Return(d.tx, nil)
	d.tx.On("Commit").Return(nil)
	d.tx.On("Rollback").Return(nil)
	d.flightRepo.On("Create", ctx, d.tx, mock.AnythingOfType("*flight.Flight")).Return(nil)
	d.seatRepo.On("CreateBulk", ctx, d.tx, mock.AnythingOfType("[]*seat.Seat")).Return(nil)

	result, err := d.service.CreateFlight(ctx, validCreateFlightInput())

	require.NoError(t, err)
	require.NotNil(t, result)
	assert.Equal(t, "NH204", result.FlightNumber)
	assert.Equal(t, 10000, result.BasePrice)
	d.flightRepo.AssertExpectations(t)
	d.seatRepo.AssertExpectations(t)
	d.tx.AssertCalled(t, "Commit")
}

func TestFlightService_CreateFlight_Errors(t *testing.T) {
	t.Run("便名が空", func(t *testing.T) {
		d := newFlightTestService()

		input := validCreateFlightInput()
		input.FlightNumber = ""

		_, err := d.service.CreateFlight(context.Background(), input)

		require.Error(t, err)
		assert.True(t, errors.Is(err, flight.ErrFlightNumberRequired))
	})

	t.Run("基本運賃が負", func(t *testing.T) {
		d := newFlightTestService()

		input := validCreateFlightInput()
		input.BasePrice = -1

		_, err := d.service.CreateFlight(context.Background(), input)

		require.Error(t, err)
		assert.True(t, errors.Is(err, flight.ErrInvalidBasePrice))
	})

	t.Run("レイアウトが空", func(t *testing.T) {
		d := newFlightTestService()

		input := validCreateFlightInput()
		input.Layout = nil

		_, err := d.service.CreateFlight(context.Background(), input)

		require.Error(t, err)
		assert.True(t, errors.Is(err, flight.ErrLayoutRequired))
	})

	t.Run("座席番号が重複", func(t *testing.T) {
		d := newFlightTestService()

		input := validCreateFlightInput()
		input.Layout = []flight.SeatLayout{
			{SeatNumber: "12A", Class: flight.ClassEconomy},
			{SeatNumber: "12A", Class: flight.ClassEconomy},
		}

		_, err := d.service.CreateFlight(context.Background(), input)

		require.Error(t, err)
		assert.True(t, errors.Is(err, flight.ErrDuplicateSeatNumber))
	})

	t.Run("不正な座席クラス", func(t *testing.T) {
		d := newFlightTestService()

		input := validCreateFlightInput()
		input.Layout = []flight.SeatLayout{
			{SeatNumber: "12A", Class: "super_deluxe"},
		}

		_, err := d.service.CreateFlight(context.Background(), input)

		require.Error(t, err)
		assert.True(t, errors.Is(err, flight.ErrInvalidSeatClass))
	})

	t.Run("座席作成失敗でロールバック", func(t *testing.T) {
		d := newFlightTestService()
		ctx := context.Background()

		d.txManager.On("Begin", ctx).Return(d.tx, nil)
		d.tx.On("Rollback").Return(nil)
		d.flightRepo.On("Create", ctx, d.tx, mock.AnythingOfType("*flight.Flight")).Return(nil)
		d.seatRepo.On("CreateBulk", ctx, d.tx, mock.AnythingOfType("[]*seat.Seat")).Return(errors.New("insert error"))

		_, err := d.service.CreateFlight(ctx, validCreateFlightInput())

		require.Error(t, err)
		assert.Contains(t, err.Error(), "座席作成に失敗")
		// フライト行だけが残らないこと（コミットされない）
		d.tx.AssertNotCalled(t, "Commit")
		d.tx.AssertCalled(t, "Rollback")
	})
}

func TestFlightService_GetFlight(t *testing.T) {
	d := newFlightTestService()
	ctx := context.Background()

	expected := testFlight()
	d.flightRepo.On("GetByID", ctx, "flight-1").Return(expected, nil)

	result, err := d.service.GetFlight(ctx, "flight-1")

	require.NoError(t, err)
	assert.Equal(t, expected, result)
}

func TestFlightService_ListFlights(t *testing.T) {
	d := newFlightTestService()
	ctx := context.Background()

	expected := []*flight.Flight{testFlight()}
	d.flightRepo.On("List", ctx, 20, 0).Return(expected, nil)

	result, err := d.service.ListFlights(ctx, 0, 0)

	require.NoError(t, err)
	assert.Len(t, result, 1)
}
