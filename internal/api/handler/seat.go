package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/sanosuguru/go-flight-seat-reservation/internal/domain/seat"
)

type SeatHandler struct {
	service SeatServiceInterface
}

func NewSeatHandler(s SeatServiceInterface) *SeatHandler {
	return &SeatHandler{service: s}
}

type SeatResponse struct {
	ID         string     `json:"id"`
	FlightID   string     `json:"flight_id"`
	SeatNumber string     `json:"seat_number"`
	Class      string     `json:"class"`
	Status     string     `json:"status"`
	HeldAt     *time.Time `json:"held_at,omitempty"`
}

func toSeatResponse(s *seat.Seat) SeatResponse {
	return SeatResponse{
		ID: s.ID, FlightID: s.FlightID,
		SeatNumber: s.SeatNumber, Class: string(s.Class),
		Status: string(s.Status), HeldAt: s.HeldAt,
	}
}

type AvailableCountResponse struct {
	FlightID       string `json:"flight_id"`
	AvailableCount int    `json:"available_count"`
}

// GetByFlight godoc
// @Summary フライトの座席一覧を取得
// @Description available=true を指定すると空席のみを返します
// @Tags seats
// @Produce json
// @Param flight_id path string true "フライトID"
// @Param available query bool false "空席のみ"
// @Success 200 {array} SeatResponse
// @Router /flights/{flight_id}/seats [get]
func (h *SeatHandler) GetByFlight(c echo.Context) error {
	flightID := c.Param("flight_id")

	var (
		seats []*seat.Seat
		err   error
	)
	if c.QueryParam("available") == "true" {
		seats, err = h.service.GetAvailableSeatsByFlight(c.Request().Context(), flightID)
	} else {
		seats, err = h.service.GetSeatsByFlight(c.Request().Context(), flightID)
	}
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	resp := make([]SeatResponse, len(seats))
	for i, s := range seats {
		resp[i] = toSeatResponse(s)
	}
	return c.JSON(http.StatusOK, resp)
}

// GetAvailableCount godoc
// @Summary フライトの空席数を取得
// @Tags seats
// @Produce json
// @Param flight_id path string true "フライトID"
// @Success 200 {object} AvailableCountResponse
// @Router /flights/{flight_id}/seats/available/count [get]
func (h *SeatHandler) GetAvailableCount(c echo.Context) error {
	flightID := c.Param("flight_id")
	count, err := h.service.CountAvailableSeats(c.Request().Context(), flightID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, AvailableCountResponse{
		FlightID:       flightID,
		AvailableCount: count,
	})
}

// GetByID godoc
// @Summary 座席を取得
// @Tags seats
// @Produce json
// @Param id path string true "座席ID"
// @Success 200 {object} SeatResponse
// @Failure 404 {object} map[string]string
// @Router /seats/{id} [get]
func (h *SeatHandler) GetByID(c echo.Context) error {
	id := c.Param("id")
	s, err := h.service.GetSeat(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, seat.ErrSeatNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, err.Error())
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, toSeatResponse(s))
}
