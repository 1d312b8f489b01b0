package handler

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/sanosuguru/go-flight-seat-reservation/internal/application"
	"github.com/sanosuguru/go-flight-seat-reservation/internal/domain/flight"
)

type FlightHandler struct {
	service FlightServiceInterface
}

func NewFlightHandler(s FlightServiceInterface) *FlightHandler {
	return &FlightHandler{service: s}
}

type SeatLayoutItem struct {
	SeatNumber string `json:"seat_number" validate:"required" example:"12A"`
	Class      string `json:"class" validate:"required,oneof=economy premium_economy business first" example:"economy"`
}

type CreateFlightRequest struct {
	FlightNumber string           `json:"flight_number" validate:"required" example:"NH204"`
	Origin       string           `json:"origin" validate:"required" example:"HND"`
	Destination  string           `json:"destination" validate:"required" example:"SFO"`
	DepartureAt  time.Time        `json:"departure_at" validate:"required"`
	ArrivalAt    time.Time        `json:"arrival_at" validate:"required"`
	BasePrice    int              `json:"base_price" validate:"min=0" example:"10000"`
	Layout       []SeatLayoutItem `json:"layout" validate:"required,min=1,dive"`
}

type FlightResponse struct {
	ID           string    `json:"id"`
	FlightNumber string    `json:"flight_number"`
	Origin       string    `json:"origin"`
	Destination  string    `json:"destination"`
	DepartureAt  time.Time `json:"departure_at"`
	ArrivalAt    time.Time `json:"arrival_at"`
	BasePrice    int       `json:"base_price"`
	CreatedAt    time.Time `json:"created_at"`
}

func toFlightResponse(f *flight.Flight) FlightResponse {
	return FlightResponse{
		ID: f.ID, FlightNumber: f.FlightNumber,
		Origin: f.Origin, Destination: f.Destination,
		DepartureAt: f.DepartureAt, ArrivalAt: f.ArrivalAt,
		BasePrice: f.BasePrice, CreatedAt: f.CreatedAt,
	}
}

// Create godoc
// @Summary フライトを作成
// @Description フライトと座席レイアウトを登録します
// @Tags flights
// @Accept json
// @Produce json
// @Param request body CreateFlightRequest true "フライト情報"
// @Success 201 {object} FlightResponse
// @Failure 400 {object} map[string]string
// @Router /flights [post]
func (h *FlightHandler) Create(c echo.Context) error {
	var req CreateFlightRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "無効なリクエスト")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}
	layout := make([]flight.SeatLayout, len(req.Layout))
	for i, item := range req.Layout {
		layout[i] = flight.SeatLayout{
			SeatNumber: item.SeatNumber,
			Class:      flight.SeatClass(item.Class),
		}
	}
	f, err := h.service.CreateFlight(c.Request().Context(), application.CreateFlightInput{
		FlightNumber: req.FlightNumber,
		Origin:       req.Origin,
		Destination:  req.Destination,
		DepartureAt:  req.DepartureAt,
		ArrivalAt:    req.ArrivalAt,
		BasePrice:    req.BasePrice,
		Layout:       layout,
	})
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusCreated, toFlightResponse(f))
}

// GetByID godoc
// @Summary フライトを取得
// @Tags flights
// @Produce json
// @Param flight_id path string true "フライトID"
// @Success 200 {object} FlightResponse
// @Failure 404 {object} map[string]string
// @Router /flights/{flight_id} [get]
func (h *FlightHandler) GetByID(c echo.Context) error {
	id := c.Param("flight_id")
	f, err := h.service.GetFlight(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, flight.ErrFlightNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, err.Error())
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, toFlightResponse(f))
}

// List godoc
// @Summary フライト一覧を取得
// @Tags flights
// @Produce json
// @Param limit query int false "取得件数" default(20)
// @Param offset query int false "オフセット" default(0)
// @Success 200 {array} FlightResponse
// @Router /flights [get]
func (h *FlightHandler) List(c echo.Context) error {
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	offset, _ := strconv.Atoi(c.QueryParam("offset"))
	flights, err := h.service.ListFlights(c.Request().Context(), limit, offset)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	resp := make([]FlightResponse, len(flights))
	for i, f := range flights {
		resp[i] = toFlightResponse(f)
	}
	return c.JSON(http.StatusOK, resp)
}
