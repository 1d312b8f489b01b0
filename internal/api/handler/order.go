package handler

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/sanosuguru/go-flight-seat-reservation/internal/domain/order"
)

type OrderHandler struct {
	service OrderServiceInterface
}

func NewOrderHandler(s OrderServiceInterface) *OrderHandler {
	return &OrderHandler{service: s}
}

type OrderLineResponse struct {
	SeatID string `json:"seat_id"`
	Price  int    `json:"price"`
}

type OrderResponse struct {
	ID          string              `json:"id"`
	HoldID      string              `json:"hold_id"`
	FlightID    string              `json:"flight_id"`
	UserID      string              `json:"user_id"`
	Lines       []OrderLineResponse `json:"lines"`
	TotalAmount int                 `json:"total_amount"`
	Status      string              `json:"status"`
	PaidAt      *time.Time          `json:"paid_at,omitempty"`
	CreatedAt   time.Time           `json:"created_at"`
}

func toOrderResponse(o *order.Order) OrderResponse {
	lines := make([]OrderLineResponse, len(o.Lines))
	for i, l := range o.Lines {
		lines[i] = OrderLineResponse{SeatID: l.SeatID, Price: l.Price}
	}
	return OrderResponse{
		ID: o.ID, HoldID: o.HoldID, FlightID: o.FlightID, UserID: o.UserID,
		Lines: lines, TotalAmount: o.TotalAmount, Status: string(o.Status),
		PaidAt: o.PaidAt, CreatedAt: o.CreatedAt,
	}
}

// GetByID godoc
// @Summary 注文を取得
// @Tags orders
// @Produce json
// @Param id path string true "注文ID"
// @Success 200 {object} OrderResponse
// @Failure 404 {object} api.ErrorResponse
// @Router /orders/{id} [get]
func (h *OrderHandler) GetByID(c echo.Context) error {
	id := c.Param("id")
	o, err := h.service.GetOrder(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, order.ErrOrderNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, err.Error())
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, toOrderResponse(o))
}

// GetUserOrders godoc
// @Summary ユーザーの注文一覧を取得
// @Tags orders
// @Produce json
// @Param X-User-ID header string true "ユーザーID"
// @Param limit query int false "取得件数" default(20)
// @Param offset query int false "オフセット" default(0)
// @Success 200 {array} OrderResponse
// @Failure 401 {object} api.ErrorResponse
// @Router /orders [get]
func (h *OrderHandler) GetUserOrders(c echo.Context) error {
	userID := c.Request().Header.Get("X-User-ID")
	if userID == "" {
		return echo.NewHTTPError(http.StatusUnauthorized, "ユーザーIDが必要です")
	}
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	offset, _ := strconv.Atoi(c.QueryParam("offset"))
	orders, err := h.service.GetUserOrders(c.Request().Context(), userID, limit, offset)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	resp := make([]OrderResponse, len(orders))
	for i, o := range orders {
		resp[i] = toOrderResponse(o)
	}
	return c.JSON(http.StatusOK, resp)
}

// Pay godoc
// @Summary 注文を支払い済みにする
// @Description 決済完了通知を受けて注文を支払い済みへ遷移します（冪等）
// @Tags orders
// @Produce json
// @Param id path string true "注文ID"
// @Success 200 {object} OrderResponse
// @Failure 404 {object} api.ErrorResponse
// @Failure 409 {object} api.ErrorResponse "キャンセル済み"
// @Router /orders/{id}/pay [post]
func (h *OrderHandler) Pay(c echo.Context) error {
	id := c.Param("id")
	o, err := h.service.MarkPaid(c.Request().Context(), id)
	if err != nil {
		return orderErrorToHTTP(err)
	}
	return c.JSON(http.StatusOK, toOrderResponse(o))
}

// Cancel godoc
// @Summary 注文をキャンセル
// @Description 未払いの注文をキャンセルします（冪等）
// @Tags orders
// @Produce json
// @Param id path string true "注文ID"
// @Success 200 {object} OrderResponse
// @Failure 404 {object} api.ErrorResponse
// @Failure 409 {object} api.ErrorResponse "支払い済み"
// @Router /orders/{id}/cancel [post]
func (h *OrderHandler) Cancel(c echo.Context) error {
	id := c.Param("id")
	o, err := h.service.CancelOrder(c.Request().Context(), id)
	if err != nil {
		return orderErrorToHTTP(err)
	}
	return c.JSON(http.StatusOK, toOrderResponse(o))
}

func orderErrorToHTTP(err error) error {
	switch {
	case errors.Is(err, order.ErrOrderNotFound):
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	case errors.Is(err, order.ErrOrderAlreadyResolved):
		return echo.NewHTTPError(http.StatusConflict, err.Error())
	default:
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
}
