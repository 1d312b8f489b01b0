package handler

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/sanosuguru/go-flight-seat-reservation/internal/api"
	"github.com/sanosuguru/go-flight-seat-reservation/internal/application"
	"github.com/sanosuguru/go-flight-seat-reservation/internal/domain/flight"
	"github.com/sanosuguru/go-flight-seat-reservation/internal/domain/hold"
	"github.com/sanosuguru/go-flight-seat-reservation/internal/domain/seat"
)

type HoldHandler struct {
	service HoldServiceInterface
}

func NewHoldHandler(s HoldServiceInterface) *HoldHandler {
	return &HoldHandler{service: s}
}

type RequestHoldRequest struct {
	FlightID       string   `json:"flight_id" validate:"required" example:"550e8400-e29b-41d4-a716-446655440000"`
	SeatIDs        []string `json:"seat_ids" validate:"required,min=1" example:"seat-12A,seat-12B"`
	IdempotencyKey string   `json:"idempotency_key" validate:"required" example:"booking-2026-001"`
}

type HoldResponse struct {
	ID          string     `json:"id"`
	FlightID    string     `json:"flight_id"`
	UserID      string     `json:"user_id"`
	SeatIDs     []string   `json:"seat_ids"`
	Status      string     `json:"status"`
	ExpiresAt   time.Time  `json:"expires_at"`
	ConfirmedAt *time.Time `json:"confirmed_at,omitempty"`
	ReleasedAt  *time.Time `json:"released_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}

func toHoldResponse(h *hold.Hold) HoldResponse {
	return HoldResponse{
		ID: h.ID, FlightID: h.FlightID, UserID: h.UserID,
		SeatIDs: h.SeatIDs, Status: string(h.Status),
		ExpiresAt: h.ExpiresAt, ConfirmedAt: h.ConfirmedAt,
		ReleasedAt: h.ReleasedAt, CreatedAt: h.CreatedAt,
	}
}

// ConfirmHoldResponse は確定結果（ホールドと生成された注文）
type ConfirmHoldResponse struct {
	Hold  HoldResponse  `json:"hold"`
	Order OrderResponse `json:"order"`
}

// Create godoc
// @Summary 座席をホールド
// @Description 指定座席を一時的に占有します（期限付き・全か無か）
// @Tags holds
// @Accept json
// @Produce json
// @Param X-User-ID header string true "ユーザーID"
// @Param request body RequestHoldRequest true "ホールド情報"
// @Success 201 {object} HoldResponse
// @Failure 400 {object} api.ErrorResponse
// @Failure 401 {object} api.ErrorResponse
// @Failure 409 {object} api.ErrorResponse "座席が空席ではない"
// @Router /holds [post]
func (h *HoldHandler) Create(c echo.Context) error {
	userID := c.Request().Header.Get("X-User-ID")
	if userID == "" {
		return echo.NewHTTPError(http.StatusUnauthorized, "ユーザーIDが必要です")
	}
	var req RequestHoldRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "無効なリクエスト")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}
	result, err := h.service.RequestHold(c.Request().Context(), application.RequestHoldInput{
		FlightID:       req.FlightID,
		UserID:         userID,
		SeatIDs:        req.SeatIDs,
		IdempotencyKey: req.IdempotencyKey,
	})
	if err != nil {
		return holdErrorToHTTP(err)
	}
	return c.JSON(http.StatusCreated, toHoldResponse(result))
}

// GetByID godoc
// @Summary ホールドを取得
// @Tags holds
// @Produce json
// @Param id path string true "ホールドID"
// @Success 200 {object} HoldResponse
// @Failure 404 {object} api.ErrorResponse
// @Router /holds/{id} [get]
func (h *HoldHandler) GetByID(c echo.Context) error {
	id := c.Param("id")
	result, err := h.service.GetHold(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, hold.ErrHoldNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, err.Error())
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, toHoldResponse(result))
}

// GetUserHolds godoc
// @Summary ユーザーのホールド一覧を取得
// @Tags holds
// @Produce json
// @Param X-User-ID header string true "ユーザーID"
// @Param limit query int false "取得件数" default(20)
// @Param offset query int false "オフセット" default(0)
// @Success 200 {array} HoldResponse
// @Failure 401 {object} api.ErrorResponse
// @Router /holds [get]
func (h *HoldHandler) GetUserHolds(c echo.Context) error {
	userID := c.Request().Header.Get("X-User-ID")
	if userID == "" {
		return echo.NewHTTPError(http.StatusUnauthorized, "ユーザーIDが必要です")
	}
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	offset, _ := strconv.Atoi(c.QueryParam("offset"))
	holds, err := h.service.GetUserHolds(c.Request().Context(), userID, limit, offset)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	resp := make([]HoldResponse, len(holds))
	for i, item := range holds {
		resp[i] = toHoldResponse(item)
	}
	return c.JSON(http.StatusOK, resp)
}

// Confirm godoc
// @Summary ホールドを確定
// @Description ホールドを予約確定し、注文を生成します
// @Tags holds
// @Produce json
// @Param X-User-ID header string true "ユーザーID"
// @Param id path string true "ホールドID"
// @Success 200 {object} ConfirmHoldResponse
// @Failure 401 {object} api.ErrorResponse
// @Failure 403 {object} api.ErrorResponse
// @Failure 404 {object} api.ErrorResponse
// @Failure 409 {object} api.ErrorResponse "期限切れ・確定済み"
// @Router /holds/{id}/confirm [post]
func (h *HoldHandler) Confirm(c echo.Context) error {
	userID := c.Request().Header.Get("X-User-ID")
	if userID == "" {
		return echo.NewHTTPError(http.StatusUnauthorized, "ユーザーIDが必要です")
	}
	id := c.Param("id")
	confirmedHold, ord, err := h.service.ConfirmHold(c.Request().Context(), id, userID)
	if err != nil {
		return holdErrorToHTTP(err)
	}
	return c.JSON(http.StatusOK, ConfirmHoldResponse{
		Hold:  toHoldResponse(confirmedHold),
		Order: toOrderResponse(ord),
	})
}

// Cancel godoc
// @Summary ホールドをキャンセル
// @Description ホールドを解放し、座席を空席に戻します
// @Tags holds
// @Produce json
// @Param X-User-ID header string true "ユーザーID"
// @Param id path string true "ホールドID"
// @Success 200 {object} HoldResponse
// @Failure 401 {object} api.ErrorResponse
// @Failure 403 {object} api.ErrorResponse
// @Failure 404 {object} api.ErrorResponse
// @Router /holds/{id}/cancel [post]
func (h *HoldHandler) Cancel(c echo.Context) error {
	userID := c.Request().Header.Get("X-User-ID")
	if userID == "" {
		return echo.NewHTTPError(http.StatusUnauthorized, "ユーザーIDが必要です")
	}
	id := c.Param("id")
	result, err := h.service.CancelHold(c.Request().Context(), id, userID)
	if err != nil {
		return holdErrorToHTTP(err)
	}
	return c.JSON(http.StatusOK, toHoldResponse(result))
}

// holdErrorToHTTP はドメインエラーをHTTPステータスへ写像する
func holdErrorToHTTP(err error) error {
	var unavailable *seat.UnavailableError
	if errors.As(err, &unavailable) {
		return echo.NewHTTPError(http.StatusConflict, api.ErrorResponse{
			Error:   unavailable.Error(),
			SeatIDs: unavailable.SeatIDs,
		})
	}
	switch {
	case errors.Is(err, hold.ErrHoldNotFound), errors.Is(err, flight.ErrFlightNotFound):
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	case errors.Is(err, hold.ErrNotHoldOwner):
		return echo.NewHTTPError(http.StatusForbidden, err.Error())
	case errors.Is(err, seat.ErrSeatNotAvailable),
		errors.Is(err, hold.ErrHoldExpired),
		errors.Is(err, hold.ErrHoldAlreadyConfirmed),
		errors.Is(err, hold.ErrHoldAlreadyReleased),
		errors.Is(err, hold.ErrIdempotencyKeyAlreadyExists):
		return echo.NewHTTPError(http.StatusConflict, err.Error())
	case errors.Is(err, seat.ErrSeatNotFound):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	default:
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
}
