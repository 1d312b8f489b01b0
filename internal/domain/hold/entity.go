package hold

import "time"

// Status はホールドの状態を表す
type Status string

const (
	StatusActive    Status = "active"
	StatusConfirmed Status = "confirmed"
	StatusReleased  Status = "released"
)

// Hold は座席の時限付き占有を表すエンティティ
// active → confirmed / released のいずれかで終端し、終端状態からの遷移はない
type Hold struct {
	ID             string
	FlightID       string
	UserID         string
	SeatIDs        []string
	Status         Status
	IdempotencyKey string
	ExpiresAt      time.Time
	ConfirmedAt    *time.Time
	ReleasedAt     *time.Time
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// NewHold は新しいホールドを作成する
func NewHold(flightID, userID, idempotencyKey string, seatIDs []string, ttl time.Duration) *Hold {
	now := time.Now()
	return &Hold{
		FlightID:       flightID,
		UserID:         userID,
		SeatIDs:        seatIDs,
		Status:         StatusActive,
		IdempotencyKey: idempotencyKey,
		ExpiresAt:      now.Add(ttl),
		CreatedAt:      now,
		UpdatedAt:      now,
	}
}

// IsExpired はホールドが期限切れかを返す
func (h *Hold) IsExpired() bool {
	return time.Now().After(h.ExpiresAt)
}

// IsActive はホールドが有効かを返す
func (h *Hold) IsActive() bool {
	return h.Status == StatusActive
}

// IsOwnedBy は指定ユーザーがホールドの所有者かを返す
func (h *Hold) IsOwnedBy(userID string) bool {
	return h.UserID == userID
}

// Confirm はホールドを確定する
// 期限切れ・終端状態からは確定できない（確定は一度きり）
func (h *Hold) Confirm() error {
	switch h.Status {
	case StatusConfirmed:
		return ErrHoldAlreadyConfirmed
	case StatusReleased:
		return ErrHoldAlreadyReleased
	}
	if h.IsExpired() {
		return ErrHoldExpired
	}
	now := time.Now()
	h.Status = StatusConfirmed
	h.ConfirmedAt = &now
	h.UpdatedAt = now
	return nil
}

// Release はホールドを解放する（キャンセル・期限切れ共通）
// 解放済みに対しては何もしない（冪等）
func (h *Hold) Release() error {
	if h.Status == StatusConfirmed {
		return ErrHoldAlreadyConfirmed
	}
	if h.Status == StatusReleased {
		return nil
	}
	now := time.Now()
	h.Status = StatusReleased
	h.ReleasedAt = &now
	h.UpdatedAt = now
	return nil
}

// Validate はホールドの検証を行う
func (h *Hold) Validate() error {
	if h.FlightID == "" {
		return ErrFlightIDRequired
	}
	if h.UserID == "" {
		return ErrUserIDRequired
	}
	if len(h.SeatIDs) == 0 {
		return ErrSeatIDsRequired
	}
	seen := make(map[string]struct{}, len(h.SeatIDs))
	for _, id := range h.SeatIDs {
		if _, dup := seen[id]; dup {
			return ErrDuplicateSeatID
		}
		seen[id] = struct{}{}
	}
	if h.IdempotencyKey == "" {
		return ErrIdempotencyKeyRequired
	}
	return nil
}
