package order

import "time"

// Status は注文の状態を表す
type Status string

const (
	StatusPendingPayment Status = "pending_payment"
	StatusPaid           Status = "paid"
	StatusCancelled      Status = "cancelled"
)

// Line は注文明細（1座席分）を表す
// 確定時点のクラス別価格を監査用に保持する
type Line struct {
	SeatID string
	Price  int // セント単位
}

// Order は確定ホールドから生成される注文エンティティを表す
// 合計金額は常にサーバー側で再計算され、クライアント入力は信用しない
type Order struct {
	ID          string
	HoldID      string
	FlightID    string
	UserID      string
	Lines       []Line
	TotalAmount int // セント単位
	Status      Status
	PaidAt      *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// NewOrder は確定ホールドの内容から新しい注文を作成する
// 合計は明細の総和
func NewOrder(holdID, flightID, userID string, lines []Line) *Order {
	total := 0
	for _, l := range lines {
		total += l.Price
	}
	now := time.Now()
	return &Order{
		HoldID:      holdID,
		FlightID:    flightID,
		UserID:      userID,
		Lines:       lines,
		TotalAmount: total,
		Status:      StatusPendingPayment,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// SeatIDs は注文に含まれる座席IDの一覧を返す
func (o *Order) SeatIDs() []string {
	ids := make([]string, len(o.Lines))
	for i, l := range o.Lines {
		ids[i] = l.SeatID
	}
	return ids
}

// MarkPaid は注文を支払い済みにする
// 決済プロバイダは通知を重複配送しうるため、支払い済みへの再適用は
// 変更なしの成功として扱う。戻り値は状態が変化したかどうか
func (o *Order) MarkPaid() (bool, error) {
	switch o.Status {
	case StatusPaid:
		return false, nil
	case StatusCancelled:
		return false, ErrOrderAlreadyResolved
	}
	now := time.Now()
	o.Status = StatusPaid
	o.PaidAt = &now
	o.UpdatedAt = now
	return true, nil
}

// Cancel は注文をキャンセルする（決済失敗・タイムアウト時）
// 座席状態には触れない。キャンセル済みへの再適用は変更なしの成功
func (o *Order) Cancel() (bool, error) {
	switch o.Status {
	case StatusCancelled:
		return false, nil
	case StatusPaid:
		return false, ErrOrderAlreadyResolved
	}
	o.Status = StatusCancelled
	o.UpdatedAt = time.Now()
	return true, nil
}

// Validate は注文の検証を行う
func (o *Order) Validate() error {
	if o.HoldID == "" {
		return ErrHoldIDRequired
	}
	if o.FlightID == "" {
		return ErrFlightIDRequired
	}
	if o.UserID == "" {
		return ErrUserIDRequired
	}
	if len(o.Lines) == 0 {
		return ErrLinesRequired
	}
	for _, l := range o.Lines {
		if l.Price < 0 {
			return ErrInvalidPrice
		}
	}
	return nil
}
