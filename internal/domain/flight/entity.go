package flight

import "time"

// SeatClass は座席クラスを表す
type SeatClass string

const (
	ClassEconomy        SeatClass = "economy"
	ClassPremiumEconomy SeatClass = "premium_economy"
	ClassBusiness       SeatClass = "business"
	ClassFirst          SeatClass = "first"
)

// classMultiplierPercent は座席クラスごとの価格倍率（百分率）
// 整数演算にすることで価格計算を決定的に保つ
var classMultiplierPercent = map[SeatClass]int{
	ClassEconomy:        100,
	ClassPremiumEconomy: 150,
	ClassBusiness:       250,
	ClassFirst:          400,
}

// IsValid は座席クラスが定義済みかを返す
func (c SeatClass) IsValid() bool {
	_, ok := classMultiplierPercent[c]
	return ok
}

// MultiplierPercent は座席クラスの価格倍率（百分率）を返す
// 未定義のクラスはエコノミー扱い
func MultiplierPercent(c SeatClass) int {
	if p, ok := classMultiplierPercent[c]; ok {
		return p
	}
	return classMultiplierPercent[ClassEconomy]
}

// Flight はフライトエンティティを表す
// 座席エンジンから見ると読み取り専用のカタログデータ
type Flight struct {
	ID           string
	FlightNumber string
	Origin       string
	Destination  string
	DepartureAt  time.Time
	ArrivalAt    time.Time
	BasePrice    int // エコノミー基準価格（セント単位）
	CreatedAt    time.Time
	UpdatedAt    time.Time
	Version      int // 楽観的ロック用
}

// SeatLayout は座席レイアウトの1座席分の定義
type SeatLayout struct {
	SeatNumber string
	Class      SeatClass
}

// NewFlight は新しいフライトを作成する
func NewFlight(flightNumber, origin, destination string, departureAt, arrivalAt time.Time, basePrice int) *Flight {
	now := time.Now()
	return &Flight{
		FlightNumber: flightNumber,
		Origin:       origin,
		Destination:  destination,
		DepartureAt:  departureAt,
		ArrivalAt:    arrivalAt,
		BasePrice:    basePrice,
		CreatedAt:    now,
		UpdatedAt:    now,
		Version:      0,
	}
}

// PriceFor は座席クラスに応じた価格を返す（セント単位）
func (f *Flight) PriceFor(class SeatClass) int {
	return f.BasePrice * MultiplierPercent(class) / 100
}

// Validate はフライトの検証を行う
func (f *Flight) Validate() error {
	if f.FlightNumber == "" {
		return ErrFlightNumberRequired
	}
	if f.BasePrice < 0 {
		return ErrInvalidBasePrice
	}
	if f.ArrivalAt.Before(f.DepartureAt) {
		return ErrInvalidFlightTime
	}
	return nil
}

// ValidateLayout は座席レイアウトの検証を行う
func ValidateLayout(layout []SeatLayout) error {
	if len(layout) == 0 {
		return ErrLayoutRequired
	}
	seen := make(map[string]struct{}, len(layout))
	for _, l := range layout {
		if l.SeatNumber == "" {
			return ErrSeatNumberRequired
		}
		if !l.Class.IsValid() {
			return ErrInvalidSeatClass
		}
		if _, dup := seen[l.SeatNumber]; dup {
			return ErrDuplicateSeatNumber
		}
		seen[l.SeatNumber] = struct{}{}
	}
	return nil
}
