package seat

import (
	"errors"
	"strings"
)

// Seat ドメインのエラー定義
var (
	ErrSeatNotFound       = errors.New("座席が見つかりません")
	ErrSeatNotAvailable   = errors.New("座席はホールドできません")
	ErrSeatNotHeld        = errors.New("座席はホールドされていません")
	ErrFlightIDRequired   = errors.New("フライトIDは必須です")
	ErrSeatNumberRequired = errors.New("座席番号は必須です")
	ErrInvalidSeatClass   = errors.New("無効な座席クラスです")
)

// UnavailableError は競合によりホールドできなかった座席の一覧を持つ
// errors.Is(err, ErrSeatNotAvailable) で判定できる
type UnavailableError struct {
	SeatIDs []string
}

func (e *UnavailableError) Error() string {
	return "座席はホールドできません: " + strings.Join(e.SeatIDs, ", ")
}

// Is は ErrSeatNotAvailable との比較を可能にする
func (e *UnavailableError) Is(target error) bool {
	return target == ErrSeatNotAvailable
}
