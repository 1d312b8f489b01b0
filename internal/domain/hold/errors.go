package hold

import "errors"

// Hold ドメインのエラー定義
var (
	ErrHoldNotFound                = errors.New("ホールドが見つかりません")
	ErrHoldExpired                 = errors.New("ホールドの有効期限が切れています")
	ErrHoldAlreadyConfirmed        = errors.New("ホールドは既に確定されています")
	ErrHoldAlreadyReleased         = errors.New("ホールドは既に解放されています")
	ErrNotHoldOwner                = errors.New("ホールドの所有者ではありません")
	ErrFlightIDRequired            = errors.New("フライトIDは必須です")
	ErrUserIDRequired              = errors.New("ユーザーIDは必須です")
	ErrSeatIDsRequired             = errors.New("座席IDは必須です")
	ErrDuplicateSeatID             = errors.New("座席IDが重複しています")
	ErrIdempotencyKeyRequired      = errors.New("冪等性キーは必須です")
	ErrIdempotencyKeyAlreadyExists = errors.New("同じ冪等性キーのホールドが既に存在します")
)
