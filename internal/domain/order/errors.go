package order

import "errors"

// Order ドメインのエラー定義
var (
	ErrOrderNotFound        = errors.New("注文が見つかりません")
	ErrOrderAlreadyResolved = errors.New("注文は既に確定しています")
	ErrOrderAlreadyExists   = errors.New("同じホールドの注文が既に存在します")
	ErrHoldIDRequired       = errors.New("ホールドIDは必須です")
	ErrFlightIDRequired     = errors.New("フライトIDは必須です")
	ErrUserIDRequired       = errors.New("ユーザーIDは必須です")
	ErrLinesRequired        = errors.New("注文明細は必須です")
	ErrInvalidPrice         = errors.New("価格は0以上である必要があります")
)
