package flight

import "errors"

// Flight ドメインのエラー定義
var (
	ErrFlightNotFound         = errors.New("フライトが見つかりません")
	ErrFlightNumberRequired   = errors.New("便名は必須です")
	ErrInvalidBasePrice       = errors.New("基準価格は0以上である必要があります")
	ErrInvalidFlightTime      = errors.New("到着時刻は出発時刻より後である必要があります")
	ErrLayoutRequired         = errors.New("座席レイアウトは必須です")
	ErrSeatNumberRequired     = errors.New("座席番号は必須です")
	ErrInvalidSeatClass       = errors.New("無効な座席クラスです")
	ErrDuplicateSeatNumber    = errors.New("座席番号が重複しています")
	ErrOptimisticLockConflict = errors.New("楽観的ロックの競合が発生しました")
)
