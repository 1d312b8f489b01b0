package seat

import (
	"context"

	"github.com/sanosuguru/go-flight-seat-reservation/internal/domain/transaction"
)

// Repository は座席在庫リポジトリのインターフェース
// 状態を変更する操作はすべてトランザクション内で行い、
// フライト単位で直列化されることを前提とする
type Repository interface {
	// CreateBulk は複数の座席を一括作成する（レイアウト定義時、フライト作成と同一トランザクション）
	CreateBulk(ctx context.Context, tx transaction.Tx, seats []*Seat) error

	// GetByID はIDから座席を取得する
	GetByID(ctx context.Context, id string) (*Seat, error)

	// GetByFlightID はフライトIDから座席一覧を取得する
	GetByFlightID(ctx context.Context, flightID string) ([]*Seat, error)

	// GetAvailableByFlightID はフライトIDから空席一覧を取得する
	GetAvailableByFlightID(ctx context.Context, flightID string) ([]*Seat, error)

	// GetByIDs はIDリストから座席を取得する
	GetByIDs(ctx context.Context, ids []string) ([]*Seat, error)

	// HoldSeats は全座席が available の場合に限り held へ遷移させる
	// 1席でも取れなければ何も変更せずエラーを返す（全か無かの意味論）
	HoldSeats(ctx context.Context, tx transaction.Tx, seatIDs []string, holdID string) error

	// BookSeatsByHold はホールド中の座席を booked へ遷移させる
	// 期待した席数と一致しなければエラー
	BookSeatsByHold(ctx context.Context, tx transaction.Tx, holdID string, expectedSeats int) error

	// ReleaseSeatsByHold はホールドに紐づく座席を available へ戻す
	// 冪等：解放済み・未知のホールドに対しては何もしない
	ReleaseSeatsByHold(ctx context.Context, tx transaction.Tx, holdID string) error

	// CountAvailableByFlightID はフライトの空席数を取得する
	CountAvailableByFlightID(ctx context.Context, flightID string) (int, error)
}
