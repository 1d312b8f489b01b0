package hold

import (
	"context"

	"github.com/sanosuguru/go-flight-seat-reservation/internal/domain/transaction"
)

// Repository はホールドリポジトリのインターフェース
type Repository interface {
	// Create は新しいホールドを作成する（トランザクション必須）
	Create(ctx context.Context, tx transaction.Tx, hold *Hold) error

	// GetByID はIDからホールドを取得する
	GetByID(ctx context.Context, id string) (*Hold, error)

	// GetByIdempotencyKey は冪等性キーからホールドを取得する
	GetByIdempotencyKey(ctx context.Context, key string) (*Hold, error)

	// GetByUserID はユーザーIDからホールド一覧を取得する
	GetByUserID(ctx context.Context, userID string, limit, offset int) ([]*Hold, error)

	// MarkConfirmed は active かつ未期限のホールドを confirmed へ遷移させる
	// check-then-act をDB側で原子的に行う。遷移できなければエラー
	MarkConfirmed(ctx context.Context, tx transaction.Tx, holdID string) error

	// MarkReleased は active なホールドを released へ遷移させる
	// 既に終端状態であれば false を返すのみでエラーにはしない
	MarkReleased(ctx context.Context, tx transaction.Tx, holdID string) (bool, error)

	// GetExpiredActive は期限切れかつ active のホールド一覧を取得する
	GetExpiredActive(ctx context.Context, limit int) ([]*Hold, error)
}
