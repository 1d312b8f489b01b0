package order

import (
	"context"

	"github.com/sanosuguru/go-flight-seat-reservation/internal/domain/transaction"
)

// Repository は注文リポジトリのインターフェース
type Repository interface {
	// Create は新しい注文を作成する（ホールド確定と同一トランザクション必須）
	Create(ctx context.Context, tx transaction.Tx, order *Order) error

	// GetByID はIDから注文を取得する
	GetByID(ctx context.Context, id string) (*Order, error)

	// GetByHoldID はホールドIDから注文を取得する
	GetByHoldID(ctx context.Context, holdID string) (*Order, error)

	// GetByUserID はユーザーIDから注文一覧を取得する
	GetByUserID(ctx context.Context, userID string, limit, offset int) ([]*Order, error)

	// UpdateStatus は pending_payment の注文だけを order の状態へ更新する
	// 条件に一致する行がなければ false を返す（既に確定済み、または存在しない）
	UpdateStatus(ctx context.Context, order *Order) (bool, error)
}
