package flight

import (
	"context"

	"github.com/sanosuguru/go-flight-seat-reservation/internal/domain/transaction"
)

// Repository はフライトリポジトリのインターフェース
// ホールド/注文エンジンからは読み取り操作のみを使用する
type Repository interface {
	// Create は新しいフライトを作成する（座席レイアウトと同一トランザクション）
	Create(ctx context.Context, tx transaction.Tx, flight *Flight) error

	// GetByID はIDからフライトを取得する
	GetByID(ctx context.Context, id string) (*Flight, error)

	// List はフライト一覧を取得する
	List(ctx context.Context, limit, offset int) ([]*Flight, error)

	// Update はフライトを更新する（楽観的ロック）
	Update(ctx context.Context, flight *Flight) error
}
