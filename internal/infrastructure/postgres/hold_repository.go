package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/sanosuguru/go-flight-seat-reservation/internal/domain/hold"
	"github.com/sanosuguru/go-flight-seat-reservation/internal/domain/transaction"
)

type holdRow struct {
	ID             string     `db:"id"`
	FlightID       string     `db:"flight_id"`
	UserID         string     `db:"user_id"`
	Status         string     `db:"status"`
	IdempotencyKey string     `db:"idempotency_key"`
	ExpiresAt      time.Time  `db:"expires_at"`
	ConfirmedAt    *time.Time `db:"confirmed_at"`
	ReleasedAt     *time.Time `db:"released_at"`
	CreatedAt      time.Time  `db:"created_at"`
	UpdatedAt      time.Time  `db:"updated_at"`
}

const holdColumns = `id, flight_id, user_id, status, idempotency_key, expires_at, confirmed_at, released_at, created_at, updated_at`

type HoldRepository struct{ db *sqlx.DB }

func NewHoldRepository(db *sqlx.DB) *HoldRepository { return &HoldRepository{db: db} }

func (r *HoldRepository) Create(ctx context.Context, tx transaction.Tx, h *hold.Hold) error {
	sqlxTx := UnwrapTx(tx)
	query := `INSERT INTO holds (flight_id, user_id, status, idempotency_key, expires_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7) RETURNING id`
	if err := sqlxTx.QueryRowContext(ctx, query,
		h.FlightID, h.UserID, string(h.Status), h.IdempotencyKey, h.ExpiresAt, h.CreatedAt, h.UpdatedAt,
	).Scan(&h.ID); err != nil {
		if pgErr, ok := err.(*pq.Error); ok && pgErr.Code == "23505" {
			return hold.ErrIdempotencyKeyAlreadyExists
		}
		return fmt.Errorf("ホールド作成に失敗: %w", err)
	}
	for _, seatID := range h.SeatIDs {
		if _, err := sqlxTx.ExecContext(ctx,
			`INSERT INTO hold_seats (hold_id, seat_id) VALUES ($1, $2)`, h.ID, seatID); err != nil {
			return fmt.Errorf("ホールド座席関連付けに失敗: %w", err)
		}
	}
	return nil
}

func (r *HoldRepository) GetByID(ctx context.Context, id string) (*hold.Hold, error) {
	var row holdRow
	if err := r.db.GetContext(ctx, &row, `SELECT `+holdColumns+` FROM holds WHERE id = $1`, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, hold.ErrHoldNotFound
		}
		return nil, fmt.Errorf("ホールド取得に失敗: %w", err)
	}
	seatIDs, err := r.getSeatIDs(ctx, row.ID)
	if err != nil {
		return nil, err
	}
	return r.toEntity(&row, seatIDs), nil
}

func (r *HoldRepository) GetByIdempotencyKey(ctx context.Context, key string) (*hold.Hold, error) {
	var row holdRow
	if err := r.db.GetContext(ctx, &row, `SELECT `+holdColumns+` FROM holds WHERE idempotency_key = $1`, key); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, hold.ErrHoldNotFound
		}
		return nil, fmt.Errorf("ホールド取得に失敗: %w", err)
	}
	seatIDs, err := r.getSeatIDs(ctx, row.ID)
	if err != nil {
		return nil, err
	}
	return r.toEntity(&row, seatIDs), nil
}

func (r *HoldRepository) GetByUserID(ctx context.Context, userID string, limit, offset int) ([]*hold.Hold, error) {
	var rows []holdRow
	query := `SELECT ` + holdColumns + ` FROM holds WHERE user_id = $1 ORDER BY created_at DESC LIMIT $2 OFFSET $3`
	if err := r.db.SelectContext(ctx, &rows, query, userID, limit, offset); err != nil {
		return nil, fmt.Errorf("ホールド一覧取得に失敗: %w", err)
	}
	result := make([]*hold.Hold, len(rows))
	for i, row := range rows {
		seatIDs, err := r.getSeatIDs(ctx, row.ID)
		if err != nil {
			return nil, err
		}
		result[i] = r.toEntity(&row, seatIDs)
	}
	return result, nil
}

// MarkConfirmed は active かつ未期限のホールドだけを確定させる
// 期限切れワーカーとの競合はこの条件付きUPDATEで決着する
func (r *HoldRepository) MarkConfirmed(ctx context.Context, tx transaction.Tx, holdID string) error {
	sqlxTx := UnwrapTx(tx)
	query := `UPDATE holds SET status = 'confirmed', confirmed_at = NOW(), updated_at = NOW()
		WHERE id = $1 AND status = 'active' AND expires_at > NOW()`
	result, err := sqlxTx.ExecContext(ctx, query, holdID)
	if err != nil {
		return fmt.Errorf("ホールド確定に失敗: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return hold.ErrHoldExpired
	}
	return nil
}

func (r *HoldRepository) MarkReleased(ctx context.Context, tx transaction.Tx, holdID string) (bool, error) {
	sqlxTx := UnwrapTx(tx)
	query := `UPDATE holds SET status = 'released', released_at = NOW(), updated_at = NOW()
		WHERE id = $1 AND status = 'active'`
	result, err := sqlxTx.ExecContext(ctx, query, holdID)
	if err != nil {
		return false, fmt.Errorf("ホールド解放に失敗: %w", err)
	}
	rows, _ := result.RowsAffected()
	return rows > 0, nil
}

func (r *HoldRepository) GetExpiredActive(ctx context.Context, limit int) ([]*hold.Hold, error) {
	var rows []holdRow
	query := `SELECT ` + holdColumns + ` FROM holds WHERE status = 'active' AND expires_at < NOW() ORDER BY expires_at LIMIT $1`
	if err := r.db.SelectContext(ctx, &rows, query, limit); err != nil {
		return nil, fmt.Errorf("期限切れホールド取得に失敗: %w", err)
	}
	result := make([]*hold.Hold, len(rows))
	for i, row := range rows {
		seatIDs, err := r.getSeatIDs(ctx, row.ID)
		if err != nil {
			return nil, err
		}
		result[i] = r.toEntity(&row, seatIDs)
	}
	return result, nil
}

func (r *HoldRepository) getSeatIDs(ctx context.Context, holdID string) ([]string, error) {
	var seatIDs []string
	if err := r.db.SelectContext(ctx, &seatIDs, `SELECT seat_id FROM hold_seats WHERE hold_id = $1`, holdID); err != nil {
		return nil, fmt.Errorf("座席ID取得に失敗: %w", err)
	}
	return seatIDs, nil
}

func (r *HoldRepository) toEntity(row *holdRow, seatIDs []string) *hold.Hold {
	return &hold.Hold{
		ID: row.ID, FlightID: row.FlightID, UserID: row.UserID,
		SeatIDs: seatIDs, Status: hold.Status(row.Status),
		IdempotencyKey: row.IdempotencyKey, ExpiresAt: row.ExpiresAt,
		ConfirmedAt: row.ConfirmedAt, ReleasedAt: row.ReleasedAt,
		CreatedAt: row.CreatedAt, UpdatedAt: row.UpdatedAt,
	}
}

var _ hold.Repository = (*HoldRepository)(nil)
