package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/sanosuguru/go-flight-seat-reservation/internal/domain/flight"
	"github.com/sanosuguru/go-flight-seat-reservation/internal/domain/seat"
	"github.com/sanosuguru/go-flight-seat-reservation/internal/domain/transaction"
)

type seatRow struct {
	ID         string     `db:"id"`
	FlightID   string     `db:"flight_id"`
	SeatNumber string     `db:"seat_number"`
	Class      string     `db:"class"`
	Status     string     `db:"status"`
	HeldBy     *string    `db:"held_by"`
	HeldAt     *time.Time `db:"held_at"`
	CreatedAt  time.Time  `db:"created_at"`
	UpdatedAt  time.Time  `db:"updated_at"`
	Version    int        `db:"version"`
}

func (r *seatRow) toEntity() *seat.Seat {
	return &seat.Seat{
		ID: r.ID, FlightID: r.FlightID, SeatNumber: r.SeatNumber,
		Class: flight.SeatClass(r.Class), Status: seat.Status(r.Status),
		HeldBy: r.HeldBy, HeldAt: r.HeldAt,
		CreatedAt: r.CreatedAt, UpdatedAt: r.UpdatedAt, Version: r.Version,
	}
}

const seatColumns = `id, flight_id, seat_number, class, status, held_by, held_at, created_at, updated_at, version`

type SeatRepository struct{ db *sqlx.DB }

func NewSeatRepository(db *sqlx.DB) *SeatRepository { return &SeatRepository{db: db} }

func (r *SeatRepository) CreateBulk(ctx context.Context, tx transaction.Tx, seats []*seat.Seat) error {
	if len(seats) == 0 {
		return nil
	}

	// バッチサイズごとに分割してマルチバリューINSERTを実行
	const batchSize = 500
	for i := 0; i < len(seats); i += batchSize {
		end := i + batchSize
		if end > len(seats) {
			end = len(seats)
		}
		if err := r.createBulkBatch(ctx, tx, seats[i:end]); err != nil {
			return err
		}
	}
	return nil
}

func (r *SeatRepository) createBulkBatch(ctx context.Context, tx transaction.Tx, seats []*seat.Seat) error {
	query := `INSERT INTO seats (flight_id, seat_number, class, status, created_at, updated_at, version) VALUES `
	args := make([]interface{}, 0, len(seats)*7)
	placeholders := make([]string, 0, len(seats))

	for i, s := range seats {
		base := i * 7
		placeholders = append(placeholders, fmt.Sprintf("($%d, $%d, $%d, $%d, $%d, $%d, $%d)",
			base+1, base+2, base+3, base+4, base+5, base+6, base+7))
		args = append(args, s.FlightID, s.SeatNumber, string(s.Class), string(s.Status), s.CreatedAt, s.UpdatedAt, s.Version)
	}

	query += strings.Join(placeholders, ", ")
	sqlxTx := UnwrapTx(tx)
	if _, err := sqlxTx.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("座席一括作成に失敗: %w", err)
	}
	return nil
}

func (r *SeatRepository) GetByID(ctx context.Context, id string) (*seat.Seat, error) {
	query := `SELECT ` + seatColumns + ` FROM seats WHERE id = $1`
	var row seatRow
	if err := r.db.GetContext(ctx, &row, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, seat.ErrSeatNotFound
		}
		return nil, fmt.Errorf("座席取得に失敗: %w", err)
	}
	return row.toEntity(), nil
}

func (r *SeatRepository) GetByFlightID(ctx context.Context, flightID string) ([]*seat.Seat, error) {
	query := `SELECT ` + seatColumns + ` FROM seats WHERE flight_id = $1 ORDER BY seat_number`
	var rows []seatRow
	if err := r.db.SelectContext(ctx, &rows, query, flightID); err != nil {
		return nil, fmt.Errorf("座席一覧取得に失敗: %w", err)
	}
	return toSeatEntities(rows), nil
}

func (r *SeatRepository) GetAvailableByFlightID(ctx context.Context, flightID string) ([]*seat.Seat, error) {
	query := `SELECT ` + seatColumns + ` FROM seats WHERE flight_id = $1 AND status = 'available' ORDER BY seat_number`
	var rows []seatRow
	if err := r.db.SelectContext(ctx, &rows, query, flightID); err != nil {
		return nil, fmt.Errorf("空席一覧取得に失敗: %w", err)
	}
	return toSeatEntities(rows), nil
}

func (r *SeatRepository) GetByIDs(ctx context.Context, ids []string) ([]*seat.Seat, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	query := `SELECT ` + seatColumns + ` FROM seats WHERE id = ANY($1) ORDER BY seat_number`
	var rows []seatRow
	if err := r.db.SelectContext(ctx, &rows, query, pq.Array(ids)); err != nil {
		return nil, fmt.Errorf("座席取得に失敗: %w", err)
	}
	return toSeatEntities(rows), nil
}

// HoldSeats は全席が available のときのみ held へ遷移させる
// 更新行数の不一致はトランザクション全体を失敗させるので、部分ホールドは残らない
func (r *SeatRepository) HoldSeats(ctx context.Context, tx transaction.Tx, seatIDs []string, holdID string) error {
	if len(seatIDs) == 0 {
		return nil
	}
	sqlxTx := UnwrapTx(tx)
	query := `UPDATE seats SET status = 'held', held_by = $1, held_at = NOW(), updated_at = NOW(), version = version + 1
		WHERE id = ANY($2) AND status = 'available'`
	result, err := sqlxTx.ExecContext(ctx, query, holdID, pq.Array(seatIDs))
	if err != nil {
		return fmt.Errorf("座席ホールドに失敗: %w", err)
	}
	rows, _ := result.RowsAffected()
	if int(rows) != len(seatIDs) {
		return seat.ErrSeatNotAvailable
	}
	return nil
}

func (r *SeatRepository) BookSeatsByHold(ctx context.Context, tx transaction.Tx, holdID string, expectedSeats int) error {
	sqlxTx := UnwrapTx(tx)
	query := `UPDATE seats SET status = 'booked', updated_at = NOW(), version = version + 1
		WHERE held_by = $1 AND status = 'held'`
	result, err := sqlxTx.ExecContext(ctx, query, holdID)
	if err != nil {
		return fmt.Errorf("座席確定に失敗: %w", err)
	}
	rows, _ := result.RowsAffected()
	if int(rows) != expectedSeats {
		return seat.ErrSeatNotHeld
	}
	return nil
}

func (r *SeatRepository) ReleaseSeatsByHold(ctx context.Context, tx transaction.Tx, holdID string) error {
	sqlxTx := UnwrapTx(tx)
	query := `UPDATE seats SET status = 'available', held_by = NULL, held_at = NULL, updated_at = NOW(), version = version + 1
		WHERE held_by = $1 AND status = 'held'`
	if _, err := sqlxTx.ExecContext(ctx, query, holdID); err != nil {
		return fmt.Errorf("座席解放に失敗: %w", err)
	}
	return nil
}

func (r *SeatRepository) CountAvailableByFlightID(ctx context.Context, flightID string) (int, error) {
	var count int
	err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM seats WHERE flight_id = $1 AND status = 'available'`, flightID)
	if err != nil {
		return 0, fmt.Errorf("空席数取得に失敗: %w", err)
	}
	return count, nil
}

func toSeatEntities(rows []seatRow) []*seat.Seat {
	seats := make([]*seat.Seat, len(rows))
	for i, row := range rows {
		seats[i] = row.toEntity()
	}
	return seats
}

var _ seat.Repository = (*SeatRepository)(nil)
