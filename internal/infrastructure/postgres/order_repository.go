package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/sanosuguru/go-flight-seat-reservation/internal/domain/order"
	"github.com/sanosuguru/go-flight-seat-reservation/internal/domain/transaction"
)

type orderRow struct {
	ID          string     `db:"id"`
	HoldID      string     `db:"hold_id"`
	FlightID    string     `db:"flight_id"`
	UserID      string     `db:"user_id"`
	Status      string     `db:"status"`
	TotalAmount int        `db:"total_amount"`
	PaidAt      *time.Time `db:"paid_at"`
	CreatedAt   time.Time  `db:"created_at"`
	UpdatedAt   time.Time  `db:"updated_at"`
}

type orderLineRow struct {
	SeatID string `db:"seat_id"`
	Price  int    `db:"price"`
}

const orderColumns = `id, hold_id, flight_id, user_id, status, total_amount, paid_at, created_at, updated_at`

type OrderRepository struct{ db *sqlx.DB }

func NewOrderRepository(db *sqlx.DB) *OrderRepository { return &OrderRepository{db: db} }

func (r *OrderRepository) Create(ctx context.Context, tx transaction.Tx, o *order.Order) error {
	sqlxTx := UnwrapTx(tx)
	query := `INSERT INTO orders (hold_id, flight_id, user_id, status, total_amount, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7) RETURNING id`
	if err := sqlxTx.QueryRowContext(ctx, query,
		o.HoldID, o.FlightID, o.UserID, string(o.Status), o.TotalAmount, o.CreatedAt, o.UpdatedAt,
	).Scan(&o.ID); err != nil {
		if pgErr, ok := err.(*pq.Error); ok && pgErr.Code == "23505" {
			return order.ErrOrderAlreadyExists
		}
		return fmt.Errorf("注文作成に失敗: %w", err)
	}
	for _, line := range o.Lines {
		if _, err := sqlxTx.ExecContext(ctx,
			`INSERT INTO order_seats (order_id, seat_id, price) VALUES ($1, $2, $3)`,
			o.ID, line.SeatID, line.Price); err != nil {
			return fmt.Errorf("注文明細作成に失敗: %w", err)
		}
	}
	return nil
}

func (r *OrderRepository) GetByID(ctx context.Context, id string) (*order.Order, error) {
	var row orderRow
	if err := r.db.GetContext(ctx, &row, `SELECT `+orderColumns+` FROM orders WHERE id = $1`, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, order.ErrOrderNotFound
		}
		return nil, fmt.Errorf("注文取得に失敗: %w", err)
	}
	lines, err := r.getLines(ctx, row.ID)
	if err != nil {
		return nil, err
	}
	return r.toEntity(&row, lines), nil
}

func (r *OrderRepository) GetByHoldID(ctx context.Context, holdID string) (*order.Order, error) {
	var row orderRow
	if err := r.db.GetContext(ctx, &row, `SELECT `+orderColumns+` FROM orders WHERE hold_id = $1`, holdID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, order.ErrOrderNotFound
		}
		return nil, fmt.Errorf("注文取得に失敗: %w", err)
	}
	lines, err := r.getLines(ctx, row.ID)
	if err != nil {
		return nil, err
	}
	return r.toEntity(&row, lines), nil
}

func (r *OrderRepository) GetByUserID(ctx context.Context, userID string, limit, offset int) ([]*order.Order, error) {
	var rows []orderRow
	query := `SELECT ` + orderColumns + ` FROM orders WHERE user_id = $1 ORDER BY created_at DESC LIMIT $2 OFFSET $3`
	if err := r.db.SelectContext(ctx, &rows, query, userID, limit, offset); err != nil {
		return nil, fmt.Errorf("注文一覧取得に失敗: %w", err)
	}
	result := make([]*order.Order, len(rows))
	for i, row := range rows {
		lines, err := r.getLines(ctx, row.ID)
		if err != nil {
			return nil, err
		}
		result[i] = r.toEntity(&row, lines)
	}
	return result, nil
}

// UpdateStatus は未払いの注文だけを確定させる
// 支払いとキャンセルの競合はこの条件付きUPDATEで決着する
func (r *OrderRepository) UpdateStatus(ctx context.Context, o *order.Order) (bool, error) {
	query := `UPDATE orders SET status = $1, paid_at = $2, updated_at = $3
		WHERE id = $4 AND status = 'pending_payment'`
	result, err := r.db.ExecContext(ctx, query, string(o.Status), o.PaidAt, o.UpdatedAt, o.ID)
	if err != nil {
		return false, fmt.Errorf("注文更新に失敗: %w", err)
	}
	rows, _ := result.RowsAffected()
	return rows > 0, nil
}

func (r *OrderRepository) getLines(ctx context.Context, orderID string) ([]order.Line, error) {
	var rows []orderLineRow
	if err := r.db.SelectContext(ctx, &rows, `SELECT seat_id, price FROM order_seats WHERE order_id = $1`, orderID); err != nil {
		return nil, fmt.Errorf("注文明細取得に失敗: %w", err)
	}
	lines := make([]order.Line, len(rows))
	for i, row := range rows {
		lines[i] = order.Line{SeatID: row.SeatID, Price: row.Price}
	}
	return lines, nil
}

func (r *OrderRepository) toEntity(row *orderRow, lines []order.Line) *order.Order {
	return &order.Order{
		ID: row.ID, HoldID: row.HoldID, FlightID: row.FlightID, UserID: row.UserID,
		Lines: lines, TotalAmount: row.TotalAmount, Status: order.Status(row.Status),
		PaidAt: row.PaidAt, CreatedAt: row.CreatedAt, UpdatedAt: row.UpdatedAt,
	}
}

var _ order.Repository = (*OrderRepository)(nil)
