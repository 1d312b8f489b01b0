package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/sanosuguru/go-flight-seat-reservation/internal/domain/flight"
	"github.com/sanosuguru/go-flight-seat-reservation/internal/domain/transaction"
)

type flightRow struct {
	ID           string    `db:"id"`
	FlightNumber string    `db:"flight_number"`
	Origin       string    `db:"origin"`
	Destination  string    `db:"destination"`
	DepartureAt  time.Time `db:"departure_at"`
	ArrivalAt    time.Time `db:"arrival_at"`
	BasePrice    int       `db:"base_price"`
	CreatedAt    time.Time `db:"created_at"`
	UpdatedAt    time.Time `db:"updated_at"`
	Version      int       `db:"version"`
}

func (r *flightRow) toEntity() *flight.Flight {
	return &flight.Flight{
		ID: r.ID, FlightNumber: r.FlightNumber,
		Origin: r.Origin, Destination: r.Destination,
		DepartureAt: r.DepartureAt, ArrivalAt: r.ArrivalAt,
		BasePrice: r.BasePrice,
		CreatedAt: r.CreatedAt, UpdatedAt: r.UpdatedAt, Version: r.Version,
	}
}

type FlightRepository struct{ db *sqlx.DB }

func NewFlightRepository(db *sqlx.DB) *FlightRepository { return &FlightRepository{db: db} }

func (r *FlightRepository) Create(ctx context.Context, tx transaction.Tx, f *flight.Flight) error {
	sqlxTx := UnwrapTx(tx)
	query := `INSERT INTO flights (flight_number, origin, destination, departure_at, arrival_at, base_price, created_at, updated_at, version)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9) RETURNING id`
	if err := sqlxTx.QueryRowContext(ctx, query,
		f.FlightNumber, f.Origin, f.Destination, f.DepartureAt, f.ArrivalAt,
		f.BasePrice, f.CreatedAt, f.UpdatedAt, f.Version,
	).Scan(&f.ID); err != nil {
		return fmt.Errorf("フライト作成に失敗: %w", err)
	}
	return nil
}

func (r *FlightRepository) GetByID(ctx context.Context, id string) (*flight.Flight, error) {
	query := `SELECT id, flight_number, origin, destination, departure_at, arrival_at, base_price, created_at, updated_at, version FROM flights WHERE id = $1`
	var row flightRow
	if err := r.db.GetContext(ctx, &row, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, flight.ErrFlightNotFound
		}
		return nil, fmt.Errorf("フライト取得に失敗: %w", err)
	}
	return row.toEntity(), nil
}

func (r *FlightRepository) List(ctx context.Context, limit, offset int) ([]*flight.Flight, error) {
	query := `SELECT id, flight_number, origin, destination, departure_at, arrival_at, base_price, created_at, updated_at, version FROM flights ORDER BY departure_at LIMIT $1 OFFSET $2`
	var rows []flightRow
	if err := r.db.SelectContext(ctx, &rows, query, limit, offset); err != nil {
		return nil, fmt.Errorf("フライト一覧取得に失敗: %w", err)
	}
	flights := make([]*flight.Flight, len(rows))
	for i, row := range rows {
		flights[i] = row.toEntity()
	}
	return flights, nil
}

func (r *FlightRepository) Update(ctx context.Context, f *flight.Flight) error {
	query := `UPDATE flights SET flight_number = $1, origin = $2, destination = $3, departure_at = $4, arrival_at = $5, base_price = $6, updated_at = NOW(), version = version + 1
		WHERE id = $7 AND version = $8`
	result, err := r.db.ExecContext(ctx, query,
		f.FlightNumber, f.Origin, f.Destination, f.DepartureAt, f.ArrivalAt,
		f.BasePrice, f.ID, f.Version,
	)
	if err != nil {
		return fmt.Errorf("フライト更新に失敗: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return flight.ErrOptimisticLockConflict
	}
	f.Version++
	return nil
}

var _ flight.Repository = (*FlightRepository)(nil)
