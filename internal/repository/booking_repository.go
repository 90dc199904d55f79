package repository

import (
	"context"
	"fmt"

	"github.com/Hashforgamers/hfg-booking/internal/model"
	"github.com/Hashforgamers/hfg-booking/internal/repository/base"
	"github.com/jackc/pgx/v5"
)

type BookingRepository struct {
	db base.Querier
}

func NewBookingRepository(db base.Querier) *BookingRepository {
	return &BookingRepository{db: db}
}

// WithTx returns a copy of the repository bound to the transaction.
func (r *BookingRepository) WithTx(tx pgx.Tx) *BookingRepository {
	return &BookingRepository{db: tx}
}

// GetByID returns the booking or nil when it does not exist.
func (r *BookingRepository) GetByID(ctx context.Context, id int64) (*model.Booking, error) {
	query := `
		SELECT id, user_id, console_type_id, slot_id, status
		FROM bookings
		WHERE id = $1
	`

	var booking model.Booking
	err := r.db.QueryRow(ctx, query, id).Scan(
		&booking.ID,
		&booking.UserID,
		&booking.ConsoleTypeID,
		&booking.SlotID,
		&booking.Status,
	)

	if err != nil {
		if base.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get booking by id: %w", err)
	}

	return &booking, nil
}

// GetByIDs returns all bookings with the given ids.
func (r *BookingRepository) GetByIDs(ctx context.Context, ids []int64) ([]*model.Booking, error) {
	query := `
		SELECT id, user_id, console_type_id, slot_id, status
		FROM bookings
		WHERE id = ANY($1)
		ORDER BY id
	`

	rows, err := r.db.Query(ctx, query, ids)
	if err != nil {
		return nil, fmt.Errorf("get bookings by ids: %w", err)
	}
	defer rows.Close()

	return scanBookings(rows)
}

// GetForClaim returns confirmed bookings on any of the slots for the user and
// console type. The slot set is already vendor-scoped by the caller.
func (r *BookingRepository) GetForClaim(ctx context.Context, slotIDs []int64, userID, gameID int64) ([]*model.Booking, error) {
	query := `
		SELECT id, user_id, console_type_id, slot_id, status
		FROM bookings
		WHERE slot_id = ANY($1)
		  AND user_id = $2
		  AND console_type_id = $3
		  AND status = 'confirmed'
		ORDER BY id
	`

	rows, err := r.db.Query(ctx, query, slotIDs, userID, gameID)
	if err != nil {
		return nil, fmt.Errorf("get bookings for claim: %w", err)
	}
	defer rows.Close()

	return scanBookings(rows)
}

func scanBookings(rows pgx.Rows) ([]*model.Booking, error) {
	var bookings []*model.Booking
	for rows.Next() {
		var booking model.Booking
		err := rows.Scan(
			&booking.ID,
			&booking.UserID,
			&booking.ConsoleTypeID,
			&booking.SlotID,
			&booking.Status,
		)
		if err != nil {
			return nil, fmt.Errorf("scan booking: %w", err)
		}
		bookings = append(bookings, &booking)
	}

	return bookings, rows.Err()
}
