package repository

import (
	"context"
	"fmt"

	"github.com/Hashforgamers/hfg-booking/internal/model"
	"github.com/Hashforgamers/hfg-booking/internal/repository/base"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type AccessCodeRepository struct {
	db base.Querier
}

func NewAccessCodeRepository(db base.Querier) *AccessCodeRepository {
	return &AccessCodeRepository{db: db}
}

func (r *AccessCodeRepository) WithTx(tx pgx.Tx) *AccessCodeRepository {
	return &AccessCodeRepository{db: tx}
}

// GetByCode returns the access code row or nil when the code is unknown.
func (r *AccessCodeRepository) GetByCode(ctx context.Context, code string) (*model.AccessBookingCode, error) {
	query := `
		SELECT id, booking_id, access_code
		FROM access_booking_codes
		WHERE access_code = $1
	`

	var accessCode model.AccessBookingCode
	err := r.db.QueryRow(ctx, query, code).Scan(
		&accessCode.ID,
		&accessCode.BookingID,
		&accessCode.AccessCode,
	)

	if err != nil {
		if base.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get access code: %w", err)
	}

	return &accessCode, nil
}

// Create mints a fresh code for the booking. The reservation flow calls this
// when the user opts for walk-in unlock.
func (r *AccessCodeRepository) Create(ctx context.Context, bookingID int64) (*model.AccessBookingCode, error) {
	query := `
		INSERT INTO access_booking_codes (booking_id, access_code)
		VALUES ($1, $2)
		RETURNING id
	`

	accessCode := &model.AccessBookingCode{
		BookingID:  bookingID,
		AccessCode: uuid.NewString(),
	}

	err := r.db.QueryRow(ctx, query, bookingID, accessCode.AccessCode).Scan(&accessCode.ID)
	if err != nil {
		return nil, fmt.Errorf("create access code: %w", err)
	}

	return accessCode, nil
}
