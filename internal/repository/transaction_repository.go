package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/Hashforgamers/hfg-booking/internal/model"
	"github.com/Hashforgamers/hfg-booking/internal/repository/base"
	"github.com/jackc/pgx/v5"
)

type TransactionRepository struct {
	db base.Querier
}

func NewTransactionRepository(db base.Querier) *TransactionRepository {
	return &TransactionRepository{db: db}
}

func (r *TransactionRepository) WithTx(tx pgx.Tx) *TransactionRepository {
	return &TransactionRepository{db: tx}
}

// GetForDay returns the user's transactions at the vendor for one date.
func (r *TransactionRepository) GetForDay(ctx context.Context, userID, vendorID int64, day time.Time) ([]*model.Transaction, error) {
	query := `
		SELECT id, booking_id, vendor_id, user_id, booked_date
		FROM transactions
		WHERE user_id = $1
		  AND vendor_id = $2
		  AND booked_date = $3
		ORDER BY id
	`

	rows, err := r.db.Query(ctx, query, userID, vendorID, day)
	if err != nil {
		return nil, fmt.Errorf("get transactions for day: %w", err)
	}
	defer rows.Close()

	var transactions []*model.Transaction
	for rows.Next() {
		var t model.Transaction
		err := rows.Scan(&t.ID, &t.BookingID, &t.VendorID, &t.UserID, &t.BookedDate)
		if err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		transactions = append(transactions, &t)
	}

	return transactions, rows.Err()
}
