package repository

import (
	"context"
	"fmt"

	"github.com/Hashforgamers/hfg-booking/internal/repository/base"
	"github.com/jackc/pgx/v5"
)

type DashboardRepository struct {
	db base.Querier
}

func NewDashboardRepository(db base.Querier) *DashboardRepository {
	return &DashboardRepository{db: db}
}

func (r *DashboardRepository) WithTx(tx pgx.Tx) *DashboardRepository {
	return &DashboardRepository{db: tx}
}

// MarkCurrent flips the vendor's upcoming rows for the given bookings to
// current and stamps the assigned console. Rows already past upcoming are
// untouched.
func (r *DashboardRepository) MarkCurrent(ctx context.Context, vendorID int64, bookingIDs []int64, consoleID int64) (int64, error) {
	query := `
		UPDATE dashboard_rows
		SET book_status = 'current', console_id = $3
		WHERE vendor_id = $1
		  AND booking_id = ANY($2)
		  AND book_status = 'upcoming'
	`

	tag, err := r.db.Exec(ctx, query, vendorID, bookingIDs, consoleID)
	if err != nil {
		return 0, fmt.Errorf("mark dashboard current: %w", err)
	}

	return tag.RowsAffected(), nil
}

// MarkCompleted closes out the vendor's current rows on the console.
func (r *DashboardRepository) MarkCompleted(ctx context.Context, vendorID, consoleID int64) (int64, error) {
	query := `
		UPDATE dashboard_rows
		SET book_status = 'completed'
		WHERE vendor_id = $1
		  AND console_id = $2
		  AND book_status = 'current'
	`

	tag, err := r.db.Exec(ctx, query, vendorID, consoleID)
	if err != nil {
		return 0, fmt.Errorf("mark dashboard completed: %w", err)
	}

	return tag.RowsAffected(), nil
}
