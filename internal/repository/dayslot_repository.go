package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/Hashforgamers/hfg-booking/internal/repository/base"
	"github.com/jackc/pgx/v5"
)

type DaySlotRepository struct {
	db base.Querier
}

func NewDaySlotRepository(db base.Querier) *DaySlotRepository {
	return &DaySlotRepository{db: db}
}

func (r *DaySlotRepository) WithTx(tx pgx.Tx) *DaySlotRepository {
	return &DaySlotRepository{db: tx}
}

// GetSlotIDsInWindow returns the slot ids materialized for the vendor on the
// date whose anchored window lies within [start, end].
func (r *DaySlotRepository) GetSlotIDsInWindow(ctx context.Context, vendorID int64, day, start, end time.Time) ([]int64, error) {
	query := `
		SELECT s.id
		FROM vendor_day_slots vds
		JOIN slots s ON s.id = vds.slot_id
		WHERE vds.vendor_id = $1
		  AND vds.date = $2
		  AND (vds.date + s.start_time) >= $3
		  AND (vds.date + s.end_time) <= $4
		ORDER BY s.start_time
	`

	rows, err := r.db.Query(ctx, query, vendorID, day, start, end)
	if err != nil {
		return nil, fmt.Errorf("get day slots in window: %w", err)
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan day slot id: %w", err)
		}
		ids = append(ids, id)
	}

	return ids, rows.Err()
}

// Regenerate rebuilds the vendor's day-slot rows for one date: delete, then
// reinsert from the active slot templates. Must run inside a transaction.
func (r *DaySlotRepository) Regenerate(ctx context.Context, vendorID int64, day time.Time) (int64, error) {
	deleteQuery := `
		DELETE FROM vendor_day_slots
		WHERE vendor_id = $1 AND date = $2
	`

	if _, err := r.db.Exec(ctx, deleteQuery, vendorID, day); err != nil {
		return 0, fmt.Errorf("delete day slots: %w", err)
	}

	insertQuery := `
		INSERT INTO vendor_day_slots (vendor_id, date, slot_id, is_available, remaining_capacity)
		SELECT $1, $2, s.id, s.is_template_active, s.capacity
		FROM slots s
		JOIN console_types ct ON ct.id = s.console_type_id
		WHERE ct.vendor_id = $1
		  AND s.is_template_active
	`

	tag, err := r.db.Exec(ctx, insertQuery, vendorID, day)
	if err != nil {
		return 0, fmt.Errorf("insert day slots: %w", err)
	}

	return tag.RowsAffected(), nil
}

// VendorIDs returns every vendor with at least one console type.
func (r *DaySlotRepository) VendorIDs(ctx context.Context) ([]int64, error) {
	query := `
		SELECT DISTINCT vendor_id
		FROM console_types
		ORDER BY vendor_id
	`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("get vendor ids: %w", err)
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan vendor id: %w", err)
		}
		ids = append(ids, id)
	}

	return ids, rows.Err()
}
