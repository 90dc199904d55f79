package repository

import (
	"context"
	"fmt"

	"github.com/Hashforgamers/hfg-booking/internal/model"
	"github.com/Hashforgamers/hfg-booking/internal/repository/base"
	"github.com/jackc/pgx/v5"
)

type SlotRepository struct {
	db base.Querier
}

func NewSlotRepository(db base.Querier) *SlotRepository {
	return &SlotRepository{db: db}
}

func (r *SlotRepository) WithTx(tx pgx.Tx) *SlotRepository {
	return &SlotRepository{db: tx}
}

// GetByIDs returns slot templates ordered by start time. The ordering matters:
// the block merger walks the result assuming it.
func (r *SlotRepository) GetByIDs(ctx context.Context, ids []int64) ([]*model.Slot, error) {
	query := `
		SELECT id, console_type_id, start_time, end_time, capacity, is_template_active
		FROM slots
		WHERE id = ANY($1)
		ORDER BY start_time
	`

	rows, err := r.db.Query(ctx, query, ids)
	if err != nil {
		return nil, fmt.Errorf("get slots by ids: %w", err)
	}
	defer rows.Close()

	var slots []*model.Slot
	for rows.Next() {
		var slot model.Slot
		err := rows.Scan(
			&slot.ID,
			&slot.ConsoleTypeID,
			&slot.StartTime,
			&slot.EndTime,
			&slot.Capacity,
			&slot.IsTemplateActive,
		)
		if err != nil {
			return nil, fmt.Errorf("scan slot: %w", err)
		}
		slots = append(slots, &slot)
	}

	return slots, rows.Err()
}
