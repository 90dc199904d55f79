package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/Hashforgamers/hfg-booking/internal/model"
	"github.com/Hashforgamers/hfg-booking/internal/repository/base"
	"github.com/jackc/pgx/v5"
)

type QueueRepository struct {
	db base.Querier
}

func NewQueueRepository(db base.Querier) *QueueRepository {
	return &QueueRepository{db: db}
}

func (r *QueueRepository) WithTx(tx pgx.Tx) *QueueRepository {
	return &QueueRepository{db: tx}
}

// Create persists a new queue entry. A zero EndTime is stored as NULL
// (access-code sessions have no known end).
func (r *QueueRepository) Create(ctx context.Context, entry *model.QueueEntry) error {
	query := `
		INSERT INTO booking_queue (booking_id, console_id, game_id, vendor_id, user_id, status, start_time, end_time)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at
	`

	var end any
	if !entry.EndTime.IsZero() {
		end = entry.EndTime
	}

	err := r.db.QueryRow(
		ctx, query,
		entry.BookingID,
		entry.ConsoleID,
		entry.GameID,
		entry.VendorID,
		entry.UserID,
		entry.Status,
		entry.StartTime,
		end,
	).Scan(&entry.ID, &entry.CreatedAt)

	if err != nil {
		return fmt.Errorf("create queue entry: %w", err)
	}

	return nil
}

// GetQueued returns the queued entry for (booking, console), or nil. The
// partial unique index on the table makes at most one row possible.
func (r *QueueRepository) GetQueued(ctx context.Context, bookingID, consoleID int64) (*model.QueueEntry, error) {
	query := `
		SELECT id, booking_id, console_id, game_id, vendor_id, user_id, status, start_time, end_time, created_at
		FROM booking_queue
		WHERE booking_id = $1
		  AND console_id = $2
		  AND status = 'queued'
	`

	entry, err := scanQueueEntry(r.db.QueryRow(ctx, query, bookingID, consoleID))
	if err != nil {
		if base.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get queued entry: %w", err)
	}

	return entry, nil
}

// ClaimOldestQueued atomically flips the oldest queued entry for the console
// to started, stamping start_time with now. SKIP LOCKED keeps concurrent
// pollers of other consoles from serializing on each other. The returned
// entry carries the original merged-block window, which the assignment
// coordinator still needs.
func (r *QueueRepository) ClaimOldestQueued(ctx context.Context, consoleID int64, now time.Time) (*model.QueueEntry, error) {
	query := `
		WITH picked AS (
			SELECT id, start_time, end_time
			FROM booking_queue
			WHERE console_id = $1
			  AND status = 'queued'
			ORDER BY id
			FOR UPDATE SKIP LOCKED
			LIMIT 1
		)
		UPDATE booking_queue q
		SET status = 'started', start_time = $2
		FROM picked
		WHERE q.id = picked.id
		RETURNING q.id, q.booking_id, q.console_id, q.game_id, q.vendor_id, q.user_id, q.status,
		          picked.start_time, picked.end_time, q.created_at
	`

	entry, err := scanQueueEntry(r.db.QueryRow(ctx, query, consoleID, now))
	if err != nil {
		if base.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("claim oldest queued: %w", err)
	}

	return entry, nil
}

// GetActiveForConsole returns the started entry currently bound to the
// console, locked for the rest of the transaction.
func (r *QueueRepository) GetActiveForConsole(ctx context.Context, consoleID int64) (*model.QueueEntry, error) {
	query := `
		SELECT id, booking_id, console_id, game_id, vendor_id, user_id, status, start_time, end_time, created_at
		FROM booking_queue
		WHERE console_id = $1
		  AND status = 'started'
		ORDER BY id DESC
		LIMIT 1
		FOR UPDATE
	`

	entry, err := scanQueueEntry(r.db.QueryRow(ctx, query, consoleID))
	if err != nil {
		if base.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get active entry: %w", err)
	}

	return entry, nil
}

// Complete moves a started entry to completed and stamps its end time.
// Transitions are strictly forward, so the status filter guards regressions.
func (r *QueueRepository) Complete(ctx context.Context, id int64, now time.Time) error {
	query := `
		UPDATE booking_queue
		SET status = 'completed', end_time = $1
		WHERE id = $2
		  AND status = 'started'
	`

	tag, err := r.db.Exec(ctx, query, now, id)
	if err != nil {
		return fmt.Errorf("complete queue entry: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return fmt.Errorf("queue entry %d is not started", id)
	}

	return nil
}

func scanQueueEntry(row pgx.Row) (*model.QueueEntry, error) {
	var (
		entry model.QueueEntry
		end   *time.Time
	)

	err := row.Scan(
		&entry.ID,
		&entry.BookingID,
		&entry.ConsoleID,
		&entry.GameID,
		&entry.VendorID,
		&entry.UserID,
		&entry.Status,
		&entry.StartTime,
		&end,
		&entry.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	if end != nil {
		entry.EndTime = *end
	}

	return &entry, nil
}
