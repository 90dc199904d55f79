package repository

import (
	"context"
	"fmt"

	"github.com/Hashforgamers/hfg-booking/internal/model"
	"github.com/Hashforgamers/hfg-booking/internal/repository/base"
	"github.com/jackc/pgx/v5"
)

type ConsoleRepository struct {
	db base.Querier
}

func NewConsoleRepository(db base.Querier) *ConsoleRepository {
	return &ConsoleRepository{db: db}
}

func (r *ConsoleRepository) WithTx(tx pgx.Tx) *ConsoleRepository {
	return &ConsoleRepository{db: tx}
}

// GetForUpdate reads the availability row and holds its row lock for the rest
// of the transaction, so the caller can distinguish "absent" from "in use"
// without a second claimer interleaving.
func (r *ConsoleRepository) GetForUpdate(ctx context.Context, vendorID, consoleID, gameID int64) (*model.ConsoleAvailability, error) {
	query := `
		SELECT vendor_id, console_id, game_id, is_available
		FROM console_availability
		WHERE vendor_id = $1
		  AND console_id = $2
		  AND game_id = $3
		FOR UPDATE
	`

	var console model.ConsoleAvailability
	err := r.db.QueryRow(ctx, query, vendorID, consoleID, gameID).Scan(
		&console.VendorID,
		&console.ConsoleID,
		&console.GameID,
		&console.IsAvailable,
	)

	if err != nil {
		if base.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get console availability: %w", err)
	}

	return &console, nil
}

// MarkUnavailable is the conditional claim. Zero rows affected means another
// claimer got there first.
func (r *ConsoleRepository) MarkUnavailable(ctx context.Context, vendorID, consoleID, gameID int64) (bool, error) {
	query := `
		UPDATE console_availability
		SET is_available = FALSE
		WHERE vendor_id = $1
		  AND console_id = $2
		  AND game_id = $3
		  AND is_available = TRUE
	`

	tag, err := r.db.Exec(ctx, query, vendorID, consoleID, gameID)
	if err != nil {
		return false, fmt.Errorf("mark console unavailable: %w", err)
	}

	return tag.RowsAffected() > 0, nil
}

// MarkAvailable reopens the gate on release.
func (r *ConsoleRepository) MarkAvailable(ctx context.Context, vendorID, consoleID int64) (bool, error) {
	query := `
		UPDATE console_availability
		SET is_available = TRUE
		WHERE vendor_id = $1
		  AND console_id = $2
		  AND is_available = FALSE
	`

	tag, err := r.db.Exec(ctx, query, vendorID, consoleID)
	if err != nil {
		return false, fmt.Errorf("mark console available: %w", err)
	}

	return tag.RowsAffected() > 0, nil
}

// Snapshot returns the vendor's full availability table.
func (r *ConsoleRepository) Snapshot(ctx context.Context, vendorID int64) ([]*model.ConsoleAvailability, error) {
	query := `
		SELECT vendor_id, console_id, game_id, is_available
		FROM console_availability
		WHERE vendor_id = $1
		ORDER BY console_id
	`

	rows, err := r.db.Query(ctx, query, vendorID)
	if err != nil {
		return nil, fmt.Errorf("get console snapshot: %w", err)
	}
	defer rows.Close()

	var consoles []*model.ConsoleAvailability
	for rows.Next() {
		var console model.ConsoleAvailability
		err := rows.Scan(&console.VendorID, &console.ConsoleID, &console.GameID, &console.IsAvailable)
		if err != nil {
			return nil, fmt.Errorf("scan console availability: %w", err)
		}
		consoles = append(consoles, &console)
	}

	return consoles, rows.Err()
}
