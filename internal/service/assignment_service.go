package service

import (
	"context"
	"fmt"
	"time"

	"github.com/Hashforgamers/hfg-booking/internal/model"
	"go.uber.org/zap"
)

// dateOf strips the time of day, keeping the location.
func dateOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// AssignmentCoordinator binds a claimed queue entry to a physical console:
// it resolves the bookings covered by the entry's merged window, flips the
// console's availability gate, and moves the matching dashboard rows from
// upcoming to current. Assign always runs inside the caller's transaction so
// the gate and the dashboard change together or not at all.
type AssignmentCoordinator struct {
	logger *zap.Logger
}

func NewAssignmentCoordinator(logger *zap.Logger) *AssignmentCoordinator {
	return &AssignmentCoordinator{logger: logger}
}

// Assign performs the claim for the given entry and returns the booking ids
// whose dashboard rows were flipped.
func (c *AssignmentCoordinator) Assign(ctx context.Context, s Store, entry *model.QueueEntry) ([]int64, error) {
	if entry.UserID == nil {
		return nil, fmt.Errorf("entry %d has no user: %w", entry.ID, ErrNotFound)
	}

	day := dateOf(entry.StartTime)

	slotIDs, err := s.DaySlotIDsInWindow(ctx, entry.VendorID, day, entry.StartTime, entry.EndTime)
	if err != nil {
		return nil, fmt.Errorf("resolve day slots: %w", err)
	}
	if len(slotIDs) == 0 {
		return nil, fmt.Errorf("no slots in window: %w", ErrNotFound)
	}

	bookings, err := s.BookingsForClaim(ctx, slotIDs, *entry.UserID, entry.GameID)
	if err != nil {
		return nil, fmt.Errorf("resolve bookings: %w", err)
	}
	if len(bookings) == 0 {
		return nil, fmt.Errorf("no bookings in window: %w", ErrNotFound)
	}

	// The availability row is the last gate before mutation. The FOR UPDATE
	// read distinguishes "no such console" from "already claimed"; the
	// conditional update closes the race against a second claimer.
	console, err := s.ConsoleForUpdate(ctx, entry.VendorID, entry.ConsoleID, entry.GameID)
	if err != nil {
		return nil, fmt.Errorf("read console availability: %w", err)
	}
	if console == nil {
		return nil, ErrConsoleNotFound
	}
	if !console.IsAvailable {
		return nil, ErrConsoleInUse
	}

	claimed, err := s.MarkConsoleUnavailable(ctx, entry.VendorID, entry.ConsoleID, entry.GameID)
	if err != nil {
		return nil, fmt.Errorf("claim console: %w", err)
	}
	if !claimed {
		return nil, ErrConsoleInUse
	}

	bookingIDs := make([]int64, 0, len(bookings))
	for _, b := range bookings {
		bookingIDs = append(bookingIDs, b.ID)
	}

	updated, err := s.MarkDashboardCurrent(ctx, entry.VendorID, bookingIDs, entry.ConsoleID)
	if err != nil {
		return nil, fmt.Errorf("update dashboard: %w", err)
	}

	c.logger.Info("console assigned",
		zap.Int64("entry_id", entry.ID),
		zap.Int64("vendor_id", entry.VendorID),
		zap.Int64("console_id", entry.ConsoleID),
		zap.Int64("game_id", entry.GameID),
		zap.Int64s("booking_ids", bookingIDs),
		zap.Int64("dashboard_rows", updated),
	)

	return bookingIDs, nil
}
