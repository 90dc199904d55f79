package service

import (
	"context"
	"time"

	"github.com/Hashforgamers/hfg-booking/internal/model"
)

// Store is the persistence surface of the engine. Lookup methods return
// (nil, nil) when no row matches; the services translate that into their own
// error taxonomy.
type Store interface {
	// Atomic runs fn inside a single transaction. Every Store call made
	// through the argument sees and mutates the same transactional state;
	// an error from fn rolls everything back.
	Atomic(ctx context.Context, fn func(Store) error) error

	BookingByID(ctx context.Context, id int64) (*model.Booking, error)
	BookingsByIDs(ctx context.Context, ids []int64) ([]*model.Booking, error)
	// BookingsForClaim returns confirmed bookings on any of the given slots
	// for the user and console type. Slot IDs are already vendor-scoped.
	BookingsForClaim(ctx context.Context, slotIDs []int64, userID, gameID int64) ([]*model.Booking, error)

	// TransactionsForDay returns the user's transactions at the vendor for
	// one calendar date.
	TransactionsForDay(ctx context.Context, userID, vendorID int64, day time.Time) ([]*model.Transaction, error)

	// SlotsByIDs returns slot templates ordered by start time.
	SlotsByIDs(ctx context.Context, ids []int64) ([]*model.Slot, error)

	// DaySlotIDsInWindow returns slot ids materialized for the vendor on the
	// given date whose time-of-day window lies within [start, end].
	DaySlotIDsInWindow(ctx context.Context, vendorID int64, day, start, end time.Time) ([]int64, error)
	// RegenerateDaySlots rebuilds the vendor's day-slot rows for one date
	// (wholesale delete then reinsert from the slot templates).
	RegenerateDaySlots(ctx context.Context, vendorID int64, day time.Time) (int64, error)
	VendorIDs(ctx context.Context) ([]int64, error)

	// QueuedEntry returns the queued entry for (booking, console), if any.
	QueuedEntry(ctx context.Context, bookingID, consoleID int64) (*model.QueueEntry, error)
	CreateQueueEntry(ctx context.Context, entry *model.QueueEntry) error
	// ClaimOldestQueued flips the oldest queued entry for the console to
	// started, stamping its start time with now. The returned entry still
	// carries the original merged-block window.
	ClaimOldestQueued(ctx context.Context, consoleID int64, now time.Time) (*model.QueueEntry, error)
	// ActiveEntryForConsole returns the started entry currently bound to the
	// console, if any.
	ActiveEntryForConsole(ctx context.Context, consoleID int64) (*model.QueueEntry, error)
	CompleteEntry(ctx context.Context, id int64, now time.Time) error

	// ConsoleForUpdate reads the availability row and holds a row lock for
	// the rest of the transaction.
	ConsoleForUpdate(ctx context.Context, vendorID, consoleID, gameID int64) (*model.ConsoleAvailability, error)
	// MarkConsoleUnavailable is the conditional claim: it reports false when
	// the row was not available anymore.
	MarkConsoleUnavailable(ctx context.Context, vendorID, consoleID, gameID int64) (bool, error)
	MarkConsoleAvailable(ctx context.Context, vendorID, consoleID int64) (bool, error)
	ConsoleSnapshot(ctx context.Context, vendorID int64) ([]*model.ConsoleAvailability, error)

	MarkDashboardCurrent(ctx context.Context, vendorID int64, bookingIDs []int64, consoleID int64) (int64, error)
	MarkDashboardCompleted(ctx context.Context, vendorID, consoleID int64) (int64, error)

	AccessCodeByCode(ctx context.Context, code string) (*model.AccessBookingCode, error)
	CreateAccessCode(ctx context.Context, bookingID int64) (*model.AccessBookingCode, error)
}

// UnlockNotifier fires the advisory unlock signal towards the device-control
// service. Implementations must detach and never block the caller.
type UnlockNotifier interface {
	NotifyUnlock(bookingID, consoleID int64, start, end time.Time)
}

// AvailabilityCache holds short-lived per-vendor console snapshots. Misses
// and cache errors must degrade to "not cached", never fail the read path.
type AvailabilityCache interface {
	Get(ctx context.Context, vendorID int64) ([]*model.ConsoleAvailability, bool)
	Set(ctx context.Context, vendorID int64, consoles []*model.ConsoleAvailability)
	Invalidate(ctx context.Context, vendorID int64)
}
