package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Hashforgamers/hfg-booking/internal/clock"
	"github.com/Hashforgamers/hfg-booking/internal/model"
	"github.com/Hashforgamers/hfg-booking/internal/monitoring"
	"go.uber.org/zap"
)

// QueueService owns the booking queue: it admits claim attempts, enforces
// idempotency, and drives the console assignment on polls. All multi-step
// mutations run inside one transaction; the unlock notification is the only
// side effect that escapes it, and it is advisory.
type QueueService struct {
	store    Store
	coord    *AssignmentCoordinator
	notifier UnlockNotifier
	cache    AvailabilityCache
	clock    clock.Clock
	grace    time.Duration
	logger   *zap.Logger
}

func NewQueueService(
	store Store,
	coord *AssignmentCoordinator,
	notifier UnlockNotifier,
	cache AvailabilityCache,
	clk clock.Clock,
	grace time.Duration,
	logger *zap.Logger,
) *QueueService {
	return &QueueService{
		store:    store,
		coord:    coord,
		notifier: notifier,
		cache:    cache,
		clock:    clk,
		grace:    grace,
		logger:   logger,
	}
}

// ClaimResult is the outcome of a successful poll: the entry that moved to
// started and the bookings whose dashboard rows were flipped.
type ClaimResult struct {
	Entry      *model.QueueEntry
	BookingIDs []int64
}

// Enqueue admits a claim attempt for (booking, console). It locates the
// merged block containing "now", persists a queued entry, and fires the
// unlock signal. A duplicate submission for the same (booking, console) does
// not create a second row; it only re-fires the unlock signal.
func (s *QueueService) Enqueue(ctx context.Context, bookingID, consoleID, gameID, vendorID int64) (*model.QueueEntry, error) {
	now := s.clock.Now()
	today := dateOf(now)

	var (
		entry     *model.QueueEntry
		duplicate bool
	)

	err := s.store.Atomic(ctx, func(tx Store) error {
		booking, err := tx.BookingByID(ctx, bookingID)
		if err != nil {
			return fmt.Errorf("get booking: %w", err)
		}
		if booking == nil {
			return fmt.Errorf("booking %d: %w", bookingID, ErrNotFound)
		}

		transactions, err := tx.TransactionsForDay(ctx, booking.UserID, vendorID, today)
		if err != nil {
			return fmt.Errorf("get transactions: %w", err)
		}
		if len(transactions) == 0 {
			return fmt.Errorf("no transactions today for user %d at vendor %d: %w", booking.UserID, vendorID, ErrNotFound)
		}

		bookingIDs := make([]int64, 0, len(transactions))
		for _, t := range transactions {
			bookingIDs = append(bookingIDs, t.BookingID)
		}

		bookings, err := tx.BookingsByIDs(ctx, bookingIDs)
		if err != nil {
			return fmt.Errorf("get bookings: %w", err)
		}
		if len(bookings) == 0 {
			return fmt.Errorf("no bookings for today's transactions: %w", ErrNotFound)
		}

		slotIDs := make([]int64, 0, len(bookings))
		seen := make(map[int64]struct{}, len(bookings))
		for _, b := range bookings {
			if _, ok := seen[b.SlotID]; ok {
				continue
			}
			seen[b.SlotID] = struct{}{}
			slotIDs = append(slotIDs, b.SlotID)
		}

		slots, err := tx.SlotsByIDs(ctx, slotIDs)
		if err != nil {
			return fmt.Errorf("get slots: %w", err)
		}
		if len(slots) == 0 {
			return fmt.Errorf("no slots for today's bookings: %w", ErrNotFound)
		}

		block, ok := ActiveBlock(MergeDaySlots(slots, today), now, s.grace)
		if !ok {
			return ErrNoActiveBlock
		}

		existing, err := tx.QueuedEntry(ctx, bookingID, consoleID)
		if err != nil {
			return fmt.Errorf("check queued entry: %w", err)
		}
		if existing != nil {
			entry = existing
			duplicate = true
			return nil
		}

		userID := booking.UserID
		entry = &model.QueueEntry{
			BookingID: &bookingID,
			ConsoleID: consoleID,
			GameID:    gameID,
			VendorID:  vendorID,
			UserID:    &userID,
			Status:    model.QueueStatusQueued,
			StartTime: block.Start,
			EndTime:   block.End,
		}

		if err := tx.CreateQueueEntry(ctx, entry); err != nil {
			return fmt.Errorf("create queue entry: %w", err)
		}
		return nil
	})
	if err != nil {
		monitoring.RecordEnqueue("error")
		return nil, err
	}

	// Advisory fire-and-forget; queue state never depends on delivery.
	s.notifier.NotifyUnlock(bookingID, consoleID, entry.StartTime, entry.EndTime)

	if duplicate {
		monitoring.RecordEnqueue("duplicate")
		s.logger.Info("duplicate enqueue, unlock re-sent",
			zap.Int64("booking_id", bookingID),
			zap.Int64("console_id", consoleID),
			zap.Int64("entry_id", entry.ID),
		)
	} else {
		monitoring.RecordEnqueue("created")
		s.logger.Info("queue entry created",
			zap.Int64("entry_id", entry.ID),
			zap.Int64("booking_id", bookingID),
			zap.Int64("console_id", consoleID),
			zap.Int64("vendor_id", vendorID),
			zap.Time("block_start", entry.StartTime),
			zap.Time("block_end", entry.EndTime),
		)
	}

	return entry, nil
}

// PollAndClaim serves the oldest queued entry for the console: it flips the
// entry to started, stamps its start with "now", and runs the assignment
// coordinator in the same transaction. An empty queue returns (nil, nil);
// polling with nothing to do is a normal outcome.
func (s *QueueService) PollAndClaim(ctx context.Context, consoleID int64) (*ClaimResult, error) {
	now := s.clock.Now()

	var result *ClaimResult
	err := s.store.Atomic(ctx, func(tx Store) error {
		entry, err := tx.ClaimOldestQueued(ctx, consoleID, now)
		if err != nil {
			return fmt.Errorf("claim oldest queued: %w", err)
		}
		if entry == nil {
			// An empty queue on a busy console is a conflict, not a no-op:
			// the poller must learn the console is taken.
			active, err := tx.ActiveEntryForConsole(ctx, consoleID)
			if err != nil {
				return fmt.Errorf("check active entry: %w", err)
			}
			if active != nil {
				return ErrConsoleInUse
			}
			return nil
		}

		bookingIDs, err := s.coord.Assign(ctx, tx, entry)
		if err != nil {
			return err
		}

		result = &ClaimResult{Entry: entry, BookingIDs: bookingIDs}
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrConsoleInUse) {
			monitoring.RecordClaim("conflict")
		} else {
			monitoring.RecordClaim("error")
		}
		return nil, err
	}
	if result == nil {
		monitoring.RecordClaim("empty")
		return nil, nil
	}

	monitoring.RecordClaim("claimed")
	s.cache.Invalidate(ctx, result.Entry.VendorID)

	s.logger.Info("queue entry started",
		zap.Int64("entry_id", result.Entry.ID),
		zap.Int64("console_id", consoleID),
		zap.Int64s("booking_ids", result.BookingIDs),
	)

	return result, nil
}

// StartWithAccessCode redeems a single-use access code: the bound booking
// goes straight to a started entry, skipping the block merge and the
// idempotency check that guard the regular enqueue path.
func (s *QueueService) StartWithAccessCode(ctx context.Context, code string, consoleID, gameID, vendorID int64) (*model.QueueEntry, error) {
	now := s.clock.Now()

	var entry *model.QueueEntry
	err := s.store.Atomic(ctx, func(tx Store) error {
		accessCode, err := tx.AccessCodeByCode(ctx, code)
		if err != nil {
			return fmt.Errorf("get access code: %w", err)
		}
		if accessCode == nil {
			return ErrInvalidAccessCode
		}

		booking, err := tx.BookingByID(ctx, accessCode.BookingID)
		if err != nil {
			return fmt.Errorf("get booking: %w", err)
		}
		if booking == nil {
			return fmt.Errorf("booking %d for access code: %w", accessCode.BookingID, ErrNotFound)
		}

		bookingID := booking.ID
		userID := booking.UserID
		entry = &model.QueueEntry{
			BookingID: &bookingID,
			ConsoleID: consoleID,
			GameID:    gameID,
			VendorID:  vendorID,
			UserID:    &userID,
			Status:    model.QueueStatusStarted,
			StartTime: now,
		}

		if err := tx.CreateQueueEntry(ctx, entry); err != nil {
			return fmt.Errorf("create queue entry: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.notifier.NotifyUnlock(*entry.BookingID, consoleID, entry.StartTime, entry.StartTime)

	s.logger.Info("access code session started",
		zap.Int64("entry_id", entry.ID),
		zap.Int64("console_id", consoleID),
		zap.Int64("vendor_id", vendorID),
	)

	return entry, nil
}

// ReleaseConsole ends the console's active session: the started entry moves
// to completed, the availability gate reopens, and the dashboard rows close
// out. The reverse of a claim, with the same atomicity.
func (s *QueueService) ReleaseConsole(ctx context.Context, consoleID int64) (*model.QueueEntry, error) {
	now := s.clock.Now()

	var entry *model.QueueEntry
	err := s.store.Atomic(ctx, func(tx Store) error {
		var err error
		entry, err = tx.ActiveEntryForConsole(ctx, consoleID)
		if err != nil {
			return fmt.Errorf("get active entry: %w", err)
		}
		if entry == nil {
			return fmt.Errorf("no active session on console %d: %w", consoleID, ErrNotFound)
		}

		if err := tx.CompleteEntry(ctx, entry.ID, now); err != nil {
			return fmt.Errorf("complete entry: %w", err)
		}
		if _, err := tx.MarkConsoleAvailable(ctx, entry.VendorID, consoleID); err != nil {
			return fmt.Errorf("release console: %w", err)
		}
		if _, err := tx.MarkDashboardCompleted(ctx, entry.VendorID, consoleID); err != nil {
			return fmt.Errorf("close dashboard rows: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.cache.Invalidate(ctx, entry.VendorID)

	s.logger.Info("console released",
		zap.Int64("entry_id", entry.ID),
		zap.Int64("console_id", consoleID),
		zap.Int64("vendor_id", entry.VendorID),
	)

	return entry, nil
}

// MintAccessCode issues a walk-in unlock code for an existing booking.
func (s *QueueService) MintAccessCode(ctx context.Context, bookingID int64) (*model.AccessBookingCode, error) {
	var code *model.AccessBookingCode
	err := s.store.Atomic(ctx, func(tx Store) error {
		booking, err := tx.BookingByID(ctx, bookingID)
		if err != nil {
			return fmt.Errorf("get booking: %w", err)
		}
		if booking == nil {
			return fmt.Errorf("booking %d: %w", bookingID, ErrNotFound)
		}

		code, err = tx.CreateAccessCode(ctx, bookingID)
		if err != nil {
			return fmt.Errorf("create access code: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("access code minted", zap.Int64("booking_id", bookingID))
	return code, nil
}

// ConsoleSnapshot returns the vendor's console availability, served from the
// cache when fresh.
func (s *QueueService) ConsoleSnapshot(ctx context.Context, vendorID int64) ([]*model.ConsoleAvailability, error) {
	if consoles, ok := s.cache.Get(ctx, vendorID); ok {
		return consoles, nil
	}

	consoles, err := s.store.ConsoleSnapshot(ctx, vendorID)
	if err != nil {
		return nil, fmt.Errorf("load console snapshot: %w", err)
	}

	s.cache.Set(ctx, vendorID, consoles)
	return consoles, nil
}
