package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/Hashforgamers/hfg-booking/internal/model"
	"github.com/Hashforgamers/hfg-booking/internal/service"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Store bundles the repositories behind the service-layer Store interface.
// Outside a transaction every repository runs on the pool; Atomic rebinds
// them all to one pgx.Tx so multi-step mutations commit or roll back as a
// unit.
type Store struct {
	pool *pgxpool.Pool
	tx   pgx.Tx

	bookings     *BookingRepository
	transactions *TransactionRepository
	slots        *SlotRepository
	daySlots     *DaySlotRepository
	queue        *QueueRepository
	consoles     *ConsoleRepository
	dashboard    *DashboardRepository
	accessCodes  *AccessCodeRepository
}

var _ service.Store = (*Store)(nil)

func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{
		pool:         pool,
		bookings:     NewBookingRepository(pool),
		transactions: NewTransactionRepository(pool),
		slots:        NewSlotRepository(pool),
		daySlots:     NewDaySlotRepository(pool),
		queue:        NewQueueRepository(pool),
		consoles:     NewConsoleRepository(pool),
		dashboard:    NewDashboardRepository(pool),
		accessCodes:  NewAccessCodeRepository(pool),
	}
}

func (s *Store) withTx(tx pgx.Tx) *Store {
	return &Store{
		pool:         s.pool,
		tx:           tx,
		bookings:     s.bookings.WithTx(tx),
		transactions: s.transactions.WithTx(tx),
		slots:        s.slots.WithTx(tx),
		daySlots:     s.daySlots.WithTx(tx),
		queue:        s.queue.WithTx(tx),
		consoles:     s.consoles.WithTx(tx),
		dashboard:    s.dashboard.WithTx(tx),
		accessCodes:  s.accessCodes.WithTx(tx),
	}
}

// Atomic runs fn inside one transaction. A nested call joins the transaction
// already in flight.
func (s *Store) Atomic(ctx context.Context, fn func(service.Store) error) error {
	if s.tx != nil {
		return fn(s)
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if err := fn(s.withTx(tx)); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}

	return nil
}

func (s *Store) BookingByID(ctx context.Context, id int64) (*model.Booking, error) {
	return s.bookings.GetByID(ctx, id)
}

func (s *Store) BookingsByIDs(ctx context.Context, ids []int64) ([]*model.Booking, error) {
	return s.bookings.GetByIDs(ctx, ids)
}

func (s *Store) BookingsForClaim(ctx context.Context, slotIDs []int64, userID, gameID int64) ([]*model.Booking, error) {
	return s.bookings.GetForClaim(ctx, slotIDs, userID, gameID)
}

func (s *Store) TransactionsForDay(ctx context.Context, userID, vendorID int64, day time.Time) ([]*model.Transaction, error) {
	return s.transactions.GetForDay(ctx, userID, vendorID, day)
}

func (s *Store) SlotsByIDs(ctx context.Context, ids []int64) ([]*model.Slot, error) {
	return s.slots.GetByIDs(ctx, ids)
}

func (s *Store) DaySlotIDsInWindow(ctx context.Context, vendorID int64, day, start, end time.Time) ([]int64, error) {
	return s.daySlots.GetSlotIDsInWindow(ctx, vendorID, day, start, end)
}

func (s *Store) RegenerateDaySlots(ctx context.Context, vendorID int64, day time.Time) (int64, error) {
	return s.daySlots.Regenerate(ctx, vendorID, day)
}

func (s *Store) VendorIDs(ctx context.Context) ([]int64, error) {
	return s.daySlots.VendorIDs(ctx)
}

func (s *Store) QueuedEntry(ctx context.Context, bookingID, consoleID int64) (*model.QueueEntry, error) {
	return s.queue.GetQueued(ctx, bookingID, consoleID)
}

func (s *Store) CreateQueueEntry(ctx context.Context, entry *model.QueueEntry) error {
	return s.queue.Create(ctx, entry)
}

func (s *Store) ClaimOldestQueued(ctx context.Context, consoleID int64, now time.Time) (*model.QueueEntry, error) {
	return s.queue.ClaimOldestQueued(ctx, consoleID, now)
}

func (s *Store) ActiveEntryForConsole(ctx context.Context, consoleID int64) (*model.QueueEntry, error) {
	return s.queue.GetActiveForConsole(ctx, consoleID)
}

func (s *Store) CompleteEntry(ctx context.Context, id int64, now time.Time) error {
	return s.queue.Complete(ctx, id, now)
}

func (s *Store) ConsoleForUpdate(ctx context.Context, vendorID, consoleID, gameID int64) (*model.ConsoleAvailability, error) {
	return s.consoles.GetForUpdate(ctx, vendorID, consoleID, gameID)
}

func (s *Store) MarkConsoleUnavailable(ctx context.Context, vendorID, consoleID, gameID int64) (bool, error) {
	return s.consoles.MarkUnavailable(ctx, vendorID, consoleID, gameID)
}

func (s *Store) MarkConsoleAvailable(ctx context.Context, vendorID, consoleID int64) (bool, error) {
	return s.consoles.MarkAvailable(ctx, vendorID, consoleID)
}

func (s *Store) ConsoleSnapshot(ctx context.Context, vendorID int64) ([]*model.ConsoleAvailability, error) {
	return s.consoles.Snapshot(ctx, vendorID)
}

func (s *Store) MarkDashboardCurrent(ctx context.Context, vendorID int64, bookingIDs []int64, consoleID int64) (int64, error) {
	return s.dashboard.MarkCurrent(ctx, vendorID, bookingIDs, consoleID)
}

func (s *Store) MarkDashboardCompleted(ctx context.Context, vendorID, consoleID int64) (int64, error) {
	return s.dashboard.MarkCompleted(ctx, vendorID, consoleID)
}

func (s *Store) AccessCodeByCode(ctx context.Context, code string) (*model.AccessBookingCode, error) {
	return s.accessCodes.GetByCode(ctx, code)
}

func (s *Store) CreateAccessCode(ctx context.Context, bookingID int64) (*model.AccessBookingCode, error) {
	return s.accessCodes.Create(ctx, bookingID)
}
