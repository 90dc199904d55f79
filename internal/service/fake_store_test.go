package service

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/Hashforgamers/hfg-booking/internal/model"
)

// fakeDaySlot mirrors one materialized vendor_day_slots row.
type fakeDaySlot struct {
	VendorID int64
	SlotID   int64
	Date     time.Time
}

// fakeStore is an in-memory Store. Atomic serializes callers and restores a
// snapshot when fn fails, so rollback-on-error behaves like the real thing.
type fakeStore struct {
	txMu sync.Mutex
	mu   sync.Mutex

	bookings     map[int64]*model.Booking
	transactions []*model.Transaction
	slots        map[int64]*model.Slot
	consoleTypes map[int64]*model.ConsoleType
	daySlots     []fakeDaySlot
	queue        []*model.QueueEntry
	nextQueueID  int64
	consoles     map[int64]*model.ConsoleAvailability
	dashboard    []*model.DashboardRow
	accessCodes  map[string]*model.AccessBookingCode
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		bookings:     make(map[int64]*model.Booking),
		slots:        make(map[int64]*model.Slot),
		consoleTypes: make(map[int64]*model.ConsoleType),
		consoles:     make(map[int64]*model.ConsoleAvailability),
		accessCodes:  make(map[string]*model.AccessBookingCode),
		nextQueueID:  1,
	}
}

var _ Store = (*fakeStore)(nil)

type fakeSnapshot struct {
	bookings     map[int64]*model.Booking
	transactions []*model.Transaction
	slots        map[int64]*model.Slot
	consoleTypes map[int64]*model.ConsoleType
	daySlots     []fakeDaySlot
	queue        []*model.QueueEntry
	nextQueueID  int64
	consoles     map[int64]*model.ConsoleAvailability
	dashboard    []*model.DashboardRow
	accessCodes  map[string]*model.AccessBookingCode
}

func (f *fakeStore) snapshot() fakeSnapshot {
	s := fakeSnapshot{
		bookings:     make(map[int64]*model.Booking, len(f.bookings)),
		transactions: make([]*model.Transaction, 0, len(f.transactions)),
		slots:        make(map[int64]*model.Slot, len(f.slots)),
		consoleTypes: make(map[int64]*model.ConsoleType, len(f.consoleTypes)),
		daySlots:     append([]fakeDaySlot(nil), f.daySlots...),
		queue:        make([]*model.QueueEntry, 0, len(f.queue)),
		nextQueueID:  f.nextQueueID,
		consoles:     make(map[int64]*model.ConsoleAvailability, len(f.consoles)),
		dashboard:    make([]*model.DashboardRow, 0, len(f.dashboard)),
		accessCodes:  make(map[string]*model.AccessBookingCode, len(f.accessCodes)),
	}
	for id, b := range f.bookings {
		cp := *b
		s.bookings[id] = &cp
	}
	for _, t := range f.transactions {
		cp := *t
		s.transactions = append(s.transactions, &cp)
	}
	for id, sl := range f.slots {
		cp := *sl
		s.slots[id] = &cp
	}
	for id, ct := range f.consoleTypes {
		cp := *ct
		s.consoleTypes[id] = &cp
	}
	for _, e := range f.queue {
		cp := *e
		s.queue = append(s.queue, &cp)
	}
	for id, c := range f.consoles {
		cp := *c
		s.consoles[id] = &cp
	}
	for _, d := range f.dashboard {
		cp := *d
		s.dashboard = append(s.dashboard, &cp)
	}
	for code, ac := range f.accessCodes {
		cp := *ac
		s.accessCodes[code] = &cp
	}
	return s
}

func (f *fakeStore) restore(s fakeSnapshot) {
	f.bookings = s.bookings
	f.transactions = s.transactions
	f.slots = s.slots
	f.consoleTypes = s.consoleTypes
	f.daySlots = s.daySlots
	f.queue = s.queue
	f.nextQueueID = s.nextQueueID
	f.consoles = s.consoles
	f.dashboard = s.dashboard
	f.accessCodes = s.accessCodes
}

func (f *fakeStore) Atomic(ctx context.Context, fn func(Store) error) error {
	f.txMu.Lock()
	defer f.txMu.Unlock()

	f.mu.Lock()
	snap := f.snapshot()
	f.mu.Unlock()

	if err := fn(f); err != nil {
		f.mu.Lock()
		f.restore(snap)
		f.mu.Unlock()
		return err
	}
	return nil
}

func (f *fakeStore) BookingByID(ctx context.Context, id int64) (*model.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	b, ok := f.bookings[id]
	if !ok {
		return nil, nil
	}
	cp := *b
	return &cp, nil
}

func (f *fakeStore) BookingsByIDs(ctx context.Context, ids []int64) ([]*model.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*model.Booking
	for _, id := range ids {
		if b, ok := f.bookings[id]; ok {
			cp := *b
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeStore) BookingsForClaim(ctx context.Context, slotIDs []int64, userID, gameID int64) ([]*model.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	inWindow := make(map[int64]struct{}, len(slotIDs))
	for _, id := range slotIDs {
		inWindow[id] = struct{}{}
	}
	var out []*model.Booking
	for _, b := range f.bookings {
		if _, ok := inWindow[b.SlotID]; !ok {
			continue
		}
		if b.UserID != userID || b.ConsoleTypeID != gameID || b.Status != model.BookingStatusConfirmed {
			continue
		}
		cp := *b
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeStore) TransactionsForDay(ctx context.Context, userID, vendorID int64, day time.Time) ([]*model.Transaction, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*model.Transaction
	for _, t := range f.transactions {
		if t.UserID != userID || t.VendorID != vendorID {
			continue
		}
		ty, tm, td := t.BookedDate.Date()
		dy, dm, dd := day.Date()
		if ty != dy || tm != dm || td != dd {
			continue
		}
		cp := *t
		out = append(out, &cp)
	}
	return out, nil
}

func (f *fakeStore) SlotsByIDs(ctx context.Context, ids []int64) ([]*model.Slot, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*model.Slot
	for _, id := range ids {
		if s, ok := f.slots[id]; ok {
			cp := *s
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartTime.Before(out[j].StartTime) })
	return out, nil
}

func (f *fakeStore) DaySlotIDsInWindow(ctx context.Context, vendorID int64, day, start, end time.Time) ([]int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []int64
	for _, ds := range f.daySlots {
		if ds.VendorID != vendorID || !ds.Date.Equal(day) {
			continue
		}
		slot, ok := f.slots[ds.SlotID]
		if !ok {
			continue
		}
		if !slot.StartOn(day).Before(start) && !slot.EndOn(day).After(end) {
			out = append(out, ds.SlotID)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out, nil
}

func (f *fakeStore) RegenerateDaySlots(ctx context.Context, vendorID int64, day time.Time) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	kept := f.daySlots[:0]
	for _, ds := range f.daySlots {
		if ds.VendorID == vendorID && ds.Date.Equal(day) {
			continue
		}
		kept = append(kept, ds)
	}
	f.daySlots = kept

	var inserted int64
	for _, s := range f.slots {
		ct, ok := f.consoleTypes[s.ConsoleTypeID]
		if !ok || ct.VendorID != vendorID || !s.IsTemplateActive {
			continue
		}
		f.daySlots = append(f.daySlots, fakeDaySlot{VendorID: vendorID, SlotID: s.ID, Date: day})
		inserted++
	}
	return inserted, nil
}

func (f *fakeStore) VendorIDs(ctx context.Context) ([]int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	seen := make(map[int64]struct{})
	var out []int64
	for _, ct := range f.consoleTypes {
		if _, ok := seen[ct.VendorID]; ok {
			continue
		}
		seen[ct.VendorID] = struct{}{}
		out = append(out, ct.VendorID)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out, nil
}

func (f *fakeStore) QueuedEntry(ctx context.Context, bookingID, consoleID int64) (*model.QueueEntry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, e := range f.queue {
		if e.BookingID != nil && *e.BookingID == bookingID && e.ConsoleID == consoleID && e.Status == model.QueueStatusQueued {
			cp := *e
			return &cp, nil
		}
	}
	return nil, nil
}

func (f *fakeStore) CreateQueueEntry(ctx context.Context, entry *model.QueueEntry) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	entry.ID = f.nextQueueID
	f.nextQueueID++
	entry.CreatedAt = time.Now()
	cp := *entry
	f.queue = append(f.queue, &cp)
	return nil
}

func (f *fakeStore) ClaimOldestQueued(ctx context.Context, consoleID int64, now time.Time) (*model.QueueEntry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var oldest *model.QueueEntry
	for _, e := range f.queue {
		if e.ConsoleID != consoleID || e.Status != model.QueueStatusQueued {
			continue
		}
		if oldest == nil || e.ID < oldest.ID {
			oldest = e
		}
	}
	if oldest == nil {
		return nil, nil
	}

	// The returned entry keeps the original merged window; the stored row is
	// stamped with the claim time.
	claimed := *oldest
	claimed.Status = model.QueueStatusStarted
	oldest.Status = model.QueueStatusStarted
	oldest.StartTime = now
	return &claimed, nil
}

func (f *fakeStore) ActiveEntryForConsole(ctx context.Context, consoleID int64) (*model.QueueEntry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var latest *model.QueueEntry
	for _, e := range f.queue {
		if e.ConsoleID != consoleID || e.Status != model.QueueStatusStarted {
			continue
		}
		if latest == nil || e.ID > latest.ID {
			latest = e
		}
	}
	if latest == nil {
		return nil, nil
	}
	cp := *latest
	return &cp, nil
}

func (f *fakeStore) CompleteEntry(ctx context.Context, id int64, now time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, e := range f.queue {
		if e.ID == id && e.Status == model.QueueStatusStarted {
			e.Status = model.QueueStatusCompleted
			e.EndTime = now
			return nil
		}
	}
	return fmt.Errorf("queue entry %d is not started", id)
}

func (f *fakeStore) ConsoleForUpdate(ctx context.Context, vendorID, consoleID, gameID int64) (*model.ConsoleAvailability, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.consoles[consoleID]
	if !ok || c.VendorID != vendorID || c.GameID != gameID {
		return nil, nil
	}
	cp := *c
	return &cp, nil
}

func (f *fakeStore) MarkConsoleUnavailable(ctx context.Context, vendorID, consoleID, gameID int64) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.consoles[consoleID]
	if !ok || c.VendorID != vendorID || c.GameID != gameID || !c.IsAvailable {
		return false, nil
	}
	c.IsAvailable = false
	return true, nil
}

func (f *fakeStore) MarkConsoleAvailable(ctx context.Context, vendorID, consoleID int64) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.consoles[consoleID]
	if !ok || c.VendorID != vendorID || c.IsAvailable {
		return false, nil
	}
	c.IsAvailable = true
	return true, nil
}

func (f *fakeStore) ConsoleSnapshot(ctx context.Context, vendorID int64) ([]*model.ConsoleAvailability, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*model.ConsoleAvailability
	for _, c := range f.consoles {
		if c.VendorID != vendorID {
			continue
		}
		cp := *c
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ConsoleID < out[j].ConsoleID })
	return out, nil
}

func (f *fakeStore) MarkDashboardCurrent(ctx context.Context, vendorID int64, bookingIDs []int64, consoleID int64) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	target := make(map[int64]struct{}, len(bookingIDs))
	for _, id := range bookingIDs {
		target[id] = struct{}{}
	}
	var updated int64
	for _, d := range f.dashboard {
		if d.VendorID != vendorID || d.BookStatus != model.BookStatusUpcoming {
			continue
		}
		if _, ok := target[d.BookingID]; !ok {
			continue
		}
		id := consoleID
		d.BookStatus = model.BookStatusCurrent
		d.ConsoleID = &id
		updated++
	}
	return updated, nil
}

func (f *fakeStore) MarkDashboardCompleted(ctx context.Context, vendorID, consoleID int64) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var updated int64
	for _, d := range f.dashboard {
		if d.VendorID != vendorID || d.BookStatus != model.BookStatusCurrent {
			continue
		}
		if d.ConsoleID == nil || *d.ConsoleID != consoleID {
			continue
		}
		d.BookStatus = model.BookStatusCompleted
		updated++
	}
	return updated, nil
}

func (f *fakeStore) CreateAccessCode(ctx context.Context, bookingID int64) (*model.AccessBookingCode, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	ac := &model.AccessBookingCode{
		ID:         int64(len(f.accessCodes) + 1),
		BookingID:  bookingID,
		AccessCode: fmt.Sprintf("code-%d", bookingID),
	}
	f.accessCodes[ac.AccessCode] = ac
	return ac, nil
}

func (f *fakeStore) AccessCodeByCode(ctx context.Context, code string) (*model.AccessBookingCode, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	ac, ok := f.accessCodes[code]
	if !ok {
		return nil, nil
	}
	cp := *ac
	return &cp, nil
}

// queueEntryByID reads the stored row directly, bypassing the Store surface.
func (f *fakeStore) queueEntryByID(id int64) *model.QueueEntry {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, e := range f.queue {
		if e.ID == id {
			cp := *e
			return &cp
		}
	}
	return nil
}

func (f *fakeStore) queueLen() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.queue)
}

// fakeNotifier records unlock signals.
type fakeNotifier struct {
	mu    sync.Mutex
	calls []unlockCall
}

type unlockCall struct {
	BookingID int64
	ConsoleID int64
	Start     time.Time
	End       time.Time
}

func (n *fakeNotifier) NotifyUnlock(bookingID, consoleID int64, start, end time.Time) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.calls = append(n.calls, unlockCall{BookingID: bookingID, ConsoleID: consoleID, Start: start, End: end})
}

func (n *fakeNotifier) callCount() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.calls)
}

// fakeCache records invalidations and serves a canned snapshot when primed.
type fakeCache struct {
	mu          sync.Mutex
	snapshot    []*model.ConsoleAvailability
	sets        int
	invalidated []int64
}

func (c *fakeCache) Get(ctx context.Context, vendorID int64) ([]*model.ConsoleAvailability, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.snapshot == nil {
		return nil, false
	}
	return c.snapshot, true
}

func (c *fakeCache) Set(ctx context.Context, vendorID int64, consoles []*model.ConsoleAvailability) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sets++
}

func (c *fakeCache) Invalidate(ctx context.Context, vendorID int64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.invalidated = append(c.invalidated, vendorID)
}
