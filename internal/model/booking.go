package model

import "time"

type BookingStatus string

const (
	BookingStatusPendingVerified BookingStatus = "pending_verified"
	BookingStatusConfirmed       BookingStatus = "confirmed"
	BookingStatusCanceled        BookingStatus = "canceled"
)

// Booking is a confirmed reservation of one slot by one user. Read-only after
// creation except for status.
type Booking struct {
	ID            int64         `json:"id"`
	UserID        int64         `json:"user_id"`
	ConsoleTypeID int64         `json:"console_type_id"`
	SlotID        int64         `json:"slot_id"`
	Status        BookingStatus `json:"status"`

	// Joined for convenience, not stored on the row.
	Slot *Slot `json:"slot,omitempty"`
}

// Transaction is the day's payment record tying a booking to a vendor. The
// engine only reads it to find "today's bookings for this user at this
// vendor"; the ledger fields live in the commerce service.
type Transaction struct {
	ID         int64     `json:"id"`
	BookingID  int64     `json:"booking_id"`
	VendorID   int64     `json:"vendor_id"`
	UserID     int64     `json:"user_id"`
	BookedDate time.Time `json:"booked_date"`
}
