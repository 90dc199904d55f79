package model

import "time"

type BookStatus string

const (
	BookStatusUpcoming  BookStatus = "upcoming"
	BookStatusCurrent   BookStatus = "current"
	BookStatusCompleted BookStatus = "completed"
)

// DashboardRow is one line on a vendor's live dashboard: an active
// booking-day-game tuple. ConsoleID stays nil until a claim assigns one.
type DashboardRow struct {
	ID         int64      `json:"id"`
	VendorID   int64      `json:"vendor_id"`
	BookingID  int64      `json:"booking_id"`
	GameID     int64      `json:"game_id"`
	UserID     int64      `json:"user_id"`
	Date       time.Time  `json:"date"`
	BookStatus BookStatus `json:"book_status"`
	ConsoleID  *int64     `json:"console_id"`
}
