package model

import "time"

type QueueStatus string

const (
	QueueStatusQueued    QueueStatus = "queued"
	QueueStatusStarted   QueueStatus = "started"
	QueueStatusCompleted QueueStatus = "completed"
)

// QueueEntry tracks one claim attempt from submission through console
// assignment. Rows are never deleted; they are the audit trail. StartTime and
// EndTime hold the merged block window, not a single slot's window. BookingID
// and UserID are pointers because an access-code unlock carries neither.
type QueueEntry struct {
	ID        int64       `json:"id"`
	BookingID *int64      `json:"booking_id"`
	ConsoleID int64       `json:"console_id"`
	GameID    int64       `json:"game_id"`
	VendorID  int64       `json:"vendor_id"`
	UserID    *int64      `json:"user_id"`
	Status    QueueStatus `json:"status"`
	StartTime time.Time   `json:"start_time"`
	EndTime   time.Time   `json:"end_time"`
	CreatedAt time.Time   `json:"created_at"`
}
