package model

// AccessBookingCode binds a single-use unlock code to a booking. The code is
// minted by the reservation flow; redeeming it is proof of intent, so the
// queue engine skips the block-merge and idempotency checks for it.
type AccessBookingCode struct {
	ID         int64  `json:"id"`
	BookingID  int64  `json:"booking_id"`
	AccessCode string `json:"access_code"`
}
