package service

import "errors"

var (
	// ErrNotFound covers absent bookings, transactions, slots and dashboard
	// rows. Terminal; the client should not retry.
	ErrNotFound = errors.New("record not found")

	// ErrConsoleNotFound means no availability row exists for the console.
	ErrConsoleNotFound = errors.New("console not found")

	// ErrNoActiveBlock means none of today's merged blocks contains "now",
	// even with the grace period applied.
	ErrNoActiveBlock = errors.New("no active booking block")

	// ErrConsoleInUse means the console's availability gate was already
	// claimed. Terminal for this attempt; a different console may work.
	ErrConsoleInUse = errors.New("console already in use")

	// ErrInvalidAccessCode means the access code resolves to no booking.
	ErrInvalidAccessCode = errors.New("invalid access code")
)
