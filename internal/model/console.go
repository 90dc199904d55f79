package model

// ConsoleAvailability is the per-vendor claim gate for one physical unit,
// keyed by (vendor_id, console_id). IsAvailable flips to false exactly once
// per successful claim and is reset by the release path.
type ConsoleAvailability struct {
	VendorID    int64 `json:"vendor_id"`
	ConsoleID   int64 `json:"console_id"`
	GameID      int64 `json:"game_id"`
	IsAvailable bool  `json:"is_available"`
}
