package model

import "time"

// Slot is an immutable per-console-type time-of-day template. StartTime and
// EndTime carry only the time of day; callers anchor them to a calendar date.
type Slot struct {
	ID               int64     `json:"id"`
	ConsoleTypeID    int64     `json:"console_type_id"`
	StartTime        time.Time `json:"start_time"`
	EndTime          time.Time `json:"end_time"`
	Capacity         int       `json:"capacity"`
	IsTemplateActive bool      `json:"is_template_active"`
}

// StartOn anchors the slot's start time to the given calendar date.
func (s *Slot) StartOn(day time.Time) time.Time {
	return combine(day, s.StartTime)
}

// EndOn anchors the slot's end time to the given calendar date.
func (s *Slot) EndOn(day time.Time) time.Time {
	return combine(day, s.EndTime)
}

func combine(day, tod time.Time) time.Time {
	return time.Date(day.Year(), day.Month(), day.Day(),
		tod.Hour(), tod.Minute(), tod.Second(), 0, day.Location())
}

// ConsoleType is a vendor-scoped console category (PC, PS5, VR rig) that slot
// templates hang off. The global game catalog is out of this service's scope.
type ConsoleType struct {
	ID         int64  `json:"id"`
	VendorID   int64  `json:"vendor_id"`
	Name       string `json:"name"`
	TotalUnits int    `json:"total_units"`
}

// VendorDaySlot is the per-vendor, per-date materialization of a slot
// template, keyed by (vendor_id, date, slot_id).
type VendorDaySlot struct {
	VendorID          int64     `json:"vendor_id"`
	Date              time.Time `json:"date"`
	SlotID            int64     `json:"slot_id"`
	IsAvailable       bool      `json:"is_available"`
	RemainingCapacity int       `json:"remaining_capacity"`
}
