package service

import (
	"time"

	"github.com/Hashforgamers/hfg-booking/internal/model"
)

// Block is a maximal run of back-to-back slots treated as one continuous
// reservation window, anchored to a calendar date.
type Block struct {
	Start time.Time
	End   time.Time
}

// MergeDaySlots coalesces slots into maximal contiguous blocks on the given
// date. The input must already be ordered by start time; a new block begins
// whenever a slot's start differs from the previous slot's end (exact
// equality, no tolerance).
func MergeDaySlots(slots []*model.Slot, day time.Time) []Block {
	var blocks []Block

	for _, slot := range slots {
		start := slot.StartOn(day)
		end := slot.EndOn(day)

		if n := len(blocks); n > 0 && start.Equal(blocks[n-1].End) {
			blocks[n-1].End = end
			continue
		}
		blocks = append(blocks, Block{Start: start, End: end})
	}

	return blocks
}

// ActiveBlock returns the first block whose [Start, End+grace] window
// contains now. The grace period extends only the trailing edge: a block that
// has not started yet is never active.
func ActiveBlock(blocks []Block, now time.Time, grace time.Duration) (Block, bool) {
	for _, b := range blocks {
		if !now.Before(b.Start) && !now.After(b.End.Add(grace)) {
			return b, true
		}
	}
	return Block{}, false
}
