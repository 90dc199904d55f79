package service

import (
	"context"
	"fmt"
	"time"

	"github.com/Hashforgamers/hfg-booking/internal/clock"
	"go.uber.org/zap"
)

// DaySlotService maintains the per-vendor day-slot materialization: a rolling
// window of dates (default 180 days) expanded from the slot templates.
type DaySlotService struct {
	store      Store
	clock      clock.Clock
	windowDays int
	logger     *zap.Logger
}

func NewDaySlotService(store Store, clk clock.Clock, windowDays int, logger *zap.Logger) *DaySlotService {
	return &DaySlotService{
		store:      store,
		clock:      clk,
		windowDays: windowDays,
		logger:     logger,
	}
}

// RegenerateDate rebuilds the vendor's day-slot rows for one date: wholesale
// delete, then reinsert from the active slot templates. Used when a vendor
// edits its daily schedule.
func (s *DaySlotService) RegenerateDate(ctx context.Context, vendorID int64, day time.Time) (int64, error) {
	var rows int64
	err := s.store.Atomic(ctx, func(tx Store) error {
		var err error
		rows, err = tx.RegenerateDaySlots(ctx, vendorID, dateOf(day))
		return err
	})
	if err != nil {
		return 0, fmt.Errorf("regenerate day slots: %w", err)
	}

	s.logger.Info("day slots regenerated",
		zap.Int64("vendor_id", vendorID),
		zap.Time("date", dateOf(day)),
		zap.Int64("rows", rows),
	)

	return rows, nil
}

// ExtendRollingWindow materializes the furthest date of the rolling window
// for every vendor. Run daily by the scheduler so the window never shrinks.
func (s *DaySlotService) ExtendRollingWindow(ctx context.Context) error {
	horizon := dateOf(s.clock.Now()).AddDate(0, 0, s.windowDays-1)

	vendorIDs, err := s.store.VendorIDs(ctx)
	if err != nil {
		return fmt.Errorf("list vendors: %w", err)
	}

	for _, vendorID := range vendorIDs {
		if _, err := s.RegenerateDate(ctx, vendorID, horizon); err != nil {
			// One vendor failing must not starve the rest.
			s.logger.Error("failed to extend day-slot window",
				zap.Int64("vendor_id", vendorID),
				zap.Error(err),
			)
		}
	}

	return nil
}
