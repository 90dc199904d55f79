// Package notifier posts the advisory unlock signal to the device-control
// service. Delivery is best-effort: the booking queue stays the source of
// truth and a missed unlock is recovered through the normal poll path.
package notifier

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/Hashforgamers/hfg-booking/internal/monitoring"
	"go.uber.org/zap"
)

// UnlockRequest is the wire payload consumed by the device-control service.
type UnlockRequest struct {
	ConsoleID int64  `json:"console_id"`
	BookingID int64  `json:"booking_id"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
}

type Client struct {
	endpoint string
	client   *http.Client
	logger   *zap.Logger
}

func New(endpoint string, timeout time.Duration, logger *zap.Logger) *Client {
	return &Client{
		endpoint: endpoint,
		client:   &http.Client{Timeout: timeout},
		logger:   logger,
	}
}

// NotifyUnlock fires the unlock signal on a detached goroutine. Failures are
// logged and counted, never surfaced; the caller has already committed.
func (c *Client) NotifyUnlock(bookingID, consoleID int64, start, end time.Time) {
	go func() {
		if err := c.Send(context.Background(), bookingID, consoleID, start, end); err != nil {
			c.logger.Warn("unlock notification failed",
				zap.Int64("booking_id", bookingID),
				zap.Int64("console_id", consoleID),
				zap.Error(err),
			)
		}
	}()
}

// Send posts one unlock request. The idempotency key is deterministic over
// (booking, console) so the device-control side can drop duplicates.
func (c *Client) Send(ctx context.Context, bookingID, consoleID int64, start, end time.Time) error {
	began := time.Now()

	payload := UnlockRequest{
		ConsoleID: consoleID,
		BookingID: bookingID,
		StartTime: start.UTC().Format(time.RFC3339),
		EndTime:   end.UTC().Format(time.RFC3339),
	}

	body, err := json.Marshal(payload)
	if err != nil {
		monitoring.RecordUnlock("failed", time.Since(began).Seconds())
		return fmt.Errorf("marshal unlock request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		monitoring.RecordUnlock("failed", time.Since(began).Seconds())
		return fmt.Errorf("build unlock request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Idempotency-Key", fmt.Sprintf("%d:%d", bookingID, consoleID))

	resp, err := c.client.Do(req)
	if err != nil {
		monitoring.RecordUnlock("failed", time.Since(began).Seconds())
		return fmt.Errorf("post unlock: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		monitoring.RecordUnlock("failed", time.Since(began).Seconds())
		return fmt.Errorf("unlock endpoint returned %d", resp.StatusCode)
	}

	monitoring.RecordUnlock("sent", time.Since(began).Seconds())
	c.logger.Debug("unlock notification sent",
		zap.Int64("booking_id", bookingID),
		zap.Int64("console_id", consoleID),
	)

	return nil
}
