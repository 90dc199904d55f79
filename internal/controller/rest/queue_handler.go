package rest

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/Hashforgamers/hfg-booking/internal/service"
	"github.com/gin-gonic/gin"
)

type QueueHandler struct {
	queue *service.QueueService
}

func NewQueueHandler(queue *service.QueueService) *QueueHandler {
	return &QueueHandler{queue: queue}
}

// POST /api/queue/enqueue
func (h *QueueHandler) Enqueue(c *gin.Context) {
	var in struct {
		BookingID int64 `json:"booking_id" binding:"required"`
		ConsoleID int64 `json:"console_id" binding:"required"`
		GameID    int64 `json:"game_id" binding:"required"`
		VendorID  int64 `json:"vendor_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"reason": "bad_request", "error": err.Error()})
		return
	}

	entry, err := h.queue.Enqueue(c.Request.Context(), in.BookingID, in.ConsoleID, in.GameID, in.VendorID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"entry": entry})
}

// POST /api/queue/poll
func (h *QueueHandler) Poll(c *gin.Context) {
	var in struct {
		ConsoleID int64 `json:"console_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"reason": "bad_request", "error": err.Error()})
		return
	}

	result, err := h.queue.PollAndClaim(c.Request.Context(), in.ConsoleID)
	if err != nil {
		respondError(c, err)
		return
	}
	if result == nil {
		// Nothing queued is a normal poll outcome, not an error.
		c.JSON(http.StatusOK, gin.H{"claimed": false})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"claimed":     true,
		"entry":       result.Entry,
		"booking_ids": result.BookingIDs,
	})
}

// POST /api/queue/access-code
func (h *QueueHandler) RedeemAccessCode(c *gin.Context) {
	var in struct {
		AccessCode string `json:"access_code" binding:"required"`
		ConsoleID  int64  `json:"console_id" binding:"required"`
		GameID     int64  `json:"game_id" binding:"required"`
		VendorID   int64  `json:"vendor_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"reason": "bad_request", "error": err.Error()})
		return
	}

	entry, err := h.queue.StartWithAccessCode(c.Request.Context(), in.AccessCode, in.ConsoleID, in.GameID, in.VendorID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"entry": entry})
}

// POST /api/bookings/:bookingId/access-code
func (h *QueueHandler) MintAccessCode(c *gin.Context) {
	bookingID, err := strconv.ParseInt(c.Param("bookingId"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"reason": "bad_request", "error": "invalid booking id"})
		return
	}

	code, err := h.queue.MintAccessCode(c.Request.Context(), bookingID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"access_code": code})
}

// POST /api/consoles/:consoleId/release
func (h *QueueHandler) Release(c *gin.Context) {
	consoleID, err := strconv.ParseInt(c.Param("consoleId"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"reason": "bad_request", "error": "invalid console id"})
		return
	}

	entry, err := h.queue.ReleaseConsole(c.Request.Context(), consoleID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"entry": entry})
}

// respondError maps the service error taxonomy to reason codes a client UI
// can branch on.
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrConsoleInUse):
		c.JSON(http.StatusConflict, gin.H{"reason": "console_in_use", "error": err.Error()})
	case errors.Is(err, service.ErrNoActiveBlock):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"reason": "no_active_block", "error": err.Error()})
	case errors.Is(err, service.ErrInvalidAccessCode):
		c.JSON(http.StatusNotFound, gin.H{"reason": "invalid_access_code", "error": err.Error()})
	case errors.Is(err, service.ErrConsoleNotFound):
		c.JSON(http.StatusNotFound, gin.H{"reason": "console_not_found", "error": err.Error()})
	case errors.Is(err, service.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"reason": "not_found", "error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"reason": "internal", "error": "internal error"})
	}
}
