package rest

import (
	"net/http"
	"strconv"
	"time"

	"github.com/Hashforgamers/hfg-booking/internal/service"
	"github.com/gin-gonic/gin"
)

type VendorHandler struct {
	queue    *service.QueueService
	daySlots *service.DaySlotService
}

func NewVendorHandler(queue *service.QueueService, daySlots *service.DaySlotService) *VendorHandler {
	return &VendorHandler{queue: queue, daySlots: daySlots}
}

// GET /api/vendors/:vendorId/consoles
func (h *VendorHandler) ConsoleSnapshot(c *gin.Context) {
	vendorID, err := strconv.ParseInt(c.Param("vendorId"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"reason": "bad_request", "error": "invalid vendor id"})
		return
	}

	consoles, err := h.queue.ConsoleSnapshot(c.Request.Context(), vendorID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"consoles": consoles})
}

// POST /api/vendors/:vendorId/slots/regenerate
func (h *VendorHandler) RegenerateDaySlots(c *gin.Context) {
	vendorID, err := strconv.ParseInt(c.Param("vendorId"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"reason": "bad_request", "error": "invalid vendor id"})
		return
	}

	var in struct {
		Date string `json:"date" binding:"required"` // YYYY-MM-DD
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"reason": "bad_request", "error": err.Error()})
		return
	}

	day, err := time.Parse("2006-01-02", in.Date)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"reason": "bad_request", "error": "date must be YYYY-MM-DD"})
		return
	}

	rows, err := h.daySlots.RegenerateDate(c.Request.Context(), vendorID, day)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"rows": rows})
}
