package handlers

import (
	"net/http"
	"time"

	"safarihub/models"
	bookingSvc "safarihub/services/booking"
	"safarihub/utils"

	"github.com/gin-gonic/gin"
)

// BookingHandler exposes the booking lifecycle endpoints.
type BookingHandler struct {
	BookingService bookingSvc.BookingService
}

// CreateFromCartHandler handles POST /api/bookings/checkout.
func (h *BookingHandler) CreateFromCartHandler(c *gin.Context) {
	userID, ok := contextUserID(c)
	if !ok {
		return
	}

	var req struct {
		Contact models.ContactInfo `json:"contact"`
		Notes   string             `json:"notes"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	booking, err := h.BookingService.CreateFromCart(userID, req.Contact, req.Notes)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, booking)
}

// CreateSingleHandler handles POST /api/bookings. Books one service directly
// without going through the cart.
func (h *BookingHandler) CreateSingleHandler(c *gin.Context) {
	userID, ok := contextUserID(c)
	if !ok {
		return
	}

	var req struct {
		ServiceID       string             `json:"service_id" binding:"required"`
		StartDate       time.Time          `json:"start_date" binding:"required"`
		EndDate         time.Time          `json:"end_date" binding:"required"`
		Participants    int                `json:"participants"`
		Contact         models.ContactInfo `json:"contact"`
		SpecialRequests string             `json:"special_requests"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}
	if req.Participants == 0 {
		req.Participants = 1
	}

	booking, err := h.BookingService.CreateFromSingleService(userID, bookingSvc.SingleServiceInput{
		ServiceID:       req.ServiceID,
		StartDate:       req.StartDate,
		EndDate:         req.EndDate,
		Participants:    req.Participants,
		Contact:         req.Contact,
		SpecialRequests: req.SpecialRequests,
	})
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, booking)
}

// ListBookingsHandler handles GET /api/bookings.
func (h *BookingHandler) ListBookingsHandler(c *gin.Context) {
	userID, ok := contextUserID(c)
	if !ok {
		return
	}
	bookings, err := h.BookingService.ListForUser(userID)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, bookings)
}

// GetBookingHandler handles GET /api/bookings/:id.
func (h *BookingHandler) GetBookingHandler(c *gin.Context) {
	userID, ok := contextUserID(c)
	if !ok {
		return
	}
	booking, err := h.BookingService.GetByID(userID, contextIsAdmin(c), c.Param("id"))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, booking)
}

// CancelBookingHandler handles POST /api/bookings/:id/cancel.
func (h *BookingHandler) CancelBookingHandler(c *gin.Context) {
	userID, ok := contextUserID(c)
	if !ok {
		return
	}

	var req struct {
		Reason string `json:"reason"`
	}
	// Body is optional; a bare cancel carries no reason.
	_ = c.ShouldBindJSON(&req)

	result, err := h.BookingService.Cancel(c.Param("id"), userID, contextIsAdmin(c), req.Reason)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}
