package handlers

import (
	"net/http"

	paymentSvc "safarihub/services/payment"
	"safarihub/utils"

	"github.com/gin-gonic/gin"
)

// PaymentHandler exposes the payment initiation and status endpoints.
type PaymentHandler struct {
	PaymentService paymentSvc.PaymentService
}

// InitiateStripeHandler handles POST /api/payments/stripe.
func (h *PaymentHandler) InitiateStripeHandler(c *gin.Context) {
	userID, ok := contextUserID(c)
	if !ok {
		return
	}

	var req struct {
		BookingID string `json:"booking_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	result, err := h.PaymentService.InitiateStripe(c.Request.Context(), userID, req.BookingID)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// InitiateMpesaHandler handles POST /api/payments/mpesa.
func (h *PaymentHandler) InitiateMpesaHandler(c *gin.Context) {
	userID, ok := contextUserID(c)
	if !ok {
		return
	}

	var req struct {
		BookingID string  `json:"booking_id" binding:"required"`
		Phone     string  `json:"phone" binding:"required"`
		Amount    float64 `json:"amount" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	result, err := h.PaymentService.InitiateMpesa(c.Request.Context(), userID, req.BookingID, req.Phone, req.Amount)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// PaymentStatusHandler handles GET /api/payments/:bookingID/status.
func (h *PaymentHandler) PaymentStatusHandler(c *gin.Context) {
	userID, ok := contextUserID(c)
	if !ok {
		return
	}

	status, err := h.PaymentService.GetStatus(c.Request.Context(), userID, contextIsAdmin(c), c.Param("bookingID"))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, status)
}
