package handlers

import (
	"io"
	"net/http"

	"safarihub/models"
	paymentSvc "safarihub/services/payment"
	"safarihub/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// WebhookHandler receives asynchronous payment results from the providers.
// These routes are unauthenticated; Stripe is verified by signature and
// M-Pesa by correlation ID.
type WebhookHandler struct {
	PaymentService paymentSvc.PaymentService
}

// maxWebhookBody caps the webhook payload read, per Stripe's guidance.
const maxWebhookBody = 65536

// StripeWebhookHandler handles POST /webhooks/stripe.
func (h *WebhookHandler) StripeWebhookHandler(c *gin.Context) {
	payload, err := io.ReadAll(io.LimitReader(c.Request.Body, maxWebhookBody))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to read payload"})
		return
	}

	err = h.PaymentService.HandleStripeWebhook(c.Request.Context(), payload, c.GetHeader("Stripe-Signature"))
	if err != nil && utils.CodeOf(err) != utils.CodeReconciliationSkipped {
		utils.GetLogger().Warn("Stripe webhook rejected", zap.Error(err))
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"received": true})
}

// MpesaCallbackHandler handles POST /webhooks/mpesa. Daraja expects a 200
// acknowledgement regardless of how we handled the result, otherwise it
// retries the callback.
func (h *WebhookHandler) MpesaCallbackHandler(c *gin.Context) {
	var cb models.MpesaCallback
	if err := c.ShouldBindJSON(&cb); err != nil {
		utils.GetLogger().Warn("Malformed M-Pesa callback", zap.Error(err))
		c.JSON(http.StatusOK, gin.H{"ResultCode": 0, "ResultDesc": "Accepted"})
		return
	}

	if err := h.PaymentService.HandleMpesaCallback(c.Request.Context(), &cb); err != nil &&
		utils.CodeOf(err) != utils.CodeReconciliationSkipped {
		utils.GetLogger().Error("M-Pesa callback processing failed", zap.Error(err))
	}
	c.JSON(http.StatusOK, gin.H{"ResultCode": 0, "ResultDesc": "Accepted"})
}
