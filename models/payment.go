package models

import "time"

// Payment methods.
const (
	PaymentMethodStripe = "stripe"
	PaymentMethodMpesa  = "mpesa"
)

// Refund status values.
const (
	RefundStatusNone    = "none"
	RefundStatusPending = "pending"
)

// Payment is one attempt to collect funds for a booking. A retried attempt
// after failure creates a new record; terminal records are never reopened.
type Payment struct {
	ID                     string    `bson:"id" json:"id"`
	BookingID              string    `bson:"booking_id" json:"booking_id"`
	UserID                 string    `bson:"user_id" json:"user_id"`
	Amount                 float64   `bson:"amount" json:"amount"`
	Currency               string    `bson:"currency" json:"currency"`
	Method                 string    `bson:"method" json:"method"`
	Status                 string    `bson:"status" json:"status"`
	StripePaymentIntentID  string    `bson:"stripe_payment_intent_id,omitempty" json:"stripe_payment_intent_id,omitempty"`
	MpesaCheckoutRequestID string    `bson:"mpesa_checkout_request_id,omitempty" json:"mpesa_checkout_request_id,omitempty"`
	MpesaPhone             string    `bson:"mpesa_phone,omitempty" json:"mpesa_phone,omitempty"`
	TransactionID          string    `bson:"transaction_id,omitempty" json:"transaction_id,omitempty"` // Provider receipt, set on success only
	RefundStatus           string    `bson:"refund_status,omitempty" json:"refund_status,omitempty"`
	CreatedAt              time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt              time.Time `bson:"updated_at" json:"updated_at"`
}

// Terminal reports whether the payment reached a final state.
func (p *Payment) Terminal() bool {
	return p.Status == PaymentStatusCompleted || p.Status == PaymentStatusFailed
}

// MpesaCallback mirrors the Daraja STK push result payload.
type MpesaCallback struct {
	Body struct {
		StkCallback struct {
			MerchantRequestID string `json:"MerchantRequestID"`
			CheckoutRequestID string `json:"CheckoutRequestID"`
			ResultCode        int    `json:"ResultCode"`
			ResultDesc        string `json:"ResultDesc"`
			CallbackMetadata  struct {
				Item []MpesaCallbackItem `json:"Item"`
			} `json:"CallbackMetadata"`
		} `json:"stkCallback"`
	} `json:"Body"`
}

// MpesaCallbackItem is one metadata entry of a successful STK callback.
type MpesaCallbackItem struct {
	Name  string      `json:"Name"`
	Value interface{} `json:"Value,omitempty"`
}

// ReceiptNumber extracts the MpesaReceiptNumber from the callback metadata,
// or "" when absent.
func (cb *MpesaCallback) ReceiptNumber() string {
	for _, item := range cb.Body.StkCallback.CallbackMetadata.Item {
		if item.Name == "MpesaReceiptNumber" {
			if s, ok := item.Value.(string); ok {
				return s
			}
		}
	}
	return ""
}
