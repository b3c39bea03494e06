package payment

import (
	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/paymentintent"
)

// LiveStripeGateway calls the Stripe API via stripe-go. The package-level
// stripe.Key must be set before use.
type LiveStripeGateway struct{}

func (LiveStripeGateway) CreateIntent(amountMinor int64, currency, bookingID string) (*stripe.PaymentIntent, error) {
	params := &stripe.PaymentIntentParams{
		Amount:   stripe.Int64(amountMinor),
		Currency: stripe.String(currency),
		AutomaticPaymentMethods: &stripe.PaymentIntentAutomaticPaymentMethodsParams{
			Enabled: stripe.Bool(true),
		},
	}
	params.AddMetadata("booking_id", bookingID)
	return paymentintent.New(params)
}

func (LiveStripeGateway) GetIntent(intentID string) (*stripe.PaymentIntent, error) {
	return paymentintent.Get(intentID, nil)
}
