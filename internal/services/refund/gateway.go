package refund

import (
	"context"
	"fmt"
	"math"

	"github.com/stripe/stripe-go/v72"
	stripeRefund "github.com/stripe/stripe-go/v72/refund"
)

// Gateway returns refund money to the payment instrument. Entries whose
// payment has no external charge use the noop gateway; the amount stays as
// an internal credit.
type Gateway interface {
	Refund(ctx context.Context, chargeID string, amount float64) error
}

// StripeGateway refunds card-funded fees through Stripe.
type StripeGateway struct{}

// NewStripeGateway creates a gateway using the globally configured key.
func NewStripeGateway(apiKey string) *StripeGateway {
	stripe.Key = apiKey
	return &StripeGateway{}
}

func (g *StripeGateway) Refund(_ context.Context, chargeID string, amount float64) error {
	params := &stripe.RefundParams{
		Charge: stripe.String(chargeID),
		Amount: stripe.Int64(int64(math.Round(amount * 100))),
	}
	if _, err := stripeRefund.New(params); err != nil {
		return fmt.Errorf("%w: %v", ErrGatewayFailed, err)
	}
	return nil
}

// NoopGateway is used when contributions are not card funded.
type NoopGateway struct{}

func (NoopGateway) Refund(context.Context, string, float64) error { return nil }
