// Package payments turns completed checkout sessions into brand claims.
// The gateway seam keeps the Stripe SDK at the edge; the processor only
// sees verified events.
package payments

import "context"

// Event types the processor reacts to. Everything else is acknowledged
// and dropped.
const EventCheckoutCompleted = "checkout.session.completed"

// CheckoutInfo is the slice of a completed checkout session the claim
// flow needs.
type CheckoutInfo struct {
	SessionID       string
	PaymentIntentID string
	AmountTotal     int64
	Currency        string
	Metadata        map[string]string
}

// WebhookEvent is a signature-verified gateway event.
type WebhookEvent struct {
	Type     string
	Checkout *CheckoutInfo
}

// CheckoutParams describes the brand claim being purchased.
type CheckoutParams struct {
	BrandID   string
	BrandName string
	UserID    string
}

// CheckoutSession is a freshly created gateway session the client is
// redirected to.
type CheckoutSession struct {
	ID  string
	URL string
}

// Gateway is the payment provider surface.
type Gateway interface {
	// VerifyWebhook authenticates a raw webhook delivery and decodes it.
	// A verification failure means the payload cannot be trusted and
	// must never be retried.
	VerifyWebhook(payload []byte, signature string) (*WebhookEvent, error)

	// CreateCheckoutSession opens a checkout for a brand claim.
	CreateCheckoutSession(ctx context.Context, params CheckoutParams) (*CheckoutSession, error)
}
