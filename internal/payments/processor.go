package payments

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"github.com/zeeverify/backend/internal/apperrors"
	"github.com/zeeverify/backend/internal/models"
	"github.com/zeeverify/backend/internal/notify"
)

// PaymentStore persists claim payments.
type PaymentStore interface {
	ProcessClaim(payment *models.Payment) (created bool, err error)
}

type BrandStore interface {
	GetByID(id uuid.UUID) (*models.Brand, error)
}

type UserStore interface {
	GetByID(id uuid.UUID) (*models.User, error)
}

// ClaimNotifier confirms a claim to its new owner. Best effort.
type ClaimNotifier interface {
	BrandClaimed(payload notify.BrandClaimedPayload)
}

// Processor consumes verified gateway events and applies the brand
// claim they describe. Error classification matters here: a permanent
// error tells the gateway to stop redelivering, a retryable one invites
// another attempt.
type Processor struct {
	gateway  Gateway
	payments PaymentStore
	brands   BrandStore
	users    UserStore
	notifier ClaimNotifier
	logger   *slog.Logger
}

func NewProcessor(
	gateway Gateway,
	payments PaymentStore,
	brands BrandStore,
	users UserStore,
	notifier ClaimNotifier,
	logger *slog.Logger,
) *Processor {
	return &Processor{
		gateway:  gateway,
		payments: payments,
		brands:   brands,
		users:    users,
		notifier: notifier,
		logger:   logger,
	}
}

// HandleWebhook verifies and applies one raw webhook delivery.
//
// Redelivery of an already processed session is a success no-op; the
// unique session constraint in storage makes the whole path idempotent
// no matter how many times the gateway fires.
func (p *Processor) HandleWebhook(payload []byte, signature string) error {
	event, err := p.gateway.VerifyWebhook(payload, signature)
	if err != nil {
		return apperrors.InvalidInput("webhook verification failed")
	}

	if event.Type != EventCheckoutCompleted {
		p.logger.Debug("ignoring webhook event", "type", event.Type)
		return nil
	}

	checkout := event.Checkout
	if checkout == nil || checkout.SessionID == "" {
		return apperrors.InvalidInput("event carries no checkout session")
	}

	brandID, err := uuid.Parse(checkout.Metadata["brandId"])
	if err != nil {
		return apperrors.InvalidInput("checkout metadata is missing a valid brandId")
	}
	userID, err := uuid.Parse(checkout.Metadata["userId"])
	if err != nil {
		return apperrors.InvalidInput("checkout metadata is missing a valid userId")
	}

	payment := &models.Payment{
		UserID:          userID,
		BrandID:         brandID,
		StripeSessionID: checkout.SessionID,
		StripeIntentID:  checkout.PaymentIntentID,
		Amount:          checkout.AmountTotal,
		Currency:        checkout.Currency,
		Status:          models.PaymentStatusCompleted,
	}

	created, err := p.payments.ProcessClaim(payment)
	if err != nil {
		return err
	}
	if !created {
		p.logger.Info("webhook replay ignored", "session_id", checkout.SessionID)
		return nil
	}

	p.logger.Info("brand claimed",
		"brand_id", brandID,
		"user_id", userID,
		"session_id", checkout.SessionID,
		"amount", payment.Amount,
	)

	p.notifyOwner(payment)
	return nil
}

func (p *Processor) notifyOwner(payment *models.Payment) {
	owner, err := p.users.GetByID(payment.UserID)
	if err != nil {
		p.logger.Warn("skipping claim confirmation, owner lookup failed",
			"user_id", payment.UserID, "error", err)
		return
	}
	brand, err := p.brands.GetByID(payment.BrandID)
	if err != nil {
		p.logger.Warn("skipping claim confirmation, brand lookup failed",
			"brand_id", payment.BrandID, "error", err)
		return
	}

	p.notifier.BrandClaimed(notify.BrandClaimedPayload{
		BrandID:    brand.ID,
		BrandName:  brand.Name,
		OwnerEmail: owner.Email,
		OwnerName:  owner.FirstName,
		Amount:     payment.Amount,
		Currency:   payment.Currency,
	})
}

// CreateClaimCheckout opens a checkout session for an unclaimed brand.
// Only franchisor accounts may claim, and a claimed brand cannot be
// claimed again.
func (p *Processor) CreateClaimCheckout(ctx context.Context, brandID, userID uuid.UUID, role string) (*CheckoutSession, error) {
	if role != models.RoleFranchisor && role != models.RoleAdmin {
		return nil, apperrors.Forbidden("only franchisor accounts can claim a brand")
	}

	brand, err := p.brands.GetByID(brandID)
	if err != nil {
		return nil, err
	}
	if brand.IsClaimed {
		return nil, apperrors.IllegalState("brand is already claimed")
	}

	return p.gateway.CreateCheckoutSession(ctx, CheckoutParams{
		BrandID:   brand.ID.String(),
		BrandName: brand.Name,
		UserID:    userID.String(),
	})
}
