package service

import (
	"context"

	"odbyte/internal/cache"
	"odbyte/internal/models"
	"odbyte/internal/observability"
	"odbyte/internal/payment"
	"odbyte/internal/repository"

	"github.com/google/uuid"
)

// Upgrade pricing in paise. The annual interval carries two free months.
const (
	priceMonthly = 49900
	priceAnnual  = 499000
	currencyINR  = "INR"
)

type PaymentService struct {
	paymentRepo repository.PaymentRepository
	userRepo    repository.UserRepository
	gateway     payment.Gateway
}

// GatewayKeyID exposes the gateway's public key for checkout pages.
func (s *PaymentService) GatewayKeyID() string {
	return s.gateway.KeyID()
}

// OrderDetails is what the checkout page needs to open the gateway widget.
type OrderDetails struct {
	OrderID  string `json:"order_id"`
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
	KeyID    string `json:"key_id"`
}

type CompletePaymentInput struct {
	UserID    uint
	OrderID   string
	PaymentID string
	Signature string
}

// pendingOrder is stashed in Redis between order creation and the gateway
// callback so the callback can bind the payment to the right user and
// amount.
type pendingOrder struct {
	UserID   uint   `json:"user_id"`
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
}

func NewPaymentService(
	paymentRepo repository.PaymentRepository,
	userRepo repository.UserRepository,
	gateway payment.Gateway,
) *PaymentService {
	return &PaymentService{
		paymentRepo: paymentRepo,
		userRepo:    userRepo,
		gateway:     gateway,
	}
}

// CreateOrder registers an upgrade order with the gateway. interval is
// "monthly" or "annual".
func (s *PaymentService) CreateOrder(ctx context.Context, userID uint, interval string) (*OrderDetails, error) {
	var amount int64
	switch interval {
	case "monthly":
		amount = priceMonthly
	case "annual":
		amount = priceAnnual
	default:
		return nil, models.NewValidationError("interval must be monthly or annual")
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if models.IsTopTier(user.Plan) {
		return nil, models.NewValidationError("You already have a top-tier plan")
	}

	receipt := "odbyte-" + uuid.NewString()
	orderID, err := s.gateway.CreateOrder(ctx, amount, currencyINR, receipt)
	if err != nil {
		return nil, models.NewInternalError(err)
	}

	// Best-effort stash; if it expires before the callback the payment is
	// still recorded, just with the amount missing.
	_ = cache.SetJSON(ctx, cache.OrderKey(orderID), pendingOrder{
		UserID:   userID,
		Amount:   amount,
		Currency: currencyINR,
	}, cache.OrderTTL)

	return &OrderDetails{
		OrderID:  orderID,
		Amount:   amount,
		Currency: currencyINR,
		KeyID:    s.gateway.KeyID(),
	}, nil
}

// Complete handles the gateway callback: the signature over the order and
// payment ids must verify before anything is written. On success the plan
// upgrade and the payment row land in one transaction.
func (s *PaymentService) Complete(ctx context.Context, in CompletePaymentInput) (*models.User, error) {
	if !s.gateway.VerifySignature(in.OrderID, in.PaymentID, in.Signature) {
		observability.PaymentVerifications.WithLabelValues("failure").Inc()
		return nil, models.NewPaymentVerificationError()
	}
	observability.PaymentVerifications.WithLabelValues("success").Inc()

	pay := &models.Payment{
		PaymentID: in.PaymentID,
		OrderID:   in.OrderID,
		Currency:  currencyINR,
		Status:    models.PaymentStatusSuccess,
		UserID:    in.UserID,
	}

	var pending pendingOrder
	if found, err := cache.GetJSON(ctx, cache.OrderKey(in.OrderID), &pending); err == nil && found {
		// An order created for one account cannot upgrade another.
		if pending.UserID != in.UserID {
			observability.PaymentVerifications.WithLabelValues("mismatch").Inc()
			return nil, models.NewPaymentVerificationError()
		}
		pay.Amount = pending.Amount
		pay.Currency = pending.Currency
	}

	if err := s.paymentRepo.RecordUpgrade(ctx, pay, models.PlanPremium); err != nil {
		return nil, err
	}
	cache.Invalidate(ctx, cache.OrderKey(in.OrderID))

	return s.userRepo.GetByID(ctx, in.UserID)
}
