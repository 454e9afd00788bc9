package service

import (
	"context"

	"inkwell/internal/gateway"
	"inkwell/internal/models"
	"inkwell/internal/observability"
	"inkwell/internal/repository"
)

// PaymentService provides credit-purchase business logic against the
// payment gateway.
type PaymentService struct {
	paymentRepo repository.PaymentRepository
	userRepo    repository.UserRepository
	gateway     gateway.Client
	keySecret   string
}

// VerifyPaymentInput carries the gateway callback fields to verify.
type VerifyPaymentInput struct {
	UserID    uint
	OrderID   string
	PaymentID string
	Signature string
}

// VerifyPaymentResult is returned for a legitimate, recorded payment.
type VerifyPaymentResult struct {
	OrderID  string          `json:"order_id"`
	Verified bool            `json:"verified"`
	Payment  *models.Payment `json:"payment"`
}

// NewPaymentService returns a new PaymentService. keySecret is the gateway
// key secret used for callback signature verification.
func NewPaymentService(paymentRepo repository.PaymentRepository, userRepo repository.UserRepository, gw gateway.Client, keySecret string) *PaymentService {
	return &PaymentService{
		paymentRepo: paymentRepo,
		userRepo:    userRepo,
		gateway:     gw,
		keySecret:   keySecret,
	}
}

// CreateOrder opens an order on the gateway for a credit purchase.
func (s *PaymentService) CreateOrder(ctx context.Context, userID uint, spec gateway.OrderSpec) (*gateway.Order, error) {
	if _, err := s.userRepo.GetByID(ctx, userID); err != nil {
		return nil, err
	}
	if spec.Amount <= 0 {
		return nil, models.NewValidationError("Order amount must be positive")
	}
	if spec.Currency == "" {
		spec.Currency = "INR"
	}

	order, err := s.gateway.CreateOrder(ctx, spec)
	if err != nil {
		return nil, models.NewGatewayError(err)
	}
	return order, nil
}

// VerifyPayment validates the gateway callback signature and, only when it
// checks out, records the payment and credits the buyer in one transaction.
// Any signature mismatch fails closed: nothing is written.
func (s *PaymentService) VerifyPayment(ctx context.Context, in VerifyPaymentInput) (*VerifyPaymentResult, error) {
	if !gateway.VerifySignature(in.OrderID, in.PaymentID, in.Signature, s.keySecret) {
		observability.PaymentVerifications.WithLabelValues("signature_mismatch").Inc()
		return nil, models.NewSignatureInvalidError()
	}

	user, err := s.userRepo.GetByID(ctx, in.UserID)
	if err != nil {
		observability.PaymentVerifications.WithLabelValues("error").Inc()
		return nil, err
	}

	payment := &models.Payment{
		PaymentID:   in.PaymentID,
		NoOfCredits: models.CreditsPerPurchase,
		UserID:      user.ID,
		UserEmail:   user.Email,
		Platform:    models.PlatformRazorpay,
	}
	if err := s.paymentRepo.CreditPurchase(ctx, payment); err != nil {
		observability.PaymentVerifications.WithLabelValues("error").Inc()
		return nil, err
	}

	observability.PaymentVerifications.WithLabelValues("verified").Inc()
	return &VerifyPaymentResult{
		OrderID:  in.OrderID,
		Verified: true,
		Payment:  payment,
	}, nil
}
