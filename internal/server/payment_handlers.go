package server

import (
	"inkwell/internal/gateway"
	"inkwell/internal/models"
	"inkwell/internal/service"

	"github.com/gofiber/fiber/v2"
)

// CreateOrder handles POST /api/payments/orders
// @Summary Open a payment order for a credit purchase
// @Tags payments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body object{amount=int,currency=string,receipt=string} true "Order"
// @Success 201 {object} object{order=gateway.Order,key_id=string}
// @Failure 400 {object} object{error=string}
// @Router /payments/orders [post]
func (s *Server) CreateOrder(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	var req struct {
		Amount   int64  `json:"amount"`
		Currency string `json:"currency"`
		Receipt  string `json:"receipt"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	order, err := s.paymentService.CreateOrder(c.Context(), userID, gateway.OrderSpec{
		Amount:   req.Amount,
		Currency: req.Currency,
		Receipt:  req.Receipt,
	})
	if err != nil {
		return models.RespondWithError(c, mapServiceError(err), err)
	}

	// key_id lets the client open the gateway checkout for this order.
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"order":  order,
		"key_id": s.config.RazorpayKeyID,
	})
}

// VerifyPayment handles POST /api/payments/verify. Only a callback whose
// signature matches the recomputed digest records a payment and credits
// the buyer.
// @Summary Verify a payment callback
// @Tags payments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body object{razorpay_order_id=string,razorpay_payment_id=string,razorpay_signature=string} true "Gateway callback"
// @Success 200 {object} service.VerifyPaymentResult
// @Failure 400 {object} object{error=string}
// @Router /payments/verify [post]
func (s *Server) VerifyPayment(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	var req struct {
		OrderID   string `json:"razorpay_order_id"`
		PaymentID string `json:"razorpay_payment_id"`
		Signature string `json:"razorpay_signature"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}
	if req.OrderID == "" || req.PaymentID == "" || req.Signature == "" {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Order ID, payment ID, and signature are required"))
	}

	result, err := s.paymentService.VerifyPayment(c.Context(), service.VerifyPaymentInput{
		UserID:    userID,
		OrderID:   req.OrderID,
		PaymentID: req.PaymentID,
		Signature: req.Signature,
	})
	if err != nil {
		return models.RespondWithError(c, mapServiceError(err), err)
	}

	return c.JSON(result)
}

// GetMyPayments handles GET /api/payments
func (s *Server) GetMyPayments(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	payments, err := s.paymentRepo.ListByUser(c.Context(), userID)
	if err != nil {
		return models.RespondWithError(c, mapServiceError(err), err)
	}

	return c.JSON(payments)
}
