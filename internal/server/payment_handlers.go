package server

import (
	"odbyte/internal/models"
	"odbyte/internal/service"
	"odbyte/internal/session"

	"github.com/gofiber/fiber/v2"
)

// GetUpgradeOptions handles GET /api/upgrade: the plans and the public
// gateway key the checkout page needs.
func (s *Server) GetUpgradeOptions(c *fiber.Ctx) error {
	user, err := s.userService.GetUserByID(c.Context(), currentUserID(c))
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(fiber.Map{
		"current_plan": user.Plan,
		"key_id":       s.paymentService.GatewayKeyID(),
		"plans": []fiber.Map{
			{"interval": "monthly", "amount": 49900, "currency": "INR"},
			{"interval": "annual", "amount": 499000, "currency": "INR"},
		},
	})
}

// CreateOrder handles POST /api/orders
func (s *Server) CreateOrder(c *fiber.Ctx) error {
	var req struct {
		Interval string `json:"interval"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	order, err := s.paymentService.CreateOrder(c.Context(), currentUserID(c), req.Interval)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(order)
}

// VerifyPayment handles POST /api/payments/verify, the gateway callback
// posted by the checkout page. On success the account is upgraded and the
// session's plan hint refreshed.
func (s *Server) VerifyPayment(c *fiber.Ctx) error {
	var req struct {
		OrderID   string `json:"razorpay_order_id" form:"razorpay_order_id"`
		PaymentID string `json:"razorpay_payment_id" form:"razorpay_payment_id"`
		Signature string `json:"razorpay_signature" form:"razorpay_signature"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	user, err := s.paymentService.Complete(c.Context(), service.CompletePaymentInput{
		UserID:    currentUserID(c),
		OrderID:   req.OrderID,
		PaymentID: req.PaymentID,
		Signature: req.Signature,
	})
	if err != nil {
		return respondServiceError(c, err)
	}

	// Refresh the cached plan hint; entitlement checks re-read the user
	// row anyway, so a failure here is not fatal.
	if token, ok := c.Locals("sessionToken").(string); ok && token != "" {
		_ = s.sessions.Update(c.Context(), token, session.Session{
			UserID: user.ID,
			Name:   user.Name,
			Plan:   user.Plan,
		})
	}

	return c.JSON(fiber.Map{
		"message": "Payment verified",
		"user":    user,
	})
}
