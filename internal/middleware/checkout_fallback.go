package middleware

import (
	"github.com/gofiber/fiber/v2"
	"github.com/wandertours/backend/internal/service"
)

// CheckoutFallback reconciles a booking when the buyer lands back from the
// Stripe-hosted payment page with a session_id in the query. Webhook delivery
// is the primary path; this one covers deployments where webhooks cannot
// reach the server (local development, missing public endpoint). The request
// always proceeds, whatever happens during reconciliation — the booking may
// already exist from the webhook, or may still arrive later.
func CheckoutFallback(bookingService *service.BookingService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if sessionID := c.Query("session_id"); sessionID != "" {
			bookingService.ReconcileFromRedirect(sessionID)
		}
		return c.Next()
	}
}
