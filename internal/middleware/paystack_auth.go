package middleware

import (
	"fmt"
	"os"

	"github.com/gofiber/fiber/v2"

	"github.com/provigo/provigo-backend/internal/services"
)

// ValidatePaystackSignature validates that a webhook request is from
// Paystack: the x-paystack-signature header carries an HMAC-SHA512 of
// the raw body keyed with the secret key.
func ValidatePaystackSignature() fiber.Handler {
	return func(c *fiber.Ctx) error {
		signature := c.Get("X-Paystack-Signature")
		if signature == "" {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Missing Paystack signature",
			})
		}

		secretKey := os.Getenv("PAYSTACK_SECRET_KEY")
		if secretKey == "" {
			// Log error but don't expose to client
			fmt.Println("ERROR: PAYSTACK_SECRET_KEY not set")
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Server configuration error",
			})
		}

		if !services.VerifyPaystackSignature(secretKey, c.Body(), signature) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Invalid signature",
			})
		}

		return c.Next()
	}
}
