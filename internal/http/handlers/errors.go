package handlers

import (
	"github.com/gofiber/fiber/v2"

	"agritrace/internal/ledger"
	applog "agritrace/internal/log"
)

// statusFor maps a ledger error kind to an HTTP status.
func statusFor(err error) int {
	switch ledger.Kind(err) {
	case "invalid_input":
		return fiber.StatusBadRequest
	case "unknown_batch", "not_found":
		return fiber.StatusNotFound
	case "invalid_transition", "terminal_state", "out_of_order_timestamp":
		return fiber.StatusConflict
	default:
		return fiber.StatusInternalServerError
	}
}

// userMessage is what a dashboard shows for a rejected operation. Internal
// errors never reach the page.
func userMessage(err error) string {
	switch ledger.Kind(err) {
	case "invalid_input":
		return "Please check the details and try again."
	case "unknown_batch", "not_found":
		return "No batch matches that code."
	case "invalid_transition":
		return "That update is not allowed for this batch right now."
	case "terminal_state":
		return "This batch has already been sold."
	case "out_of_order_timestamp":
		return "That update is older than the batch's latest entry."
	default:
		return "Something went wrong. Please try again."
	}
}

// rejected reports whether err is an expected ledger rejection rather than a
// server fault.
func rejected(err error) bool {
	return statusFor(err) != fiber.StatusInternalServerError
}

// ErrorHandler logs unexpected failures and shows a friendly page without
// internal details.
func ErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	if fe, ok := err.(*fiber.Error); ok && fe.Code < fiber.StatusInternalServerError {
		code = fe.Code
	}
	applog.Error(c, "server.error", err, nil)
	if rerr := c.Status(code).Render("notfound", fiber.Map{
		"Message": "Something went wrong. Please try again.",
	}); rerr != nil {
		return c.Status(code).SendString("Something went wrong. Please try again.")
	}
	return nil
}
