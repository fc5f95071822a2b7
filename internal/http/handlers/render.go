package handlers

import (
	"github.com/gofiber/fiber/v2"

	"agritrace/internal/validate"
)

func render(c *fiber.Ctx, tmpl string, data fiber.Map) error {
	if data == nil {
		data = fiber.Map{}
	}
	// Pick up the token the CSRF middleware put into Locals
	tok, _ := c.Locals("CSRFToken").(string)
	if tok == "" {
		// Fall back to the cookie so forms never carry an empty hidden field.
		tok = c.Cookies("csrf_")
	}
	if tok != "" {
		data["CSRFToken"] = tok
	}
	// Post/redirect/get confirmation, e.g. ?ok=TOM-2024-001
	if _, set := data["OK"]; !set {
		if id, ok := validate.BatchID(c.Query("ok")); ok {
			data["OK"] = id
		}
	}
	return c.Render(tmpl, data)
}

// notFound renders the shared message page.
func notFound(c *fiber.Ctx, status int, msg string) error {
	return c.Status(status).Render("notfound", fiber.Map{"Message": msg})
}
