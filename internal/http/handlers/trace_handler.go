package handlers

import (
	"github.com/gofiber/fiber/v2"

	"agritrace/internal/domain"
	applog "agritrace/internal/log"
	"agritrace/internal/services"
	"agritrace/internal/validate"
)

type TraceHandler struct {
	Trace *services.TraceService
}

// GET /
func (h *TraceHandler) Home(c *fiber.Ctx) error {
	return render(c, "index", fiber.Map{"Stats": h.Trace.Stats(), "Roles": domain.Roles})
}

// GET /batches/:id/timeline
func (h *TraceHandler) Timeline(c *fiber.Ctx) error {
	id, ok := validate.BatchID(c.Params("id"))
	if !ok {
		applog.Security(c, "validation.fail", map[string]any{"field": "id"})
		return notFound(c, fiber.StatusNotFound, "This batch could not be found")
	}
	tl, err := h.Trace.Timeline(id)
	if err != nil {
		if !rejected(err) {
			return err
		}
		return notFound(c, statusFor(err), "This batch could not be found")
	}
	return render(c, "timeline", fiber.Map{"Timeline": tl})
}
