package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"agritrace/internal/ledger"
	applog "agritrace/internal/log"
	"agritrace/internal/services"
	"agritrace/internal/validate"
)

type ConsumerHandler struct {
	Consumer *services.ConsumerService
}

// GET /consumer?q=
func (h *ConsumerHandler) Lookup(c *fiber.Ctx) error {
	raw := c.Query("q")
	data := fiber.Map{"Q": "", "OnShelf": h.Consumer.OnShelf()}
	if strings.TrimSpace(raw) == "" {
		return render(c, "consumer", data)
	}
	q, ok := validate.Scan(raw)
	if !ok {
		applog.Security(c, "validation.fail", map[string]any{"field": "q"})
		data["Err"] = "Enter the code printed on the label."
		c.Status(fiber.StatusBadRequest)
		return render(c, "consumer", data)
	}
	data["Q"] = q
	tl, err := h.Consumer.Lookup(q)
	if err != nil {
		if !rejected(err) {
			return err
		}
		applog.Info(c, "consumer.lookup.miss", map[string]any{"q": q, "kind": ledger.Kind(err)})
		data["Err"] = userMessage(err)
		c.Status(statusFor(err))
		return render(c, "consumer", data)
	}
	applog.Info(c, "consumer.lookup", map[string]any{"q": q, "batch_id": tl.Batch.BatchID})
	data["Product"] = tl
	return render(c, "consumer", data)
}
