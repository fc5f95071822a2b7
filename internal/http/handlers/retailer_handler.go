package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"

	"agritrace/internal/ledger"
	applog "agritrace/internal/log"
	"agritrace/internal/services"
	"agritrace/internal/validate"
)

type RetailerHandler struct {
	Retailer *services.RetailerService
}

// GET /retailer
func (h *RetailerHandler) Dashboard(c *fiber.Ctx) error {
	return h.page(c, fiber.StatusOK, nil)
}

// POST /retailer/receive
func (h *RetailerHandler) Receive(c *fiber.Ctx) error {
	code, okCode := validate.Scan(c.FormValue("code"))
	loc, okLoc := validate.Location(c.FormValue("location"))
	notes, okNotes := validate.Notes(c.FormValue("notes"))
	if field := firstInvalid("code", okCode, "location", okLoc, "notes", okNotes); field != "" {
		applog.Security(c, "validation.fail", map[string]any{"field": field})
		return h.page(c, fiber.StatusBadRequest, fiber.Map{"Err": "Scan a batch and enter the storage location."})
	}
	b, ev, err := h.Retailer.Receive(code, loc, notes)
	if err != nil {
		return h.reject(c, "retailer.receive.reject", b.BatchID, err)
	}
	applog.Audit(c, "retailer.batch.receive", map[string]any{
		"batch_id": b.BatchID, "event_id": ev.EventID, "location": ev.Location,
	})
	return c.Redirect("/retailer?ok=" + b.BatchID)
}

// POST /retailer/batches/:id/ready
func (h *RetailerHandler) Ready(c *fiber.Ctx) error {
	id, okID := validate.BatchID(c.Params("id"))
	var price *decimal.Decimal
	okPrice := true
	if raw := strings.TrimSpace(c.FormValue("price")); raw != "" {
		p, ok := validate.Price(raw)
		price, okPrice = &p, ok
	}
	if field := firstInvalid("id", okID, "price", okPrice); field != "" {
		applog.Security(c, "validation.fail", map[string]any{"field": field})
		return h.page(c, fiber.StatusBadRequest, fiber.Map{"Err": "Enter a valid sale price."})
	}
	ev, err := h.Retailer.MarkReady(id, price)
	if err != nil {
		return h.reject(c, "retailer.ready.reject", id, err)
	}
	applog.Audit(c, "retailer.batch.ready", map[string]any{
		"batch_id": id, "event_id": ev.EventID, "price": ev.Price.StringFixed(2),
	})
	return c.Redirect("/retailer?ok=" + id)
}

// POST /retailer/batches/:id/sold
func (h *RetailerHandler) Sold(c *fiber.Ctx) error {
	id, ok := validate.BatchID(c.Params("id"))
	if !ok {
		applog.Security(c, "validation.fail", map[string]any{"field": "id"})
		return h.page(c, fiber.StatusBadRequest, fiber.Map{"Err": "Unknown batch."})
	}
	ev, err := h.Retailer.MarkSold(id)
	if err != nil {
		return h.reject(c, "retailer.sold.reject", id, err)
	}
	applog.Audit(c, "retailer.batch.sold", map[string]any{"batch_id": id, "event_id": ev.EventID})
	return c.Redirect("/retailer?ok=" + id)
}

func (h *RetailerHandler) reject(c *fiber.Ctx, action, id string, err error) error {
	if !rejected(err) {
		return err
	}
	applog.Info(c, action, map[string]any{"batch_id": id, "kind": ledger.Kind(err)})
	return h.page(c, statusFor(err), fiber.Map{"Err": userMessage(err)})
}

func (h *RetailerHandler) page(c *fiber.Ctx, status int, extra fiber.Map) error {
	data := fiber.Map{"Dash": h.Retailer.Dashboard(), "DefaultPrice": services.DefaultSalePrice.StringFixed(2)}
	for k, v := range extra {
		data[k] = v
	}
	c.Status(status)
	return render(c, "retailer", data)
}
