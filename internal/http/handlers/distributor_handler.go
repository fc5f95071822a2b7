package handlers

import (
	"github.com/gofiber/fiber/v2"

	"agritrace/internal/ledger"
	applog "agritrace/internal/log"
	"agritrace/internal/services"
	"agritrace/internal/validate"
)

type DistributorHandler struct {
	Distributor *services.DistributorService
}

// GET /distributor
func (h *DistributorHandler) Dashboard(c *fiber.Ctx) error {
	return h.page(c, fiber.StatusOK, nil)
}

// POST /distributor/scan
func (h *DistributorHandler) Scan(c *fiber.Ctx) error {
	code, ok := validate.Scan(c.FormValue("code"))
	if !ok {
		applog.Security(c, "validation.fail", map[string]any{"field": "code"})
		return h.page(c, fiber.StatusBadRequest, fiber.Map{"Err": "Enter a batch ID or QR code."})
	}
	card, err := h.Distributor.Scan(code)
	if err != nil {
		if !rejected(err) {
			return err
		}
		applog.Info(c, "distributor.scan.miss", map[string]any{"code": code, "kind": ledger.Kind(err)})
		return h.page(c, statusFor(err), fiber.Map{"Err": userMessage(err), "Code": code})
	}
	applog.Info(c, "distributor.scan", map[string]any{"code": code, "batch_id": card.Batch.BatchID})
	return h.page(c, fiber.StatusOK, fiber.Map{"Scanned": card, "Code": code})
}

// POST /distributor/batches/:id/events
func (h *DistributorHandler) Record(c *fiber.Ctx) error {
	id, okID := validate.BatchID(c.Params("id"))
	status, okStatus := validate.Status(c.FormValue("status"))
	loc, okLoc := validate.Location(c.FormValue("location"))
	temp, okTemp := validate.Temperature(c.FormValue("temperature"))
	notes, okNotes := validate.Notes(c.FormValue("notes"))
	name, okName := optionalName(c.FormValue("name"))
	if field := firstInvalid(
		"id", okID,
		"status", okStatus,
		"location", okLoc,
		"temperature", okTemp,
		"notes", okNotes,
		"name", okName,
	); field != "" {
		applog.Security(c, "validation.fail", map[string]any{"field": field})
		return h.page(c, fiber.StatusBadRequest, fiber.Map{"Err": "Please check the update and try again."})
	}

	u := services.Update{Status: status, Location: loc, Temperature: temp, Notes: notes, Name: name}
	ev, err := h.Distributor.Record(id, u)
	if err != nil {
		if !rejected(err) {
			return err
		}
		applog.Info(c, "distributor.event.reject", map[string]any{
			"batch_id": id, "status": status.String(), "kind": ledger.Kind(err),
		})
		return h.page(c, statusFor(err), fiber.Map{"Err": userMessage(err)})
	}
	applog.Audit(c, "distributor.event.record", map[string]any{
		"batch_id": id, "event_id": ev.EventID, "status": ev.Status.String(), "location": ev.Location,
	})
	return c.Redirect("/distributor?ok=" + id)
}

func (h *DistributorHandler) page(c *fiber.Ctx, status int, extra fiber.Map) error {
	data := fiber.Map{"Dash": h.Distributor.Dashboard()}
	for k, v := range extra {
		data[k] = v
	}
	c.Status(status)
	return render(c, "distributor", data)
}

// optionalName accepts an empty acting name.
func optionalName(s string) (string, bool) {
	if s == "" {
		return "", true
	}
	return validate.ActorName(s)
}
