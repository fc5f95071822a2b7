package handlers

import (
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"

	"agritrace/internal/domain"
	"agritrace/internal/ledger"
	applog "agritrace/internal/log"
	"agritrace/internal/services"
	"agritrace/internal/validate"
)

// APIHandler serves the JSON API under /api/v1.
type APIHandler struct {
	Trace  *services.TraceService
	Farmer *services.FarmerService
}

func apiError(c *fiber.Ctx, err error) error {
	if !rejected(err) {
		return err
	}
	return c.Status(statusFor(err)).JSON(fiber.Map{"error": err.Error(), "kind": ledger.Kind(err)})
}

func badRequest(c *fiber.Ctx, field string) error {
	applog.Security(c, "validation.fail", map[string]any{"field": field})
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid " + field, "kind": "invalid_input"})
}

// GET /api/v1/batches?role=
func (h *APIHandler) List(c *fiber.Ctx) error {
	role := domain.RoleFarmer
	if raw := strings.TrimSpace(c.Query("role")); raw != "" {
		r, ok := validate.Role(raw)
		if !ok {
			return badRequest(c, "role")
		}
		role = r
	}
	return c.JSON(h.Trace.Query.ListForRole(role))
}

// GET /api/v1/batches/:id
func (h *APIHandler) Get(c *fiber.Ctx) error {
	id, ok := validate.BatchID(c.Params("id"))
	if !ok {
		return badRequest(c, "id")
	}
	b, err := h.Trace.Reg.Get(id)
	if err != nil {
		return apiError(c, err)
	}
	return c.JSON(b)
}

// GET /api/v1/batches/:id/events?n=
// Without n the full timeline is returned.
func (h *APIHandler) Events(c *fiber.Ctx) error {
	id, ok := validate.BatchID(c.Params("id"))
	if !ok {
		return badRequest(c, "id")
	}
	raw := strings.TrimSpace(c.Query("n"))
	if raw == "" {
		events, err := h.Trace.Query.FullTimeline(id)
		if err != nil {
			return apiError(c, err)
		}
		return c.JSON(events)
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 || n > 1000 {
		return badRequest(c, "n")
	}
	events, err := h.Trace.Query.RecentEvents(id, n)
	if err != nil {
		return apiError(c, err)
	}
	return c.JSON(events)
}

// GET /api/v1/batches/:id/prices
func (h *APIHandler) Prices(c *fiber.Ctx) error {
	id, ok := validate.BatchID(c.Params("id"))
	if !ok {
		return badRequest(c, "id")
	}
	prices, err := h.Trace.Query.PriceHistory(id)
	if err != nil {
		return apiError(c, err)
	}
	if prices == nil {
		prices = []domain.PricePoint{}
	}
	return c.JSON(prices)
}

// GET /api/v1/find?q=
func (h *APIHandler) Find(c *fiber.Ctx) error {
	q, ok := validate.Scan(c.Query("q"))
	if !ok {
		return badRequest(c, "q")
	}
	b, err := h.Trace.Find(q)
	if err != nil {
		return apiError(c, err)
	}
	return c.JSON(b)
}

// GET /api/v1/stats
func (h *APIHandler) Stats(c *fiber.Ctx) error {
	return c.JSON(h.Trace.Stats())
}

type registerRequest struct {
	ProductName    string `json:"product_name"`
	OriginLocation string `json:"origin_location"`
	HarvestDate    string `json:"harvest_date"`
	BasePrice      string `json:"base_price"`
	Certificate    string `json:"certificate"`
	Farmer         string `json:"farmer"`
}

// POST /api/v1/batches
func (h *APIHandler) Register(c *fiber.Ctx) error {
	var req registerRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "body")
	}
	name, okName := validate.ProductName(req.ProductName)
	origin, okOrigin := validate.Location(req.OriginLocation)
	harvest, okDate := validate.Date(req.HarvestDate)
	price, okPrice := validate.Price(req.BasePrice)
	cert, okCert := validate.Certificate(req.Certificate)
	farmer, okFarmer := optionalName(strings.TrimSpace(req.Farmer))
	if field := firstInvalid(
		"product_name", okName,
		"origin_location", okOrigin,
		"harvest_date", okDate,
		"base_price", okPrice,
		"certificate", okCert,
		"farmer", okFarmer,
	); field != "" {
		return badRequest(c, field)
	}

	b, err := h.Farmer.Register(services.Harvest{
		ProductName: name,
		Origin:      origin,
		HarvestDate: harvest,
		BasePrice:   price,
		Certificate: cert,
		Farmer:      farmer,
	})
	if err != nil {
		applog.Info(c, "api.batch.reject", map[string]any{"kind": ledger.Kind(err)})
		return apiError(c, err)
	}
	applog.Audit(c, "api.batch.register", map[string]any{"batch_id": b.BatchID, "product": b.ProductName})
	return c.Status(fiber.StatusCreated).JSON(b)
}

type eventRequest struct {
	Status      string `json:"status"`
	Location    string `json:"location"`
	Actor       string `json:"actor"` // "Distributor: Mike Wilson"
	Temperature string `json:"temperature"`
	Notes       string `json:"notes"`
	Price       string `json:"price"`
}

func (r eventRequest) parse() (services.Update, domain.Actor, string) {
	status, okStatus := validate.Status(r.Status)
	loc, okLoc := validate.Location(r.Location)
	actor, okActor := domain.ParseActor(r.Actor)
	if okActor && actor.Name != "" {
		actor.Name, okActor = validate.ActorName(actor.Name)
	}
	temp, okTemp := validate.Temperature(r.Temperature)
	notes, okNotes := validate.Notes(r.Notes)
	var price *decimal.Decimal
	okPrice := true
	if raw := strings.TrimSpace(r.Price); raw != "" {
		p, ok := validate.Price(raw)
		price, okPrice = &p, ok
	}
	field := firstInvalid(
		"status", okStatus,
		"location", okLoc,
		"actor", okActor,
		"temperature", okTemp,
		"notes", okNotes,
		"price", okPrice,
	)
	u := services.Update{Status: status, Location: loc, Temperature: temp, Notes: notes, Price: price}
	return u, actor, field
}

// POST /api/v1/batches/:id/events
func (h *APIHandler) Record(c *fiber.Ctx) error {
	return h.mutate(c, "api.event.record", h.Trace.RecordAs)
}

// POST /api/v1/batches/:id/amend
func (h *APIHandler) Amend(c *fiber.Ctx) error {
	return h.mutate(c, "api.event.amend", h.Trace.AmendAs)
}

func (h *APIHandler) mutate(c *fiber.Ctx, action string, op func(string, services.Update, domain.Actor) (domain.Event, error)) error {
	id, ok := validate.BatchID(c.Params("id"))
	if !ok {
		return badRequest(c, "id")
	}
	var req eventRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "body")
	}
	u, actor, field := req.parse()
	if field != "" {
		return badRequest(c, field)
	}
	ev, err := op(id, u, actor)
	if err != nil {
		applog.Info(c, action+".reject", map[string]any{
			"batch_id": id, "status": u.Status.String(), "kind": ledger.Kind(err),
		})
		return apiError(c, err)
	}
	applog.Audit(c, action, map[string]any{
		"batch_id": id, "event_id": ev.EventID, "status": ev.Status.String(), "actor": ev.Actor,
	})
	return c.Status(fiber.StatusCreated).JSON(ev)
}
