package handlers

import (
	"github.com/gofiber/fiber/v2"

	"agritrace/internal/ledger"
	applog "agritrace/internal/log"
	"agritrace/internal/services"
	"agritrace/internal/validate"
)

type FarmerHandler struct {
	Farmer *services.FarmerService
}

// GET /farmer
func (h *FarmerHandler) Dashboard(c *fiber.Ctx) error {
	return h.page(c, fiber.StatusOK, nil)
}

// POST /farmer/batches
func (h *FarmerHandler) Register(c *fiber.Ctx) error {
	form := fiber.Map{
		"product_name":    c.FormValue("product_name"),
		"origin_location": c.FormValue("origin_location"),
		"harvest_date":    c.FormValue("harvest_date"),
		"base_price":      c.FormValue("base_price"),
		"certificate":     c.FormValue("certificate"),
	}

	name, okName := validate.ProductName(c.FormValue("product_name"))
	origin, okOrigin := validate.Location(c.FormValue("origin_location"))
	harvest, okDate := validate.Date(c.FormValue("harvest_date"))
	price, okPrice := validate.Price(c.FormValue("base_price"))
	cert, okCert := validate.Certificate(c.FormValue("certificate"))
	if field := firstInvalid(
		"product_name", okName,
		"origin_location", okOrigin,
		"harvest_date", okDate,
		"base_price", okPrice,
		"certificate", okCert,
	); field != "" {
		applog.Security(c, "validation.fail", map[string]any{"field": field})
		return h.page(c, fiber.StatusBadRequest, fiber.Map{"Err": "Please check the batch details and try again.", "Form": form})
	}

	b, err := h.Farmer.Register(services.Harvest{
		ProductName: name,
		Origin:      origin,
		HarvestDate: harvest,
		BasePrice:   price,
		Certificate: cert,
	})
	if err != nil {
		if !rejected(err) {
			return err
		}
		applog.Info(c, "farmer.batch.reject", map[string]any{"kind": ledger.Kind(err)})
		return h.page(c, statusFor(err), fiber.Map{"Err": userMessage(err), "Form": form})
	}
	applog.Audit(c, "farmer.batch.register", map[string]any{
		"batch_id": b.BatchID, "product": b.ProductName, "origin": b.OriginLocation,
	})
	return c.Redirect("/farmer?ok=" + b.BatchID)
}

func (h *FarmerHandler) page(c *fiber.Ctx, status int, extra fiber.Map) error {
	d := h.Farmer.Dashboard()
	data := fiber.Map{"Dash": d}
	for k, v := range extra {
		data[k] = v
	}
	c.Status(status)
	return render(c, "farmer", data)
}

// firstInvalid takes name/ok pairs and returns the first name whose ok is
// false.
func firstInvalid(pairs ...any) string {
	for i := 0; i+1 < len(pairs); i += 2 {
		if ok, _ := pairs[i+1].(bool); !ok {
			name, _ := pairs[i].(string)
			return name
		}
	}
	return ""
}
