package handlers

import "github.com/gofiber/fiber/v2"

// Mount registers the dashboards and the JSON API on app. scan guards the
// lookup endpoints (typically a rate limiter); nil leaves them unguarded.
func Mount(app *fiber.App, d *Deps, scan fiber.Handler) {
	if scan == nil {
		scan = func(c *fiber.Ctx) error { return c.Next() }
	}

	app.Get("/", d.TraceHandler.Home)
	app.Get("/batches/:id/timeline", d.TraceHandler.Timeline)

	app.Get("/farmer", d.FarmerHandler.Dashboard)
	app.Post("/farmer/batches", d.FarmerHandler.Register)

	app.Get("/distributor", d.DistributorHandler.Dashboard)
	app.Post("/distributor/scan", scan, d.DistributorHandler.Scan)
	app.Post("/distributor/batches/:id/events", d.DistributorHandler.Record)

	app.Get("/retailer", d.RetailerHandler.Dashboard)
	app.Post("/retailer/receive", scan, d.RetailerHandler.Receive)
	app.Post("/retailer/batches/:id/ready", d.RetailerHandler.Ready)
	app.Post("/retailer/batches/:id/sold", d.RetailerHandler.Sold)

	app.Get("/consumer", scan, d.ConsumerHandler.Lookup)

	api := app.Group("/api/v1")
	api.Get("/batches", d.APIHandler.List)
	api.Post("/batches", d.APIHandler.Register)
	api.Get("/batches/:id", d.APIHandler.Get)
	api.Get("/batches/:id/events", d.APIHandler.Events)
	api.Post("/batches/:id/events", d.APIHandler.Record)
	api.Post("/batches/:id/amend", d.APIHandler.Amend)
	api.Get("/batches/:id/prices", d.APIHandler.Prices)
	api.Get("/find", scan, d.APIHandler.Find)
	api.Get("/stats", d.APIHandler.Stats)
}
