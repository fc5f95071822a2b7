package services_test

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/shopspring/decimal"

	"agritrace/internal/ledger"
	"agritrace/internal/metrics"
	"agritrace/internal/services"
)

type stack struct {
	reg         *ledger.Registry
	query       *ledger.Query
	prom        *prometheus.Registry
	trace       *services.TraceService
	farmer      *services.FarmerService
	distributor *services.DistributorService
	retailer    *services.RetailerService
	consumer    *services.ConsumerService
}

// stepClock starts at 2024-01-15 08:00 UTC and advances a minute per reading.
func stepClock() ledger.ClockFunc {
	now := time.Date(2024, 1, 15, 8, 0, 0, 0, time.UTC)
	return func() time.Time {
		t := now
		now = now.Add(time.Minute)
		return t
	}
}

func newStack(t *testing.T, opts ...ledger.Option) *stack {
	t.Helper()
	reg := ledger.NewRegistry(append([]ledger.Option{ledger.WithClock(stepClock())}, opts...)...)
	q := ledger.NewQuery(reg)
	prom := prometheus.NewRegistry()
	rec := metrics.New(prom, q)
	return &stack{
		reg:         reg,
		query:       q,
		prom:        prom,
		trace:       services.NewTraceService(reg, q, rec),
		farmer:      services.NewFarmerService(reg, q, rec, "Maria Rodriguez"),
		distributor: services.NewDistributorService(reg, q, rec, "Mike Wilson"),
		retailer:    services.NewRetailerService(reg, q, rec, "Store Manager"),
		consumer:    services.NewConsumerService(reg, q),
	}
}

func harvest(name string) services.Harvest {
	return services.Harvest{
		ProductName: name,
		Origin:      "Green Valley Farm, CA",
		HarvestDate: time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC),
		BasePrice:   decimal.RequireFromString("4.50"),
	}
}
