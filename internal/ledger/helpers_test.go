package ledger_test

import (
	"fmt"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"agritrace/internal/domain"
	"agritrace/internal/ledger"
)

// testClock advances by step on every reading.
type testClock struct {
	mu   sync.Mutex
	now  time.Time
	step time.Duration
}

func newTestClock() *testClock {
	return &testClock{now: time.Date(2024, 1, 15, 8, 0, 0, 0, time.UTC), step: time.Hour}
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := c.now
	c.now = c.now.Add(c.step)
	return t
}

func (c *testClock) Set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = t
}

func seqIDs() func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("ev-%d", n)
	}
}

func newTestRegistry(opts ...ledger.Option) (*ledger.Registry, *testClock) {
	clock := newTestClock()
	base := []ledger.Option{ledger.WithClock(clock), ledger.WithIDGenerator(seqIDs())}
	return ledger.NewRegistry(append(base, opts...)...), clock
}

func tomatoes() ledger.RegisterInput {
	return ledger.RegisterInput{
		ProductName:    "Organic Tomatoes",
		OriginLocation: "Green Valley Farm, CA",
		HarvestDate:    time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC),
		BasePrice:      decimal.RequireFromString("4.50"),
		Farmer:         "Maria Rodriguez",
	}
}

var (
	distributor = domain.Actor{Role: domain.RoleDistributor, Name: "FreshLogistics Co."}
	retailer    = domain.Actor{Role: domain.RoleRetailer, Name: "FreshMart Grocery"}
	farmer      = domain.Actor{Role: domain.RoleFarmer, Name: "Maria Rodriguez"}
	consumer    = domain.Actor{Role: domain.RoleConsumer, Name: "Shopper"}
)

func move(s domain.Status, who domain.Actor) ledger.EventInput {
	return ledger.EventInput{Location: "Somewhere, CA", Status: s, Actor: who}
}

// walk advances a batch through the default chain up to and including last.
func walk(reg *ledger.Registry, id string, last domain.Status) error {
	chain := []struct {
		s   domain.Status
		who domain.Actor
	}{
		{domain.StatusPickedUp, distributor},
		{domain.StatusInTransit, distributor},
		{domain.StatusAtWarehouse, distributor},
		{domain.StatusReadyForHandover, distributor},
		{domain.StatusDeliveredToRetailer, retailer},
		{domain.StatusReadyForSale, retailer},
		{domain.StatusSold, retailer},
	}
	for _, step := range chain {
		if _, err := reg.RecordEvent(id, move(step.s, step.who)); err != nil {
			return fmt.Errorf("%s: %w", step.s, err)
		}
		if step.s == last {
			return nil
		}
	}
	return nil
}
