package ledger

import (
	"slices"

	"agritrace/internal/domain"
)

// DefaultRecent is the number of events shown in compact timelines.
const DefaultRecent = 3

// roleViews lists the statuses each dashboard lists. A nil entry means every
// batch.
var roleViews = map[domain.Role][]domain.Status{
	domain.RoleFarmer: nil,
	domain.RoleDistributor: {
		domain.StatusPickedUp,
		domain.StatusInTransit,
		domain.StatusAtWarehouse,
		domain.StatusReadyForHandover,
	},
	domain.RoleRetailer: {
		domain.StatusDeliveredToRetailer,
		domain.StatusReadyForSale,
		domain.StatusSold,
	},
	domain.RoleConsumer: {
		domain.StatusReadyForSale,
		domain.StatusSold,
	},
}

// Query is the read-only facade the dashboards consume. It never mutates the
// registry.
type Query struct {
	reg *Registry
}

func NewQuery(reg *Registry) *Query { return &Query{reg: reg} }

func (q *Query) CountByStatus(s domain.Status) int {
	q.reg.mu.RLock()
	defer q.reg.mu.RUnlock()
	n := 0
	for _, rec := range q.reg.order {
		if rec.batch.CurrentStatus == s {
			n++
		}
	}
	return n
}

// Counts returns the number of batches in every status, zeros included.
func (q *Query) Counts() map[domain.Status]int {
	out := make(map[domain.Status]int)
	for _, s := range domain.Statuses() {
		out[s] = 0
	}
	q.reg.mu.RLock()
	defer q.reg.mu.RUnlock()
	for _, rec := range q.reg.order {
		out[rec.batch.CurrentStatus]++
	}
	return out
}

// ListForRole returns the batches relevant to a dashboard, newest first.
// Unknown roles see nothing.
func (q *Query) ListForRole(role domain.Role) []domain.Batch {
	statuses, ok := roleViews[role]
	if !ok {
		return []domain.Batch{}
	}
	q.reg.mu.RLock()
	defer q.reg.mu.RUnlock()
	out := make([]domain.Batch, 0, len(q.reg.order))
	for i := len(q.reg.order) - 1; i >= 0; i-- {
		rec := q.reg.order[i]
		if statuses == nil || slices.Contains(statuses, rec.batch.CurrentStatus) {
			out = append(out, rec.snapshot())
		}
	}
	return out
}

// RecentEvents returns the last n events of a batch, oldest first. n <= 0
// selects DefaultRecent.
func (q *Query) RecentEvents(batchID string, n int) ([]domain.Event, error) {
	if n <= 0 {
		n = DefaultRecent
	}
	q.reg.mu.RLock()
	defer q.reg.mu.RUnlock()
	rec, err := q.reg.lookup(batchID)
	if err != nil {
		return nil, err
	}
	return rec.log.Last(n), nil
}

// FullTimeline returns every event of a batch in insertion order.
func (q *Query) FullTimeline(batchID string) ([]domain.Event, error) {
	q.reg.mu.RLock()
	defer q.reg.mu.RUnlock()
	rec, err := q.reg.lookup(batchID)
	if err != nil {
		return nil, err
	}
	out := make([]domain.Event, 0, rec.log.Len())
	for e := range rec.log.All() {
		out = append(out, e)
	}
	return cloneEvents(out), nil
}

// LatestEvent returns the most recent event of a batch.
func (q *Query) LatestEvent(batchID string) (domain.Event, error) {
	q.reg.mu.RLock()
	defer q.reg.mu.RUnlock()
	rec, err := q.reg.lookup(batchID)
	if err != nil {
		return domain.Event{}, err
	}
	return rec.log.Latest()
}

// PriceHistory lists every priced event of a batch: the farm-gate base
// price first, then each price recorded downstream.
func (q *Query) PriceHistory(batchID string) ([]domain.PricePoint, error) {
	q.reg.mu.RLock()
	defer q.reg.mu.RUnlock()
	rec, err := q.reg.lookup(batchID)
	if err != nil {
		return nil, err
	}
	var out []domain.PricePoint
	for e := range rec.log.All() {
		if e.Price == nil {
			continue
		}
		out = append(out, domain.PricePoint{Date: e.Timestamp, Price: *e.Price, Location: e.Location})
	}
	return out, nil
}
