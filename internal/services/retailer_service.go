package services

import (
	"github.com/shopspring/decimal"

	"agritrace/internal/domain"
	"agritrace/internal/ledger"
	"agritrace/internal/metrics"
)

// DefaultSalePrice applies when a retailer shelves a batch without a price.
var DefaultSalePrice = decimal.RequireFromString("5.99")

type RetailerService struct {
	Reg     *ledger.Registry
	Query   *ledger.Query
	Metrics *metrics.Recorder
	Name    string
}

func NewRetailerService(reg *ledger.Registry, q *ledger.Query, rec *metrics.Recorder, name string) *RetailerService {
	return &RetailerService{Reg: reg, Query: q, Metrics: rec, Name: name}
}

type RetailerDashboard struct {
	Retailer  string
	Received  int
	OnSale    int
	Sold      int
	Inventory []Card
}

func (s *RetailerService) Dashboard() RetailerDashboard {
	bs := s.Query.ListForRole(domain.RoleRetailer)
	d := RetailerDashboard{
		Retailer: s.Name,
		Inventory: cards(bs, func(b domain.Batch) []domain.Status {
			return s.Reg.Policy().Next(b.CurrentStatus, domain.RoleRetailer)
		}),
	}
	for _, b := range bs {
		switch b.CurrentStatus {
		case domain.StatusDeliveredToRetailer:
			d.Received++
		case domain.StatusReadyForSale:
			d.OnSale++
		case domain.StatusSold:
			d.Sold++
		}
	}
	return d
}

// Receive scans a delivered batch into the store at location.
func (s *RetailerService) Receive(code, location, notes string) (domain.Batch, domain.Event, error) {
	b, err := s.Reg.Find(code)
	if err != nil {
		s.Metrics.Rejected("receive", err)
		return domain.Batch{}, domain.Event{}, err
	}
	ev, err := record(s.Reg, s.Metrics, b.BatchID, Update{
		Status:   domain.StatusDeliveredToRetailer,
		Location: location,
		Notes:    notes,
	}, s.actor())
	if err != nil {
		return b, domain.Event{}, err
	}
	return b, ev, nil
}

// MarkReady puts a received batch on sale. A nil price keeps the sale price
// a retailer already set, or DefaultSalePrice when there is none.
func (s *RetailerService) MarkReady(batchID string, price *decimal.Decimal) (domain.Event, error) {
	b, err := s.Reg.Get(batchID)
	if err != nil {
		s.Metrics.Rejected("record_event", err)
		return domain.Event{}, err
	}
	if price == nil {
		p := DefaultSalePrice
		if !b.SalePrice.IsZero() {
			p = b.SalePrice
		}
		price = &p
	}
	return record(s.Reg, s.Metrics, b.BatchID, Update{
		Status:   domain.StatusReadyForSale,
		Location: b.CurrentLocation,
		Price:    price,
	}, s.actor())
}

func (s *RetailerService) MarkSold(batchID string) (domain.Event, error) {
	b, err := s.Reg.Get(batchID)
	if err != nil {
		s.Metrics.Rejected("record_event", err)
		return domain.Event{}, err
	}
	return record(s.Reg, s.Metrics, b.BatchID, Update{
		Status:   domain.StatusSold,
		Location: b.CurrentLocation,
	}, s.actor())
}

func (s *RetailerService) actor() domain.Actor {
	return domain.Actor{Role: domain.RoleRetailer, Name: s.Name}
}
