package services

import (
	"time"

	"github.com/shopspring/decimal"

	"agritrace/internal/domain"
	"agritrace/internal/ledger"
	"agritrace/internal/metrics"
)

type FarmerService struct {
	Reg     *ledger.Registry
	Query   *ledger.Query
	Trace   *TraceService
	Metrics *metrics.Recorder
	Name    string // acting farmer
}

func NewFarmerService(reg *ledger.Registry, q *ledger.Query, rec *metrics.Recorder, name string) *FarmerService {
	return &FarmerService{Reg: reg, Query: q, Trace: NewTraceService(reg, q, rec), Metrics: rec, Name: name}
}

type FarmerDashboard struct {
	Farmer  string
	Stats   Stats
	Batches []Card
}

// Dashboard lists every batch, newest first, with per-status totals.
func (s *FarmerService) Dashboard() FarmerDashboard {
	return FarmerDashboard{
		Farmer:  s.Name,
		Stats:   s.Trace.Stats(),
		Batches: cards(s.Query.ListForRole(domain.RoleFarmer), nil),
	}
}

// Harvest is the farmer's registration form.
type Harvest struct {
	ProductName string
	Origin      string
	HarvestDate time.Time
	BasePrice   decimal.Decimal
	Certificate string
	Farmer      string // overrides the acting name when set
}

// Register records a new batch under the acting farmer's name.
func (s *FarmerService) Register(h Harvest) (domain.Batch, error) {
	farmer := h.Farmer
	if farmer == "" {
		farmer = s.Name
	}
	b, err := s.Reg.Register(ledger.RegisterInput{
		ProductName:    h.ProductName,
		OriginLocation: h.Origin,
		HarvestDate:    h.HarvestDate,
		BasePrice:      h.BasePrice,
		Certificate:    h.Certificate,
		Farmer:         farmer,
	})
	if err != nil {
		s.Metrics.Rejected("register", err)
		return domain.Batch{}, err
	}
	s.Metrics.Registered()
	s.Metrics.Recorded(b.Events[0])
	return b, nil
}
