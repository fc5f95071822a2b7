package services

import (
	"github.com/shopspring/decimal"

	"agritrace/internal/domain"
	"agritrace/internal/ledger"
	"agritrace/internal/metrics"
)

type DistributorService struct {
	Reg     *ledger.Registry
	Query   *ledger.Query
	Metrics *metrics.Recorder
	Name    string
}

func NewDistributorService(reg *ledger.Registry, q *ledger.Query, rec *metrics.Recorder, name string) *DistributorService {
	return &DistributorService{Reg: reg, Query: q, Metrics: rec, Name: name}
}

type DistributorDashboard struct {
	Distributor string
	Batches     []Card
}

// Dashboard lists batches currently in the distributor's hands.
func (s *DistributorService) Dashboard() DistributorDashboard {
	return DistributorDashboard{
		Distributor: s.Name,
		Batches:     cards(s.Query.ListForRole(domain.RoleDistributor), s.next),
	}
}

// Scan looks up a batch and the updates the distributor may record on it.
func (s *DistributorService) Scan(code string) (Card, error) {
	b, err := s.Reg.Find(code)
	if err != nil {
		return Card{}, err
	}
	return newCard(b, s.next(b)), nil
}

// Update is a location/status form submitted from a dashboard.
type Update struct {
	Status      domain.Status
	Location    string
	Temperature string
	Notes       string
	Name        string // overrides the acting name when set
	Price       *decimal.Decimal
}

func (s *DistributorService) Record(batchID string, u Update) (domain.Event, error) {
	return record(s.Reg, s.Metrics, batchID, u, s.actor(u.Name))
}

// Amend records a correction to the batch's last update.
func (s *DistributorService) Amend(batchID string, u Update) (domain.Event, error) {
	return amend(s.Reg, s.Metrics, batchID, u, s.actor(u.Name))
}

func (s *DistributorService) next(b domain.Batch) []domain.Status {
	return s.Reg.Policy().Next(b.CurrentStatus, domain.RoleDistributor)
}

func (s *DistributorService) actor(name string) domain.Actor {
	if name == "" {
		name = s.Name
	}
	return domain.Actor{Role: domain.RoleDistributor, Name: name}
}

func (u Update) input(a domain.Actor) ledger.EventInput {
	return ledger.EventInput{
		Location:    u.Location,
		Status:      u.Status,
		Actor:       a,
		Temperature: u.Temperature,
		Notes:       u.Notes,
		Price:       u.Price,
	}
}

func record(reg *ledger.Registry, rec *metrics.Recorder, batchID string, u Update, a domain.Actor) (domain.Event, error) {
	ev, err := reg.RecordEvent(batchID, u.input(a))
	if err != nil {
		rec.Rejected("record_event", err)
		return domain.Event{}, err
	}
	rec.Recorded(ev)
	return ev, nil
}

func amend(reg *ledger.Registry, rec *metrics.Recorder, batchID string, u Update, a domain.Actor) (domain.Event, error) {
	ev, err := reg.Amend(batchID, u.input(a))
	if err != nil {
		rec.Rejected("amend", err)
		return domain.Event{}, err
	}
	rec.Recorded(ev)
	return ev, nil
}
