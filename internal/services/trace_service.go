package services

import (
	"agritrace/internal/domain"
	"agritrace/internal/ledger"
	"agritrace/internal/metrics"
)

// Card is a batch as the dashboards list it: the batch, its last few events
// and the statuses the viewing role may record next.
type Card struct {
	Batch  domain.Batch
	Recent []domain.Event
	Total  int
	Next   []domain.Status
}

// More reports whether the compact timeline hides older events.
func (c Card) More() bool { return c.Total > len(c.Recent) }

func newCard(b domain.Batch, next []domain.Status) Card {
	recent := b.Events
	if len(recent) > ledger.DefaultRecent {
		recent = recent[len(recent)-ledger.DefaultRecent:]
	}
	return Card{Batch: b, Recent: recent, Total: len(b.Events), Next: next}
}

func cards(bs []domain.Batch, next func(domain.Batch) []domain.Status) []Card {
	out := make([]Card, 0, len(bs))
	for _, b := range bs {
		var n []domain.Status
		if next != nil {
			n = next(b)
		}
		out = append(out, newCard(b, n))
	}
	return out
}

// Timeline is the full history of one batch.
type Timeline struct {
	Batch  domain.Batch
	Events []domain.Event
	Prices []domain.PricePoint
}

// TraceService answers lookups shared by every dashboard and records
// updates for callers that name their own actor, such as the JSON API.
type TraceService struct {
	Reg     *ledger.Registry
	Query   *ledger.Query
	Metrics *metrics.Recorder
}

func NewTraceService(reg *ledger.Registry, q *ledger.Query, rec *metrics.Recorder) *TraceService {
	return &TraceService{Reg: reg, Query: q, Metrics: rec}
}

func (s *TraceService) RecordAs(batchID string, u Update, a domain.Actor) (domain.Event, error) {
	return record(s.Reg, s.Metrics, batchID, u, a)
}

func (s *TraceService) AmendAs(batchID string, u Update, a domain.Actor) (domain.Event, error) {
	return amend(s.Reg, s.Metrics, batchID, u, a)
}

// Find resolves a scanned QR payload, batch id or fragment of either.
func (s *TraceService) Find(code string) (domain.Batch, error) {
	return s.Reg.Find(code)
}

func (s *TraceService) Timeline(batchID string) (Timeline, error) {
	b, err := s.Reg.Get(batchID)
	if err != nil {
		return Timeline{}, err
	}
	events, err := s.Query.FullTimeline(b.BatchID)
	if err != nil {
		return Timeline{}, err
	}
	prices, err := s.Query.PriceHistory(b.BatchID)
	if err != nil {
		return Timeline{}, err
	}
	return Timeline{Batch: b, Events: events, Prices: prices}, nil
}

// Stats summarizes the chain for the landing page and the API.
type Stats struct {
	Total  int           `json:"total"`
	Counts []StatusCount `json:"counts"`
}

type StatusCount struct {
	Status domain.Status  `json:"status"`
	Label  string         `json:"label"`
	Style  domain.Display `json:"-"`
	Count  int            `json:"count"`
}

func (s *TraceService) Stats() Stats {
	counts := s.Query.Counts()
	st := Stats{Counts: make([]StatusCount, 0, len(counts))}
	for _, status := range domain.Statuses() {
		n := counts[status]
		st.Total += n
		st.Counts = append(st.Counts, StatusCount{
			Status: status,
			Label:  status.Label(),
			Style:  domain.StatusStyle(status),
			Count:  n,
		})
	}
	return st
}
