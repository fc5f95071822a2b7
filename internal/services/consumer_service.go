package services

import (
	"agritrace/internal/domain"
	"agritrace/internal/ledger"
)

type ConsumerService struct {
	Trace *TraceService
	Query *ledger.Query
}

func NewConsumerService(reg *ledger.Registry, q *ledger.Query) *ConsumerService {
	return &ConsumerService{Trace: NewTraceService(reg, q, nil), Query: q}
}

// OnShelf lists batches a shopper can find in stores, newest first.
func (s *ConsumerService) OnShelf() []domain.Batch {
	return s.Query.ListForRole(domain.RoleConsumer)
}

// Lookup resolves a scanned code to the product's full journey.
func (s *ConsumerService) Lookup(code string) (Timeline, error) {
	b, err := s.Trace.Find(code)
	if err != nil {
		return Timeline{}, err
	}
	return s.Trace.Timeline(b.BatchID)
}
