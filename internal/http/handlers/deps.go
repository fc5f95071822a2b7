package handlers

import (
	"agritrace/internal/config"
	"agritrace/internal/ledger"
	"agritrace/internal/metrics"
	"agritrace/internal/services"
)

type Deps struct {
	TraceHandler       *TraceHandler
	FarmerHandler      *FarmerHandler
	DistributorHandler *DistributorHandler
	RetailerHandler    *RetailerHandler
	ConsumerHandler    *ConsumerHandler
	APIHandler         *APIHandler
}

// NewDeps wires one service per dashboard over a shared registry. rec may be
// nil.
func NewDeps(reg *ledger.Registry, rec *metrics.Recorder, cfg config.Config) *Deps {
	q := ledger.NewQuery(reg)

	traceSvc := services.NewTraceService(reg, q, rec)
	farmerSvc := services.NewFarmerService(reg, q, rec, cfg.FarmerName)
	distSvc := services.NewDistributorService(reg, q, rec, cfg.DistributorName)
	retailSvc := services.NewRetailerService(reg, q, rec, cfg.RetailerName)
	consumerSvc := services.NewConsumerService(reg, q)

	return &Deps{
		TraceHandler:       &TraceHandler{Trace: traceSvc},
		FarmerHandler:      &FarmerHandler{Farmer: farmerSvc},
		DistributorHandler: &DistributorHandler{Distributor: distSvc},
		RetailerHandler:    &RetailerHandler{Retailer: retailSvc},
		ConsumerHandler:    &ConsumerHandler{Consumer: consumerSvc},
		APIHandler:         &APIHandler{Trace: traceSvc, Farmer: farmerSvc},
	}
}
