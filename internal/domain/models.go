package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Batch is one traceable lot of produce from harvest through sale.
type Batch struct {
	BatchID         string          `json:"batch_id"`
	ProductName     string          `json:"product_name"`
	OriginLocation  string          `json:"origin_location"`
	HarvestDate     time.Time       `json:"harvest_date"`
	BasePrice       decimal.Decimal `json:"base_price"`
	Certificate     string          `json:"certificate,omitempty"`
	QRCode          string          `json:"qr_code"`
	RegisteredAt    time.Time       `json:"registered_at"`
	CurrentStatus   Status          `json:"current_status"`
	CurrentLocation string          `json:"current_location"`
	SalePrice       decimal.Decimal `json:"sale_price"` // zero until a retailer prices the batch
	Events          []Event         `json:"events"`
}

// HarvestDay formats the harvest date as YYYY-MM-DD.
func (b Batch) HarvestDay() string { return b.HarvestDate.Format(DateLayout) }

// LastUpdate is the timestamp of the latest event.
func (b Batch) LastUpdate() time.Time {
	if len(b.Events) == 0 {
		return b.RegisteredAt
	}
	return b.Events[len(b.Events)-1].Timestamp
}

// Event is one immutable record of a location/status change.
type Event struct {
	EventID     string           `json:"event_id"`
	Timestamp   time.Time        `json:"timestamp"`
	Location    string           `json:"location"`
	Status      Status           `json:"status"`
	Temperature string           `json:"temperature,omitempty"`
	Notes       string           `json:"notes,omitempty"`
	Actor       string           `json:"actor"`
	Role        Role             `json:"role"`
	Price       *decimal.Decimal `json:"price,omitempty"`
	Correction  bool             `json:"correction,omitempty"`
}

// PricePoint is one entry of a batch's price history.
type PricePoint struct {
	Date     time.Time       `json:"date"`
	Price    decimal.Decimal `json:"price"`
	Location string          `json:"location"`
}

const DateLayout = "2006-01-02"
