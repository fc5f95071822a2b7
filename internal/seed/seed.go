package seed

import (
	_ "embed"
	"fmt"
	"os"
	"time"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"agritrace/internal/domain"
	"agritrace/internal/ledger"
)

//go:embed demo.yaml
var demoYAML []byte

type Dataset struct {
	Batches []BatchSpec `yaml:"batches"`
}

type BatchSpec struct {
	Product      string      `yaml:"product"`
	Origin       string      `yaml:"origin"`
	HarvestDate  string      `yaml:"harvest_date"`
	BasePrice    string      `yaml:"base_price"`
	Certificate  string      `yaml:"certificate"`
	Farmer       string      `yaml:"farmer"`
	RegisteredAt time.Time   `yaml:"registered_at"`
	Events       []EventSpec `yaml:"events"`
}

type EventSpec struct {
	At          time.Time `yaml:"at"`
	Status      string    `yaml:"status"`
	Location    string    `yaml:"location"`
	Temperature string    `yaml:"temperature"`
	Notes       string    `yaml:"notes"`
	Actor       string    `yaml:"actor"`
	Price       string    `yaml:"price"`
}

// Demo returns the embedded demo dataset.
func Demo() (Dataset, error) { return Parse(demoYAML) }

// LoadFile reads a dataset from a YAML file.
func LoadFile(path string) (Dataset, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return Dataset{}, err
	}
	return Parse(b)
}

func Parse(b []byte) (Dataset, error) {
	var ds Dataset
	if err := yaml.Unmarshal(b, &ds); err != nil {
		return Dataset{}, fmt.Errorf("seed: %w", err)
	}
	return ds, nil
}

// Apply replays ds through reg, pinning clock to each recorded time so the
// history keeps its original timestamps. It returns the number of batches
// registered. Replay goes through the normal ledger checks, so an illegal
// history fails here.
func Apply(reg *ledger.Registry, clock *ledger.PinnedClock, ds Dataset) (int, error) {
	defer clock.Unpin()
	for i, bs := range ds.Batches {
		harvest, err := time.Parse(domain.DateLayout, bs.HarvestDate)
		if err != nil {
			return i, fmt.Errorf("seed: batch %d harvest_date: %w", i, err)
		}
		price, err := decimal.NewFromString(bs.BasePrice)
		if err != nil {
			return i, fmt.Errorf("seed: batch %d base_price: %w", i, err)
		}

		if bs.RegisteredAt.IsZero() {
			return i, fmt.Errorf("seed: batch %d (%s): registered_at is required", i, bs.Product)
		}
		clock.Pin(bs.RegisteredAt)
		b, err := reg.Register(ledger.RegisterInput{
			ProductName:    bs.Product,
			OriginLocation: bs.Origin,
			HarvestDate:    harvest,
			BasePrice:      price,
			Certificate:    bs.Certificate,
			Farmer:         bs.Farmer,
		})
		if err != nil {
			return i, fmt.Errorf("seed: batch %d (%s): %w", i, bs.Product, err)
		}

		for j, es := range bs.Events {
			in, err := es.input()
			if err != nil {
				return i, fmt.Errorf("seed: %s event %d: %w", b.BatchID, j, err)
			}
			clock.Pin(es.At)
			if _, err := reg.RecordEvent(b.BatchID, in); err != nil {
				return i, fmt.Errorf("seed: %s event %d: %w", b.BatchID, j, err)
			}
		}
	}
	return len(ds.Batches), nil
}

func (es EventSpec) input() (ledger.EventInput, error) {
	status, ok := domain.ParseStatus(es.Status)
	if !ok {
		return ledger.EventInput{}, fmt.Errorf("unknown status %q", es.Status)
	}
	actor, ok := domain.ParseActor(es.Actor)
	if !ok {
		return ledger.EventInput{}, fmt.Errorf("unknown actor %q", es.Actor)
	}
	in := ledger.EventInput{
		Location:    es.Location,
		Status:      status,
		Actor:       actor,
		Temperature: es.Temperature,
		Notes:       es.Notes,
	}
	if es.Price != "" {
		p, err := decimal.NewFromString(es.Price)
		if err != nil {
			return ledger.EventInput{}, fmt.Errorf("price: %w", err)
		}
		in.Price = &p
	}
	return in, nil
}
