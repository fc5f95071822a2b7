package ledger

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"agritrace/internal/domain"
)

// Registry is the authoritative store of batches keyed by batch id. Callers
// only ever receive copies; every mutation is validated in full before any
// state changes.
type Registry struct {
	mu      sync.RWMutex
	clock   Clock
	policy  Policy
	newID   func() string
	batches map[string]*record
	order   []*record // registration order
	seqs    map[string]int
}

type record struct {
	batch domain.Batch // Events lives in log
	log   EventLog
}

type Option func(*Registry)

func WithClock(c Clock) Option {
	return func(r *Registry) {
		if c != nil {
			r.clock = c
		}
	}
}

func WithPolicy(p Policy) Option {
	return func(r *Registry) { r.policy = p }
}

// WithIDGenerator replaces the uuid event id generator.
func WithIDGenerator(fn func() string) Option {
	return func(r *Registry) {
		if fn != nil {
			r.newID = fn
		}
	}
}

func NewRegistry(opts ...Option) *Registry {
	r := &Registry{
		clock:   SystemClock,
		policy:  AdjacentForwardOnly,
		newID:   uuid.NewString,
		batches: make(map[string]*record),
		seqs:    make(map[string]int),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *Registry) Policy() Policy { return r.policy }

// RegisterInput carries the farmer's registration form.
type RegisterInput struct {
	ProductName    string
	OriginLocation string
	HarvestDate    time.Time
	BasePrice      decimal.Decimal
	Certificate    string
	Farmer         string
}

func (in *RegisterInput) normalize() error {
	in.ProductName = strings.TrimSpace(in.ProductName)
	in.OriginLocation = strings.TrimSpace(in.OriginLocation)
	in.Certificate = strings.TrimSpace(in.Certificate)
	in.Farmer = strings.TrimSpace(in.Farmer)
	switch {
	case in.ProductName == "":
		return fmt.Errorf("%w: product name is required", ErrInvalidInput)
	case in.OriginLocation == "":
		return fmt.Errorf("%w: origin location is required", ErrInvalidInput)
	case in.HarvestDate.IsZero():
		return fmt.Errorf("%w: harvest date is required", ErrInvalidInput)
	case in.BasePrice.IsNegative():
		return fmt.Errorf("%w: base price must not be negative", ErrInvalidInput)
	}
	y, m, d := in.HarvestDate.Date()
	in.HarvestDate = time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return nil
}

// Register creates a batch with a fresh id and its initial REGISTERED event.
func (r *Registry) Register(in RegisterInput) (domain.Batch, error) {
	if err := in.normalize(); err != nil {
		return domain.Batch{}, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.clock.Now()
	prefix := batchPrefix(in.ProductName)
	key := fmt.Sprintf("%s-%d", prefix, now.Year())
	seq := r.seqs[key] + 1
	id := formatBatchID(prefix, now.Year(), seq)
	for r.batches[id] != nil {
		seq++
		id = formatBatchID(prefix, now.Year(), seq)
	}

	price := in.BasePrice
	farmer := domain.Actor{Role: domain.RoleFarmer, Name: in.Farmer}
	rec := &record{batch: domain.Batch{
		BatchID:         id,
		ProductName:     in.ProductName,
		OriginLocation:  in.OriginLocation,
		HarvestDate:     in.HarvestDate,
		BasePrice:       in.BasePrice,
		Certificate:     in.Certificate,
		QRCode:          QRCode(id),
		RegisteredAt:    now,
		CurrentStatus:   domain.StatusRegistered,
		CurrentLocation: in.OriginLocation,
	}}
	if _, err := rec.log.Append(domain.Event{
		EventID:   r.newID(),
		Timestamp: now,
		Location:  in.OriginLocation,
		Status:    domain.StatusRegistered,
		Notes:     "Harvested " + in.HarvestDate.Format(domain.DateLayout),
		Actor:     farmer.String(),
		Role:      farmer.Role,
		Price:     &price,
	}); err != nil {
		return domain.Batch{}, err
	}

	r.seqs[key] = seq
	r.batches[id] = rec
	r.order = append(r.order, rec)
	return rec.snapshot(), nil
}

// EventInput carries one location/status update.
type EventInput struct {
	Location    string
	Status      domain.Status
	Actor       domain.Actor
	Temperature string
	Notes       string
	Price       *decimal.Decimal
}

func (in *EventInput) normalize() error {
	in.Location = strings.TrimSpace(in.Location)
	in.Temperature = strings.TrimSpace(in.Temperature)
	in.Notes = strings.TrimSpace(in.Notes)
	in.Actor.Name = strings.TrimSpace(in.Actor.Name)
	switch {
	case in.Location == "":
		return fmt.Errorf("%w: location is required", ErrInvalidInput)
	case in.Actor.Role == "":
		return fmt.Errorf("%w: actor is required", ErrInvalidInput)
	case in.Price != nil && in.Price.IsNegative():
		return fmt.Errorf("%w: price must not be negative", ErrInvalidInput)
	}
	return nil
}

// RecordEvent advances a batch by appending an event that the transition
// policy accepts.
func (r *Registry) RecordEvent(batchID string, in EventInput) (domain.Event, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	rec, err := r.lookup(batchID)
	if err != nil {
		return domain.Event{}, err
	}
	if cur := rec.batch.CurrentStatus; cur.Terminal() {
		return domain.Event{}, fmt.Errorf("%w: %s is %s", ErrTerminalState, rec.batch.BatchID, cur.Label())
	}
	if err := in.normalize(); err != nil {
		return domain.Event{}, err
	}
	if err := r.policy.Check(rec.batch.CurrentStatus, in.Status, in.Actor.Role); err != nil {
		return domain.Event{}, err
	}
	return r.append(rec, in, false)
}

// Amend appends a correction event. Unlike RecordEvent it may move a batch
// backwards, but it needs a reason in Notes and can never reach or leave SOLD.
func (r *Registry) Amend(batchID string, in EventInput) (domain.Event, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	rec, err := r.lookup(batchID)
	if err != nil {
		return domain.Event{}, err
	}
	if cur := rec.batch.CurrentStatus; cur.Terminal() {
		return domain.Event{}, fmt.Errorf("%w: %s is %s", ErrTerminalState, rec.batch.BatchID, cur.Label())
	}
	if err := in.normalize(); err != nil {
		return domain.Event{}, err
	}
	if in.Notes == "" {
		return domain.Event{}, fmt.Errorf("%w: a correction needs a reason", ErrInvalidInput)
	}
	if err := CheckAmend(rec.batch.CurrentStatus, in.Status, in.Actor.Role); err != nil {
		return domain.Event{}, err
	}
	return r.append(rec, in, true)
}

func (r *Registry) append(rec *record, in EventInput, correction bool) (domain.Event, error) {
	ev := domain.Event{
		EventID:     r.newID(),
		Timestamp:   r.clock.Now(),
		Location:    in.Location,
		Status:      in.Status,
		Temperature: in.Temperature,
		Notes:       in.Notes,
		Actor:       in.Actor.String(),
		Role:        in.Actor.Role,
		Correction:  correction,
	}
	if in.Price != nil {
		p := *in.Price
		ev.Price = &p
	}
	if _, err := rec.log.Append(ev); err != nil {
		return domain.Event{}, err
	}
	rec.batch.CurrentStatus = ev.Status
	rec.batch.CurrentLocation = ev.Location
	if ev.Price != nil && ev.Role == domain.RoleRetailer {
		rec.batch.SalePrice = *ev.Price
	}
	return ev, nil
}

// Get returns the batch with exactly this id.
func (r *Registry) Get(batchID string) (domain.Batch, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	rec, err := r.lookup(batchID)
	if err != nil {
		return domain.Batch{}, err
	}
	return rec.snapshot(), nil
}

// Find resolves a scanned or typed code to a batch. It tries an exact batch
// id, then an exact QR code, then a partial match on the batch id (substring,
// or substring after stripping everything but letters and digits, with a
// leading QR dropped). When several batches match partially the most
// recently registered one wins.
func (r *Registry) Find(query string) (domain.Batch, error) {
	q := strings.TrimSpace(query)
	upper, norm := strings.ToUpper(q), normalize(q)
	if norm == "" {
		return domain.Batch{}, fmt.Errorf("%w: lookup needs letters or digits", ErrInvalidInput)
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	if rec, ok := r.batches[upper]; ok {
		return rec.snapshot(), nil
	}
	for _, rec := range r.order {
		if rec.batch.QRCode == upper {
			return rec.snapshot(), nil
		}
	}

	if id := strings.TrimPrefix(norm, "QR"); id != "" {
		for i := len(r.order) - 1; i >= 0; i-- {
			b := &r.order[i].batch
			if strings.Contains(b.BatchID, upper) || strings.Contains(normalize(b.BatchID), id) {
				return r.order[i].snapshot(), nil
			}
		}
	}
	return domain.Batch{}, fmt.Errorf("%w: nothing matches %q", ErrUnknownBatch, q)
}

// Snapshot returns copies of every batch in registration order.
func (r *Registry) Snapshot() []domain.Batch {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]domain.Batch, len(r.order))
	for i, rec := range r.order {
		out[i] = rec.snapshot()
	}
	return out
}

func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.order)
}

func (r *Registry) lookup(batchID string) (*record, error) {
	id := strings.TrimSpace(batchID)
	rec, ok := r.batches[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownBatch, id)
	}
	return rec, nil
}

func (rec *record) snapshot() domain.Batch {
	b := rec.batch
	b.Events = rec.log.Last(rec.log.Len())
	return b
}
