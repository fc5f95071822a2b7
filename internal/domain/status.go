package domain

import (
	"strings"
)

// Status is the stage of a batch along the canonical supply chain.
type Status uint8

const (
	StatusRegistered Status = iota
	StatusPickedUp
	StatusInTransit
	StatusAtWarehouse
	StatusReadyForHandover
	StatusDeliveredToRetailer
	StatusReadyForSale
	StatusSold

	numStatuses
)

// Display is the presentation record for a status badge.
type Display struct {
	Label string
	Badge string // css class
}

type statusInfo struct {
	code  string
	stage int
	Display
}

// AT_WAREHOUSE and READY_FOR_HANDOVER share stage 3.
var statusTable = [numStatuses]statusInfo{
	StatusRegistered:          {"REGISTERED", 0, Display{"Registered", "badge-farm-green"}},
	StatusPickedUp:            {"PICKED_UP", 1, Display{"Picked Up", "badge-farm-green"}},
	StatusInTransit:           {"IN_TRANSIT", 2, Display{"In Transit", "badge-sky-blue"}},
	StatusAtWarehouse:         {"AT_WAREHOUSE", 3, Display{"At Warehouse", "badge-earth-brown"}},
	StatusReadyForHandover:    {"READY_FOR_HANDOVER", 3, Display{"Ready for Handover", "badge-earth-brown"}},
	StatusDeliveredToRetailer: {"DELIVERED_TO_RETAILER", 4, Display{"Delivered to Retailer", "badge-secondary"}},
	StatusReadyForSale:        {"READY_FOR_SALE", 5, Display{"Ready for Sale", "badge-primary"}},
	StatusSold:                {"SOLD", 6, Display{"Sold", "badge-muted"}},
}

// Statuses lists every status in chain order.
func Statuses() []Status {
	out := make([]Status, 0, numStatuses)
	for s := StatusRegistered; s < numStatuses; s++ {
		out = append(out, s)
	}
	return out
}

func (s Status) Valid() bool { return s < numStatuses }

func (s Status) String() string {
	if !s.Valid() {
		return "UNKNOWN"
	}
	return statusTable[s].code
}

// Stage is the position of s along the chain; alternatives share a stage.
func (s Status) Stage() int {
	if !s.Valid() {
		return -1
	}
	return statusTable[s].stage
}

func (s Status) Terminal() bool { return s == StatusSold }

func (s Status) Label() string { return StatusStyle(s).Label }

// StatusStyle returns the badge label and css class for s.
func StatusStyle(s Status) Display {
	if !s.Valid() {
		return Display{Label: "Unknown", Badge: "badge-muted"}
	}
	return statusTable[s].Display
}

// ParseStatus accepts a status code ("IN_TRANSIT") or label ("In Transit"),
// case-insensitively.
func ParseStatus(raw string) (Status, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, false
	}
	for s := StatusRegistered; s < numStatuses; s++ {
		info := statusTable[s]
		if strings.EqualFold(raw, info.code) || strings.EqualFold(raw, info.Label) {
			return s, true
		}
	}
	return 0, false
}

func (s Status) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

func (s *Status) UnmarshalText(b []byte) error {
	v, ok := ParseStatus(string(b))
	if !ok {
		return &UnknownStatusError{Value: string(b)}
	}
	*s = v
	return nil
}

// UnknownStatusError reports a status value outside the chain vocabulary.
type UnknownStatusError struct{ Value string }

func (e *UnknownStatusError) Error() string { return "unknown status " + strings.TrimSpace(e.Value) }
