package ledger

import (
	"fmt"
	"slices"
	"strings"

	"agritrace/internal/domain"
)

// Policy decides which status changes RecordEvent accepts. No policy allows
// leaving the terminal state.
type Policy struct {
	Name string
	// AllowSkip accepts forward moves that jump over a stage.
	AllowSkip bool
	// AllowBackward accepts backward moves and repeats of the current stage.
	AllowBackward bool
}

var (
	AdjacentForwardOnly = Policy{Name: "adjacent-forward-only"}
	AllowSkip           = Policy{Name: "allow-skip", AllowSkip: true}
	AllowAny            = Policy{Name: "allow-any", AllowSkip: true, AllowBackward: true}
)

// PolicyByName resolves a configured policy name. Empty selects the default.
func PolicyByName(name string) (Policy, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", AdjacentForwardOnly.Name:
		return AdjacentForwardOnly, nil
	case AllowSkip.Name:
		return AllowSkip, nil
	case AllowAny.Name:
		return AllowAny, nil
	}
	return Policy{}, fmt.Errorf("%w: unknown transition policy %q", ErrInvalidInput, name)
}

// rolePermissions lists the statuses each role may record.
var rolePermissions = map[domain.Role][]domain.Status{
	domain.RoleFarmer: {
		domain.StatusRegistered,
		domain.StatusPickedUp,
	},
	domain.RoleDistributor: {
		domain.StatusPickedUp,
		domain.StatusInTransit,
		domain.StatusAtWarehouse,
		domain.StatusReadyForHandover,
		domain.StatusDeliveredToRetailer,
	},
	domain.RoleRetailer: {
		domain.StatusDeliveredToRetailer,
		domain.StatusReadyForSale,
		domain.StatusSold,
	},
}

// CanRecord reports whether role may record an event with status s.
func CanRecord(role domain.Role, s domain.Status) bool {
	return slices.Contains(rolePermissions[role], s)
}

// adjacent reports a single forward step: the next stage, or the move from
// AT_WAREHOUSE to READY_FOR_HANDOVER inside stage 3.
func adjacent(from, to domain.Status) bool {
	if to.Stage() == from.Stage()+1 {
		return true
	}
	return from == domain.StatusAtWarehouse && to == domain.StatusReadyForHandover
}

// Check validates moving a batch from one status to another on behalf of role.
func (p Policy) Check(from, to domain.Status, role domain.Role) error {
	if !to.Valid() {
		return fmt.Errorf("%w: unknown status", ErrInvalidInput)
	}
	if from.Terminal() {
		return fmt.Errorf("%w: %s", ErrTerminalState, from.Label())
	}
	if !CanRecord(role, to) {
		return fmt.Errorf("%w: %s may not record %s", ErrInvalidTransition, roleName(role), to.Label())
	}
	switch {
	case adjacent(from, to):
		return nil
	case to.Stage() > from.Stage():
		if p.AllowSkip {
			return nil
		}
		return fmt.Errorf("%w: %s to %s skips a stage", ErrInvalidTransition, from.Label(), to.Label())
	default:
		if p.AllowBackward {
			return nil
		}
		return fmt.Errorf("%w: %s to %s is not a forward move", ErrInvalidTransition, from.Label(), to.Label())
	}
}

// CheckAmend validates a correction. Corrections may set any non-terminal
// status but still require a role that participates in the chain.
func CheckAmend(from, to domain.Status, role domain.Role) error {
	if !to.Valid() {
		return fmt.Errorf("%w: unknown status", ErrInvalidInput)
	}
	if from.Terminal() {
		return fmt.Errorf("%w: %s", ErrTerminalState, from.Label())
	}
	if to.Terminal() {
		return fmt.Errorf("%w: a correction cannot mark a batch %s", ErrInvalidTransition, to.Label())
	}
	if _, ok := rolePermissions[role]; !ok {
		return fmt.Errorf("%w: %s may not amend events", ErrInvalidTransition, roleName(role))
	}
	return nil
}

// Next lists the statuses role may move a batch to from the given status.
func (p Policy) Next(from domain.Status, role domain.Role) []domain.Status {
	var out []domain.Status
	for _, s := range domain.Statuses() {
		if p.Check(from, s, role) == nil {
			out = append(out, s)
		}
	}
	return out
}

func roleName(r domain.Role) string {
	if r == "" {
		return "unknown role"
	}
	return string(r)
}
