package ledger

import "errors"

var (
	ErrInvalidInput        = errors.New("invalid input")
	ErrUnknownBatch        = errors.New("unknown batch")
	ErrInvalidTransition   = errors.New("invalid transition")
	ErrTerminalState       = errors.New("batch is in a terminal state")
	ErrOutOfOrderTimestamp = errors.New("event timestamp precedes the last recorded event")
	ErrNotFound            = errors.New("not found")
)

// Kind maps a ledger error to a stable code used in logs, metrics and API
// responses. Errors that did not originate in the ledger map to "internal".
func Kind(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrInvalidInput):
		return "invalid_input"
	case errors.Is(err, ErrUnknownBatch):
		return "unknown_batch"
	case errors.Is(err, ErrInvalidTransition):
		return "invalid_transition"
	case errors.Is(err, ErrTerminalState):
		return "terminal_state"
	case errors.Is(err, ErrOutOfOrderTimestamp):
		return "out_of_order_timestamp"
	case errors.Is(err, ErrNotFound):
		return "not_found"
	default:
		return "internal"
	}
}
