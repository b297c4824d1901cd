package dashboard

import (
	"errors"
	"time"

	"stockdash/internal/domain"
)

// Validation error kinds.
var (
	ErrMissingInput      = errors.New("start/end date or selected symbols is missing")
	ErrInvalidDateRange  = errors.New("start date is after end date")
	ErrNoSymbolsSelected = errors.New("no stocks selected")
)

// Request carries the three values the page submits on an update. A nil
// Symbols slice means no selection was made at all, which differs from an
// empty selection; nil dates mean the picker is unset.
type Request struct {
	NClicks int
	Symbols []string
	Start   *time.Time
	End     *time.Time
}

// Status tags the outcome of Validate.
type Status int

const (
	// StatusIdle means no update was ever requested.
	StatusIdle Status = iota
	// StatusReady means Selection is valid and can be charted.
	StatusReady
	// StatusRejected means Err holds one of the validation error kinds.
	StatusRejected
)

func (s Status) String() string {
	switch s {
	case StatusIdle:
		return "idle"
	case StatusReady:
		return "ready"
	case StatusRejected:
		return "rejected"
	default:
		return "unknown"
	}
}

// Result is the tagged outcome of Validate.
type Result struct {
	Status    Status
	Selection domain.Selection
	Err       error
}

// Validate checks a Request. Rules are evaluated in order and the first
// failure wins: a zero click count is idle; a missing date or selection is
// ErrMissingInput; start after end is ErrInvalidDateRange; an empty selection
// is ErrNoSymbolsSelected.
func Validate(req Request) Result {
	if req.NClicks <= 0 {
		return Result{Status: StatusIdle}
	}
	if req.Start == nil || req.End == nil || req.Symbols == nil {
		return rejected(ErrMissingInput)
	}

	start := domain.TruncateDay(*req.Start)
	end := domain.TruncateDay(*req.End)
	if start.After(end) {
		return rejected(ErrInvalidDateRange)
	}
	if len(req.Symbols) == 0 {
		return rejected(ErrNoSymbolsSelected)
	}

	symbols := make([]string, len(req.Symbols))
	copy(symbols, req.Symbols)
	return Result{
		Status: StatusReady,
		Selection: domain.Selection{
			Symbols: symbols,
			Range:   domain.DateRange{Start: start, End: end},
		},
	}
}

func rejected(err error) Result {
	return Result{Status: StatusRejected, Err: err}
}

// Kind returns the log label of a validation error, or "upstream" for
// anything else.
func Kind(err error) string {
	switch {
	case errors.Is(err, ErrMissingInput):
		return "missing_input"
	case errors.Is(err, ErrInvalidDateRange):
		return "invalid_date_range"
	case errors.Is(err, ErrNoSymbolsSelected):
		return "no_symbols_selected"
	default:
		return "upstream"
	}
}
