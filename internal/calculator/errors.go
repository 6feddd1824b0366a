package calculator

import (
	"errors"
	"fmt"
	"math"

	"FundLens/internal/calendar"
)

// Kind classifies calculator failures.
type Kind int

const (
	KindNotFound Kind = iota + 1
	KindDataUnavailable
	KindInvalidInput
	KindDivisionHazard
)

func (k Kind) String() string {
	switch k {
	case KindNotFound:
		return "not found"
	case KindDataUnavailable:
		return "data unavailable"
	case KindInvalidInput:
		return "invalid input"
	case KindDivisionHazard:
		return "division hazard"
	default:
		return "unknown"
	}
}

// Error is the only error type returned by this package. Fields other than
// Kind, Op and Msg are filled when they apply to the failure.
type Error struct {
	Kind      Kind
	Op        string
	Field     string
	SeriesLen int
	From      calendar.Date
	To        calendar.Date
	Msg       string
	Err       error
}

// Sentinels for errors.Is. They match any *Error of the same kind.
var (
	ErrNotFound        = &Error{Kind: KindNotFound}
	ErrDataUnavailable = &Error{Kind: KindDataUnavailable}
	ErrInvalidInput    = &Error{Kind: KindInvalidInput}
	ErrDivisionHazard  = &Error{Kind: KindDivisionHazard}
)

func (e *Error) Error() string {
	msg := fmt.Sprintf("%s: %s", e.Kind, e.Msg)
	if e.Op != "" {
		msg = e.Op + ": " + msg
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Is matches sentinel errors by kind.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok || t.Op != "" {
		return false
	}
	return t.Kind == e.Kind
}

func (e *Error) Unwrap() error { return e.Err }

// KindOf returns the kind of the first *Error in err's chain, or 0.
func KindOf(err error) Kind {
	var ce *Error
	if errors.As(err, &ce) {
		return ce.Kind
	}
	return 0
}

func invalidInput(op, field string, value float64) *Error {
	return &Error{
		Kind:  KindInvalidInput,
		Op:    op,
		Field: field,
		Msg:   fmt.Sprintf("%s must be a positive number, got %v", field, value),
	}
}

func positive(v float64) bool {
	return v > 0 && !math.IsInf(v, 0) && !math.IsNaN(v)
}

func finite(vs ...float64) bool {
	for _, v := range vs {
		if math.IsInf(v, 0) || math.IsNaN(v) {
			return false
		}
	}
	return true
}
