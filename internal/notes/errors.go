package notes

import (
	"errors"
	"fmt"
)

// The engine's failure modes fall into four groups: usage errors (malformed
// or conflicting arguments, raised before any store access), not-found
// errors (one per entity, so callers can render them distinctly), policy
// denials, and index-range errors. None of them are fatal; the transport
// layer turns each into a reply and keeps going.
var (
	ErrDenied = errors.New("not permitted in this channel")

	ErrNoTells       = errors.New("no pending tells")
	ErrQuoteNotFound = errors.New("quote not found")
	ErrQuoteExists   = errors.New("quote already exists")
	ErrMemoNotFound  = errors.New("memo not found")
	ErrMemoExists    = errors.New("memo already exists")
	ErrNoAlerts      = errors.New("no pending alerts")
	ErrNeverSeen     = errors.New("user never seen")
	ErrSelfLookup    = errors.New("cannot look up self")
	ErrPastDate      = errors.New("date is in the past")
)

// UsageError marks a malformed invocation. No store access happens before
// one is returned.
type UsageError struct {
	Hint string
}

func (e *UsageError) Error() string {
	return "usage: " + e.Hint
}

func Usagef(format string, args ...any) error {
	return &UsageError{Hint: fmt.Sprintf(format, args...)}
}

// IndexError reports a quote index outside the current match count.
type IndexError struct {
	Index int
	Count int
}

func (e *IndexError) Error() string {
	return fmt.Sprintf("index %d out of range (have %d)", e.Index, e.Count)
}
