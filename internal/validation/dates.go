package validation

import (
	"errors"
	"time"

	"github.com/alexanderramin/mlfs/internal/domain"
)

const (
	dateLayout = "2006-01-02"

	// MsgDateOrder is reported on the end-date field.
	MsgDateOrder = "Start date cannot be later than end date."
	// MsgDateFormat is reported on a date field that does not parse.
	MsgDateFormat = "Enter a valid date (YYYY-MM-DD)."
)

// ParseDate parses a YYYY-MM-DD value. Empty values are not dates.
func ParseDate(s string) (time.Time, bool) {
	if s == "" {
		return time.Time{}, false
	}
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// DateRangeErrors checks that end does not precede start. The violation is
// keyed on endField; malformed dates are keyed on their own field. Missing
// dates are not an error here.
func DateRangeErrors(startField, start, endField, end string) domain.ErrorMap {
	out := domain.ErrorMap{}
	s, sok := ParseDate(start)
	e, eok := ParseDate(end)
	if start != "" && !sok {
		out[startField] = []string{MsgDateFormat}
	}
	if end != "" && !eok {
		out[endField] = []string{MsgDateFormat}
	}
	if sok && eok && e.Before(s) {
		out[endField] = []string{MsgDateOrder}
	}
	return out
}

// OptionalDateInput is a huh input validator for date fields.
func OptionalDateInput(s string) error {
	if s == "" {
		return nil
	}
	if _, ok := ParseDate(s); !ok {
		return errors.New("use YYYY-MM-DD format")
	}
	return nil
}
