package validation

import (
	"errors"

	"github.com/shopspring/decimal"
)

var (
	errNotNumber  = errors.New("enter a number")
	errNotInteger = errors.New("enter a whole number")
)

func parseNumber(s string) (decimal.Decimal, bool) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, false
	}
	return d, true
}

// AcceptNumber reports whether an input's new text may be committed: empty
// or parseable as a number.
func AcceptNumber(s string) bool {
	if s == "" {
		return true
	}
	_, ok := parseNumber(s)
	return ok
}

// AcceptDecimal is AcceptNumber for decimal fields.
func AcceptDecimal(s string) bool {
	return AcceptNumber(s)
}

// AcceptInteger additionally requires a whole number.
func AcceptInteger(s string) bool {
	if s == "" {
		return true
	}
	d, ok := parseNumber(s)
	return ok && d.IsInteger()
}

// NumberInput is a huh input validator for number fields.
func NumberInput(s string) error {
	if !AcceptNumber(s) {
		return errNotNumber
	}
	return nil
}

// DecimalInput is a huh input validator for decimal fields.
func DecimalInput(s string) error {
	if !AcceptDecimal(s) {
		return errNotNumber
	}
	return nil
}

// IntegerInput is a huh input validator for integer fields.
func IntegerInput(s string) error {
	if !AcceptInteger(s) {
		return errNotInteger
	}
	return nil
}
