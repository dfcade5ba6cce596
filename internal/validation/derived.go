package validation

import (
	"github.com/shopspring/decimal"
)

// FundsApproved adds the capital and operating costs, string in and string
// out. Empty inputs count as zero; if both are empty or either is not a
// number the result is "".
func FundsApproved(capital, operating string) string {
	if capital == "" && operating == "" {
		return ""
	}
	c, ok := decimalOrZero(capital)
	if !ok {
		return ""
	}
	o, ok := decimalOrZero(operating)
	if !ok {
		return ""
	}
	return c.Add(o).String()
}

// CostEffectivenessApproved divides the approved funds by the phase-out in
// kilograms, rounded to two places. It is "" when either input is missing
// or the phase-out is zero.
func CostEffectivenessApproved(funds, phaseOutKg string) string {
	f, ok := parseNumber(funds)
	if !ok {
		return ""
	}
	kg, ok := parseNumber(phaseOutKg)
	if !ok || kg.IsZero() {
		return ""
	}
	return f.Div(kg).Round(2).String()
}

// SumDecimals adds decimal strings, skipping empty and malformed values.
func SumDecimals(vals ...string) string {
	total := decimal.Zero
	for _, v := range vals {
		if d, ok := parseNumber(v); ok {
			total = total.Add(d)
		}
	}
	return total.String()
}

func decimalOrZero(s string) (decimal.Decimal, bool) {
	if s == "" {
		return decimal.Zero, true
	}
	return parseNumber(s)
}
