package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFundsApproved(t *testing.T) {
	tests := []struct {
		capital, operating, want string
	}{
		{"1000", "500", "1500"},
		{"1000.25", "0.75", "1001"},
		{"1000", "", "1000"},
		{"", "", ""},
		{"abc", "5", ""},
		{"0.1", "0.2", "0.3"},
	}
	for _, tc := range tests {
		assert.Equal(t, tc.want, FundsApproved(tc.capital, tc.operating), "%s + %s", tc.capital, tc.operating)
	}
}

func TestCostEffectivenessApproved(t *testing.T) {
	assert.Equal(t, "3.33", CostEffectivenessApproved("10000", "3000"))
	assert.Equal(t, "", CostEffectivenessApproved("10000", "0"))
	assert.Equal(t, "", CostEffectivenessApproved("", "10"))
}

func TestSumDecimals(t *testing.T) {
	assert.Equal(t, "3.5", SumDecimals("1", "", "2.5", "x"))
}
