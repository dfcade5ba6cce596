package validation

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/mlfs/internal/domain"
)

// ActualTotalPairs maps each "actual" indicator to the "total" it may not
// exceed.
var ActualTotalPairs = map[string]string{
	"number_of_enterprises_assisted_actual":                 "number_of_enterprises_assisted",
	"number_of_technicians_trained_actual":                  "number_of_technicians_trained",
	"number_of_female_technicians_trained_actual":           "number_of_female_technicians_trained",
	"number_of_technicians_certified_actual":                "number_of_technicians_certified",
	"number_of_female_technicians_certified_actual":         "number_of_female_technicians_certified",
	"number_of_customs_officers_trained_actual":             "number_of_customs_officers_trained",
	"number_of_female_customs_officers_trained_actual":      "number_of_female_customs_officers_trained",
	"number_of_training_institutions_newly_assisted_actual": "number_of_training_institutions_newly_assisted",
	"number_of_tools_sets_distributed_actual":               "number_of_tools_sets_distributed",
	"number_of_enforcement_officers_trained_actual":         "number_of_enforcement_officers_trained",
	"number_of_female_enforcement_officers_trained_actual":  "number_of_female_enforcement_officers_trained",
	"total_number_of_substance_phased_out_actual":           "total_number_of_substance_phased_out",
}

// TrancheWarnings reports every actual value that exceeds its total. These
// are warnings: they are shown to the user but never block submission.
func TrancheWarnings(values domain.Values) domain.ErrorMap {
	out := domain.ErrorMap{}
	for actual, total := range ActualTotalPairs {
		a, aok := parseNumber(values.Str(actual))
		t, tok := parseNumber(values.Str(total))
		if !aok || !tok {
			continue
		}
		if a.GreaterThan(t) {
			out[actual] = []string{fmt.Sprintf("The actual value cannot exceed the total (%s).", t.String())}
		}
	}
	return out
}

// IsActualField reports whether a descriptor is an "actual" indicator.
func IsActualField(f domain.FieldDescriptor) bool {
	return f.IsActual || strings.HasSuffix(f.Name(), "_actual")
}

// UnfilledActuals lists the non-boolean actual fields with no value, in
// descriptor order. Boolean actuals are skipped since false is an answer.
func UnfilledActuals(fs []domain.FieldDescriptor, values domain.Values) []string {
	var out []string
	for _, f := range fs {
		if !IsActualField(f) || f.DataType == domain.DataBoolean {
			continue
		}
		v := values[f.Name()]
		if v == nil || v == "" {
			out = append(out, f.Name())
		}
	}
	return out
}
