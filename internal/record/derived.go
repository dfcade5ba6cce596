package record

import (
	"github.com/alexanderramin/mlfs/internal/domain"
	"github.com/alexanderramin/mlfs/internal/fields"
	"github.com/alexanderramin/mlfs/internal/validation"
)

// DerivedInputs lists the fields whose change requires Derive to run.
var DerivedInputs = map[string]bool{
	fields.FieldCapitalCost:   true,
	fields.FieldOperatingCost: true,
	fields.FieldPhaseOutKg:    true,
}

// Derive recomputes funds_approved and cost_effectiveness_approved in every
// section that carries the cost inputs. The phase-out used for cost
// effectiveness is the sum of phase_out_kg over all substance rows.
func Derive(r domain.Record) domain.Record {
	var kgs []string
	for _, rows := range r.Rows {
		for _, row := range rows {
			kgs = append(kgs, row.Str(fields.FieldPhaseOutKg))
		}
	}

	out := r
	for key, vals := range r.Sections {
		if _, ok := vals[fields.FieldCapitalCost]; !ok {
			if _, ok := vals[fields.FieldOperatingCost]; !ok {
				continue
			}
		}
		funds := validation.FundsApproved(vals.Str(fields.FieldCapitalCost), vals.Str(fields.FieldOperatingCost))
		out = Set(out, key, fields.FieldFundsApproved, funds)
		if len(kgs) > 0 {
			ce := validation.CostEffectivenessApproved(funds, validation.SumDecimals(kgs...))
			out = Set(out, key, fields.FieldCostEffectiveness, ce)
		}
	}
	return out
}
