package fields

import "github.com/alexanderramin/mlfs/internal/domain"

// Section names as the API spells them in field descriptors.
const (
	SectionIdentifiers  = "Identifiers"
	SectionCrossCutting = "Cross-Cutting"
	SectionHeader       = "Header"
	SectionSubstance    = "Substance Details"
	SectionImpact       = "Impact"
	SectionFunding      = "Funding Details"
	SectionRemarks      = "Remarks"
	SectionApproval     = "Approval"
	SectionEnterprise   = "Enterprise"
)

// Field names referenced by validation and derivation rules.
const (
	FieldStartDate          = "project_start_date"
	FieldEndDate            = "project_end_date"
	FieldCapitalCost        = "capital_cost_approved"
	FieldOperatingCost      = "operating_cost_approved"
	FieldFundsApproved      = "funds_approved"
	FieldCostEffectiveness  = "cost_effectiveness_approved"
	FieldSubstanceChoice    = domain.SubstanceChoiceKey
	FieldSubstance          = "ods_substance"
	FieldBlend              = "ods_blend"
	FieldPhaseOut           = "phase_out_mt"
	FieldPhaseOutKg         = "phase_out_kg"
	FieldRequiresAttachment = "files_required"
)

func field(name, label string, dt domain.DataType, section string, order int) domain.FieldDescriptor {
	return domain.FieldDescriptor{
		WriteFieldName: name,
		Label:          label,
		DataType:       dt,
		Section:        section,
		SortOrder:      domain.IntPtr(order),
	}
}

// IdentifierFields describes the project identifier section. These fields
// are fixed by the application rather than delivered by the API; their
// drop-down options come from lookup endpoints.
func IdentifierFields() []domain.FieldDescriptor {
	return []domain.FieldDescriptor{
		field("country", "Country", domain.DataDropDown, SectionIdentifiers, 1),
		field("meeting", "Meeting", domain.DataNumber, SectionIdentifiers, 2),
		field("agency", "Agency", domain.DataDropDown, SectionIdentifiers, 3),
		field("lead_agency", "Lead agency", domain.DataDropDown, SectionIdentifiers, 4),
		field("cluster", "Cluster", domain.DataDropDown, SectionIdentifiers, 5),
		field("production", "Production", domain.DataBoolean, SectionIdentifiers, 6),
	}
}

// CrossCuttingFields describes the cross-cutting section shared by every
// project type.
func CrossCuttingFields() []domain.FieldDescriptor {
	return []domain.FieldDescriptor{
		field("title", "Title", domain.DataText, SectionCrossCutting, 1),
		field("description", "Description", domain.DataText, SectionCrossCutting, 2),
		field("project_type", "Type", domain.DataDropDown, SectionCrossCutting, 3),
		field("sector", "Sector", domain.DataDropDown, SectionCrossCutting, 4),
		field("is_lvc", "LVC/Non-LVC", domain.DataDropDown, SectionCrossCutting, 5),
		field("total_fund", "Project funding", domain.DataDecimal, SectionCrossCutting, 6),
		field("support_cost_psc", "Project support cost", domain.DataDecimal, SectionCrossCutting, 7),
		field(FieldStartDate, "Project start date", domain.DataText, SectionCrossCutting, 8),
		field(FieldEndDate, "Project end date", domain.DataText, SectionCrossCutting, 9),
		field("tranche", "Tranche number", domain.DataNumber, SectionCrossCutting, 10),
		field("individual_consideration", "Individual consideration", domain.DataBoolean, SectionCrossCutting, 11),
	}
}

// EnterpriseFields describes the enterprise overview section.
func EnterpriseFields() []domain.FieldDescriptor {
	return []domain.FieldDescriptor{
		field("name", "Name", domain.DataText, SectionEnterprise, 1),
		field("country", "Country", domain.DataDropDown, SectionEnterprise, 2),
		field("location", "Location", domain.DataText, SectionEnterprise, 3),
		field("city", "City", domain.DataText, SectionEnterprise, 4),
		field("application", "Application", domain.DataText, SectionEnterprise, 5),
		field("local_ownership", "Local ownership (%)", domain.DataDecimal, SectionEnterprise, 6),
		field("export_to_non_article_5", "Export to non-A5 (%)", domain.DataDecimal, SectionEnterprise, 7),
	}
}

// FundingFields describes the enterprise funding section. funds_approved
// and cost_effectiveness_approved are derived from the other inputs.
func FundingFields() []domain.FieldDescriptor {
	return []domain.FieldDescriptor{
		field(FieldCapitalCost, "Capital cost approved (US $)", domain.DataDecimal, SectionFunding, 1),
		field(FieldOperatingCost, "Operating cost approved (US $)", domain.DataDecimal, SectionFunding, 2),
		field(FieldFundsApproved, "Funds approved (US $)", domain.DataDecimal, SectionFunding, 3),
		field(FieldCostEffectiveness, "Cost effectiveness approved (US $/kg)", domain.DataDecimal, SectionFunding, 4),
		field("funds_disbursed", "Funds disbursed (US $)", domain.DataDecimal, SectionFunding, 5),
		field("co_financing_planned", "Co-financing planned (US $)", domain.DataDecimal, SectionFunding, 6),
	}
}

// SubstanceRowFields describes one ODS/ODP line item.
func SubstanceRowFields() []domain.FieldDescriptor {
	return []domain.FieldDescriptor{
		field(FieldSubstanceChoice, "Substance - baseline technology", domain.DataDropDown, SectionSubstance, 1),
		field(FieldPhaseOut, "ODS phase out (mt)", domain.DataDecimal, SectionSubstance, 2),
		field(FieldPhaseOutKg, "ODS phase out (kg)", domain.DataDecimal, SectionSubstance, 3),
		field("ods_replacement", "Replacement technology", domain.DataText, SectionSubstance, 4),
		field("ods_replacement_phase_in", "Replacement phase in (mt)", domain.DataDecimal, SectionSubstance, 5),
	}
}

// RemarksFields describes the free-text remarks section.
func RemarksFields() []domain.FieldDescriptor {
	return []domain.FieldDescriptor{
		field("remarks", "Remarks", domain.DataText, SectionRemarks, 1),
	}
}
