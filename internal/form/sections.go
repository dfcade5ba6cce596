package form

import (
	"slices"
	"sort"
	"strings"

	"github.com/alexanderramin/mlfs/internal/access"
	"github.com/alexanderramin/mlfs/internal/domain"
	"github.com/alexanderramin/mlfs/internal/fields"
	"github.com/alexanderramin/mlfs/internal/record"
	"github.com/alexanderramin/mlfs/internal/workflow"
)

// Record section keys.
const (
	KeyIdentifiers  = "identifiers"
	KeyCrossCutting = "cross_cutting"
	KeySpecific     = "specific"
	KeySubstance    = "substance_details"
	KeyODSODP       = "ods_odp"
	KeyImpact       = "impact"
	KeyApproval     = "approval"
	KeyOverview     = "overview"
	KeyEnterprise   = "enterprise"
	KeyFunding      = "funding"
	KeyRemarks      = "remarks"
)

// TableODSODP is the descriptor table holding substance row fields.
const TableODSODP = "ods_odp"

// Section is a resolved, visible group of fields. It becomes one tab in the
// record view and one group in an edit form.
type Section struct {
	Key        string
	Title      string
	Fields     []domain.FieldDescriptor
	Repeatable bool
	Nested     bool
}

// SectionContext is what section guards and field pickers look at.
type SectionContext struct {
	Dynamic     []domain.FieldDescriptor
	Permissions domain.Permissions
	Status      domain.SubmissionStatus
}

// SectionSpec is one entry of a kind's static section catalog.
type SectionSpec struct {
	Key        string
	Title      string
	Repeatable bool
	Nested     bool
	// Fields picks the section's descriptors.
	Fields func(SectionContext) []domain.FieldDescriptor
	// Guard decides whether the section is rendered at all. A nil guard
	// means "has at least one viewable field".
	Guard func(SectionContext, []domain.FieldDescriptor) bool
}

func static(fn func() []domain.FieldDescriptor) func(SectionContext) []domain.FieldDescriptor {
	return func(SectionContext) []domain.FieldDescriptor { return fn() }
}

func dynamic(match func(domain.FieldDescriptor) bool) func(SectionContext) []domain.FieldDescriptor {
	return func(c SectionContext) []domain.FieldDescriptor {
		var out []domain.FieldDescriptor
		for _, f := range fields.SortFields(c.Dynamic) {
			if match(f) {
				out = append(out, f)
			}
		}
		return out
	}
}

func inSection(name string) func(domain.FieldDescriptor) bool {
	return func(f domain.FieldDescriptor) bool { return f.Section == name && f.Table == "" }
}

func inTable(name string) func(domain.FieldDescriptor) bool {
	return func(f domain.FieldDescriptor) bool { return f.Table == name }
}

func tableFieldNames(fs []domain.FieldDescriptor) []string {
	var out []string
	for _, f := range fs {
		if f.Table != "" {
			out = append(out, f.Name())
		}
	}
	return out
}

var projectSections = []SectionSpec{
	{Key: KeyIdentifiers, Title: "Identifiers", Fields: static(fields.IdentifierFields)},
	{Key: KeyCrossCutting, Title: "Cross-Cutting", Fields: static(fields.CrossCuttingFields)},
	{Key: KeySpecific, Title: "Specific information", Fields: dynamic(inSection(fields.SectionHeader))},
	{
		Key: KeySubstance, Title: "Substance Details",
		Fields: dynamic(inSection(fields.SectionSubstance)),
		Guard: func(c SectionContext, _ []domain.FieldDescriptor) bool {
			return access.HasFields(c.Dynamic, c.Permissions.ViewableFields, fields.SectionSubstance,
				access.Excluding(tableFieldNames(c.Dynamic)...))
		},
	},
	{
		Key: KeyODSODP, Title: "ODS/ODP", Repeatable: true,
		Fields: dynamic(inTable(TableODSODP)),
		Guard: func(c SectionContext, _ []domain.FieldDescriptor) bool {
			return access.HasFields(c.Dynamic, c.Permissions.ViewableFields, TableODSODP,
				access.MatchOn(access.MatchTable))
		},
	},
	{
		Key: KeyImpact, Title: "Impact",
		Fields: dynamic(func(f domain.FieldDescriptor) bool {
			return strings.Contains(f.Section, fields.SectionImpact) && f.Table == ""
		}),
		Guard: func(c SectionContext, _ []domain.FieldDescriptor) bool {
			return access.HasFields(c.Dynamic, c.Permissions.ViewableFields, fields.SectionImpact,
				access.MatchBySubstring())
		},
	},
	{
		Key: KeyApproval, Title: "Approval",
		Fields: dynamic(inSection(fields.SectionApproval)),
		Guard: func(c SectionContext, fs []domain.FieldDescriptor) bool {
			switch c.Status {
			case domain.StatusRecommended, domain.StatusApproved, domain.StatusNotApproved:
				return len(access.ViewableFields(fs, c.Permissions.ViewableFields)) > 0
			}
			return false
		},
	},
}

var enterpriseSections = []SectionSpec{
	{Key: KeyOverview, Title: "Overview", Fields: static(fields.EnterpriseFields)},
	{Key: KeyODSODP, Title: "Substance Details", Repeatable: true, Fields: static(fields.SubstanceRowFields)},
	{Key: KeyFunding, Title: "Funding Details", Fields: static(fields.FundingFields)},
	{Key: KeyRemarks, Title: "Remarks", Fields: static(fields.RemarksFields)},
}

var linkSections = []SectionSpec{
	{Key: KeyEnterprise, Title: "Overview", Nested: true, Fields: static(fields.EnterpriseFields)},
	{Key: KeyODSODP, Title: "Substance Details", Repeatable: true, Fields: static(fields.SubstanceRowFields)},
	{Key: KeyFunding, Title: "Funding Details", Fields: static(fields.FundingFields)},
	{Key: KeyRemarks, Title: "Remarks", Fields: static(fields.RemarksFields)},
}

// Catalog returns the static section list for a record kind.
func Catalog(kind domain.RecordKind) []SectionSpec {
	switch kind {
	case domain.KindProject:
		return projectSections
	case domain.KindEnterprise:
		return enterpriseSections
	case domain.KindProjectEnterprise:
		return linkSections
	default:
		return nil
	}
}

// VisibleSections resolves the catalog for kind and drops every section
// whose guard fails, so an empty section contributes no tab or heading.
// Fields the user may not view are filtered out of the kept sections.
func VisibleSections(kind domain.RecordKind, dyn []domain.FieldDescriptor, perms domain.Permissions, status domain.SubmissionStatus) []Section {
	ctx := SectionContext{Dynamic: dyn, Permissions: perms, Status: status}
	var out []Section
	for _, spec := range Catalog(kind) {
		fs := spec.Fields(ctx)
		guard := spec.Guard
		if guard == nil {
			guard = func(c SectionContext, fs []domain.FieldDescriptor) bool {
				return len(access.ViewableFields(fs, c.Permissions.ViewableFields)) > 0
			}
		}
		if !guard(ctx, fs) {
			continue
		}
		out = append(out, Section{
			Key:        spec.Key,
			Title:      spec.Title,
			Fields:     access.ViewableFields(fs, perms.ViewableFields),
			Repeatable: spec.Repeatable,
			Nested:     spec.Nested,
		})
	}
	return out
}

// Layout returns the record layout for a kind. Every catalog section is
// included regardless of visibility so that records keep hidden values.
func Layout(kind domain.RecordKind, dyn []domain.FieldDescriptor) []record.SectionLayout {
	ctx := SectionContext{Dynamic: dyn}
	var out []record.SectionLayout
	for _, spec := range Catalog(kind) {
		out = append(out, record.SectionLayout{
			Key:        spec.Key,
			Fields:     spec.Fields(ctx),
			Repeatable: spec.Repeatable,
			Nested:     spec.Nested,
		})
	}
	return out
}

// SectionPermitted is the section-level edit permission for a record in
// its current state.
func SectionPermitted(kind domain.RecordKind, status domain.SubmissionStatus, perms domain.Permissions) bool {
	return workflow.Editable(kind, status, perms)
}

// FindSection looks a section up by key.
func FindSection(sections []Section, key string) (Section, bool) {
	i := slices.IndexFunc(sections, func(s Section) bool { return s.Key == key })
	if i < 0 {
		return Section{}, false
	}
	return sections[i], true
}

// AllFields flattens the fields of sections, in section order.
func AllFields(sections []Section) []domain.FieldDescriptor {
	var out []domain.FieldDescriptor
	for _, s := range sections {
		out = append(out, s.Fields...)
	}
	return out
}

func sortedSectionKeys(r domain.Record) []string {
	keys := make([]string, 0, len(r.Sections))
	for k := range r.Sections {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
