package form

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexanderramin/mlfs/internal/domain"
	"github.com/alexanderramin/mlfs/internal/fields"
	"github.com/alexanderramin/mlfs/internal/record"
	"github.com/alexanderramin/mlfs/internal/testutil"
)

func TestWidgetFor_EveryDataType(t *testing.T) {
	for dt := range domain.ValidDataTypes {
		w, err := WidgetFor(dt)
		require.NoError(t, err, dt)
		assert.Equal(t, dt, w.DataType())
	}
	_, err := WidgetFor("date")
	assert.Error(t, err)
}

func TestParseValue(t *testing.T) {
	lvc := testutil.NewTestField("is_lvc", testutil.WithOptions(testutil.NewTestOptions("LVC", "Non-LVC")...))
	substanceChoice := testutil.NewTestField(fields.FieldSubstanceChoice, testutil.WithDataType(domain.DataDropDown))
	tests := []struct {
		name    string
		field   domain.FieldDescriptor
		raw     string
		want    any
		wantErr bool
	}{
		{"text", testutil.NewTestField("title"), "Foam", "Foam", false},
		{"decimal keeps text", testutil.NewTestField("cost", testutil.WithDataType(domain.DataDecimal)), "10.50", "10.50", false},
		{"decimal rejects text", testutil.NewTestField("cost", testutil.WithDataType(domain.DataDecimal)), "ten", nil, true},
		{"number rejects fraction", testutil.NewTestField("count", testutil.WithDataType(domain.DataNumber)), "1.5", nil, true},
		{"boolean yes", testutil.NewTestField("flag", testutil.WithDataType(domain.DataBoolean)), "yes", true, false},
		{"boolean empty", testutil.NewTestField("flag", testutil.WithDataType(domain.DataBoolean)), "", nil, false},
		{"drop-down by name", lvc, "Non-LVC", 2, false},
		{"drop-down by id", lvc, "1", 1, false},
		{"drop-down unknown", lvc, "Other", nil, true},
		{"lookup without options takes id", testutil.NewTestField("country", testutil.WithDataType(domain.DataDropDown)), "7", 7, false},
		{"lookup without options rejects name", testutil.NewTestField("country", testutil.WithDataType(domain.DataDropDown)), "Peru", nil, true},
		{"bad date", testutil.NewTestField(fields.FieldStartDate), "June", nil, true},
		{"substance key without options", substanceChoice, "blend_4", "blend_4", false},
		{"substance choice rejects bare id", substanceChoice, "4", nil, true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ParseValue(tc.field, tc.raw)
			if tc.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestRenderField_ReadOnlyWhenNotEditable(t *testing.T) {
	s := newEnterpriseSession(t)
	name := fields.EnterpriseFields()[0]

	b := RenderField(TextWidget{}, s, name, nil, true, KeyOverview)
	assert.False(t, b.Editable)

	b = RenderField(TextWidget{}, s, name, []string{"name"}, false, KeyOverview)
	assert.False(t, b.Editable, "section permission is required")

	s.SetDisabled(true)
	b = RenderField(TextWidget{}, s, name, []string{"name"}, true, KeyOverview)
	assert.False(t, b.Editable, "disabled session")
}

func TestBinding_CommitWritesOnlyChanges(t *testing.T) {
	s := newEnterpriseSession(t)
	name := fields.EnterpriseFields()[0]

	b := RenderField(TextWidget{}, s, name, []string{"name"}, true, KeyOverview)
	require.NoError(t, b.Commit())
	assert.False(t, s.IsDirty(), "unchanged value is not written")

	require.NoError(t, b.SetText("Foam Co"))
	require.NoError(t, b.Commit())
	assert.Equal(t, "Foam Co", s.Get(KeyOverview, "name"))
	assert.True(t, s.Touched().Has("name"))
}

func TestBinding_DerivedFieldsAreReadOnly(t *testing.T) {
	s := newEnterpriseSession(t)
	funds := fields.FundingFields()[2]
	b := RenderField(DecimalWidget{}, s, funds, []string{fields.FieldFundsApproved}, true, KeyFunding)
	assert.False(t, b.Editable)
}

func TestApply_ScriptedEdits(t *testing.T) {
	perms := testutil.AllFieldPermissions()
	s := newEnterpriseSession(t)
	sections := VisibleSections(domain.KindEnterprise, nil, perms, "")
	sections[1].Fields = fields.WithOptions(sections[1].Fields, fields.FieldSubstanceChoice,
		record.SubstanceOptions(testutil.NewTestOptions("HCFC-141b"), nil))

	var as []Assignment
	for _, raw := range []string{
		"funding.capital_cost_approved=1000",
		"funding.operating_cost_approved=500",
		"ods_odp[1].ods_substance_blend=HCFC-141b",
		"ods_odp[1].phase_out_kg=100",
	} {
		a, err := ParseAssignment(raw)
		require.NoError(t, err)
		as = append(as, a)
	}

	require.NoError(t, Apply(s, sections, perms, as))

	rec := s.Record()
	assert.Equal(t, "1500", rec.Sections[KeyFunding][fields.FieldFundsApproved])
	assert.Equal(t, "15", rec.Sections[KeyFunding][fields.FieldCostEffectiveness])
	require.Len(t, rec.Rows[KeyODSODP], 1)
	assert.Equal(t, 1, rec.Rows[KeyODSODP][0][fields.FieldSubstance])
}

func substanceSections(t *testing.T, perms domain.Permissions) []Section {
	t.Helper()
	opts := NewDependentOptions()
	opts.Set(fields.FieldSubstanceChoice, record.SubstanceOptions(
		testutil.NewTestOptions("CFC-11", "CFC-12", "HCFC-141b", "HCFC-22", "HCFC-142b"),
		testutil.NewTestOptions("R-404A", "R-410A"),
	))
	return opts.DecorateSections(VisibleSections(domain.KindEnterprise, nil, perms, ""))
}

func TestApply_SubstanceChoiceTakesCompositeKeys(t *testing.T) {
	perms := testutil.AllFieldPermissions()
	s := newEnterpriseSession(t)

	var as []Assignment
	for _, raw := range []string{
		"ods_odp[1].ods_substance_blend=substance_3",
		"ods_odp[2].ods_substance_blend=blend_2",
		"ods_odp[3].ods_substance_blend=R-404A",
	} {
		a, err := ParseAssignment(raw)
		require.NoError(t, err)
		as = append(as, a)
	}
	require.NoError(t, Apply(s, substanceSections(t, perms), perms, as))

	rows := s.Record().Rows[KeyODSODP]
	require.Len(t, rows, 3)
	assert.Equal(t, 3, rows[0][fields.FieldSubstance])
	assert.Nil(t, rows[0][fields.FieldBlend])
	assert.Nil(t, rows[1][fields.FieldSubstance])
	assert.Equal(t, 2, rows[1][fields.FieldBlend])
	assert.Equal(t, 1, rows[2][fields.FieldBlend])
	assert.True(t, s.Touched().Has(fields.FieldSubstanceChoice))
}

func TestApply_SubstanceChoiceRejectsBareID(t *testing.T) {
	perms := testutil.AllFieldPermissions()
	entity := domain.Values{"id": 8, "ods_odp": []any{map[string]any{"id": 7, "ods_substance": 5}}}
	s := NewSession(record.Build(domain.KindEnterprise, Layout(domain.KindEnterprise, nil), entity))

	a, err := ParseAssignment("ods_odp[1].ods_substance_blend=3")
	require.NoError(t, err)
	assert.Error(t, Apply(s, substanceSections(t, perms), perms, []Assignment{a}))

	row := s.Record().Rows[KeyODSODP][0]
	assert.Equal(t, 5, row[fields.FieldSubstance], "a rejected value leaves the row alone")
	assert.False(t, s.IsDirty())
}

func odsSection(sections []Section) []Section {
	for _, sec := range sections {
		if sec.Key == KeyODSODP {
			return []Section{sec}
		}
	}
	return nil
}

func TestBuildForm_ExistingSubstanceRowCommits(t *testing.T) {
	perms := testutil.AllFieldPermissions()
	entity := domain.Values{"id": 8, "ods_odp": []any{map[string]any{"id": 7, "ods_substance": 5}}}

	for name, sections := range map[string][]Section{
		"options loaded":  substanceSections(t, perms),
		"options missing": VisibleSections(domain.KindEnterprise, nil, perms, ""),
	} {
		t.Run(name, func(t *testing.T) {
			s := NewSession(record.Build(domain.KindEnterprise, Layout(domain.KindEnterprise, nil), entity))
			_, bindings, err := BuildForm(s, odsSection(sections), perms)
			require.NoError(t, err)

			require.NoError(t, bindings.Commit())
			assert.False(t, s.IsDirty(), "unchanged substance is not written")
			assert.Equal(t, 5, s.Record().Rows[KeyODSODP][0][fields.FieldSubstance])
		})
	}
}

func TestBinding_SubstanceChoiceCommitsKey(t *testing.T) {
	entity := domain.Values{"id": 8, "ods_odp": []any{map[string]any{"id": 7, "ods_substance": 5}}}
	s := NewSession(record.Build(domain.KindEnterprise, Layout(domain.KindEnterprise, nil), entity))
	choice := testutil.NewTestField(fields.FieldSubstanceChoice, testutil.WithDataType(domain.DataDropDown))

	b := RenderRowField(DropDownWidget{}, s, choice, []string{fields.FieldSubstanceChoice}, true, KeyODSODP, 0)
	require.True(t, b.Editable)
	require.NoError(t, b.SetText("blend_2"))
	require.NoError(t, b.Commit())

	row := s.Record().Rows[KeyODSODP][0]
	assert.Nil(t, row[fields.FieldSubstance])
	assert.Equal(t, 2, row[fields.FieldBlend])
}

func TestApply_Rejections(t *testing.T) {
	perms := testutil.AllFieldPermissions()
	sections := VisibleSections(domain.KindEnterprise, nil, perms, "")

	tests := map[string]string{
		"hidden section": "approval.meeting=1",
		"unknown field":  "overview.colour=red",
		"derived field":  "funding.funds_approved=1",
		"missing row":    "ods_odp.phase_out_kg=1",
		"bad number":     "funding.capital_cost_approved=lots",
	}
	for name, raw := range tests {
		t.Run(name, func(t *testing.T) {
			a, err := ParseAssignment(raw)
			require.NoError(t, err)
			assert.Error(t, Apply(newEnterpriseSession(t), sections, perms, []Assignment{a}))
		})
	}
}

func TestParseAssignment(t *testing.T) {
	a, err := ParseAssignment("ods_odp[2].phase_out_mt=1.5")
	require.NoError(t, err)
	assert.Equal(t, Assignment{Section: "ods_odp", Row: 1, Field: "phase_out_mt", Raw: "1.5"}, a)
	assert.Equal(t, "ods_odp[2].phase_out_mt=1.5", a.String())

	a, err = ParseAssignment("remarks.remarks=a=b")
	require.NoError(t, err)
	assert.Equal(t, "a=b", a.Raw)

	for _, bad := range []string{"novalue", "nosection=1", "x[0].y=1", ".y=1"} {
		_, err := ParseAssignment(bad)
		assert.Error(t, err, bad)
	}
}
