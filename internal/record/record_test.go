package record

import (
	"encoding/json"
	"testing"

	"github.com/alexanderramin/mlfs/internal/domain"
	"github.com/alexanderramin/mlfs/internal/fields"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSet_PreservesSiblingsAndInput(t *testing.T) {
	r := domain.NewRecord(domain.KindProject)
	r.Sections["cross_cutting"] = domain.Values{"title": "Old", "description": "Keep me"}
	r.Values["cluster"] = 2

	got := Set(r, "cross_cutting", "title", "New")

	assert.Equal(t, "New", got.Sections["cross_cutting"]["title"])
	assert.Equal(t, "Keep me", got.Sections["cross_cutting"]["description"])
	assert.Equal(t, 2, got.Values["cluster"])
	assert.Equal(t, "Old", r.Sections["cross_cutting"]["title"], "input record must not change")
}

func TestSet_TopLevelAndNewSection(t *testing.T) {
	r := domain.NewRecord(domain.KindProject)

	got := Set(r, "", "cluster", 4)
	got = Set(got, "approval", "meeting_approved", 95)

	assert.Equal(t, 4, got.Values["cluster"])
	assert.Equal(t, 95, got.Sections["approval"]["meeting_approved"])
	assert.Empty(t, r.Values)
}

func TestMerge(t *testing.T) {
	r := domain.NewRecord(domain.KindEnterprise)
	r.Sections["overview"] = domain.Values{"name": "A", "city": "Lima"}

	got := Merge(r, "overview", domain.Values{"name": "B", "location": "Callao"})

	assert.Equal(t, domain.Values{"name": "B", "city": "Lima", "location": "Callao"}, got.Sections["overview"])
}

func TestRows_AddAndRemove(t *testing.T) {
	r := domain.NewRecord(domain.KindEnterprise)
	r.Rows["ods_odp"] = []domain.Values{{"id": 40, fields.FieldPhaseOut: "1.5"}}

	r = AddRow(r, "ods_odp", fields.SubstanceRowFields())
	r = AddRow(r, "ods_odp", fields.SubstanceRowFields())
	require.Len(t, r.Rows["ods_odp"], 3)
	assert.Equal(t, 2, r.Rows["ods_odp"][1]["id"])
	assert.Equal(t, 3, r.Rows["ods_odp"][2]["id"])
	assert.True(t, domain.IsLocalRow(r.Rows["ods_odp"][1]))
	assert.Nil(t, r.Rows["ods_odp"][1][fields.FieldSubstanceChoice])
	assert.Equal(t, "", r.Rows["ods_odp"][1][fields.FieldPhaseOut])

	// Removing the first local row goes by index.
	afterLocal := RemoveRow(r, "ods_odp", 1)
	require.Len(t, afterLocal.Rows["ods_odp"], 2)
	assert.Equal(t, 40, afterLocal.Rows["ods_odp"][0]["id"])
	assert.Equal(t, 3, afterLocal.Rows["ods_odp"][1]["id"])

	// Removing the saved row goes by server id.
	afterSaved := RemoveRow(r, "ods_odp", 0)
	require.Len(t, afterSaved.Rows["ods_odp"], 2)
	for _, row := range afterSaved.Rows["ods_odp"] {
		assert.True(t, domain.IsLocalRow(row))
	}

	assert.Len(t, r.Rows["ods_odp"], 3, "input record must not change")
	assert.Equal(t, r, RemoveRow(r, "ods_odp", 9))
}

func TestRemoveRowByID_IgnoresLocalRows(t *testing.T) {
	r := domain.NewRecord(domain.KindEnterprise)
	r.Rows["ods_odp"] = []domain.Values{{"id": 2, domain.LocalRowKey: true}, {"id": 2}}

	got := RemoveRowByID(r, "ods_odp", 2)

	require.Len(t, got.Rows["ods_odp"], 1)
	assert.True(t, domain.IsLocalRow(got.Rows["ods_odp"][0]))
}

func TestChooseSubstance_MutuallyExclusive(t *testing.T) {
	row := domain.Values{fields.FieldSubstance: 7}

	got, err := ChooseSubstance(row, BlendKey(12))
	require.NoError(t, err)
	assert.Nil(t, got[fields.FieldSubstance])
	assert.Equal(t, 12, got[fields.FieldBlend])
	assert.Equal(t, "blend_12", CurrentSubstanceKey(got))

	got, err = ChooseSubstance(got, SubstanceKey(3))
	require.NoError(t, err)
	assert.Equal(t, 3, got[fields.FieldSubstance])
	assert.Nil(t, got[fields.FieldBlend])

	got, err = ChooseSubstance(got, "")
	require.NoError(t, err)
	assert.Equal(t, "", CurrentSubstanceKey(got))

	_, err = ChooseSubstance(row, "mixture_1")
	assert.Error(t, err)
	_, err = ChooseSubstance(row, "blend_x")
	assert.Error(t, err)
}

func TestSubstanceOptions(t *testing.T) {
	got := SubstanceOptions(
		[]domain.Option{{ID: 1, Name: "HCFC-141b"}},
		[]domain.Option{{ID: 1, Name: "R-410A"}},
	)
	assert.Equal(t, []domain.Option{
		{ID: "substance_1", Name: "HCFC-141b"},
		{ID: "blend_1", Name: "R-410A"},
	}, got)
}

func enterpriseLayout() []SectionLayout {
	return []SectionLayout{
		{Key: "overview", Fields: fields.EnterpriseFields()},
		{Key: "funding", Fields: fields.FundingFields()},
		{Key: "ods_odp", Fields: fields.SubstanceRowFields(), Repeatable: true},
	}
}

func TestBuild_CreateUsesDefaults(t *testing.T) {
	r := Build(domain.KindEnterprise, enterpriseLayout(), nil)

	assert.Nil(t, r.ID)
	assert.Equal(t, "", r.Sections["overview"]["name"])
	assert.Nil(t, r.Sections["overview"]["country"])
	assert.Empty(t, r.Rows["ods_odp"])
}

func TestBuild_EditCopiesEntity(t *testing.T) {
	var entity domain.Values
	require.NoError(t, json.Unmarshal([]byte(`{
		"id": 12,
		"status": "Pending Approval",
		"name": "Foam Co",
		"capital_cost_approved": "1000",
		"operating_cost_approved": "500",
		"ods_odp": [{"id": 5, "ods_blend": 9, "phase_out_kg": "300"}]
	}`), &entity))

	r := Build(domain.KindEnterprise, enterpriseLayout(), entity)

	require.NotNil(t, r.ID)
	assert.Equal(t, 12, *r.ID)
	assert.Equal(t, domain.StatusPendingApproval, r.Status)
	assert.Equal(t, "Foam Co", r.Sections["overview"]["name"])
	assert.Equal(t, "1500", r.Sections["funding"][fields.FieldFundsApproved])
	assert.Equal(t, "5", r.Sections["funding"][fields.FieldCostEffectiveness])
	require.Len(t, r.Rows["ods_odp"], 1)
	assert.Equal(t, 5, r.Rows["ods_odp"][0]["id"])
	assert.Equal(t, "blend_9", r.Rows["ods_odp"][0][fields.FieldSubstanceChoice])
}

func TestDerive_FundsApproved(t *testing.T) {
	r := domain.NewRecord(domain.KindEnterprise)
	r.Sections["funding"] = domain.Values{
		fields.FieldCapitalCost:   "1000",
		fields.FieldOperatingCost: "500",
	}

	got := Derive(r)
	assert.Equal(t, "1500", got.Sections["funding"][fields.FieldFundsApproved])

	got = Derive(Set(got, "funding", fields.FieldOperatingCost, "750.5"))
	assert.Equal(t, "1750.5", got.Sections["funding"][fields.FieldFundsApproved])
}

func TestBuild_NestedKeepsEntityID(t *testing.T) {
	layout := []SectionLayout{{Key: "enterprise", Fields: fields.EnterpriseFields(), Nested: true}}
	entity := domain.Values{
		"id":         float64(31),
		"status":     "Pending Approval",
		"enterprise": map[string]any{"id": float64(5), "name": "Foam Co"},
	}

	r := Build(domain.KindProjectEnterprise, layout, entity)

	assert.Equal(t, 5, r.Sections["enterprise"]["id"])
	assert.Equal(t, "Foam Co", r.Sections["enterprise"]["name"])
	assert.True(t, r.Nested["enterprise"])
	payload := r.Payload()
	assert.Equal(t, 5, payload["enterprise"].(map[string]any)["id"])
}

func TestRelayout_KeepsSharedValuesAndRows(t *testing.T) {
	before := []SectionLayout{
		{Key: "cross_cutting", Fields: fields.CrossCuttingFields()},
		{Key: "ods_odp", Fields: fields.SubstanceRowFields(), Repeatable: true},
	}
	r := Build(domain.KindProject, before, nil)
	r = Set(r, "cross_cutting", "title", "Foam")
	r = AddRow(r, "ods_odp", fields.SubstanceRowFields())

	specific := domain.FieldDescriptor{WriteFieldName: "number_of_enterprises", DataType: domain.DataNumber, Section: fields.SectionHeader}
	after := append(before, SectionLayout{Key: "specific", Fields: []domain.FieldDescriptor{specific}})

	got := Relayout(r, after)

	assert.Equal(t, "Foam", got.Sections["cross_cutting"]["title"])
	require.Contains(t, got.Sections, "specific")
	assert.Contains(t, got.Sections["specific"], "number_of_enterprises")
	require.Len(t, got.Rows["ods_odp"], 1)
	assert.True(t, domain.IsLocalRow(got.Rows["ods_odp"][0]))

	dropped := Relayout(got, before[:1])
	assert.NotContains(t, dropped.Sections, "specific")
	assert.NotContains(t, dropped.Rows, "ods_odp")
}
