package importer

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/alexanderramin/mlfs/internal/domain"
	"github.com/alexanderramin/mlfs/internal/form"
)

func TestAssignments_CatalogOrder(t *testing.T) {
	got := Assignments(validProjectFile(t), domain.KindProject)

	want := []form.Assignment{
		{Section: "identifiers", Row: -1, Field: "cluster", Raw: "3"},
		{Section: "identifiers", Row: -1, Field: "project_type", Raw: "2"},
		{Section: "identifiers", Row: -1, Field: "sector", Raw: "7"},
		{Section: "cross_cutting", Row: -1, Field: "is_lvc", Raw: "yes"},
		{Section: "cross_cutting", Row: -1, Field: "title", Raw: "Foam conversion"},
		{Section: "cross_cutting", Row: -1, Field: "total_fund", Raw: "1500.25"},
		{Section: "ods_odp", Row: 0, Field: "co2_mt", Raw: "12.5"},
		{Section: "ods_odp", Row: 0, Field: "ods_display_name", Raw: "HCFC-141b"},
		{Section: "ods_odp", Row: 1, Field: "ods_display_name", Raw: "HFC-134a"},
	}
	assert.Equal(t, want, got)
}

func TestAssignments_RenderAsFlags(t *testing.T) {
	got := Assignments(validProjectFile(t), domain.KindProject)

	assert.Equal(t, "identifiers.cluster=3", got[0].String())
	assert.Equal(t, "ods_odp[2].ods_display_name=HFC-134a", got[len(got)-1].String())
}

func TestAssignments_SkipsUnknownSections(t *testing.T) {
	f := &RecordFile{Sections: map[string]map[string]any{
		"budget":  {"total": 1},
		"remarks": {"remarks": "ok"},
	}}

	got := Assignments(f, domain.KindEnterprise)

	assert.Equal(t, []form.Assignment{{Section: "remarks", Row: -1, Field: "remarks", Raw: "ok"}}, got)
}

func TestRawValue(t *testing.T) {
	tests := []struct {
		in   any
		want string
	}{
		{nil, ""},
		{"text", "text"},
		{true, "yes"},
		{false, "no"},
		{42, "42"},
		{int64(-7), "-7"},
		{uint64(9), "9"},
		{0.1, "0.1"},
		{2.0, "2"},
		{time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC), "2025-03-01"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, rawValue(tt.in), "%#v", tt.in)
	}
}
