package formatter

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexanderramin/mlfs/internal/domain"
	"github.com/alexanderramin/mlfs/internal/fields"
	"github.com/alexanderramin/mlfs/internal/form"
	"github.com/alexanderramin/mlfs/internal/record"
	"github.com/alexanderramin/mlfs/internal/testutil"
	"github.com/alexanderramin/mlfs/internal/validation"
)

func enterpriseSession(t *testing.T) (*form.Session, []form.Section) {
	t.Helper()
	layout := form.Layout(domain.KindEnterprise, nil)
	entity := testutil.NewTestEnterpriseEntity(9, "Foam Co",
		testutil.WithValue(fields.FieldCapitalCost, "1000"),
		testutil.WithValue(fields.FieldOperatingCost, "500"))
	sess := form.NewSession(record.Build(domain.KindEnterprise, layout, entity))
	perms := testutil.AllFieldPermissions()
	sections := form.VisibleSections(domain.KindEnterprise, nil, perms, sess.Record().Status)
	require.NotEmpty(t, sections)
	return sess, sections
}

func TestFormatRecord(t *testing.T) {
	sess, sections := enterpriseSession(t)

	out := FormatRecord(sess, sections)

	assert.Contains(t, out, "Enterprise")
	assert.Contains(t, out, "#9")
	assert.Contains(t, out, "Foam Co")
	assert.Contains(t, out, "Pending Approval")
	assert.Contains(t, out, "FUNDING")
	assert.Contains(t, out, "Funds approved")
	assert.Contains(t, out, "1500")
}

func TestFormatSection_ErrorsAfterSubmit(t *testing.T) {
	sess, sections := enterpriseSession(t)
	overview, ok := form.FindSection(sections, form.KeyOverview)
	require.True(t, ok)
	sess.SetFieldErrors(domain.ErrorMap{"name": {"Name taken."}})

	assert.NotContains(t, FormatSection(sess, overview), "Name taken.")

	sess.MarkSubmitted()
	assert.Contains(t, FormatSection(sess, overview), "Name taken.")
}

func TestFormatSessionErrors(t *testing.T) {
	sess, sections := enterpriseSession(t)
	assert.Empty(t, FormatSessionErrors(sess, sections))

	sess.SetFieldErrors(domain.ErrorMap{"name": {"Name taken."}})
	sess.SetFileErrors([]string{"Too big."})
	sess.AddOtherError("Server said no.")

	out := FormatSessionErrors(sess, sections)
	assert.Contains(t, out, "Overview > Name: Name taken.")
	assert.Contains(t, out, "Files: Too big.")
	assert.Contains(t, out, "Server said no.")
}

func TestFormatSessionErrors_GroupsServerErrorsBySection(t *testing.T) {
	sess, sections := enterpriseSession(t)
	sess.ApplyServerErrors(validation.ServerErrors{Fields: domain.ErrorMap{
		"name":                    {"Name taken."},
		fields.FieldOperatingCost: {"Must be positive."},
		"legacy_code":             {"Unknown code."},
	}})

	out := FormatSessionErrors(sess, sections)

	assert.Contains(t, out, "Overview > Name: Name taken.")
	assert.Contains(t, out, "Funding Details > ")
	assert.Contains(t, out, "Must be positive.")
	assert.Contains(t, out, "legacy_code: Unknown code.", "errors outside every section are still listed")
	assert.NotContains(t, out, "> legacy_code")
	assert.Equal(t, 1, strings.Count(out, "Name taken."))
}

func TestFormatDraftList(t *testing.T) {
	now := time.Date(2026, 2, 7, 12, 0, 0, 0, time.UTC)
	id := 12
	out := FormatDraftList([]*domain.Draft{{
		ID:        "0f3c2a9e-1111-2222-3333-444455556666",
		Kind:      domain.KindProject,
		RecordID:  &id,
		Title:     "Chiller replacement",
		Status:    domain.StatusDraft,
		Touched:   []string{"title", "description"},
		UpdatedAt: now.Add(-5 * time.Minute),
	}}, now)

	assert.Contains(t, out, "0f3c2a9e")
	assert.Contains(t, out, "#12")
	assert.Contains(t, out, "Chiller replacement")
	assert.Contains(t, out, "2 fields")
	assert.Contains(t, out, "5m ago")

	assert.Contains(t, FormatDraftList(nil, now), "No drafts saved.")
}

func TestFormatFieldList(t *testing.T) {
	out := FormatFieldList([]domain.FieldDescriptor{
		testutil.NewTestField("number_of_enterprises", testutil.WithDataType(domain.DataNumber)),
		testutil.NewTestField("technology", testutil.WithOptions(testutil.NewTestOptions("A", "B", "C", "D", "E")...)),
	})

	assert.Contains(t, out, "number_of_enterprises")
	assert.Contains(t, out, "number")
	assert.Contains(t, out, "A, B, C (+2)")
}

func TestFormatPermissions(t *testing.T) {
	out := FormatPermissions(testutil.NewTestPermissions(testutil.AsAgency()))
	assert.Contains(t, out, "tester")
	assert.Contains(t, out, "✔ submit projects")
	assert.Contains(t, out, "✖ approve projects")
}
