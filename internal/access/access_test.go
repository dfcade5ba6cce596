package access

import (
	"testing"

	"github.com/alexanderramin/mlfs/internal/domain"
	"github.com/stretchr/testify/assert"
)

func descriptors() []domain.FieldDescriptor {
	return []domain.FieldDescriptor{
		{WriteFieldName: "is_lvc", Section: "Header", Table: "project"},
		{WriteFieldName: "total_number_of_technicians_trained", Section: "Impact", Table: "project"},
		{WriteFieldName: "total_number_of_technicians_trained_actual", Section: "Impact actuals", Table: "project"},
		{WriteFieldName: "ods_substance", Section: "Substance Details", Table: "ods_odp"},
	}
}

func TestCanViewAndEditField(t *testing.T) {
	assert.True(t, CanViewField([]string{"a", "b"}, "b"))
	assert.False(t, CanViewField(nil, "b"))
	assert.True(t, CanEditField([]string{"a"}, "a"))
	assert.False(t, CanEditField([]string{"a"}, "A"))
}

func TestFieldEditable(t *testing.T) {
	editable := []string{"title"}
	assert.True(t, FieldEditable(true, editable, "title", false))
	assert.False(t, FieldEditable(false, editable, "title", false), "section permission gates the field")
	assert.False(t, FieldEditable(true, editable, "title", true), "ambient disabled flag wins")
	assert.False(t, FieldEditable(true, editable, "description", false))
}

func TestHasFields(t *testing.T) {
	all := descriptors()
	viewable := []string{"is_lvc", "total_number_of_technicians_trained_actual", "ods_substance"}

	tests := []struct {
		name    string
		section string
		opts    []HasFieldsOption
		want    bool
	}{
		{"exact section", "Header", nil, true},
		{"exact section not viewable", "Impact", nil, false},
		{"substring", "Impact", []HasFieldsOption{MatchBySubstring()}, true},
		{"substring with exclusion", "Impact", []HasFieldsOption{MatchBySubstring(), Excluding("total_number_of_technicians_trained_actual")}, false},
		{"match on table", "ods_odp", []HasFieldsOption{MatchOn(MatchTable)}, true},
		{"table name is not a section", "ods_odp", nil, false},
		{"unknown section", "Approval", nil, false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, HasFields(all, viewable, tc.section, tc.opts...))
		})
	}
}

func TestHasFields_EmptyInputs(t *testing.T) {
	assert.False(t, HasFields(nil, []string{"x"}, "Header"))
	assert.False(t, HasFields(descriptors(), nil, "Header"))
}

func TestViewableFields(t *testing.T) {
	got := ViewableFields(descriptors(), []string{"ods_substance"})
	assert.Len(t, got, 1)
	assert.Equal(t, "ods_substance", got[0].Name())
}
