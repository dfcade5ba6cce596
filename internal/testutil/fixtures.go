package testutil

import (
	"strings"
	"sync/atomic"

	"github.com/alexanderramin/mlfs/internal/domain"
	"github.com/alexanderramin/mlfs/internal/fields"
)

var testFieldIDCounter atomic.Int64

// Field options
type FieldOption func(*domain.FieldDescriptor)

func WithLabel(l string) FieldOption {
	return func(f *domain.FieldDescriptor) {
		f.Label = l
	}
}

func WithDataType(dt domain.DataType) FieldOption {
	return func(f *domain.FieldDescriptor) {
		f.DataType = dt
	}
}

func WithSection(s string) FieldOption {
	return func(f *domain.FieldDescriptor) {
		f.Section = s
	}
}

func WithTable(t string) FieldOption {
	return func(f *domain.FieldDescriptor) {
		f.Table = t
	}
}

func WithSortOrder(o int) FieldOption {
	return func(f *domain.FieldDescriptor) {
		f.SortOrder = &o
	}
}

func WithReadName(n string) FieldOption {
	return func(f *domain.FieldDescriptor) {
		f.ReadFieldName = n
	}
}

func WithOptions(opts ...domain.Option) FieldOption {
	return func(f *domain.FieldDescriptor) {
		f.DataType = domain.DataDropDown
		f.Options = opts
	}
}

func AsActual() FieldOption {
	return func(f *domain.FieldDescriptor) {
		f.IsActual = true
	}
}

func defaultLabel(name string) string {
	words := strings.Split(name, "_")
	for i, w := range words {
		if w != "" {
			words[i] = strings.ToUpper(w[:1]) + w[1:]
		}
	}
	return strings.Join(words, " ")
}

// NewTestField builds a text field in the Header section.
func NewTestField(name string, opts ...FieldOption) domain.FieldDescriptor {
	f := domain.FieldDescriptor{
		ID:             int(testFieldIDCounter.Add(1)),
		WriteFieldName: name,
		Label:          defaultLabel(name),
		DataType:       domain.DataText,
		Section:        fields.SectionHeader,
	}
	for _, opt := range opts {
		opt(&f)
	}
	return f
}

// NewTestOptions builds drop-down options with ids 1..n.
func NewTestOptions(names ...string) []domain.Option {
	out := make([]domain.Option, len(names))
	for i, n := range names {
		out[i] = domain.Option{ID: i + 1, Name: n}
	}
	return out
}

// Permissions options
type PermissionsOption func(*domain.Permissions)

func WithViewable(names ...string) PermissionsOption {
	return func(p *domain.Permissions) {
		p.ViewableFields = append(p.ViewableFields, names...)
	}
}

func WithEditable(names ...string) PermissionsOption {
	return func(p *domain.Permissions) {
		p.EditableFields = append(p.EditableFields, names...)
	}
}

// WithFieldAccess makes the fields both viewable and editable.
func WithFieldAccess(fs ...domain.FieldDescriptor) PermissionsOption {
	return func(p *domain.Permissions) {
		for _, f := range fs {
			p.ViewableFields = append(p.ViewableFields, f.Name())
			p.EditableFields = append(p.EditableFields, f.Name())
		}
	}
}

// AsAgency limits project rights to what an implementing agency holds:
// edit, submit and withdraw.
func AsAgency() PermissionsOption {
	return func(p *domain.Permissions) {
		p.CanRecommendProjects = false
		p.CanApproveProjects = false
		p.CanApproveEnterprise = false
		p.CanApproveProjectEnterprise = false
	}
}

// ReadOnly clears every edit and action flag.
func ReadOnly() PermissionsOption {
	return func(p *domain.Permissions) {
		*p = domain.Permissions{
			Username:           p.Username,
			CanViewProjects:    true,
			CanViewEnterprises: true,
			ViewableFields:     p.ViewableFields,
		}
	}
}

// NewTestPermissions starts from a secretariat user holding every flag.
func NewTestPermissions(opts ...PermissionsOption) domain.Permissions {
	p := domain.Permissions{
		Username:                    "tester",
		CanViewProjects:             true,
		CanEditProjects:             true,
		CanSubmitProjects:           true,
		CanRecommendProjects:        true,
		CanApproveProjects:          true,
		CanWithdrawProjects:         true,
		CanAssociateProjects:        true,
		CanDeleteProjects:           true,
		CanUploadFiles:              true,
		CanViewEnterprises:          true,
		CanEditEnterprise:           true,
		CanApproveEnterprise:        true,
		CanEditProjectEnterprise:    true,
		CanApproveProjectEnterprise: true,
	}
	for _, opt := range opts {
		opt(&p)
	}
	return p
}

// AllFieldPermissions grants access to every static field plus fs.
func AllFieldPermissions(fs ...domain.FieldDescriptor) domain.Permissions {
	all := append([]domain.FieldDescriptor{}, fields.IdentifierFields()...)
	all = append(all, fields.CrossCuttingFields()...)
	all = append(all, fields.EnterpriseFields()...)
	all = append(all, fields.FundingFields()...)
	all = append(all, fields.SubstanceRowFields()...)
	all = append(all, fields.RemarksFields()...)
	all = append(all, fs...)
	return NewTestPermissions(WithFieldAccess(all...))
}

// Entity options
type EntityOption func(domain.Values)

func WithValue(key string, v any) EntityOption {
	return func(e domain.Values) {
		e[key] = v
	}
}

func WithEntityStatus(s domain.SubmissionStatus) EntityOption {
	return func(e domain.Values) {
		if _, ok := e["submission_status"]; ok {
			e["submission_status"] = string(s)
			return
		}
		e["status"] = string(s)
	}
}

func WithTranche(n int) EntityOption {
	return func(e domain.Values) {
		e["tranche"] = n
	}
}

// NewTestProjectEntity builds a fetched project as the API returns it.
func NewTestProjectEntity(id int, title string, opts ...EntityOption) domain.Values {
	e := domain.Values{
		"id":                id,
		"title":             title,
		"submission_status": string(domain.StatusDraft),
		"tranche":           1,
		"country":           1,
		"meeting":           1,
		"agency":            1,
		"cluster":           1,
		"project_type":      1,
		"sector":            1,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// NewTestEnterpriseEntity builds a fetched enterprise.
func NewTestEnterpriseEntity(id int, name string, opts ...EntityOption) domain.Values {
	e := domain.Values{
		"id":      id,
		"name":    name,
		"status":  string(domain.StatusPendingApproval),
		"country": 1,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}
