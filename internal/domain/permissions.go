package domain

import "slices"

// Permissions is the session's capability set. It is resolved once at
// bootstrap and passed by value; nothing in this module mutates it.
type Permissions struct {
	Username string `json:"username"`

	CanViewProjects      bool `json:"can_view_projects"`
	CanEditProjects      bool `json:"can_edit_projects"`
	CanSubmitProjects    bool `json:"can_submit_projects"`
	CanRecommendProjects bool `json:"can_recommend_projects"`
	CanApproveProjects   bool `json:"can_approve_projects"`
	CanWithdrawProjects  bool `json:"can_withdraw_projects"`
	CanAssociateProjects bool `json:"can_associate_projects"`
	CanDeleteProjects    bool `json:"can_delete_projects"`
	CanUploadFiles       bool `json:"can_upload_files"`

	CanViewEnterprises          bool `json:"can_view_enterprises"`
	CanEditEnterprise           bool `json:"can_edit_enterprise"`
	CanApproveEnterprise        bool `json:"can_approve_enterprise"`
	CanEditProjectEnterprise    bool `json:"can_edit_project_enterprise"`
	CanApproveProjectEnterprise bool `json:"can_approve_project_enterprise"`

	ViewableFields []string `json:"viewable_fields"`
	EditableFields []string `json:"editable_fields"`
}

// CanEdit reports whether records of the given kind may be edited at all.
func (p Permissions) CanEdit(kind RecordKind) bool {
	switch kind {
	case KindProject:
		return p.CanEditProjects
	case KindEnterprise:
		return p.CanEditEnterprise
	case KindProjectEnterprise:
		return p.CanEditProjectEnterprise
	default:
		return false
	}
}

// CanView reports whether records of the given kind may be viewed.
func (p Permissions) CanView(kind RecordKind) bool {
	switch kind {
	case KindProject:
		return p.CanViewProjects
	case KindEnterprise, KindProjectEnterprise:
		return p.CanViewEnterprises
	default:
		return false
	}
}

// Viewable returns a copy of the viewable field list.
func (p Permissions) Viewable() []string {
	return slices.Clone(p.ViewableFields)
}

// Editable returns a copy of the editable field list.
func (p Permissions) Editable() []string {
	return slices.Clone(p.EditableFields)
}
