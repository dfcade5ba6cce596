package domain

import "fmt"

type DataType string

const (
	DataText     DataType = "text"
	DataNumber   DataType = "number"
	DataDecimal  DataType = "decimal"
	DataBoolean  DataType = "boolean"
	DataDropDown DataType = "drop_down"
)

// ValidDataTypes is the canonical set of data types the API may send.
var ValidDataTypes = map[DataType]bool{
	DataText: true, DataNumber: true, DataDecimal: true,
	DataBoolean: true, DataDropDown: true,
}

// ParseDataType validates a raw data_type string from the API.
func ParseDataType(s string) (DataType, error) {
	dt := DataType(s)
	if !ValidDataTypes[dt] {
		return "", fmt.Errorf("unknown data type %q", s)
	}
	return dt, nil
}

type RecordKind string

const (
	KindProject           RecordKind = "project"
	KindEnterprise        RecordKind = "enterprise"
	KindProjectEnterprise RecordKind = "project_enterprise"
)

// SubmissionStatus is the server-owned workflow stage of a project.
type SubmissionStatus string

const (
	StatusDraft       SubmissionStatus = "Draft"
	StatusSubmitted   SubmissionStatus = "Submitted"
	StatusRecommended SubmissionStatus = "Recommended"
	StatusApproved    SubmissionStatus = "Approved"
	StatusNotApproved SubmissionStatus = "Not approved"
	StatusWithdrawn   SubmissionStatus = "Withdrawn"

	// Link statuses for enterprises and project-enterprise records.
	StatusPendingApproval SubmissionStatus = "Pending Approval"
	StatusObsolete        SubmissionStatus = "Obsolete"
)

type Action string

const (
	ActionSave         Action = "save"
	ActionSubmit       Action = "submit"
	ActionRecommend    Action = "recommend"
	ActionWithdraw     Action = "withdraw"
	ActionSendBack     Action = "send_back_to_draft"
	ActionApprove      Action = "approve"
	ActionNotApprove   Action = "not_approve"
	ActionMarkObsolete Action = "obsolete"
)

// Display labels used in confirmations and notifications.
var actionLabels = map[Action]string{
	ActionSave:         "Save",
	ActionSubmit:       "Submit",
	ActionRecommend:    "Recommend",
	ActionWithdraw:     "Withdraw",
	ActionSendBack:     "Send back to draft",
	ActionApprove:      "Approve",
	ActionNotApprove:   "Not approve",
	ActionMarkObsolete: "Mark as obsolete",
}

func (a Action) Label() string {
	if l, ok := actionLabels[a]; ok {
		return l
	}
	return string(a)
}
