package domain

import "time"

// Draft is an in-progress form session persisted locally so that an
// interrupted edit can be resumed.
type Draft struct {
	ID       string
	Kind     RecordKind
	RecordID *int
	Title    string
	Status   SubmissionStatus
	// FieldQuery is the key of the field descriptor set the record was
	// built from.
	FieldQuery string
	Record     Record
	Touched    []string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// SessionProfile is the cached permission set for one API server.
type SessionProfile struct {
	BaseURL     string
	Permissions Permissions
	FetchedAt   time.Time
}
