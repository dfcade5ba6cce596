// Package workflow enumerates the submission states and the actions that
// move a record between them. The server enforces transitions; this table
// mirrors it so that the client offers only the actions that can succeed.
package workflow

import (
	"errors"
	"fmt"

	"github.com/alexanderramin/mlfs/internal/domain"
)

var (
	// ErrUnknownState indicates a status string that is not part of the
	// record kind's workflow.
	ErrUnknownState = errors.New("unknown workflow state")

	// ErrTransitionNotAllowed indicates an action that the current state
	// does not accept.
	ErrTransitionNotAllowed = errors.New("transition not allowed")
)

// Table maps state -> action -> next state.
type Table map[domain.SubmissionStatus]map[domain.Action]domain.SubmissionStatus

var projectTable = Table{
	domain.StatusDraft: {
		domain.ActionSave:     domain.StatusDraft,
		domain.ActionSubmit:   domain.StatusSubmitted,
		domain.ActionWithdraw: domain.StatusWithdrawn,
	},
	domain.StatusSubmitted: {
		domain.ActionSave:      domain.StatusSubmitted,
		domain.ActionRecommend: domain.StatusRecommended,
		domain.ActionSendBack:  domain.StatusDraft,
		domain.ActionWithdraw:  domain.StatusWithdrawn,
	},
	domain.StatusRecommended: {
		domain.ActionSave:       domain.StatusRecommended,
		domain.ActionApprove:    domain.StatusApproved,
		domain.ActionNotApprove: domain.StatusNotApproved,
		domain.ActionSendBack:   domain.StatusDraft,
		domain.ActionWithdraw:   domain.StatusWithdrawn,
	},
	domain.StatusApproved:    {},
	domain.StatusNotApproved: {},
	domain.StatusWithdrawn:   {},
}

var linkTable = Table{
	domain.StatusPendingApproval: {
		domain.ActionSave:         domain.StatusPendingApproval,
		domain.ActionApprove:      domain.StatusApproved,
		domain.ActionMarkObsolete: domain.StatusObsolete,
	},
	domain.StatusApproved: {
		domain.ActionMarkObsolete: domain.StatusObsolete,
	},
	domain.StatusObsolete: {},
}

// TableFor returns the transition table of a record kind.
func TableFor(kind domain.RecordKind) Table {
	if kind == domain.KindProject {
		return projectTable
	}
	return linkTable
}

// InitialState is the state of a record that has not been saved yet.
func InitialState(kind domain.RecordKind) domain.SubmissionStatus {
	if kind == domain.KindProject {
		return domain.StatusDraft
	}
	return domain.StatusPendingApproval
}

// Normalize maps the empty status of an unsaved record to the initial state.
func Normalize(kind domain.RecordKind, s domain.SubmissionStatus) domain.SubmissionStatus {
	if s == "" {
		return InitialState(kind)
	}
	return s
}

// Next validates action against the table and returns the resulting state.
func Next(kind domain.RecordKind, current domain.SubmissionStatus, action domain.Action) (domain.SubmissionStatus, error) {
	current = Normalize(kind, current)
	actions, ok := TableFor(kind)[current]
	if !ok {
		return "", fmt.Errorf("%w: %q for %s", ErrUnknownState, current, kind)
	}
	next, ok := actions[action]
	if !ok {
		return "", fmt.Errorf("%w: %s from %q", ErrTransitionNotAllowed, action, current)
	}
	return next, nil
}

// IsTerminal reports whether no action is available from the state.
func IsTerminal(kind domain.RecordKind, s domain.SubmissionStatus) bool {
	return len(TableFor(kind)[Normalize(kind, s)]) == 0
}

// actionOrder fixes the order in which actions are offered.
var actionOrder = []domain.Action{
	domain.ActionSave,
	domain.ActionSubmit,
	domain.ActionRecommend,
	domain.ActionApprove,
	domain.ActionNotApprove,
	domain.ActionSendBack,
	domain.ActionWithdraw,
	domain.ActionMarkObsolete,
}

// AllowedActions lists the actions the state accepts and the permission set
// grants, in display order. This is the only place button availability is
// decided.
func AllowedActions(kind domain.RecordKind, current domain.SubmissionStatus, perms domain.Permissions) []domain.Action {
	actions := TableFor(kind)[Normalize(kind, current)]
	var out []domain.Action
	for _, a := range actionOrder {
		if _, ok := actions[a]; ok && Permitted(kind, a, perms) {
			out = append(out, a)
		}
	}
	return out
}

// Actions lists every action a kind's workflow knows about.
func Actions(kind domain.RecordKind) []domain.Action {
	seen := map[domain.Action]bool{}
	for _, actions := range TableFor(kind) {
		for a := range actions {
			seen[a] = true
		}
	}
	var out []domain.Action
	for _, a := range actionOrder {
		if seen[a] {
			out = append(out, a)
		}
	}
	return out
}

// Permitted maps an action to the permission flag that gates it.
func Permitted(kind domain.RecordKind, action domain.Action, p domain.Permissions) bool {
	switch kind {
	case domain.KindProject:
		switch action {
		case domain.ActionSave:
			return p.CanEditProjects
		case domain.ActionSubmit:
			return p.CanSubmitProjects
		case domain.ActionRecommend, domain.ActionSendBack:
			return p.CanRecommendProjects
		case domain.ActionApprove, domain.ActionNotApprove:
			return p.CanApproveProjects
		case domain.ActionWithdraw:
			return p.CanWithdrawProjects
		}
	case domain.KindEnterprise:
		switch action {
		case domain.ActionSave:
			return p.CanEditEnterprise
		case domain.ActionApprove, domain.ActionMarkObsolete:
			return p.CanApproveEnterprise
		}
	case domain.KindProjectEnterprise:
		switch action {
		case domain.ActionSave:
			return p.CanEditProjectEnterprise
		case domain.ActionApprove, domain.ActionMarkObsolete:
			return p.CanApproveProjectEnterprise
		}
	}
	return false
}

// Editable reports whether a record in the given state may be edited by the
// permission set. Records in a terminal state, or where save is not
// offered, are view-only.
func Editable(kind domain.RecordKind, current domain.SubmissionStatus, perms domain.Permissions) bool {
	_, ok := TableFor(kind)[Normalize(kind, current)][domain.ActionSave]
	return ok && Permitted(kind, domain.ActionSave, perms)
}
