package workflow

import "github.com/alexanderramin/mlfs/internal/domain"

// Transition describes the API call for a non-save action.
type Transition struct {
	// Path is appended to the record's resource path, e.g. "submit/".
	Path string
	// Body is the JSON body, nil for an empty POST.
	Body map[string]any
}

// TransitionFor returns the endpoint for action. ok is false for save, which
// is a plain create/update rather than a transition.
func TransitionFor(kind domain.RecordKind, action domain.Action) (Transition, bool) {
	switch action {
	case domain.ActionSubmit:
		return Transition{Path: "submit/"}, true
	case domain.ActionRecommend:
		return Transition{Path: "recommend/"}, true
	case domain.ActionWithdraw:
		return Transition{Path: "withdraw/"}, true
	case domain.ActionSendBack:
		return Transition{Path: "send_back_to_draft/"}, true
	case domain.ActionApprove:
		return Transition{Path: "approve/"}, true
	case domain.ActionNotApprove:
		return Transition{Path: "change_status/", Body: map[string]any{"status": string(domain.StatusNotApproved)}}, true
	case domain.ActionMarkObsolete:
		return Transition{Path: "change_status/", Body: map[string]any{"status": string(domain.StatusObsolete)}}, true
	default:
		return Transition{}, false
	}
}

// NeedsPreSave reports whether the record must be persisted before the
// transition endpoint is called.
func NeedsPreSave(action domain.Action) bool {
	return action == domain.ActionSubmit || action == domain.ActionRecommend
}
