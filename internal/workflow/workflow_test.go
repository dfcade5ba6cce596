package workflow

import (
	"testing"

	"github.com/alexanderramin/mlfs/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func allProjectPerms() domain.Permissions {
	return domain.Permissions{
		CanViewProjects:      true,
		CanEditProjects:      true,
		CanSubmitProjects:    true,
		CanRecommendProjects: true,
		CanApproveProjects:   true,
		CanWithdrawProjects:  true,
	}
}

func TestNext_ProjectPath(t *testing.T) {
	tests := []struct {
		from   domain.SubmissionStatus
		action domain.Action
		want   domain.SubmissionStatus
	}{
		{"", domain.ActionSave, domain.StatusDraft},
		{domain.StatusDraft, domain.ActionSubmit, domain.StatusSubmitted},
		{domain.StatusSubmitted, domain.ActionRecommend, domain.StatusRecommended},
		{domain.StatusRecommended, domain.ActionApprove, domain.StatusApproved},
		{domain.StatusRecommended, domain.ActionNotApprove, domain.StatusNotApproved},
		{domain.StatusSubmitted, domain.ActionSendBack, domain.StatusDraft},
		{domain.StatusRecommended, domain.ActionSendBack, domain.StatusDraft},
		{domain.StatusDraft, domain.ActionWithdraw, domain.StatusWithdrawn},
		{domain.StatusRecommended, domain.ActionWithdraw, domain.StatusWithdrawn},
	}
	for _, tt := range tests {
		t.Run(string(tt.from)+"/"+string(tt.action), func(t *testing.T) {
			got, err := Next(domain.KindProject, tt.from, tt.action)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNext_Rejections(t *testing.T) {
	_, err := Next(domain.KindProject, domain.StatusDraft, domain.ActionApprove)
	assert.ErrorIs(t, err, ErrTransitionNotAllowed)

	_, err = Next(domain.KindProject, domain.StatusApproved, domain.ActionWithdraw)
	assert.ErrorIs(t, err, ErrTransitionNotAllowed)

	_, err = Next(domain.KindProject, "Archived", domain.ActionSave)
	assert.ErrorIs(t, err, ErrUnknownState)

	_, err = Next(domain.KindEnterprise, domain.StatusDraft, domain.ActionSave)
	assert.ErrorIs(t, err, ErrUnknownState)
}

func TestNext_LinkPath(t *testing.T) {
	got, err := Next(domain.KindEnterprise, "", domain.ActionApprove)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusApproved, got)

	got, err = Next(domain.KindProjectEnterprise, domain.StatusApproved, domain.ActionMarkObsolete)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusObsolete, got)

	_, err = Next(domain.KindProjectEnterprise, domain.StatusApproved, domain.ActionSave)
	assert.ErrorIs(t, err, ErrTransitionNotAllowed)
}

func TestAllowedActions(t *testing.T) {
	perms := allProjectPerms()
	assert.Equal(t,
		[]domain.Action{domain.ActionSave, domain.ActionSubmit, domain.ActionWithdraw},
		AllowedActions(domain.KindProject, domain.StatusDraft, perms))
	assert.Equal(t,
		[]domain.Action{domain.ActionSave, domain.ActionApprove, domain.ActionNotApprove, domain.ActionSendBack, domain.ActionWithdraw},
		AllowedActions(domain.KindProject, domain.StatusRecommended, perms))
	assert.Empty(t, AllowedActions(domain.KindProject, domain.StatusApproved, perms))

	agency := domain.Permissions{CanEditProjects: true, CanSubmitProjects: true}
	assert.Equal(t,
		[]domain.Action{domain.ActionSave},
		AllowedActions(domain.KindProject, domain.StatusSubmitted, agency))

	linkPerms := domain.Permissions{CanEditProjectEnterprise: true}
	assert.Equal(t,
		[]domain.Action{domain.ActionSave},
		AllowedActions(domain.KindProjectEnterprise, domain.StatusPendingApproval, linkPerms))
	assert.Empty(t, AllowedActions(domain.KindEnterprise, domain.StatusPendingApproval, linkPerms))
}

func TestEditableAndTerminal(t *testing.T) {
	perms := allProjectPerms()
	assert.True(t, Editable(domain.KindProject, "", perms))
	assert.False(t, Editable(domain.KindProject, domain.StatusWithdrawn, perms))
	assert.False(t, Editable(domain.KindProject, domain.StatusDraft, domain.Permissions{}))

	assert.True(t, IsTerminal(domain.KindProject, domain.StatusApproved))
	assert.True(t, IsTerminal(domain.KindEnterprise, domain.StatusObsolete))
	assert.False(t, IsTerminal(domain.KindEnterprise, domain.StatusApproved))
}

func TestActions(t *testing.T) {
	assert.Equal(t,
		[]domain.Action{domain.ActionSave, domain.ActionApprove, domain.ActionMarkObsolete},
		Actions(domain.KindEnterprise))
	assert.Len(t, Actions(domain.KindProject), 7)
}

func TestTransitionFor(t *testing.T) {
	_, ok := TransitionFor(domain.KindProject, domain.ActionSave)
	assert.False(t, ok)

	tr, ok := TransitionFor(domain.KindProject, domain.ActionSendBack)
	require.True(t, ok)
	assert.Equal(t, "send_back_to_draft/", tr.Path)
	assert.Nil(t, tr.Body)

	tr, ok = TransitionFor(domain.KindEnterprise, domain.ActionMarkObsolete)
	require.True(t, ok)
	assert.Equal(t, "change_status/", tr.Path)
	assert.Equal(t, map[string]any{"status": "Obsolete"}, tr.Body)

	assert.True(t, NeedsPreSave(domain.ActionSubmit))
	assert.True(t, NeedsPreSave(domain.ActionRecommend))
	assert.False(t, NeedsPreSave(domain.ActionApprove))
}
