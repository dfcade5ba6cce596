package service

import (
	"context"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexanderramin/mlfs/internal/api"
	"github.com/alexanderramin/mlfs/internal/domain"
	"github.com/alexanderramin/mlfs/internal/testutil"
)

func TestAssociate(t *testing.T) {
	h := newHarness(t)
	lead := 7

	require.NoError(t, h.svc.Associate(context.Background(), []int{1, 2, 3}, &lead))

	assert.Equal(t, [][]int{{1, 2, 3}}, h.fake.Associations())
	assert.Empty(t, h.ui.confirms, "associating needs no confirmation")
	assert.Len(t, h.ui.successes, 1)
}

func TestAssociate_NeedsTwoProjects(t *testing.T) {
	h := newHarness(t)

	err := h.svc.Associate(context.Background(), []int{1}, nil)

	assert.ErrorIs(t, err, ErrGuardFailed)
	assert.Empty(t, h.fake.CallLog())
}

func TestDestructiveActions(t *testing.T) {
	tests := []struct {
		name string
		path string
		run  func(*SubmissionService) error
	}{
		{"disassociate", "POST /api/projects/v2/12/disassociate_component/", func(s *SubmissionService) error {
			return s.Disassociate(context.Background(), 12)
		}},
		{"remove association", "POST /api/projects/v2/12/remove_association/", func(s *SubmissionService) error {
			return s.RemoveAssociation(context.Background(), 12)
		}},
		{"delete", "DELETE /api/projects/v2/12/", func(s *SubmissionService) error {
			return s.Delete(context.Background(), domain.KindProject, 12)
		}},
	}
	for _, tc := range tests {
		t.Run(tc.name+" declined", func(t *testing.T) {
			h := newHarness(t)
			h.fake.PutRecord(domain.KindProject, testutil.NewTestProjectEntity(12, "Chiller"))

			err := tc.run(h.svc)

			assert.ErrorIs(t, err, ErrCancelled)
			assert.Empty(t, h.fake.CallLog())
			require.Len(t, h.ui.bodies, 1)
			assert.Equal(t, MsgAttachmentRisk, h.ui.bodies[0])
		})
		t.Run(tc.name+" confirmed", func(t *testing.T) {
			h := newHarness(t)
			h.ui.answer = true
			h.fake.PutRecord(domain.KindProject, testutil.NewTestProjectEntity(12, "Chiller"))

			require.NoError(t, tc.run(h.svc))

			assert.Equal(t, []string{tc.path}, h.fake.CallLog())
			assert.Len(t, h.ui.successes, 1)
		})
	}
}

func TestDelete_FailureNotifies(t *testing.T) {
	h := newHarness(t)
	h.ui.answer = true
	h.fake.FailNext(http.MethodDelete, "/api/enterprises/4/", http.StatusInternalServerError, map[string]any{})

	err := h.svc.Delete(context.Background(), domain.KindEnterprise, 4)

	require.Error(t, err)
	assert.Equal(t, []string{"Delete Enterprise #4 failed."}, h.ui.failures)
}

func TestUploadFiles(t *testing.T) {
	h := newHarness(t)
	id := h.fake.PutRecord(domain.KindProject, testutil.NewTestProjectEntity(12, "Chiller"))
	sess, _ := h.open(t, domain.KindProject, id, nil)

	err := h.svc.UploadFiles(context.Background(), sess, []api.File{
		{Name: "report.pdf", Reader: strings.NewReader("%PDF")},
		{Name: "budget.xlsx", Reader: strings.NewReader("xlsx")},
	})

	require.NoError(t, err)
	assert.Equal(t, []string{"report.pdf", "budget.xlsx"}, h.fake.Uploads(12))
	assert.Empty(t, sess.FileErrors())
	assert.False(t, sess.Loading())
}

func TestUploadFiles_ServerRejects(t *testing.T) {
	h := newHarness(t)
	id := h.fake.PutRecord(domain.KindProject, testutil.NewTestProjectEntity(12, "Chiller"))
	sess, _ := h.open(t, domain.KindProject, id, nil)
	h.fake.FailNext(http.MethodPost, "/api/projects/v2/12/upload/", http.StatusBadRequest, map[string]any{
		"files":   []string{"File too large."},
		"details": "Upload rejected.",
	})

	err := h.svc.UploadFiles(context.Background(), sess, []api.File{{Name: "huge.zip", Reader: strings.NewReader("zip")}})

	require.Error(t, err)
	assert.Equal(t, []string{"File too large."}, sess.FileErrors())
	assert.Equal(t, []string{"Upload rejected."}, sess.OtherErrors())
	assert.Equal(t, []string{"Upload failed."}, h.ui.failures)
}

func TestUploadFiles_NeedsSavedRecord(t *testing.T) {
	h := newHarness(t)
	sess, _ := newProject(t)

	err := h.svc.UploadFiles(context.Background(), sess, []api.File{{Name: "a.txt", Reader: strings.NewReader("a")}})

	assert.ErrorIs(t, err, ErrNotSaved)
	assert.Empty(t, h.fake.CallLog())
}
