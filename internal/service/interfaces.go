package service

import (
	"context"

	"github.com/alexanderramin/mlfs/internal/api"
	"github.com/alexanderramin/mlfs/internal/domain"
	"github.com/alexanderramin/mlfs/internal/workflow"
)

// RecordAPI is the part of the REST client that reads and writes records.
// *api.Client implements it.
type RecordAPI interface {
	Get(ctx context.Context, kind domain.RecordKind, id int) (domain.Values, error)
	Create(ctx context.Context, kind domain.RecordKind, payload map[string]any) (domain.Values, error)
	Update(ctx context.Context, kind domain.RecordKind, id int, payload map[string]any) (domain.Values, error)
	Delete(ctx context.Context, kind domain.RecordKind, id int) error
	Transition(ctx context.Context, kind domain.RecordKind, id int, tr workflow.Transition) error
	PreviousTranches(ctx context.Context, projectID int) ([]api.PreviousTranche, error)
	Associate(ctx context.Context, req api.AssociateRequest) error
	Disassociate(ctx context.Context, projectID int) error
	RemoveAssociation(ctx context.Context, projectID int) error
	UploadFiles(ctx context.Context, projectID int, files []api.File) error
}

// MetadataAPI serves permissions, field descriptors and lookups.
type MetadataAPI interface {
	Permissions(ctx context.Context) (domain.Permissions, error)
	Fields(ctx context.Context, q api.FieldQuery) ([]domain.FieldDescriptor, error)
	SectorOptions(ctx context.Context, cluster, projectType int) ([]domain.Option, error)
	Substances(ctx context.Context) ([]domain.Option, error)
	Blends(ctx context.Context) ([]domain.Option, error)
}

// Notifier shows transient success and failure messages.
type Notifier interface {
	Success(msg string)
	Failure(msg string)
}

// Navigator moves the user to another screen after an action.
type Navigator interface {
	Navigate(dest Destination)
}

// Confirmer asks the user to confirm a risky step.
type Confirmer interface {
	Confirm(ctx context.Context, title, body string) (bool, error)
}

// NoopNotifier drops messages.
type NoopNotifier struct{}

func (NoopNotifier) Success(string) {}
func (NoopNotifier) Failure(string) {}

// NoopNavigator stays put.
type NoopNavigator struct{}

func (NoopNavigator) Navigate(Destination) {}

// AlwaysConfirm answers every confirmation with a fixed value, for
// non-interactive runs.
type AlwaysConfirm bool

func (a AlwaysConfirm) Confirm(context.Context, string, string) (bool, error) { return bool(a), nil }
