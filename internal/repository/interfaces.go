package repository

import (
	"context"
	"errors"
	"time"

	"github.com/alexanderramin/mlfs/internal/domain"
)

// ErrNotFound is returned when a lookup matches no row.
var ErrNotFound = errors.New("not found")

// CachedFields is a field descriptor set with the time it was fetched.
type CachedFields struct {
	Fields    []domain.FieldDescriptor
	FetchedAt time.Time
}

type FieldCacheRepo interface {
	Get(ctx context.Context, key string) (*CachedFields, error)
	Put(ctx context.Context, key string, fields []domain.FieldDescriptor) error
	Delete(ctx context.Context, key string) error
	Clear(ctx context.Context) error
}

type DraftRepo interface {
	Save(ctx context.Context, d *domain.Draft) error
	GetByID(ctx context.Context, id string) (*domain.Draft, error)
	FindByRecord(ctx context.Context, kind domain.RecordKind, recordID *int) (*domain.Draft, error)
	List(ctx context.Context) ([]*domain.Draft, error)
	Delete(ctx context.Context, id string) error
}

type SessionProfileRepo interface {
	Get(ctx context.Context) (*domain.SessionProfile, error)
	Upsert(ctx context.Context, p *domain.SessionProfile) error
	Clear(ctx context.Context) error
}
