package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/alexanderramin/mlfs/internal/api"
	"github.com/alexanderramin/mlfs/internal/domain"
	"github.com/alexanderramin/mlfs/internal/fields"
	"github.com/alexanderramin/mlfs/internal/form"
	"github.com/alexanderramin/mlfs/internal/record"
	"github.com/alexanderramin/mlfs/internal/repository"
)

// FieldCatalog serves field descriptors per (cluster, type, sector),
// caching them in sqlite for ttl. A zero ttl disables the cache.
type FieldCatalog struct {
	api      MetadataAPI
	cache    repository.FieldCacheRepo
	ttl      time.Duration
	now      func() time.Time
	observer UseCaseObserver
}

func NewFieldCatalog(metadata MetadataAPI, cache repository.FieldCacheRepo, ttl time.Duration, observers ...UseCaseObserver) *FieldCatalog {
	return &FieldCatalog{
		api:      metadata,
		cache:    cache,
		ttl:      ttl,
		now:      func() time.Time { return time.Now().UTC() },
		observer: useCaseObserverOrNoop(observers),
	}
}

// Fields returns the sorted descriptors for q, from the cache when fresh.
func (c *FieldCatalog) Fields(ctx context.Context, q api.FieldQuery) (fs []domain.FieldDescriptor, err error) {
	startedAt := time.Now()
	obs := map[string]any{"query": q.Key(), "cache_hit": false}
	defer observe(ctx, c.observer, "load-fields", startedAt, obs, &err)

	if c.ttl > 0 {
		cached, err := c.cache.Get(ctx, q.Key())
		switch {
		case err == nil && c.now().Sub(cached.FetchedAt) < c.ttl:
			obs["cache_hit"] = true
			return cached.Fields, nil
		case err != nil && !errors.Is(err, repository.ErrNotFound):
			return nil, fmt.Errorf("reading field cache: %w", err)
		}
	}
	return c.Refresh(ctx, q)
}

// Refresh fetches q from the API and replaces the cached copy.
func (c *FieldCatalog) Refresh(ctx context.Context, q api.FieldQuery) ([]domain.FieldDescriptor, error) {
	fs, err := c.api.Fields(ctx, q)
	if err != nil {
		return nil, err
	}
	fs = fields.SortFields(fs)
	if c.ttl > 0 {
		if err := c.cache.Put(ctx, q.Key(), fs); err != nil {
			return nil, fmt.Errorf("caching fields: %w", err)
		}
	}
	return fs, nil
}

// Sectors loads the sector options for a cluster and project type through
// opts, so that only the newest request's list is kept.
func (c *FieldCatalog) Sectors(ctx context.Context, opts *form.DependentOptions, cluster, projectType int) ([]domain.Option, bool, error) {
	return opts.Fetch(ctx, "sector", func(ctx context.Context) ([]domain.Option, error) {
		return c.api.SectorOptions(ctx, cluster, projectType)
	})
}

// Substances loads the substance and blend lookups and stores them in opts
// as one composite list for the substance choice field.
func (c *FieldCatalog) Substances(ctx context.Context, opts *form.DependentOptions) (list []domain.Option, err error) {
	startedAt := time.Now()
	obs := map[string]any{}
	defer observe(ctx, c.observer, "load-substances", startedAt, obs, &err)

	substances, err := c.api.Substances(ctx)
	if err != nil {
		return nil, err
	}
	blends, err := c.api.Blends(ctx)
	if err != nil {
		return nil, err
	}
	list = record.SubstanceOptions(substances, blends)
	obs["options"] = len(list)
	opts.Set(fields.FieldSubstanceChoice, list)
	return list, nil
}

// Invalidate drops every cached descriptor set.
func (c *FieldCatalog) Invalidate(ctx context.Context) error {
	return c.cache.Clear(ctx)
}
