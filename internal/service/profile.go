package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/alexanderramin/mlfs/internal/domain"
	"github.com/alexanderramin/mlfs/internal/repository"
)

// SessionProfileService resolves the permission set once per API server
// and keeps it in sqlite. The returned value is never mutated afterwards.
type SessionProfileService struct {
	api      MetadataAPI
	repo     repository.SessionProfileRepo
	baseURL  string
	observer UseCaseObserver
}

func NewSessionProfileService(metadata MetadataAPI, repo repository.SessionProfileRepo, baseURL string, observers ...UseCaseObserver) *SessionProfileService {
	return &SessionProfileService{
		api:      metadata,
		repo:     repo,
		baseURL:  baseURL,
		observer: useCaseObserverOrNoop(observers),
	}
}

// Permissions returns the cached permission set for the configured server,
// fetching it when absent, cached for another server, or refresh is set.
func (s *SessionProfileService) Permissions(ctx context.Context, refresh bool) (perms domain.Permissions, err error) {
	startedAt := time.Now()
	fields := map[string]any{"refresh": refresh, "cached": false}
	defer observe(ctx, s.observer, "load-permissions", startedAt, fields, &err)

	if !refresh {
		p, err := s.repo.Get(ctx)
		switch {
		case err == nil && p.BaseURL == s.baseURL:
			fields["cached"] = true
			return p.Permissions, nil
		case err != nil && !errors.Is(err, repository.ErrNotFound):
			return domain.Permissions{}, fmt.Errorf("reading session profile: %w", err)
		}
	}

	perms, err = s.api.Permissions(ctx)
	if err != nil {
		return domain.Permissions{}, err
	}
	profile := &domain.SessionProfile{BaseURL: s.baseURL, Permissions: perms, FetchedAt: time.Now().UTC()}
	if err := s.repo.Upsert(ctx, profile); err != nil {
		return domain.Permissions{}, fmt.Errorf("saving session profile: %w", err)
	}
	return perms, nil
}

// Forget drops the cached profile.
func (s *SessionProfileService) Forget(ctx context.Context) error {
	return s.repo.Clear(ctx)
}
