package backend

import (
	"context"
	"sync"
	"testing"
	"time"

	repositorycache "github.com/goliatone/go-repository-cache/cache"

	"github.com/hussamgalal999/composio/core"
)

type stubActionService struct {
	mu    sync.Mutex
	calls int
	out   core.Action
	err   error
}

func (s *stubActionService) Get(_ context.Context, _ string) (core.Action, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	if s.err != nil {
		return core.Action{}, s.err
	}
	return s.out, nil
}

type stubAppService struct {
	mu    sync.Mutex
	calls int
	out   core.App
	err   error
}

func (s *stubAppService) Get(_ context.Context, _ string) (core.App, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	if s.err != nil {
		return core.App{}, s.err
	}
	return s.out, nil
}

func newTestCatalogCacheService(t *testing.T) repositorycache.CacheService {
	t.Helper()
	config := repositorycache.DefaultConfig()
	config.TTL = time.Minute
	service, err := repositorycache.NewCacheService(config)
	if err != nil {
		t.Fatalf("new cache service: %v", err)
	}
	return service
}

func TestCachedCatalogActionMissFetchThenHit(t *testing.T) {
	actions := &stubActionService{out: core.Action{Name: "github_star_repo", AppKey: "github"}}
	apps := &stubAppService{}
	catalog, err := NewCachedCatalog(actions, apps, newTestCatalogCacheService(t))
	if err != nil {
		t.Fatalf("new cached catalog: %v", err)
	}

	if _, err := catalog.Actions().Get(context.Background(), "github_star_repo"); err != nil {
		t.Fatalf("first get: %v", err)
	}
	if actions.calls != 1 {
		t.Fatalf("expected one base fetch, got %d", actions.calls)
	}

	action, err := catalog.Actions().Get(context.Background(), "github_star_repo")
	if err != nil {
		t.Fatalf("second get: %v", err)
	}
	if actions.calls != 1 {
		t.Fatalf("expected second get to hit the cache, base calls=%d", actions.calls)
	}
	if action.AppKey != "github" {
		t.Fatalf("cached action lost fields: %+v", action)
	}
}

func TestCachedCatalogAppKeyNormalization(t *testing.T) {
	apps := &stubAppService{out: core.App{Key: "github"}}
	catalog, err := NewCachedCatalog(&stubActionService{}, apps, newTestCatalogCacheService(t))
	if err != nil {
		t.Fatalf("new cached catalog: %v", err)
	}

	if _, err := catalog.Apps().Get(context.Background(), "GitHub"); err != nil {
		t.Fatalf("first get: %v", err)
	}
	if _, err := catalog.Apps().Get(context.Background(), " github "); err != nil {
		t.Fatalf("second get: %v", err)
	}
	if apps.calls != 1 {
		t.Fatalf("case and whitespace variants must share one cache entry, base calls=%d", apps.calls)
	}
}

func TestCachedCatalogErrorsAreNotCached(t *testing.T) {
	actions := &stubActionService{err: &core.TransportError{StatusCode: 503}}
	catalog, err := NewCachedCatalog(actions, &stubAppService{}, newTestCatalogCacheService(t))
	if err != nil {
		t.Fatalf("new cached catalog: %v", err)
	}

	if _, err := catalog.Actions().Get(context.Background(), "github_star_repo"); err == nil {
		t.Fatalf("expected the base error to surface")
	}

	actions.mu.Lock()
	actions.err = nil
	actions.out = core.Action{Name: "github_star_repo"}
	actions.mu.Unlock()

	if _, err := catalog.Actions().Get(context.Background(), "github_star_repo"); err != nil {
		t.Fatalf("fetch after recovery: %v", err)
	}
}

func TestNewCachedCatalogRequiresDependencies(t *testing.T) {
	cache := newTestCatalogCacheService(t)
	if _, err := NewCachedCatalog(nil, &stubAppService{}, cache); err == nil {
		t.Fatalf("missing action service must be rejected")
	}
	if _, err := NewCachedCatalog(&stubActionService{}, nil, cache); err == nil {
		t.Fatalf("missing app service must be rejected")
	}
	if _, err := NewCachedCatalog(&stubActionService{}, &stubAppService{}, nil); err == nil {
		t.Fatalf("missing cache service must be rejected")
	}
}
