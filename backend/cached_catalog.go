package backend

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	repositorycache "github.com/goliatone/go-repository-cache/cache"

	"github.com/hussamgalal999/composio/core"
)

const catalogCacheKeyPrefix = "composio::catalog::v1"

// CachedCatalog is a read-through cache over action and app metadata. The
// catalog is immutable per backend deploy, so entries are only ever filled,
// never invalidated mid-process.
type CachedCatalog struct {
	actions core.ActionService
	apps    core.AppService
	cache   repositorycache.CacheService
}

func NewCachedCatalog(
	actions core.ActionService,
	apps core.AppService,
	cacheService repositorycache.CacheService,
) (*CachedCatalog, error) {
	if actions == nil {
		return nil, fmt.Errorf("backend: base action service is required")
	}
	if apps == nil {
		return nil, fmt.Errorf("backend: base app service is required")
	}
	if cacheService == nil {
		return nil, fmt.Errorf("backend: catalog cache service is required")
	}
	return &CachedCatalog{actions: actions, apps: apps, cache: cacheService}, nil
}

// ActionCacheKey returns the deterministic cache key for an action lookup:
// composio::catalog::v1::action::<name> with the name lowercased and
// URL-path escaped.
func ActionCacheKey(actionName string) string {
	return catalogCacheKey("action", actionName)
}

func AppCacheKey(appKey string) string {
	return catalogCacheKey("app", appKey)
}

func catalogCacheKey(kind, name string) string {
	name = url.PathEscape(strings.ToLower(strings.TrimSpace(name)))
	return strings.Join([]string{catalogCacheKeyPrefix, kind, name}, "::")
}

func (c *CachedCatalog) Actions() core.ActionService {
	return cachedActions{catalog: c}
}

func (c *CachedCatalog) Apps() core.AppService {
	return cachedApps{catalog: c}
}

type cachedActions struct {
	catalog *CachedCatalog
}

func (c cachedActions) Get(ctx context.Context, actionName string) (core.Action, error) {
	catalog := c.catalog
	if catalog == nil || catalog.cache == nil {
		return core.Action{}, fmt.Errorf("backend: cached catalog is not configured")
	}
	return repositorycache.GetOrFetch(ctx, catalog.cache, ActionCacheKey(actionName), func(ctx context.Context) (core.Action, error) {
		return catalog.actions.Get(ctx, actionName)
	})
}

type cachedApps struct {
	catalog *CachedCatalog
}

func (c cachedApps) Get(ctx context.Context, appKey string) (core.App, error) {
	catalog := c.catalog
	if catalog == nil || catalog.cache == nil {
		return core.App{}, fmt.Errorf("backend: cached catalog is not configured")
	}
	return repositorycache.GetOrFetch(ctx, catalog.cache, AppCacheKey(appKey), func(ctx context.Context) (core.App, error) {
		return catalog.apps.Get(ctx, appKey)
	})
}

var (
	_ core.ActionService = cachedActions{}
	_ core.AppService    = cachedApps{}
)
