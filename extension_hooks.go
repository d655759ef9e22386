package composio

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/hussamgalal999/composio/core"
)

// ActionPack bundles locally defined action metadata for an app. Packs let
// integrators serve catalog entries without a backend round trip, e.g. for
// custom no-auth tools.
type ActionPack struct {
	Name    string
	AppKey  string
	Actions []core.Action
}

type CommandQueryBundleFactory func(service CommandQueryService) (any, error)

// ExtensionHooks collects integrator-supplied extensions before the service
// is assembled: transport adapters keyed by kind, local action packs, and
// named command/query bundles.
type ExtensionHooks struct {
	mu sync.RWMutex

	adapters    map[string]core.TransportAdapter
	actionPacks map[string]ActionPack
	bundles     map[string]CommandQueryBundleFactory
}

func NewExtensionHooks() *ExtensionHooks {
	return &ExtensionHooks{
		adapters:    map[string]core.TransportAdapter{},
		actionPacks: map[string]ActionPack{},
		bundles:     map[string]CommandQueryBundleFactory{},
	}
}

func (h *ExtensionHooks) RegisterTransportAdapter(adapter core.TransportAdapter) error {
	if h == nil {
		return fmt.Errorf("composio: extension hooks are nil")
	}
	if adapter == nil {
		return fmt.Errorf("composio: transport adapter is required")
	}
	kind := strings.TrimSpace(strings.ToLower(adapter.Kind()))
	if kind == "" {
		return fmt.Errorf("composio: transport adapter kind is required")
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	if _, exists := h.adapters[kind]; exists {
		return fmt.Errorf("composio: transport adapter %q already registered", kind)
	}
	h.adapters[kind] = adapter
	return nil
}

func (h *ExtensionHooks) TransportAdapter(kind string) (core.TransportAdapter, bool) {
	if h == nil {
		return nil, false
	}
	kind = strings.TrimSpace(strings.ToLower(kind))
	h.mu.RLock()
	defer h.mu.RUnlock()
	adapter, ok := h.adapters[kind]
	return adapter, ok
}

func (h *ExtensionHooks) TransportAdapterKinds() []string {
	if h == nil {
		return nil
	}
	h.mu.RLock()
	defer h.mu.RUnlock()
	kinds := make([]string, 0, len(h.adapters))
	for kind := range h.adapters {
		kinds = append(kinds, kind)
	}
	sort.Strings(kinds)
	return kinds
}

func (h *ExtensionHooks) RegisterActionPack(pack ActionPack) error {
	if h == nil {
		return fmt.Errorf("composio: extension hooks are nil")
	}
	name := strings.TrimSpace(pack.Name)
	appKey := strings.TrimSpace(strings.ToLower(pack.AppKey))
	if name == "" {
		return fmt.Errorf("composio: action pack name is required")
	}
	if appKey == "" {
		return fmt.Errorf("composio: action pack %q app key is required", name)
	}
	if len(pack.Actions) == 0 {
		return fmt.Errorf("composio: action pack %q has no actions", name)
	}

	normalized := ActionPack{
		Name:    name,
		AppKey:  appKey,
		Actions: append([]core.Action(nil), pack.Actions...),
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	if _, exists := h.actionPacks[name]; exists {
		return fmt.Errorf("composio: action pack %q already registered", name)
	}
	h.actionPacks[name] = normalized
	return nil
}

func (h *ExtensionHooks) ActionsForApp(appKey string) []core.Action {
	if h == nil {
		return nil
	}
	appKey = strings.TrimSpace(strings.ToLower(appKey))
	h.mu.RLock()
	defer h.mu.RUnlock()

	packNames := make([]string, 0, len(h.actionPacks))
	for name, pack := range h.actionPacks {
		if pack.AppKey == appKey {
			packNames = append(packNames, name)
		}
	}
	sort.Strings(packNames)

	out := []core.Action{}
	for _, name := range packNames {
		out = append(out, h.actionPacks[name].Actions...)
	}
	return append([]core.Action(nil), out...)
}

func (h *ExtensionHooks) RegisterCommandQueryBundle(
	name string,
	factory CommandQueryBundleFactory,
) error {
	if h == nil {
		return fmt.Errorf("composio: extension hooks are nil")
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return fmt.Errorf("composio: command/query bundle name is required")
	}
	if factory == nil {
		return fmt.Errorf("composio: command/query bundle %q factory is required", name)
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	if _, exists := h.bundles[name]; exists {
		return fmt.Errorf("composio: command/query bundle %q already registered", name)
	}
	h.bundles[name] = factory
	return nil
}

func (h *ExtensionHooks) BuildCommandQueryBundles(
	service CommandQueryService,
) (map[string]any, error) {
	if h == nil {
		return map[string]any{}, nil
	}
	if service == nil {
		return nil, fmt.Errorf("composio: command/query service is required")
	}

	h.mu.RLock()
	names := make([]string, 0, len(h.bundles))
	for name := range h.bundles {
		names = append(names, name)
	}
	sort.Strings(names)
	factories := make(map[string]CommandQueryBundleFactory, len(h.bundles))
	for name, factory := range h.bundles {
		factories[name] = factory
	}
	h.mu.RUnlock()

	result := make(map[string]any, len(names))
	for _, name := range names {
		bundle, err := factories[name](service)
		if err != nil {
			return nil, err
		}
		result[name] = bundle
	}
	return result, nil
}

func (h *ExtensionHooks) BundleNames() []string {
	if h == nil {
		return nil
	}
	h.mu.RLock()
	defer h.mu.RUnlock()
	names := make([]string, 0, len(h.bundles))
	for name := range h.bundles {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
