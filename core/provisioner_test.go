package core

import (
	"context"
	"testing"
	"time"
)

func TestEnsureIntegrationExplicitID(t *testing.T) {
	store := &fakeIntegrationStore{
		integrations: map[string]Integration{
			"int-1": {ID: "int-1", AppName: "github"},
		},
	}
	svc := mustService(t, WithIntegrationStore(store))

	integration, err := svc.EnsureIntegration(context.Background(), InitiateConnectionRequest{IntegrationID: "int-1"})
	if err != nil {
		t.Fatalf("EnsureIntegration returned error: %v", err)
	}
	if integration.ID != "int-1" {
		t.Fatalf("integration = %q, want int-1", integration.ID)
	}
	if len(store.created) != 0 {
		t.Fatalf("explicit id must not create an integration")
	}
}

func TestEnsureIntegrationExplicitIDNotFound(t *testing.T) {
	svc := mustService(t, WithIntegrationStore(&fakeIntegrationStore{integrations: map[string]Integration{}}))

	_, err := svc.EnsureIntegration(context.Background(), InitiateConnectionRequest{IntegrationID: "missing"})
	if ErrorCode(NormalizeError(err)) != ErrorCodeIntegrationNotFound {
		t.Fatalf("code = %q, want %q", ErrorCode(NormalizeError(err)), ErrorCodeIntegrationNotFound)
	}
}

func TestEnsureIntegrationExplicitAuthMode(t *testing.T) {
	store := &fakeIntegrationStore{}
	apps := &fakeAppService{apps: map[string]App{
		"github": {Key: "github", AppID: "app-github", TestConnectors: []TestConnector{{ID: "tc-1"}}},
	}}
	when := time.Date(2026, 3, 15, 9, 30, 45, 0, time.UTC)
	svc := mustService(t,
		WithIntegrationStore(store),
		WithAppService(apps),
		WithClock(fixedClock(when)),
	)

	_, err := svc.EnsureIntegration(context.Background(), InitiateConnectionRequest{
		App:        "github",
		AuthMode:   "API_KEY",
		AuthConfig: map[string]any{"api_key": "secret"},
	})
	if err != nil {
		t.Fatalf("EnsureIntegration returned error: %v", err)
	}
	if len(store.created) != 1 {
		t.Fatalf("expected one create, got %d", len(store.created))
	}
	created := store.created[0]
	if created.AuthScheme != "API_KEY" {
		t.Fatalf("auth scheme = %q, want API_KEY", created.AuthScheme)
	}
	if created.UseComposioAuth {
		t.Fatalf("explicit auth mode must disable platform-managed auth")
	}
	if created.Name != "github_20260315_093045" {
		t.Fatalf("integration name = %q", created.Name)
	}
	if created.AppID != "app-github" {
		t.Fatalf("app id = %q, want app-github", created.AppID)
	}
}

func TestEnsureIntegrationInferredAuthUsesPlatform(t *testing.T) {
	store := &fakeIntegrationStore{}
	apps := &fakeAppService{apps: map[string]App{
		"github": {Key: "github", AppID: "app-github", TestConnectors: []TestConnector{{ID: "tc-1", AuthScheme: "OAUTH2"}}},
	}}
	svc := mustService(t, WithIntegrationStore(store), WithAppService(apps))

	_, err := svc.EnsureIntegration(context.Background(), InitiateConnectionRequest{App: "github"})
	if err != nil {
		t.Fatalf("EnsureIntegration returned error: %v", err)
	}
	created := store.created[0]
	if !created.UseComposioAuth {
		t.Fatalf("inferred auth must use platform-managed credentials")
	}
	if created.AuthScheme != "" {
		t.Fatalf("inferred auth should not pin a scheme, got %q", created.AuthScheme)
	}
}

func TestEnsureIntegrationNoAuthApp(t *testing.T) {
	store := &fakeIntegrationStore{}
	apps := &fakeAppService{apps: map[string]App{
		"weather": {Key: "weather", AppID: "app-weather", NoAuth: true},
	}}
	svc := mustService(t, WithIntegrationStore(store), WithAppService(apps))

	_, err := svc.EnsureIntegration(context.Background(), InitiateConnectionRequest{App: "weather"})
	if err != nil {
		t.Fatalf("EnsureIntegration returned error: %v", err)
	}
	if !store.created[0].UseComposioAuth {
		t.Fatalf("inferred no-auth app must opt into platform-managed auth")
	}
}

func TestEnsureIntegrationAmbiguousAuthMode(t *testing.T) {
	apps := &fakeAppService{apps: map[string]App{
		"shopify": {Key: "shopify", AppID: "app-shopify", AuthSchemes: []AuthScheme{{Mode: "OAUTH2"}, {Mode: "API_KEY"}}},
	}}
	store := &fakeIntegrationStore{}
	svc := mustService(t, WithIntegrationStore(store), WithAppService(apps))

	_, err := svc.EnsureIntegration(context.Background(), InitiateConnectionRequest{App: "shopify"})
	if ErrorCode(NormalizeError(err)) != ErrorCodeAmbiguousAuthMode {
		t.Fatalf("code = %q, want %q", ErrorCode(NormalizeError(err)), ErrorCodeAmbiguousAuthMode)
	}
	if len(store.created) != 0 {
		t.Fatalf("ambiguous auth must not reach the backend")
	}
}
