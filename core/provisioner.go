package core

import (
	"context"
	"fmt"
	"strings"
)

const integrationNameTimestampLayout = "20060102_150405"

// EnsureIntegration returns the integration a connection initiation should
// bind to: the explicitly referenced one when an id is given, otherwise a
// freshly created integration for the app.
//
// Auth-mode selection when creating:
//   - An explicit mode is used verbatim and disables platform-managed auth.
//   - Without a mode, an app that ships test connectors or needs no auth at
//     all gets platform-managed auth (the backend supplies the credentials).
//   - Anything else is ambiguous and rejected before touching the backend.
func (s *Service) EnsureIntegration(ctx context.Context, req InitiateConnectionRequest) (Integration, error) {
	if s == nil || s.integrationStore == nil {
		return Integration{}, newDependencyError("core: integration store is not configured")
	}

	if id := strings.TrimSpace(req.IntegrationID); id != "" {
		integration, err := s.integrationStore.Get(ctx, id)
		if err != nil {
			if ErrorCode(NormalizeError(err)) == ErrorCodeNotFound {
				return Integration{}, NewIntegrationNotFoundError(id)
			}
			return Integration{}, err
		}
		return integration, nil
	}

	if s.appService == nil {
		return Integration{}, newDependencyError("core: app service is not configured")
	}
	appKey := strings.TrimSpace(req.App)
	if appKey == "" {
		return Integration{}, NewInvalidParamsError("app is required to provision an integration")
	}
	app, err := s.appService.Get(ctx, appKey)
	if err != nil {
		return Integration{}, err
	}

	input := CreateIntegrationInput{
		AppID: app.AppID,
		Name:  s.integrationName(appKey),
	}
	switch {
	case strings.TrimSpace(req.AuthMode) != "":
		input.AuthScheme = strings.TrimSpace(req.AuthMode)
		input.AuthConfig = req.AuthConfig
		input.UseComposioAuth = false
	case len(app.TestConnectors) > 0:
		input.UseComposioAuth = true
	case app.NoAuth:
		input.UseComposioAuth = true
	default:
		return Integration{}, NewAmbiguousAuthModeError(appKey)
	}

	return s.integrationStore.Create(ctx, input)
}

func (s *Service) integrationName(appKey string) string {
	return fmt.Sprintf("%s_%s", appKey, s.now().UTC().Format(integrationNameTimestampLayout))
}
