package core

import (
	"context"
	"strings"
	"time"
)

// SelectConnectedAccount applies the account-precedence rules to a candidate
// list:
//
//  1. The first account carrying the primary label wins outright, regardless
//     of app, status, or recency.
//  2. Otherwise the most recently created ACTIVE account whose app matches
//     appName (case-insensitive) wins. A strictly-later CreatedAt is required
//     to displace the current pick, so ties keep the first seen.
//
// Returns nil when no account qualifies.
func SelectConnectedAccount(accounts []ConnectedAccount, appName string) *ConnectedAccount {
	for i := range accounts {
		if accounts[i].HasLabel(PrimaryLabel) {
			picked := accounts[i]
			return &picked
		}
	}

	wantedApp := strings.ToLower(strings.TrimSpace(appName))
	var best *ConnectedAccount
	var bestCreatedAt time.Time
	for i := range accounts {
		candidate := accounts[i]
		if candidate.Status != ConnectionStatusActive {
			continue
		}
		if strings.ToLower(strings.TrimSpace(candidate.AppName)) != wantedApp {
			continue
		}
		if best == nil || candidate.CreatedAt.After(bestCreatedAt) {
			picked := candidate
			best = &picked
			bestCreatedAt = candidate.CreatedAt
		}
	}
	return best
}

// resolveConnectedAccount is the shared lookup behind GetConnection, Execute,
// and SetupTrigger. A caller-supplied account id short-circuits entity and app
// matching entirely: whatever the backend returns for that id is the answer.
func (s *Service) resolveConnectedAccount(ctx context.Context, app, entityID, connectedAccountID string) (*ConnectedAccount, error) {
	if id := strings.TrimSpace(connectedAccountID); id != "" {
		account, err := s.accountStore.Get(ctx, id)
		if err != nil {
			return nil, err
		}
		return &account, nil
	}

	accounts, err := s.accountStore.List(ctx, s.entityIDOrDefault(entityID))
	if err != nil {
		return nil, err
	}
	return SelectConnectedAccount(accounts, app), nil
}

func (s *Service) entityIDOrDefault(entityID string) string {
	if trimmed := strings.TrimSpace(entityID); trimmed != "" {
		return trimmed
	}
	if trimmed := strings.TrimSpace(s.config.EntityID); trimmed != "" {
		return trimmed
	}
	return DefaultEntityID
}

// GetConnection resolves the connected account for a request. Absence is not
// an error: an entity with no qualifying account yields a nil result. Only
// Execute and SetupTrigger escalate a missing account into a failure.
func (s *Service) GetConnection(ctx context.Context, req GetConnectionRequest) (account *ConnectedAccount, err error) {
	startedAt := time.Now()
	defer func() {
		s.observeOperation(ctx, startedAt, "get_connection", err, map[string]any{
			"app":                  req.App,
			"entity_id":            s.entityIDOrDefault(req.EntityID),
			"connected_account_id": req.ConnectedAccountID,
		})
	}()

	if s == nil || s.accountStore == nil {
		err = NormalizeError(newDependencyError("core: connected account store is not configured"))
		return nil, err
	}
	if strings.TrimSpace(req.App) == "" && strings.TrimSpace(req.ConnectedAccountID) == "" {
		err = NewInvalidParamsError("app or connected account id is required")
		return nil, err
	}

	resolved, resolveErr := s.resolveConnectedAccount(ctx, req.App, req.EntityID, req.ConnectedAccountID)
	if resolveErr != nil {
		err = NormalizeError(resolveErr)
		return nil, err
	}
	return resolved, nil
}

func (s *Service) GetConnections(ctx context.Context, entityID string) (accounts []ConnectedAccount, err error) {
	startedAt := time.Now()
	defer func() {
		s.observeOperation(ctx, startedAt, "get_connections", err, map[string]any{
			"entity_id": s.entityIDOrDefault(entityID),
		})
	}()

	if s == nil || s.accountStore == nil {
		err = NormalizeError(newDependencyError("core: connected account store is not configured"))
		return nil, err
	}
	accounts, listErr := s.accountStore.List(ctx, s.entityIDOrDefault(entityID))
	if listErr != nil {
		err = NormalizeError(listErr)
		return nil, err
	}
	return accounts, nil
}
