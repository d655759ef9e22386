package core

import (
	"context"
	"testing"
	"time"
)

type fakeActionService struct {
	actions map[string]Action
	err     error
	calls   []string
}

func (f *fakeActionService) Get(_ context.Context, actionName string) (Action, error) {
	f.calls = append(f.calls, actionName)
	if f.err != nil {
		return Action{}, f.err
	}
	action, ok := f.actions[actionName]
	if !ok {
		return Action{}, &TransportError{Method: "GET", BaseURL: "https://backend.test/api", Path: "/v2/actions/" + actionName, StatusCode: 404}
	}
	return action, nil
}

type fakeAppService struct {
	apps  map[string]App
	err   error
	calls []string
}

func (f *fakeAppService) Get(_ context.Context, appKey string) (App, error) {
	f.calls = append(f.calls, appKey)
	if f.err != nil {
		return App{}, f.err
	}
	app, ok := f.apps[appKey]
	if !ok {
		return App{}, &TransportError{Method: "GET", BaseURL: "https://backend.test/api", Path: "/v1/apps/" + appKey, StatusCode: 404}
	}
	return app, nil
}

type fakeAccountStore struct {
	accounts     []ConnectedAccount
	byID         map[string]ConnectedAccount
	initiated    []InitiateAccountInput
	initiateResp ConnectionRequest
	listErr      error
	getErr       error
	initiateErr  error
	listCalls    int
	getCalls     int
}

func (f *fakeAccountStore) List(_ context.Context, entityID string) ([]ConnectedAccount, error) {
	f.listCalls++
	if f.listErr != nil {
		return nil, f.listErr
	}
	var matched []ConnectedAccount
	for _, account := range f.accounts {
		if account.EntityID == entityID {
			matched = append(matched, account)
		}
	}
	return matched, nil
}

func (f *fakeAccountStore) Get(_ context.Context, connectedAccountID string) (ConnectedAccount, error) {
	f.getCalls++
	if f.getErr != nil {
		return ConnectedAccount{}, f.getErr
	}
	account, ok := f.byID[connectedAccountID]
	if !ok {
		return ConnectedAccount{}, &TransportError{Method: "GET", BaseURL: "https://backend.test/api", Path: "/v1/connectedAccounts/" + connectedAccountID, StatusCode: 404}
	}
	return account, nil
}

func (f *fakeAccountStore) Initiate(_ context.Context, in InitiateAccountInput) (ConnectionRequest, error) {
	f.initiated = append(f.initiated, in)
	if f.initiateErr != nil {
		return ConnectionRequest{}, f.initiateErr
	}
	return f.initiateResp, nil
}

type fakeIntegrationStore struct {
	integrations map[string]Integration
	created      []CreateIntegrationInput
	createResp   Integration
	getErr       error
	createErr    error
}

func (f *fakeIntegrationStore) Get(_ context.Context, integrationID string) (Integration, error) {
	if f.getErr != nil {
		return Integration{}, f.getErr
	}
	integration, ok := f.integrations[integrationID]
	if !ok {
		return Integration{}, &TransportError{Method: "GET", BaseURL: "https://backend.test/api", Path: "/v1/integrations/" + integrationID, StatusCode: 404}
	}
	return integration, nil
}

func (f *fakeIntegrationStore) Create(_ context.Context, in CreateIntegrationInput) (Integration, error) {
	f.created = append(f.created, in)
	if f.createErr != nil {
		return Integration{}, f.createErr
	}
	resp := f.createResp
	if resp.ID == "" {
		resp.ID = "integration-1"
	}
	if resp.Name == "" {
		resp.Name = in.Name
	}
	return resp, nil
}

type fakeExecutionEndpoint struct {
	requests []ExecutionRequest
	result   ExecutionResult
	err      error
}

func (f *fakeExecutionEndpoint) Execute(_ context.Context, req ExecutionRequest) (ExecutionResult, error) {
	f.requests = append(f.requests, req)
	if f.err != nil {
		return ExecutionResult{}, f.err
	}
	return f.result, nil
}

type fakeTriggerService struct {
	enabled     []EnableTriggerInput
	disabled    []string
	active      []TriggerSubscription
	enableResp  TriggerSubscription
	enableErr   error
	listErr     error
	disableErr  error
	activeCalls int
}

func (f *fakeTriggerService) Enable(_ context.Context, in EnableTriggerInput) (TriggerSubscription, error) {
	f.enabled = append(f.enabled, in)
	if f.enableErr != nil {
		return TriggerSubscription{}, f.enableErr
	}
	return f.enableResp, nil
}

func (f *fakeTriggerService) ListActive(_ context.Context, _ ActiveTriggersFilter) ([]TriggerSubscription, error) {
	f.activeCalls++
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.active, nil
}

func (f *fakeTriggerService) Disable(_ context.Context, triggerID string) error {
	f.disabled = append(f.disabled, triggerID)
	return f.disableErr
}

type fakeActivitySink struct {
	entries []ActivityEntry
	err     error
}

func (f *fakeActivitySink) Record(_ context.Context, entry ActivityEntry) error {
	if f.err != nil {
		return f.err
	}
	f.entries = append(f.entries, entry)
	return nil
}

func (f *fakeActivitySink) List(_ context.Context, _ ActivityFilter) (ActivityPage, error) {
	if f.err != nil {
		return ActivityPage{}, f.err
	}
	return ActivityPage{Items: f.entries, Total: len(f.entries)}, nil
}

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func mustService(t *testing.T, options ...Option) *Service {
	t.Helper()
	svc, err := NewService(Config{}, options...)
	if err != nil {
		t.Fatalf("NewService returned error: %v", err)
	}
	return svc
}

func accountAt(id, app, entity string, status ConnectionStatus, createdAt time.Time, labels ...string) ConnectedAccount {
	return ConnectedAccount{
		ID:        id,
		AppName:   app,
		EntityID:  entity,
		Status:    status,
		Labels:    labels,
		CreatedAt: createdAt,
	}
}
