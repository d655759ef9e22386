package command

import (
	"context"
	"testing"

	gocmd "github.com/goliatone/go-command"

	"github.com/hussamgalal999/composio/core"
)

type stubMutatingService struct {
	executeFn            func(ctx context.Context, req core.ExecuteRequest) (core.ExecutionResult, error)
	initiateConnectionFn func(ctx context.Context, req core.InitiateConnectionRequest) (core.ConnectionRequest, error)
	setupTriggerFn       func(ctx context.Context, req core.SetupTriggerRequest) (core.TriggerSubscription, error)
	disableTriggerFn     func(ctx context.Context, triggerID string) error
}

func (s stubMutatingService) Execute(ctx context.Context, req core.ExecuteRequest) (core.ExecutionResult, error) {
	if s.executeFn == nil {
		return core.ExecutionResult{}, nil
	}
	return s.executeFn(ctx, req)
}

func (s stubMutatingService) InitiateConnection(ctx context.Context, req core.InitiateConnectionRequest) (core.ConnectionRequest, error) {
	if s.initiateConnectionFn == nil {
		return core.ConnectionRequest{}, nil
	}
	return s.initiateConnectionFn(ctx, req)
}

func (s stubMutatingService) SetupTrigger(ctx context.Context, req core.SetupTriggerRequest) (core.TriggerSubscription, error) {
	if s.setupTriggerFn == nil {
		return core.TriggerSubscription{}, nil
	}
	return s.setupTriggerFn(ctx, req)
}

func (s stubMutatingService) DisableTrigger(ctx context.Context, triggerID string) error {
	if s.disableTriggerFn == nil {
		return nil
	}
	return s.disableTriggerFn(ctx, triggerID)
}

func TestExecuteActionCommand_DelegatesAndStoresResult(t *testing.T) {
	expected := core.ExecutionResult{Successful: true, Data: map[string]any{"starred": true}}
	called := false

	svc := stubMutatingService{
		executeFn: func(_ context.Context, req core.ExecuteRequest) (core.ExecutionResult, error) {
			called = true
			if req.Action != "github_star_repo" {
				t.Fatalf("expected action github_star_repo, got %q", req.Action)
			}
			return expected, nil
		},
	}

	cmd := NewExecuteActionCommand(svc)
	collector := gocmd.NewResult[core.ExecutionResult]()
	ctx := gocmd.ContextWithResult(context.Background(), collector)

	err := cmd.Execute(ctx, ExecuteActionMessage{Request: core.ExecuteRequest{
		Action: "github_star_repo",
		Params: map[string]any{"repo": "bun"},
	}})
	if err != nil {
		t.Fatalf("execute action: %v", err)
	}
	if !called {
		t.Fatalf("expected service invocation")
	}
	result, ok := collector.Load()
	if !ok {
		t.Fatalf("expected result to be stored")
	}
	if !result.Successful {
		t.Fatalf("unexpected result: %#v", result)
	}
}

func TestInitiateConnectionCommand_StoresConnectionRequest(t *testing.T) {
	expected := core.ConnectionRequest{ConnectedAccountID: "conn-1", RedirectURL: "https://auth.test/flow"}
	svc := stubMutatingService{
		initiateConnectionFn: func(_ context.Context, req core.InitiateConnectionRequest) (core.ConnectionRequest, error) {
			if req.App != "github" {
				t.Fatalf("expected app github, got %q", req.App)
			}
			return expected, nil
		},
	}

	cmd := NewInitiateConnectionCommand(svc)
	collector := gocmd.NewResult[core.ConnectionRequest]()
	ctx := gocmd.ContextWithResult(context.Background(), collector)

	if err := cmd.Execute(ctx, InitiateConnectionMessage{Request: core.InitiateConnectionRequest{App: "github"}}); err != nil {
		t.Fatalf("initiate connection: %v", err)
	}
	result, ok := collector.Load()
	if !ok {
		t.Fatalf("expected result to be stored")
	}
	if result.ConnectedAccountID != "conn-1" {
		t.Fatalf("unexpected result: %#v", result)
	}
}

func TestDisableTriggerCommand_Delegates(t *testing.T) {
	called := false
	svc := stubMutatingService{
		disableTriggerFn: func(_ context.Context, triggerID string) error {
			called = true
			if triggerID != "trig-1" {
				t.Fatalf("unexpected trigger id %q", triggerID)
			}
			return nil
		},
	}

	cmd := NewDisableTriggerCommand(svc)
	if err := cmd.Execute(context.Background(), DisableTriggerMessage{TriggerID: "trig-1"}); err != nil {
		t.Fatalf("disable trigger: %v", err)
	}
	if !called {
		t.Fatalf("expected disable invocation")
	}
}

func TestCommands_RequireService(t *testing.T) {
	if err := (&ExecuteActionCommand{}).Execute(context.Background(), ExecuteActionMessage{}); err == nil {
		t.Fatalf("expected dependency error")
	}
	if err := (&SetupTriggerCommand{}).Execute(context.Background(), SetupTriggerMessage{}); err == nil {
		t.Fatalf("expected dependency error")
	}
}

func TestMessageValidation(t *testing.T) {
	cases := []struct {
		name    string
		message interface{ Validate() error }
		wantErr bool
	}{
		{name: "execute missing action", message: ExecuteActionMessage{}, wantErr: true},
		{name: "execute valid", message: ExecuteActionMessage{Request: core.ExecuteRequest{Action: "a"}}},
		{name: "initiate missing target", message: InitiateConnectionMessage{}, wantErr: true},
		{name: "initiate with integration id", message: InitiateConnectionMessage{Request: core.InitiateConnectionRequest{IntegrationID: "int-1"}}},
		{name: "setup missing trigger name", message: SetupTriggerMessage{Request: core.SetupTriggerRequest{App: "github"}}, wantErr: true},
		{name: "setup valid", message: SetupTriggerMessage{Request: core.SetupTriggerRequest{App: "github", TriggerName: "t"}}},
		{name: "disable missing id", message: DisableTriggerMessage{}, wantErr: true},
		{name: "disable valid", message: DisableTriggerMessage{TriggerID: "trig-1"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.message.Validate()
			if tc.wantErr && err == nil {
				t.Fatalf("expected validation error")
			}
			if !tc.wantErr && err != nil {
				t.Fatalf("unexpected validation error: %v", err)
			}
		})
	}
}
