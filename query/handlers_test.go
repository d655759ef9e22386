package query

import (
	"context"
	"testing"
	"time"

	"github.com/hussamgalal999/composio/core"
)

type stubConnectionReader struct {
	getFn  func(ctx context.Context, req core.GetConnectionRequest) (*core.ConnectedAccount, error)
	listFn func(ctx context.Context, entityID string) ([]core.ConnectedAccount, error)
}

func (s stubConnectionReader) GetConnection(ctx context.Context, req core.GetConnectionRequest) (*core.ConnectedAccount, error) {
	if s.getFn == nil {
		return nil, nil
	}
	return s.getFn(ctx, req)
}

func (s stubConnectionReader) GetConnections(ctx context.Context, entityID string) ([]core.ConnectedAccount, error) {
	if s.listFn == nil {
		return nil, nil
	}
	return s.listFn(ctx, entityID)
}

type stubTriggerReader struct {
	listFn func(ctx context.Context, filter core.ActiveTriggersFilter) ([]core.TriggerSubscription, error)
}

func (s stubTriggerReader) GetActiveTriggers(ctx context.Context, filter core.ActiveTriggersFilter) ([]core.TriggerSubscription, error) {
	if s.listFn == nil {
		return nil, nil
	}
	return s.listFn(ctx, filter)
}

func TestGetConnectionQuery_Delegates(t *testing.T) {
	expected := core.ConnectedAccount{ID: "conn-1", AppName: "github", Status: core.ConnectionStatusActive, CreatedAt: time.Now()}
	reader := stubConnectionReader{
		getFn: func(_ context.Context, req core.GetConnectionRequest) (*core.ConnectedAccount, error) {
			if req.App != "github" {
				t.Fatalf("expected app github, got %q", req.App)
			}
			return &expected, nil
		},
	}

	q := NewGetConnectionQuery(reader)
	account, err := q.Query(context.Background(), GetConnectionMessage{Request: core.GetConnectionRequest{App: "github"}})
	if err != nil {
		t.Fatalf("query connection: %v", err)
	}
	if account == nil || account.ID != "conn-1" {
		t.Fatalf("unexpected account: %#v", account)
	}
}

func TestGetConnectionQuery_NilResultPassesThrough(t *testing.T) {
	q := NewGetConnectionQuery(stubConnectionReader{})
	account, err := q.Query(context.Background(), GetConnectionMessage{Request: core.GetConnectionRequest{App: "github"}})
	if err != nil {
		t.Fatalf("query connection: %v", err)
	}
	if account != nil {
		t.Fatalf("expected nil account for absent connection, got %#v", account)
	}
}

func TestListConnectionsQuery_Delegates(t *testing.T) {
	reader := stubConnectionReader{
		listFn: func(_ context.Context, entityID string) ([]core.ConnectedAccount, error) {
			if entityID != "tenant-1" {
				t.Fatalf("expected entity tenant-1, got %q", entityID)
			}
			return []core.ConnectedAccount{{ID: "conn-1"}, {ID: "conn-2"}}, nil
		},
	}

	q := NewListConnectionsQuery(reader)
	accounts, err := q.Query(context.Background(), ListConnectionsMessage{EntityID: "tenant-1"})
	if err != nil {
		t.Fatalf("query connections: %v", err)
	}
	if len(accounts) != 2 {
		t.Fatalf("got %d accounts, want 2", len(accounts))
	}
}

func TestListActiveTriggersQuery_Delegates(t *testing.T) {
	reader := stubTriggerReader{
		listFn: func(_ context.Context, filter core.ActiveTriggersFilter) ([]core.TriggerSubscription, error) {
			if len(filter.TriggerNames) != 1 || filter.TriggerNames[0] != "github_commit_event" {
				t.Fatalf("unexpected filter: %#v", filter)
			}
			return []core.TriggerSubscription{{ID: "trig-1", Active: true}}, nil
		},
	}

	q := NewListActiveTriggersQuery(reader)
	subscriptions, err := q.Query(context.Background(), ListActiveTriggersMessage{
		Filter: core.ActiveTriggersFilter{TriggerNames: []string{"github_commit_event"}},
	})
	if err != nil {
		t.Fatalf("query triggers: %v", err)
	}
	if len(subscriptions) != 1 {
		t.Fatalf("got %d subscriptions, want 1", len(subscriptions))
	}
}

func TestQueries_RequireReader(t *testing.T) {
	if _, err := (&GetConnectionQuery{}).Query(context.Background(), GetConnectionMessage{}); err == nil {
		t.Fatalf("expected dependency error")
	}
	if _, err := (&ListActiveTriggersQuery{}).Query(context.Background(), ListActiveTriggersMessage{}); err == nil {
		t.Fatalf("expected dependency error")
	}
	if _, err := (&ListActivityQuery{}).Query(context.Background(), ListActivityMessage{}); err == nil {
		t.Fatalf("expected dependency error")
	}
}

func TestQueryMessageValidation(t *testing.T) {
	if err := (GetConnectionMessage{}).Validate(); err == nil {
		t.Fatalf("expected validation error without app or id")
	}
	if err := (GetConnectionMessage{Request: core.GetConnectionRequest{ConnectedAccountID: "conn-1"}}).Validate(); err != nil {
		t.Fatalf("unexpected validation error: %v", err)
	}
	if err := (ListActivityMessage{Filter: core.ActivityFilter{Page: -1}}).Validate(); err == nil {
		t.Fatalf("expected validation error for negative page")
	}
}
