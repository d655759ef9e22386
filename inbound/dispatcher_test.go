package inbound

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/hussamgalal999/composio/core"
)

type recordingHandler struct {
	name string
	fail error

	mu     sync.Mutex
	events []TriggerEvent
}

func (h *recordingHandler) TriggerName() string {
	return h.name
}

func (h *recordingHandler) Handle(_ context.Context, event TriggerEvent) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.events = append(h.events, event)
	return h.fail
}

func (h *recordingHandler) count() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.events)
}

func TestDispatcher_RoutesByTriggerName(t *testing.T) {
	handler := &recordingHandler{name: "github_commit_event"}
	dispatcher := NewDispatcher(nil, nil)
	if err := dispatcher.Register(handler); err != nil {
		t.Fatalf("register handler: %v", err)
	}
	if err := dispatcher.Register(handler); err == nil {
		t.Fatalf("expected duplicate registration error")
	}

	result, err := dispatcher.Dispatch(context.Background(), TriggerEvent{
		TriggerID:          "evt_1",
		TriggerName:        " GITHUB_COMMIT_EVENT ",
		ConnectedAccountID: "conn_1",
		Payload:            map[string]any{"sha": "abc123"},
	})
	if err != nil {
		t.Fatalf("dispatch: %v", err)
	}
	if !result.Accepted || result.StatusCode != http.StatusOK {
		t.Fatalf("unexpected result: %#v", result)
	}
	if handler.count() != 1 {
		t.Fatalf("expected one handled event, got %d", handler.count())
	}
	if handler.events[0].TriggerName != "github_commit_event" {
		t.Fatalf("expected normalized trigger name, got %q", handler.events[0].TriggerName)
	}
}

func TestDispatcher_UnknownTriggerAndValidation(t *testing.T) {
	dispatcher := NewDispatcher(nil, nil)

	if _, err := dispatcher.Dispatch(context.Background(), TriggerEvent{}); err == nil {
		t.Fatalf("expected missing trigger name error")
	}

	_, err := dispatcher.Dispatch(context.Background(), TriggerEvent{TriggerName: "slack_new_message"})
	if err == nil {
		t.Fatalf("expected unregistered trigger error")
	}
	if code := core.ErrorCode(err); code != core.ErrorCodeNotFound {
		t.Fatalf("expected not found code, got %q", code)
	}
}

func TestDispatcher_DedupesByTriggerID(t *testing.T) {
	handler := &recordingHandler{name: "github_commit_event"}
	dispatcher := NewDispatcher(nil, NewMemoryDeduper())
	if err := dispatcher.Register(handler); err != nil {
		t.Fatalf("register handler: %v", err)
	}

	event := TriggerEvent{TriggerID: "evt_1", TriggerName: "github_commit_event"}
	if _, err := dispatcher.Dispatch(context.Background(), event); err != nil {
		t.Fatalf("first dispatch: %v", err)
	}
	result, err := dispatcher.Dispatch(context.Background(), event)
	if err != nil {
		t.Fatalf("second dispatch: %v", err)
	}
	if result.Metadata["deduped"] != true {
		t.Fatalf("expected deduped redelivery, got %#v", result.Metadata)
	}
	if handler.count() != 1 {
		t.Fatalf("expected single handler invocation, got %d", handler.count())
	}

	if _, err := dispatcher.Dispatch(context.Background(), TriggerEvent{
		TriggerID:   "evt_2",
		TriggerName: "github_commit_event",
	}); err != nil {
		t.Fatalf("distinct delivery dispatch: %v", err)
	}
	if handler.count() != 2 {
		t.Fatalf("expected distinct delivery to be handled, got %d", handler.count())
	}
}

func TestDispatcher_HandlerFailureSurfacesUpstream(t *testing.T) {
	handler := &recordingHandler{name: "github_commit_event", fail: fmt.Errorf("boom")}
	dispatcher := NewDispatcher(nil, nil)
	if err := dispatcher.Register(handler); err != nil {
		t.Fatalf("register handler: %v", err)
	}

	_, err := dispatcher.Dispatch(context.Background(), TriggerEvent{TriggerName: "github_commit_event"})
	if err == nil {
		t.Fatalf("expected handler failure to surface")
	}
	if status := errorStatusCode(err); status != http.StatusBadGateway {
		t.Fatalf("expected 502 status, got %d", status)
	}
}

func TestMemoryDeduper_ExpiresClaims(t *testing.T) {
	deduper := NewMemoryDeduper()
	accepted, err := deduper.Claim(context.Background(), "key", 10*time.Millisecond)
	if err != nil || !accepted {
		t.Fatalf("first claim: accepted=%v err=%v", accepted, err)
	}
	accepted, err = deduper.Claim(context.Background(), "key", 10*time.Millisecond)
	if err != nil || accepted {
		t.Fatalf("duplicate claim: accepted=%v err=%v", accepted, err)
	}
	time.Sleep(20 * time.Millisecond)
	accepted, err = deduper.Claim(context.Background(), "key", 10*time.Millisecond)
	if err != nil || !accepted {
		t.Fatalf("expired claim: accepted=%v err=%v", accepted, err)
	}
}

func signBody(secret string, body []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	return hex.EncodeToString(mac.Sum(nil))
}

func TestHTTPHandler_VerifiesAndDispatches(t *testing.T) {
	handler := &recordingHandler{name: "github_commit_event"}
	dispatcher := NewDispatcher(HMACVerifier{Secret: "s3cret"}, nil)
	if err := dispatcher.Register(handler); err != nil {
		t.Fatalf("register handler: %v", err)
	}
	server := httptest.NewServer(dispatcher.HTTPHandler())
	defer server.Close()

	body := []byte(`{"triggerId":"evt_1","triggerName":"github_commit_event","connectedAccountId":"conn_1","payload":{"sha":"abc123"}}`)

	req, err := http.NewRequest(http.MethodPost, server.URL, bytes.NewReader(body))
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	req.Header.Set(DefaultSignatureHeader, signBody("s3cret", body))
	resp, err := server.Client().Do(req)
	if err != nil {
		t.Fatalf("post delivery: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	if handler.count() != 1 {
		t.Fatalf("expected handled delivery, got %d", handler.count())
	}
	if handler.events[0].ConnectedAccountID != "conn_1" {
		t.Fatalf("unexpected decoded event: %#v", handler.events[0])
	}

	req, err = http.NewRequest(http.MethodPost, server.URL, bytes.NewReader(body))
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	req.Header.Set(DefaultSignatureHeader, "deadbeef")
	resp, err = server.Client().Do(req)
	if err != nil {
		t.Fatalf("post tampered delivery: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401 for bad signature, got %d", resp.StatusCode)
	}

	resp, err = server.Client().Get(server.URL)
	if err != nil {
		t.Fatalf("get delivery endpoint: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusMethodNotAllowed {
		t.Fatalf("expected 405 for GET, got %d", resp.StatusCode)
	}
}

func TestHTTPHandler_RejectsInvalidPayload(t *testing.T) {
	dispatcher := NewDispatcher(nil, nil)
	if err := dispatcher.RegisterFunc("github_commit_event", func(context.Context, TriggerEvent) error {
		return nil
	}); err != nil {
		t.Fatalf("register func handler: %v", err)
	}
	server := httptest.NewServer(dispatcher.HTTPHandler())
	defer server.Close()

	resp, err := server.Client().Post(server.URL, "application/json", bytes.NewReader([]byte("{not json")))
	if err != nil {
		t.Fatalf("post invalid payload: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400 for invalid payload, got %d", resp.StatusCode)
	}
}
