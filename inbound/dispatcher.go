package inbound

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	goerrors "github.com/goliatone/go-errors"

	"github.com/hussamgalal999/composio/core"
)

const (
	// DefaultSignatureHeader carries the hex-encoded HMAC-SHA256 of the
	// delivery body.
	DefaultSignatureHeader = "X-Composio-Signature"

	// DefaultKeyTTL bounds how long a delivery id is remembered for
	// deduplication.
	DefaultKeyTTL = 10 * time.Minute

	maxDeliveryBodyBytes = 1 << 20
)

// TriggerEvent is a single trigger delivery pushed by the backend.
type TriggerEvent struct {
	TriggerID          string         `json:"triggerId"`
	TriggerName        string         `json:"triggerName"`
	ConnectedAccountID string         `json:"connectedAccountId"`
	AppName            string         `json:"appName"`
	EntityID           string         `json:"clientUniqueUserId"`
	Payload            map[string]any `json:"payload"`
	ReceivedAt         time.Time      `json:"-"`
}

// Result reports how a delivery was handled.
type Result struct {
	Accepted   bool
	StatusCode int
	Metadata   map[string]any
}

// Handler consumes deliveries for a single trigger name.
type Handler interface {
	TriggerName() string
	Handle(ctx context.Context, event TriggerEvent) error
}

// Verifier authenticates a raw delivery before it is decoded.
type Verifier interface {
	Verify(ctx context.Context, headers http.Header, body []byte) error
}

// HMACVerifier checks the delivery signature against a shared secret.
type HMACVerifier struct {
	Secret string
	Header string
}

func (v HMACVerifier) Verify(_ context.Context, headers http.Header, body []byte) error {
	if strings.TrimSpace(v.Secret) == "" {
		return inboundInternal("inbound: verifier secret is not configured", nil)
	}
	header := v.Header
	if header == "" {
		header = DefaultSignatureHeader
	}
	provided := strings.TrimSpace(headers.Get(header))
	if provided == "" {
		return fmt.Errorf("inbound: missing %s header", header)
	}
	mac := hmac.New(sha256.New, []byte(v.Secret))
	mac.Write(body)
	expected := hex.EncodeToString(mac.Sum(nil))
	if !hmac.Equal([]byte(strings.ToLower(provided)), []byte(expected)) {
		return fmt.Errorf("inbound: signature mismatch")
	}
	return nil
}

// Deduper claims delivery keys so redelivered events are acknowledged
// without reprocessing.
type Deduper interface {
	Claim(ctx context.Context, key string, ttl time.Duration) (bool, error)
}

type memoryDeduper struct {
	mu   sync.Mutex
	seen map[string]time.Time
}

// NewMemoryDeduper returns an in-process Deduper suitable for single
// instance deployments.
func NewMemoryDeduper() Deduper {
	return &memoryDeduper{seen: map[string]time.Time{}}
}

func (d *memoryDeduper) Claim(_ context.Context, key string, ttl time.Duration) (bool, error) {
	if ttl <= 0 {
		ttl = DefaultKeyTTL
	}
	now := time.Now()
	d.mu.Lock()
	defer d.mu.Unlock()
	for existing, expiry := range d.seen {
		if expiry.Before(now) {
			delete(d.seen, existing)
		}
	}
	if expiry, exists := d.seen[key]; exists && expiry.After(now) {
		return false, nil
	}
	d.seen[key] = now.Add(ttl)
	return true, nil
}

// Dispatcher routes verified trigger deliveries to registered handlers.
type Dispatcher struct {
	Verifier Verifier
	Deduper  Deduper
	KeyTTL   time.Duration

	mu       sync.RWMutex
	handlers map[string]Handler
}

func NewDispatcher(verifier Verifier, deduper Deduper) *Dispatcher {
	return &Dispatcher{
		Verifier: verifier,
		Deduper:  deduper,
		KeyTTL:   DefaultKeyTTL,
		handlers: map[string]Handler{},
	}
}

func (d *Dispatcher) Register(handler Handler) error {
	if d == nil {
		return inboundInternal("inbound: dispatcher is nil", nil)
	}
	if handler == nil {
		return inboundBadInput("inbound: handler is nil", nil)
	}
	name := normalizeTriggerName(handler.TriggerName())
	if name == "" {
		return inboundBadInput("inbound: handler trigger name is required", nil)
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.handlers == nil {
		d.handlers = map[string]Handler{}
	}
	if _, exists := d.handlers[name]; exists {
		return inboundError(
			fmt.Sprintf("inbound: handler already registered for trigger %q", name),
			goerrors.CategoryConflict,
			http.StatusConflict,
			core.ErrorCodeBadRequest,
			map[string]any{"trigger_name": name},
		)
	}
	d.handlers[name] = handler
	return nil
}

// RegisterFunc registers fn for a trigger name.
func (d *Dispatcher) RegisterFunc(triggerName string, fn func(ctx context.Context, event TriggerEvent) error) error {
	if fn == nil {
		return inboundBadInput("inbound: handler func is nil", nil)
	}
	return d.Register(handlerFunc{name: triggerName, fn: fn})
}

func (d *Dispatcher) Dispatch(ctx context.Context, event TriggerEvent) (Result, error) {
	if d == nil {
		return Result{}, inboundInternal("inbound: dispatcher is nil", nil)
	}
	event.TriggerName = normalizeTriggerName(event.TriggerName)
	event.TriggerID = strings.TrimSpace(event.TriggerID)
	if event.TriggerName == "" {
		return Result{}, inboundBadInput("inbound: trigger name is required", nil)
	}

	if d.Deduper != nil && event.TriggerID != "" {
		key := event.TriggerName + ":" + event.TriggerID
		accepted, err := d.Deduper.Claim(ctx, key, d.keyTTL())
		if err != nil {
			return Result{}, inboundWrapError(
				err,
				goerrors.CategoryOperation,
				"inbound: delivery claim failed",
				http.StatusInternalServerError,
				core.ErrorCodeServerError,
				map[string]any{"trigger_name": event.TriggerName, "trigger_id": event.TriggerID},
			)
		}
		if !accepted {
			return Result{
				Accepted:   true,
				StatusCode: http.StatusOK,
				Metadata: map[string]any{
					"trigger_name": event.TriggerName,
					"trigger_id":   event.TriggerID,
					"deduped":      true,
				},
			}, nil
		}
	}

	handler := d.handlerFor(event.TriggerName)
	if handler == nil {
		return Result{}, inboundError(
			fmt.Sprintf("inbound: no handler registered for trigger %q", event.TriggerName),
			goerrors.CategoryNotFound,
			http.StatusNotFound,
			core.ErrorCodeNotFound,
			map[string]any{"trigger_name": event.TriggerName},
		)
	}
	if err := handler.Handle(ctx, event); err != nil {
		return Result{}, inboundWrapError(
			err,
			goerrors.CategoryOperation,
			"inbound: handler execution failed",
			http.StatusBadGateway,
			core.ErrorCodeServerError,
			map[string]any{"trigger_name": event.TriggerName, "trigger_id": event.TriggerID},
		)
	}
	return Result{
		Accepted:   true,
		StatusCode: http.StatusOK,
		Metadata: map[string]any{
			"trigger_name": event.TriggerName,
			"trigger_id":   event.TriggerID,
		},
	}, nil
}

// HTTPHandler exposes the dispatcher as a webhook endpoint.
func (d *Dispatcher) HTTPHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			writeJSON(w, http.StatusMethodNotAllowed, map[string]any{"error": "method not allowed"})
			return
		}
		body, err := io.ReadAll(io.LimitReader(r.Body, maxDeliveryBodyBytes))
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]any{"error": "read body"})
			return
		}
		if d.Verifier != nil {
			if err := d.Verifier.Verify(r.Context(), r.Header, body); err != nil {
				writeJSON(w, http.StatusUnauthorized, map[string]any{"error": "verification failed"})
				return
			}
		}
		var event TriggerEvent
		if err := json.Unmarshal(body, &event); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]any{"error": "invalid payload"})
			return
		}
		event.ReceivedAt = time.Now().UTC()

		result, err := d.Dispatch(r.Context(), event)
		if err != nil {
			writeJSON(w, errorStatusCode(err), map[string]any{"error": err.Error()})
			return
		}
		writeJSON(w, result.StatusCode, map[string]any{"status": "ok", "metadata": result.Metadata})
	})
}

func (d *Dispatcher) handlerFor(name string) Handler {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.handlers[name]
}

func (d *Dispatcher) keyTTL() time.Duration {
	if d.KeyTTL > 0 {
		return d.KeyTTL
	}
	return DefaultKeyTTL
}

type handlerFunc struct {
	name string
	fn   func(ctx context.Context, event TriggerEvent) error
}

func (h handlerFunc) TriggerName() string {
	return h.name
}

func (h handlerFunc) Handle(ctx context.Context, event TriggerEvent) error {
	return h.fn(ctx, event)
}

func normalizeTriggerName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

func errorStatusCode(err error) int {
	var rich *goerrors.Error
	if goerrors.As(err, &rich) && rich.Code > 0 {
		return rich.Code
	}
	return http.StatusInternalServerError
}

func writeJSON(w http.ResponseWriter, status int, payload map[string]any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
