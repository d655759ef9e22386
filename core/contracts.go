package core

import (
	"context"
	"time"

	glog "github.com/goliatone/go-logger/glog"
)

type ExecuteRequest struct {
	Action             string
	Params             map[string]any
	Text               string
	EntityID           string
	ConnectedAccountID string
}

type GetConnectionRequest struct {
	App                string
	EntityID           string
	ConnectedAccountID string
}

type InitiateConnectionRequest struct {
	App           string
	EntityID      string
	IntegrationID string
	AuthMode      string
	AuthConfig    map[string]any
	RedirectURL   string
	Labels        []string
}

type SetupTriggerRequest struct {
	App                string
	TriggerName        string
	Config             map[string]any
	EntityID           string
	ConnectedAccountID string
}

type ActiveTriggersFilter struct {
	ConnectedAccountIDs []string
	TriggerNames        []string
}

// ExecutionRequest is the normalized payload sent to the remote execution
// endpoint. ConnectedAccountID is empty for no-auth actions.
type ExecutionRequest struct {
	ActionName         string
	ConnectedAccountID string
	Input              map[string]any
	AppName            string
	Text               string
}

type InitiateAccountInput struct {
	IntegrationID string
	EntityID      string
	RedirectURL   string
	Labels        []string
}

type CreateIntegrationInput struct {
	AppID           string
	Name            string
	AuthScheme      string
	AuthConfig      map[string]any
	UseComposioAuth bool
}

type EnableTriggerInput struct {
	ConnectedAccountID string
	TriggerName        string
	Config             map[string]any
}

// ActionService resolves action metadata. Fails with a not-found condition
// for unknown names.
type ActionService interface {
	Get(ctx context.Context, actionName string) (Action, error)
}

type AppService interface {
	Get(ctx context.Context, appKey string) (App, error)
}

type ConnectedAccountStore interface {
	List(ctx context.Context, entityID string) ([]ConnectedAccount, error)
	Get(ctx context.Context, connectedAccountID string) (ConnectedAccount, error)
	Initiate(ctx context.Context, in InitiateAccountInput) (ConnectionRequest, error)
}

type IntegrationStore interface {
	Get(ctx context.Context, integrationID string) (Integration, error)
	Create(ctx context.Context, in CreateIntegrationInput) (Integration, error)
}

type ExecutionEndpoint interface {
	Execute(ctx context.Context, req ExecutionRequest) (ExecutionResult, error)
}

type TriggerService interface {
	Enable(ctx context.Context, in EnableTriggerInput) (TriggerSubscription, error)
	ListActive(ctx context.Context, filter ActiveTriggersFilter) ([]TriggerSubscription, error)
	Disable(ctx context.Context, triggerID string) error
}

// ActivitySink records local audit entries. Recording is best effort: the
// service never fails an operation because the sink did.
type ActivitySink interface {
	Record(ctx context.Context, entry ActivityEntry) error
	List(ctx context.Context, filter ActivityFilter) (ActivityPage, error)
}

type TransportRequest struct {
	Method               string
	URL                  string
	Headers              map[string]string
	Query                map[string]string
	Body                 []byte
	Timeout              time.Duration
	MaxResponseBodyBytes int64
}

type TransportResponse struct {
	StatusCode int
	Headers    map[string]string
	Body       []byte
	Metadata   map[string]any
}

type TransportAdapter interface {
	Kind() string
	Do(ctx context.Context, req TransportRequest) (TransportResponse, error)
}

type Logger = glog.Logger

type LoggerProvider = glog.LoggerProvider

type FieldsLogger = glog.FieldsLogger

type MetricsRecorder interface {
	IncCounter(ctx context.Context, name string, value int64, tags map[string]string)
	ObserveHistogram(ctx context.Context, name string, value float64, tags map[string]string)
}
