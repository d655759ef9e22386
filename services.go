package composio

import "github.com/hussamgalal999/composio/core"

type Config = core.Config

type Option = core.Option

type Service = core.Service

type ConnectedAccount = core.ConnectedAccount
type Integration = core.Integration
type Action = core.Action
type App = core.App
type ConnectionRequest = core.ConnectionRequest
type ExecutionResult = core.ExecutionResult
type TriggerSubscription = core.TriggerSubscription
type ActivityEntry = core.ActivityEntry
type ActivityFilter = core.ActivityFilter
type ActivityPage = core.ActivityPage

type ExecuteRequest = core.ExecuteRequest
type GetConnectionRequest = core.GetConnectionRequest
type InitiateConnectionRequest = core.InitiateConnectionRequest
type SetupTriggerRequest = core.SetupTriggerRequest
type ActiveTriggersFilter = core.ActiveTriggersFilter

var (
	WithLogger                = core.WithLogger
	WithLoggerProvider        = core.WithLoggerProvider
	WithMetricsRecorder       = core.WithMetricsRecorder
	WithConfigProvider        = core.WithConfigProvider
	WithOptionsResolver       = core.WithOptionsResolver
	WithActionService         = core.WithActionService
	WithAppService            = core.WithAppService
	WithConnectedAccountStore = core.WithConnectedAccountStore
	WithIntegrationStore      = core.WithIntegrationStore
	WithExecutionEndpoint     = core.WithExecutionEndpoint
	WithTriggerService        = core.WithTriggerService
	WithActivitySink          = core.WithActivitySink
	WithPersistenceClient     = core.WithPersistenceClient
	WithActivitySinkFactory   = core.WithActivitySinkFactory
	WithClock                 = core.WithClock
)

func DefaultConfig() Config {
	return core.DefaultConfig()
}

func NewService(cfg Config, opts ...Option) (*Service, error) {
	return core.NewService(cfg, opts...)
}

func Setup(cfg Config, opts ...Option) (*Service, error) {
	return core.Setup(cfg, opts...)
}

// NormalizeError maps any error into the stable sdk error taxonomy.
func NormalizeError(err error) error {
	return core.NormalizeError(err)
}

// ErrorCode returns the stable sdk error code for err, or "" when err
// carries none.
func ErrorCode(err error) string {
	return core.ErrorCode(err)
}
