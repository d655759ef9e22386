package core

import (
	"context"
	"strings"
	"time"

	glog "github.com/goliatone/go-logger/glog"
)

// Service is the orchestration core: it validates requests, resolves
// collaborators, and normalizes every failure into an SdkError. It keeps no
// state between calls; all decision data lives behind the collaborator
// contracts.
type Service struct {
	config            Config
	logger            Logger
	loggerProvider    LoggerProvider
	metricsRecorder   MetricsRecorder
	configProvider    ConfigProvider
	optionsResolver   OptionsResolver
	actionService     ActionService
	appService        AppService
	accountStore      ConnectedAccountStore
	integrationStore  IntegrationStore
	executionEndpoint ExecutionEndpoint
	triggerService    TriggerService
	activitySink      ActivitySink
	clock             func() time.Time
}

// ActivitySinkFactory builds the optional activity ledger from a persistence
// client supplied at wiring time.
type ActivitySinkFactory interface {
	BuildActivitySink(client any) (ActivitySink, error)
}

func NewService(cfg Config, options ...Option) (*Service, error) {
	builder := defaultServiceBuilder(cfg)
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(&builder)
	}

	provider, logger := glog.Resolve("composio", builder.loggerProvider, builder.logger)
	logger = glog.Ensure(logger)
	if provider != nil {
		if named := provider.GetLogger("composio"); named != nil {
			logger = glog.Ensure(named)
		}
	}

	if builder.metricsRecorder == nil {
		builder.metricsRecorder = NopMetricsRecorder{}
	}
	if builder.configProvider == nil {
		builder.configProvider = NewCfgxConfigProvider(nil)
	}
	if builder.optionsResolver == nil {
		builder.optionsResolver = GoOptionsResolver{}
	}
	if builder.clock == nil {
		builder.clock = time.Now
	}

	defaults := DefaultConfig()
	loaded, err := builder.configProvider.Load(context.Background(), defaults)
	if err != nil {
		return nil, NormalizeError(err)
	}
	finalConfig, err := builder.optionsResolver.Resolve(defaults, loaded, builder.runtimeConfig)
	if err != nil {
		return nil, NormalizeError(err)
	}

	if builder.activitySink == nil && builder.sinkFactory != nil {
		if factory, ok := builder.sinkFactory.(ActivitySinkFactory); ok {
			sink, buildErr := factory.BuildActivitySink(builder.persistenceClient)
			if buildErr != nil {
				return nil, NormalizeError(buildErr)
			}
			builder.activitySink = sink
		}
	}

	return &Service{
		config:            finalConfig,
		logger:            logger,
		loggerProvider:    provider,
		metricsRecorder:   builder.metricsRecorder,
		configProvider:    builder.configProvider,
		optionsResolver:   builder.optionsResolver,
		actionService:     builder.actionService,
		appService:        builder.appService,
		accountStore:      builder.accountStore,
		integrationStore:  builder.integrationStore,
		executionEndpoint: builder.executionEndpoint,
		triggerService:    builder.triggerService,
		activitySink:      builder.activitySink,
		clock:             builder.clock,
	}, nil
}

func Setup(cfg Config, options ...Option) (*Service, error) {
	return NewService(cfg, options...)
}

func (s *Service) Config() Config {
	if s == nil {
		return Config{}
	}
	return s.config
}

func (s *Service) now() time.Time {
	if s == nil || s.clock == nil {
		return time.Now()
	}
	return s.clock()
}

// Execute dispatches one action: validate, resolve the action and its app,
// then either call the execution endpoint directly for no-auth actions or
// resolve a connected account first. Strictly sequential, no retries.
func (s *Service) Execute(ctx context.Context, req ExecuteRequest) (result ExecutionResult, err error) {
	startedAt := time.Now()
	defer func() {
		s.observeOperation(ctx, startedAt, "execute", err, map[string]any{
			"action":               req.Action,
			"entity_id":            s.entityIDOrDefault(req.EntityID),
			"connected_account_id": req.ConnectedAccountID,
		})
	}()

	if s == nil || s.actionService == nil || s.appService == nil || s.executionEndpoint == nil {
		err = NormalizeError(newDependencyError("core: execution dependencies are not configured"))
		return ExecutionResult{}, err
	}
	actionName := strings.TrimSpace(req.Action)
	if actionName == "" {
		err = NewInvalidParamsError("action name is required")
		return ExecutionResult{}, err
	}

	action, lookupErr := s.actionService.Get(ctx, actionName)
	if lookupErr != nil {
		err = NormalizeError(lookupErr)
		return ExecutionResult{}, err
	}
	app, appErr := s.appService.Get(ctx, action.AppKey)
	if appErr != nil {
		err = NormalizeError(appErr)
		return ExecutionResult{}, err
	}

	execution := ExecutionRequest{
		ActionName: action.Name,
		Input:      req.Params,
		AppName:    app.Key,
		Text:       req.Text,
	}

	if !action.NoAuth && !app.NoAuth {
		if s.accountStore == nil {
			err = NormalizeError(newDependencyError("core: connected account store is not configured"))
			return ExecutionResult{}, err
		}
		account, resolveErr := s.resolveConnectedAccount(ctx, app.Key, req.EntityID, req.ConnectedAccountID)
		if resolveErr != nil {
			err = NormalizeError(resolveErr)
			return ExecutionResult{}, err
		}
		if account == nil {
			err = NewNoConnectedAccountError(app.Key, s.entityIDOrDefault(req.EntityID))
			return ExecutionResult{}, err
		}
		execution.ConnectedAccountID = account.ID
	}

	result, execErr := s.executionEndpoint.Execute(ctx, execution)
	if execErr != nil {
		err = NormalizeError(execErr)
		s.recordActivity(ctx, req.EntityID, app.Key, "execute", action.Name, ActivityStatusError, map[string]any{
			"error": err.Error(),
		})
		return ExecutionResult{}, err
	}

	s.recordActivity(ctx, req.EntityID, app.Key, "execute", action.Name, ActivityStatusOK, map[string]any{
		"successful": result.Successful,
	})
	return result, nil
}

// InitiateConnection provisions (or reuses) an integration and asks the
// backend to start the credential-issuance flow for the entity.
func (s *Service) InitiateConnection(ctx context.Context, req InitiateConnectionRequest) (request ConnectionRequest, err error) {
	startedAt := time.Now()
	defer func() {
		s.observeOperation(ctx, startedAt, "initiate_connection", err, map[string]any{
			"app":       req.App,
			"entity_id": s.entityIDOrDefault(req.EntityID),
		})
	}()

	if s == nil || s.accountStore == nil {
		err = NormalizeError(newDependencyError("core: connected account store is not configured"))
		return ConnectionRequest{}, err
	}
	if strings.TrimSpace(req.App) == "" && strings.TrimSpace(req.IntegrationID) == "" {
		err = NewInvalidParamsError("app or integration id is required")
		return ConnectionRequest{}, err
	}

	integration, ensureErr := s.EnsureIntegration(ctx, req)
	if ensureErr != nil {
		err = NormalizeError(ensureErr)
		return ConnectionRequest{}, err
	}

	entityID := s.entityIDOrDefault(req.EntityID)
	request, initiateErr := s.accountStore.Initiate(ctx, InitiateAccountInput{
		IntegrationID: integration.ID,
		EntityID:      entityID,
		RedirectURL:   req.RedirectURL,
		Labels:        req.Labels,
	})
	if initiateErr != nil {
		err = NormalizeError(initiateErr)
		return ConnectionRequest{}, err
	}

	s.recordActivity(ctx, entityID, integration.AppName, "initiate_connection", request.ConnectedAccountID, ActivityStatusOK, map[string]any{
		"integration_id": integration.ID,
		"status":         string(request.ConnectionStatus),
	})
	return request, nil
}

// SetupTrigger enables a named trigger on the entity's resolved connection.
func (s *Service) SetupTrigger(ctx context.Context, req SetupTriggerRequest) (subscription TriggerSubscription, err error) {
	startedAt := time.Now()
	defer func() {
		s.observeOperation(ctx, startedAt, "setup_trigger", err, map[string]any{
			"app":       req.App,
			"action":    req.TriggerName,
			"entity_id": s.entityIDOrDefault(req.EntityID),
		})
	}()

	if s == nil || s.triggerService == nil || s.accountStore == nil {
		err = NormalizeError(newDependencyError("core: trigger dependencies are not configured"))
		return TriggerSubscription{}, err
	}
	if strings.TrimSpace(req.TriggerName) == "" {
		err = NewInvalidParamsError("trigger name is required")
		return TriggerSubscription{}, err
	}
	if strings.TrimSpace(req.App) == "" && strings.TrimSpace(req.ConnectedAccountID) == "" {
		err = NewInvalidParamsError("app or connected account id is required")
		return TriggerSubscription{}, err
	}

	account, resolveErr := s.resolveConnectedAccount(ctx, req.App, req.EntityID, req.ConnectedAccountID)
	if resolveErr != nil {
		err = NormalizeError(resolveErr)
		return TriggerSubscription{}, err
	}
	if account == nil {
		err = NewNoConnectedAccountError(req.App, s.entityIDOrDefault(req.EntityID))
		return TriggerSubscription{}, err
	}

	subscription, enableErr := s.triggerService.Enable(ctx, EnableTriggerInput{
		ConnectedAccountID: account.ID,
		TriggerName:        strings.TrimSpace(req.TriggerName),
		Config:             req.Config,
	})
	if enableErr != nil {
		err = NormalizeError(enableErr)
		return TriggerSubscription{}, err
	}
	return subscription, nil
}

func (s *Service) GetActiveTriggers(ctx context.Context, filter ActiveTriggersFilter) (subscriptions []TriggerSubscription, err error) {
	startedAt := time.Now()
	defer func() {
		s.observeOperation(ctx, startedAt, "get_active_triggers", err, nil)
	}()

	if s == nil || s.triggerService == nil {
		err = NormalizeError(newDependencyError("core: trigger service is not configured"))
		return nil, err
	}
	subscriptions, listErr := s.triggerService.ListActive(ctx, filter)
	if listErr != nil {
		err = NormalizeError(listErr)
		return nil, err
	}
	return subscriptions, nil
}

// DisableTrigger forwards the id to the trigger service without added logic.
//
// Deprecated: use the trigger management API directly.
func (s *Service) DisableTrigger(ctx context.Context, triggerID string) (err error) {
	startedAt := time.Now()
	defer func() {
		s.observeOperation(ctx, startedAt, "disable_trigger", err, map[string]any{
			"trigger_id": triggerID,
		})
	}()

	if s == nil || s.triggerService == nil {
		err = NormalizeError(newDependencyError("core: trigger service is not configured"))
		return err
	}
	if disableErr := s.triggerService.Disable(ctx, triggerID); disableErr != nil {
		err = NormalizeError(disableErr)
		return err
	}
	return nil
}

// recordActivity writes a ledger entry when a sink is configured. Failures are
// logged and dropped; they never alter the operation outcome.
func (s *Service) recordActivity(ctx context.Context, entityID, appName, action, object string, status ActivityStatus, metadata map[string]any) {
	if s == nil || s.activitySink == nil {
		return
	}
	entry := ActivityEntry{
		EntityID:  s.entityIDOrDefault(entityID),
		AppName:   strings.TrimSpace(appName),
		Action:    action,
		Object:    object,
		Status:    status,
		Metadata:  cloneFields(metadata),
		CreatedAt: s.now().UTC(),
	}
	if err := s.activitySink.Record(ctx, entry); err != nil {
		s.logError(ctx, "activity record failed", map[string]any{
			"action": action,
			"error":  err.Error(),
		})
	}
}

// ActivityLog exposes the ledger for read access when a sink is configured.
func (s *Service) ActivityLog(ctx context.Context, filter ActivityFilter) (page ActivityPage, err error) {
	startedAt := time.Now()
	defer func() {
		s.observeOperation(ctx, startedAt, "activity_log", err, map[string]any{
			"entity_id": filter.EntityID,
		})
	}()

	if s == nil || s.activitySink == nil {
		err = NormalizeError(newDependencyError("core: activity sink is not configured"))
		return ActivityPage{}, err
	}
	page, listErr := s.activitySink.List(ctx, filter)
	if listErr != nil {
		err = NormalizeError(listErr)
		return ActivityPage{}, err
	}
	return page, nil
}
