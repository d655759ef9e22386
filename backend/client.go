package backend

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	goerrors "github.com/goliatone/go-errors"
	glog "github.com/goliatone/go-logger/glog"

	"github.com/hussamgalal999/composio/core"
	"github.com/hussamgalal999/composio/ratelimit"
)

const (
	headerAPIKey    = "X-API-Key"
	headerRequestID = "x-request-id"
)

// Client speaks the remote REST API through a transport adapter. One Client
// serves every collaborator contract the core needs.
type Client struct {
	adapter   core.TransportAdapter
	baseURL   string
	apiKey    string
	timeout   time.Duration
	logger    core.Logger
	rateLimit ratelimit.Policy
}

type Option func(*Client)

func WithLogger(logger core.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		c.timeout = timeout
	}
}

// WithRateLimitPolicy gates outbound calls on a per-bucket rate limit
// policy. Throttled buckets fail fast with a 429 before hitting the wire.
func WithRateLimitPolicy(policy ratelimit.Policy) Option {
	return func(c *Client) {
		c.rateLimit = policy
	}
}

func New(cfg core.Config, adapter core.TransportAdapter, options ...Option) *Client {
	client := &Client{
		adapter: adapter,
		baseURL: strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/"),
		apiKey:  strings.TrimSpace(cfg.APIKey),
		timeout: cfg.RequestTimeout,
		logger:  glog.Ensure(nil),
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(client)
	}
	client.logger = glog.Ensure(client.logger)
	return client
}

// Contract views. The collaborator interfaces all name their lookup Get, so
// each gets a thin adapter over the shared client.

func (c *Client) Actions() core.ActionService {
	return actionsAPI{client: c}
}

func (c *Client) Apps() core.AppService {
	return appsAPI{client: c}
}

func (c *Client) ConnectedAccounts() core.ConnectedAccountStore {
	return accountsAPI{client: c}
}

func (c *Client) Integrations() core.IntegrationStore {
	return integrationsAPI{client: c}
}

func (c *Client) Triggers() core.TriggerService {
	return c
}

type actionsAPI struct {
	client *Client
}

func (a actionsAPI) Get(ctx context.Context, actionName string) (core.Action, error) {
	return a.client.GetAction(ctx, actionName)
}

type appsAPI struct {
	client *Client
}

func (a appsAPI) Get(ctx context.Context, appKey string) (core.App, error) {
	return a.client.GetApp(ctx, appKey)
}

type accountsAPI struct {
	client *Client
}

func (a accountsAPI) List(ctx context.Context, entityID string) ([]core.ConnectedAccount, error) {
	return a.client.List(ctx, entityID)
}

func (a accountsAPI) Get(ctx context.Context, connectedAccountID string) (core.ConnectedAccount, error) {
	return a.client.GetConnectedAccount(ctx, connectedAccountID)
}

func (a accountsAPI) Initiate(ctx context.Context, in core.InitiateAccountInput) (core.ConnectionRequest, error) {
	return a.client.Initiate(ctx, in)
}

type integrationsAPI struct {
	client *Client
}

func (a integrationsAPI) Get(ctx context.Context, integrationID string) (core.Integration, error) {
	return a.client.GetIntegration(ctx, integrationID)
}

func (a integrationsAPI) Create(ctx context.Context, in core.CreateIntegrationInput) (core.Integration, error) {
	return a.client.CreateIntegration(ctx, in)
}

func (c *Client) GetAction(ctx context.Context, actionName string) (core.Action, error) {
	actionName = strings.TrimSpace(actionName)
	var payload actionPayload
	if err := c.do(ctx, http.MethodGet, "/v2/actions/"+url.PathEscape(actionName), nil, nil, &payload); err != nil {
		return core.Action{}, err
	}
	return payload.toDomain(), nil
}

func (c *Client) GetApp(ctx context.Context, appKey string) (core.App, error) {
	appKey = strings.TrimSpace(appKey)
	var payload appPayload
	if err := c.do(ctx, http.MethodGet, "/v1/apps/"+url.PathEscape(appKey), nil, nil, &payload); err != nil {
		return core.App{}, err
	}
	return payload.toDomain(), nil
}

func (c *Client) List(ctx context.Context, entityID string) ([]core.ConnectedAccount, error) {
	var payload connectedAccountListPayload
	query := map[string]string{"user_uuid": strings.TrimSpace(entityID)}
	if err := c.do(ctx, http.MethodGet, "/v1/connectedAccounts", query, nil, &payload); err != nil {
		return nil, err
	}
	accounts := make([]core.ConnectedAccount, 0, len(payload.Items))
	for _, item := range payload.Items {
		accounts = append(accounts, item.toDomain())
	}
	return accounts, nil
}

func (c *Client) GetConnectedAccount(ctx context.Context, connectedAccountID string) (core.ConnectedAccount, error) {
	var payload connectedAccountPayload
	path := "/v1/connectedAccounts/" + url.PathEscape(strings.TrimSpace(connectedAccountID))
	if err := c.do(ctx, http.MethodGet, path, nil, nil, &payload); err != nil {
		return core.ConnectedAccount{}, err
	}
	return payload.toDomain(), nil
}

func (c *Client) Initiate(ctx context.Context, in core.InitiateAccountInput) (core.ConnectionRequest, error) {
	body := initiateAccountPayload{
		IntegrationID: in.IntegrationID,
		UserUUID:      in.EntityID,
		RedirectURI:   in.RedirectURL,
		Labels:        in.Labels,
	}
	var payload connectionRequestPayload
	if err := c.do(ctx, http.MethodPost, "/v1/connectedAccounts", nil, body, &payload); err != nil {
		return core.ConnectionRequest{}, err
	}
	return payload.toDomain(), nil
}

func (c *Client) GetIntegration(ctx context.Context, integrationID string) (core.Integration, error) {
	var payload integrationPayload
	path := "/v1/integrations/" + url.PathEscape(strings.TrimSpace(integrationID))
	if err := c.do(ctx, http.MethodGet, path, nil, nil, &payload); err != nil {
		return core.Integration{}, err
	}
	return payload.toDomain(), nil
}

func (c *Client) CreateIntegration(ctx context.Context, in core.CreateIntegrationInput) (core.Integration, error) {
	body := createIntegrationPayload{
		AppID:           in.AppID,
		Name:            in.Name,
		AuthScheme:      in.AuthScheme,
		AuthConfig:      in.AuthConfig,
		UseComposioAuth: in.UseComposioAuth,
	}
	var payload integrationPayload
	if err := c.do(ctx, http.MethodPost, "/v1/integrations", nil, body, &payload); err != nil {
		return core.Integration{}, err
	}
	return payload.toDomain(), nil
}

func (c *Client) Execute(ctx context.Context, req core.ExecutionRequest) (core.ExecutionResult, error) {
	input := req.Input
	if input == nil {
		input = map[string]any{}
	}
	body := executeActionPayload{
		ConnectedAccountID: req.ConnectedAccountID,
		Input:              input,
		AppName:            req.AppName,
		Text:               req.Text,
	}
	var payload executionResultPayload
	path := "/v2/actions/" + url.PathEscape(strings.TrimSpace(req.ActionName)) + "/execute"
	if err := c.do(ctx, http.MethodPost, path, nil, body, &payload); err != nil {
		return core.ExecutionResult{}, err
	}
	return payload.toDomain(), nil
}

func (c *Client) Enable(ctx context.Context, in core.EnableTriggerInput) (core.TriggerSubscription, error) {
	body := enableTriggerPayload{TriggerConfig: in.Config}
	if body.TriggerConfig == nil {
		body.TriggerConfig = map[string]any{}
	}
	path := fmt.Sprintf("/v1/triggers/enable/%s/%s",
		url.PathEscape(strings.TrimSpace(in.ConnectedAccountID)),
		url.PathEscape(strings.TrimSpace(in.TriggerName)),
	)
	var payload enableTriggerResponsePayload
	if err := c.do(ctx, http.MethodPost, path, nil, body, &payload); err != nil {
		return core.TriggerSubscription{}, err
	}
	return core.TriggerSubscription{
		ID:                 payload.TriggerID,
		TriggerName:        strings.TrimSpace(in.TriggerName),
		ConnectedAccountID: strings.TrimSpace(in.ConnectedAccountID),
		Active:             true,
		Config:             in.Config,
	}, nil
}

func (c *Client) ListActive(ctx context.Context, filter core.ActiveTriggersFilter) ([]core.TriggerSubscription, error) {
	query := map[string]string{}
	if len(filter.ConnectedAccountIDs) > 0 {
		query["connectedAccountIds"] = strings.Join(filter.ConnectedAccountIDs, ",")
	}
	if len(filter.TriggerNames) > 0 {
		query["triggerNames"] = strings.Join(filter.TriggerNames, ",")
	}
	var payload triggerListPayload
	if err := c.do(ctx, http.MethodGet, "/v1/triggers/active_triggers", query, nil, &payload); err != nil {
		return nil, err
	}
	subscriptions := make([]core.TriggerSubscription, 0, len(payload.Triggers))
	for _, trigger := range payload.Triggers {
		subscription := trigger.toDomain()
		if !subscription.Active {
			continue
		}
		subscriptions = append(subscriptions, subscription)
	}
	return subscriptions, nil
}

func (c *Client) Disable(ctx context.Context, triggerID string) error {
	path := "/v1/triggers/disable/" + url.PathEscape(strings.TrimSpace(triggerID))
	return c.do(ctx, http.MethodPost, path, nil, nil, nil)
}

func (c *Client) do(ctx context.Context, method, path string, query map[string]string, body any, out any) error {
	if c == nil || c.adapter == nil {
		return goerrors.New("backend: transport adapter is not configured", goerrors.CategoryInternal).
			WithCode(http.StatusInternalServerError).
			WithTextCode(core.ErrorCodeUnknownBackend)
	}

	var encoded []byte
	if body != nil {
		var err error
		encoded, err = json.Marshal(body)
		if err != nil {
			return goerrors.Wrap(err, goerrors.CategoryInternal, "backend: encode request body").
				WithTextCode(core.ErrorCodeUnknownBackend)
		}
	}

	headers := map[string]string{
		"Content-Type": "application/json",
		"Accept":       "application/json",
	}
	if c.apiKey != "" {
		headers[headerAPIKey] = c.apiKey
	}

	bucket := ratelimit.Key{App: "composio", Bucket: routeBucket(path)}
	if c.rateLimit != nil {
		if err := c.rateLimit.BeforeCall(ctx, bucket); err != nil {
			var throttled ratelimit.ThrottledError
			if errors.As(err, &throttled) {
				return &core.TransportError{
					Method:     method,
					BaseURL:    c.baseURL,
					Path:       path,
					StatusCode: http.StatusTooManyRequests,
					Upstream: &core.UpstreamError{
						Name:    "RateLimitedLocally",
						Message: throttled.Error(),
					},
					Err: throttled,
				}
			}
			return err
		}
	}

	res, err := c.adapter.Do(ctx, core.TransportRequest{
		Method:  method,
		URL:     c.baseURL + path,
		Headers: headers,
		Query:   query,
		Body:    encoded,
		Timeout: c.timeout,
	})
	if err != nil {
		return &core.TransportError{
			Method:  method,
			BaseURL: c.baseURL,
			Path:    path,
			Err:     err,
		}
	}

	if c.rateLimit != nil {
		if stateErr := c.rateLimit.AfterCall(ctx, bucket, res); stateErr != nil {
			c.logger.Error("rate limit state update failed",
				"bucket", bucket.Bucket,
				"error", stateErr,
			)
		}
	}

	if res.StatusCode < 200 || res.StatusCode > 299 {
		return c.responseError(method, path, res)
	}

	if out == nil || len(res.Body) == 0 {
		return nil
	}
	if err := json.Unmarshal(res.Body, out); err != nil {
		return &core.TransportError{
			Method:     method,
			BaseURL:    c.baseURL,
			Path:       path,
			StatusCode: res.StatusCode,
			RequestID:  headerValue(res.Headers, headerRequestID),
			Err:        fmt.Errorf("backend: decode response body: %w", err),
		}
	}
	return nil
}

func (c *Client) responseError(method, path string, res core.TransportResponse) error {
	terr := &core.TransportError{
		Method:     method,
		BaseURL:    c.baseURL,
		Path:       path,
		StatusCode: res.StatusCode,
		RequestID:  headerValue(res.Headers, headerRequestID),
	}
	var envelope errorEnvelope
	if len(res.Body) > 0 {
		if err := json.Unmarshal(res.Body, &envelope); err == nil && envelope.Error != nil {
			terr.Upstream = &core.UpstreamError{
				Type:    envelope.Error.Type,
				Name:    envelope.Error.Name,
				Message: envelope.Error.Message,
			}
		}
	}
	c.logger.Error("backend request failed",
		"method", method,
		"path", path,
		"status_code", res.StatusCode,
		"request_id", terr.RequestID,
	)
	return terr
}

func routeBucket(path string) string {
	segments := strings.Split(strings.Trim(path, "/"), "/")
	if len(segments) >= 2 {
		return strings.ToLower(segments[1])
	}
	if len(segments) == 1 && segments[0] != "" {
		return strings.ToLower(segments[0])
	}
	return "api"
}

func headerValue(headers map[string]string, name string) string {
	for key, value := range headers {
		if strings.EqualFold(key, name) {
			return value
		}
	}
	return ""
}
