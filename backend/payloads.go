package backend

import (
	"time"

	"github.com/hussamgalal999/composio/core"
)

type errorEnvelope struct {
	Error *upstreamErrorPayload `json:"error"`
}

type upstreamErrorPayload struct {
	Type    string `json:"type"`
	Name    string `json:"name"`
	Message string `json:"message"`
}

type actionPayload struct {
	Name        string `json:"name"`
	DisplayName string `json:"display_name"`
	AppKey      string `json:"appKey"`
	AppName     string `json:"appName"`
	NoAuth      bool   `json:"no_auth"`
}

func (p actionPayload) toDomain() core.Action {
	appKey := p.AppKey
	if appKey == "" {
		appKey = p.AppName
	}
	return core.Action{
		Name:        p.Name,
		DisplayName: p.DisplayName,
		AppKey:      appKey,
		NoAuth:      p.NoAuth,
	}
}

type authSchemePayload struct {
	Mode       string `json:"mode"`
	AuthMode   string `json:"auth_mode"`
	SchemeName string `json:"scheme_name"`
}

func (p authSchemePayload) mode() string {
	if p.Mode != "" {
		return p.Mode
	}
	if p.AuthMode != "" {
		return p.AuthMode
	}
	return p.SchemeName
}

type testConnectorPayload struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	AuthScheme string `json:"authScheme"`
}

type appPayload struct {
	Key            string                 `json:"key"`
	AppID          string                 `json:"appId"`
	Name           string                 `json:"name"`
	NoAuth         bool                   `json:"no_auth"`
	AuthSchemes    []authSchemePayload    `json:"auth_schemes"`
	TestConnectors []testConnectorPayload `json:"testConnectors"`
}

func (p appPayload) toDomain() core.App {
	app := core.App{
		Key:    p.Key,
		AppID:  p.AppID,
		Name:   p.Name,
		NoAuth: p.NoAuth,
	}
	for _, scheme := range p.AuthSchemes {
		app.AuthSchemes = append(app.AuthSchemes, core.AuthScheme{Mode: scheme.mode()})
	}
	for _, connector := range p.TestConnectors {
		app.TestConnectors = append(app.TestConnectors, core.TestConnector{
			ID:         connector.ID,
			Name:       connector.Name,
			AuthScheme: connector.AuthScheme,
		})
	}
	return app
}

type connectedAccountPayload struct {
	ID               string         `json:"id"`
	AppName          string         `json:"appName"`
	AppUniqueID      string         `json:"appUniqueId"`
	EntityID         string         `json:"clientUniqueUserId"`
	IntegrationID    string         `json:"integrationId"`
	Status           string         `json:"status"`
	Labels           []string       `json:"labels"`
	ConnectionParams map[string]any `json:"connectionParams"`
	CreatedAt        time.Time      `json:"createdAt"`
}

func (p connectedAccountPayload) toDomain() core.ConnectedAccount {
	appName := p.AppName
	if appName == "" {
		appName = p.AppUniqueID
	}
	return core.ConnectedAccount{
		ID:               p.ID,
		AppName:          appName,
		EntityID:         p.EntityID,
		IntegrationID:    p.IntegrationID,
		Status:           core.ConnectionStatus(p.Status),
		Labels:           p.Labels,
		ConnectionParams: p.ConnectionParams,
		CreatedAt:        p.CreatedAt,
	}
}

type connectedAccountListPayload struct {
	Items []connectedAccountPayload `json:"items"`
}

type initiateAccountPayload struct {
	IntegrationID string   `json:"integrationId"`
	UserUUID      string   `json:"userUuid"`
	RedirectURI   string   `json:"redirectUri,omitempty"`
	Labels        []string `json:"labels,omitempty"`
}

type connectionRequestPayload struct {
	ConnectedAccountID string `json:"connectedAccountId"`
	ConnectionStatus   string `json:"connectionStatus"`
	RedirectURL        string `json:"redirectUrl"`
}

func (p connectionRequestPayload) toDomain() core.ConnectionRequest {
	return core.ConnectionRequest{
		ConnectedAccountID: p.ConnectedAccountID,
		ConnectionStatus:   core.ConnectionStatus(p.ConnectionStatus),
		RedirectURL:        p.RedirectURL,
	}
}

type integrationPayload struct {
	ID              string         `json:"id"`
	Name            string         `json:"name"`
	AppID           string         `json:"appId"`
	AppName         string         `json:"appName"`
	AuthScheme      string         `json:"authScheme"`
	AuthConfig      map[string]any `json:"authConfig"`
	UseComposioAuth bool           `json:"useComposioAuth"`
	CreatedAt       time.Time      `json:"createdAt"`
}

func (p integrationPayload) toDomain() core.Integration {
	return core.Integration{
		ID:              p.ID,
		Name:            p.Name,
		AppID:           p.AppID,
		AppName:         p.AppName,
		AuthScheme:      p.AuthScheme,
		AuthConfig:      p.AuthConfig,
		UseComposioAuth: p.UseComposioAuth,
		CreatedAt:       p.CreatedAt,
	}
}

type createIntegrationPayload struct {
	AppID           string         `json:"appId"`
	Name            string         `json:"name"`
	AuthScheme      string         `json:"authScheme,omitempty"`
	AuthConfig      map[string]any `json:"authConfig,omitempty"`
	UseComposioAuth bool           `json:"useComposioAuth"`
}

type executeActionPayload struct {
	ConnectedAccountID string         `json:"connectedAccountId,omitempty"`
	Input              map[string]any `json:"input"`
	AppName            string         `json:"appName"`
	Text               string         `json:"text,omitempty"`
}

// executionResultPayload accepts both spellings of the success flag; older
// backend revisions emit "successfull".
type executionResultPayload struct {
	Successful       bool           `json:"successful"`
	SuccessfulLegacy bool           `json:"successfull"`
	Data             map[string]any `json:"data"`
	Error            string         `json:"error"`
}

func (p executionResultPayload) toDomain() core.ExecutionResult {
	return core.ExecutionResult{
		Successful: p.Successful || p.SuccessfulLegacy,
		Data:       p.Data,
		Error:      p.Error,
	}
}

type triggerSubscriptionPayload struct {
	ID                 string         `json:"id"`
	TriggerName        string         `json:"triggerName"`
	ConnectedAccountID string         `json:"connectionId"`
	DisabledAt         *time.Time     `json:"disabledAt"`
	State              string         `json:"state"`
	Config             map[string]any `json:"triggerConfig"`
	CreatedAt          time.Time      `json:"createdAt"`
}

func (p triggerSubscriptionPayload) toDomain() core.TriggerSubscription {
	active := p.DisabledAt == nil
	if p.State != "" {
		active = p.State == "active"
	}
	return core.TriggerSubscription{
		ID:                 p.ID,
		TriggerName:        p.TriggerName,
		ConnectedAccountID: p.ConnectedAccountID,
		Active:             active,
		Config:             p.Config,
		CreatedAt:          p.CreatedAt,
	}
}

type triggerListPayload struct {
	Triggers []triggerSubscriptionPayload `json:"triggers"`
}

type enableTriggerPayload struct {
	TriggerConfig map[string]any `json:"triggerConfig"`
}

type enableTriggerResponsePayload struct {
	TriggerID string `json:"triggerId"`
}
