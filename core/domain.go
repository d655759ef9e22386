package core

import (
	"strings"
	"time"
)

const (
	// DefaultEntityID scopes connection lookups when the caller does not
	// name an entity.
	DefaultEntityID = "default"

	// PrimaryLabel marks a connected account as the explicit user choice for
	// its entity. A primary account wins resolution regardless of app match,
	// status, or recency.
	PrimaryLabel = "primary"
)

type ConnectionStatus string

// Connection statuses are assigned server-side; the core never transitions
// them locally. The backend may return values outside this set.
const (
	ConnectionStatusInitiated ConnectionStatus = "INITIATED"
	ConnectionStatusActive    ConnectionStatus = "ACTIVE"
	ConnectionStatusFailed    ConnectionStatus = "FAILED"
)

// ConnectedAccount is one authenticated link between an entity and a
// third-party app. ConnectionParams is an opaque credential payload: the core
// forwards it, never inspects it.
type ConnectedAccount struct {
	ID               string
	AppName          string
	EntityID         string
	IntegrationID    string
	Status           ConnectionStatus
	Labels           []string
	ConnectionParams map[string]any
	CreatedAt        time.Time
}

func (a ConnectedAccount) HasLabel(label string) bool {
	wanted := strings.TrimSpace(strings.ToLower(label))
	if wanted == "" {
		return false
	}
	for _, candidate := range a.Labels {
		if strings.TrimSpace(strings.ToLower(candidate)) == wanted {
			return true
		}
	}
	return false
}

// Integration is a reusable auth configuration bound to one app. Immutable
// once created from the core's perspective.
type Integration struct {
	ID              string
	Name            string
	AppID           string
	AppName         string
	AuthScheme      string
	AuthConfig      map[string]any
	UseComposioAuth bool
	CreatedAt       time.Time
}

// Action identifies a unit of remote-executable capability.
type Action struct {
	Name        string
	DisplayName string
	AppKey      string
	NoAuth      bool
}

type AuthScheme struct {
	Mode string
}

type TestConnector struct {
	ID         string
	Name       string
	AuthScheme string
}

type App struct {
	Key            string
	AppID          string
	Name           string
	NoAuth         bool
	AuthSchemes    []AuthScheme
	TestConnectors []TestConnector
}

// ConnectionRequest is the backend's answer to a connection initiation: the
// account created in INITIATED state plus the URL the end user must visit to
// complete the credential-issuance flow.
type ConnectionRequest struct {
	ConnectedAccountID string
	ConnectionStatus   ConnectionStatus
	RedirectURL        string
}

type ExecutionResult struct {
	Successful bool
	Data       map[string]any
	Error      string
}

type TriggerSubscription struct {
	ID                 string
	TriggerName        string
	ConnectedAccountID string
	Active             bool
	Config             map[string]any
	CreatedAt          time.Time
}

type ActivityStatus string

const (
	ActivityStatusOK    ActivityStatus = "ok"
	ActivityStatusError ActivityStatus = "error"
)

// ActivityEntry is one row of the optional local audit ledger.
type ActivityEntry struct {
	ID        string
	EntityID  string
	AppName   string
	Action    string
	Object    string
	Status    ActivityStatus
	Metadata  map[string]any
	CreatedAt time.Time
}

type ActivityFilter struct {
	EntityID string
	AppName  string
	Action   string
	Status   ActivityStatus
	From     *time.Time
	To       *time.Time
	Page     int
	PerPage  int
}

type ActivityPage struct {
	Items   []ActivityEntry
	Page    int
	PerPage int
	Total   int
	HasNext bool
}
