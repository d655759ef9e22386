package composio

import (
	"fmt"

	composiocommand "github.com/hussamgalal999/composio/command"
	composioquery "github.com/hussamgalal999/composio/query"
)

// CommandQueryService is the surface the facade wires handlers around.
// *core.Service satisfies it.
type CommandQueryService interface {
	composiocommand.MutatingService
	composioquery.ConnectionReader
	composioquery.TriggerReader
}

type Commands struct {
	ExecuteAction      *composiocommand.ExecuteActionCommand
	InitiateConnection *composiocommand.InitiateConnectionCommand
	SetupTrigger       *composiocommand.SetupTriggerCommand
	DisableTrigger     *composiocommand.DisableTriggerCommand
}

type Queries struct {
	GetConnection      *composioquery.GetConnectionQuery
	ListConnections    *composioquery.ListConnectionsQuery
	ListActiveTriggers *composioquery.ListActiveTriggersQuery
	ListActivity       *composioquery.ListActivityQuery
}

type Facade struct {
	service  CommandQueryService
	commands Commands
	queries  Queries
}

type FacadeOption func(*facadeOptions)

type facadeOptions struct {
	activityReader composioquery.ActivityReader
}

// WithActivityReader overrides the activity log source used by the
// ListActivity query. By default the facade uses the service itself when
// it exposes an activity log.
func WithActivityReader(reader composioquery.ActivityReader) FacadeOption {
	return func(options *facadeOptions) {
		options.activityReader = reader
	}
}

func NewFacade(service CommandQueryService, opts ...FacadeOption) (*Facade, error) {
	if service == nil {
		return nil, fmt.Errorf("composio: command/query service is required")
	}
	cfg := facadeOptions{}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		opt(&cfg)
	}

	reader := cfg.activityReader
	if reader == nil {
		if candidate, ok := service.(composioquery.ActivityReader); ok {
			reader = candidate
		}
	}

	facade := &Facade{service: service}
	facade.commands = Commands{
		ExecuteAction:      composiocommand.NewExecuteActionCommand(service),
		InitiateConnection: composiocommand.NewInitiateConnectionCommand(service),
		SetupTrigger:       composiocommand.NewSetupTriggerCommand(service),
		DisableTrigger:     composiocommand.NewDisableTriggerCommand(service),
	}
	facade.queries = Queries{
		GetConnection:      composioquery.NewGetConnectionQuery(service),
		ListConnections:    composioquery.NewListConnectionsQuery(service),
		ListActiveTriggers: composioquery.NewListActiveTriggersQuery(service),
		ListActivity:       composioquery.NewListActivityQuery(reader),
	}

	return facade, nil
}

func (f *Facade) Commands() Commands {
	if f == nil {
		return Commands{}
	}
	return f.commands
}

func (f *Facade) Queries() Queries {
	if f == nil {
		return Queries{}
	}
	return f.queries
}

func (f *Facade) Service() CommandQueryService {
	if f == nil {
		return nil
	}
	return f.service
}
