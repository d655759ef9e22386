package command

import (
	"context"

	gocmd "github.com/goliatone/go-command"

	"github.com/hussamgalal999/composio/core"
)

type MutatingService interface {
	Execute(ctx context.Context, req core.ExecuteRequest) (core.ExecutionResult, error)
	InitiateConnection(ctx context.Context, req core.InitiateConnectionRequest) (core.ConnectionRequest, error)
	SetupTrigger(ctx context.Context, req core.SetupTriggerRequest) (core.TriggerSubscription, error)
	DisableTrigger(ctx context.Context, triggerID string) error
}

type ExecuteActionCommand struct {
	service MutatingService
}

func NewExecuteActionCommand(service MutatingService) *ExecuteActionCommand {
	return &ExecuteActionCommand{service: service}
}

func (c *ExecuteActionCommand) Execute(ctx context.Context, msg ExecuteActionMessage) error {
	if c == nil || c.service == nil {
		return commandDependencyError("command: execute service is required")
	}
	out, err := c.service.Execute(ctx, msg.Request)
	if err != nil {
		return err
	}
	storeResult(ctx, out)
	return nil
}

type InitiateConnectionCommand struct {
	service MutatingService
}

func NewInitiateConnectionCommand(service MutatingService) *InitiateConnectionCommand {
	return &InitiateConnectionCommand{service: service}
}

func (c *InitiateConnectionCommand) Execute(ctx context.Context, msg InitiateConnectionMessage) error {
	if c == nil || c.service == nil {
		return commandDependencyError("command: connection service is required")
	}
	out, err := c.service.InitiateConnection(ctx, msg.Request)
	if err != nil {
		return err
	}
	storeResult(ctx, out)
	return nil
}

type SetupTriggerCommand struct {
	service MutatingService
}

func NewSetupTriggerCommand(service MutatingService) *SetupTriggerCommand {
	return &SetupTriggerCommand{service: service}
}

func (c *SetupTriggerCommand) Execute(ctx context.Context, msg SetupTriggerMessage) error {
	if c == nil || c.service == nil {
		return commandDependencyError("command: trigger service is required")
	}
	out, err := c.service.SetupTrigger(ctx, msg.Request)
	if err != nil {
		return err
	}
	storeResult(ctx, out)
	return nil
}

type DisableTriggerCommand struct {
	service MutatingService
}

func NewDisableTriggerCommand(service MutatingService) *DisableTriggerCommand {
	return &DisableTriggerCommand{service: service}
}

func (c *DisableTriggerCommand) Execute(ctx context.Context, msg DisableTriggerMessage) error {
	if c == nil || c.service == nil {
		return commandDependencyError("command: trigger service is required")
	}
	return c.service.DisableTrigger(ctx, msg.TriggerID)
}

func storeResult[T any](ctx context.Context, value T) {
	collector := gocmd.ResultFromContext[T](ctx)
	if collector == nil {
		return
	}
	collector.Store(value)
}
