package command

import (
	"fmt"
	"strings"

	"github.com/hussamgalal999/composio/core"
)

const (
	TypeExecuteAction      = "composio.command.action.execute"
	TypeInitiateConnection = "composio.command.connection.initiate"
	TypeSetupTrigger       = "composio.command.trigger.setup"
	TypeDisableTrigger     = "composio.command.trigger.disable"
)

type ExecuteActionMessage struct {
	Request core.ExecuteRequest
}

func (ExecuteActionMessage) Type() string { return TypeExecuteAction }

func (m ExecuteActionMessage) Validate() error {
	if strings.TrimSpace(m.Request.Action) == "" {
		return fmt.Errorf("command: action name is required")
	}
	return nil
}

type InitiateConnectionMessage struct {
	Request core.InitiateConnectionRequest
}

func (InitiateConnectionMessage) Type() string { return TypeInitiateConnection }

func (m InitiateConnectionMessage) Validate() error {
	if strings.TrimSpace(m.Request.App) == "" && strings.TrimSpace(m.Request.IntegrationID) == "" {
		return fmt.Errorf("command: app or integration id is required")
	}
	return nil
}

type SetupTriggerMessage struct {
	Request core.SetupTriggerRequest
}

func (SetupTriggerMessage) Type() string { return TypeSetupTrigger }

func (m SetupTriggerMessage) Validate() error {
	if strings.TrimSpace(m.Request.TriggerName) == "" {
		return fmt.Errorf("command: trigger name is required")
	}
	if strings.TrimSpace(m.Request.App) == "" && strings.TrimSpace(m.Request.ConnectedAccountID) == "" {
		return fmt.Errorf("command: app or connected account id is required")
	}
	return nil
}

type DisableTriggerMessage struct {
	TriggerID string
}

func (DisableTriggerMessage) Type() string { return TypeDisableTrigger }

func (m DisableTriggerMessage) Validate() error {
	if strings.TrimSpace(m.TriggerID) == "" {
		return fmt.Errorf("command: trigger id is required")
	}
	return nil
}
