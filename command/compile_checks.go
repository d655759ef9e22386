package command

import gocmd "github.com/goliatone/go-command"

var (
	_ gocmd.Commander[ExecuteActionMessage]      = (*ExecuteActionCommand)(nil)
	_ gocmd.Commander[InitiateConnectionMessage] = (*InitiateConnectionCommand)(nil)
	_ gocmd.Commander[SetupTriggerMessage]       = (*SetupTriggerCommand)(nil)
	_ gocmd.Commander[DisableTriggerMessage]     = (*DisableTriggerCommand)(nil)
)
