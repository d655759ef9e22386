package backend

import "github.com/hussamgalal999/composio/core"

var (
	_ core.ActionService         = actionsAPI{}
	_ core.AppService            = appsAPI{}
	_ core.ConnectedAccountStore = accountsAPI{}
	_ core.IntegrationStore      = integrationsAPI{}
	_ core.ExecutionEndpoint     = (*Client)(nil)
	_ core.TriggerService        = (*Client)(nil)
)
