package query

import (
	gocmd "github.com/goliatone/go-command"

	"github.com/hussamgalal999/composio/core"
)

var (
	_ gocmd.Querier[GetConnectionMessage, *core.ConnectedAccount]          = (*GetConnectionQuery)(nil)
	_ gocmd.Querier[ListConnectionsMessage, []core.ConnectedAccount]       = (*ListConnectionsQuery)(nil)
	_ gocmd.Querier[ListActiveTriggersMessage, []core.TriggerSubscription] = (*ListActiveTriggersQuery)(nil)
	_ gocmd.Querier[ListActivityMessage, core.ActivityPage]                = (*ListActivityQuery)(nil)
)
