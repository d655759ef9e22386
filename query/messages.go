package query

import (
	"fmt"
	"strings"

	"github.com/hussamgalal999/composio/core"
)

const (
	TypeGetConnection      = "composio.query.connection.get"
	TypeListConnections    = "composio.query.connection.list"
	TypeListActiveTriggers = "composio.query.trigger.list_active"
	TypeListActivity       = "composio.query.activity.list"
)

type GetConnectionMessage struct {
	Request core.GetConnectionRequest
}

func (GetConnectionMessage) Type() string { return TypeGetConnection }

func (m GetConnectionMessage) Validate() error {
	if strings.TrimSpace(m.Request.App) == "" && strings.TrimSpace(m.Request.ConnectedAccountID) == "" {
		return fmt.Errorf("query: app or connected account id is required")
	}
	return nil
}

type ListConnectionsMessage struct {
	EntityID string
}

func (ListConnectionsMessage) Type() string { return TypeListConnections }

func (ListConnectionsMessage) Validate() error { return nil }

type ListActiveTriggersMessage struct {
	Filter core.ActiveTriggersFilter
}

func (ListActiveTriggersMessage) Type() string { return TypeListActiveTriggers }

func (ListActiveTriggersMessage) Validate() error { return nil }

type ListActivityMessage struct {
	Filter core.ActivityFilter
}

func (ListActivityMessage) Type() string { return TypeListActivity }

func (m ListActivityMessage) Validate() error {
	if m.Filter.Page < 0 {
		return fmt.Errorf("query: page must be >= 0")
	}
	if m.Filter.PerPage < 0 {
		return fmt.Errorf("query: per_page must be >= 0")
	}
	return nil
}
