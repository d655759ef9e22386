package query

import (
	"context"

	"github.com/hussamgalal999/composio/core"
)

type ConnectionReader interface {
	GetConnection(ctx context.Context, req core.GetConnectionRequest) (*core.ConnectedAccount, error)
	GetConnections(ctx context.Context, entityID string) ([]core.ConnectedAccount, error)
}

type TriggerReader interface {
	GetActiveTriggers(ctx context.Context, filter core.ActiveTriggersFilter) ([]core.TriggerSubscription, error)
}

type ActivityReader interface {
	ActivityLog(ctx context.Context, filter core.ActivityFilter) (core.ActivityPage, error)
}

type GetConnectionQuery struct {
	reader ConnectionReader
}

func NewGetConnectionQuery(reader ConnectionReader) *GetConnectionQuery {
	return &GetConnectionQuery{reader: reader}
}

func (q *GetConnectionQuery) Query(ctx context.Context, msg GetConnectionMessage) (*core.ConnectedAccount, error) {
	if q == nil || q.reader == nil {
		return nil, queryDependencyError("query: connection reader is required")
	}
	return q.reader.GetConnection(ctx, msg.Request)
}

type ListConnectionsQuery struct {
	reader ConnectionReader
}

func NewListConnectionsQuery(reader ConnectionReader) *ListConnectionsQuery {
	return &ListConnectionsQuery{reader: reader}
}

func (q *ListConnectionsQuery) Query(ctx context.Context, msg ListConnectionsMessage) ([]core.ConnectedAccount, error) {
	if q == nil || q.reader == nil {
		return nil, queryDependencyError("query: connection reader is required")
	}
	return q.reader.GetConnections(ctx, msg.EntityID)
}

type ListActiveTriggersQuery struct {
	reader TriggerReader
}

func NewListActiveTriggersQuery(reader TriggerReader) *ListActiveTriggersQuery {
	return &ListActiveTriggersQuery{reader: reader}
}

func (q *ListActiveTriggersQuery) Query(ctx context.Context, msg ListActiveTriggersMessage) ([]core.TriggerSubscription, error) {
	if q == nil || q.reader == nil {
		return nil, queryDependencyError("query: trigger reader is required")
	}
	return q.reader.GetActiveTriggers(ctx, msg.Filter)
}

type ListActivityQuery struct {
	reader ActivityReader
}

func NewListActivityQuery(reader ActivityReader) *ListActivityQuery {
	return &ListActivityQuery{reader: reader}
}

func (q *ListActivityQuery) Query(ctx context.Context, msg ListActivityMessage) (core.ActivityPage, error) {
	if q == nil || q.reader == nil {
		return core.ActivityPage{}, queryDependencyError("query: activity reader is required")
	}
	return q.reader.ActivityLog(ctx, msg.Filter)
}
