package sqlstore

import (
	"time"

	"github.com/uptrace/bun"
)

type activityEntryRecord struct {
	bun.BaseModel `bun:"table:composio_activity_entries,alias:cae"`

	ID        string         `bun:"id,pk"`
	EntityID  string         `bun:"entity_id,notnull"`
	AppName   string         `bun:"app_name,notnull"`
	Action    string         `bun:"action,notnull"`
	Object    string         `bun:"object,notnull"`
	Status    string         `bun:"status,notnull"`
	Metadata  map[string]any `bun:"metadata,type:jsonb,notnull"`
	CreatedAt time.Time      `bun:"created_at,nullzero,notnull,default:current_timestamp"`
}
