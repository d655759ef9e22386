package composio

import (
	"embed"
	"io/fs"
)

// migrationsFS contains the SQL migration tree for the optional activity
// ledger. The statements are portable across sqlite and postgres.
//
//go:embed data/sql/migrations/*.sql
var migrationsFS embed.FS

// GetMigrationsFS returns the embedded migration tree rooted at the
// migration files themselves, ready for RegisterSQLMigrations.
func GetMigrationsFS() fs.FS {
	sub, err := fs.Sub(migrationsFS, "data/sql/migrations")
	if err != nil {
		return migrationsFS
	}
	return sub
}
