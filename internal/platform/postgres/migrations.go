package postgres

import (
	"embed"
)

// Migrations holds the embedded goose migration files. The server applies
// them at startup; goose tracks state in the schema_migrations table.
//
//go:embed migrations/*.sql
var Migrations embed.FS
