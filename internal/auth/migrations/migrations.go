// Package migrations embeds the goose migrations of the auth schema.
package migrations

import "embed"

//go:embed *.sql
var Migrations embed.FS
