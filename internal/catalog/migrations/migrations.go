// Package migrations embeds the goose migrations of the catalog schema.
package migrations

import "embed"

//go:embed *.sql
var Migrations embed.FS
