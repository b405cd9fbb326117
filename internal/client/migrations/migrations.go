// Package migrations embeds the reader's local goose migrations.
package migrations

import "embed"

//go:embed *.sql
var Migrations embed.FS
