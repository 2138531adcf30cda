// Package migrations embeds the schema applied to the Postgres tenant store.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
