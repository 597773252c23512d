// Package migrations embeds the versioned SQL migrations applied by goose
// at startup. Schema evolution happens only here, never by runtime probing.
package migrations

import "embed"

//go:embed *.sql
var Migrations embed.FS
