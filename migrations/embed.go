// Package migrations embeds the PostgreSQL schema migrations applied at startup.
package migrations

import "embed"

// FS holds the *.up.sql / *.down.sql files in golang-migrate naming.
//
//go:embed *.sql
var FS embed.FS
