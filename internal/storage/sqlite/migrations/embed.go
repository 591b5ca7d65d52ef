// Package migrations embeds the SQLite schema migrations for roster snapshots.
package migrations

import "embed"

// FS contains the golang-migrate up/down scripts.
//
//go:embed *.sql
var FS embed.FS
