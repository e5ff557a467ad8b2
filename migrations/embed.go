// Package migrations holds the versioned goose migrations for the
// pending_syncs schema, embedded so the migrate CLI and the integration
// suite run the exact same files.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
