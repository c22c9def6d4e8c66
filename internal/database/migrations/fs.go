// Package migrations holds the goose Go migrations for the storefront
// schema and starter catalog.
package migrations

import "embed"

// FS exposes the migration sources so goose can list versions without the
// repository checked out next to the binary.
//
//go:embed *.go
var FS embed.FS
