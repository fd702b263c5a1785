// Package migrations содержит SQL-схему базы, применяемую goose при старте.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
