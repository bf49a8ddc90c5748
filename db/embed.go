// Package db provides the embedded database schema and reference seed data.
package db

import _ "embed"

// Schema contains the DDL statements for all application tables.
//
//go:embed migrations/001_schema.sql
var Schema string

// SeedMenu contains the fixed reference menu as JSON. The catalog is
// populated from it at startup with insert-if-absent semantics.
//
//go:embed seed/menu.json
var SeedMenu []byte
