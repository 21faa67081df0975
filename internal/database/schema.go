package database

import _ "embed"

// Schema is the full catalog schema generated from the migrations. Tests
// apply it to fresh in-memory databases.
//
//go:embed sqlc/schema.sql
var Schema string
