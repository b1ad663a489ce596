// Package data embeds the mariadb initdb DDL for the taxtrack schema: tables,
// triggers, the add_document_version procedure, the filing_summary view, and
// the application/user account grants. The testcontainers harness executes
// these against the database container at startup.
package data

import (
	_ "embed"
)

//go:embed initdb/mariadb/002-ddl-tables.sql
var InitdbMariaDBTables string

//go:embed initdb/mariadb/003-ddl-privileges.sql
var InitdbMariaDBPrivileges string
