// Package data embeds the SQL used to prepare a fresh database server.
package data

import (
	_ "embed"
)

// InitdbMariaDBTables creates the application tables on MariaDB/MySQL
//
//go:embed initdb/mariadb/001-ddl-tables.sql
var InitdbMariaDBTables string
