// Package migrations embeds the SQL schema of the products table.
package migrations

import "embed"

// SchemaFile is the migration that creates the products table.
const SchemaFile = "000001_create_products_table.up.sql"

//go:embed *.sql
var FS embed.FS
