package store

import (
	"context"
	"fmt"

	"github.com/teiprometal/inventory/internal/store/db"
	"github.com/teiprometal/inventory/internal/store/migrations"
)

// EnsureSchema creates the products table and its indexes when they are missing.
// It runs the same DDL the migrations apply, so it is a no-op on a migrated database.
func EnsureSchema(ctx context.Context, conn db.DBTX) error {
	ddl, err := migrations.FS.ReadFile(migrations.SchemaFile)
	if err != nil {
		return fmt.Errorf("failed to read schema: %w", err)
	}
	if _, err := conn.Exec(ctx, string(ddl)); err != nil {
		return storageError("create products schema", err)
	}
	return nil
}
