package commands

import (
	"context"
	"fmt"

	"github.com/aquamarinepk/aqm"
)

// ResetDB drops the storefront database - USE WITH CAUTION
func ResetDB(ctx context.Context, target Target, logger aqm.Logger) error {
	logger.Info("Dropping the storefront database", "database", target.Database, "url", target.URL)

	client, db, err := connect(ctx, target, logger)
	if err != nil {
		return err
	}
	defer client.Disconnect(ctx)

	logger.Info("Dropping database", "database", db.Name())
	if err := db.Drop(ctx); err != nil {
		return fmt.Errorf("drop database %s: %w", db.Name(), err)
	}

	logger.Info("Database dropped", "database", db.Name())
	return nil
}
