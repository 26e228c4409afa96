package commands

import (
	"context"
	"fmt"

	"github.com/aquamarinepk/aqm"
	"go.mongodb.org/mongo-driver/bson"

	"github.com/appetiteclub/storefront/cmd/utils/internal/seeding"
)

// ClearDemo removes demo receipts and the seed marker so seed-demo can run again.
func ClearDemo(ctx context.Context, target Target, logger aqm.Logger) error {
	client, db, err := connect(ctx, target, logger)
	if err != nil {
		return err
	}
	defer client.Disconnect(ctx)

	result, err := db.Collection("receipts").DeleteMany(ctx, seeding.DemoFilter())
	if err != nil {
		return fmt.Errorf("delete demo receipts: %w", err)
	}
	logger.Info("Demo receipts deleted", "count", result.DeletedCount)

	if _, err := db.Collection("_seeds").DeleteOne(ctx, bson.M{"_id": seedID}); err != nil {
		return fmt.Errorf("delete seed marker: %w", err)
	}
	return nil
}
