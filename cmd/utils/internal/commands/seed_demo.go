package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/aquamarinepk/aqm"
	"go.mongodb.org/mongo-driver/bson"

	"github.com/appetiteclub/storefront/cmd/utils/internal/seeding"
)

// SeedDemo inserts demo receipts once; a marker in _seeds makes it idempotent.
func SeedDemo(ctx context.Context, target Target, logger aqm.Logger) error {
	logger.Info("Starting demo seeding process...")

	client, db, err := connect(ctx, target, logger)
	if err != nil {
		return err
	}
	defer client.Disconnect(ctx)

	seedsCollection := db.Collection("_seeds")
	count, err := seedsCollection.CountDocuments(ctx, bson.M{"_id": seedID})
	if err != nil {
		return fmt.Errorf("check seed status: %w", err)
	}
	if count > 0 {
		logger.Info("Receipt demo seeds already applied, skipping")
		return nil
	}

	n, err := seeding.SeedReceipts(ctx, db.Collection("receipts"), time.Now())
	if err != nil {
		return fmt.Errorf("seed receipts: %w", err)
	}

	_, err = seedsCollection.InsertOne(ctx, bson.M{
		"_id":         seedID,
		"description": "Create demo receipts for the demo customers",
		"applied_at":  time.Now().UTC(),
	})
	if err != nil {
		logger.Infof("Failed to mark seed as applied: %v", err)
	}

	logger.Info("Receipt demo seeds applied successfully", "receipts", n)
	return nil
}
