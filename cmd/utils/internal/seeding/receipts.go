package seeding

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// DemoCustomerPrefix marks customers created by the demo seed.
const DemoCustomerPrefix = "demo-"

type demoItem struct {
	id    string
	name  string
	price string
}

var demoItems = []demoItem{
	{"101", "Margherita Pizza", "11.50"},
	{"102", "Caesar Salad", "8.75"},
	{"103", "Tomato Soup", "5.40"},
	{"104", "Tiramisu", "6.20"},
	{"105", "Lemonade", "3.10"},
}

var demoCustomers = []struct {
	id   string
	name string
}{
	{DemoCustomerPrefix + "ana", "Ana Demo"},
	{DemoCustomerPrefix + "bruno", "Bruno Demo"},
}

var demoStatuses = []string{"PENDING", "CONFIRMED", "PREPARING", "READY", "DELIVERED", "CANCELLED"}

// DemoReceipts builds receipt documents spread over the last days. The
// layout matches what the storefront stores for placed orders.
func DemoReceipts(now time.Time) []bson.M {
	var docs []bson.M
	n := 0
	for _, customer := range demoCustomers {
		for i, status := range demoStatuses {
			var lines []bson.M
			total := decimal.Zero
			for j := 0; j <= i%3; j++ {
				item := demoItems[(n+j)%len(demoItems)]
				qty := 1 + (n+j)%2
				price := decimal.RequireFromString(item.price)
				total = total.Add(price.Mul(decimal.NewFromInt(int64(qty))))
				lines = append(lines, bson.M{
					"item_id":  item.id,
					"name":     item.name,
					"quantity": qty,
					"price":    price.String(),
				})
			}

			docs = append(docs, bson.M{
				"_id":           fmt.Sprintf("demo-%04d", n+1),
				"correlation":   uuid.NewString(),
				"customer_id":   customer.id,
				"customer_name": customer.name,
				"status":        status,
				"total":         total.String(),
				"lines":         lines,
				"placed_at":     now.Add(-time.Duration(n) * 6 * time.Hour).UTC(),
			})
			n++
		}
	}
	return docs
}

// SeedReceipts inserts the demo receipts and returns how many were written.
func SeedReceipts(ctx context.Context, coll *mongo.Collection, now time.Time) (int, error) {
	docs := DemoReceipts(now)
	batch := make([]interface{}, 0, len(docs))
	for _, d := range docs {
		batch = append(batch, d)
	}

	result, err := coll.InsertMany(ctx, batch)
	if err != nil {
		return 0, fmt.Errorf("insert receipts: %w", err)
	}
	return len(result.InsertedIDs), nil
}

// DemoFilter selects the receipts written by SeedReceipts.
func DemoFilter() bson.M {
	return bson.M{"customer_id": bson.M{"$regex": "^" + DemoCustomerPrefix}}
}
