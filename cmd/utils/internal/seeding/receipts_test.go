package seeding

import (
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson"
)

func TestDemoReceipts(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	docs := DemoReceipts(now)

	if len(docs) != len(demoCustomers)*len(demoStatuses) {
		t.Fatalf("receipts = %d, want %d", len(docs), len(demoCustomers)*len(demoStatuses))
	}

	ids := map[string]bool{}
	for _, doc := range docs {
		id := doc["_id"].(string)
		if ids[id] {
			t.Errorf("duplicate id %s", id)
		}
		ids[id] = true

		if !strings.HasPrefix(doc["customer_id"].(string), DemoCustomerPrefix) {
			t.Errorf("customer %v is not a demo customer", doc["customer_id"])
		}

		sum := decimal.Zero
		for _, line := range doc["lines"].([]bson.M) {
			price := decimal.RequireFromString(line["price"].(string))
			sum = sum.Add(price.Mul(decimal.NewFromInt(int64(line["quantity"].(int)))))
		}
		if total := decimal.RequireFromString(doc["total"].(string)); !total.Equal(sum) {
			t.Errorf("receipt %s total = %s, lines sum to %s", id, total, sum)
		}
	}

	if placed := docs[0]["placed_at"].(time.Time); !placed.Equal(now) {
		t.Errorf("first placed_at = %v, want %v", placed, now)
	}
}

func TestDemoFilter(t *testing.T) {
	filter := DemoFilter()
	cond, ok := filter["customer_id"].(bson.M)
	if !ok || cond["$regex"] != "^"+DemoCustomerPrefix {
		t.Errorf("filter = %v", filter)
	}
}
