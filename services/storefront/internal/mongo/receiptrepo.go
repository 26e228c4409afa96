package mongo

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/appetiteclub/storefront/services/storefront/internal/order"
)

// Receipt is the storefront's own record of an order it placed.
type Receipt struct {
	OrderID      string        `bson:"_id"`
	Correlation  string        `bson:"correlation"`
	CustomerID   string        `bson:"customer_id"`
	CustomerName string        `bson:"customer_name"`
	Status       string        `bson:"status"`
	Total        string        `bson:"total"`
	Note         string        `bson:"note,omitempty"`
	Lines        []ReceiptLine `bson:"lines"`
	PlacedAt     time.Time     `bson:"placed_at"`
}

type ReceiptLine struct {
	ItemID   string `bson:"item_id"`
	Name     string `bson:"name"`
	Quantity int    `bson:"quantity"`
	Price    string `bson:"price"`
}

// NewReceipt records an accepted request. Amounts are stored as exact
// decimal strings.
func NewReceipt(req order.Request, res order.Result) Receipt {
	lines := make([]ReceiptLine, 0, len(req.Items))
	for _, l := range req.Items {
		lines = append(lines, ReceiptLine{
			ItemID:   l.ItemID,
			Name:     l.Name,
			Quantity: l.Quantity,
			Price:    l.Price.String(),
		})
	}

	return Receipt{
		OrderID:      res.OrderID,
		Correlation:  req.Correlation,
		CustomerID:   req.CustomerID,
		CustomerName: req.CustomerName,
		Status:       res.Status,
		Total:        req.TotalAmount.String(),
		Note:         req.Note,
		Lines:        lines,
		PlacedAt:     req.PlacedAt.UTC(),
	}
}

// Record converts the receipt back into an order record.
func (r Receipt) Record() order.Record {
	rec := order.Record{
		ID:          r.OrderID,
		Status:      r.Status,
		TotalAmount: decimalOrZero(r.Total),
		PlacedAt:    r.PlacedAt,
		Note:        r.Note,
	}
	for _, l := range r.Lines {
		rec.Items = append(rec.Items, order.Line{
			ItemID:   l.ItemID,
			Name:     l.Name,
			Quantity: l.Quantity,
			Price:    decimalOrZero(l.Price),
		})
	}
	return rec
}

func decimalOrZero(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}

type ReceiptRepo struct {
	collection *mongo.Collection
}

func NewReceiptRepo(db *mongo.Database) *ReceiptRepo {
	return &ReceiptRepo{
		collection: db.Collection("receipts"),
	}
}

// Save upserts by order id so a replayed notification does not duplicate.
func (r *ReceiptRepo) Save(ctx context.Context, receipt Receipt) error {
	if receipt.OrderID == "" {
		return fmt.Errorf("receipt has no order id")
	}

	filter := bson.M{"_id": receipt.OrderID}
	opts := options.Replace().SetUpsert(true)
	if _, err := r.collection.ReplaceOne(ctx, filter, receipt, opts); err != nil {
		return fmt.Errorf("cannot save receipt: %w", err)
	}
	return nil
}

// ListByCustomer returns a customer's receipts, newest first.
func (r *ReceiptRepo) ListByCustomer(ctx context.Context, customerID string, limit int64) ([]Receipt, error) {
	opts := options.Find().SetSort(bson.D{{Key: "placed_at", Value: -1}})
	if limit > 0 {
		opts.SetLimit(limit)
	}

	cursor, err := r.collection.Find(ctx, bson.M{"customer_id": customerID}, opts)
	if err != nil {
		return nil, fmt.Errorf("cannot list receipts: %w", err)
	}
	defer cursor.Close(ctx)

	var result []Receipt
	if err := cursor.All(ctx, &result); err != nil {
		return nil, fmt.Errorf("cannot decode receipts: %w", err)
	}
	return result, nil
}

// UpdateStatus records a status change, e.g. after a cancellation.
func (r *ReceiptRepo) UpdateStatus(ctx context.Context, orderID, status string) error {
	_, err := r.collection.UpdateOne(ctx, bson.M{"_id": orderID}, bson.M{"$set": bson.M{"status": status}})
	if err != nil {
		return fmt.Errorf("cannot update receipt: %w", err)
	}
	return nil
}

// OrderPlaced stores a receipt for an accepted order.
func (r *ReceiptRepo) OrderPlaced(ctx context.Context, req order.Request, res order.Result) error {
	return r.Save(ctx, NewReceipt(req, res))
}
