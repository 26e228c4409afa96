package cart

import (
	"fmt"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/appetiteclub/storefront/services/storefront/internal/menu"
)

func item(id, price string) menu.Item {
	return menu.Item{ID: id, Name: "Item " + id, Price: decimal.RequireFromString(price), Category: "Biryani"}
}

func TestAddNeverMerges(t *testing.T) {
	biryani := item("1", "12.99")

	c := Cart{}.Add("a", biryani).Add("b", biryani)

	if c.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", c.Len())
	}
	for _, l := range c.Lines() {
		if l.Quantity != 1 {
			t.Errorf("line %s quantity = %d, want 1", l.ID, l.Quantity)
		}
	}
}

func TestAddLeavesReceiverUntouched(t *testing.T) {
	base := Cart{}.Add("a", item("1", "1.00"))
	_ = base.Add("b", item("2", "2.00"))
	_ = base.Adjust("a", 1)

	if base.Len() != 1 {
		t.Errorf("Len() = %d, want 1", base.Len())
	}
	l, _ := base.Line("a")
	if l.Quantity != 1 {
		t.Errorf("quantity = %d, want 1", l.Quantity)
	}
}

func TestAdjust(t *testing.T) {
	start := Cart{}.Add("a", item("1", "5.00")).Add("b", item("2", "3.00"))

	tests := []struct {
		name    string
		lineID  string
		delta   int
		wantIDs []string
		wantQty map[string]int
	}{
		{
			name:    "increment",
			lineID:  "a",
			delta:   1,
			wantIDs: []string{"a", "b"},
			wantQty: map[string]int{"a": 2, "b": 1},
		},
		{
			name:    "decrementAtOneRemovesLine",
			lineID:  "a",
			delta:   -1,
			wantIDs: []string{"b"},
			wantQty: map[string]int{"b": 1},
		},
		{
			name:    "unknownLineIsNoop",
			lineID:  "missing",
			delta:   -1,
			wantIDs: []string{"a", "b"},
			wantQty: map[string]int{"a": 1, "b": 1},
		},
		{
			name:    "largeDeltaIsNoop",
			lineID:  "a",
			delta:   5,
			wantIDs: []string{"a", "b"},
			wantQty: map[string]int{"a": 1, "b": 1},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := start.Adjust(tt.lineID, tt.delta)
			lines := got.Lines()
			if len(lines) != len(tt.wantIDs) {
				t.Fatalf("len(lines) = %d, want %d", len(lines), len(tt.wantIDs))
			}
			for i, id := range tt.wantIDs {
				if lines[i].ID != id {
					t.Errorf("lines[%d].ID = %q, want %q", i, lines[i].ID, id)
				}
				if lines[i].Quantity != tt.wantQty[id] {
					t.Errorf("line %s quantity = %d, want %d", id, lines[i].Quantity, tt.wantQty[id])
				}
			}
		})
	}
}

func TestQuantityNeverZero(t *testing.T) {
	c := Cart{}.Add("a", item("1", "2.00")).Adjust("a", 1)
	for i := 0; i < 4; i++ {
		c = c.Adjust("a", -1)
		for _, l := range c.Lines() {
			if l.Quantity < 1 {
				t.Fatalf("line %s quantity = %d after %d decrements", l.ID, l.Quantity, i+1)
			}
		}
	}
	if !c.IsEmpty() {
		t.Errorf("IsEmpty() = false, want true")
	}
}

func TestTotalsAfterSequence(t *testing.T) {
	c := Cart{}
	c = c.Add("a", item("1", "12.99"))
	c = c.Add("b", item("2", "0.10"))
	c = c.Add("c", item("2", "0.10"))
	c = c.Adjust("a", 1)
	c = c.Adjust("b", 1)
	c = c.Adjust("b", 1)
	c = c.Adjust("c", -1)
	c = c.Adjust("nope", 1)

	want := decimal.Zero
	count := 0
	for _, l := range c.Lines() {
		want = want.Add(l.Item.Price.Mul(decimal.NewFromInt(int64(l.Quantity))))
		count += l.Quantity
	}

	totals := c.Totals()
	if totals.ItemCount != count {
		t.Errorf("ItemCount = %d, want %d", totals.ItemCount, count)
	}
	if !totals.Amount.Equal(want) {
		t.Errorf("Amount = %s, want %s", totals.Amount, want)
	}
	if !totals.Amount.Equal(decimal.RequireFromString("26.28")) {
		t.Errorf("Amount = %s, want 26.28", totals.Amount)
	}
	if totals.ItemCount != 5 {
		t.Errorf("ItemCount = %d, want 5", totals.ItemCount)
	}
}

func TestTotalsExactForRepeatedCents(t *testing.T) {
	c := Cart{}
	for i := 0; i < 10; i++ {
		c = c.Add(fmt.Sprintf("l%d", i), item("x", "0.10"))
	}

	if got := c.Totals().Amount; !got.Equal(decimal.NewFromInt(1)) {
		t.Errorf("Amount = %s, want 1", got)
	}
}

func TestClear(t *testing.T) {
	c := Cart{}.Add("a", item("1", "1.00")).Clear()
	if !c.IsEmpty() {
		t.Errorf("IsEmpty() = false, want true")
	}
	if !c.Totals().Amount.IsZero() {
		t.Errorf("Amount = %s, want 0", c.Totals().Amount)
	}
}

func TestNewDropsEmptyLines(t *testing.T) {
	c := New(Line{ID: "a", Item: item("1", "1.00"), Quantity: 0}, Line{ID: "b", Item: item("2", "1.00"), Quantity: 2})
	if c.Len() != 1 {
		t.Errorf("Len() = %d, want 1", c.Len())
	}
}
