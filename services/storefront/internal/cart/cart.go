package cart

import (
	"github.com/shopspring/decimal"

	"github.com/appetiteclub/storefront/services/storefront/internal/menu"
)

// Line is one add action in the cart. It holds a value copy of the item as
// it was when added, so later catalog fetches never change it.
type Line struct {
	ID       string
	Item     menu.Item
	Quantity int
}

// Subtotal is the unit price times the quantity.
func (l Line) Subtotal() decimal.Decimal {
	return l.Item.Price.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// Totals are derived from the lines on every read and never stored.
type Totals struct {
	ItemCount int
	Amount    decimal.Decimal
}

// Cart is an ordered list of lines. The zero value is an empty cart.
// Every operation returns a new Cart and leaves the receiver untouched.
type Cart struct {
	lines []Line
}

// New builds a cart from lines, dropping any with a quantity below one.
func New(lines ...Line) Cart {
	var c Cart
	for _, l := range lines {
		if l.Quantity < 1 {
			continue
		}
		c.lines = append(c.lines, l)
	}
	return c
}

// Lines returns a copy of the lines in insertion order.
func (c Cart) Lines() []Line {
	if len(c.lines) == 0 {
		return nil
	}
	out := make([]Line, len(c.lines))
	copy(out, c.lines)
	return out
}

func (c Cart) Len() int {
	return len(c.lines)
}

func (c Cart) IsEmpty() bool {
	return len(c.lines) == 0
}

// Line looks up a line by id.
func (c Cart) Line(id string) (Line, bool) {
	for _, l := range c.lines {
		if l.ID == id {
			return l, true
		}
	}
	return Line{}, false
}

// Add appends a new line with quantity one. Adding the same item twice
// yields two lines.
func (c Cart) Add(lineID string, item menu.Item) Cart {
	lines := make([]Line, 0, len(c.lines)+1)
	lines = append(lines, c.lines...)
	lines = append(lines, Line{ID: lineID, Item: item, Quantity: 1})
	return Cart{lines: lines}
}

// Adjust changes a line's quantity by +1 or -1. A line that would reach zero
// is removed. Unknown ids and other deltas leave the cart unchanged.
func (c Cart) Adjust(lineID string, delta int) Cart {
	if delta != 1 && delta != -1 {
		return c
	}

	idx := -1
	for i, l := range c.lines {
		if l.ID == lineID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return c
	}

	qty := c.lines[idx].Quantity + delta
	lines := make([]Line, 0, len(c.lines))
	for i, l := range c.lines {
		if i == idx {
			if qty < 1 {
				continue
			}
			l.Quantity = qty
		}
		lines = append(lines, l)
	}
	return Cart{lines: lines}
}

// Clear returns an empty cart.
func (c Cart) Clear() Cart {
	return Cart{}
}

// Totals sums quantities and line subtotals.
func (c Cart) Totals() Totals {
	t := Totals{Amount: decimal.Zero}
	for _, l := range c.lines {
		t.ItemCount += l.Quantity
		t.Amount = t.Amount.Add(l.Subtotal())
	}
	return t
}
