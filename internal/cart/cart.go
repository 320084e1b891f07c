package cart

import "github.com/shopspring/decimal"

// LineItem is a cart line. Name, price, category and image are copied
// from the catalog when the product is added and never re-read.
type LineItem struct {
	ID       string          `json:"id"`
	Name     string          `json:"name"`
	Price    decimal.Decimal `json:"price"`
	Quantity int             `json:"quantity"`
	Category string          `json:"category"`
	Image    string          `json:"image"`
}

// Cart is an ordered list of line items. Every retained line has
// Quantity >= 1. A Cart is not safe for concurrent use; Store serializes
// access per session.
type Cart struct {
	items []LineItem
}

// Add increments the quantity of the line with item.ID, or appends item
// with quantity 1.
func (c *Cart) Add(item LineItem) {
	for i := range c.items {
		if c.items[i].ID == item.ID {
			c.items[i].Quantity++
			return
		}
	}
	item.Quantity = 1
	c.items = append(c.items, item)
}

// SetQuantity overwrites the quantity of line id. Values below 1 are
// ignored.
func (c *Cart) SetQuantity(id string, n int) {
	if n < 1 {
		return
	}
	for i := range c.items {
		if c.items[i].ID == id {
			c.items[i].Quantity = n
			return
		}
	}
}

func (c *Cart) Remove(id string) {
	for i := range c.items {
		if c.items[i].ID == id {
			c.items = append(c.items[:i], c.items[i+1:]...)
			return
		}
	}
}

func (c *Cart) Clear() {
	c.items = nil
}

// Items returns a copy of the lines in insertion order.
func (c *Cart) Items() []LineItem {
	out := make([]LineItem, len(c.items))
	copy(out, c.items)
	return out
}

// Total is the exact sum of price x quantity over all lines.
func (c *Cart) Total() decimal.Decimal {
	total := decimal.Zero
	for _, it := range c.items {
		total = total.Add(it.Price.Mul(decimal.NewFromInt(int64(it.Quantity))))
	}
	return total
}

// Count is the number of units across all lines.
func (c *Cart) Count() int {
	n := 0
	for _, it := range c.items {
		n += it.Quantity
	}
	return n
}

func (c *Cart) IsEmpty() bool {
	return len(c.items) == 0
}
