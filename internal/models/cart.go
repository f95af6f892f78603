package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// LineItem is one (product, size, color) entry in a cart or checkout.
// Name, image and price are snapshots taken when the line was added, not
// live references into the catalog.
type LineItem struct {
	ProductID string  `json:"product_id" validate:"required"`
	Name      string  `json:"name"`
	Image     string  `json:"image"`
	Price     float64 `json:"price"`
	Size      string  `json:"size"`
	Color     string  `json:"color"`
	Quantity  int     `json:"quantity" validate:"required,gte=1"`
}

// Matches reports whether the line has the given item identity. Line-item
// identity is the (product, size, color) tuple; the same product in another
// size or color is a distinct line.
func (li LineItem) Matches(productID, size, color string) bool {
	return li.ProductID == productID && li.Size == size && li.Color == color
}

// Cart belongs to exactly one owner: an authenticated user or an anonymous
// guest. Version is the optimistic-concurrency token checked on every write.
type Cart struct {
	ID         string     `json:"id" gorm:"primaryKey;type:varchar(36)"`
	UserID     string     `json:"user_id,omitempty" gorm:"uniqueIndex:idx_carts_user,where:user_id <> '';type:varchar(36)"`
	GuestID    string     `json:"guest_id,omitempty" gorm:"uniqueIndex:idx_carts_guest,where:guest_id <> '';type:varchar(64)"`
	Items      []LineItem `json:"items" gorm:"serializer:json"`
	TotalPrice float64    `json:"total_price"`
	Version    int64      `json:"-"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}

// FindItem returns the index of the line with the given identity, or -1.
func (c *Cart) FindItem(productID, size, color string) int {
	for i, li := range c.Items {
		if li.Matches(productID, size, color) {
			return i
		}
	}
	return -1
}

// RemoveItemAt deletes the line at index i, preserving order.
func (c *Cart) RemoveItemAt(i int) {
	c.Items = append(c.Items[:i], c.Items[i+1:]...)
}

// RecomputeTotal rederives TotalPrice as sum(price * quantity) over the
// current lines. Decimal arithmetic avoids accumulating float drift across
// repeated mutations.
func (c *Cart) RecomputeTotal() {
	c.TotalPrice = SumLineItems(c.Items)
}

// SumLineItems computes sum(price * quantity) for a set of lines.
func SumLineItems(items []LineItem) float64 {
	total := decimal.Zero
	for _, li := range items {
		line := decimal.NewFromFloat(li.Price).Mul(decimal.NewFromInt(int64(li.Quantity)))
		total = total.Add(line)
	}
	f, _ := total.Float64()
	return f
}
