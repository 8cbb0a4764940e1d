package cart

import (
	"context"

	"github.com/shopspring/decimal"
	"github.com/weblarek/storefront/internal/domain/catalog"
	"github.com/weblarek/storefront/internal/domain/shared"
)

// Entry pairs a product with a positive quantity
type Entry struct {
	Product  catalog.Product `json:"product"`
	Quantity int             `json:"quantity"`
}

// LineTotal returns price × quantity for the entry
func (e Entry) LineTotal() decimal.Decimal {
	return e.Product.PriceOrZero().Mul(decimal.NewFromInt(int64(e.Quantity)))
}

// Cart is the shopping cart aggregate.
// It holds at most one entry per product id, in insertion order, and every
// retained entry has quantity >= 1. Each mutation publishes a ChangedEvent
// after the new state is in place.
type Cart struct {
	shared.BaseAggregateRoot
	entries   []Entry
	publisher shared.EventPublisher
}

// New creates an empty cart publishing its changes through publisher
func New(publisher shared.EventPublisher) *Cart {
	return &Cart{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		entries:           make([]Entry, 0),
		publisher:         publisher,
	}
}

// AddItem increments the quantity of the product's entry, appending a new
// entry with quantity 1 when there is none. Products without a price are
// rejected with ErrNotPurchasable and nothing is published.
func (c *Cart) AddItem(ctx context.Context, product catalog.Product) error {
	if product.ID == "" {
		return shared.NewDomainError("INVALID_INPUT", "product id cannot be empty")
	}
	if !product.IsPurchasable() {
		return shared.ErrNotPurchasable
	}

	if i := c.indexOf(product.ID); i >= 0 {
		c.entries[i].Quantity++
	} else {
		c.entries = append(c.entries, Entry{Product: product, Quantity: 1})
	}

	return c.changed(ctx)
}

// RemoveItem drops the entry for productID. Removing an unknown id leaves the
// cart as it was but still publishes a ChangedEvent.
func (c *Cart) RemoveItem(ctx context.Context, productID string) error {
	if i := c.indexOf(productID); i >= 0 {
		c.entries = append(c.entries[:i], c.entries[i+1:]...)
	}
	return c.changed(ctx)
}

// Clear empties the cart
func (c *Cart) Clear(ctx context.Context) error {
	c.entries = make([]Entry, 0)
	return c.changed(ctx)
}

// TotalPrice returns the sum of price × quantity over all entries
func (c *Cart) TotalPrice() decimal.Decimal {
	total := decimal.Zero
	for _, e := range c.entries {
		total = total.Add(e.LineTotal())
	}
	return total
}

// Entries returns a copy of the entries in display order
func (c *Cart) Entries() []Entry {
	out := make([]Entry, len(c.entries))
	copy(out, c.entries)
	return out
}

// Len returns the number of distinct entries
func (c *Cart) Len() int {
	return len(c.entries)
}

// IsEmpty reports whether the cart has no entries
func (c *Cart) IsEmpty() bool {
	return len(c.entries) == 0
}

// Contains reports whether the cart has an entry for productID
func (c *Cart) Contains(productID string) bool {
	return c.indexOf(productID) >= 0
}

// Quantity returns the quantity held for productID, 0 if absent
func (c *Cart) Quantity(productID string) int {
	if i := c.indexOf(productID); i >= 0 {
		return c.entries[i].Quantity
	}
	return 0
}

// ItemIDs returns the product ids to order, one per unit of quantity, in
// display order
func (c *Cart) ItemIDs() []string {
	ids := make([]string, 0, len(c.entries))
	for _, e := range c.entries {
		for range e.Quantity {
			ids = append(ids, e.Product.ID)
		}
	}
	return ids
}

func (c *Cart) indexOf(productID string) int {
	for i, e := range c.entries {
		if e.Product.ID == productID {
			return i
		}
	}
	return -1
}

func (c *Cart) changed(ctx context.Context) error {
	c.IncrementVersion()
	c.Touch()
	c.AddDomainEvent(NewChangedEvent(c))
	events := c.PullDomainEvents()
	if c.publisher == nil {
		return nil
	}
	return c.publisher.Publish(ctx, events...)
}
