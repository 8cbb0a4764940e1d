package catalog

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Product is a catalog item as served by the storefront API.
// Products are immutable for the lifetime of a session.
type Product struct {
	ID          string              `json:"id"`
	Title       string              `json:"title"`
	Description string              `json:"description"`
	Image       string              `json:"image"`
	Category    string              `json:"category"`
	Price       decimal.NullDecimal `json:"price"`
}

// NewProduct creates a priced product
func NewProduct(id, title, category string, price decimal.Decimal) Product {
	return Product{
		ID:       id,
		Title:    title,
		Category: category,
		Price:    decimal.NewNullDecimal(price),
	}
}

// IsPurchasable reports whether the product can be put in a cart.
// A product without a price, or with a negative one, is not for sale.
func (p Product) IsPurchasable() bool {
	return p.Price.Valid && !p.Price.Decimal.IsNegative()
}

// PriceOrZero returns the price, or zero when it is absent
func (p Product) PriceOrZero() decimal.Decimal {
	if !p.Price.Valid {
		return decimal.Zero
	}
	return p.Price.Decimal
}

// ImageURL joins the image reference with the content base URL
func (p Product) ImageURL(contentBase string) string {
	if p.Image == "" {
		return ""
	}
	if strings.HasPrefix(p.Image, "http://") || strings.HasPrefix(p.Image, "https://") {
		return p.Image
	}
	return strings.TrimRight(contentBase, "/") + "/" + strings.TrimLeft(p.Image, "/")
}

// Kind returns the display kind of the product category
func (p Product) Kind() CategoryKind {
	return KindOf(p.Category)
}
