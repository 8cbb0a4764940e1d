package catalog

// Catalog is the ordered product list of one fetch, indexed by id
type Catalog struct {
	products []Product
	index    map[string]int
}

// NewCatalog builds a catalog preserving the given order.
// Products with an empty id are skipped and later duplicates of an id are dropped.
func NewCatalog(products []Product) *Catalog {
	c := &Catalog{
		products: make([]Product, 0, len(products)),
		index:    make(map[string]int, len(products)),
	}
	for _, p := range products {
		if p.ID == "" {
			continue
		}
		if _, exists := c.index[p.ID]; exists {
			continue
		}
		c.index[p.ID] = len(c.products)
		c.products = append(c.products, p)
	}
	return c
}

// EmptyCatalog returns a catalog with no products
func EmptyCatalog() *Catalog {
	return NewCatalog(nil)
}

// Products returns a copy of the products in display order
func (c *Catalog) Products() []Product {
	out := make([]Product, len(c.products))
	copy(out, c.products)
	return out
}

// Find looks a product up by id
func (c *Catalog) Find(id string) (Product, bool) {
	i, ok := c.index[id]
	if !ok {
		return Product{}, false
	}
	return c.products[i], true
}

// At returns the product at a 1-based display position
func (c *Catalog) At(position int) (Product, bool) {
	if position < 1 || position > len(c.products) {
		return Product{}, false
	}
	return c.products[position-1], true
}

// Len returns the number of products
func (c *Catalog) Len() int {
	return len(c.products)
}
