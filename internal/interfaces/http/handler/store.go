package handler

import (
	"fmt"
	"sync"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/weblarek/storefront/internal/domain/catalog"
	"github.com/weblarek/storefront/internal/domain/shared"
)

// Order rejection errors of the stub API
var (
	ErrProductNotFound = shared.NewDomainError("PRODUCT_NOT_FOUND", "product not found")
	ErrNotForSale      = shared.NewDomainError("NOT_FOR_SALE", "product is not for sale")
	ErrTotalMismatch   = shared.NewDomainError("TOTAL_MISMATCH", "order total does not match item prices")
)

// ItemError ties an order rejection to one of its items
type ItemError struct {
	ProductID string
	Err       error
}

func (e *ItemError) Error() string {
	return e.Err.Error() + ": " + e.ProductID
}

func (e *ItemError) Unwrap() error {
	return e.Err
}

// PlacedOrder is an order accepted by the stub
type PlacedOrder struct {
	ID      string
	Payment string
	Email   string
	Phone   string
	Address string
	Items   []string
	Total   decimal.Decimal
}

// Store is the in-memory backend of the stub API: a fixed catalog and the
// orders placed against it.
type Store struct {
	mu      sync.RWMutex
	catalog *catalog.Catalog
	orders  []PlacedOrder
	newID   func() string
}

// NewStore creates a store serving the given products
func NewStore(products []catalog.Product) *Store {
	return &Store{
		catalog: catalog.NewCatalog(products),
		newID:   uuid.NewString,
	}
}

// Products returns the catalog in order
func (s *Store) Products() []catalog.Product {
	return s.catalog.Products()
}

// Find looks a product up by id
func (s *Store) Find(id string) (catalog.Product, bool) {
	return s.catalog.Find(id)
}

// PlaceOrder checks every item against the catalog and the claimed total
// against the sum of item prices. Items may repeat, one per unit.
func (s *Store) PlaceOrder(o PlacedOrder) (PlacedOrder, error) {
	sum := decimal.Zero
	for _, id := range o.Items {
		p, ok := s.catalog.Find(id)
		if !ok {
			return PlacedOrder{}, &ItemError{ProductID: id, Err: ErrProductNotFound}
		}
		if !p.IsPurchasable() {
			return PlacedOrder{}, &ItemError{ProductID: id, Err: ErrNotForSale}
		}
		sum = sum.Add(p.Price.Decimal)
	}
	if !sum.Equal(o.Total) {
		return PlacedOrder{}, fmt.Errorf("%w: expected %s, got %s", ErrTotalMismatch, sum, o.Total)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	o.ID = s.newID()
	o.Items = append([]string(nil), o.Items...)
	s.orders = append(s.orders, o)
	return o, nil
}

// Orders returns a copy of the accepted orders
func (s *Store) Orders() []PlacedOrder {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]PlacedOrder, len(s.orders))
	copy(out, s.orders)
	return out
}

// FixtureProducts is the default stub catalog. One product has no price.
func FixtureProducts() []catalog.Product {
	products := []catalog.Product{
		catalog.NewProduct("854cef69-976d-4c2a-a18c-2aa45046c390", "+1 час в сутках", "софт-скил", decimal.NewFromInt(750)),
		catalog.NewProduct("c101ab44-ed99-4a54-990d-47aa2bb4e7d9", "HEX-леденец", "другое", decimal.NewFromInt(1450)),
		{ID: "b06cde61-912f-4663-9751-09956c0eed67", Title: "Мамка-таймер", Category: "софт-скил"},
		catalog.NewProduct("412bcf81-7e75-4e70-bdb9-d3c73c9803b7", "Фреймворк куки судьбы", "дополнительное", decimal.NewFromInt(2500)),
		catalog.NewProduct("1c521d84-c48d-48fa-8cfb-9d911fa515fd", "Кнопка «Замьютить кота»", "кнопка", decimal.NewFromInt(2000)),
		catalog.NewProduct("f3867296-45c7-4603-bd34-29cea3a061d5", "Бэкенд-антистресс", "другое", decimal.NewFromInt(1000)),
		catalog.NewProduct("54df7dcb-1213-4b3c-ab61-92ed5f845535", "Портативный телепорт", "хард-скил", decimal.NewFromInt(100000)),
	}
	descriptions := []string{
		"Если планируете решать задачи в тренажёре, берите два.",
		"Лизните этот леденец, чтобы мгновенно запоминать и узнавать любой цветовой код CSS.",
		"Будет стоять над душой и не давать прокрастинировать.",
		"Откройте эти куки, чтобы узнать, какой фреймворк вы должны изучить дальше.",
		"Если орёт кот, нажмите кнопку.",
		"Сжимайте мячик, чтобы снизить стресс от тем по бэкенду.",
		"Измените локацию для поиска работы.",
	}
	images := []string{"/5_Dots.svg", "/Shell.svg", "/Asterisk_2.svg", "/Soft_Flower.svg", "/mute-cat.svg", "/Butterfly.svg", "/Pill.svg"}
	for i := range products {
		products[i].Description = descriptions[i]
		products[i].Image = images[i]
	}
	return products
}

var fakeCategories = []string{"софт-скил", "хард-скил", "другое", "дополнительное", "кнопка"}

// GenerateProducts makes n random products from seed. Roughly one in ten
// has no price.
func GenerateProducts(seed uint64, n int) []catalog.Product {
	f := gofakeit.New(seed)
	products := make([]catalog.Product, 0, n)
	for range n {
		p := catalog.Product{
			ID:          f.UUID(),
			Title:       f.ProductName(),
			Description: f.ProductDescription(),
			Image:       "/" + f.Word() + ".svg",
			Category:    f.RandomString(fakeCategories),
		}
		if f.IntRange(1, 10) > 1 {
			p.Price = decimal.NewNullDecimal(decimal.NewFromInt(int64(f.IntRange(1, 200) * 50)))
		}
		products = append(products, p)
	}
	return products
}
