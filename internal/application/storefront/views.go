package storefront

import (
	"github.com/shopspring/decimal"
	"github.com/weblarek/storefront/internal/domain/cart"
	"github.com/weblarek/storefront/internal/domain/catalog"
	"github.com/weblarek/storefront/internal/domain/order"
)

// Modal names the content shown in the overlay
type Modal string

// Overlay contents
const (
	ModalPreview  Modal = "preview"
	ModalCart     Modal = "cart"
	ModalDelivery Modal = "delivery"
	ModalContacts Modal = "contacts"
	ModalSuccess  Modal = "success"
)

// Level is the severity of a user-facing notice
type Level int

// Notice levels
const (
	LevelInfo Level = iota
	LevelWarning
	LevelError
)

// String returns the level name
func (l Level) String() string {
	switch l {
	case LevelWarning:
		return "warning"
	case LevelError:
		return "error"
	default:
		return "info"
	}
}

// PageView renders the main page: the gallery and the cart counter
type PageView interface {
	RenderCatalog(products []catalog.Product)
	RenderCartCounter(count int)
}

// PreviewView renders a single product with its buy action.
// The buy action is disabled for products that are not purchasable.
type PreviewView interface {
	RenderPreview(p catalog.Product, inCart bool)
}

// CartView renders cart entries with their 1-based index and the total.
// Checkout is disabled on an empty cart.
type CartView interface {
	RenderCart(entries []cart.Entry, total decimal.Decimal)
}

// OrderView renders the two checkout steps and the order result
type OrderView interface {
	RenderDelivery(s order.Snapshot, valid bool)
	RenderContacts(s order.Snapshot, valid bool)
	RenderErrors(step order.Step, messages []string)
	RenderSuccess(total decimal.Decimal)
}

// ModalView is the overlay hosting previews, the cart and the order form
type ModalView interface {
	Open(content Modal)
	Close()
}

// Notifier surfaces messages that do not belong to a view, such as
// transport failures
type Notifier interface {
	Notify(level Level, message string)
}

// Views groups the view collaborators of the coordinator
type Views struct {
	Page     PageView
	Preview  PreviewView
	Cart     CartView
	Order    OrderView
	Modal    ModalView
	Notifier Notifier
}

func (v Views) validate() error {
	switch {
	case v.Page == nil:
		return errMissingView("page")
	case v.Preview == nil:
		return errMissingView("preview")
	case v.Cart == nil:
		return errMissingView("cart")
	case v.Order == nil:
		return errMissingView("order")
	case v.Modal == nil:
		return errMissingView("modal")
	case v.Notifier == nil:
		return errMissingView("notifier")
	}
	return nil
}
