package catalog

import "github.com/weblarek/storefront/internal/domain/shared"

// Event names
const (
	EventNameCatalogLoaded     shared.EventName = "catalog.loaded"
	EventNameCatalogLoadFailed shared.EventName = "catalog.load_failed"
)

// LoadedEvent is published when a product list has been fetched
type LoadedEvent struct {
	shared.BaseDomainEvent
	Products []Product `json:"products"`
}

// EventName returns the event name
func (*LoadedEvent) EventName() shared.EventName { return EventNameCatalogLoaded }

// NewLoadedEvent creates a new LoadedEvent
func NewLoadedEvent(c *Catalog) *LoadedEvent {
	return &LoadedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(),
		Products:        c.Products(),
	}
}

// LoadFailedEvent is published when a catalog fetch fails.
// Kept reports how many products from the previous fetch remain on display.
type LoadFailedEvent struct {
	shared.BaseDomainEvent
	Reason string `json:"reason"`
	Kept   int    `json:"kept"`
}

// EventName returns the event name
func (*LoadFailedEvent) EventName() shared.EventName { return EventNameCatalogLoadFailed }

// NewLoadFailedEvent creates a new LoadFailedEvent
func NewLoadFailedEvent(err error, kept int) *LoadFailedEvent {
	return &LoadFailedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(),
		Reason:          err.Error(),
		Kept:            kept,
	}
}
