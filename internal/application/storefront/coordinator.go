// Package storefront coordinates the storefront: it turns view intents into
// cart and draft mutations, talks to the API gateway off the event loop and
// re-renders views when state changes.
package storefront

import (
	"context"
	"errors"

	"github.com/weblarek/storefront/internal/domain/cart"
	"github.com/weblarek/storefront/internal/domain/catalog"
	"github.com/weblarek/storefront/internal/domain/order"
	"github.com/weblarek/storefront/internal/domain/shared"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
	"go.uber.org/zap"
)

// Operation names used by the in-flight guards
const (
	OperationCatalogFetch = "catalog_fetch"
	OperationOrderSubmit  = "order_submit"
)

// Deps are the collaborators of a Coordinator
type Deps struct {
	Bus      shared.EventBus
	Cart     *cart.Cart
	Gateway  Gateway
	Views    Views
	Executor Executor
	Logger   *zap.Logger
}

// Option configures a Coordinator
type Option func(*Coordinator)

// WithMetrics sets the metrics recorder
func WithMetrics(m Metrics) Option {
	return func(c *Coordinator) {
		if m != nil {
			c.metrics = m
		}
	}
}

// WithTracer sets the tracer used for gateway calls
func WithTracer(t trace.Tracer) Option {
	return func(c *Coordinator) {
		if t != nil {
			c.tracer = t
		}
	}
}

// WithPolicies sets the in-flight policies of catalog fetch and order
// submission
func WithPolicies(catalogPolicy, orderPolicy Policy) Option {
	return func(c *Coordinator) {
		c.catalogGuard = NewGuard[[]catalog.Product](OperationCatalogFetch, catalogPolicy)
		c.orderGuard = NewGuard[order.Receipt](OperationOrderSubmit, orderPolicy)
	}
}

// WithDraftFactory replaces order.NewDraft
func WithDraftFactory(fn func() *order.Draft) Option {
	return func(c *Coordinator) {
		if fn != nil {
			c.newDraft = fn
		}
	}
}

// Coordinator holds the session state: catalog, cart and order draft.
// Every method except the constructor must run on the event loop.
type Coordinator struct {
	bus      shared.EventBus
	exec     Executor
	gateway  Gateway
	views    Views
	logger   *zap.Logger
	metrics  Metrics
	tracer   trace.Tracer
	newDraft func() *order.Draft

	catalog      *catalog.Catalog
	cart         *cart.Cart
	draft        *order.Draft
	checkoutOpen bool

	catalogGuard *Guard[[]catalog.Product]
	orderGuard   *Guard[order.Receipt]
	unsubscribe  []func()
}

// NewCoordinator creates a new Coordinator. The cart must publish through
// the same bus; a nil cart gets one.
func NewCoordinator(deps Deps, opts ...Option) (*Coordinator, error) {
	if deps.Bus == nil {
		return nil, errors.New("storefront: event bus is required")
	}
	if deps.Gateway == nil {
		return nil, errors.New("storefront: gateway is required")
	}
	if err := deps.Views.validate(); err != nil {
		return nil, err
	}
	if deps.Executor == nil {
		deps.Executor = InlineExecutor{}
	}
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}
	if deps.Cart == nil {
		deps.Cart = cart.New(deps.Bus)
	}

	c := &Coordinator{
		bus:          deps.Bus,
		exec:         deps.Executor,
		gateway:      deps.Gateway,
		views:        deps.Views,
		logger:       deps.Logger.Named("coordinator"),
		metrics:      nopMetrics{},
		tracer:       noop.NewTracerProvider().Tracer(""),
		newDraft:     order.NewDraft,
		catalog:      catalog.EmptyCatalog(),
		cart:         deps.Cart,
		catalogGuard: NewGuard[[]catalog.Product](OperationCatalogFetch, PolicyShare),
		orderGuard:   NewGuard[order.Receipt](OperationOrderSubmit, PolicySuppress),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.draft = c.newDraft()
	return c, nil
}

// Start subscribes to the bus, renders the empty page and starts the
// first catalog fetch
func (c *Coordinator) Start(ctx context.Context) {
	c.subscribe()

	c.views.Page.RenderCatalog(c.catalog.Products())
	c.views.Page.RenderCartCounter(c.cart.Len())
	c.views.Cart.RenderCart(c.cart.Entries(), c.cart.TotalPrice())

	c.LoadCatalog(ctx)
}

// Stop removes every bus subscription made by Start
func (c *Coordinator) Stop() {
	for _, unsubscribe := range c.unsubscribe {
		unsubscribe()
	}
	c.unsubscribe = nil
}

// Catalog returns the products on display
func (c *Coordinator) Catalog() *catalog.Catalog {
	return c.catalog
}

// Cart returns the session cart
func (c *Coordinator) Cart() *cart.Cart {
	return c.cart
}

// Draft returns the current order draft
func (c *Coordinator) Draft() *order.Draft {
	return c.draft
}

// CheckoutOpen reports whether the order form is in use
func (c *Coordinator) CheckoutOpen() bool {
	return c.checkoutOpen
}

func (c *Coordinator) subscribe() {
	c.unsubscribe = append(c.unsubscribe,
		// intents
		shared.Subscribe(c.bus, c.onProductOpen),
		shared.Subscribe(c.bus, c.onCartAdd),
		shared.Subscribe(c.bus, c.onCartRemove),
		shared.Subscribe(c.bus, c.onCartOpen),
		shared.Subscribe(c.bus, c.onCheckoutStart),
		shared.Subscribe(c.bus, c.onDraftEdit),
		shared.Subscribe(c.bus, c.onDeliverySubmit),
		shared.Subscribe(c.bus, c.onContactsSubmit),
		shared.Subscribe(c.bus, c.onModalClose),
		shared.Subscribe(c.bus, c.onCatalogReload),

		// state changes
		shared.Subscribe(c.bus, c.onCatalogLoaded),
		shared.Subscribe(c.bus, c.onCatalogLoadFailed),
		shared.Subscribe(c.bus, c.onCartChanged),
		shared.Subscribe(c.bus, c.onCartRejected),
		shared.Subscribe(c.bus, c.onDraftChanged),
		shared.Subscribe(c.bus, c.onStepChanged),
		shared.Subscribe(c.bus, c.onValidationFailed),
		shared.Subscribe(c.bus, c.onOrderSubmitted),
		shared.Subscribe(c.bus, c.onSubmissionFailed),
	)
}

// publish sends events on the bus, logging what the bus reports
func (c *Coordinator) publish(ctx context.Context, events ...shared.DomainEvent) error {
	if err := c.bus.Publish(ctx, events...); err != nil {
		c.logger.Error("failed to publish events", zap.Error(err))
		return err
	}
	return nil
}

// flushDraft publishes the events recorded by the draft
func (c *Coordinator) flushDraft(ctx context.Context) error {
	events := c.draft.PullDomainEvents()
	if len(events) == 0 {
		return nil
	}
	return c.publish(ctx, events...)
}

// resetDraft replaces the draft with a fresh one and leaves checkout
func (c *Coordinator) resetDraft() {
	c.draft = c.newDraft()
	c.checkoutOpen = false
}

// showStep renders the draft's current step in the overlay
func (c *Coordinator) showStep() {
	s := c.draft.Snapshot()
	switch s.Step {
	case order.StepContacts:
		c.views.Order.RenderContacts(s, c.draft.IsContactsValid())
		c.views.Modal.Open(ModalContacts)
	default:
		c.views.Order.RenderDelivery(s, c.draft.IsDeliveryValid())
		c.views.Modal.Open(ModalDelivery)
	}
}
