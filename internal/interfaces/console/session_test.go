package console

import (
	"bytes"
	"context"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/weblarek/storefront/internal/application/storefront"
	"github.com/weblarek/storefront/internal/domain/cart"
	"github.com/weblarek/storefront/internal/domain/catalog"
	"github.com/weblarek/storefront/internal/domain/order"
	"github.com/weblarek/storefront/internal/infrastructure/event"
	"github.com/weblarek/storefront/internal/testutil"
	"go.uber.org/zap"
)

func TestParseCommand(t *testing.T) {
	tests := []struct {
		name    string
		line    string
		want    Command
		wantErr error
	}{
		{"blank line", "   ", Command{}, nil},
		{"verb only", "cart", Command{Verb: VerbCart, Args: []string{}}, nil},
		{"case insensitive", "CheckOut", Command{Verb: VerbCheckout, Args: []string{}}, nil},
		{"alias", "rm 2", Command{Verb: VerbRemove, Args: []string{"2"}}, nil},
		{"spaces collapse", "address  Lenina   1", Command{Verb: VerbAddress, Args: []string{"Lenina", "1"}}, nil},
		{"unknown verb", "frobnicate", Command{}, ErrUnknownCommand},
		{"missing argument", "open", Command{}, ErrMissingArgument},
		{"delivery needs address", "delivery card", Command{}, ErrMissingArgument},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseCommand(tt.line)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

type sessionHarness struct {
	renderer *Renderer
	out      *bytes.Buffer
	bus      *event.InMemoryEventBus
	intents  *testutil.RecordingHandler
}

func newSessionHarness(t *testing.T) *sessionHarness {
	t.Helper()

	registry := event.NewEventRegistry()
	event.RegisterAllEvents(registry)
	storefront.RegisterIntents(registry)
	bus := event.NewInMemoryEventBus(zap.NewNop(), event.WithEventRegistry(registry))

	intents := testutil.NewRecordingHandler()
	bus.SubscribeAll(intents)

	r, out := newTestRenderer(t)
	return &sessionHarness{renderer: r, out: out, bus: bus, intents: intents}
}

func (h *sessionHarness) run(t *testing.T, input string) {
	t.Helper()
	s := NewSession(strings.NewReader(input), h.renderer, h.bus, storefront.InlineExecutor{}, zap.NewNop())
	require.NoError(t, s.Run(context.Background()))
}

func TestSession_Intents(t *testing.T) {
	t.Run("open by position", func(t *testing.T) {
		h := newSessionHarness(t)
		h.renderer.RenderCatalog([]catalog.Product{timer, lollipop})

		h.run(t, "open 2\n")

		e, ok := testutil.LastOf[*storefront.ProductOpenIntent](h.intents)
		require.True(t, ok)
		assert.Equal(t, lollipop.ID, e.ProductID)
	})

	t.Run("buy adds the previewed product", func(t *testing.T) {
		h := newSessionHarness(t)
		h.renderer.RenderPreview(timer, false)
		h.renderer.Open(storefront.ModalPreview)

		h.run(t, "buy\n")

		e, ok := testutil.LastOf[*storefront.CartAddIntent](h.intents)
		require.True(t, ok)
		assert.Equal(t, timer.ID, e.ProductID)
	})

	t.Run("buy without preview is rejected locally", func(t *testing.T) {
		h := newSessionHarness(t)

		h.run(t, "buy\n")

		assert.Zero(t, h.intents.HandledCount())
		assert.Contains(t, h.out.String(), "[warning] "+ErrNothingPreviewed.Error())
	})

	t.Run("remove by cart position", func(t *testing.T) {
		h := newSessionHarness(t)
		h.renderer.RenderCart([]cart.Entry{{Product: timer, Quantity: 1}, {Product: lollipop, Quantity: 1}}, decimal.NewFromInt(2200))

		h.run(t, "remove 2\n")

		e, ok := testutil.LastOf[*storefront.CartRemoveIntent](h.intents)
		require.True(t, ok)
		assert.Equal(t, lollipop.ID, e.ProductID)
	})

	t.Run("field edits keep spaces between words", func(t *testing.T) {
		h := newSessionHarness(t)

		h.run(t, "pay cash\naddress Lenina 1\nemail a@b.com\nphone +7 900 123 45 67\n")

		edits := testutil.EventsOf[*storefront.DraftEditIntent](h.intents)
		require.Len(t, edits, 4)
		assert.Equal(t, storefront.FieldPayment, edits[0].Field)
		assert.Equal(t, "cash", edits[0].Value)
		assert.Equal(t, "Lenina 1", edits[1].Value)
		assert.Equal(t, storefront.FieldEmail, edits[2].Field)
		assert.Equal(t, "+7 900 123 45 67", edits[3].Value)
	})

	t.Run("next and submit use the rendered draft", func(t *testing.T) {
		h := newSessionHarness(t)
		h.renderer.RenderContacts(order.Snapshot{
			Payment: order.PaymentCard,
			Address: "Lenina 1",
			Email:   "a@b.com",
			Phone:   "+7 900 123 45 67",
		}, true)

		h.run(t, "next\nsubmit\n")

		delivery, ok := testutil.LastOf[*storefront.DeliverySubmitIntent](h.intents)
		require.True(t, ok)
		assert.Empty(t, delivery.Payment)
		assert.Equal(t, "Lenina 1", delivery.Address)

		contacts, ok := testutil.LastOf[*storefront.ContactsSubmitIntent](h.intents)
		require.True(t, ok)
		assert.Equal(t, "a@b.com", contacts.Email)
		assert.Equal(t, "+7 900 123 45 67", contacts.Phone)
	})

	t.Run("simple intents", func(t *testing.T) {
		h := newSessionHarness(t)

		h.run(t, "reload\ncart\ncheckout\nclose\n")

		assert.Equal(t, []string{
			string(storefront.IntentCatalogReload),
			string(storefront.IntentCartOpen),
			string(storefront.IntentCheckoutStart),
			string(storefront.IntentModalClose),
		}, names(h.intents))
	})

	t.Run("renderer only commands publish nothing", func(t *testing.T) {
		h := newSessionHarness(t)
		h.renderer.RenderCatalog([]catalog.Product{timer})
		h.out.Reset()

		h.run(t, "help\nlist\n\n")

		assert.Zero(t, h.intents.HandledCount())
		assert.Contains(t, h.out.String(), "Команды:")
		assert.Contains(t, h.out.String(), "1. +1 час в сутках")
	})

	t.Run("parse errors are surfaced", func(t *testing.T) {
		h := newSessionHarness(t)

		h.run(t, "frobnicate\nopen 7\n")

		assert.Zero(t, h.intents.HandledCount())
		assert.Contains(t, h.out.String(), "[warning] неизвестная команда: frobnicate")
		assert.Contains(t, h.out.String(), "[warning] нет такой позиции: 7")
	})

	t.Run("quit stops reading", func(t *testing.T) {
		h := newSessionHarness(t)

		h.run(t, "cart\nquit\ncart\n")

		assert.Equal(t, 1, h.intents.HandledCount())
	})
}

func names(h *testutil.RecordingHandler) []string {
	var out []string
	for _, n := range h.Names() {
		out = append(out, string(n))
	}
	return out
}

func TestSession_ContextCancel(t *testing.T) {
	h := newSessionHarness(t)
	pr, pw := io.Pipe()
	defer pw.Close()

	ctx, cancel := context.WithCancel(context.Background())
	s := NewSession(pr, h.renderer, h.bus, storefront.InlineExecutor{}, zap.NewNop())

	done := make(chan error, 1)
	go func() { done <- s.Run(ctx) }()

	_, err := io.WriteString(pw, "cart\n")
	require.NoError(t, err)
	assert.True(t, testutil.WaitForEventCount(t, h.intents, 1, time.Second))

	cancel()
	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(time.Second):
		t.Fatal("session did not stop on cancel")
	}
}

// stubGateway serves a fixed catalog and accepts every order
type stubGateway struct {
	mu       sync.Mutex
	products []catalog.Product
	orders   []*order.Order
}

func (g *stubGateway) ListProducts(context.Context) ([]catalog.Product, error) {
	return g.products, nil
}

func (g *stubGateway) SubmitOrder(_ context.Context, o *order.Order) (order.Receipt, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.orders = append(g.orders, o)
	return order.Receipt{ID: "28c57cb4-3002-4445-8aa1-2a06a5055ae5", Total: decimal.NewNullDecimal(o.Total)}, nil
}

func TestSession_Checkout(t *testing.T) {
	h := newSessionHarness(t)
	gateway := &stubGateway{products: []catalog.Product{timer, mask, lollipop}}

	coord, err := storefront.NewCoordinator(storefront.Deps{
		Bus:      h.bus,
		Cart:     cart.New(h.bus),
		Gateway:  gateway,
		Views:    h.renderer.Views(),
		Executor: storefront.InlineExecutor{},
		Logger:   zap.NewNop(),
	})
	require.NoError(t, err)
	coord.Start(context.Background())
	defer coord.Stop()

	h.run(t, strings.Join([]string{
		"open 2",
		"buy",
		"open 1",
		"buy",
		"cart",
		"checkout",
		"delivery card Lenina 1",
		"contacts a@b.com +7 900 123 45 67",
	}, "\n")+"\n")

	text := h.out.String()
	assert.Contains(t, text, "1. +1 час в сутках | софт-скил (soft) | 750 синапсов")
	assert.Contains(t, text, "[Купить] недоступно")
	assert.Contains(t, text, "Итого: 750 синапсов")
	assert.Contains(t, text, "Списано 750 синапсов")

	gateway.mu.Lock()
	require.Len(t, gateway.orders, 1)
	placed := gateway.orders[0]
	gateway.mu.Unlock()

	assert.Equal(t, []string{timer.ID}, placed.Items)
	assert.Equal(t, order.PaymentCard, placed.Payment)
	assert.Equal(t, "Lenina 1", placed.Address)
	assert.True(t, coord.Cart().IsEmpty())
	assert.False(t, coord.CheckoutOpen())
}
