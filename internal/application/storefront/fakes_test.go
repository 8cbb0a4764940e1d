package storefront

import (
	"context"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/weblarek/storefront/internal/domain/cart"
	"github.com/weblarek/storefront/internal/domain/catalog"
	"github.com/weblarek/storefront/internal/domain/order"
)

// MockGateway implements Gateway for testing
type MockGateway struct {
	mock.Mock
}

func (m *MockGateway) ListProducts(ctx context.Context) ([]catalog.Product, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]catalog.Product), args.Error(1)
}

func (m *MockGateway) SubmitOrder(ctx context.Context, o *order.Order) (order.Receipt, error) {
	args := m.Called(ctx, o)
	return args.Get(0).(order.Receipt), args.Error(1)
}

type notice struct {
	level   Level
	message string
}

// fakeUI implements every view and records what it was asked to show
type fakeUI struct {
	mu sync.Mutex

	catalog       []catalog.Product
	counter       int
	cartEntries   []cart.Entry
	cartTotal     decimal.Decimal
	cartRenders   int
	preview       *catalog.Product
	previewInCart bool
	delivery      *order.Snapshot
	deliveryValid bool
	contacts      *order.Snapshot
	contactsValid bool
	errors        map[order.Step][]string
	success       *decimal.Decimal
	modalOpen     bool
	modal         Modal
	notices       []notice
}

func newFakeUI() *fakeUI {
	return &fakeUI{errors: make(map[order.Step][]string)}
}

func (u *fakeUI) views() Views {
	return Views{Page: u, Preview: u, Cart: u, Order: u, Modal: u, Notifier: u}
}

func (u *fakeUI) RenderCatalog(products []catalog.Product) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.catalog = products
}

func (u *fakeUI) RenderCartCounter(count int) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.counter = count
}

func (u *fakeUI) RenderPreview(p catalog.Product, inCart bool) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.preview = &p
	u.previewInCart = inCart
}

func (u *fakeUI) RenderCart(entries []cart.Entry, total decimal.Decimal) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.cartEntries = entries
	u.cartTotal = total
	u.cartRenders++
}

func (u *fakeUI) RenderDelivery(s order.Snapshot, valid bool) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.delivery = &s
	u.deliveryValid = valid
}

func (u *fakeUI) RenderContacts(s order.Snapshot, valid bool) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.contacts = &s
	u.contactsValid = valid
}

func (u *fakeUI) RenderErrors(step order.Step, messages []string) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.errors[step] = messages
}

func (u *fakeUI) RenderSuccess(total decimal.Decimal) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.success = &total
}

func (u *fakeUI) Open(content Modal) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.modalOpen = true
	u.modal = content
}

func (u *fakeUI) Close() {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.modalOpen = false
}

func (u *fakeUI) Notify(level Level, message string) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.notices = append(u.notices, notice{level: level, message: message})
}

func (u *fakeUI) openModal() (Modal, bool) {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.modal, u.modalOpen
}

func (u *fakeUI) hasNotice(message string) bool {
	u.mu.Lock()
	defer u.mu.Unlock()
	for _, n := range u.notices {
		if n.message == message {
			return true
		}
	}
	return false
}

func (u *fakeUI) lastNotice() (notice, bool) {
	u.mu.Lock()
	defer u.mu.Unlock()
	if len(u.notices) == 0 {
		return notice{}, false
	}
	return u.notices[len(u.notices)-1], true
}

// fakeMetrics counts recorder calls
type fakeMetrics struct {
	mu                 sync.Mutex
	catalogFetches     []error
	submissions        []error
	validationFailures []string
	inFlightRejected   []string
	cartSizes          []int
}

func (m *fakeMetrics) RecordCatalogFetch(_ context.Context, _ int, _ time.Duration, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.catalogFetches = append(m.catalogFetches, err)
}

func (m *fakeMetrics) RecordOrderSubmission(_ context.Context, _ string, _ decimal.Decimal, _ time.Duration, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.submissions = append(m.submissions, err)
}

func (m *fakeMetrics) RecordValidationFailure(_ context.Context, step string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.validationFailures = append(m.validationFailures, step)
}

func (m *fakeMetrics) RecordInFlightRejected(_ context.Context, operation string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.inFlightRejected = append(m.inFlightRejected, operation)
}

func (m *fakeMetrics) RecordCartSize(_ context.Context, entries int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cartSizes = append(m.cartSizes, entries)
}

// manualExecutor holds off-loop work until run is called. Posted work runs
// immediately.
type manualExecutor struct {
	pending []func()
}

func (e *manualExecutor) Post(fn func()) { fn() }

func (e *manualExecutor) Go(fn func()) { e.pending = append(e.pending, fn) }

func (e *manualExecutor) run() {
	pending := e.pending
	e.pending = nil
	for _, fn := range pending {
		fn()
	}
}
