package console

import (
	"bytes"
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync"
	"text/template"

	"github.com/shopspring/decimal"
	"github.com/weblarek/storefront/internal/application/storefront"
	"github.com/weblarek/storefront/internal/domain/cart"
	"github.com/weblarek/storefront/internal/domain/catalog"
	"github.com/weblarek/storefront/internal/domain/order"
	"go.uber.org/zap"
)

// Currency labels
const (
	priceless = "Бесценно"
	currency  = "синапсов"
)

// RendererConfig configures a Renderer
type RendererConfig struct {
	// ContentURL is joined with product image references
	ContentURL string
	// TemplateDir overrides embedded templates, optional
	TemplateDir string
}

// Renderer writes every storefront view as text. It also remembers what it
// last showed so that commands can refer to list positions.
type Renderer struct {
	mu         sync.Mutex
	out        io.Writer
	templates  *template.Template
	contentURL string
	logger     *zap.Logger

	products []catalog.Product
	preview  string
	entries  []string
	draft    order.Snapshot
	modal    storefront.Modal
	open     bool
}

// NewRenderer loads the templates and creates a renderer writing to out.
// A missing template is reported as ErrMissingTemplate.
func NewRenderer(out io.Writer, cfg RendererConfig, logger *zap.Logger) (*Renderer, error) {
	r := &Renderer{
		out:        out,
		contentURL: cfg.ContentURL,
		logger:     logger.Named("console"),
	}

	templates, err := LoadTemplates(cfg.TemplateDir, r.funcs())
	if err != nil {
		return nil, err
	}
	r.templates = templates
	return r, nil
}

func (r *Renderer) funcs() template.FuncMap {
	return template.FuncMap{
		"inc":     func(i int) int { return i + 1 },
		"price":   FormatPrice,
		"money":   FormatMoney,
		"kind":    categoryKind,
		"payment": paymentLabel,
		"image": func(p catalog.Product) string {
			return p.ImageURL(r.contentURL)
		},
	}
}

// RenderCatalog shows the gallery
func (r *Renderer) RenderCatalog(products []catalog.Product) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.products = append(r.products[:0], products...)
	r.execute(TemplateGallery, r.products)
}

// Gallery shows the catalog as last rendered
func (r *Renderer) Gallery() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.execute(TemplateGallery, r.products)
}

// RenderCartCounter shows the number of cart entries
func (r *Renderer) RenderCartCounter(count int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.execute(TemplateCounter, count)
}

// RenderPreview shows one product with its buy action
func (r *Renderer) RenderPreview(p catalog.Product, inCart bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.preview = p.ID
	r.execute(TemplatePreview, struct {
		Product catalog.Product
		InCart  bool
	}{p, inCart})
}

// RenderCart shows the cart entries and total
func (r *Renderer) RenderCart(entries []cart.Entry, total decimal.Decimal) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.entries = r.entries[:0]
	for _, e := range entries {
		r.entries = append(r.entries, e.Product.ID)
	}
	r.execute(TemplateBasket, struct {
		Entries []cart.Entry
		Total   decimal.Decimal
	}{entries, total})
}

// RenderDelivery shows the payment and address step
func (r *Renderer) RenderDelivery(s order.Snapshot, valid bool) {
	r.renderStep(TemplateDelivery, s, valid)
}

// RenderContacts shows the email and phone step
func (r *Renderer) RenderContacts(s order.Snapshot, valid bool) {
	r.renderStep(TemplateContacts, s, valid)
}

func (r *Renderer) renderStep(name string, s order.Snapshot, valid bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.draft = s
	r.execute(name, struct {
		Order order.Snapshot
		Valid bool
	}{s, valid})
}

// RenderErrors lists validation messages of a step
func (r *Renderer) RenderErrors(step order.Step, messages []string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if len(messages) == 0 {
		return
	}
	r.logger.Debug("rendering validation errors", zap.Stringer("step", step), zap.Int("count", len(messages)))
	r.execute(TemplateErrors, messages)
}

// RenderSuccess shows the charged total of a placed order
func (r *Renderer) RenderSuccess(total decimal.Decimal) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.draft = order.Snapshot{}
	r.execute(TemplateSuccess, total)
}

// Open records the overlay content
func (r *Renderer) Open(content storefront.Modal) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.modal = content
	r.open = true
}

// Close hides the overlay
func (r *Renderer) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.open = false
	r.preview = ""
}

// Notify prints a notice with its level
func (r *Renderer) Notify(level storefront.Level, message string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.write(fmt.Sprintf("[%s] %s\n", level, message))
}

// Help prints the command reference
func (r *Renderer) Help() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.execute(TemplateHelp, nil)
}

// ProductAt resolves a gallery reference: a 1-based position or a product id
func (r *Renderer) ProductAt(ref string) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	ids := make([]string, len(r.products))
	for i, p := range r.products {
		ids[i] = p.ID
	}
	return resolve(ref, ids)
}

// EntryAt resolves a cart reference: a 1-based position or a product id
func (r *Renderer) EntryAt(ref string) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return resolve(ref, r.entries)
}

// Previewed returns the id of the product in the open preview
func (r *Renderer) Previewed() (string, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.preview, r.open && r.modal == storefront.ModalPreview && r.preview != ""
}

// Draft returns the order draft as last rendered
func (r *Renderer) Draft() order.Snapshot {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.draft
}

// Modal returns the overlay content and whether the overlay is open
func (r *Renderer) Modal() (storefront.Modal, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.modal, r.open
}

// execute must be called with mu held
func (r *Renderer) execute(name string, data any) {
	var buf bytes.Buffer
	if err := r.templates.ExecuteTemplate(&buf, name, data); err != nil {
		r.logger.Error("failed to render template", zap.String("template", name), zap.Error(err))
		return
	}
	if !bytes.HasSuffix(buf.Bytes(), []byte("\n")) {
		buf.WriteByte('\n')
	}
	r.write(buf.String())
}

func (r *Renderer) write(s string) {
	if _, err := io.WriteString(r.out, s); err != nil {
		r.logger.Warn("failed to write view output", zap.Error(err))
	}
}

// FormatPrice renders a product price, "Бесценно" when it is absent
func FormatPrice(p catalog.Product) string {
	if !p.Price.Valid {
		return priceless
	}
	return FormatMoney(p.Price.Decimal)
}

// FormatMoney renders an amount in the store currency
func FormatMoney(d decimal.Decimal) string {
	return d.String() + " " + currency
}

func categoryKind(p catalog.Product) string {
	if k := p.Kind(); k != catalog.KindNone {
		return string(k)
	}
	return ""
}

func paymentLabel(m order.PaymentMethod) string {
	switch m {
	case order.PaymentCard:
		return "Онлайн"
	case order.PaymentCash:
		return "При получении"
	default:
		return "не выбрана"
	}
}

func resolve(ref string, ids []string) (string, error) {
	ref = strings.TrimSpace(ref)
	n, err := strconv.Atoi(ref)
	if err != nil {
		return ref, nil
	}
	if n < 1 || n > len(ids) {
		return "", fmt.Errorf("%w: %d", ErrNoSuchPosition, n)
	}
	return ids[n-1], nil
}

var (
	_ storefront.PageView    = (*Renderer)(nil)
	_ storefront.PreviewView = (*Renderer)(nil)
	_ storefront.CartView    = (*Renderer)(nil)
	_ storefront.OrderView   = (*Renderer)(nil)
	_ storefront.ModalView   = (*Renderer)(nil)
	_ storefront.Notifier    = (*Renderer)(nil)
)

// Views returns r in every view role
func (r *Renderer) Views() storefront.Views {
	return storefront.Views{Page: r, Preview: r, Cart: r, Order: r, Modal: r, Notifier: r}
}
