package storefront

import (
	"context"
	"errors"
	"fmt"

	"github.com/weblarek/storefront/internal/domain/cart"
	"github.com/weblarek/storefront/internal/domain/catalog"
	"github.com/weblarek/storefront/internal/domain/order"
	"github.com/weblarek/storefront/internal/domain/shared"
	"go.uber.org/zap"
)

// User-facing messages
const (
	msgCatalogLoadFailed  = "Не удалось загрузить каталог"
	msgCatalogKept        = "Не удалось обновить каталог, показан прежний"
	msgCatalogInFlight    = "Каталог уже загружается"
	msgOrderInFlight      = "Заказ уже отправляется"
	msgSubmissionFailed   = "Не удалось оформить заказ. Попробуйте ещё раз"
	msgNotPurchasable     = "Этот товар нельзя купить"
	msgEmptyCart          = "Корзина пуста"
	msgOrderRejected      = "Заказ не может быть оформлен"
	msgDeliveryIncomplete = "Сначала заполните способ оплаты и адрес"
	msgInvalidPayment     = "Выберите способ оплаты"
)

func (c *Coordinator) onProductOpen(_ context.Context, e *ProductOpenIntent) error {
	p, ok := c.catalog.Find(e.ProductID)
	if !ok {
		c.logger.Warn("product not found in catalog", zap.String("product_id", e.ProductID))
		return nil
	}
	c.views.Preview.RenderPreview(p, c.cart.Contains(p.ID))
	c.views.Modal.Open(ModalPreview)
	return nil
}

func (c *Coordinator) onCartAdd(ctx context.Context, e *CartAddIntent) error {
	p, ok := c.catalog.Find(e.ProductID)
	if !ok {
		c.logger.Warn("product not found in catalog", zap.String("product_id", e.ProductID))
		return nil
	}

	if err := c.cart.AddItem(ctx, p); err != nil {
		var domainErr *shared.DomainError
		if errors.As(err, &domainErr) {
			return c.publish(ctx, cart.NewRejectedEvent(p.ID, domainErr))
		}
		return err
	}

	// Buying from the preview closes it
	c.views.Modal.Close()
	return nil
}

func (c *Coordinator) onCartRemove(ctx context.Context, e *CartRemoveIntent) error {
	return c.cart.RemoveItem(ctx, e.ProductID)
}

func (c *Coordinator) onCartOpen(_ context.Context, _ *CartOpenIntent) error {
	c.views.Cart.RenderCart(c.cart.Entries(), c.cart.TotalPrice())
	c.views.Modal.Open(ModalCart)
	return nil
}

func (c *Coordinator) onCheckoutStart(ctx context.Context, _ *CheckoutStartIntent) error {
	if c.cart.IsEmpty() {
		return c.publish(ctx, cart.NewRejectedEvent("", shared.ErrEmptyCart))
	}

	c.checkoutOpen = true
	if c.draft.Step() != order.StepDelivery {
		// the step change re-renders the form
		c.draft.Restart()
		return c.flushDraft(ctx)
	}
	c.showStep()
	return nil
}

func (c *Coordinator) onDraftEdit(ctx context.Context, e *DraftEditIntent) error {
	switch e.Field {
	case FieldPayment:
		m, err := order.ParsePaymentMethod(e.Value)
		if err != nil {
			c.logger.Debug("rejected payment method", zap.String("value", e.Value), zap.Error(err))
			c.views.Order.RenderErrors(c.draft.Step(), []string{msgInvalidPayment})
			return nil
		}
		c.draft.SetPayment(m)
	case FieldAddress:
		c.draft.SetAddress(e.Value)
	case FieldEmail:
		c.draft.SetEmail(e.Value)
	case FieldPhone:
		c.draft.SetPhone(e.Value)
	default:
		return fmt.Errorf("unknown draft field %q", e.Field)
	}
	return c.flushDraft(ctx)
}

func (c *Coordinator) onDeliverySubmit(ctx context.Context, e *DeliverySubmitIntent) error {
	if e.Payment != "" {
		m, err := order.ParsePaymentMethod(e.Payment)
		if err != nil {
			c.logger.Debug("rejected payment method", zap.String("value", e.Payment), zap.Error(err))
			c.views.Order.RenderErrors(order.StepDelivery, []string{msgInvalidPayment})
			return nil
		}
		c.draft.SetPayment(m)
	}
	c.draft.SetAddress(e.Address)

	// A failed gate is reported through the recorded validation event
	_ = c.draft.CompleteDelivery()
	return c.flushDraft(ctx)
}

func (c *Coordinator) onContactsSubmit(ctx context.Context, e *ContactsSubmitIntent) error {
	c.draft.SetEmail(e.Email)
	c.draft.SetPhone(e.Phone)

	err := c.draft.CompleteContacts()
	if flushErr := c.flushDraft(ctx); flushErr != nil {
		return flushErr
	}
	var validationErr *order.ValidationError
	switch {
	case errors.As(err, &validationErr):
		return nil
	case errors.Is(err, shared.ErrInvalidState):
		c.views.Notifier.Notify(LevelWarning, msgDeliveryIncomplete)
		c.showStep()
		return nil
	case err != nil:
		return err
	}

	o, err := c.draft.Finalize(c.cart.ItemIDs(), c.cart.TotalPrice())
	if err != nil {
		if errors.Is(err, shared.ErrEmptyCart) {
			return c.publish(ctx, cart.NewRejectedEvent("", shared.ErrEmptyCart))
		}
		c.logger.Warn("order not finalized", zap.Error(err))
		return c.publish(ctx, cart.NewRejectedEvent("", shared.ErrOrderRejected))
	}

	c.submitOrder(ctx, o)
	return nil
}

func (c *Coordinator) onModalClose(_ context.Context, _ *ModalCloseIntent) error {
	c.views.Modal.Close()
	if c.checkoutOpen {
		c.logger.Debug("checkout abandoned", zap.String("draft_id", c.draft.ID.String()))
		c.resetDraft()
	}
	return nil
}

func (c *Coordinator) onCatalogReload(ctx context.Context, _ *CatalogReloadIntent) error {
	c.LoadCatalog(ctx)
	return nil
}

func (c *Coordinator) onCatalogLoaded(_ context.Context, e *catalog.LoadedEvent) error {
	c.views.Page.RenderCatalog(e.Products)
	return nil
}

func (c *Coordinator) onCatalogLoadFailed(_ context.Context, e *catalog.LoadFailedEvent) error {
	if e.Kept > 0 {
		c.views.Notifier.Notify(LevelWarning, msgCatalogKept)
		return nil
	}
	c.views.Notifier.Notify(LevelError, msgCatalogLoadFailed)
	return nil
}

func (c *Coordinator) onCartChanged(ctx context.Context, e *cart.ChangedEvent) error {
	c.views.Page.RenderCartCounter(e.Count())
	c.views.Cart.RenderCart(e.Entries, e.Total)
	c.metrics.RecordCartSize(ctx, e.Count())
	return nil
}

func (c *Coordinator) onCartRejected(_ context.Context, e *cart.RejectedEvent) error {
	switch e.Code {
	case shared.ErrNotPurchasable.Code:
		c.views.Notifier.Notify(LevelWarning, msgNotPurchasable)
	case shared.ErrEmptyCart.Code:
		c.views.Notifier.Notify(LevelWarning, msgEmptyCart)
	case shared.ErrOrderRejected.Code:
		c.views.Notifier.Notify(LevelError, msgOrderRejected)
	default:
		c.views.Notifier.Notify(LevelWarning, e.Reason)
	}
	return nil
}

func (c *Coordinator) onDraftChanged(_ context.Context, e *order.DraftChangedEvent) error {
	if e.DraftID != c.draft.ID {
		return nil
	}
	switch e.Draft.Step {
	case order.StepContacts:
		c.views.Order.RenderContacts(e.Draft, e.ContactsValid)
	default:
		c.views.Order.RenderDelivery(e.Draft, e.DeliveryValid)
	}
	return nil
}

func (c *Coordinator) onStepChanged(_ context.Context, e *order.StepChangedEvent) error {
	if e.DraftID != c.draft.ID {
		return nil
	}
	c.showStep()
	return nil
}

func (c *Coordinator) onValidationFailed(ctx context.Context, e *order.ValidationFailedEvent) error {
	c.metrics.RecordValidationFailure(ctx, e.Step.String())
	if e.DraftID != c.draft.ID {
		return nil
	}
	c.views.Order.RenderErrors(e.Step, e.Messages())
	return nil
}

func (c *Coordinator) onOrderSubmitted(_ context.Context, e *order.SubmittedEvent) error {
	c.views.Order.RenderSuccess(e.Total)
	c.views.Modal.Open(ModalSuccess)
	return nil
}

func (c *Coordinator) onSubmissionFailed(_ context.Context, _ *order.SubmissionFailedEvent) error {
	c.views.Notifier.Notify(LevelError, msgSubmissionFailed)
	return nil
}
