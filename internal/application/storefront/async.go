package storefront

import (
	"context"
	"errors"
	"time"

	"github.com/weblarek/storefront/internal/domain/catalog"
	"github.com/weblarek/storefront/internal/domain/order"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// LoadCatalog fetches the catalog off the loop. The result is applied on
// the loop: a failure keeps the products already on display.
func (c *Coordinator) LoadCatalog(ctx context.Context) {
	c.exec.Go(func() {
		ctx, span := c.tracer.Start(ctx, "storefront.load_catalog",
			trace.WithAttributes(attribute.String("inflight.policy", string(c.catalogGuard.Policy()))),
		)
		defer span.End()

		start := time.Now()
		products, reused, err := c.catalogGuard.Do(func() ([]catalog.Product, error) {
			return c.gateway.ListProducts(ctx)
		})
		c.recordCatalogFetch(ctx, span, len(products), time.Since(start), reused, err)

		c.exec.Post(func() { c.catalogFetched(ctx, products, err) })
	})
}

func (c *Coordinator) recordCatalogFetch(ctx context.Context, span trace.Span, n int, d time.Duration, reused bool, err error) {
	span.SetAttributes(attribute.Bool("inflight.shared", reused))
	switch {
	case errors.Is(err, ErrInFlight):
		c.metrics.RecordInFlightRejected(ctx, OperationCatalogFetch)
		span.SetStatus(codes.Error, err.Error())
		return
	case err != nil:
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	default:
		span.SetAttributes(attribute.Int("catalog.products", n))
	}
	if !reused {
		c.metrics.RecordCatalogFetch(ctx, n, d, err)
	}
}

func (c *Coordinator) catalogFetched(ctx context.Context, products []catalog.Product, err error) {
	if errors.Is(err, ErrInFlight) {
		c.views.Notifier.Notify(LevelInfo, msgCatalogInFlight)
		return
	}
	if err != nil {
		c.logger.Warn("catalog fetch failed, keeping previous catalog",
			zap.Int("kept", c.catalog.Len()),
			zap.Error(err),
		)
		_ = c.publish(ctx, catalog.NewLoadFailedEvent(err, c.catalog.Len()))
		return
	}

	c.catalog = catalog.NewCatalog(products)
	c.logger.Info("catalog loaded", zap.Int("products", c.catalog.Len()))
	_ = c.publish(ctx, catalog.NewLoadedEvent(c.catalog))
}

// submitOrder sends o off the loop and applies the outcome on the loop
func (c *Coordinator) submitOrder(ctx context.Context, o *order.Order) {
	c.logger.Info("submitting order",
		zap.String("draft_id", o.DraftID.String()),
		zap.Int("items", len(o.Items)),
		zap.String("total", o.Total.String()),
	)

	c.exec.Go(func() {
		ctx, span := c.tracer.Start(ctx, "storefront.submit_order",
			trace.WithAttributes(
				attribute.String("draft_id", o.DraftID.String()),
				attribute.String("payment", o.Payment.String()),
				attribute.Int("items", len(o.Items)),
				attribute.String("inflight.policy", string(c.orderGuard.Policy())),
			),
		)
		defer span.End()

		start := time.Now()
		receipt, reused, err := c.orderGuard.Do(func() (order.Receipt, error) {
			return c.gateway.SubmitOrder(ctx, o)
		})
		c.recordOrderSubmission(ctx, span, o, receipt, time.Since(start), reused, err)

		c.exec.Post(func() { c.orderSubmitted(ctx, o, receipt, err) })
	})
}

func (c *Coordinator) recordOrderSubmission(ctx context.Context, span trace.Span, o *order.Order, receipt order.Receipt, d time.Duration, reused bool, err error) {
	span.SetAttributes(attribute.Bool("inflight.shared", reused))
	switch {
	case errors.Is(err, ErrInFlight):
		c.metrics.RecordInFlightRejected(ctx, OperationOrderSubmit)
		span.SetStatus(codes.Error, err.Error())
		return
	case err != nil:
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	default:
		span.SetAttributes(attribute.String("order_id", receipt.ID))
	}
	if !reused {
		c.metrics.RecordOrderSubmission(ctx, o.Payment.String(), o.Total, d, err)
	}
}

// orderSubmitted applies a submission outcome. A failure leaves cart and
// draft untouched. On success the cart is cleared and the draft replaced,
// unless the checkout was abandoned meanwhile and a new draft is in use.
func (c *Coordinator) orderSubmitted(ctx context.Context, o *order.Order, receipt order.Receipt, err error) {
	if errors.Is(err, ErrInFlight) {
		c.views.Notifier.Notify(LevelInfo, msgOrderInFlight)
		return
	}
	if err != nil {
		c.logger.Error("order submission failed",
			zap.String("draft_id", o.DraftID.String()),
			zap.Error(err),
		)
		_ = c.publish(ctx, order.NewSubmissionFailedEvent(o.DraftID, err))
		return
	}

	c.logger.Info("order placed",
		zap.String("draft_id", o.DraftID.String()),
		zap.String("order_id", receipt.ID),
		zap.String("charged", receipt.ChargedTotal(o.Total).String()),
	)
	if err := c.cart.Clear(ctx); err != nil {
		c.logger.Error("failed to clear cart after order", zap.Error(err))
	}
	if c.draft.ID == o.DraftID {
		c.resetDraft()
	} else {
		c.logger.Debug("draft replaced while order was in flight", zap.String("draft_id", o.DraftID.String()))
	}
	_ = c.publish(ctx, order.NewSubmittedEvent(o, receipt))
}
