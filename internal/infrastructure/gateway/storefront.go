package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/shopspring/decimal"
	"github.com/weblarek/storefront/internal/domain/catalog"
	"github.com/weblarek/storefront/internal/domain/order"
	"go.uber.org/zap"
)

// productListResponse is the body of GET /product.
// Items stays raw so that a malformed collection can be told apart from a
// malformed body.
type productListResponse struct {
	Total json.RawMessage `json:"total"`
	Items json.RawMessage `json:"items"`
}

// orderRequest is the body of POST /order
type orderRequest struct {
	Payment string      `json:"payment"`
	Email   string      `json:"email"`
	Phone   string      `json:"phone"`
	Address string      `json:"address"`
	Total   json.Number `json:"total"`
	Items   []string    `json:"items"`
}

// orderResponse is the optional body of a successful POST /order
type orderResponse struct {
	ID    string              `json:"id"`
	Total decimal.NullDecimal `json:"total"`
}

// ListProducts fetches the catalog.
// A body whose items are missing or not an array yields zero products;
// items that cannot be decoded, have no id or carry a negative price are
// skipped.
func (c *Client) ListProducts(ctx context.Context) ([]catalog.Product, error) {
	data, err := c.do(ctx, http.MethodGet, "/product", nil)
	if err != nil {
		return nil, err
	}

	var body productListResponse
	if err := json.Unmarshal(data, &body); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidResponse, err)
	}

	var items []json.RawMessage
	if len(body.Items) > 0 {
		if err := json.Unmarshal(body.Items, &items); err != nil {
			c.logger.Warn("product collection is not a list, treating as empty", zap.Error(err))
			items = nil
		}
	}

	products := make([]catalog.Product, 0, len(items))
	for i, raw := range items {
		var p catalog.Product
		if err := json.Unmarshal(raw, &p); err != nil || p.ID == "" {
			c.logger.Warn("skipping malformed product", zap.Int("index", i), zap.Error(err))
			continue
		}
		if p.Price.Valid && p.Price.Decimal.IsNegative() {
			c.logger.Warn("skipping product with negative price",
				zap.Int("index", i),
				zap.String("product_id", p.ID),
				zap.String("price", p.Price.Decimal.String()),
			)
			continue
		}
		products = append(products, p)
	}

	c.logger.Debug("catalog fetched",
		zap.ByteString("reported_total", body.Total),
		zap.Int("decoded", len(products)),
	)
	return products, nil
}

// SubmitOrder posts a finalized order. Any 2xx answer is a success; the
// receipt is filled from the body when it can be read.
func (c *Client) SubmitOrder(ctx context.Context, o *order.Order) (order.Receipt, error) {
	req := orderRequest{
		Payment: o.Payment.String(),
		Email:   o.Email,
		Phone:   o.Phone,
		Address: o.Address,
		Total:   json.Number(o.Total.String()),
		Items:   o.Items,
	}

	data, err := c.do(ctx, http.MethodPost, "/order", req)
	if err != nil {
		return order.Receipt{}, err
	}

	if len(bytes.TrimSpace(data)) == 0 {
		return order.Receipt{}, nil
	}
	var body orderResponse
	if err := json.Unmarshal(data, &body); err != nil {
		c.logger.Debug("ignoring unreadable order response body", zap.Error(err))
		return order.Receipt{}, nil
	}
	return order.Receipt{ID: body.ID, Total: body.Total}, nil
}
