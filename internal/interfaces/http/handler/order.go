package handler

import (
	"encoding/json"
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/weblarek/storefront/internal/infrastructure/logger"
	"github.com/weblarek/storefront/internal/interfaces/http/dto"
	"github.com/weblarek/storefront/internal/interfaces/http/middleware"
	"go.uber.org/zap"
)

// OrderHandler accepts orders
type OrderHandler struct {
	BaseHandler
	store *Store
}

// NewOrderHandler creates a new OrderHandler
func NewOrderHandler(store *Store) *OrderHandler {
	return &OrderHandler{store: store}
}

// RegisterRoutes implements router.RouteRegistrar
func (h *OrderHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/order", h.Create)
}

// Create handles POST /order
func (h *OrderHandler) Create(c *gin.Context) {
	log := logger.L(c.Request.Context())

	var req dto.OrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, middleware.FormatValidationErrors(err))
		return
	}
	total, err := decimal.NewFromString(req.Total.String())
	if err != nil {
		h.BadRequest(c, "total: must be a number")
		return
	}

	placed, err := h.store.PlaceOrder(PlacedOrder{
		Payment: req.Payment,
		Email:   req.Email,
		Phone:   req.Phone,
		Address: req.Address,
		Items:   req.Items,
		Total:   total,
	})
	if err != nil {
		log.Warn("order rejected", zap.Error(err))
		h.BadRequest(c, rejectionMessage(err))
		return
	}

	log.Info("order placed",
		zap.String("order_id", placed.ID),
		zap.Int("items", len(placed.Items)),
		zap.String("total", placed.Total.String()),
	)
	h.Success(c, dto.OrderResponse{
		ID:    placed.ID,
		Total: json.Number(placed.Total.String()),
	})
}

func rejectionMessage(err error) string {
	var itemErr *ItemError
	switch {
	case errors.As(err, &itemErr) && errors.Is(err, ErrProductNotFound):
		return "Товар с id " + itemErr.ProductID + " не найден"
	case errors.As(err, &itemErr) && errors.Is(err, ErrNotForSale):
		return "Товар с id " + itemErr.ProductID + " не продается"
	case errors.Is(err, ErrTotalMismatch):
		return "Неверная сумма заказа"
	default:
		return err.Error()
	}
}
