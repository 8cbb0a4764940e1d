package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/weblarek/storefront/internal/infrastructure/logger"
	"github.com/weblarek/storefront/internal/interfaces/http/dto"
	"go.uber.org/zap"
)

// ProductHandler serves the catalog
type ProductHandler struct {
	BaseHandler
	store *Store
}

// NewProductHandler creates a new ProductHandler
func NewProductHandler(store *Store) *ProductHandler {
	return &ProductHandler{store: store}
}

// RegisterRoutes implements router.RouteRegistrar
func (h *ProductHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/product", h.List)
	rg.GET("/product/:id", h.Get)
}

// List handles GET /product
func (h *ProductHandler) List(c *gin.Context) {
	products := h.store.Products()
	logger.L(c.Request.Context()).Debug("listing products", zap.Int("count", len(products)))
	h.Success(c, dto.NewProductListResponse(products))
}

// Get handles GET /product/:id
func (h *ProductHandler) Get(c *gin.Context) {
	p, ok := h.store.Find(c.Param("id"))
	if !ok {
		h.NotFound(c, "NotFound")
		return
	}
	h.Success(c, dto.NewProductResponse(p))
}
