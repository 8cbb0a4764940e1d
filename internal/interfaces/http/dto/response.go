// Package dto holds the wire shapes of the stub storefront API.
package dto

import (
	"encoding/json"

	"github.com/weblarek/storefront/internal/domain/catalog"
)

// ErrorResponse is the body of every failed request
type ErrorResponse struct {
	Error string `json:"error"`
}

// NewErrorResponse creates an error response
func NewErrorResponse(message string) ErrorResponse {
	return ErrorResponse{Error: message}
}

// ProductResponse is a catalog item. Price is a JSON number, or null for
// products that are not for sale.
type ProductResponse struct {
	ID          string       `json:"id"`
	Description string       `json:"description"`
	Image       string       `json:"image"`
	Title       string       `json:"title"`
	Category    string       `json:"category"`
	Price       *json.Number `json:"price"`
}

// ProductListResponse is the body of GET /product
type ProductListResponse struct {
	Total int               `json:"total"`
	Items []ProductResponse `json:"items"`
}

// NewProductResponse converts a catalog product
func NewProductResponse(p catalog.Product) ProductResponse {
	resp := ProductResponse{
		ID:          p.ID,
		Description: p.Description,
		Image:       p.Image,
		Title:       p.Title,
		Category:    p.Category,
	}
	if p.Price.Valid {
		n := json.Number(p.Price.Decimal.String())
		resp.Price = &n
	}
	return resp
}

// NewProductListResponse converts a product list
func NewProductListResponse(products []catalog.Product) ProductListResponse {
	items := make([]ProductResponse, 0, len(products))
	for _, p := range products {
		items = append(items, NewProductResponse(p))
	}
	return ProductListResponse{Total: len(items), Items: items}
}

// OrderRequest is the body of POST /order
type OrderRequest struct {
	Payment string      `json:"payment" binding:"required,oneof=card cash online"`
	Email   string      `json:"email" binding:"required,email"`
	Phone   string      `json:"phone" binding:"required,phone"`
	Address string      `json:"address" binding:"required"`
	Total   json.Number `json:"total" binding:"required"`
	Items   []string    `json:"items" binding:"required,min=1,dive,required"`
}

// OrderResponse is the body of a successful POST /order
type OrderResponse struct {
	ID    string      `json:"id"`
	Total json.Number `json:"total"`
}
