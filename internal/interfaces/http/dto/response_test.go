package dto

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/weblarek/storefront/internal/domain/catalog"
)

func TestNewProductResponse_PriceIsNumberOrNull(t *testing.T) {
	priced := catalog.NewProduct("a", "Фреймворк", "софт-скил", decimal.NewFromInt(750))
	unpriced := catalog.Product{ID: "b", Title: "Мамка-таймер", Category: "другое"}

	data, err := json.Marshal(NewProductListResponse([]catalog.Product{priced, unpriced}))
	require.NoError(t, err)

	var raw struct {
		Total int `json:"total"`
		Items []map[string]any
	}
	require.NoError(t, json.Unmarshal(data, &raw))

	assert.Equal(t, 2, raw.Total)
	require.Len(t, raw.Items, 2)
	assert.Equal(t, float64(750), raw.Items[0]["price"])
	assert.Nil(t, raw.Items[1]["price"])
	assert.Contains(t, raw.Items[1], "price")
}

func TestNewProductListResponse_EmptyIsArray(t *testing.T) {
	data, err := json.Marshal(NewProductListResponse(nil))
	require.NoError(t, err)
	assert.JSONEq(t, `{"total":0,"items":[]}`, string(data))
}

func TestProductResponse_DecodesIntoCatalogProduct(t *testing.T) {
	data, err := json.Marshal(NewProductResponse(catalog.NewProduct("a", "A", "кнопка", decimal.RequireFromString("99.5"))))
	require.NoError(t, err)

	var p catalog.Product
	require.NoError(t, json.Unmarshal(data, &p))
	assert.True(t, p.Price.Valid)
	assert.True(t, p.Price.Decimal.Equal(decimal.RequireFromString("99.5")))
}
