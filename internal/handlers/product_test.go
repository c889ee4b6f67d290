package handlers_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/example/gameshop/internal/models"
)

func seedProduct(t *testing.T, db *gorm.DB) models.Product {
	t.Helper()

	original := 250.0
	product := models.Product{
		Name:     "Netflix Premium",
		Category: "streaming",
		Active:   true,
		Variations: []models.Variation{
			{Name: "1 Month", Price: 200, OriginalPrice: &original, DisplayOrder: 0},
			{Name: "3 Months", Price: 550, DisplayOrder: 1},
		},
	}
	require.NoError(t, db.Create(&product).Error)
	return product
}

func TestListProductsHidesInactive(t *testing.T) {
	app, db, cfg := newTestApp(t)

	seedProduct(t, db)
	require.NoError(t, db.Create(&models.Product{Name: "Retired", Active: false}).Error)

	status, resp := doRequest(t, app, http.MethodGet, "/api/products", nil, "")
	require.Equal(t, http.StatusOK, status)
	assert.Len(t, resp["data"].([]any), 1)

	status, resp = doRequest(t, app, http.MethodGet, "/api/products?all=true", nil, adminToken(t, cfg))
	require.Equal(t, http.StatusOK, status)
	assert.Len(t, resp["data"].([]any), 2)
}

func TestListProductsFiltersByCategory(t *testing.T) {
	app, db, _ := newTestApp(t)

	seedProduct(t, db)
	require.NoError(t, db.Create(&models.Product{Name: "PUBG UC", Category: "gaming", Active: true}).Error)

	status, resp := doRequest(t, app, http.MethodGet, "/api/products?category=gaming", nil, "")
	require.Equal(t, http.StatusOK, status)

	data := resp["data"].([]any)
	require.Len(t, data, 1)
	assert.Equal(t, "PUBG UC", data[0].(map[string]any)["name"])
}

func TestGetProductIncludesVariationsInOrder(t *testing.T) {
	app, db, _ := newTestApp(t)
	product := seedProduct(t, db)

	status, resp := doRequest(t, app, http.MethodGet, "/api/products/"+product.ID.String(), nil, "")
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "Netflix Premium", resp["name"])

	variations := resp["variations"].([]any)
	require.Len(t, variations, 2)
	assert.Equal(t, "1 Month", variations[0].(map[string]any)["name"])
	assert.EqualValues(t, 200, variations[0].(map[string]any)["price"])
	assert.Equal(t, "3 Months", variations[1].(map[string]any)["name"])
}

func TestGetProductNotFound(t *testing.T) {
	app, _, _ := newTestApp(t)

	status, resp := doRequest(t, app, http.MethodGet, "/api/products/7b1f3c8e-0000-4000-8000-000000000000", nil, "")
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "product not found", resp["detail"])

	status, resp = doRequest(t, app, http.MethodGet, "/api/products/not-a-uuid", nil, "")
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "invalid id", resp["detail"])
}

func TestCreateProduct(t *testing.T) {
	app, db, cfg := newTestApp(t)

	body := map[string]any{
		"name":     "Spotify",
		"category": "streaming",
		"variations": []map[string]any{
			{"name": "1 Month", "price": 99},
			{"name": "6 Months", "price": 499},
		},
	}

	status, resp := doRequest(t, app, http.MethodPost, "/api/products", body, adminToken(t, cfg))
	require.Equal(t, http.StatusCreated, status)

	data := resp["data"].(map[string]any)
	assert.Equal(t, true, data["active"], "new products default to active")

	var count int64
	require.NoError(t, db.Model(&models.Variation{}).Count(&count).Error)
	assert.EqualValues(t, 2, count)
}

func TestCreateProductValidation(t *testing.T) {
	app, _, cfg := newTestApp(t)
	token := adminToken(t, cfg)

	status, resp := doRequest(t, app, http.MethodPost, "/api/products",
		map[string]any{"category": "streaming"}, token)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "name is required", resp["detail"])

	status, resp = doRequest(t, app, http.MethodPost, "/api/products",
		map[string]any{"name": "X", "variations": []map[string]any{{"name": "1 Month", "price": -5}}}, token)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "variation price must not be negative", resp["detail"])
}

func TestUpdateProductReplacesVariations(t *testing.T) {
	app, db, cfg := newTestApp(t)
	product := seedProduct(t, db)

	body := map[string]any{
		"name": "Netflix Premium",
		"variations": []map[string]any{
			{"name": "12 Months", "price": 2000},
		},
	}

	status, resp := doRequest(t, app, http.MethodPut, "/api/products/"+product.ID.String(), body, adminToken(t, cfg))
	require.Equal(t, http.StatusOK, status)

	variations := resp["data"].(map[string]any)["variations"].([]any)
	require.Len(t, variations, 1)
	assert.Equal(t, "12 Months", variations[0].(map[string]any)["name"])

	var count int64
	require.NoError(t, db.Model(&models.Variation{}).Where("product_id = ?", product.ID).Count(&count).Error)
	assert.EqualValues(t, 1, count, "the old variation set is replaced, not appended to")
}

func TestDeleteProductRemovesVariations(t *testing.T) {
	app, db, cfg := newTestApp(t)
	product := seedProduct(t, db)

	status, _ := doRequest(t, app, http.MethodDelete, "/api/products/"+product.ID.String(), nil, adminToken(t, cfg))
	assert.Equal(t, http.StatusNoContent, status)

	var count int64
	require.NoError(t, db.Model(&models.Variation{}).Count(&count).Error)
	assert.EqualValues(t, 0, count)
}

func TestProductMutationsRequireAdmin(t *testing.T) {
	app, _, _ := newTestApp(t)

	status, _ := doRequest(t, app, http.MethodPost, "/api/products",
		map[string]any{"name": "Spotify"}, "")
	assert.Equal(t, http.StatusUnauthorized, status)
}
