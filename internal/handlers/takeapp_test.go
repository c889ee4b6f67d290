package handlers_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/gameshop/internal/models"
)

func setupTakeAppEnv(t *testing.T, mux *http.ServeMux) {
	t.Helper()

	mux.HandleFunc("/auth/token", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"data": map[string]any{"access_token": "test-token", "expires_in": 3600},
		})
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	t.Setenv("TAKEAPP_API_KEY", "test-key")
	t.Setenv("TAKEAPP_BASE_URL", srv.URL)
	t.Setenv("TAKEAPP_AUTH_URL", srv.URL+"/auth/token")
}

func TestTakeAppProxyDisabled(t *testing.T) {
	t.Setenv("TAKEAPP_API_KEY", "")
	app, _, cfg := newTestApp(t)

	status, body := doRequest(t, app, http.MethodGet, "/api/takeapp/store", nil, adminToken(t, cfg))
	assert.Equal(t, http.StatusServiceUnavailable, status)
	assert.Equal(t, "take.app integration is disabled", body["detail"])
}

func TestTakeAppProxyPassesQueryAndBody(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/orders", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "pending", r.URL.Query().Get("status"))
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{"data": []any{map[string]any{"id": "ta_1"}}})
	})
	setupTakeAppEnv(t, mux)

	app, _, cfg := newTestApp(t)

	status, body := doRequest(t, app, http.MethodGet, "/api/takeapp/orders?status=pending", nil, adminToken(t, cfg))
	require.Equal(t, http.StatusOK, status)

	data, ok := body["data"].([]any)
	require.True(t, ok)
	assert.Len(t, data, 1)
}

func TestTakeAppSyncProductsPushesActiveCatalog(t *testing.T) {
	var received struct {
		Products []struct {
			Name       string `json:"name"`
			Variations []struct {
				Name  string  `json:"name"`
				Price float64 `json:"price"`
			} `json:"variations"`
		} `json:"products"`
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/products/sync", func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&received))
		json.NewEncoder(w).Encode(map[string]any{"data": map[string]any{"synced": true}})
	})
	setupTakeAppEnv(t, mux)

	app, db, cfg := newTestApp(t)

	require.NoError(t, db.Create(&models.Product{
		Name:   "Netflix Premium",
		Active: true,
		Variations: []models.Variation{
			{Name: "1 Month", Price: 200},
		},
	}).Error)
	require.NoError(t, db.Create(&models.Product{Name: "Retired", Active: false}).Error)

	status, body := doRequest(t, app, http.MethodPost, "/api/takeapp/sync-products", nil, adminToken(t, cfg))
	require.Equal(t, http.StatusOK, status)
	assert.EqualValues(t, 1, body["synced"])

	require.Len(t, received.Products, 1, "inactive products stay local")
	assert.Equal(t, "Netflix Premium", received.Products[0].Name)
	require.Len(t, received.Products[0].Variations, 1)
	assert.Equal(t, float64(200), received.Products[0].Variations[0].Price)
}

func TestTakeAppRoutesRequireAdmin(t *testing.T) {
	app, _, _ := newTestApp(t)

	status, _ := doRequest(t, app, http.MethodGet, "/api/takeapp/store", nil, "")
	assert.Equal(t, http.StatusUnauthorized, status)
}
