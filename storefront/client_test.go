package storefront

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRestoreSessionWithStoredToken(t *testing.T) {
	backend, srv := newFakeBackend(t)

	store := &MemoryTokenStore{}
	require.NoError(t, store.Save(backend.token))

	client := New(srv.URL, store)
	require.NoError(t, client.RestoreSession(context.Background()))

	assert.True(t, client.IsLoggedIn())
	assert.Equal(t, backend.token, client.Token())
	assert.Equal(t, backend.customer.Phone, client.Customer().Phone)
}

func TestRestoreSessionWithoutTokenIsNoop(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
	}))
	defer srv.Close()

	client := New(srv.URL, &MemoryTokenStore{})
	require.NoError(t, client.RestoreSession(context.Background()))

	assert.False(t, client.IsLoggedIn())
	assert.Equal(t, 0, calls)
}

func TestRestoreSessionClearsRejectedToken(t *testing.T) {
	_, srv := newFakeBackend(t)

	store := &MemoryTokenStore{}
	require.NoError(t, store.Save("stale-token"))

	client := New(srv.URL, store)
	err := client.RestoreSession(context.Background())
	require.Error(t, err)

	assert.False(t, client.IsLoggedIn())
	assert.Empty(t, client.Token())

	saved, loadErr := store.Load()
	require.NoError(t, loadErr)
	assert.Empty(t, saved, "a rejected token is wiped so the next start skips the fetch")
}

func TestRestoreSessionClearsTokenOnUnreachableBackend(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // connection refused from here on

	store := &MemoryTokenStore{}
	require.NoError(t, store.Save("some-token"))

	client := New(srv.URL, store)
	err := client.RestoreSession(context.Background())
	require.Error(t, err)

	saved, loadErr := store.Load()
	require.NoError(t, loadErr)
	assert.Empty(t, saved, "restore is single-shot: any failure logs the user out")
}

type failingStore struct{ MemoryTokenStore }

func (s *failingStore) Clear() error { return errors.New("disk full") }

func TestLogoutAlwaysClearsMemory(t *testing.T) {
	_, srv := newFakeBackend(t)

	store := &failingStore{}
	require.NoError(t, store.Save("tok"))

	client := New(srv.URL, store)
	client.setSession("tok", &Customer{ID: "c1"})

	err := client.Logout()
	assert.Error(t, err, "the store failure is reported")
	assert.False(t, client.IsLoggedIn(), "but the in-memory session is gone regardless")
	assert.Empty(t, client.Token())
}

func TestUpdateProfileRequiresSession(t *testing.T) {
	_, srv := newFakeBackend(t)
	client := New(srv.URL, nil)

	_, err := client.UpdateProfile(context.Background(), "Ram", "ram@example.com")
	assert.ErrorIs(t, err, ErrNotAuthenticated)

	_, err = client.MyOrders(context.Background())
	assert.ErrorIs(t, err, ErrNotAuthenticated)
}

func TestMyOrders(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/customers/me/orders", func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
		json.NewEncoder(w).Encode([]OrderSummary{
			{ID: "o1", Status: "pending", TotalAmount: 20000,
				Items: []OrderSummaryItem{{Name: "Netflix Premium", Price: 20000, Quantity: 1, Variation: "1 Month"}}},
		})
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	client := New(srv.URL, nil)
	client.setSession("tok", &Customer{ID: "c1"})

	orders, err := client.MyOrders(context.Background())
	require.NoError(t, err)
	require.Len(t, orders, 1)
	assert.Equal(t, "pending", orders[0].Status)
	assert.EqualValues(t, 20000, orders[0].TotalAmount)
}

func TestGetProduct(t *testing.T) {
	original := 250.0
	mux := http.NewServeMux()
	mux.HandleFunc("/api/products/p1", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(Product{
			ID: "p1", Name: "Netflix Premium",
			Variations: []Variation{{ID: "v1", Name: "1 Month", Price: 200, OriginalPrice: &original}},
		})
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	client := New(srv.URL, nil)
	product, err := client.GetProduct(context.Background(), "p1")
	require.NoError(t, err)

	assert.Equal(t, "Netflix Premium", product.Name)
	require.Len(t, product.Variations, 1)
	assert.Equal(t, 20, product.Variations[0].Discount())
}

func TestAPIErrorRendering(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		json.NewEncoder(w).Encode(map[string]string{"detail": "product not found"})
	}))
	defer srv.Close()

	client := New(srv.URL, nil)
	_, err := client.GetProduct(context.Background(), "missing")

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusNotFound, apiErr.Status)
	assert.Equal(t, "product not found", apiErr.Detail)
	assert.Contains(t, apiErr.Error(), "404")
}
