package storefront

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeBackend answers the login endpoint the way the API does: the
// first call issues a code, the second verifies it.
type fakeBackend struct {
	t *testing.T

	code     string
	token    string
	customer Customer

	loginCalls int
	lastPhone  string
}

func newFakeBackend(t *testing.T) (*fakeBackend, *httptest.Server) {
	t.Helper()

	backend := &fakeBackend{
		t:        t,
		code:     "123456",
		token:    "session-token",
		customer: Customer{ID: "c1", Phone: "9779743488871"},
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/api/customers/login", backend.handleLogin)
	mux.HandleFunc("/api/customers/me", backend.handleMe)

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return backend, srv
}

func (b *fakeBackend) handleLogin(w http.ResponseWriter, r *http.Request) {
	b.loginCalls++

	var req struct {
		Phone string `json:"phone"`
		OTP   string `json:"otp"`
	}
	require.NoError(b.t, json.NewDecoder(r.Body).Decode(&req))
	b.lastPhone = req.Phone

	if req.OTP == "" {
		json.NewEncoder(w).Encode(map[string]any{
			"success": true, "otp_sent": true, "dev_otp": b.code,
		})
		return
	}

	if req.OTP != b.code {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]string{"detail": "invalid verification code"})
		return
	}

	json.NewEncoder(w).Encode(map[string]any{
		"success": true, "token": b.token, "customer": b.customer,
	})
}

func (b *fakeBackend) handleMe(w http.ResponseWriter, r *http.Request) {
	if r.Header.Get("Authorization") != "Bearer "+b.token {
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(map[string]string{"detail": "invalid token"})
		return
	}
	json.NewEncoder(w).Encode(b.customer)
}

func TestLoginFlowHappyPath(t *testing.T) {
	backend, srv := newFakeBackend(t)
	store := &MemoryTokenStore{}
	client := New(srv.URL, store)
	flow := client.NewLoginFlow()

	assert.Equal(t, StepPhone, flow.Step())

	// The phone is filtered to digits before it leaves the process.
	require.NoError(t, flow.RequestCode(context.Background(), "+977 974-348-8871"))
	assert.Equal(t, "9779743488871", backend.lastPhone)
	assert.Equal(t, StepOTP, flow.Step())
	assert.Equal(t, "123456", flow.DevOTP())

	require.NoError(t, flow.VerifyCode(context.Background(), "123456"))
	assert.Equal(t, StepPhone, flow.Step(), "a finished flow is ready for the next login")

	assert.True(t, client.IsLoggedIn())
	assert.Equal(t, "session-token", client.Token())
	require.NotNil(t, client.Customer())
	assert.Equal(t, "9779743488871", client.Customer().Phone)

	saved, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, "session-token", saved)
}

func TestLoginFlowEmptyPhoneMakesNoCall(t *testing.T) {
	backend, srv := newFakeBackend(t)
	flow := New(srv.URL, nil).NewLoginFlow()

	err := flow.RequestCode(context.Background(), "  +- ")
	assert.ErrorIs(t, err, ErrEmptyPhone)
	assert.Equal(t, 0, backend.loginCalls)
	assert.Equal(t, StepPhone, flow.Step())
}

func TestLoginFlowVerifyBeforeRequest(t *testing.T) {
	backend, srv := newFakeBackend(t)
	flow := New(srv.URL, nil).NewLoginFlow()

	err := flow.VerifyCode(context.Background(), "123456")
	assert.ErrorIs(t, err, ErrWrongStep)
	assert.Equal(t, 0, backend.loginCalls)
}

func TestLoginFlowEmptyCode(t *testing.T) {
	_, srv := newFakeBackend(t)
	flow := New(srv.URL, nil).NewLoginFlow()

	require.NoError(t, flow.RequestCode(context.Background(), "9779743488871"))

	err := flow.VerifyCode(context.Background(), " ")
	assert.ErrorIs(t, err, ErrEmptyCode)
	assert.Equal(t, StepOTP, flow.Step())
}

func TestLoginFlowWrongCodeKeepsStep(t *testing.T) {
	_, srv := newFakeBackend(t)
	client := New(srv.URL, nil)
	flow := client.NewLoginFlow()

	require.NoError(t, flow.RequestCode(context.Background(), "9779743488871"))

	err := flow.VerifyCode(context.Background(), "999999")
	require.Error(t, err)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadRequest, apiErr.Status)
	assert.Equal(t, "invalid verification code", apiErr.Detail)

	// The user can retry without requesting a fresh code.
	assert.Equal(t, StepOTP, flow.Step())
	assert.False(t, client.IsLoggedIn())

	require.NoError(t, flow.VerifyCode(context.Background(), "123456"))
	assert.True(t, client.IsLoggedIn())
}

func TestLoginFlowRequestFailureStaysAtPhone(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		json.NewEncoder(w).Encode(map[string]string{"detail": "internal server error"})
	}))
	defer srv.Close()

	flow := New(srv.URL, nil).NewLoginFlow()

	err := flow.RequestCode(context.Background(), "9779743488871")
	require.Error(t, err)
	assert.Equal(t, StepPhone, flow.Step(), "the flow only advances on success")
}

func TestLoginFlowReset(t *testing.T) {
	_, srv := newFakeBackend(t)
	flow := New(srv.URL, nil).NewLoginFlow()

	require.NoError(t, flow.RequestCode(context.Background(), "9779743488871"))
	require.Equal(t, StepOTP, flow.Step())

	flow.Reset()
	assert.Equal(t, StepPhone, flow.Step())
	assert.Empty(t, flow.Phone())
	assert.Empty(t, flow.DevOTP())

	err := flow.VerifyCode(context.Background(), "123456")
	assert.ErrorIs(t, err, ErrWrongStep)
}
