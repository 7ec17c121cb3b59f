package gateway

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dlatelier/storefront/pkg/apperr"
	shophttp "github.com/dlatelier/storefront/pkg/http"
)

func TestSignIsDeterministic(t *testing.T) {
	a := Sign("order_abc", "pay_xyz", "secret")
	b := Sign("order_abc", "pay_xyz", "secret")
	assert.Equal(t, a, b)
	assert.Len(t, a, 64) // hex sha256
}

func TestVerifySignature(t *testing.T) {
	c := &Client{secret: "topsecret"}
	sig := Sign("order_1", "pay_1", "topsecret")

	assert.True(t, c.VerifySignature("order_1", "pay_1", sig))

	// any mutation must fail verification
	assert.False(t, c.VerifySignature("order_2", "pay_1", sig))
	assert.False(t, c.VerifySignature("order_1", "pay_2", sig))
	assert.False(t, c.VerifySignature("order_1", "pay_1", sig[:63]+"0"))

	other := &Client{secret: "different"}
	assert.False(t, other.VerifySignature("order_1", "pay_1", sig))
}

func TestCreateOrder(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, pass, ok := r.BasicAuth()
		require.True(t, ok)
		assert.Equal(t, "key_test", user)
		assert.Equal(t, "secret_test", pass)
		assert.Equal(t, "/orders", r.URL.Path)

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"id":"order_123","amount":149900,"currency":"INR","receipt":"r1","status":"created"}`))
	}))
	defer srv.Close()

	prev := shophttp.DefaultClient
	shophttp.DefaultClient = srv.Client()
	defer func() { shophttp.DefaultClient = prev }()

	c := NewClient(srv.URL, "key_test", "secret_test")
	order, err := c.CreateOrder(context.Background(), 149900, "INR", "r1")
	require.NoError(t, err)
	assert.Equal(t, "order_123", order.ID)
	assert.Equal(t, int64(149900), order.Amount)
}

func TestClientExposesPublishableKey(t *testing.T) {
	c := NewClient("http://unused", "rzp_live_abc", "s")
	assert.Equal(t, "rzp_live_abc", c.Key())
}

func TestCreateOrderRejectsNonPositiveAmount(t *testing.T) {
	c := NewClient("http://unused", "k", "s")
	_, err := c.CreateOrder(context.Background(), 0, "INR", "r")
	assert.True(t, apperr.Is(err, apperr.InvalidInput))
}

func TestCreateOrderUpstreamFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	prev := shophttp.DefaultClient
	shophttp.DefaultClient = srv.Client()
	defer func() { shophttp.DefaultClient = prev }()

	c := NewClient(srv.URL, "k", "s")
	_, err := c.CreateOrder(context.Background(), 100, "INR", "r")
	assert.True(t, apperr.Is(err, apperr.Upstream))
}

func TestDefaultRebuildsAfterReset(t *testing.T) {
	Reset()
	first := Default()
	require.NotNil(t, first)

	Reset()
	second := Default()
	require.NotNil(t, second)
	assert.NotSame(t, first, second)
}
