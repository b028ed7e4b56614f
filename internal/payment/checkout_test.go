package payment

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateSessionForm(t *testing.T) {
	var got url.Values
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		got = r.PostForm
		assert.Equal(t, "Bearer sk_test_123", r.Header.Get("Authorization"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"cs_1","url":"https://pay.example/cs_1"}`))
	}))
	defer srv.Close()

	cl := NewCheckoutClient(srv.URL, "sk_test_123")
	s, err := cl.CreateSession(context.Background(), SessionParams{
		AmountCents: 2500,
		ProductName: "Saturday studio slot",
		SuccessURL:  "https://cherry.example/ok",
		CancelURL:   "https://cherry.example/no",
		Reference:   "7",
		ListingID:   3,
		HostID:      10,
		GuestID:     20,
	})
	require.NoError(t, err)
	assert.Equal(t, "cs_1", s.ID)
	assert.Equal(t, "https://pay.example/cs_1", s.URL)

	assert.Equal(t, "payment", got.Get("mode"))
	assert.Equal(t, "usd", got.Get("line_items[0][price_data][currency]"))
	assert.Equal(t, "2500", got.Get("line_items[0][price_data][unit_amount]"))
	assert.Equal(t, "1", got.Get("line_items[0][quantity]"))
	assert.Equal(t, "7", got.Get("client_reference_id"))
	assert.Equal(t, "3", got.Get("metadata[listing_id]"))
	assert.Equal(t, "10", got.Get("metadata[host_id]"))
	assert.Equal(t, "20", got.Get("metadata[guest_id]"))
}

func TestCreateSessionErrors(t *testing.T) {
	t.Run("not configured", func(t *testing.T) {
		cl := NewCheckoutClient("https://unused", "")
		_, err := cl.CreateSession(context.Background(), SessionParams{AmountCents: 100})
		assert.ErrorIs(t, err, ErrNotConfigured)
	})

	t.Run("provider error message surfaces", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusPaymentRequired)
			_, _ = w.Write([]byte(`{"error":{"message":"card declined"}}`))
		}))
		defer srv.Close()

		cl := NewCheckoutClient(srv.URL, "sk_test_123")
		_, err := cl.CreateSession(context.Background(), SessionParams{AmountCents: 100})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "card declined")
	})
}
