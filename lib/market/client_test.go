package market

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/fiffu/pricewatch/lib/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestClient(baseURL string) *Client {
	return &Client{
		log:       zap.NewNop(),
		baseURL:   baseURL,
		timeout:   2 * time.Second,
		transport: http.DefaultTransport,
	}
}

func TestFetchListings(t *testing.T) {
	var gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.EscapedPath()
		w.Write([]byte(`{"listings": [{"price": 95000}, {"price": 120000}]}`))
	}))
	defer srv.Close()

	client := newTestClient(srv.URL)
	listings, err := client.FetchListings(context.Background(), "White Horse")

	require.NoError(t, err)
	assert.Equal(t, models.Listings{{Price: 95000}, {Price: 120000}}, listings)
	assert.Equal(t, "/market/item/White%20Horse", gotPath)
}

func TestFetchListingsNoListings(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{name: "empty array", body: `{"listings": []}`},
		{name: "missing field", body: `{}`},
		{name: "null field", body: `{"listings": null}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			client := newTestClient(srv.URL)
			_, err := client.FetchListings(context.Background(), "Dull Ancient Necklace")
			assert.ErrorIs(t, err, ErrNoListings)
		})
	}
}

func TestFetchListingsBadUpstream(t *testing.T) {
	t.Run("malformed JSON", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`<html>upstream maintenance</html>`))
		}))
		defer srv.Close()

		client := newTestClient(srv.URL)
		_, err := client.FetchListings(context.Background(), "White Horse")
		assert.ErrorIs(t, err, ErrBadUpstream)
	})

	t.Run("server error status", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}))
		defer srv.Close()

		client := newTestClient(srv.URL)
		_, err := client.FetchListings(context.Background(), "White Horse")
		assert.ErrorIs(t, err, ErrBadUpstream)
	})
}

func TestFetchListingsUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // connection refused from here on

	client := newTestClient(srv.URL)
	_, err := client.FetchListings(context.Background(), "White Horse")
	assert.ErrorIs(t, err, ErrUnreachable)
}

func TestFetchListingsTimeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer srv.Close()

	client := newTestClient(srv.URL)
	client.timeout = 20 * time.Millisecond

	_, err := client.FetchListings(context.Background(), "White Horse")
	assert.ErrorIs(t, err, ErrUnreachable)
}
