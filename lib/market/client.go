package market

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/carlmjohnson/requests"
	"github.com/fiffu/pricewatch/config"
	"github.com/fiffu/pricewatch/lib/models"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var (
	// ErrNoListings means the item currently has no listings upstream.
	// This is an expected outcome, not a fault.
	ErrNoListings = errors.New("no listings for item")

	// ErrUnreachable covers transport failures, including the per-request
	// timeout elapsing.
	ErrUnreachable = errors.New("market API unreachable")

	// ErrBadUpstream covers non-2xx statuses and responses that fail to
	// decode as the expected shape.
	ErrBadUpstream = errors.New("unexpected market API response")
)

type Client struct {
	log       *zap.Logger
	baseURL   string
	timeout   time.Duration
	transport http.RoundTripper
}

func NewClient(lc fx.Lifecycle, log *zap.Logger, cfg *config.Config, transport http.RoundTripper) *Client {
	return &Client{log, cfg.MarketAPIBase, cfg.FetchTimeout(), transport}
}

type itemResponse struct {
	Listings models.Listings `json:"listings"`
}

// FetchListings queries the upstream market API for one item. It issues a
// single request with no retry; retry policy belongs to the caller.
func (c *Client) FetchListings(ctx context.Context, item string) (models.Listings, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	var resp itemResponse
	err := requests.
		URL(c.baseURL + "/market/item/" + url.PathEscape(item)).
		Transport(c.transport).
		ToJSON(&resp).
		Fetch(ctx)

	switch {
	case err == nil:
	case errors.Is(err, requests.ErrTransport):
		return nil, fmt.Errorf("%w: %s", ErrUnreachable, err)
	default:
		return nil, fmt.Errorf("%w: %s", ErrBadUpstream, err)
	}

	if len(resp.Listings) == 0 {
		return nil, ErrNoListings
	}
	return resp.Listings, nil
}
