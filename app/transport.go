package app

import (
	"net/http"

	"go.uber.org/fx"
	"go.uber.org/zap"
)

// NewTransport provides the RoundTripper shared by every outbound HTTP
// caller (market client, bot, senders). Tests swap it for a fake.
func NewTransport(lc fx.Lifecycle, log *zap.Logger) http.RoundTripper {
	return &transport{http.DefaultTransport, log}
}

type transport struct {
	base http.RoundTripper
	log  *zap.Logger
}

func (tpt *transport) RoundTrip(req *http.Request) (*http.Response, error) {
	resp, err := tpt.base.RoundTrip(req)
	if err != nil {
		tpt.log.Sugar().Debugw("Outbound request failed",
			"method", req.Method, "host", req.URL.Host, "err", err)
	}
	return resp, err
}
