package chain

import (
	"context"
	"time"
)

// Endpoint is the result of pinging a network's RPC.
type Endpoint struct {
	URL         string
	Latency     time.Duration
	ChainID     int64
	BlockNumber uint64
	Healthy     bool
	Err         error
}

// Ping dials url and reports latency, chain id and head block. Failures are
// reported in Endpoint.Err rather than returned.
func Ping(ctx context.Context, url string, timeout time.Duration) Endpoint {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	ep := Endpoint{URL: url}
	start := time.Now()

	c, err := Dial(ctx, url)
	if err != nil {
		ep.Err = err
		return ep
	}
	defer c.Close()

	return checkEndpoint(ctx, c, ep, start)
}

func checkEndpoint(ctx context.Context, b Backend, ep Endpoint, start time.Time) Endpoint {
	id, err := b.ChainID(ctx)
	if err != nil {
		ep.Latency = time.Since(start)
		ep.Err = err
		return ep
	}
	head, err := b.BlockNumber(ctx)
	ep.Latency = time.Since(start)
	if err != nil {
		ep.Err = err
		return ep
	}
	ep.ChainID = id.Int64()
	ep.BlockNumber = head
	ep.Healthy = true
	return ep
}
