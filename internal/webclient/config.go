package webclient

import (
	"context"
	"net"
	"net/http"
	"time"
)

// Config controls how the net/http backend builds its transport.
type Config struct {
	// IPv4Only forces every outbound dial onto "tcp4", so the resolver only
	// yields A records.
	IPv4Only bool

	// Timeout is the whole-request timeout. Zero leaves it unset.
	Timeout time.Duration
}

// NewTransport returns a clone of http.DefaultTransport adjusted for cfg.
func NewTransport(cfg Config) *http.Transport {
	tr := http.DefaultTransport.(*http.Transport).Clone()
	if cfg.IPv4Only {
		dialer := &net.Dialer{
			Timeout:   30 * time.Second,
			KeepAlive: 30 * time.Second,
		}
		tr.DialContext = ipv4Dialer(dialer)
	}
	return tr
}

// ipv4Dialer rewrites tcp/tcp6 dials to tcp4.
func ipv4Dialer(d *net.Dialer) func(ctx context.Context, network, addr string) (net.Conn, error) {
	return func(ctx context.Context, network, addr string) (net.Conn, error) {
		switch network {
		case "tcp", "tcp6":
			network = "tcp4"
		case "udp", "udp6":
			network = "udp4"
		}
		return d.DialContext(ctx, network, addr)
	}
}
