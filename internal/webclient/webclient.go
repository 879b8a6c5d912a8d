package webclient

import "context"

// WebClient executes a single outbound HTTP request. Implementations must be
// safe for concurrent use.
type WebClient interface {
	Do(ctx context.Context, req *Request) (*Response, error)

	Close() error
}
