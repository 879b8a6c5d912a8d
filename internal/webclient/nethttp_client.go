package webclient

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/miguel-octavio-aguila/secdevops-challenge-1/internal/logging"
)

// ErrNilRequest is returned by Do when req is nil.
var ErrNilRequest = errors.New("request cannot be nil")

// NetHTTPClient is the net/http backed WebClient.
type NetHTTPClient struct {
	client *http.Client
	logger logging.Logger
}

// NewNetHTTPClient builds a client. When httpClient is nil a new one is
// created around NewTransport(cfg); otherwise httpClient is used as is.
func NewNetHTTPClient(cfg Config, logger logging.Logger, httpClient *http.Client) (*NetHTTPClient, error) {
	if logger == nil {
		logger = logging.NopLogger{}
	}
	componentLogger := logger.With(logging.F("component", "webclient"))

	if httpClient == nil {
		httpClient = &http.Client{
			Transport: NewTransport(cfg),
			Timeout:   cfg.Timeout,
		}
	}

	componentLogger.Debug("created nethttp webclient",
		logging.F("timeout", httpClient.Timeout.String()),
		logging.F("ipv4_only", cfg.IPv4Only))

	return &NetHTTPClient{
		client: httpClient,
		logger: componentLogger,
	}, nil
}

// Do sends req and reads the whole response body. Non-2xx responses are not
// errors; callers inspect StatusCode.
func (nhc *NetHTTPClient) Do(ctx context.Context, req *Request) (*Response, error) {
	if req == nil {
		return nil, ErrNilRequest
	}

	method := strings.ToUpper(req.Method)

	nhc.logger.Debug("sending http request",
		logging.F("method", method),
		logging.F("url", req.URL),
		logging.F("body_bytes", len(req.Body)))

	var bodyReader io.Reader
	if len(req.Body) > 0 {
		bodyReader = bytes.NewReader(req.Body)
	}

	httpReq, err := http.NewRequestWithContext(ctx, method, req.URL, bodyReader)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	for k, vs := range req.Headers {
		for _, v := range vs {
			httpReq.Header.Add(k, v)
		}
	}

	resp, err := nhc.client.Do(httpReq)
	if err != nil {
		nhc.logger.Warn("http request failed",
			logging.F("method", method),
			logging.F("url", req.URL),
			logging.Err(err))
		return nil, &TransportError{Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		nhc.logger.Warn("reading response body",
			logging.F("method", method),
			logging.F("url", req.URL),
			logging.Err(err))
		return nil, &TransportError{Err: fmt.Errorf("read body: %w", err)}
	}

	return &Response{
		StatusCode: resp.StatusCode,
		Headers:    resp.Header,
		Body:       body,
	}, nil
}

func (nhc *NetHTTPClient) Close() error {
	nhc.client.CloseIdleConnections()
	return nil
}

// TransportError marks a failure to complete the HTTP exchange: dial, DNS,
// TLS, timeout, cancellation or a broken body.
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string { return e.Err.Error() }

func (e *TransportError) Unwrap() error { return e.Err }

// IsTransportError reports whether err is or wraps a *TransportError.
func IsTransportError(err error) bool {
	var te *TransportError
	return errors.As(err, &te)
}
