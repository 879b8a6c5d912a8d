package webclient_test

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/miguel-octavio-aguila/secdevops-challenge-1/internal/webclient"
)

func newClient(t *testing.T, cfg webclient.Config, httpClient *http.Client) *webclient.NetHTTPClient {
	t.Helper()
	c, err := webclient.NewNetHTTPClient(cfg, nil, httpClient)
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })
	return c
}

// roundTripFunc lets a test stand in for the network.
type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(r *http.Request) (*http.Response, error) { return f(r) }

// ─── Round trips ───────────────────────────────────────────────────────

func TestDo_PostsBodyAndHeaders(t *testing.T) {
	t.Parallel()
	var gotMethod, gotType, gotAccept, gotBody string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotType = r.Header.Get("Content-Type")
		gotAccept = r.Header.Get("Accept")
		b, _ := io.ReadAll(r.Body)
		gotBody = string(b)
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"response_code":1}`)
	}))
	defer ts.Close()

	headers := http.Header{}
	headers.Set("Content-Type", "multipart/form-data; boundary=xyz")
	headers.Set("Accept", "application/json")

	resp, err := newClient(t, webclient.Config{}, ts.Client()).Do(context.Background(), &webclient.Request{
		Method:  "post",
		URL:     ts.URL + "/vtapi/v2/file/scan",
		Headers: headers,
		Body:    []byte("--xyz--"),
	})
	require.NoError(t, err)

	assert.Equal(t, http.MethodPost, gotMethod)
	assert.Equal(t, "multipart/form-data; boundary=xyz", gotType)
	assert.Equal(t, "application/json", gotAccept)
	assert.Equal(t, "--xyz--", gotBody)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, `{"response_code":1}`, string(resp.Body))
	assert.Equal(t, "application/json", resp.Headers.Get("Content-Type"))
	assert.True(t, resp.IsSuccess())
}

func TestDo_ErrorStatusIsNotAnError(t *testing.T) {
	t.Parallel()
	for _, code := range []int{http.StatusNoContent, http.StatusForbidden, http.StatusInternalServerError, http.StatusServiceUnavailable} {
		t.Run(http.StatusText(code), func(t *testing.T) {
			t.Parallel()
			ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(code)
			}))
			defer ts.Close()

			resp, err := newClient(t, webclient.Config{}, ts.Client()).Do(context.Background(), &webclient.Request{Method: http.MethodPost, URL: ts.URL})
			require.NoError(t, err)
			assert.Equal(t, code, resp.StatusCode)
			assert.Equal(t, code < 400, resp.IsSuccess())
		})
	}
}

func TestDo_UsesInjectedClient(t *testing.T) {
	t.Parallel()
	var calls atomic.Int32
	httpClient := &http.Client{Transport: roundTripFunc(func(r *http.Request) (*http.Response, error) {
		calls.Add(1)
		return &http.Response{
			StatusCode: http.StatusOK,
			Header:     http.Header{},
			Body:       io.NopCloser(http.NoBody),
			Request:    r,
		}, nil
	})}

	resp, err := newClient(t, webclient.Config{IPv4Only: true}, httpClient).Do(context.Background(), &webclient.Request{Method: http.MethodPost, URL: "http://provider.invalid/scan"})
	require.NoError(t, err)
	assert.Equal(t, int32(1), calls.Load())
	assert.Empty(t, resp.Body)
}

// ─── Failures ──────────────────────────────────────────────────────────

func TestDo_NilRequest(t *testing.T) {
	t.Parallel()
	_, err := newClient(t, webclient.Config{}, nil).Do(context.Background(), nil)
	assert.True(t, errors.Is(err, webclient.ErrNilRequest))
	assert.False(t, webclient.IsTransportError(err))
}

func TestDo_MalformedURLIsNotTransportError(t *testing.T) {
	t.Parallel()
	_, err := newClient(t, webclient.Config{}, nil).Do(context.Background(), &webclient.Request{Method: http.MethodPost, URL: "http://[::1"})
	require.Error(t, err)
	assert.False(t, webclient.IsTransportError(err))
}

func TestDo_TransportErrors(t *testing.T) {
	t.Parallel()

	closed := httptest.NewServer(http.NotFoundHandler())
	closedURL := closed.URL
	closed.Close()

	slow := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	defer slow.Close()

	cancelled, cancel := context.WithCancel(context.Background())
	cancel()

	tests := []struct {
		name string
		cfg  webclient.Config
		ctx  context.Context
		url  string
	}{
		{"connection refused", webclient.Config{IPv4Only: true}, context.Background(), closedURL},
		{"client timeout", webclient.Config{Timeout: 50 * time.Millisecond}, context.Background(), slow.URL},
		{"cancelled context", webclient.Config{}, cancelled, slow.URL},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := newClient(t, tt.cfg, nil).Do(tt.ctx, &webclient.Request{Method: http.MethodPost, URL: tt.url})
			require.Error(t, err)
			assert.True(t, webclient.IsTransportError(err), "got %T: %v", err, err)

			var te *webclient.TransportError
			require.True(t, errors.As(err, &te))
			assert.Equal(t, te.Err.Error(), err.Error())
		})
	}
}

func TestDo_TruncatedBodyIsTransportError(t *testing.T) {
	t.Parallel()
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Length", "100")
		_, _ = io.WriteString(w, `{"response_code":`)
	}))
	defer ts.Close()

	_, err := newClient(t, webclient.Config{}, ts.Client()).Do(context.Background(), &webclient.Request{Method: http.MethodPost, URL: ts.URL})
	require.Error(t, err)
	assert.True(t, webclient.IsTransportError(err))
}
