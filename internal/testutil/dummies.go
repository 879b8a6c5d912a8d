// Package testutil provides shared test doubles for use across package tests.
// All dummies implement the corresponding interfaces from the production code,
// allowing injection into components under test without real I/O or side effects.
package testutil

import (
	"context"
	"sync"

	"github.com/miguel-octavio-aguila/secdevops-challenge-1/internal/logging"
	"github.com/miguel-octavio-aguila/secdevops-challenge-1/internal/scanner"
	"github.com/miguel-octavio-aguila/secdevops-challenge-1/internal/webclient"
)

// ─── Logger ────────────────────────────────────────────────────────────

// DummyLogger implements logging.Logger with in-memory recording.
type DummyLogger struct {
	mu     sync.Mutex
	Errors []string
	Infos  []string
	Debugs []string
	Warns  []string
}

func (l *DummyLogger) Debug(msg string, fields ...logging.Field) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.Debugs = append(l.Debugs, msg)
}

func (l *DummyLogger) Info(msg string, fields ...logging.Field) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.Infos = append(l.Infos, msg)
}

func (l *DummyLogger) Warn(msg string, fields ...logging.Field) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.Warns = append(l.Warns, msg)
}

func (l *DummyLogger) Error(msg string, fields ...logging.Field) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.Errors = append(l.Errors, msg)
}

func (l *DummyLogger) With(_ ...logging.Field) logging.Logger { return l }

// Messages returns a snapshot of every recorded message at level
// ("debug", "info", "warn" or "error").
func (l *DummyLogger) Messages(level string) []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	var src []string
	switch level {
	case "debug":
		src = l.Debugs
	case "info":
		src = l.Infos
	case "warn":
		src = l.Warns
	case "error":
		src = l.Errors
	}
	return append([]string(nil), src...)
}

// ─── Submitter ─────────────────────────────────────────────────────────

// StubSubmitter implements server.ScanSubmitter. SubmitFunc decides the
// answer; when nil, a fixed queued result is returned. Every call is recorded.
type StubSubmitter struct {
	SubmitFunc func(ctx context.Context, req *scanner.ScanRequest) (*scanner.ScanResult, error)

	mu       sync.Mutex
	Requests []*scanner.ScanRequest
}

func (s *StubSubmitter) Submit(ctx context.Context, req *scanner.ScanRequest) (*scanner.ScanResult, error) {
	s.mu.Lock()
	s.Requests = append(s.Requests, req)
	s.mu.Unlock()

	if s.SubmitFunc != nil {
		return s.SubmitFunc(ctx, req)
	}
	return &scanner.ScanResult{
		ScanID:       "stub-scan-id",
		Resource:     "stub-resource",
		ResponseCode: 1,
		VerboseMsg:   "Scan request successfully queued",
		Permalink:    "https://www.virustotal.com/gui/file/stub-resource",
	}, nil
}

// Calls returns how many times Submit ran.
func (s *StubSubmitter) Calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.Requests)
}

// ─── WebClient ─────────────────────────────────────────────────────────

// DummyWebClient implements webclient.WebClient by returning Response or Err
// for every request, recording each one.
type DummyWebClient struct {
	Response *webclient.Response
	Err      error

	mu       sync.Mutex
	Requests []*webclient.Request
}

func (d *DummyWebClient) Do(ctx context.Context, req *webclient.Request) (*webclient.Response, error) {
	d.mu.Lock()
	d.Requests = append(d.Requests, req)
	d.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return nil, &webclient.TransportError{Err: err}
	}
	if d.Err != nil {
		return nil, d.Err
	}
	if d.Response == nil {
		return &webclient.Response{StatusCode: 200, Body: []byte(`{}`)}, nil
	}
	resp := *d.Response
	return &resp, nil
}

func (d *DummyWebClient) Close() error { return nil }
