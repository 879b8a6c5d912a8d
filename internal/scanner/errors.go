package scanner

import (
	"errors"
	"fmt"
)

// Kind classifies a ScanFailure.
type Kind string

const (
	// KindInvalidResponse means the provider answered but rejected the
	// submission or sent something that is not a scan outcome.
	KindInvalidResponse Kind = "invalid_response"
	// KindUpstreamUnavailable means the provider could not be reached or
	// answered with an error status.
	KindUpstreamUnavailable Kind = "upstream_unavailable"
	// KindInternal covers everything else.
	KindInternal Kind = "internal"
)

// Detail prefixes and fallbacks shown to API callers.
const (
	upstreamDetailPrefix = "VirusTotal API request failed: "
	internalDetailPrefix = "An unexpected error occurred: "
	unknownErrorDetail   = "Unknown error"
)

// ScanFailure is the only error type returned by Submitter.Submit.
type ScanFailure struct {
	Kind Kind
	// Detail is safe to show to API callers.
	Detail string
	// Cause is the underlying error, if any. It is never rendered to callers.
	Cause error
}

func (f *ScanFailure) Error() string {
	return fmt.Sprintf("%s: %s", f.Kind, f.Detail)
}

func (f *ScanFailure) Unwrap() error {
	return f.Cause
}

// NewInvalidResponse builds an InvalidResponse failure. An empty verboseMsg
// falls back to "Unknown error".
func NewInvalidResponse(verboseMsg string, cause error) *ScanFailure {
	if verboseMsg == "" {
		verboseMsg = unknownErrorDetail
	}
	return &ScanFailure{Kind: KindInvalidResponse, Detail: verboseMsg, Cause: cause}
}

// NewUpstreamUnavailable builds an UpstreamUnavailable failure whose detail
// carries the transport error message.
func NewUpstreamUnavailable(cause error) *ScanFailure {
	return &ScanFailure{Kind: KindUpstreamUnavailable, Detail: upstreamDetailPrefix + cause.Error(), Cause: cause}
}

// NewInternal builds an Internal failure.
func NewInternal(cause error) *ScanFailure {
	return &ScanFailure{Kind: KindInternal, Detail: internalDetailPrefix + cause.Error(), Cause: cause}
}

// AsFailure extracts a *ScanFailure from err.
func AsFailure(err error) (*ScanFailure, bool) {
	var f *ScanFailure
	if errors.As(err, &f) {
		return f, true
	}
	return nil, false
}

// IsInvalidResponse reports whether err is or wraps an InvalidResponse failure.
func IsInvalidResponse(err error) bool {
	f, ok := AsFailure(err)
	return ok && f.Kind == KindInvalidResponse
}

// IsUpstreamUnavailable reports whether err is or wraps an UpstreamUnavailable failure.
func IsUpstreamUnavailable(err error) bool {
	f, ok := AsFailure(err)
	return ok && f.Kind == KindUpstreamUnavailable
}

// IsInternal reports whether err is or wraps an Internal failure.
func IsInternal(err error) bool {
	f, ok := AsFailure(err)
	return ok && f.Kind == KindInternal
}
