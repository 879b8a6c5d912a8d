package scanner

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/miguel-octavio-aguila/secdevops-challenge-1/internal/logging"
	"github.com/miguel-octavio-aguila/secdevops-challenge-1/internal/webclient"
)

// Config holds what the Submitter needs to talk to the provider.
type Config struct {
	APIKey     string
	ScanURL    string
	GUIBaseURL string
}

// Submitter sends files to the provider. It holds no per-request state and is
// safe for concurrent use.
type Submitter struct {
	cfg    Config
	client webclient.WebClient
	logger logging.Logger
}

// NewSubmitter validates cfg and returns a Submitter using client for the
// outbound call.
func NewSubmitter(cfg Config, client webclient.WebClient, logger logging.Logger) (*Submitter, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, errors.New("api key is required")
	}
	if client == nil {
		return nil, errors.New("web client is required")
	}
	if _, err := url.ParseRequestURI(cfg.ScanURL); err != nil {
		return nil, fmt.Errorf("invalid scan url: %w", err)
	}
	if _, err := url.ParseRequestURI(cfg.GUIBaseURL); err != nil {
		return nil, fmt.Errorf("invalid gui base url: %w", err)
	}
	cfg.GUIBaseURL = strings.TrimRight(cfg.GUIBaseURL, "/")

	if logger == nil {
		logger = logging.NopLogger{}
	}

	return &Submitter{
		cfg:    cfg,
		client: client,
		logger: logger.With(logging.F("component", "scanner")),
	}, nil
}

// Submit uploads req to the provider. The returned error, when non-nil, is
// always a *ScanFailure.
func (s *Submitter) Submit(ctx context.Context, req *ScanRequest) (result *ScanResult, err error) {
	defer func() {
		if r := recover(); r != nil {
			result = nil
			err = NewInternal(fmt.Errorf("panic: %v", r))
			s.logger.Error("scan submission panicked", logging.F("panic", fmt.Sprint(r)))
		}
	}()

	if req == nil {
		return nil, NewInternal(errors.New("nil scan request"))
	}

	start := time.Now()
	log := s.logger.With(logging.F("filename", req.Filename))

	body, contentType, err := buildForm(s.cfg.APIKey, req)
	if err != nil {
		log.Error("building scan form", logging.Err(err))
		return nil, NewInternal(err)
	}

	headers := http.Header{}
	headers.Set("Content-Type", contentType)
	headers.Set("Accept", "application/json")

	log.Info("submitting file for scan", logging.F("size", len(req.Data)))

	resp, err := s.client.Do(ctx, &webclient.Request{
		Method:  http.MethodPost,
		URL:     s.cfg.ScanURL,
		Headers: headers,
		Body:    body,
	})
	if err != nil {
		if webclient.IsTransportError(err) {
			log.Warn("provider unreachable", logging.Err(err), logging.F("elapsed", time.Since(start)))
			return nil, NewUpstreamUnavailable(err)
		}
		log.Error("sending scan request", logging.Err(err))
		return nil, NewInternal(err)
	}

	if !resp.IsSuccess() {
		statusErr := fmt.Errorf("unexpected status %d %s", resp.StatusCode, http.StatusText(resp.StatusCode))
		log.Warn("provider returned error status", logging.F("status", resp.StatusCode))
		return nil, NewUpstreamUnavailable(statusErr)
	}

	res, failure := s.interpret(resp.Body)
	if failure != nil {
		log.Warn("provider rejected scan",
			logging.F("kind", string(failure.Kind)),
			logging.F("detail", failure.Detail),
			logging.F("content_type", resp.Headers.Get("Content-Type")),
			logging.Err(failure.Cause))
		return nil, failure
	}

	log.Info("scan queued",
		logging.F("scan_id", res.ScanID),
		logging.F("resource", res.Resource),
		logging.F("elapsed", time.Since(start)))
	return res, nil
}

// interpret decodes the provider body into a ScanResult. A body that is not
// JSON at all is an Internal failure; JSON of the wrong shape or with a
// response_code other than 1 is an InvalidResponse.
func (s *Submitter) interpret(body []byte) (*ScanResult, *ScanFailure) {
	var pr providerResponse
	if err := json.Unmarshal(body, &pr); err != nil {
		err = fmt.Errorf("decoding provider response: %w", err)
		var syntaxErr *json.SyntaxError
		if errors.As(err, &syntaxErr) {
			return nil, NewInternal(err)
		}
		return nil, NewInvalidResponse(looseVerboseMsg(body), err)
	}

	if pr.ResponseCode == nil {
		return nil, NewInvalidResponse(pr.VerboseMsg, errors.New("provider response has no response_code"))
	}
	if *pr.ResponseCode != responseCodeAccepted {
		return nil, NewInvalidResponse(pr.VerboseMsg, fmt.Errorf("provider response_code %v", *pr.ResponseCode))
	}

	res := &ScanResult{
		ScanID:       pr.ScanID,
		Resource:     pr.Resource,
		ResponseCode: responseCodeAccepted,
		VerboseMsg:   pr.VerboseMsg,
	}
	if pr.Resource != "" {
		res.Permalink = s.Permalink(pr.Resource)
	}
	return res, nil
}

// Permalink returns the human-viewable report URL for resource. The resource
// is escaped as a single path segment.
func (s *Submitter) Permalink(resource string) string {
	return s.cfg.GUIBaseURL + "/file/" + url.PathEscape(resource)
}

// looseVerboseMsg salvages verbose_msg from a body that did not match the
// expected shape.
func looseVerboseMsg(body []byte) string {
	var loose struct {
		VerboseMsg any `json:"verbose_msg"`
	}
	if err := json.Unmarshal(body, &loose); err != nil {
		return ""
	}
	if msg, ok := loose.VerboseMsg.(string); ok {
		return msg
	}
	return ""
}
