// Package mockprovider is a stand-in for the VirusTotal v2 file scan endpoint.
// It is used by tests and by `vtscan mock-provider` for local runs.
package mockprovider

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/miguel-octavio-aguila/secdevops-challenge-1/internal/logging"
)

// Submission records one request received by the mock.
type Submission struct {
	APIKey      string    `json:"apikey"`
	Filename    string    `json:"filename"`
	ContentType string    `json:"content_type"`
	Size        int       `json:"size"`
	SHA256      string    `json:"sha256"`
	ReceivedAt  time.Time `json:"received_at"`
}

// Provider is a fake scan endpoint with switchable behavior.
type Provider struct {
	cfg    Config
	logger logging.Logger

	mu          sync.RWMutex
	behavior    Behavior
	submissions []Submission
}

// New creates a Provider.
func New(cfg Config, logger logging.Logger) *Provider {
	if logger == nil {
		logger = logging.NopLogger{}
	}
	return &Provider{
		cfg:      cfg,
		logger:   logger.With(logging.F("component", "mockprovider")),
		behavior: cfg.Behavior,
	}
}

// Handler returns the mock's routes.
func (p *Provider) Handler() http.Handler {
	r := chi.NewRouter()
	r.Post(ScanPath, p.handleScan)
	r.Get("/mock/behavior", p.handleGetBehavior)
	r.Put("/mock/behavior", p.handleSetBehavior)
	r.Get("/mock/submissions", p.handleListSubmissions)
	r.Delete("/mock/submissions", p.handleResetSubmissions)
	return r
}

// Start listens on cfg.Addr until the server fails.
func (p *Provider) Start() error {
	p.logger.Info("mock provider listening",
		logging.F("addr", p.cfg.Addr),
		logging.F("scan_path", ScanPath))
	srv := &http.Server{
		Addr:              p.cfg.Addr,
		Handler:           p.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	return srv.ListenAndServe()
}

// SetBehavior replaces the answer given to later submissions.
func (p *Provider) SetBehavior(b Behavior) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.behavior = b
}

// Submissions returns a copy of everything received so far.
func (p *Provider) Submissions() []Submission {
	p.mu.RLock()
	defer p.mu.RUnlock()
	out := make([]Submission, len(p.submissions))
	copy(out, p.submissions)
	return out
}

func (p *Provider) handleScan(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"response_code": 0, "verbose_msg": "invalid multipart form"})
		return
	}
	defer func() {
		if r.MultipartForm != nil {
			_ = r.MultipartForm.RemoveAll()
		}
	}()

	apiKey := r.FormValue("apikey")
	if apiKey == "" {
		// the real API answers 403 with an empty body
		w.WriteHeader(http.StatusForbidden)
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"response_code": 0, "verbose_msg": "file is required"})
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	sum := sha256.Sum256(data)
	hash := hex.EncodeToString(sum[:])
	now := time.Now()

	p.mu.Lock()
	p.submissions = append(p.submissions, Submission{
		APIKey:      apiKey,
		Filename:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Size:        len(data),
		SHA256:      hash,
		ReceivedAt:  now,
	})
	b := p.behavior
	p.mu.Unlock()

	p.logger.Debug("received scan submission",
		logging.F("filename", header.Filename),
		logging.F("size", len(data)))

	status := b.StatusCode
	if status == 0 {
		status = http.StatusOK
	}

	if b.RawBody != "" {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = io.WriteString(w, b.RawBody)
		return
	}

	body := map[string]any{
		"response_code": b.ResponseCode,
		"verbose_msg":   b.VerboseMsg,
	}
	if b.ResponseCode == 1 {
		ts := now.Unix()
		body["resource"] = hash
		body["sha256"] = hash
		body["scan_id"] = fmt.Sprintf("%s-%d", hash, ts)
		// v2 permalinks point at a legacy page, not the GUI report
		body["permalink"] = fmt.Sprintf("https://www.virustotal.com/file/%s/analysis/%d/", hash, ts)
	}
	writeJSON(w, status, body)
}

func (p *Provider) handleGetBehavior(w http.ResponseWriter, r *http.Request) {
	p.mu.RLock()
	b := p.behavior
	p.mu.RUnlock()
	writeJSON(w, http.StatusOK, b)
}

func (p *Provider) handleSetBehavior(w http.ResponseWriter, r *http.Request) {
	var b Behavior
	if err := json.NewDecoder(r.Body).Decode(&b); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON"})
		return
	}
	p.SetBehavior(b)
	p.logger.Info("behavior updated",
		logging.F("status_code", b.StatusCode),
		logging.F("response_code", b.ResponseCode))
	writeJSON(w, http.StatusOK, b)
}

func (p *Provider) handleListSubmissions(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, p.Submissions())
}

func (p *Provider) handleResetSubmissions(w http.ResponseWriter, r *http.Request) {
	p.mu.Lock()
	p.submissions = nil
	p.mu.Unlock()
	w.WriteHeader(http.StatusNoContent)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
