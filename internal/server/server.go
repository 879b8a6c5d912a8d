package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	httpSwagger "github.com/swaggo/http-swagger/v2"

	"github.com/miguel-octavio-aguila/secdevops-challenge-1/internal/logging"
	"github.com/miguel-octavio-aguila/secdevops-challenge-1/internal/metrics"
	"github.com/miguel-octavio-aguila/secdevops-challenge-1/internal/scanner"

	_ "github.com/miguel-octavio-aguila/secdevops-challenge-1/internal/server/docs" // swagger spec
)

const (
	healthMessage = "Welcome to the File Malware Scanner API"

	// multipartMemory is how much of a multipart body is kept in memory
	// before parts spill to temporary files.
	multipartMemory = 32 << 20

	unexpectedErrorPrefix = "An unexpected error occurred: "
)

// ScanSubmitter is the outbound half of a scan. *scanner.Submitter
// implements it.
type ScanSubmitter interface {
	Submit(ctx context.Context, req *scanner.ScanRequest) (*scanner.ScanResult, error)
}

// Server is the HTTP surface of the scan façade.
type Server struct {
	cfg       Config
	submitter ScanSubmitter
	router    chi.Router
	logger    logging.Logger
	metrics   *metrics.Metrics
}

// NewServer wires the routes around cfg.Submitter.
func NewServer(cfg Config) (*Server, error) {
	if cfg.Submitter == nil {
		return nil, errors.New("server: submitter is required")
	}

	var logger logging.Logger
	if cfg.Logger != nil {
		logger = cfg.Logger.With(logging.F("component", "server"))
	} else {
		logger = logging.NewStdoutLogger("server")
	}
	m := cfg.Metrics
	if m == nil {
		m = metrics.New()
	}

	s := &Server{
		cfg:       cfg,
		submitter: cfg.Submitter,
		router:    chi.NewRouter(),
		logger:    logger,
		metrics:   m,
	}

	s.routes()
	return s, nil
}

func (s *Server) routes() {
	r := s.router

	r.Use(middleware.RealIP)
	r.Use(s.requestIDMiddleware)
	r.Use(s.observeMiddleware)
	r.Use(s.recoverMiddleware)
	r.Use(s.corsMiddleware)

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, "Not Found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, "Method Not Allowed")
	})

	// CORS preflight
	r.Options("/scan", s.optionsHandler("POST"))

	r.Get("/", s.handleRoot)
	r.Post("/scan", s.handleScan)

	r.Method(http.MethodGet, "/metrics", s.metrics.Handler())
	r.Get("/swagger/*", httpSwagger.Handler(httpSwagger.URL("/swagger/doc.json")))
}

func (s *Server) corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, X-Request-ID")
		w.Header().Set("Access-Control-Max-Age", "86400")

		next.ServeHTTP(w, r)
	})
}

func (s *Server) optionsHandler(methods string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Methods", methods)
		w.WriteHeader(http.StatusNoContent)
	}
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// HTTPServer creates an *http.Server ready to ListenAndServe. There is no
// write timeout: a slow provider answer must still reach the caller.
func (s *Server) HTTPServer() *http.Server {
	return &http.Server{
		Addr:              s.cfg.ListenAddr,
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       5 * time.Minute,
		IdleTimeout:       2 * time.Minute,
	}
}

// --- JSON helpers ---

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil {
		_ = json.NewEncoder(w).Encode(v)
	}
}

func writeError(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, ErrorResponse{Detail: detail})
}

// --- HTTP handlers ---

// handleRoot godoc
// @Summary Health check
// @Description Liveness probe; always returns ok.
// @Tags health
// @Produce json
// @Success 200 {object} HealthResponse
// @Router / [get]
func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{Status: "ok", Message: healthMessage})
}

// handleScan godoc
// @Summary Submit a file for scanning
// @Description Accepts a file upload and submits it to VirusTotal for scanning.
// @Tags scan
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "The file to be scanned"
// @Success 200 {object} scanner.ScanResult
// @Failure 400 {object} ErrorResponse "Bad Request or VirusTotal API Error"
// @Failure 413 {object} ErrorResponse "Upload exceeds the configured limit"
// @Failure 500 {object} ErrorResponse "Internal Server Error"
// @Failure 503 {object} ErrorResponse "Service Unavailable - VirusTotal API is down"
// @Router /scan [post]
func (s *Server) handleScan(w http.ResponseWriter, r *http.Request) {
	logger := s.requestLogger(r)

	req, status, detail := s.readUpload(w, r)
	if req == nil {
		logger.Warn("rejecting upload", logging.F("status", status), logging.F("detail", detail))
		writeError(w, status, detail)
		return
	}

	start := time.Now()
	result, err := s.submitter.Submit(r.Context(), req)
	elapsed := time.Since(start)

	if err != nil {
		status, detail, outcome := classify(err)
		s.metrics.ObserveScan(outcome, len(req.Data), elapsed)
		logger.Warn("scan submission failed",
			logging.F("filename", req.Filename),
			logging.F("outcome", outcome),
			logging.F("status", status),
			logging.Err(err))
		writeError(w, status, detail)
		return
	}

	s.metrics.ObserveScan(metrics.OutcomeSuccess, len(req.Data), elapsed)
	logger.Info("scan submitted",
		logging.F("filename", req.Filename),
		logging.F("scan_id", result.ScanID),
		logging.F("elapsed", elapsed))
	writeJSON(w, http.StatusOK, result)
}

// readUpload parses the multipart body into a ScanRequest. On failure it
// returns a nil request with the status and detail to send.
func (s *Server) readUpload(w http.ResponseWriter, r *http.Request) (*scanner.ScanRequest, int, string) {
	if s.cfg.MaxUploadBytes > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes)
	}

	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return nil, http.StatusRequestEntityTooLarge,
				fmt.Sprintf("file exceeds the maximum upload size of %d bytes", tooLarge.Limit)
		}
		return nil, http.StatusBadRequest, "invalid multipart form: " + err.Error()
	}
	defer func() { _ = r.MultipartForm.RemoveAll() }()

	headers := r.MultipartForm.File["file"]
	switch len(headers) {
	case 0:
		return nil, http.StatusBadRequest, "file is required"
	case 1:
	default:
		return nil, http.StatusBadRequest, "exactly one file is required"
	}
	header := headers[0]

	f, err := header.Open()
	if err != nil {
		return nil, http.StatusInternalServerError, unexpectedErrorPrefix + err.Error()
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, http.StatusInternalServerError, unexpectedErrorPrefix + err.Error()
	}

	return &scanner.ScanRequest{
		Filename:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Data:        data,
	}, 0, ""
}

// classify maps a submission error to a status, a caller-facing detail and a
// metrics outcome label. Errors that are not *scanner.ScanFailure are
// treated as internal.
func classify(err error) (int, string, string) {
	f, ok := scanner.AsFailure(err)
	if !ok {
		return http.StatusInternalServerError, unexpectedErrorPrefix + err.Error(), "unclassified"
	}

	switch f.Kind {
	case scanner.KindInvalidResponse:
		return http.StatusBadRequest, f.Detail, string(f.Kind)
	case scanner.KindUpstreamUnavailable:
		return http.StatusServiceUnavailable, f.Detail, string(f.Kind)
	case scanner.KindInternal:
		return http.StatusInternalServerError, f.Detail, string(f.Kind)
	default:
		return http.StatusInternalServerError, unexpectedErrorPrefix + f.Detail, "unclassified"
	}
}
