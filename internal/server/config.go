package server

import (
	"github.com/miguel-octavio-aguila/secdevops-challenge-1/internal/logging"
	"github.com/miguel-octavio-aguila/secdevops-challenge-1/internal/metrics"
)

type Config struct {
	// ListenAddr is the HTTP listen address used by HTTPServer.
	ListenAddr string

	// MaxUploadBytes caps request bodies on /scan. Zero disables the cap.
	MaxUploadBytes int64

	// Submitter performs the outbound scan call. Required.
	Submitter ScanSubmitter

	// Logger defaults to a stdout JSON logger.
	Logger logging.Logger

	// Metrics defaults to a fresh registry.
	Metrics *metrics.Metrics
}
