package app

import (
	"fmt"

	"github.com/miguel-octavio-aguila/secdevops-challenge-1/internal/config"
	"github.com/miguel-octavio-aguila/secdevops-challenge-1/internal/logging"
	"github.com/miguel-octavio-aguila/secdevops-challenge-1/internal/metrics"
	"github.com/miguel-octavio-aguila/secdevops-challenge-1/internal/scanner"
	"github.com/miguel-octavio-aguila/secdevops-challenge-1/internal/server"
	"github.com/miguel-octavio-aguila/secdevops-challenge-1/internal/webclient"
)

// Components are the long-lived parts of a running gateway.
type Components struct {
	WebClient *webclient.NetHTTPClient
	Submitter *scanner.Submitter
	Metrics   *metrics.Metrics
	Server    *server.Server
}

// NewComponents builds the outbound client, the submitter and the gateway
// from a validated cfg.
func NewComponents(cfg *config.Config, logger logging.Logger) (*Components, error) {
	if cfg == nil {
		return nil, fmt.Errorf("new components: config is nil")
	}
	if logger == nil {
		logger = logging.NopLogger{}
	}

	wc, err := webclient.NewNetHTTPClient(webclient.Config{
		IPv4Only: cfg.IPv4Only,
		Timeout:  cfg.UpstreamTimeout,
	}, logger, nil)
	if err != nil {
		return nil, fmt.Errorf("new webclient: %w", err)
	}

	sub, err := scanner.NewSubmitter(scanner.Config{
		APIKey:     cfg.APIKey,
		ScanURL:    cfg.ScanURL,
		GUIBaseURL: cfg.GUIBaseURL,
	}, wc, logger)
	if err != nil {
		_ = wc.Close()
		return nil, fmt.Errorf("new submitter: %w", err)
	}

	m := metrics.New()
	srv, err := server.NewServer(server.Config{
		ListenAddr:     cfg.ListenAddr,
		MaxUploadBytes: cfg.MaxUploadBytes,
		Submitter:      sub,
		Logger:         logger,
		Metrics:        m,
	})
	if err != nil {
		_ = wc.Close()
		return nil, fmt.Errorf("new server: %w", err)
	}

	return &Components{
		WebClient: wc,
		Submitter: sub,
		Metrics:   m,
		Server:    srv,
	}, nil
}

// Close releases idle outbound connections.
func (c *Components) Close() error {
	if err := c.WebClient.Close(); err != nil {
		return fmt.Errorf("close webclient: %w", err)
	}
	return nil
}
