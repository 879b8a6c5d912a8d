package app

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"golang.org/x/net/netutil"

	"github.com/miguel-octavio-aguila/secdevops-challenge-1/internal/config"
	"github.com/miguel-octavio-aguila/secdevops-challenge-1/internal/logging"
)

// shutdownTimeout bounds how long in-flight scans may take to finish once
// shutdown starts.
const shutdownTimeout = 15 * time.Second

// Application is the runtime state of a serving gateway. It holds the
// resolved config, the logger and the components built from them.
type Application struct {
	Config     *config.Config
	Logger     logging.Logger
	Components *Components

	httpServer *http.Server
}

// NewApplication validates cfg and builds every component. A missing API key
// fails here, before anything listens.
func NewApplication(cfg *config.Config, logger logging.Logger) (*Application, error) {
	if cfg == nil {
		return nil, errors.New("application config is nil")
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	if logger == nil {
		logger = logging.NopLogger{}
	}

	comps, err := NewComponents(cfg, logger)
	if err != nil {
		return nil, err
	}

	return &Application{
		Config:     cfg,
		Logger:     logger.With(logging.F("component", "app")),
		Components: comps,
		httpServer: comps.Server.HTTPServer(),
	}, nil
}

// Listen opens the gateway listener, capped at MaxConnections concurrent
// connections when that is set.
func (a *Application) Listen() (net.Listener, error) {
	ln, err := net.Listen("tcp", a.Config.ListenAddr)
	if err != nil {
		return nil, fmt.Errorf("listen %s: %w", a.Config.ListenAddr, err)
	}
	if n := a.Config.MaxConnections; n > 0 {
		ln = netutil.LimitListener(ln, n)
	}
	return ln, nil
}

// Serve runs the gateway on ln until ctx is cancelled, then shuts down
// gracefully. It returns nil after a clean shutdown.
func (a *Application) Serve(ctx context.Context, ln net.Listener) error {
	if a == nil {
		return errors.New("application is nil")
	}

	a.Logger.Info("gateway listening",
		logging.F("addr", ln.Addr().String()),
		logging.F("scan_url", a.Config.ScanURL),
		logging.F("ipv4_only", a.Config.IPv4Only),
		logging.F("max_connections", a.Config.MaxConnections))

	errCh := make(chan error, 1)
	go func() {
		errCh <- a.httpServer.Serve(ln)
	}()

	select {
	case err := <-errCh:
		_ = a.Components.Close()
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serve: %w", err)
	case <-ctx.Done():
	}

	return a.Shutdown(context.Background())
}

// Run listens on the configured address and serves until ctx is cancelled.
func (a *Application) Run(ctx context.Context) error {
	ln, err := a.Listen()
	if err != nil {
		return err
	}
	return a.Serve(ctx, ln)
}

// Shutdown stops accepting connections and waits for in-flight requests,
// bounded by shutdownTimeout.
func (a *Application) Shutdown(ctx context.Context) error {
	if a == nil {
		return errors.New("application is nil")
	}
	a.Logger.Info("gateway shutdown initiated")

	shutdownCtx, cancel := context.WithTimeout(ctx, shutdownTimeout)
	defer cancel()

	err := a.httpServer.Shutdown(shutdownCtx)
	if cerr := a.Components.Close(); cerr != nil {
		a.Logger.Warn("closing components failed", logging.Err(cerr))
	}
	if err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	a.Logger.Info("gateway stopped")
	return nil
}
