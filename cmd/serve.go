package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/miguel-octavio-aguila/secdevops-challenge-1/internal/app"
	"github.com/miguel-octavio-aguila/secdevops-challenge-1/internal/config"
	"github.com/miguel-octavio-aguila/secdevops-challenge-1/internal/logging"
)

type serveOptions struct {
	configFile string
	envFile    string
	listen     string
	ipv4Only   bool
}

func newServeCmd() *cobra.Command {
	var opts serveOptions

	c := &cobra.Command{
		Use:   "serve",
		Short: "Run the scan gateway",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := resolveServeConfig(cmd, &opts, os.LookupEnv)
			if err != nil {
				return err
			}

			logger, err := logging.NewZerologLogger(logging.Options{
				Level:  cfg.LogLevel,
				Format: logging.Format(cfg.LogFormat),
				Output: cmd.OutOrStdout(),
			})
			if err != nil {
				return fmt.Errorf("building logger: %w", err)
			}

			a, err := app.NewApplication(cfg, logger)
			if err != nil {
				return err
			}

			ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer cancel()
			return a.Run(ctx)
		},
	}

	f := c.Flags()
	f.StringVarP(&opts.configFile, "config", "c", "", "YAML config file")
	f.StringVar(&opts.envFile, "env-file", ".env", "dotenv file with the API key (ignored when missing)")
	f.StringVarP(&opts.listen, "listen", "l", config.DefaultListenAddr, "HTTP listen address")
	f.BoolVar(&opts.ipv4Only, "ipv4-only", true, "Dial the provider over IPv4 only")
	return c
}

// resolveServeConfig loads the layered config and applies the flags the user
// actually set on top of it.
func resolveServeConfig(cmd *cobra.Command, opts *serveOptions, lookup func(string) (string, bool)) (*config.Config, error) {
	cfg, err := config.Load(config.LoadOptions{
		ConfigFile: opts.configFile,
		EnvFile:    opts.envFile,
		LookupEnv:  lookup,
	})
	if err != nil {
		return nil, err
	}

	if cmd.Flags().Changed("listen") {
		cfg.ListenAddr = opts.listen
	}
	if cmd.Flags().Changed("ipv4-only") {
		cfg.IPv4Only = opts.ipv4Only
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
