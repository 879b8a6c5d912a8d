package cmd

import (
	"github.com/spf13/cobra"

	"github.com/miguel-octavio-aguila/secdevops-challenge-1/internal/logging"
	"github.com/miguel-octavio-aguila/secdevops-challenge-1/internal/mockprovider"
)

func newMockProviderCmd() *cobra.Command {
	cfg := mockprovider.DefaultConfig()

	c := &cobra.Command{
		Use:   "mock-provider",
		Short: "Run a fake VirusTotal v2 scan endpoint for local testing",
		Long: `mock-provider serves POST ` + mockprovider.ScanPath + ` and answers every
submission with the configured response. GET/PUT /mock/behavior changes the
answer at runtime; GET/DELETE /mock/submissions inspects what was received.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger, err := logging.NewZerologLogger(logging.Options{
				Level:  "debug",
				Format: logging.FormatConsole,
				Output: cmd.OutOrStdout(),
			})
			if err != nil {
				return err
			}
			return mockprovider.New(cfg, logger).Start()
		},
	}

	f := c.Flags()
	f.StringVarP(&cfg.Addr, "listen", "l", cfg.Addr, "Listen address")
	f.IntVar(&cfg.Behavior.StatusCode, "status-code", cfg.Behavior.StatusCode, "HTTP status of every answer")
	f.IntVar(&cfg.Behavior.ResponseCode, "response-code", cfg.Behavior.ResponseCode, "Provider response_code (1 = queued)")
	f.StringVar(&cfg.Behavior.VerboseMsg, "verbose-msg", cfg.Behavior.VerboseMsg, "Provider verbose_msg")
	return c
}
