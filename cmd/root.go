package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// Version is set at build time with -ldflags "-X .../cmd.Version=...".
var Version = "dev"

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:     "vtscan",
		Short:   "File malware scanner API backed by VirusTotal",
		Version: Version,
		Long: `vtscan accepts file uploads over HTTP, submits them to the VirusTotal
v2 file scan API and returns a normalized result with a link to the
report.`,
		Example: `  VIRUSTOTAL_API_KEY=... vtscan serve
  vtscan serve --config vtscan.yaml --listen :8080
  vtscan mock-provider --listen 127.0.0.1:9999
  VIRUSTOTAL_SCAN_URL=http://127.0.0.1:9999/vtapi/v2/file/scan vtscan serve`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(newServeCmd())
	root.AddCommand(newMockProviderCmd())
	root.AddCommand(newVersionCmd())
	return root
}

// Execute runs the root command.
func Execute() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
