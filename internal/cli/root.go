// Package cli implements the govscanctl command-line interface.
//
// govscanctl runs the repository pipeline once, outside the server, and either
// prints the filtered table or writes it as CSV. Logging goes to stderr through
// charmbracelet/log installed as the slog handler; --verbose enables debug
// output.
package cli

import (
	"context"
	"io"
	"log/slog"
	"os"

	charmlog "github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/ericfisherdev/govscan/internal/config"
)

var version = "dev"

// SetVersion sets the version reported by --version.
func SetVersion(v string) {
	version = v
}

// Execute runs govscanctl with the process arguments.
func Execute() error {
	return NewRootCmd(os.Stdout, os.Stderr).ExecuteContext(context.Background())
}

// NewRootCmd builds the command tree writing results to out and logs to errOut.
func NewRootCmd(out, errOut io.Writer) *cobra.Command {
	var (
		verbose bool
		envFile string
	)

	root := &cobra.Command{
		Use:          "govscanctl",
		Short:        "Scan government GitHub organizations from the command line",
		Version:      version,
		SilenceUsage: true,
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			level := charmlog.InfoLevel
			if verbose {
				level = charmlog.DebugLevel
			}
			slog.SetDefault(slog.New(newLogger(errOut, level)))

			return config.LoadDotEnv(envFile)
		},
	}

	root.SetOut(out)
	root.SetErr(errOut)
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	root.PersistentFlags().StringVar(&envFile, "env-file", ".env", "dotenv file to load if present")

	root.AddCommand(newScanCmd())
	root.AddCommand(newExportCmd())

	return root
}

// newLogger creates a stderr logger with short timestamps.
func newLogger(w io.Writer, level charmlog.Level) *charmlog.Logger {
	return charmlog.NewWithOptions(w, charmlog.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}
