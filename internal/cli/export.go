package cli

import (
	"bytes"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ericfisherdev/govscan/internal/application"
)

func newExportCmd() *cobra.Command {
	var (
		flags  pipelineFlags
		output string
	)

	cmd := &cobra.Command{
		Use:     "export",
		Short:   "Write the filtered table as CSV",
		Example: `  govscanctl export --org GSA -o gsa.csv`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			res, err := flags.run(cmd)
			if err != nil {
				return err
			}

			var buf bytes.Buffer
			if err := application.WriteCSV(&buf, res.rows, application.ExportColumns(res.classified)); err != nil {
				return err
			}

			if output == "-" {
				_, err := cmd.OutOrStdout().Write(buf.Bytes())
				return err
			}
			if err := os.WriteFile(output, buf.Bytes(), 0o644); err != nil {
				return fmt.Errorf("writing %s: %w", output, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %d rows to %s\n", len(res.rows), output)
			return nil
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVarP(&output, "output", "o", application.DefaultExportFilename, `output file, "-" for stdout`)

	return cmd
}
