package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// NewAnalyzeCommand creates the analyze command.
func NewAnalyzeCommand() *cobra.Command {
	var outPath string

	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Analyze the project and emit the full JSON report",
		Long: `Run the complete analysis pipeline: extract modules, procedures, types and
use-relations from every Fortran source file, build the module dependency
graph, and decompose modules into translation units.

The report is always JSON; use --out to write it to a file instead of stdout.`,
		Example: `  # Analyze the current project
  fortranmap analyze

  # Write the report to a file
  fortranmap analyze --out analysis.json`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmdCtx, err := NewCommandContext(cmd)
			if err != nil {
				return err
			}

			report, err := runAnalysis(cmd, cmdCtx)
			if err != nil {
				return err
			}

			data, err := report.JSON()
			if err != nil {
				return fmt.Errorf("encoding report: %w", err)
			}
			data = append(data, '\n')

			if outPath != "" {
				if err := os.WriteFile(outPath, data, 0o644); err != nil {
					return fmt.Errorf("writing report: %w", err)
				}
				cmdCtx.Renderer.Printf("Report written to %s\n", outPath)
				return nil
			}

			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	}

	cmd.Flags().StringVar(&outPath, "out", "", "write the JSON report to this file")
	return cmd
}
