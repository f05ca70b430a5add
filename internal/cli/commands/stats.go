package commands

import (
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/leapstack-labs/fortranmap/internal/cli/output"
)

// NewStatsCommand creates the stats command.
func NewStatsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show project statistics",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmdCtx, err := NewCommandContext(cmd)
			if err != nil {
				return err
			}

			report, err := runAnalysis(cmd, cmdCtx)
			if err != nil {
				return err
			}

			r := cmdCtx.Renderer
			if r.EffectiveMode() == output.ModeJSON {
				return r.JSON(map[string]any{
					"statistics":      report.Statistics,
					"unit_statistics": report.UnitStats,
					"recommendations": report.Recommendations,
				})
			}

			s := report.Statistics
			t := table.NewWriter()
			t.SetOutputMirror(cmd.OutOrStdout())
			t.AppendRows([]table.Row{
				{"Files", s.TotalFiles},
				{"Failed files", s.FailedFiles},
				{"Lines", s.TotalLines},
				{"Modules", s.TotalModules},
				{"Subroutines", s.TotalSubroutines},
				{"Functions", s.TotalFunctions},
				{"Derived types", s.TotalTypes},
				{"Translation units", report.UnitStats.TotalUnits},
				{"Cycles", len(report.Dependencies.Circular)},
				{"External deps", len(report.Dependencies.External)},
			})
			if r.EffectiveMode() == output.ModeMarkdown {
				t.RenderMarkdown()
			} else {
				t.Render()
			}

			if len(report.Recommendations) > 0 {
				r.Println("")
				r.Header(2, "Recommendations")
				for _, rec := range report.Recommendations {
					r.Printf("  - %s\n", rec)
				}
			}

			return nil
		},
	}
	return cmd
}
