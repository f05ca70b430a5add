package commands

import (
	"fmt"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/leapstack-labs/fortranmap/internal/cli/output"
)

// NewUnitsCommand creates the units command.
func NewUnitsCommand() *cobra.Command {
	var effortFilter string

	cmd := &cobra.Command{
		Use:   "units",
		Short: "Show translation units with effort triage",
		Long: `Display the translation units cut from each module in translation order,
with line counts and Low/Medium/High effort labels. Oversized units hold a
single entity that alone exceeds the configured line budget.`,
		Example: `  # All units
  fortranmap units

  # Only the hard ones
  fortranmap units --effort high`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmdCtx, err := NewCommandContext(cmd)
			if err != nil {
				return err
			}

			report, err := runAnalysis(cmd, cmdCtx)
			if err != nil {
				return err
			}

			units := report.Units
			if effortFilter != "" {
				filtered := units[:0:0]
				for _, u := range units {
					if string(u.Effort) == strings.ToLower(effortFilter) {
						filtered = append(filtered, u)
					}
				}
				units = filtered
			}

			r := cmdCtx.Renderer
			if r.EffectiveMode() == output.ModeJSON {
				return r.JSON(map[string]any{
					"units":           units,
					"unit_statistics": report.UnitStats,
				})
			}

			t := table.NewWriter()
			t.SetOutputMirror(cmd.OutOrStdout())
			t.AppendHeader(table.Row{"#", "Module", "Entities", "Lines", "Effort", "Oversized"})
			for i, u := range units {
				oversized := ""
				if u.Oversized {
					oversized = "yes"
				}
				t.AppendRow(table.Row{
					i + 1, u.Module, strings.Join(u.Entities, ", "), u.LineCount, u.Effort, oversized,
				})
			}
			if r.EffectiveMode() == output.ModeMarkdown {
				t.RenderMarkdown()
			} else {
				t.Render()
			}

			s := report.UnitStats
			r.Println(fmt.Sprintf("Total: %d units (%d low, %d medium, %d high), avg %.1f lines",
				s.TotalUnits, s.UnitsByEffort["low"], s.UnitsByEffort["medium"],
				s.UnitsByEffort["high"], s.AverageLines))

			return nil
		},
	}

	cmd.Flags().StringVar(&effortFilter, "effort", "", "only show units with this effort (low|medium|high)")
	return cmd
}
