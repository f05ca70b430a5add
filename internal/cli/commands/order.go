package commands

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/fortranmap/internal/cli/output"
)

// NewOrderCommand creates the order command.
func NewOrderCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "order",
		Short: "Show the recommended translation order",
		Long: `Print the dependency-ordered list of modules: dependencies first, ties
broken alphabetically. When the dependency graph contains cycles the order
is a best-effort linearization and the broken cycles are listed.`,
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
					"translation_order": report.TranslationOrder,
					"is_dag":            report.IsDAG,
					"circular":          report.Dependencies.Circular,
				})
			}

			r.Header(1, "Translation Order")
			for i, name := range report.TranslationOrder {
				r.Printf("%3d. %s\n", i+1, name)
			}
			if !report.IsDAG {
				r.Println("")
				r.Warnf("dependency graph is cyclic; order required breaking %d cycle(s):",
					len(report.Dependencies.Circular))
				for _, cycle := range report.Dependencies.Circular {
					r.Warnf("  %s", strings.Join(cycle, " -> "))
				}
			}
			return nil
		},
	}
	return cmd
}
