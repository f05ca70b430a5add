package commands

import (
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/fortranmap/internal/cli/output"
)

// NewDAGCommand creates the dag command.
func NewDAGCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dag",
		Short: "Show the module dependency graph",
		Long: `Display internal module dependencies, external (undefined) dependencies,
detected cycles, hub modules, and orphan modules.`,
		Example: `  # Show the dependency graph
  fortranmap dag

  # As JSON for tooling
  fortranmap dag --output json`,
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
					"dependencies": report.Dependencies,
					"hubs":         report.Hubs,
					"orphans":      report.Orphans,
					"is_dag":       report.IsDAG,
				})
			}

			styles := r.Styles()

			r.Header(1, "Dependency Graph")
			for _, name := range sortedKeys(report.Dependencies.Internal) {
				r.Printf("  %s\n", styles.Module.Render(name))
				r.Printf("    %s %s\n", styles.Muted.Render("uses:"),
					strings.Join(report.Dependencies.Internal[name], ", "))
			}

			if len(report.Dependencies.External) > 0 {
				r.Println("")
				r.Header(2, "External dependencies")
				for _, name := range report.Dependencies.External {
					r.Printf("  %s\n", name)
				}
			}

			if len(report.Dependencies.Circular) > 0 {
				r.Println("")
				r.Header(2, "Cycles")
				for _, cycle := range report.Dependencies.Circular {
					r.Printf("  %s\n", strings.Join(cycle, " -> "))
				}
			}

			if len(report.Hubs) > 0 {
				r.Println("")
				r.Header(2, "Hubs")
				r.Printf("  %s\n", strings.Join(report.Hubs, ", "))
			}

			if len(report.Orphans) > 0 {
				r.Println("")
				r.Header(2, "Orphans")
				r.Printf("  %s\n", strings.Join(report.Orphans, ", "))
			}

			return nil
		},
	}
	return cmd
}

func sortedKeys(m map[string][]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
