package commands

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/leapstack-labs/fortranmap/internal/cli/config"
)

// starterConfig is the shape written by `fortranmap init`. Field order here
// is the order in the generated file.
type starterConfig struct {
	ProjectName     string   `yaml:"project_name"`
	SourceDirs      []string `yaml:"source_dirs"`
	Extensions      []string `yaml:"extensions"`
	ExcludePatterns []string `yaml:"exclude_patterns"`
	MaxUnitLines    int      `yaml:"max_unit_lines"`
	MinChunkLines   int      `yaml:"min_chunk_lines"`
	TopHubs         int      `yaml:"top_hubs"`
}

// NewInitCommand creates the init command.
func NewInitCommand() *cobra.Command {
	var force bool
	var name string

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a starter fortranmap.yaml in the current directory",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if _, err := os.Stat(config.ConfigFileName); err == nil && !force {
				return fmt.Errorf("%s already exists (use --force to overwrite)", config.ConfigFileName)
			}

			if name == "" {
				if cwd, err := os.Getwd(); err == nil {
					name = filepath.Base(cwd)
				}
			}

			data, err := yaml.Marshal(starterConfig{
				ProjectName:     name,
				SourceDirs:      []string{"src"},
				Extensions:      config.DefaultExtensions(),
				ExcludePatterns: []string{},
				MaxUnitLines:    config.DefaultMaxUnitLines,
				MinChunkLines:   config.DefaultMinChunkLines,
				TopHubs:         config.DefaultTopHubs,
			})
			if err != nil {
				return err
			}

			if err := os.WriteFile(config.ConfigFileName, data, 0o644); err != nil {
				return fmt.Errorf("writing %s: %w", config.ConfigFileName, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created %s\n", config.ConfigFileName)
			return nil
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "overwrite an existing config file")
	cmd.Flags().StringVar(&name, "name", "", "project name (defaults to the working directory)")
	return cmd
}
