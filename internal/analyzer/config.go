package analyzer

import (
	"fmt"
	"os"
)

// Config is the resolved, validated input to one analysis run. Loading and
// layering of configuration files lives in the CLI; the core only consumes
// the final values.
type Config struct {
	ProjectName string
	ProjectRoot string

	// SourceDirs are directory names relative to ProjectRoot. Missing
	// directories are skipped during discovery.
	SourceDirs []string

	// Extensions are the accepted file suffixes, e.g. ".f90". Matching is
	// case-sensitive: .f90 and .F90 are distinct entries.
	Extensions []string

	// ExcludePatterns are gitignore-style patterns applied to paths relative
	// to ProjectRoot.
	ExcludePatterns []string

	MaxUnitLines  int
	MinChunkLines int

	// TopHubs is the N of the top-N in-degree hub classification.
	TopHubs int
}

// Validate is the pre-flight check and the only caller-facing fatal error
// class: every pipeline stage assumes a validated configuration, so a bad
// one must reject the run before it starts.
func (c *Config) Validate() error {
	if c.ProjectRoot == "" {
		return fmt.Errorf("project root is required")
	}
	info, err := os.Stat(c.ProjectRoot)
	if err != nil {
		return fmt.Errorf("project root %s: %w", c.ProjectRoot, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("project root %s is not a directory", c.ProjectRoot)
	}
	if len(c.SourceDirs) == 0 {
		return fmt.Errorf("at least one source directory is required")
	}
	if len(c.Extensions) == 0 {
		return fmt.Errorf("at least one file extension is required")
	}
	if c.MaxUnitLines <= 0 {
		return fmt.Errorf("max_unit_lines must be positive, got %d", c.MaxUnitLines)
	}
	if c.MinChunkLines < 0 {
		return fmt.Errorf("min_chunk_lines must not be negative, got %d", c.MinChunkLines)
	}
	if c.MinChunkLines > c.MaxUnitLines {
		return fmt.Errorf("min_chunk_lines (%d) must not exceed max_unit_lines (%d)",
			c.MinChunkLines, c.MaxUnitLines)
	}
	if c.TopHubs <= 0 {
		return fmt.Errorf("top_hubs must be positive, got %d", c.TopHubs)
	}
	return nil
}
