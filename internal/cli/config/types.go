// Package config provides configuration management for the fortranmap CLI:
// defaults, fortranmap.yaml discovery, environment overrides, and flag
// binding, layered with koanf.
package config

import (
	"path/filepath"

	"github.com/leapstack-labs/fortranmap/internal/analyzer"
)

// Default values applied before any config file, environment variable, or
// flag is read.
const (
	DefaultMaxUnitLines  = 150
	DefaultMinChunkLines = 25
	DefaultTopHubs       = 5
)

// DefaultExtensions are the Fortran source suffixes accepted out of the box.
func DefaultExtensions() []string {
	return []string{".f90", ".F90", ".f", ".F", ".f95", ".F95"}
}

// Config holds all CLI configuration options.
type Config struct {
	ProjectName     string   `koanf:"project_name"`
	ProjectRoot     string   `koanf:"project_root"`
	SourceDirs      []string `koanf:"source_dirs"`
	Extensions      []string `koanf:"extensions"`
	ExcludePatterns []string `koanf:"exclude_patterns"`
	MaxUnitLines    int      `koanf:"max_unit_lines"`
	MinChunkLines   int      `koanf:"min_chunk_lines"`
	TopHubs         int      `koanf:"top_hubs"`
	OutputFormat    string   `koanf:"output"`
	Verbose         bool     `koanf:"verbose"`
}

// AnalyzerConfig converts the CLI configuration into the core's resolved
// Config. The analyzer performs the fatal pre-flight validation.
func (c *Config) AnalyzerConfig() analyzer.Config {
	root := c.ProjectRoot
	if abs, err := filepath.Abs(root); err == nil {
		root = abs
	}
	return analyzer.Config{
		ProjectName:     c.ProjectName,
		ProjectRoot:     root,
		SourceDirs:      c.SourceDirs,
		Extensions:      c.Extensions,
		ExcludePatterns: c.ExcludePatterns,
		MaxUnitLines:    c.MaxUnitLines,
		MinChunkLines:   c.MinChunkLines,
		TopHubs:         c.TopHubs,
	}
}
