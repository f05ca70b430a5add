package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"
)

// Config file names, checked in order.
const (
	ConfigFileName    = "fortranmap.yaml"
	ConfigFileNameAlt = "fortranmap.yml"
)

// maxUpwardSearchLevels limits how far up the directory tree to search for
// config files.
const maxUpwardSearchLevels = 10

var configFileUsed string

// GetConfigFileUsed returns the path of the config file loaded by the last
// Load call, or "" if none was found.
func GetConfigFileUsed() string {
	return configFileUsed
}

// Load builds the effective configuration. Layering, lowest to highest
// precedence: built-in defaults, fortranmap.yaml (explicit path or upward
// search from the working directory), FORTRANMAP_* environment variables,
// then command-line flags.
func Load(cfgFile string, flags *pflag.FlagSet) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(confmap.Provider(map[string]any{
		"source_dirs":      []string{"."},
		"extensions":       DefaultExtensions(),
		"exclude_patterns": []string{},
		"max_unit_lines":   DefaultMaxUnitLines,
		"min_chunk_lines":  DefaultMinChunkLines,
		"top_hubs":         DefaultTopHubs,
		"output":           "auto",
	}, "."), nil); err != nil {
		return nil, fmt.Errorf("loading defaults: %w", err)
	}

	configFileUsed = findConfigFile(cfgFile)
	if cfgFile != "" && configFileUsed == "" {
		return nil, fmt.Errorf("config file not found: %s", cfgFile)
	}
	if configFileUsed != "" {
		if err := k.Load(file.Provider(configFileUsed), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("loading %s: %w", configFileUsed, err)
		}
	}

	if err := k.Load(env.Provider("FORTRANMAP_", ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, "FORTRANMAP_"))
	}), nil); err != nil {
		return nil, fmt.Errorf("loading environment: %w", err)
	}

	if flags != nil {
		if err := k.Load(posflag.ProviderWithValue(flags, ".", k, func(key, value string) (string, any) {
			key = strings.ReplaceAll(key, "-", "_")
			switch key {
			case "source_dirs", "extensions", "exclude_patterns":
				// pflag renders slice values as "[a,b]".
				return key, strings.Split(strings.Trim(value, "[]"), ",")
			}
			return key, value
		}), nil); err != nil {
			return nil, fmt.Errorf("loading flags: %w", err)
		}
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	if cfg.ProjectRoot == "" {
		if configFileUsed != "" {
			cfg.ProjectRoot = filepath.Dir(configFileUsed)
		} else if cwd, err := os.Getwd(); err == nil {
			cfg.ProjectRoot = cwd
		}
	}

	return &cfg, nil
}

// findConfigFile resolves the config file to use.
// Priority: explicit path > upward search for fortranmap.yaml / .yml.
func findConfigFile(explicit string) string {
	if explicit != "" {
		if _, err := os.Stat(explicit); err == nil {
			return explicit
		}
		return ""
	}

	dir, err := os.Getwd()
	if err != nil {
		return ""
	}
	for i := 0; i < maxUpwardSearchLevels; i++ {
		for _, name := range []string{ConfigFileName, ConfigFileNameAlt} {
			path := filepath.Join(dir, name)
			if _, err := os.Stat(path); err == nil {
				return path
			}
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return ""
}
