package config

import (
	"context"
	"fmt"
	"log/slog"
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

	sharedcfg "github.com/leapstack-labs/kerygma/internal/config"
)

// loggerKey is used to store the logger in a command context.
type loggerKey struct{}

// configKey is used to store the loaded config in a command context.
type configKey struct{}

// flagKeys maps CLI flag names to config keys. Flags not listed here are
// command options and never reach the config.
var flagKeys = map[string]string{
	"templates-dir": "templates_dir",
	"registry":      "registry_path",
	"profile":       "profile_path",
	"state":         "state_path",
	"export-dir":    "export_dir",
	"format":        "export_format",
	"record":        "record",
	"concurrency":   "concurrency",
	"verbose":       "verbose",
	"output":        "output",
}

// pathFlags are resolved against the working directory rather than the
// project root, since that is where the user typed them.
var pathFlags = map[string]bool{
	"templates-dir": true,
	"registry":      true,
	"profile":       true,
	"state":         true,
	"export-dir":    true,
}

// inferProjectRoot determines the directory relative paths are anchored to.
// Priority: the explicit config file's directory, then the nearest ancestor
// of the working directory holding kerygma.yaml, then the working directory.
func inferProjectRoot(cfgFile string) string {
	if cfgFile != "" {
		if abs, err := filepath.Abs(cfgFile); err == nil {
			return filepath.Dir(abs)
		}
	}

	cwd, err := os.Getwd()
	if err != nil || cwd == "" {
		return "."
	}
	if root := sharedcfg.FindProjectRoot(cwd); root != "" {
		return root
	}
	return cwd
}

// resolvePathRelativeTo resolves a path relative to baseDir if it's not absolute.
// Returns the path unchanged if it's empty or already absolute.
func resolvePathRelativeTo(path, baseDir string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(baseDir, path)
}

// LoadConfig loads configuration from defaults, the config file, environment
// variables and flags. flags may be nil; only flags that were explicitly set
// override lower layers.
func LoadConfig(cfgFile string, flags *pflag.FlagSet) (*Config, error) {
	k := koanf.New(".")
	projectRoot := inferProjectRoot(cfgFile)

	// 1. Defaults
	if err := k.Load(confmap.Provider(map[string]any{
		"templates_dir": DefaultTemplatesDir,
		"registry_path": "",
		"profile_path":  "",
		"state_path":    DefaultStateFile,
		"export_dir":    DefaultExportDir,
		"export_format": DefaultExportFormat,
		"record":        false,
		"concurrency":   0,
		"verbose":       false,
		"output":        DefaultOutput,
	}, "."), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	// 2. Config file
	if cfgFile == "" {
		cfgFile = sharedcfg.FindConfigFile(projectRoot)
	}
	if cfgFile != "" {
		if err := k.Load(file.Provider(cfgFile), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("error reading config file %s: %w", cfgFile, err)
		}
	}

	// 3. Environment: KERYGMA_TEMPLATES_DIR -> templates_dir
	if err := k.Load(env.Provider(sharedcfg.EnvPrefix, ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, sharedcfg.EnvPrefix))
	}), nil); err != nil {
		return nil, fmt.Errorf("failed to load env vars: %w", err)
	}

	// 4. Flags
	flagPaths := make(map[string]string)
	if flags != nil {
		if err := k.Load(posflag.ProviderWithFlag(flags, ".", k, func(f *pflag.Flag) (string, any) {
			key, known := flagKeys[f.Name]
			if !f.Changed || !known {
				return "", nil
			}
			if pathFlags[f.Name] {
				if abs, err := filepath.Abs(f.Value.String()); err == nil {
					flagPaths[key] = abs
				}
			}
			return key, posflag.FlagVal(flags, f)
		}), nil); err != nil {
			return nil, fmt.Errorf("failed to load flags: %w", err)
		}
	}

	// 5. Decode
	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}
	cfg.ProjectRoot = projectRoot
	cfg.ConfigFile = cfgFile

	// 6. Resolve paths: flags relative to the working directory, everything
	// else relative to the project root.
	resolve := func(key string, target *string) {
		if abs, ok := flagPaths[key]; ok {
			*target = abs
			return
		}
		*target = resolvePathRelativeTo(*target, projectRoot)
	}
	resolve("templates_dir", &cfg.TemplatesDir)
	resolve("registry_path", &cfg.RegistryPath)
	resolve("profile_path", &cfg.ProfilePath)
	resolve("state_path", &cfg.StatePath)
	resolve("export_dir", &cfg.ExportDir)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.TemplatesDir == "" {
		return fmt.Errorf("templates_dir is required")
	}
	switch c.ExportFormat {
	case "json", "yaml":
	default:
		return fmt.Errorf("export_format must be json or yaml, got %q", c.ExportFormat)
	}
	switch c.OutputFormat {
	case "", "auto", "text", "markdown", "json":
	default:
		return fmt.Errorf("output must be auto, text, markdown or json, got %q", c.OutputFormat)
	}
	if c.Concurrency < 0 {
		return fmt.Errorf("concurrency must not be negative")
	}
	return nil
}

// ValidateDirectories checks that the templates directory exists.
func (c *Config) ValidateDirectories() error {
	info, err := os.Stat(c.TemplatesDir)
	if err != nil {
		return fmt.Errorf("templates directory does not exist: %s\nHint: create it or use --templates-dir to point elsewhere", c.TemplatesDir)
	}
	if !info.IsDir() {
		return fmt.Errorf("templates path is not a directory: %s", c.TemplatesDir)
	}
	return nil
}

// WithLogger returns a context carrying logger.
func WithLogger(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, loggerKey{}, logger)
}

// GetLogger retrieves the logger from the command context.
func GetLogger(ctx context.Context) *slog.Logger {
	if ctx != nil {
		if l, ok := ctx.Value(loggerKey{}).(*slog.Logger); ok {
			return l
		}
	}
	// Return discard logger as safe fallback
	return slog.New(slog.DiscardHandler)
}

// WithConfig returns a context carrying cfg.
func WithConfig(ctx context.Context, cfg *Config) context.Context {
	return context.WithValue(ctx, configKey{}, cfg)
}

// FromContext returns the config stored by WithConfig, if any.
func FromContext(ctx context.Context) (*Config, bool) {
	if ctx == nil {
		return nil, false
	}
	cfg, ok := ctx.Value(configKey{}).(*Config)
	return cfg, ok && cfg != nil
}
