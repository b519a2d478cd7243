// Package config loads the kerygma CLI configuration.
//
// Values are layered, lowest to highest precedence: built-in defaults,
// kerygma.yaml, KERYGMA_* environment variables, then explicitly set flags.
package config

import (
	sharedcfg "github.com/leapstack-labs/kerygma/internal/config"
)

// QualityConfig is an alias for the shared quality checker overrides.
type QualityConfig = sharedcfg.QualityConfig

// Config holds all CLI configuration options.
type Config struct {
	TemplatesDir string        `koanf:"templates_dir"`
	RegistryPath string        `koanf:"registry_path"` // Organ registry JSON/YAML (optional)
	ProfilePath  string        `koanf:"profile_path"`  // Project voice profile (optional)
	StatePath    string        `koanf:"state_path"`
	ExportDir    string        `koanf:"export_dir"`
	ExportFormat string        `koanf:"export_format"`
	Record       bool          `koanf:"record"` // Persist inventory and quality reports
	Concurrency  int           `koanf:"concurrency"`
	Verbose      bool          `koanf:"verbose"`
	OutputFormat string        `koanf:"output"`
	Quality      QualityConfig `koanf:"quality"`

	// ProjectRoot anchors relative paths from the config file and defaults.
	ProjectRoot string `koanf:"-"`
	// ConfigFile is the config file that was loaded, if any.
	ConfigFile string `koanf:"-"`
}

// Default configuration values, shared with library packages.
const (
	DefaultTemplatesDir = sharedcfg.DefaultTemplatesDir
	DefaultStateFile    = sharedcfg.DefaultStateFile
	DefaultExportDir    = sharedcfg.DefaultExportDir
	DefaultExportFormat = sharedcfg.DefaultExportFormat
	DefaultOutput       = sharedcfg.DefaultOutput
)
