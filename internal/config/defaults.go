// Package config holds the project configuration shared by the CLI and
// library packages: default locations, config file discovery and the
// quality checker overrides read from kerygma.yaml.
package config

// Default configuration values.
const (
	DefaultTemplatesDir = "templates"
	DefaultStateFile    = ".kerygma/state.db"
	DefaultExportDir    = "data"
	DefaultExportFormat = "json"
	DefaultOutput       = "auto" // Auto-detect: TTY=text, non-TTY=markdown
)

// EnvPrefix prefixes environment variables that override configuration.
const EnvPrefix = "KERYGMA_"
