package config

import (
	"os"
	"path/filepath"
)

// ConfigFileName is the name of the config file.
const ConfigFileName = "kerygma.yaml"

// ConfigFileNameAlt is the alternate name of the config file.
const ConfigFileNameAlt = "kerygma.yml"

// MaxUpwardSearchLevels limits how far FindProjectRoot climbs.
const MaxUpwardSearchLevels = 10

// FindConfigFile returns the config file in dir, or "" if there is none.
func FindConfigFile(dir string) string {
	for _, name := range []string{ConfigFileName, ConfigFileNameAlt} {
		path := filepath.Join(dir, name)
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			return path
		}
	}
	return ""
}

// FindProjectRoot walks up from startDir to the nearest directory holding a
// config file. It returns "" if none is found within MaxUpwardSearchLevels.
func FindProjectRoot(startDir string) string {
	dir := startDir
	for range MaxUpwardSearchLevels {
		if FindConfigFile(dir) != "" {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return ""
		}
		dir = parent
	}
	return ""
}
