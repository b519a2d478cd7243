package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "kerygma.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func newFlags() *pflag.FlagSet {
	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.String("templates-dir", "", "")
	flags.String("state", "", "")
	flags.String("format", "json", "")
	flags.Bool("record", false, "")
	flags.String("repo", "", "")
	return flags
}

func TestLoadConfig_Defaults(t *testing.T) {
	cfgPath := writeConfig(t, "")
	root := filepath.Dir(cfgPath)

	cfg, err := LoadConfig(cfgPath, nil)
	require.NoError(t, err)

	assert.Equal(t, root, cfg.ProjectRoot)
	assert.Equal(t, cfgPath, cfg.ConfigFile)
	assert.Equal(t, filepath.Join(root, DefaultTemplatesDir), cfg.TemplatesDir)
	assert.Equal(t, filepath.Join(root, DefaultStateFile), cfg.StatePath)
	assert.Equal(t, filepath.Join(root, DefaultExportDir), cfg.ExportDir)
	assert.Empty(t, cfg.RegistryPath, "empty optional paths stay empty")
	assert.Equal(t, DefaultExportFormat, cfg.ExportFormat)
	assert.Equal(t, DefaultOutput, cfg.OutputFormat)
	assert.False(t, cfg.Record)
	assert.Nil(t, cfg.Quality.ChannelLimits)
}

func TestLoadConfig_File(t *testing.T) {
	cfgPath := writeConfig(t, `templates_dir: announcements
registry_path: /etc/organvm/registry.json
record: true
concurrency: 4
quality:
  channel_limits:
    mastodon: 480
  anti_patterns: []
`)
	root := filepath.Dir(cfgPath)

	cfg, err := LoadConfig(cfgPath, nil)
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(root, "announcements"), cfg.TemplatesDir)
	assert.Equal(t, "/etc/organvm/registry.json", cfg.RegistryPath)
	assert.True(t, cfg.Record)
	assert.Equal(t, 4, cfg.Concurrency)
	assert.Equal(t, map[string]int{"mastodon": 480}, cfg.Quality.ChannelLimits)
	assert.Nil(t, cfg.Quality.HashtagLimits)
}

func TestLoadConfig_FlagPrecedence(t *testing.T) {
	cfgPath := writeConfig(t, "templates_dir: from_file\n")
	t.Setenv("KERYGMA_TEMPLATES_DIR", "from_env")

	flags := newFlags()
	require.NoError(t, flags.Set("templates-dir", "from_flag"))

	cfg, err := LoadConfig(cfgPath, flags)
	require.NoError(t, err)

	want, err := filepath.Abs("from_flag")
	require.NoError(t, err)
	assert.Equal(t, want, cfg.TemplatesDir, "flag paths resolve against the working directory")
}

func TestLoadConfig_EnvPrecedenceOverFile(t *testing.T) {
	cfgPath := writeConfig(t, "templates_dir: from_file\nrecord: false\n")
	t.Setenv("KERYGMA_TEMPLATES_DIR", "from_env")
	t.Setenv("KERYGMA_RECORD", "true")

	cfg, err := LoadConfig(cfgPath, newFlags())
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(filepath.Dir(cfgPath), "from_env"), cfg.TemplatesDir)
	assert.True(t, cfg.Record, "env strings decode into typed fields")
}

func TestLoadConfig_FlagMapping(t *testing.T) {
	cfgPath := writeConfig(t, "")

	flags := newFlags()
	require.NoError(t, flags.Set("state", "custom.db"))
	require.NoError(t, flags.Set("format", "yaml"))
	require.NoError(t, flags.Set("record", "true"))
	require.NoError(t, flags.Set("repo", "ignored"))

	cfg, err := LoadConfig(cfgPath, flags)
	require.NoError(t, err)

	want, _ := filepath.Abs("custom.db")
	assert.Equal(t, want, cfg.StatePath)
	assert.Equal(t, "yaml", cfg.ExportFormat)
	assert.True(t, cfg.Record)
}

func TestLoadConfig_Errors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr string
	}{
		{"bad yaml", "templates_dir: [unclosed", "error reading config file"},
		{"bad export format", "export_format: xml", "export_format must be json or yaml"},
		{"bad output", "output: html", "output must be"},
		{"negative concurrency", "concurrency: -1", "concurrency must not be negative"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadConfig(writeConfig(t, tt.content), nil)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}

	_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"), nil)
	assert.Error(t, err)
}

func TestValidateDirectories(t *testing.T) {
	dir := t.TempDir()
	cfg := &Config{TemplatesDir: dir}
	assert.NoError(t, cfg.ValidateDirectories())

	cfg.TemplatesDir = filepath.Join(dir, "missing")
	assert.ErrorContains(t, cfg.ValidateDirectories(), "templates directory does not exist")
}

func TestGetLogger(t *testing.T) {
	assert.NotNil(t, GetLogger(context.Background()))

	logger := GetLogger(context.Background())
	ctx := WithLogger(context.Background(), logger)
	assert.Same(t, logger, GetLogger(ctx))
}

func TestConfigContext(t *testing.T) {
	_, ok := FromContext(context.Background())
	assert.False(t, ok)

	cfg := &Config{TemplatesDir: "templates"}
	got, ok := FromContext(WithConfig(context.Background(), cfg))
	require.True(t, ok)
	assert.Same(t, cfg, got)
}
