package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/kerygma/internal/cli/commands"
	"github.com/leapstack-labs/kerygma/internal/cli/output"
	"github.com/leapstack-labs/kerygma/internal/cli/testutil"
	"github.com/leapstack-labs/kerygma/internal/engine"
	"github.com/leapstack-labs/kerygma/internal/export"
	"github.com/leapstack-labs/kerygma/internal/state"
)

type result struct {
	out    string
	errOut string
	err    error
}

// run executes the CLI against the project in dir.
func run(t *testing.T, dir string, args ...string) result {
	t.Helper()

	cmd := NewRootCmd()
	out, errOut := &bytes.Buffer{}, &bytes.Buffer{}
	cmd.SetOut(out)
	cmd.SetErr(errOut)
	cmd.SetArgs(append(args, "--config", filepath.Join(dir, "kerygma.yaml")))

	err := cmd.Execute()
	return result{out: out.String(), errOut: errOut.String(), err: err}
}

func writeFile(t *testing.T, path, content string) string {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestList(t *testing.T) {
	dir := testutil.SetupTestProject(t)

	res := run(t, dir, "list", "-o", "markdown")
	require.NoError(t, res.err)
	assert.Contains(t, res.out, "# Templates")
	assert.Contains(t, res.out, "| repo-launch | launch | mastodon, discord, bluesky | repo.name, event.url |")
	assert.Contains(t, res.out, "| teaser | launch | mastodon | - |")
	assert.Contains(t, res.out, "2 templates")
	testutil.AssertNoANSI(t, res.out)

	res = run(t, dir, "list", "--category", "essay", "-o", "markdown")
	require.NoError(t, res.err)
	assert.Equal(t, "No templates found.\n", res.out)
}

func TestList_JSON(t *testing.T) {
	dir := testutil.SetupTestProject(t)

	res := run(t, dir, "list", "-o", "json")
	require.NoError(t, res.err)

	var got output.ListOutput
	require.NoError(t, json.Unmarshal([]byte(res.out), &got))
	require.Len(t, got.Templates, 2)
	assert.Equal(t, "repo-launch", got.Templates[0].TemplateID, "templates load in path order")
	assert.Equal(t, "teaser", got.Templates[1].TemplateID)
	assert.Equal(t, map[string]int{"launch": 2}, got.Summary.ByCategory)
	assert.Equal(t, []string{"mastodon", "discord", "bluesky"}, got.Summary.Channels)
}

func TestRender(t *testing.T) {
	dir := testutil.SetupTestProject(t)

	res := run(t, dir, "render", "repo-launch", "mastodon", "-o", "text")
	require.NoError(t, res.err)
	assert.Contains(t, res.out, "Launching sample-repo: This is a sample event for template testing.")
	assert.Contains(t, res.out, "#opensource #i-theoria")
	assert.NotContains(t, res.out, "is live", "other channel blocks are dropped")
	assert.Empty(t, res.errOut)
}

func TestRender_FromRegistry(t *testing.T) {
	dir := testutil.SetupTestProject(t)

	res := run(t, dir, "render", "repo-launch", "discord", "-o", "text",
		"--repo", "recursive-engine", "--event-type", "repo-launch", "--summary", "Now public.")
	require.NoError(t, res.err)
	assert.Contains(t, res.out, "**recursive-engine** is live. Now public.")
	assert.Contains(t, res.out, "No link yet.")
}

func TestRender_Unresolved(t *testing.T) {
	dir := testutil.SetupTestProject(t)
	ctxFile := writeFile(t, filepath.Join(dir, "event.json"), `{"event": {"title": "x"}}`)

	res := run(t, dir, "render", "teaser", "mastodon", "-o", "text", "--context", ctxFile)
	require.NoError(t, res.err)
	assert.Contains(t, res.out, "Coming soon: {{ repo.name }}.")
	assert.Contains(t, res.errOut, "[WARN] Unresolved: repo.name")
}

func TestRender_Errors(t *testing.T) {
	dir := testutil.SetupTestProject(t)

	res := run(t, dir, "render", "missing", "mastodon")
	require.Error(t, res.err)
	assert.ErrorIs(t, res.err, engine.ErrNotFound)

	res = run(t, dir, "render", "repo-launch")
	assert.Error(t, res.err)

	res = run(t, dir, "render", "repo-launch", "mastodon", "--context", filepath.Join(dir, "nope.json"))
	assert.ErrorContains(t, res.err, "read context")
}

func TestValidate(t *testing.T) {
	dir := testutil.SetupTestProject(t)

	res := run(t, dir, "validate", "-o", "markdown")
	require.NoError(t, res.err)
	assert.Contains(t, res.out, "  OK  repo-launch/mastodon")
	assert.Contains(t, res.out, "  OK  teaser/mastodon")
	assert.Contains(t, res.out, "Validated 4/4 template-channel combinations.")

	res = run(t, dir, "validate", "-o", "json")
	require.NoError(t, res.err)
	var got output.ValidateOutput
	require.NoError(t, json.Unmarshal([]byte(res.out), &got))
	assert.Equal(t, 4, got.Valid)
	assert.Equal(t, 4, got.Total)
}

func TestCheck(t *testing.T) {
	dir := testutil.SetupTestProject(t)

	res := run(t, dir, "check", "teaser", "mastodon", "-o", "markdown")
	require.NoError(t, res.err, "warnings do not fail the check")
	assert.Contains(t, res.out, "[PASS] teaser/mastodon: 4/6 checks passed")
	assert.Contains(t, res.out, "  [FAIL] anti_patterns: Anti-patterns found: todo, coming soon")
	assert.Contains(t, res.out, "  [FAIL] has_link:")
	assert.Contains(t, res.out, "  [PASS] char_limit:")
}

func TestCheck_Fails(t *testing.T) {
	dir := testutil.SetupTestProject(t)
	ctxFile := writeFile(t, filepath.Join(dir, "event.yaml"), "event:\n  title: x\n")

	res := run(t, dir, "check", "teaser", "mastodon", "-o", "json", "--context", ctxFile)
	require.ErrorIs(t, res.err, commands.ErrCheckFailed)

	var got output.CheckOutput
	require.NoError(t, json.Unmarshal([]byte(res.out), &got))
	assert.False(t, got.Passed)
	assert.Equal(t, "teaser", got.Report.TemplateID)
	assert.Empty(t, got.RecordID)
}

func TestCheck_QualityConfig(t *testing.T) {
	dir := testutil.SetupTestProject(t)
	writeFile(t, filepath.Join(dir, "kerygma.yaml"), "quality:\n  channel_limits:\n    mastodon: 10\n")

	res := run(t, dir, "check", "teaser", "mastodon", "-o", "markdown")
	require.ErrorIs(t, res.err, commands.ErrCheckFailed)
	assert.Contains(t, res.out, "[FAIL] char_limit: Exceeds mastodon limit")
}

func TestCheck_RecordAndHistory(t *testing.T) {
	dir := testutil.SetupTestProject(t)

	res := run(t, dir, "check", "teaser", "mastodon", "-o", "json", "--record")
	require.NoError(t, res.err)
	var checked output.CheckOutput
	require.NoError(t, json.Unmarshal([]byte(res.out), &checked))
	assert.NotEmpty(t, checked.RecordID)
	assert.FileExists(t, filepath.Join(dir, ".kerygma", "state.db"))

	res = run(t, dir, "history", "-o", "json")
	require.NoError(t, res.err)
	var hist output.HistoryOutput
	require.NoError(t, json.Unmarshal([]byte(res.out), &hist))
	require.Len(t, hist.Runs, 1)
	assert.Equal(t, checked.RecordID, hist.Runs[0].ID)
	assert.True(t, hist.Runs[0].Passed)
	assert.Equal(t, []string{"anti_patterns (warning)", "has_link (warning)"}, hist.Runs[0].Failed)

	res = run(t, dir, "history", "repo-launch", "-o", "markdown")
	require.NoError(t, res.err)
	assert.Equal(t, "No recorded reports.\n", res.out)

	res = run(t, dir, "history", "--inventory", "-o", "json")
	require.NoError(t, res.err)
	var inv []state.TemplateRecord
	require.NoError(t, json.Unmarshal([]byte(res.out), &inv))
	require.Len(t, inv, 2)
	assert.Equal(t, "repo-launch", inv[0].ID)
	assert.NotEmpty(t, inv[0].ContentHash)
}

func TestExport(t *testing.T) {
	dir := testutil.SetupTestProject(t)

	res := run(t, dir, "export", "-o", "markdown")
	require.NoError(t, res.err)
	path := filepath.Join(dir, "data", "template-registry.json")
	assert.Contains(t, res.out, "Exported 2 templates to "+path)
	assert.Contains(t, res.out, "- **Quality**: 24 checks")

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	var doc export.Document
	require.NoError(t, json.Unmarshal(raw, &doc))
	assert.Equal(t, 2, doc.TemplateCount)
	assert.Equal(t, 24, doc.QualitySummary.TotalChecks)
	assert.Equal(t, export.Repo, doc.Repo)

	res = run(t, dir, "export", "--format", "yaml", "--export-dir", filepath.Join(dir, "site"), "--concurrency", "2", "-o", "markdown")
	require.NoError(t, res.err)
	assert.FileExists(t, filepath.Join(dir, "site", "template-registry.yaml"))
}

func TestConfigErrors(t *testing.T) {
	dir := testutil.SetupTestProject(t)

	res := run(t, dir, "list", "--templates-dir", filepath.Join(dir, "missing"))
	assert.ErrorContains(t, res.err, "templates directory does not exist")

	writeFile(t, filepath.Join(dir, "kerygma.yaml"), "export_format: xml\n")
	res = run(t, dir, "list")
	assert.ErrorContains(t, res.err, "export_format must be json or yaml")
}

func TestCompletion(t *testing.T) {
	cmd := NewRootCmd()
	out := &bytes.Buffer{}
	cmd.SetOut(out)
	cmd.SetArgs([]string{"completion", "bash"})

	require.NoError(t, cmd.Execute())
	assert.Contains(t, out.String(), "kerygma")
}
