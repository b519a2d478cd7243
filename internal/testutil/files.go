package testutil

import (
	"os"
	"path/filepath"
	"testing"
)

// WriteTemplates creates a temporary template tree and returns its root.
// Keys are slash-separated paths relative to the root.
func WriteTemplates(t testing.TB, files map[string]string) string {
	t.Helper()

	root := t.TempDir()
	for name, content := range files {
		path := filepath.Join(root, filepath.FromSlash(name))
		if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
			t.Fatalf("failed to create directory for %s: %v", name, err)
		}
		if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
			t.Fatalf("failed to write %s: %v", name, err)
		}
	}
	return root
}

// LaunchTemplate is a small multi-channel template used across package tests.
const LaunchTemplate = `---
template_id: repo-launch
category: launch
channels: [mastodon, discord, bluesky]
variables:
  - repo.name
  - event.url
---
{{#channel mastodon}}
Launching {{ repo.name }}: {{ event.summary }}
{{#if event.url}}{{ event.url }}{{/if}}
#opensource #{{ repo.organ }}
{{/channel}}
{{#channel discord}}
**{{ repo.name }}** is live. {{ event.summary }}
{{#if event.url}}Details: {{ event.url }}{{#else}}No link yet.{{/if}}
{{/channel}}
{{#channel bluesky}}
{{ repo.name }} is live {{#if event.url}}{{ event.url }}{{/if}}
{{/channel}}
`
