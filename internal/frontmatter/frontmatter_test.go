package frontmatter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_Basic(t *testing.T) {
	meta, body := Parse("---\ntemplate_id: test\ncategory: launch\n---\nBody text")

	assert.Equal(t, "test", meta["template_id"])
	assert.Equal(t, "launch", meta["category"])
	assert.Equal(t, "Body text", body)
}

func TestParse_NoFrontmatter(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"plain body", "Just body text"},
		{"empty input", ""},
		{"delimiter not at start", "\n---\nkey: v\n---\nBody"},
		{"unclosed block", "---\nkey: value\nBody without closing"},
		{"indented delimiter", " ---\nkey: v\n---\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Extract(tt.input)
			assert.False(t, result.Found)
			assert.Empty(t, result.Metadata)
			assert.Equal(t, tt.input, result.Body)
		})
	}
}

func TestParse_InlineAndBlockListsAreEquivalent(t *testing.T) {
	inline, _ := Parse("---\nchannels: [mastodon, discord, bluesky]\n---\nBody")
	block, _ := Parse("---\nchannels:\n  - mastodon\n  - discord\n  - bluesky\n---\nBody")

	want := []string{"mastodon", "discord", "bluesky"}
	assert.Equal(t, want, inline["channels"])
	assert.Equal(t, want, block["channels"])
}

func TestParse_BlockList(t *testing.T) {
	meta, _ := Parse("---\nvariables:\n  - repo.name\n  - repo.url\n---\nBody")
	assert.Equal(t, []string{"repo.name", "repo.url"}, meta["variables"])
}

func TestParse_BlockListEndsAtNextKey(t *testing.T) {
	meta, _ := Parse("---\ntags:\n- x\n- y\nowner: team\n- z\n---\n")

	assert.Equal(t, []string{"x", "y"}, meta["tags"])
	assert.Equal(t, "team", meta["owner"])
}

func TestParse_EmptyKeyIsEmptyList(t *testing.T) {
	meta, _ := Parse("---\nchannels:\n---\n")
	assert.Equal(t, []string{}, meta["channels"])
}

func TestParse_ValueClassification(t *testing.T) {
	text := `---
enabled: true
disabled: FALSE
count: 42
zero: 0
offset: -5
rate: 3.14
quoted: "hello world"
single: 'hi'
url: https://example.com/a:b
inline: ['a', "b", , c]
---
`
	meta, _ := Parse(text)

	assert.Equal(t, true, meta["enabled"])
	assert.Equal(t, false, meta["disabled"])
	assert.Equal(t, 42, meta["count"])
	assert.Equal(t, 0, meta["zero"])
	// Negative numbers and decimals are not recognized numerically.
	assert.Equal(t, "-5", meta["offset"])
	assert.Equal(t, "3.14", meta["rate"])
	assert.Equal(t, "hello world", meta["quoted"])
	assert.Equal(t, "hi", meta["single"])
	assert.Equal(t, "https://example.com/a:b", meta["url"])
	assert.Equal(t, []string{"a", "b", "c"}, meta["inline"])
}

func TestParse_CommentsAndBlankLinesIgnored(t *testing.T) {
	meta, _ := Parse("---\n# a comment\n\ntemplate_id: x\n   \nnot a key line\n---\nBody")

	assert.Equal(t, Metadata{"template_id": "x"}, meta)
}

func TestParse_LaterKeyOverwrites(t *testing.T) {
	meta, _ := Parse("---\ncategory: one\ncategory: [two]\n---\n")
	assert.Equal(t, []string{"two"}, meta["category"])
}

func TestParse_BodyNotTrimmed(t *testing.T) {
	_, body := Parse("---\na: b\n---\n\n  Body  \n\n")
	assert.Equal(t, "\n  Body  \n\n", body)
}

func TestParse_ClosingDelimiterAtEOF(t *testing.T) {
	result := Extract("---\na: b\n---")
	require.True(t, result.Found)
	assert.Equal(t, "", result.Body)
	assert.Equal(t, "b", result.Metadata["a"])
}

func TestParse_CRLF(t *testing.T) {
	meta, body := Parse("---\r\ntemplate_id: win\r\n---\r\nBody")
	assert.Equal(t, "win", meta["template_id"])
	assert.Equal(t, "Body", body)
}

func TestHasOpening(t *testing.T) {
	assert.True(t, HasOpening("---\n"))
	assert.True(t, HasOpening("---\nno close"))
	assert.False(t, HasOpening("--- \n"))
	assert.False(t, HasOpening("body"))
	assert.False(t, HasOpening(""))
}

func TestMetadata_Accessors(t *testing.T) {
	meta := Metadata{
		"list":  []string{"a"},
		"str":   "s",
		"empty": "",
		"num":   7,
		"flag":  true,
	}

	list, ok := meta.Strings("list")
	require.True(t, ok)
	list[0] = "mutated"
	assert.Equal(t, []string{"a"}, meta["list"], "Strings must return a copy")

	_, ok = meta.Strings("str")
	assert.False(t, ok)

	s, ok := meta.Scalar("num")
	assert.True(t, ok)
	assert.Equal(t, "7", s)

	s, ok = meta.Scalar("flag")
	assert.True(t, ok)
	assert.Equal(t, "true", s)

	_, ok = meta.Scalar("empty")
	assert.False(t, ok)
	_, ok = meta.Scalar("list")
	assert.False(t, ok)

	clone := meta.Clone()
	clone["list"].([]string)[0] = "changed"
	assert.Equal(t, []string{"a"}, meta["list"])
}
