package quality

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/kerygma/pkg/core"
)

func check(t *testing.T, report *core.QualityReport, name string) core.CheckResult {
	t.Helper()
	result, ok := report.Check(name)
	require.True(t, ok, "missing check %s", name)
	return result
}

func TestCheck_Passing(t *testing.T) {
	c := New(Config{})
	report := c.Check("Check out our new release: https://example.com #organvm", "mastodon", "test-template", nil)

	assert.True(t, report.Passed())
	assert.Empty(t, report.Errors())
	assert.Empty(t, report.Warnings())
	assert.Equal(t, "[PASS] test-template/mastodon: 6/6 checks passed", report.Summary())
}

func TestCheck_OrderFixed(t *testing.T) {
	report := New(Config{}).Check("x", "mastodon", "t", nil)

	var names []string
	for _, c := range report.Checks {
		names = append(names, c.Name)
	}
	assert.Equal(t, []string{
		core.CheckCharLimit,
		core.CheckNotEmpty,
		core.CheckUnresolvedVars,
		core.CheckAntiPatterns,
		core.CheckHasLink,
		core.CheckHashtagCount,
	}, names)
}

func TestCheck_CharLimitBoundary(t *testing.T) {
	c := New(Config{})

	for channel, limit := range DefaultChannelLimits() {
		t.Run(channel, func(t *testing.T) {
			atLimit := c.Check(strings.Repeat("x", limit), channel, "t", nil)
			result := check(t, atLimit, core.CheckCharLimit)
			assert.True(t, result.Passed)
			assert.Equal(t, fmt.Sprintf("%d/%d characters", limit, limit), result.Message)

			over := c.Check(strings.Repeat("x", limit+1), channel, "t", nil)
			result = check(t, over, core.CheckCharLimit)
			assert.False(t, result.Passed)
			assert.Equal(t, core.SeverityError, result.Severity)
			assert.Contains(t, result.Message, "(1 over)")
			assert.False(t, over.Passed())
		})
	}
}

func TestCheck_CharLimitCountsRunes(t *testing.T) {
	c := New(Config{ChannelLimits: map[string]int{"tiny": 3}})

	result := check(t, c.Check("été", "tiny", "t", nil), core.CheckCharLimit)
	assert.True(t, result.Passed, "multi-byte characters count once")
}

func TestCheck_UnknownChannelHasNoLimit(t *testing.T) {
	c := New(Config{})
	report := c.Check(strings.Repeat("x", 10000)+" https://example.com", "unknown_channel", "test", nil)

	result := check(t, report, core.CheckCharLimit)
	assert.True(t, result.Passed)
	assert.Equal(t, core.SeverityInfo, result.Severity)
	assert.Equal(t, "No limit defined for unknown_channel", result.Message)
}

func TestCheck_NotEmpty(t *testing.T) {
	c := New(Config{})

	for _, text := range []string{"", "   ", "\n\t\n"} {
		result := check(t, c.Check(text, "mastodon", "t", nil), core.CheckNotEmpty)
		assert.False(t, result.Passed, "text %q", text)
		assert.Equal(t, core.SeverityError, result.Severity)
	}
}

func TestCheck_Unresolved(t *testing.T) {
	c := New(Config{})

	tests := []struct {
		name       string
		text       string
		unresolved []string
		passed     bool
		message    string
	}{
		{"tracked list", "Hello {{ name }}", []string{"name", "repo.url"}, false, "Unresolved variables: name, repo.url"},
		{"leftover markup only", "Hi {{#if x}} and {{ y }}", nil, false, "Found unresolved template syntax: {{#if x}}, {{ y }}"},
		{"markup across lines not matched", "{{\n}}", nil, true, "All variables resolved"},
		{"clean", "Hello world", []string{}, true, "All variables resolved"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := check(t, c.Check(tt.text, "mastodon", "t", tt.unresolved), core.CheckUnresolvedVars)
			assert.Equal(t, tt.passed, result.Passed)
			assert.Equal(t, tt.message, result.Message)
			assert.Equal(t, core.SeverityError, result.Severity)
		})
	}
}

func TestCheck_AntiPatterns(t *testing.T) {
	c := New(Config{})

	report := c.Check("This is a TODO Placeholder, Stay Tuned https://example.com", "mastodon", "t", nil)
	result := check(t, report, core.CheckAntiPatterns)

	assert.False(t, result.Passed)
	assert.Equal(t, core.SeverityWarning, result.Severity)
	assert.Equal(t, "Anti-patterns found: todo, placeholder, stay tuned", result.Message)
	assert.True(t, report.Passed(), "warnings never block")
	assert.Len(t, report.Warnings(), 1)
}

func TestCheck_AntiPatternsOverride(t *testing.T) {
	c := New(Config{AntiPatterns: []string{"Synergy"}})

	result := check(t, c.Check("todo: more SYNERGY", "mastodon", "t", nil), core.CheckAntiPatterns)
	assert.False(t, result.Passed)
	assert.Equal(t, "Anti-patterns found: Synergy", result.Message)

	none := New(Config{AntiPatterns: []string{}})
	result = check(t, none.Check("todo", "mastodon", "t", nil), core.CheckAntiPatterns)
	assert.True(t, result.Passed)
}

func TestCheck_HasLink(t *testing.T) {
	c := New(Config{})

	result := check(t, c.Check("No links here at all", "mastodon", "t", nil), core.CheckHasLink)
	assert.False(t, result.Passed)
	assert.Equal(t, core.SeverityWarning, result.Severity)

	for _, text := range []string{"see http://a.example", "see https://a.example"} {
		result = check(t, c.Check(text, "mastodon", "t", nil), core.CheckHasLink)
		assert.True(t, result.Passed, text)
	}
}

func hashtags(n int) string {
	tags := make([]string, n)
	for i := range tags {
		tags[i] = fmt.Sprintf("#tag%d", i)
	}
	return "Message " + strings.Join(tags, " ") + " https://example.com"
}

func TestCheck_HashtagCeilingBoundary(t *testing.T) {
	c := New(Config{})

	tests := []struct {
		channel string
		ceiling int
		display string
	}{
		{"mastodon", 10, "Mastodon"},
		{"linkedin", 5, "LinkedIn"},
	}

	for _, tt := range tests {
		t.Run(tt.channel, func(t *testing.T) {
			at := check(t, c.Check(hashtags(tt.ceiling), tt.channel, "t", nil), core.CheckHashtagCount)
			assert.True(t, at.Passed)

			report := c.Check(hashtags(tt.ceiling+1), tt.channel, "t", nil)
			over := check(t, report, core.CheckHashtagCount)
			assert.False(t, over.Passed)
			assert.Equal(t, core.SeverityWarning, over.Severity)
			assert.Equal(t, fmt.Sprintf("Too many hashtags for %s: %d (max %d)", tt.display, tt.ceiling+1, tt.ceiling), over.Message)
			assert.True(t, report.Passed(), "hashtag overflow never blocks")
		})
	}
}

func TestCheck_HashtagsUnlimitedChannel(t *testing.T) {
	result := check(t, New(Config{}).Check(hashtags(40), "discord", "t", nil), core.CheckHashtagCount)
	assert.True(t, result.Passed)
	assert.Equal(t, "40 hashtags, acceptable for discord", result.Message)
}

func TestCheck_HashtagPattern(t *testing.T) {
	c := New(Config{HashtagLimits: map[string]int{"x": 1}})

	// "#" alone and "# spaced" are not hashtags; unicode words are
	result := check(t, c.Check("# heading #élan #", "x", "t", nil), core.CheckHashtagCount)
	assert.True(t, result.Passed)

	result = check(t, c.Check("#élan #go_lang", "x", "t", nil), core.CheckHashtagCount)
	assert.False(t, result.Passed)
}

func TestCheckResult_FromRender(t *testing.T) {
	render := &core.RenderResult{
		TemplateID:     "launch",
		Channel:        "bluesky",
		Text:           "Hello {{ who }}",
		UnresolvedVars: []string{"who"},
	}

	report := New(Config{}).CheckResult(render)
	assert.Equal(t, "launch", report.TemplateID)
	assert.Equal(t, "bluesky", report.Channel)
	assert.False(t, report.Passed())
	assert.Equal(t, "[FAIL] launch/bluesky: 4/6 checks passed", report.Summary())
}

func TestNew_CopiesTables(t *testing.T) {
	limits := map[string]int{"mastodon": 10}
	c := New(Config{ChannelLimits: limits})
	limits["mastodon"] = 1

	limit, ok := c.Limit("mastodon")
	assert.True(t, ok)
	assert.Equal(t, 10, limit)

	got := c.ChannelLimits()
	got["mastodon"] = 99
	limit, _ = c.Limit("mastodon")
	assert.Equal(t, 10, limit)

	DefaultChannelLimits()["mastodon"] = 1
	assert.Equal(t, 500, DefaultChannelLimits()["mastodon"])
}

func TestDisplayName(t *testing.T) {
	assert.Equal(t, "Mastodon", DisplayName("mastodon"))
	assert.Equal(t, "LinkedIn", DisplayName("linkedin"))
	assert.Equal(t, "Discord", DisplayName("discord"))
}
