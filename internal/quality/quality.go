// Package quality validates rendered announcements before distribution.
//
// A Checker runs six checks in a fixed order (character limit, emptiness,
// unresolved markup, anti-pattern phrases, link presence, hashtag density)
// and returns a core.QualityReport. Failures are data, never errors: only a
// failed error-severity check makes a report fail.
package quality

import (
	"fmt"
	"maps"
	"regexp"
	"slices"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/leapstack-labs/kerygma/pkg/core"
)

var (
	leftoverMarkupRe = regexp.MustCompile(`\{\{.*?\}\}`)
	hashtagRe        = regexp.MustCompile(`#[\p{L}\p{N}_]+`)
)

// Config holds the per-channel tables used by a Checker.
// A nil table takes its default; a non-nil empty table disables the check's
// channel rules.
type Config struct {
	// ChannelLimits maps channel names to maximum character counts
	ChannelLimits map[string]int
	// HashtagLimits maps channel names to soft hashtag ceilings
	HashtagLimits map[string]int
	// AntiPatterns lists phrases flagged case-insensitively
	AntiPatterns []string
}

// Checker runs quality checks on rendered text.
// It is safe for concurrent use.
type Checker struct {
	limits       map[string]int
	hashtags     map[string]int
	antiPatterns []string
	folded       []string
}

// New creates a checker from cfg, filling nil tables with defaults.
func New(cfg Config) *Checker {
	limits := cfg.ChannelLimits
	if limits == nil {
		limits = DefaultChannelLimits()
	}
	hashtags := cfg.HashtagLimits
	if hashtags == nil {
		hashtags = DefaultHashtagLimits()
	}
	patterns := cfg.AntiPatterns
	if patterns == nil {
		patterns = DefaultAntiPatterns()
	}

	c := &Checker{
		limits:       maps.Clone(limits),
		hashtags:     maps.Clone(hashtags),
		antiPatterns: slices.Clone(patterns),
	}
	c.folded = make([]string, len(c.antiPatterns))
	for i, p := range c.antiPatterns {
		c.folded[i] = foldCase(p)
	}
	return c
}

// ChannelLimits returns a copy of the character limit table.
func (c *Checker) ChannelLimits() map[string]int {
	return maps.Clone(c.limits)
}

// Limit returns the character limit for channel, if one is defined.
func (c *Checker) Limit(channel string) (int, bool) {
	limit, ok := c.limits[channel]
	return limit, ok && limit > 0
}

// Check runs every check against text rendered for channel.
// unresolved is the list of paths the renderer could not resolve.
func (c *Checker) Check(text, channel, templateID string, unresolved []string) *core.QualityReport {
	return &core.QualityReport{
		TemplateID: templateID,
		Channel:    channel,
		Checks: []core.CheckResult{
			c.checkCharLimit(text, channel),
			checkNotEmpty(text),
			checkUnresolved(text, unresolved),
			c.checkAntiPatterns(text),
			checkHasLink(text),
			c.checkHashtags(text, channel),
		},
	}
}

// CheckResult runs Check against a render result.
func (c *Checker) CheckResult(result *core.RenderResult) *core.QualityReport {
	return c.Check(result.Text, result.Channel, result.TemplateID, result.UnresolvedVars)
}

func (c *Checker) checkCharLimit(text, channel string) core.CheckResult {
	limit, ok := c.Limit(channel)
	if !ok {
		return core.CheckResult{
			Name:     core.CheckCharLimit,
			Passed:   true,
			Message:  fmt.Sprintf("No limit defined for %s", channel),
			Severity: core.SeverityInfo,
		}
	}

	length := utf8.RuneCountInString(text)
	if length <= limit {
		return core.CheckResult{
			Name:     core.CheckCharLimit,
			Passed:   true,
			Message:  fmt.Sprintf("%d/%d characters", length, limit),
			Severity: core.SeverityError,
		}
	}
	return core.CheckResult{
		Name:     core.CheckCharLimit,
		Passed:   false,
		Message:  fmt.Sprintf("Exceeds %s limit: %d/%d characters (%d over)", channel, length, limit, length-limit),
		Severity: core.SeverityError,
	}
}

func checkNotEmpty(text string) core.CheckResult {
	if strings.TrimSpace(text) != "" {
		return core.CheckResult{Name: core.CheckNotEmpty, Passed: true, Message: "Content is not empty", Severity: core.SeverityError}
	}
	return core.CheckResult{Name: core.CheckNotEmpty, Passed: false, Message: "Rendered content is empty", Severity: core.SeverityError}
}

// checkUnresolved fails on tracked unresolved paths, and independently on
// any "{{...}}" left in the text.
func checkUnresolved(text string, unresolved []string) core.CheckResult {
	if len(unresolved) > 0 {
		return core.CheckResult{
			Name:     core.CheckUnresolvedVars,
			Passed:   false,
			Message:  "Unresolved variables: " + strings.Join(unresolved, ", "),
			Severity: core.SeverityError,
		}
	}

	if leftover := leftoverMarkupRe.FindAllString(text, -1); len(leftover) > 0 {
		return core.CheckResult{
			Name:     core.CheckUnresolvedVars,
			Passed:   false,
			Message:  "Found unresolved template syntax: " + strings.Join(leftover, ", "),
			Severity: core.SeverityError,
		}
	}

	return core.CheckResult{Name: core.CheckUnresolvedVars, Passed: true, Message: "All variables resolved", Severity: core.SeverityError}
}

func (c *Checker) checkAntiPatterns(text string) core.CheckResult {
	folded := foldCase(text)

	var found []string
	for i, p := range c.folded {
		if p != "" && strings.Contains(folded, p) {
			found = append(found, c.antiPatterns[i])
		}
	}

	if len(found) > 0 {
		return core.CheckResult{
			Name:     core.CheckAntiPatterns,
			Passed:   false,
			Message:  "Anti-patterns found: " + strings.Join(found, ", "),
			Severity: core.SeverityWarning,
		}
	}
	return core.CheckResult{Name: core.CheckAntiPatterns, Passed: true, Message: "No anti-patterns found", Severity: core.SeverityWarning}
}

func checkHasLink(text string) core.CheckResult {
	if strings.Contains(text, "http://") || strings.Contains(text, "https://") {
		return core.CheckResult{Name: core.CheckHasLink, Passed: true, Message: "Contains at least one link", Severity: core.SeverityWarning}
	}
	return core.CheckResult{
		Name:     core.CheckHasLink,
		Passed:   false,
		Message:  "No links found: announcements should link to canonical content",
		Severity: core.SeverityWarning,
	}
}

func (c *Checker) checkHashtags(text, channel string) core.CheckResult {
	count := len(hashtagRe.FindAllString(text, -1))

	if ceiling, ok := c.hashtags[channel]; ok && count > ceiling {
		return core.CheckResult{
			Name:     core.CheckHashtagCount,
			Passed:   false,
			Message:  fmt.Sprintf("Too many hashtags for %s: %d (max %d)", DisplayName(channel), count, ceiling),
			Severity: core.SeverityWarning,
		}
	}
	return core.CheckResult{
		Name:     core.CheckHashtagCount,
		Passed:   true,
		Message:  fmt.Sprintf("%d hashtags, acceptable for %s", count, channel),
		Severity: core.SeverityWarning,
	}
}

// foldCase lowercases s for case-insensitive matching.
// Casers keep state, so each call builds its own.
func foldCase(s string) string {
	return cases.Lower(language.Und).String(s)
}
