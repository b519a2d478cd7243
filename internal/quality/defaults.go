package quality

import (
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// DefaultChannelLimits returns the built-in character limits per channel.
func DefaultChannelLimits() map[string]int {
	return map[string]int{
		"mastodon": 500,
		"discord":  4096,
		"linkedin": 1300,
		"bluesky":  300,
		"twitter":  280,
	}
}

// DefaultHashtagLimits returns the built-in hashtag ceilings.
// Channels without an entry accept any number of hashtags.
func DefaultHashtagLimits() map[string]int {
	return map[string]int{
		"mastodon": 10,
		"linkedin": 5,
	}
}

// DefaultAntiPatterns returns the built-in filler and placeholder phrases.
func DefaultAntiPatterns() []string {
	return []string{
		"todo",
		"fixme",
		"hack",
		"placeholder",
		"lorem ipsum",
		"tbd",
		"coming soon",
		"stay tuned",
		"click here",
		"buy now",
	}
}

var displayNames = map[string]string{
	"linkedin": "LinkedIn",
	"bluesky":  "Bluesky",
	"twitter":  "Twitter",
}

// DisplayName returns the human-facing name of a channel.
func DisplayName(channel string) string {
	if name, ok := displayNames[channel]; ok {
		return name
	}
	return cases.Title(language.English).String(channel)
}
