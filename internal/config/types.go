package config

import "github.com/leapstack-labs/kerygma/internal/quality"

// QualityConfig overrides the quality checker tables.
// Omitted tables keep the built-in defaults; an empty table clears them.
type QualityConfig struct {
	ChannelLimits map[string]int `koanf:"channel_limits"`
	HashtagLimits map[string]int `koanf:"hashtag_limits"`
	AntiPatterns  []string       `koanf:"anti_patterns"`
}

// Checker builds a quality checker from the overrides.
func (q QualityConfig) Checker() *quality.Checker {
	return quality.New(quality.Config{
		ChannelLimits: q.ChannelLimits,
		HashtagLimits: q.HashtagLimits,
		AntiPatterns:  q.AntiPatterns,
	})
}
