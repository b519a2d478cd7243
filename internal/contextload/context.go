package contextload

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/leapstack-labs/kerygma/pkg/core"
)

// System-wide values exposed to templates under "system".
const (
	SystemName    = "organvm"
	SystemOrgans  = 8
	SystemSiteURL = "https://organvm-v-logos.github.io/public-process/"
	SystemPrefix  = "organvm"
)

// DefaultTone is the project voice tone when a profile does not set one.
const DefaultTone = "neutral"

// EventContext describes the event being announced.
type EventContext struct {
	EventType string
	RepoName  string
	Organ     string
	Title     string // defaults to "New <EventType>"
	Summary   string
	URL       string
	Version   string
	Date      string // YYYY-MM-DD, defaults to today
	Tags      []string
	Extras    map[string]any // merged into the event map, overriding built-in keys
}

// Profile carries per-project voice settings.
type Profile struct {
	DisplayName string `yaml:"display_name"`
	Voice       Voice  `yaml:"voice"`
}

// Voice is the tone and tagging used in a project's announcements.
type Voice struct {
	Tagline  string   `yaml:"tagline"`
	Hashtags []string `yaml:"hashtags"`
	Tone     string   `yaml:"tone"`
}

// LoadProfile reads a YAML project profile.
func LoadProfile(path string) (*Profile, error) {
	data, err := os.ReadFile(path) //nolint:gosec // profile path is user configuration
	if err != nil {
		return nil, fmt.Errorf("read profile: %w", err)
	}
	var p Profile
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("parse profile %s: %w", path, err)
	}
	return &p, nil
}

// BuildContext assembles the render context for an event.
//
// The result has "event", "repo" and "system" maps, plus "project" when a
// profile is given. repoName overrides event.RepoName for the registry
// lookup; an unknown repository yields a repo map built from the event.
func (l *Loader) BuildContext(event EventContext, repoName string, profile *Profile) core.Value {
	title := event.Title
	if title == "" {
		title = "New " + event.EventType
	}
	date := event.Date
	if date == "" {
		date = l.now().Format("2006-01-02")
	}
	tags := make(core.List, len(event.Tags))
	for i, tag := range event.Tags {
		tags[i] = core.String(tag)
	}

	eventMap := core.Map{
		"type":    core.String(event.EventType),
		"title":   core.String(title),
		"summary": core.String(event.Summary),
		"url":     core.String(event.URL),
		"version": core.String(event.Version),
		"date":    core.String(date),
		"tags":    tags,
	}
	for k, v := range event.Extras {
		eventMap[k] = core.FromAny(v)
	}

	target := repoName
	if target == "" {
		target = event.RepoName
	}

	var repoMap core.Map
	if repo, ok := l.GetRepo(target); ok && target != "" {
		repoMap = core.Map{
			"name":                  core.String(repo.Name),
			"organ":                 core.String(repo.Organ),
			"description":           core.String(repo.Description),
			"tier":                  core.String(repo.Tier),
			"url":                   core.String(repo.URL),
			"implementation_status": core.String(repo.ImplementationStatus),
		}
	} else {
		repoMap = core.Map{
			"name":        core.String(target),
			"organ":       core.String(event.Organ),
			"description": core.String(""),
			"tier":        core.String(""),
			"url":         core.String(event.URL),
		}
	}

	ctx := core.Map{
		"event": eventMap,
		"repo":  repoMap,
		"system": core.Map{
			"name":         core.String(SystemName),
			"total_organs": core.Number(SystemOrgans),
			"site_url":     core.String(SystemSiteURL),
			"org_prefix":   core.String(SystemPrefix),
		},
	}

	if profile != nil {
		tone := profile.Voice.Tone
		if tone == "" {
			tone = DefaultTone
		}
		ctx["project"] = core.Map{
			"name":     core.String(profile.DisplayName),
			"tagline":  core.String(profile.Voice.Tagline),
			"hashtags": core.String(strings.Join(profile.Voice.Hashtags, " ")),
			"tone":     core.String(tone),
		}
	}

	return ctx
}

// ReadContextFile reads a render context from a JSON or YAML file.
// The document root must be an object.
func ReadContextFile(path string) (core.Value, error) {
	data, err := os.ReadFile(path) //nolint:gosec // context path is user input
	if err != nil {
		return nil, fmt.Errorf("read context: %w", err)
	}

	var doc any
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &doc)
	default:
		err = json.Unmarshal(data, &doc)
	}
	if err != nil {
		return nil, fmt.Errorf("parse context %s: %w", path, err)
	}

	value := core.FromAny(doc)
	if value.Kind() != core.KindMap {
		return nil, fmt.Errorf("context %s: root must be an object, got %s", path, value.Kind())
	}
	return value, nil
}

// SampleContext returns the demo context used when no event is supplied.
func SampleContext() core.Value {
	return core.Map{
		"repo": core.Map{
			"name":                  core.String("sample-repo"),
			"organ":                 core.String("i-theoria"),
			"description":           core.String("A sample repository for testing"),
			"tier":                  core.String("standard"),
			"url":                   core.String("https://github.com/organvm-i-theoria/sample-repo"),
			"implementation_status": core.String("PRODUCTION"),
		},
		"event": core.Map{
			"type":         core.String("repo-launch"),
			"title":        core.String("Sample Event"),
			"summary":      core.String("This is a sample event for template testing."),
			"url":          core.String(SystemSiteURL),
			"version":      core.String("1.0.0"),
			"date":         core.String("2026-02-17"),
			"tags":         core.List{core.String("organvm"), core.String("launch")},
			"series_name":  core.String("Meta-System Essays"),
			"part_number":  core.String("1"),
			"quote":        core.String("The system is the artwork."),
			"book_title":   core.String("Gödel, Escher, Bach"),
			"author":       core.String("Douglas Hofstadter"),
			"time":         core.String("18:00 UTC"),
			"location":     core.String("Online"),
			"duration":     core.String("2 hours"),
			"contact":      core.String("hello@organvm.example"),
			"partner_name": core.String("Example Foundation"),
			"funder":       core.String("Knight Foundation"),
		},
		"system": core.Map{
			"name":         core.String(SystemName),
			"total_organs": core.Number(SystemOrgans),
			"site_url":     core.String(SystemSiteURL),
		},
	}
}
