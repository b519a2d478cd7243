package output

import (
	"time"

	"github.com/leapstack-labs/kerygma/pkg/core"
)

// ListOutput is the JSON shape of `kerygma list`.
type ListOutput struct {
	Templates []TemplateInfo `json:"templates"`
	Summary   ListSummary    `json:"summary"`
}

// TemplateInfo describes one registered template.
type TemplateInfo struct {
	TemplateID string   `json:"template_id"`
	Category   string   `json:"category"`
	Channels   []string `json:"channels"`
	Variables  []string `json:"variables"`
	Source     string   `json:"source,omitempty"`
}

// ListSummary counts the listed templates.
type ListSummary struct {
	TotalTemplates int            `json:"total_templates"`
	ByCategory     map[string]int `json:"by_category"`
	Channels       []string       `json:"channels"`
}

// ValidateOutput is the JSON shape of `kerygma validate`.
type ValidateOutput struct {
	Results []ValidateResult `json:"results"`
	Valid   int              `json:"valid"`
	Total   int              `json:"total"`
}

// ValidateResult is the outcome of one template/channel render.
type ValidateResult struct {
	TemplateID     string   `json:"template_id"`
	Channel        string   `json:"channel"`
	OK             bool     `json:"ok"`
	Error          string   `json:"error,omitempty"`
	UnresolvedVars []string `json:"unresolved_vars,omitempty"`
}

// CheckOutput is the JSON shape of `kerygma check`.
type CheckOutput struct {
	Passed   bool                `json:"passed"`
	Summary  string              `json:"summary"`
	Text     string              `json:"text"`
	Report   *core.QualityReport `json:"report"`
	RecordID string              `json:"record_id,omitempty"`
}

// HistoryOutput is the JSON shape of `kerygma history`.
type HistoryOutput struct {
	Runs []HistoryRun `json:"runs"`
}

// HistoryRun is one recorded quality report.
type HistoryRun struct {
	ID         string    `json:"id"`
	TemplateID string    `json:"template_id"`
	Channel    string    `json:"channel"`
	Passed     bool      `json:"passed"`
	Failed     []string  `json:"failed_checks"`
	RecordedAt time.Time `json:"recorded_at"`
}
