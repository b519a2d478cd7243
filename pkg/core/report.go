package core

import "fmt"

// Quality check names, in the order the checker runs them.
const (
	CheckCharLimit      = "char_limit"
	CheckNotEmpty       = "not_empty"
	CheckUnresolvedVars = "unresolved_vars"
	CheckAntiPatterns   = "anti_patterns"
	CheckHasLink        = "has_link"
	CheckHashtagCount   = "hashtag_count"
)

// CheckResult is the outcome of a single quality check.
type CheckResult struct {
	Name     string   `json:"name"`
	Passed   bool     `json:"passed"`
	Message  string   `json:"message"`
	Severity Severity `json:"severity"`
}

// QualityReport aggregates the check results for a rendered announcement.
type QualityReport struct {
	TemplateID string        `json:"template_id"`
	Channel    string        `json:"channel"`
	Checks     []CheckResult `json:"checks"`
}

// Passed is true when no error-severity check failed.
// Warnings and info results never block.
func (r *QualityReport) Passed() bool {
	for _, c := range r.Checks {
		if c.Severity == SeverityError && !c.Passed {
			return false
		}
	}
	return true
}

// Errors returns the failed error-severity checks.
func (r *QualityReport) Errors() []CheckResult {
	return r.failed(SeverityError)
}

// Warnings returns the failed warning-severity checks.
func (r *QualityReport) Warnings() []CheckResult {
	return r.failed(SeverityWarning)
}

func (r *QualityReport) failed(sev Severity) []CheckResult {
	var out []CheckResult
	for _, c := range r.Checks {
		if !c.Passed && c.Severity == sev {
			out = append(out, c)
		}
	}
	return out
}

// Check returns the result with the given name.
func (r *QualityReport) Check(name string) (CheckResult, bool) {
	for _, c := range r.Checks {
		if c.Name == name {
			return c, true
		}
	}
	return CheckResult{}, false
}

// Summary returns a one-line status, e.g. "[PASS] repo-launch/mastodon: 5/6 checks passed".
func (r *QualityReport) Summary() string {
	passed := 0
	for _, c := range r.Checks {
		if c.Passed {
			passed++
		}
	}
	status := "PASS"
	if !r.Passed() {
		status = "FAIL"
	}
	return fmt.Sprintf("[%s] %s/%s: %d/%d checks passed", status, r.TemplateID, r.Channel, passed, len(r.Checks))
}
