// Package core defines the shared language of the kerygma system.
//
// This package contains:
//   - The context value union (Value, Map, List, String, Number, Bool, Null)
//   - Template and render result entities (Template, RenderResult)
//   - Quality report types (Severity, CheckResult, QualityReport)
//
// The Golden Rule: pkg/core imports ONLY stdlib.
// All other packages depend on core, not the reverse.
package core
