// Package diagnostic provides structured findings and the stable rule-code
// table of the mapping checker.
//
// Key capabilities:
//   - Severity levels (info, warning, error) with parsing for configuration
//   - Rule codes RULE-001 .. RULE-006 with fixed default severities
//   - Diagnostics grouped by severity, mergeable and renderable
package diagnostic
