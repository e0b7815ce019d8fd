// Package report turns check results into rule-coded diagnostics and renders
// them as text or JSON.
package report
