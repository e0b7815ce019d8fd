package report

import (
	"strings"

	"mapcheck/internal/analyze"
	"mapcheck/internal/callsite"
	"mapcheck/internal/check"
	"mapcheck/internal/diagnostic"
)

// Options control the conversion of results into diagnostics.
type Options struct {
	// Severity replaces the default severity of a rule code.
	Severity map[string]diagnostic.DiagnosticSeverity
}

// Code returns the rule code of a member issue.
func Code(issue check.MemberIssue) string {
	switch issue.Kind {
	case check.NullabilityMismatch:
		return diagnostic.CodeMemberNullability
	case check.TypeIncompatibility:
		return diagnostic.CodeMemberIncompatible
	case check.MissingSourceMember:
		if isDirectMember(issue.Path) {
			return diagnostic.CodeMissingSource
		}

		return diagnostic.CodeMemberMissing
	case check.DangerousOverrideExpression:
		return diagnostic.CodeDangerousOverride
	case check.OverrideTypeMismatch:
		return diagnostic.CodeOverrideType
	case check.OverrideNullabilityRisk:
		return diagnostic.CodeOverrideNullable
	case check.MissingDestinationMember:
		return ""
	default:
		return ""
	}
}

// isDirectMember reports whether path names a member of the mapped type itself.
func isDirectMember(path string) bool {
	return path != "" && !strings.Contains(path, ".") && path != analyze.ElementSegment
}

// FromResult converts the verdict of one mapping call into diagnostics.
// It returns the number of findings dropped because the call acknowledged
// the risk.
func FromResult(call callsite.MappingCall, res check.Result, opts Options) (diagnostic.Diagnostics, int) {
	var (
		diags      diagnostic.Diagnostics
		suppressed int
	)

	pair := call.Pair()
	loc := call.Location.String()

	add := func(code, message, path string, suggestions []string) {
		if code == "" {
			return
		}

		severity := diagnostic.DefaultSeverity(code)
		if s, ok := opts.Severity[code]; ok {
			severity = s
		}

		// acknowledged calls accept warnings, never errors or infos
		if call.RiskAcknowledged && severity == diagnostic.DiagnosticWarning {
			suppressed++
			return
		}

		diags.Add(diagnostic.Diagnostic{
			Severity:    severity,
			Code:        code,
			Message:     message,
			TypePair:    pair,
			FieldPath:   path,
			Location:    loc,
			Suggestions: suggestions,
		})
	}

	if res.HasNullabilityIssue {
		add(diagnostic.CodeNullability, res.NullabilityDetail, "", nil)
	}

	if res.HasIncompatibilityIssue {
		add(diagnostic.CodeIncompatible, res.IncompatibilityDetail, "", nil)
	}

	for _, issue := range res.MemberIssues {
		message := issue.Description
		if len(issue.Suggestions) > 0 {
			message += " (did you mean " + strings.Join(issue.Suggestions, ", ") + "?)"
		}

		add(Code(issue), message, issue.Path, issue.Suggestions)
	}

	return diags, suppressed
}
