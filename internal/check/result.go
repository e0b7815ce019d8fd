package check

import (
	"mapcheck/internal/common"
	"mapcheck/internal/diagnostic"
)

// IssueKind classifies a member finding.
type IssueKind int

const (
	NullabilityMismatch         IssueKind = iota // absent-capable value copied into a slot that cannot be absent
	TypeIncompatibility                          // no conversion between the two types
	MissingSourceMember                          // destination member with no same-named source member
	MissingDestinationMember                     // reserved, never reported
	DangerousOverrideExpression                  // override expression calls something that may fail
	OverrideTypeMismatch                         // override expression yields a type the destination cannot take
	OverrideNullabilityRisk                      // override expression may yield an absent value
)

// String returns a human-readable name for the issue kind.
func (k IssueKind) String() string {
	switch k {
	case NullabilityMismatch:
		return "nullability_mismatch"
	case TypeIncompatibility:
		return "type_incompatibility"
	case MissingSourceMember:
		return "missing_source_member"
	case MissingDestinationMember:
		return "missing_destination_member"
	case DangerousOverrideExpression:
		return "dangerous_override_expression"
	case OverrideTypeMismatch:
		return "override_type_mismatch"
	case OverrideNullabilityRisk:
		return "override_nullability_risk"
	default:
		return common.UnknownStr
	}
}

// Severity returns the default severity of the issue kind.
func (k IssueKind) Severity() diagnostic.DiagnosticSeverity {
	switch k {
	case TypeIncompatibility, OverrideTypeMismatch:
		return diagnostic.DiagnosticError
	case NullabilityMismatch, DangerousOverrideExpression, OverrideNullabilityRisk:
		return diagnostic.DiagnosticWarning
	case MissingSourceMember, MissingDestinationMember:
		return diagnostic.DiagnosticInfo
	default:
		return diagnostic.DiagnosticInfo
	}
}

// IsOverrideFinding reports whether the kind comes from override expression validation.
func (k IssueKind) IsOverrideFinding() bool {
	return k == DangerousOverrideExpression || k == OverrideTypeMismatch || k == OverrideNullabilityRisk
}

// MemberIssue is a finding below the top-level pair, or an override finding
// for the pair itself when Path is empty.
type MemberIssue struct {
	Path        string                        `json:"path"`
	SourceType  string                        `json:"sourceType,omitempty"`
	DestType    string                        `json:"destType,omitempty"`
	Kind        IssueKind                     `json:"-"`
	Severity    diagnostic.DiagnosticSeverity `json:"severity"`
	Description string                        `json:"description"`
	Suggestions []string                      `json:"suggestions,omitempty"`
}

func newIssue(kind IssueKind, path, description string) MemberIssue {
	return MemberIssue{
		Path:        path,
		Kind:        kind,
		Severity:    kind.Severity(),
		Description: description,
	}
}

// Result is the verdict for one mapping call.
type Result struct {
	SourceType string
	DestType   string

	HasNullabilityIssue     bool
	NullabilityDetail       string
	HasIncompatibilityIssue bool
	IncompatibilityDetail   string

	MemberIssues []MemberIssue

	HasCircularReference bool
	MaxDepthReached      bool
}

// Clean reports whether the check found nothing at all.
func (r Result) Clean() bool {
	return !r.HasNullabilityIssue && !r.HasIncompatibilityIssue && len(r.MemberIssues) == 0
}

// IssuesOfKind returns the member issues of the given kind, in order.
func (r Result) IssuesOfKind(kind IssueKind) []MemberIssue {
	var res []MemberIssue

	for _, issue := range r.MemberIssues {
		if issue.Kind == kind {
			res = append(res, issue)
		}
	}

	return res
}

// IssuesAt returns the member issues reported at path.
func (r Result) IssuesAt(path string) []MemberIssue {
	var res []MemberIssue

	for _, issue := range r.MemberIssues {
		if issue.Path == path {
			res = append(res, issue)
		}
	}

	return res
}
