package diagnostic

import "sort"

// Rule codes reported by the mapping checker. The "M" variants are reported
// for members of the mapped types, the plain codes for the types themselves.
const (
	CodeNullability        = "RULE-001"
	CodeMemberNullability  = "RULE-001M"
	CodeIncompatible       = "RULE-002"
	CodeMemberIncompatible = "RULE-002M"
	CodeMissingSource      = "RULE-003"
	CodeMemberMissing      = "RULE-003M"
	CodeDangerousOverride  = "RULE-004"
	CodeOverrideType       = "RULE-005"
	CodeOverrideNullable   = "RULE-006"
)

// Rule describes one entry of the rule table.
type Rule struct {
	Code     string             `json:"code"`
	Title    string             `json:"title"`
	Severity DiagnosticSeverity `json:"severity"`
}

var rules = map[string]Rule{
	CodeNullability:        {CodeNullability, "nullability mismatch", DiagnosticWarning},
	CodeMemberNullability:  {CodeMemberNullability, "member nullability mismatch", DiagnosticWarning},
	CodeIncompatible:       {CodeIncompatible, "incompatible types", DiagnosticError},
	CodeMemberIncompatible: {CodeMemberIncompatible, "incompatible member types", DiagnosticError},
	CodeMissingSource:      {CodeMissingSource, "missing source member", DiagnosticInfo},
	CodeMemberMissing:      {CodeMemberMissing, "missing nested source member", DiagnosticInfo},
	CodeDangerousOverride:  {CodeDangerousOverride, "override expression may fail at runtime", DiagnosticWarning},
	CodeOverrideType:       {CodeOverrideType, "override expression type is incompatible with destination", DiagnosticError},
	CodeOverrideNullable:   {CodeOverrideNullable, "override expression may yield an absent value", DiagnosticWarning},
}

// LookupRule returns the rule table entry for a code.
func LookupRule(code string) (Rule, bool) {
	r, ok := rules[code]
	return r, ok
}

// DefaultSeverity returns the default severity of a code, or info for unknown codes.
func DefaultSeverity(code string) DiagnosticSeverity {
	if r, ok := rules[code]; ok {
		return r.Severity
	}

	return DiagnosticInfo
}

// Rules returns the rule table sorted by code.
func Rules() []Rule {
	res := make([]Rule, 0, len(rules))
	for _, r := range rules {
		res = append(res, r)
	}

	sort.Slice(res, func(i, j int) bool { return res[i].Code < res[j].Code })

	return res
}
