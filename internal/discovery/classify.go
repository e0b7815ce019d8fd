package discovery

import (
	"strings"

	"mapcheck/internal/registry"
)

var chainMethods = map[string]registry.RuleKind{
	"formember":      registry.MemberMap,
	"mapfrom":        registry.MemberMap,
	"ignore":         registry.MemberIgnore,
	"donotmap":       registry.MemberIgnore,
	"convertusing":   registry.CustomConstructor,
	"constructusing": registry.CustomConstructor,
	"condition":      registry.ConditionalMemberMap,
	"precondition":   registry.ConditionalMemberMap,
	"mapfromif":      registry.ConditionalMemberMap,
}

// Classify maps a chain method name to the kind of rule it declares.
// Matching ignores case and underscores, so "ForMember" and "for_member"
// are the same method.
func Classify(method string) (registry.RuleKind, bool) {
	kind, ok := chainMethods[strings.ToLower(strings.ReplaceAll(method, "_", ""))]
	return kind, ok
}
