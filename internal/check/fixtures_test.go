package check

import (
	"testing"

	"github.com/stretchr/testify/require"

	"mapcheck/internal/analyze"
	"mapcheck/internal/callsite"
	"mapcheck/internal/registry"
	"mapcheck/primitive"
)

var (
	text  = analyze.NewPrimitive(primitive.KindString)
	num   = analyze.NewPrimitive(primitive.KindInt64)
	small = analyze.NewPrimitive(primitive.KindInt16)
)

func tid(name string) analyze.TypeID {
	return analyze.TypeID{PkgPath: "example.com/shop", Name: name}
}

// personTypes returns Person{id: text, name: ?text} and PersonDto{id: numeric, name: text}.
func personTypes() (*analyze.Descriptor, *analyze.Descriptor) {
	src := analyze.NewStructured(tid("Person"),
		analyze.Field("id", text),
		analyze.Field("name", analyze.NewOptional(text)),
	)
	dst := analyze.NewStructured(tid("PersonDto"),
		analyze.Field("id", num),
		analyze.Field("name", text),
	)

	return src, dst
}

func frozen(t *testing.T, setup func(reg *registry.Registry)) *registry.Registry {
	t.Helper()

	reg := registry.New()
	if setup != nil {
		setup(reg)
	}

	reg.Freeze()

	return reg
}

func memberRule(t *testing.T, reg *registry.Registry, src, dst *analyze.Descriptor, kind registry.RuleKind, member, expr string) {
	t.Helper()

	rule := registry.Rule{Kind: kind, Member: member}
	if expr != "" {
		rule.Expr = &callsite.Expression{Text: expr}
	}

	require.NoError(t, reg.RegisterMember(src, dst, rule))
}

func kinds(issues []MemberIssue) []IssueKind {
	var res []IssueKind
	for _, issue := range issues {
		res = append(res, issue.Kind)
	}

	return res
}

func paths(issues []MemberIssue) []string {
	var res []string
	for _, issue := range issues {
		res = append(res, issue.Path)
	}

	return res
}
