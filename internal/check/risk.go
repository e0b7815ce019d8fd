package check

import (
	"fmt"
	"go/ast"
	"go/parser"
	"go/types"
	"strings"

	"mapcheck/internal/analyze"
	"mapcheck/internal/registry"
)

// riskyCalls matches callee names that may fail on invalid input.
type riskyCalls struct {
	names    map[string]struct{}
	prefixes []string
}

func newRiskyCalls(names, prefixes []string) riskyCalls {
	rc := riskyCalls{
		names:    make(map[string]struct{}, len(names)),
		prefixes: append([]string(nil), prefixes...),
	}

	for _, name := range names {
		rc.names[name] = struct{}{}
	}

	return rc
}

func (rc riskyCalls) matches(name string) bool {
	if _, ok := rc.names[name]; ok {
		return true
	}

	for _, prefix := range rc.prefixes {
		if prefix != "" && strings.HasPrefix(name, prefix) {
			return true
		}
	}

	return false
}

// validateTypeRules validates the rules registered for the pair as a whole.
// Member rules of the pair are validated while its members are walked.
func (r *run) validateTypeRules(ovSrc, ovDst, s *analyze.Descriptor) []MemberIssue {
	var issues []MemberIssue

	for _, rule := range r.reg.AllRulesFor(ovSrc, ovDst) {
		if rule.Member != "" {
			continue
		}

		issues = append(issues, r.validateRule(rule, s, ovDst)...)
	}

	return issues
}

// validateRule reports the risks of an override expression whose value is
// stored into a slot of type dest. Selectors on the expression parameter are
// resolved against source. Ignore rules carry no risk.
func (r *run) validateRule(rule registry.Rule, source, dest *analyze.Descriptor) []MemberIssue {
	if rule.Kind == registry.MemberIgnore || rule.Expr == nil {
		return nil
	}

	x := &exprCheck{
		param:  rule.Expr.ParamName(),
		source: analyze.UnderlyingIfOptional(source),
		dest:   dest,
		risky:  r.risky,
		seen:   make(map[string]struct{}),
	}

	if text := strings.TrimSpace(rule.Expr.Text); text != "" {
		// unparsable expressions yield no findings
		if expr, err := parser.ParseExpr(text); err == nil {
			x.inspect(expr)
		}
	}

	if rt := rule.Expr.ResultType; !analyze.IsUnknown(rt) && !analyze.IsUnknown(dest) {
		if analyze.CanBeAbsent(rt) && !analyze.CanBeAbsent(dest) && !x.absentResult {
			x.add(OverrideNullabilityRisk, rt,
				fmt.Sprintf("override expression yields %s but %s cannot represent absence", rt, dest))
		}

		if reason := shallowMismatch(rt, dest, r.opts.Conversions); reason != "" {
			x.add(OverrideTypeMismatch, rt, "override expression type is incompatible: "+reason)
		}
	}

	return x.issues
}

// exprCheck collects the findings for one override expression.
type exprCheck struct {
	param  string
	source *analyze.Descriptor
	dest   *analyze.Descriptor
	risky  riskyCalls

	issues       []MemberIssue
	seen         map[string]struct{}
	absentResult bool
}

func (x *exprCheck) add(kind IssueKind, sourceType *analyze.Descriptor, description string) {
	key := kind.String() + "|" + description
	if _, ok := x.seen[key]; ok {
		return
	}

	x.seen[key] = struct{}{}

	issue := newIssue(kind, "", description)
	if sourceType != nil {
		issue.SourceType = sourceType.String()
	}

	if !analyze.IsUnknown(x.dest) {
		issue.DestType = x.dest.String()
	}

	x.issues = append(x.issues, issue)
}

func (x *exprCheck) inspect(expr ast.Expr) {
	ast.Inspect(expr, func(n ast.Node) bool {
		switch n := n.(type) {
		case *ast.CallExpr:
			if name := calleeName(n.Fun); name != "" && x.risky.matches(name) {
				x.add(DangerousOverrideExpression, nil,
					fmt.Sprintf("call to %s may fail on invalid input", types.ExprString(n.Fun)))
			}

		case *ast.TypeAssertExpr:
			if n.Type != nil {
				x.add(DangerousOverrideExpression, nil,
					fmt.Sprintf("type assertion %s panics when the dynamic type differs", types.ExprString(n)))
			}

		case *ast.StarExpr:
			if t, ok := x.resolve(n.X); ok && analyze.CanBeAbsent(t) {
				x.add(OverrideNullabilityRisk, t,
					fmt.Sprintf("%s dereferences a value that may be absent", types.ExprString(n)))
			}

		case *ast.SelectorExpr:
			if chain, ok := selectorChain(n, x.param); ok {
				x.selector(chain)
				return false
			}
		}

		return true
	})

	if t, ok := x.resolve(expr); ok && analyze.CanBeAbsent(t) &&
		!analyze.IsUnknown(x.dest) && !analyze.CanBeAbsent(x.dest) {
		x.absentResult = true
		x.add(OverrideNullabilityRisk, t,
			fmt.Sprintf("%s may be absent but %s cannot represent absence", types.ExprString(expr), x.dest))
	}
}

// selector reports optional members dereferenced on the way to the leaf.
func (x *exprCheck) selector(chain []string) {
	cur := x.source

	for i, name := range chain {
		owner := analyze.UnderlyingIfOptional(cur)
		if !analyze.IsStructured(owner) {
			return
		}

		m := owner.FindMember(name)
		if m == nil {
			return
		}

		if i < len(chain)-1 && analyze.CanBeAbsent(m.Type) {
			x.add(OverrideNullabilityRisk, m.Type,
				fmt.Sprintf("%s.%s may be absent and is dereferenced by %s.%s",
					x.param, strings.Join(chain[:i+1], "."), x.param, strings.Join(chain, ".")))
		}

		cur = m.Type
	}
}

// resolve returns the type of a selector chain rooted at the parameter.
func (x *exprCheck) resolve(e ast.Expr) (*analyze.Descriptor, bool) {
	e = ast.Unparen(e)

	if id, ok := e.(*ast.Ident); ok && id.Name == x.param {
		return x.source, !analyze.IsUnknown(x.source)
	}

	sel, ok := e.(*ast.SelectorExpr)
	if !ok {
		return nil, false
	}

	chain, ok := selectorChain(sel, x.param)
	if !ok {
		return nil, false
	}

	cur := x.source
	for _, name := range chain {
		m := analyze.UnderlyingIfOptional(cur).FindMember(name)
		if m == nil {
			return nil, false
		}

		cur = m.Type
	}

	return cur, !analyze.IsUnknown(cur)
}

// selectorChain returns the member names of param.a.b.c, or false when the
// selector is not rooted at param.
func selectorChain(sel *ast.SelectorExpr, param string) ([]string, bool) {
	var chain []string

	var e ast.Expr = sel
	for {
		switch t := ast.Unparen(e).(type) {
		case *ast.SelectorExpr:
			chain = append([]string{t.Sel.Name}, chain...)
			e = t.X

		case *ast.Ident:
			return chain, t.Name == param && len(chain) > 0

		default:
			return nil, false
		}
	}
}

func calleeName(fun ast.Expr) string {
	switch f := ast.Unparen(fun).(type) {
	case *ast.Ident:
		return f.Name
	case *ast.SelectorExpr:
		return f.Sel.Name
	case *ast.IndexExpr:
		return calleeName(f.X)
	case *ast.IndexListExpr:
		return calleeName(f.X)
	default:
		return ""
	}
}
