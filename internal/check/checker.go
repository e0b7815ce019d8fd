package check

import (
	"fmt"

	"mapcheck/internal/analyze"
	"mapcheck/internal/match"
	"mapcheck/internal/registry"
	"mapcheck/primitive"
)

// DefaultMaxDepth bounds member recursion below the top-level pair.
const DefaultMaxDepth = 5

var (
	// DefaultRiskyNames are callee names treated as failure-prone in override expressions.
	DefaultRiskyNames = []string{"Atoi", "Unmarshal", "Decode", "ToInt32", "ToInt64", "ToDecimal", "ToDateTime"}
	// DefaultRiskyPrefixes are callee name prefixes treated as failure-prone.
	DefaultRiskyPrefixes = []string{"Parse", "Must"}
)

// Options tune a Checker. Zero MaxDepth and nil risky sets fall back to the
// defaults; Conversions is used as given, so CategoryNone disables every
// conversion between distinct primitive kinds.
type Options struct {
	MaxDepth      int
	Conversions   primitive.CategoryEnum
	RiskyNames    []string
	RiskyPrefixes []string
}

// DefaultOptions returns the options used when nothing is configured.
func DefaultOptions() Options {
	return Options{
		MaxDepth:      DefaultMaxDepth,
		Conversions:   primitive.DefaultCategories,
		RiskyNames:    DefaultRiskyNames,
		RiskyPrefixes: DefaultRiskyPrefixes,
	}
}

// Checker checks mapping calls against a frozen override registry.
type Checker struct {
	reg   *registry.Registry
	opts  Options
	risky riskyCalls
}

// NewChecker creates a checker. A nil registry behaves like an empty one.
func NewChecker(reg *registry.Registry, opts Options) *Checker {
	if reg == nil {
		reg = registry.New()
		reg.Freeze()
	}

	if opts.MaxDepth <= 0 {
		opts.MaxDepth = DefaultMaxDepth
	}

	if opts.RiskyNames == nil {
		opts.RiskyNames = DefaultRiskyNames
	}

	if opts.RiskyPrefixes == nil {
		opts.RiskyPrefixes = DefaultRiskyPrefixes
	}

	return &Checker{
		reg:   reg,
		opts:  opts,
		risky: newRiskyCalls(opts.RiskyNames, opts.RiskyPrefixes),
	}
}

// Options returns the effective options.
func (c *Checker) Options() Options {
	return c.opts
}

// Check compares source against dest. Destination members listed in
// excluded are assigned by the caller after the mapping and are skipped on
// the root pair.
func (c *Checker) Check(source, dest *analyze.Descriptor, excluded []string) Result {
	res := Result{
		SourceType: source.String(),
		DestType:   dest.String(),
	}

	if analyze.IsUnknown(source) || analyze.IsUnknown(dest) || analyze.Identical(source, dest) {
		return res
	}

	r := newRun(c, source, dest, excluded)
	v := r.compare(source, dest, 0)

	res.HasNullabilityIssue, res.NullabilityDetail = v.nullable, v.nullDetail
	res.HasIncompatibilityIssue, res.IncompatibilityDetail = v.incompatible, v.reason
	res.MemberIssues = v.issues
	res.HasCircularReference = r.circular
	res.MaxDepthReached = r.maxDepthReached

	return res
}

// run is the state of a single Check call.
type run struct {
	*Checker

	root     registry.Pair
	rootSrc  *analyze.Descriptor
	rootDst  *analyze.Descriptor
	excluded map[string]struct{}

	cache map[registry.Pair][]MemberIssue
	stack map[registry.Pair]struct{}

	circular        bool
	maxDepthReached bool
}

func newRun(c *Checker, source, dest *analyze.Descriptor, excluded []string) *run {
	// member rules of a collection mapping belong to its element pair
	s, d := innermostElements(analyze.UnderlyingIfOptional(source), analyze.UnderlyingIfOptional(dest))

	r := &run{
		Checker: c,
		root:    registry.PairOf(s, d),
		rootSrc: s,
		rootDst: d,
		cache:   make(map[registry.Pair][]MemberIssue),
		stack:   make(map[registry.Pair]struct{}),
	}

	if len(excluded) > 0 {
		r.excluded = make(map[string]struct{}, len(excluded))
		for _, name := range excluded {
			r.excluded[name] = struct{}{}
		}
	}

	return r
}

// verdict is the outcome of comparing one pair. Issues are relative to the pair.
type verdict struct {
	nullable     bool
	nullDetail   string
	incompatible bool
	reason       string
	issues       []MemberIssue
}

// compare runs the nullability and fundamental checks for a pair, replacing
// the latter by override validation when the pair has type-level rules.
func (r *run) compare(src, dst *analyze.Descriptor, depth int) verdict {
	var v verdict

	if analyze.IsUnknown(src) || analyze.IsUnknown(dst) || analyze.Identical(src, dst) {
		return v
	}

	if analyze.CanBeAbsent(src) && !analyze.CanBeAbsent(dst) {
		v.nullable = true
		v.nullDetail = fmt.Sprintf("%s may be absent but %s cannot represent absence", src, dst)
	}

	s, d := analyze.UnderlyingIfOptional(src), analyze.UnderlyingIfOptional(dst)
	if analyze.IsUnknown(s) || analyze.IsUnknown(d) {
		return v
	}

	if ovSrc, ovDst, ok := r.typeOverride(src, dst, s, d); ok {
		v.issues = r.validateTypeRules(ovSrc, ovDst, s)
		if r.reg.HasRuleOfKind(ovSrc, ovDst, registry.CustomConstructor) {
			return v
		}

		v.issues = append(v.issues, r.descend(s, d, depth)...)

		return v
	}

	if reason := r.mismatch(s, d); reason != "" {
		v.incompatible, v.reason = true, reason
		return v
	}

	switch {
	case analyze.IsCollection(s):
		issues, broken := r.elements(s, d, depth)
		v.issues = issues

		if broken {
			v.incompatible = true
			v.reason = fmt.Sprintf("elements of %s cannot be mapped to elements of %s", s, d)
		}

	case analyze.IsStructured(s):
		v.issues = r.analyze(s, d, depth)
	}

	return v
}

// typeOverride finds the pair under which type-level rules are registered,
// trying the given pair before the unwrapped one.
func (r *run) typeOverride(src, dst, s, d *analyze.Descriptor) (*analyze.Descriptor, *analyze.Descriptor, bool) {
	if r.reg.HasMapping(src, dst) {
		return src, dst, true
	}

	if (s != src || d != dst) && r.reg.HasMapping(s, d) {
		return s, d, true
	}

	return nil, nil, false
}

// descend analyzes the inside of a pair whose fundamental checks were lifted
// by an override.
func (r *run) descend(s, d *analyze.Descriptor, depth int) []MemberIssue {
	switch {
	case analyze.IsStructured(s) && analyze.IsStructured(d):
		return r.analyze(s, d, depth)

	case analyze.IsCollection(s) && analyze.IsCollection(d):
		issues, _ := r.elements(s, d, depth)
		return issues

	default:
		return nil
	}
}

// mismatch returns why two unwrapped types can never be mapped onto each
// other, or "" when they are compatible at this level. Members and
// collection elements are not inspected.
func (r *run) mismatch(s, d *analyze.Descriptor) string {
	return mismatch(s, d, r.opts.Conversions)
}

func mismatch(s, d *analyze.Descriptor, conversions primitive.CategoryEnum) string {
	if analyze.IsUnknown(s) || analyze.IsUnknown(d) || analyze.Identical(s, d) {
		return ""
	}

	switch {
	case analyze.IsValueCategory(s) && analyze.IsReferenceCategory(d),
		analyze.IsReferenceCategory(s) && analyze.IsValueCategory(d):
		return fmt.Sprintf("value type %s cannot be mapped to or from reference type %s", nonRef(s, d), ref(s, d))

	case analyze.IsCollection(s) && analyze.IsCollection(d):
		if !CollectionKindsCompatible(s.Collection, d.Collection) {
			return fmt.Sprintf("%s cannot be mapped to %s without an explicit mapping", s.Collection, d.Collection)
		}

		if s.Collection == analyze.CollectionMap {
			sk, dk := analyze.KeyType(s), analyze.KeyType(d)
			if reason := mismatch(sk, dk, conversions); reason != "" {
				return fmt.Sprintf("map key %s cannot be mapped to %s", sk, dk)
			}
		}

		return ""

	case analyze.IsCollection(s) != analyze.IsCollection(d):
		return fmt.Sprintf("%s cannot be mapped to %s: only one side is a collection", s, d)

	case analyze.IsStructured(s) && analyze.IsStructured(d):
		if !sharesMemberName(s, d) {
			return fmt.Sprintf("%s and %s have no members in common", s, d)
		}

		return ""

	case s.Kind == analyze.KindPrimitive && d.Kind == analyze.KindPrimitive:
		if res := match.ScoreCompatibility(s, d, conversions); !res.Compatibility.Compatible() {
			return fmt.Sprintf("%s cannot be converted to %s: %s", s, d, res.Reason)
		}

		return ""

	default:
		return fmt.Sprintf("%s %s cannot be mapped to %s %s", s.Kind, s, d.Kind, d)
	}
}

// shallowMismatch is mismatch applied through nested collection elements.
func shallowMismatch(s, d *analyze.Descriptor, conversions primitive.CategoryEnum) string {
	s, d = analyze.UnderlyingIfOptional(s), analyze.UnderlyingIfOptional(d)

	if reason := mismatch(s, d, conversions); reason != "" {
		return reason
	}

	if analyze.IsCollection(s) && analyze.IsCollection(d) {
		return shallowMismatch(analyze.ElementType(s), analyze.ElementType(d), conversions)
	}

	return ""
}

func sharesMemberName(s, d *analyze.Descriptor) bool {
	for _, m := range d.Members {
		if s.FindMember(m.Name) != nil {
			return true
		}
	}

	return false
}

func ref(s, d *analyze.Descriptor) *analyze.Descriptor {
	if analyze.IsReferenceCategory(s) {
		return s
	}

	return d
}

func nonRef(s, d *analyze.Descriptor) *analyze.Descriptor {
	if analyze.IsReferenceCategory(s) {
		return d
	}

	return s
}

func prefixIssues(prefix string, issues []MemberIssue) []MemberIssue {
	if len(issues) == 0 {
		return nil
	}

	res := make([]MemberIssue, len(issues))
	for i, issue := range issues {
		issue.Path = analyze.JoinPath(prefix, issue.Path)
		res[i] = issue
	}

	return res
}
