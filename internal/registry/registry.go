// Package registry stores user-declared override rules for type pairs and
// their members.
//
// A Registry is built during discovery, frozen, and then only read while
// mapping calls are checked. Lookups use exact pair identity: a rule declared
// for (S, D) never applies to (S', D) even when S' is structurally equal to S.
package registry

import (
	"errors"
	"fmt"

	"mapcheck/internal/analyze"
	"mapcheck/internal/callsite"
	"mapcheck/internal/common"
)

var (
	// ErrFrozen is returned when registering into a frozen registry.
	ErrFrozen = errors.New("registry is frozen")
	// ErrUnresolvedType is returned when either side of the pair is unknown.
	ErrUnresolvedType = errors.New("unresolved type in override pair")
	// ErrMissingMember is returned for member rules without a member name.
	ErrMissingMember = errors.New("member rule without member name")
)

// RuleKind is the kind of an override rule.
type RuleKind int

const (
	MemberMap            RuleKind = iota // explicit source expression for a member
	MemberIgnore                         // member intentionally left unmapped
	CustomConstructor                    // user code builds the whole destination
	ConditionalMemberMap                 // member mapped only when a condition holds
)

// String returns a human-readable name for the rule kind.
func (k RuleKind) String() string {
	switch k {
	case MemberMap:
		return "member_map"
	case MemberIgnore:
		return "member_ignore"
	case CustomConstructor:
		return "custom_constructor"
	case ConditionalMemberMap:
		return "conditional_member_map"
	default:
		return common.UnknownStr
	}
}

// IsMemberKind reports whether rules of this kind target a single member.
func (k RuleKind) IsMemberKind() bool {
	switch k {
	case MemberMap, MemberIgnore, ConditionalMemberMap:
		return true
	case CustomConstructor:
		return false
	default:
		return false
	}
}

// Rule is an immutable override declaration.
type Rule struct {
	Kind     RuleKind
	Member   string
	Expr     *callsite.Expression
	Location callsite.Location
}

// Pair is the identity of a (source, destination) type pair.
type Pair struct {
	Source string
	Dest   string
}

// PairOf returns the identity of the pair of descriptors.
func PairOf(src, dst *analyze.Descriptor) Pair {
	return Pair{Source: src.Key(), Dest: dst.Key()}
}

// String returns "Source->Dest".
func (p Pair) String() string {
	return p.Source + "->" + p.Dest
}

// Registry holds the override rules of one analysis run.
// Registration is not safe for concurrent use; once frozen the registry is
// read-only and may be shared by any number of goroutines.
type Registry struct {
	typeLevel   map[Pair][]Rule
	memberLevel map[Pair]map[string]Rule
	frozen      bool
}

// New creates an empty, writable registry.
func New() *Registry {
	return &Registry{
		typeLevel:   make(map[Pair][]Rule),
		memberLevel: make(map[Pair]map[string]Rule),
	}
}

// RegisterMember registers a member-targeting rule. It is recorded both as a
// type-level rule and under its member name; an earlier rule for the same
// member is replaced in both places.
func (r *Registry) RegisterMember(src, dst *analyze.Descriptor, rule Rule) error {
	if err := r.checkWritable(src, dst); err != nil {
		return err
	}

	if rule.Member == "" {
		return fmt.Errorf("%w (%s)", ErrMissingMember, rule.Kind)
	}

	pair := PairOf(src, dst)

	members, ok := r.memberLevel[pair]
	if !ok {
		members = make(map[string]Rule)
		r.memberLevel[pair] = members
	}

	_, replacing := members[rule.Member]
	members[rule.Member] = rule

	if replacing {
		rules := r.typeLevel[pair]
		for i := range rules {
			if rules[i].Kind.IsMemberKind() && rules[i].Member == rule.Member {
				rules[i] = rule
				return nil
			}
		}
	}

	r.typeLevel[pair] = append(r.typeLevel[pair], rule)

	return nil
}

// RegisterTypeLevel registers a rule for the pair as a whole.
// Member-targeting rules are delegated to RegisterMember.
func (r *Registry) RegisterTypeLevel(src, dst *analyze.Descriptor, rule Rule) error {
	if rule.Kind.IsMemberKind() {
		return r.RegisterMember(src, dst, rule)
	}

	if err := r.checkWritable(src, dst); err != nil {
		return err
	}

	pair := PairOf(src, dst)
	r.typeLevel[pair] = append(r.typeLevel[pair], rule)

	return nil
}

func (r *Registry) checkWritable(src, dst *analyze.Descriptor) error {
	if r.frozen {
		return ErrFrozen
	}

	if analyze.IsUnknown(src) || analyze.IsUnknown(dst) {
		return ErrUnresolvedType
	}

	return nil
}

// Freeze makes the registry read-only.
func (r *Registry) Freeze() {
	r.frozen = true
}

// Frozen reports whether Freeze was called.
func (r *Registry) Frozen() bool {
	return r.frozen
}

// HasMapping reports whether any rule is registered for the pair.
func (r *Registry) HasMapping(src, dst *analyze.Descriptor) bool {
	return len(r.typeLevel[PairOf(src, dst)]) > 0
}

// HasMemberMapping reports whether a rule exists for the member of the pair.
func (r *Registry) HasMemberMapping(src, dst *analyze.Descriptor, member string) bool {
	_, ok := r.GetMemberMapping(src, dst, member)
	return ok
}

// GetMemberMapping returns the rule for the member of the pair.
func (r *Registry) GetMemberMapping(src, dst *analyze.Descriptor, member string) (Rule, bool) {
	rule, ok := r.memberLevel[PairOf(src, dst)][member]
	return rule, ok
}

// HasRuleOfKind reports whether the pair has a rule of the given kind.
func (r *Registry) HasRuleOfKind(src, dst *analyze.Descriptor, kind RuleKind) bool {
	for _, rule := range r.typeLevel[PairOf(src, dst)] {
		if rule.Kind == kind {
			return true
		}
	}

	return false
}

// AllRulesFor returns a copy of the rules registered for the pair, in
// registration order.
func (r *Registry) AllRulesFor(src, dst *analyze.Descriptor) []Rule {
	rules := r.typeLevel[PairOf(src, dst)]
	if len(rules) == 0 {
		return nil
	}

	return append([]Rule(nil), rules...)
}

// Len returns the number of registered rules.
func (r *Registry) Len() int {
	n := 0
	for _, rules := range r.typeLevel {
		n += len(rules)
	}

	return n
}

// Pairs returns the number of type pairs with at least one rule.
func (r *Registry) Pairs() int {
	return len(r.typeLevel)
}
