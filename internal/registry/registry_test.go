package registry

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mapcheck/internal/analyze"
	"mapcheck/internal/callsite"
	"mapcheck/primitive"
)

func person(name string) *analyze.Descriptor {
	return analyze.NewStructured(analyze.TypeID{Name: name},
		analyze.Field("id", analyze.NewPrimitive(primitive.KindString)))
}

func TestRegistry_MemberRules(t *testing.T) {
	src, dst := person("Person"), person("PersonDto")
	reg := New()

	rule := Rule{Kind: MemberMap, Member: "id", Expr: &callsite.Expression{Text: "Parse(src.id)"}}
	require.NoError(t, reg.RegisterMember(src, dst, rule))

	assert.True(t, reg.HasMapping(src, dst))
	assert.True(t, reg.HasMemberMapping(src, dst, "id"))
	assert.False(t, reg.HasMemberMapping(src, dst, "ID"), "member names are case-sensitive")
	assert.True(t, reg.HasRuleOfKind(src, dst, MemberMap))
	assert.False(t, reg.HasRuleOfKind(src, dst, CustomConstructor))

	got, ok := reg.GetMemberMapping(src, dst, "id")
	require.True(t, ok)
	assert.Equal(t, "Parse(src.id)", got.Expr.Text)
	assert.Len(t, reg.AllRulesFor(src, dst), 1)
}

func TestRegistry_LastWriteWins(t *testing.T) {
	src, dst := person("Person"), person("PersonDto")
	reg := New()

	require.NoError(t, reg.RegisterMember(src, dst, Rule{Kind: MemberMap, Member: "id"}))
	require.NoError(t, reg.RegisterTypeLevel(src, dst, Rule{Kind: CustomConstructor}))
	require.NoError(t, reg.RegisterMember(src, dst, Rule{Kind: MemberIgnore, Member: "id"}))

	got, ok := reg.GetMemberMapping(src, dst, "id")
	require.True(t, ok)
	assert.Equal(t, MemberIgnore, got.Kind)

	rules := reg.AllRulesFor(src, dst)
	require.Len(t, rules, 2, "the replaced rule is not kept at type level")
	assert.Equal(t, MemberIgnore, rules[0].Kind)
	assert.Equal(t, CustomConstructor, rules[1].Kind)
	assert.False(t, reg.HasRuleOfKind(src, dst, MemberMap))
	assert.Equal(t, 2, reg.Len())
	assert.Equal(t, 1, reg.Pairs())
}

func TestRegistry_ExactPairIdentity(t *testing.T) {
	src, dst := person("Person"), person("PersonDto")
	src2, dst2 := person("Person2"), person("PersonDto2")
	reg := New()

	require.NoError(t, reg.RegisterMember(src, dst, Rule{Kind: MemberMap, Member: "id"}))

	assert.True(t, reg.HasMapping(person("Person"), person("PersonDto")), "same qualified names")
	assert.False(t, reg.HasMapping(src, dst2))
	assert.False(t, reg.HasMapping(src2, dst))
	assert.False(t, reg.HasMapping(src2, dst2))
	assert.False(t, reg.HasMemberMapping(src2, dst, "id"))
	assert.False(t, reg.HasMapping(dst, src), "pairs are directional")
}

func TestRegistry_Rejections(t *testing.T) {
	src, dst := person("Person"), person("PersonDto")
	reg := New()

	err := reg.RegisterMember(src, dst, Rule{Kind: MemberMap})
	require.ErrorIs(t, err, ErrMissingMember)

	err = reg.RegisterTypeLevel(analyze.Unknown(), dst, Rule{Kind: CustomConstructor})
	require.ErrorIs(t, err, ErrUnresolvedType)

	err = reg.RegisterTypeLevel(src, dst, Rule{Kind: ConditionalMemberMap})
	require.ErrorIs(t, err, ErrMissingMember, "member kinds are routed through RegisterMember")

	reg.Freeze()
	assert.True(t, reg.Frozen())

	err = reg.RegisterTypeLevel(src, dst, Rule{Kind: CustomConstructor})
	require.ErrorIs(t, err, ErrFrozen)
	assert.Equal(t, 0, reg.Len())
	assert.Nil(t, reg.AllRulesFor(src, dst))
}

func TestRuleKind(t *testing.T) {
	assert.Equal(t, "member_map", MemberMap.String())
	assert.Equal(t, "custom_constructor", CustomConstructor.String())
	assert.Equal(t, "unknown", RuleKind(42).String())
	assert.True(t, ConditionalMemberMap.IsMemberKind())
	assert.False(t, CustomConstructor.IsMemberKind())
}
