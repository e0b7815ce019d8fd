package discovery

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"mapcheck/internal/analyze"
	"mapcheck/internal/callsite"
	"mapcheck/internal/check"
	"mapcheck/internal/registry"
	"mapcheck/primitive"
)

func personTypes() (*analyze.Descriptor, *analyze.Descriptor) {
	text := analyze.NewPrimitive(primitive.KindString)
	id := func(name string) analyze.TypeID { return analyze.TypeID{PkgPath: "example.com/people", Name: name} }

	src := analyze.NewStructured(id("Person"),
		analyze.Field("id", text),
		analyze.Field("name", analyze.NewOptional(text)),
	)
	dst := analyze.NewStructured(id("PersonDto"),
		analyze.Field("id", analyze.NewPrimitive(primitive.KindInt64)),
		analyze.Field("name", text),
	)

	return src, dst
}

func TestClassify(t *testing.T) {
	tests := []struct {
		method string
		kind   registry.RuleKind
		ok     bool
	}{
		{"ForMember", registry.MemberMap, true},
		{"MapFrom", registry.MemberMap, true},
		{"Ignore", registry.MemberIgnore, true},
		{"DoNotMap", registry.MemberIgnore, true},
		{"ConvertUsing", registry.CustomConstructor, true},
		{"ConstructUsing", registry.CustomConstructor, true},
		{"Condition", registry.ConditionalMemberMap, true},
		{"PreCondition", registry.ConditionalMemberMap, true},
		{"MapFromIf", registry.ConditionalMemberMap, true},
		{"for_member", registry.MemberMap, true},
		{"ReverseMap", 0, false},
		{"", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.method, func(t *testing.T) {
			kind, ok := Classify(tt.method)
			assert.Equal(t, tt.ok, ok)

			if tt.ok {
				assert.Equal(t, tt.kind, kind)
			}
		})
	}
}

func TestDiscover(t *testing.T) {
	person, dto := personTypes()
	at := callsite.Location{File: "people.go", Line: 10}

	unit := callsite.Unit{
		Name: "people",
		ConfigCalls: []callsite.ConfigCall{{
			Source:   person,
			Dest:     dto,
			Location: at,
			Chain: []callsite.ChainCall{
				{Method: "ForMember", Member: "id", Expr: &callsite.Expression{Text: "strconv.Atoi(src.id)"}},
				{Method: "Ignore", Member: "name", Location: callsite.Location{File: "people.go", Line: 12}},
				{Method: "ForMember"},
				{Method: "ReverseMap"},
			},
		}, {
			Source: analyze.Unknown(),
			Dest:   dto,
			Chain:  []callsite.ChainCall{{Method: "Ignore", Member: "id"}},
		}},
	}

	core, logs := observer.New(zapcore.DebugLevel)
	e := New(Options{}, zap.New(core))

	reg := e.Discover(unit)

	require.True(t, reg.Frozen())
	assert.Equal(t, 2, reg.Len())

	rule, ok := reg.GetMemberMapping(person, dto, "id")
	require.True(t, ok)
	assert.Equal(t, registry.MemberMap, rule.Kind)
	assert.Equal(t, at, rule.Location, "chain calls without a location inherit the configuration call's")

	rule, ok = reg.GetMemberMapping(person, dto, "name")
	require.True(t, ok)
	assert.Equal(t, 12, rule.Location.Line)

	assert.Equal(t, 3, logs.FilterMessage("dropped override declaration").Len())
	assert.Equal(t, 1, logs.FilterMessage("discovery finished").Len())

	err := reg.RegisterMember(person, dto, registry.Rule{Kind: registry.MemberIgnore, Member: "id"})
	assert.ErrorIs(t, err, registry.ErrFrozen)
}

func TestRegister_Errors(t *testing.T) {
	person, dto := personTypes()
	cfg := callsite.ConfigCall{Source: person, Dest: dto}

	tests := []struct {
		name string
		cfg  callsite.ConfigCall
		call callsite.ChainCall
		want error
	}{
		{name: "member rule without member", cfg: cfg, call: callsite.ChainCall{Method: "MapFrom"}, want: registry.ErrMissingMember},
		{name: "unknown method", cfg: cfg, call: callsite.ChainCall{Method: "AfterMap"}, want: errUnknownMethod},
		{name: "unresolved pair", cfg: callsite.ConfigCall{Source: analyze.Unknown(), Dest: dto}, call: callsite.ChainCall{Method: "Ignore", Member: "id"}, want: registry.ErrUnresolvedType},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := register(registry.New(), tt.cfg, tt.call)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestDiscover_LastWriteWins(t *testing.T) {
	person, dto := personTypes()

	reg := New(Options{}, nil).Discover(
		callsite.Unit{ConfigCalls: []callsite.ConfigCall{{
			Source: person, Dest: dto,
			Chain: []callsite.ChainCall{{Method: "ForMember", Member: "id", Expr: &callsite.Expression{Text: "strconv.Atoi(src.id)"}}},
		}}},
		callsite.Unit{ConfigCalls: []callsite.ConfigCall{{
			Source: person, Dest: dto,
			Chain: []callsite.ChainCall{{Method: "Ignore", Member: "id"}},
		}}},
	)

	rule, ok := reg.GetMemberMapping(person, dto, "id")
	require.True(t, ok)
	assert.Equal(t, registry.MemberIgnore, rule.Kind)
	assert.Equal(t, 1, reg.Len())
}

func TestRun_RulesDeclaredAfterUse(t *testing.T) {
	person, dto := personTypes()

	// the mapping call comes first, the configuration in a later unit
	units := []callsite.Unit{
		{
			Name: "handlers",
			MappingCalls: []callsite.MappingCall{
				{Source: person, Dest: dto, Location: callsite.Location{File: "handlers.go", Line: 3}},
			},
		},
		{
			Name: "profiles",
			ConfigCalls: []callsite.ConfigCall{{
				Source: person, Dest: dto,
				Chain: []callsite.ChainCall{
					{Method: "ForMember", Member: "id", Expr: &callsite.Expression{Text: "strconv.Atoi(src.id)"}},
				},
			}},
		},
	}

	run, err := New(Options{Workers: 2, Check: check.DefaultOptions()}, nil).Run(context.Background(), units...)
	require.NoError(t, err)

	assert.NotEqual(t, uuid.Nil, run.ID)
	assert.Equal(t, 1, run.Rules)
	assert.Zero(t, run.Dropped)
	require.Len(t, run.Sites, 1)

	res := run.Sites[0].Result
	assert.Equal(t, "handlers", run.Sites[0].Unit)
	assert.Empty(t, res.IssuesOfKind(check.TypeIncompatibility))
	assert.Len(t, res.IssuesOfKind(check.DangerousOverrideExpression), 1)
	assert.Len(t, res.IssuesOfKind(check.NullabilityMismatch), 1)
}

func TestAnalyze_KeepsInputOrder(t *testing.T) {
	person, dto := personTypes()
	text := analyze.NewPrimitive(primitive.KindString)

	var calls []callsite.MappingCall
	for i := range 40 {
		call := callsite.MappingCall{Source: person, Dest: dto, Location: callsite.Location{File: "a.go", Line: i + 1}}
		if i%3 == 0 {
			call.Source, call.Dest = text, text
		}

		calls = append(calls, call)
	}

	e := New(Options{Workers: 4, Check: check.DefaultOptions()}, nil)
	reg := e.Discover()

	sites, err := e.Analyze(context.Background(), reg, callsite.Unit{Name: "a", MappingCalls: calls})
	require.NoError(t, err)
	require.Len(t, sites, len(calls))

	for i, site := range sites {
		assert.Equal(t, i+1, site.Call.Location.Line)
		assert.Equal(t, i%3 == 0, site.Result.Clean())
	}
}

func TestAnalyze_Errors(t *testing.T) {
	person, dto := personTypes()
	unit := callsite.Unit{MappingCalls: []callsite.MappingCall{{Source: person, Dest: dto}}}
	e := New(Options{}, nil)

	_, err := e.Analyze(context.Background(), registry.New(), unit)
	require.Error(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = e.Analyze(ctx, e.Discover(unit), unit)
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.Canceled))

	_, err = e.Run(ctx, unit)
	assert.ErrorIs(t, err, context.Canceled)
}
