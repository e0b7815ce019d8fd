package report

import (
	"bytes"
	"strings"
	"testing"
	"time"

	json "github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mapcheck/internal/analyze"
	"mapcheck/internal/callsite"
	"mapcheck/internal/check"
	"mapcheck/internal/diagnostic"
	"mapcheck/internal/discovery"
)

func sampleCall(acknowledged bool) callsite.MappingCall {
	return callsite.MappingCall{
		Source:           analyze.NewStructured(analyze.TypeID{PkgPath: "app/people", Name: "Person"}),
		Dest:             analyze.NewStructured(analyze.TypeID{PkgPath: "app/api", Name: "PersonDto"}),
		Location:         callsite.Location{File: "handlers.go", Line: 42, Column: 7},
		RiskAcknowledged: acknowledged,
	}
}

func sampleResult() check.Result {
	issue := func(kind check.IssueKind, path string) check.MemberIssue {
		return check.MemberIssue{Kind: kind, Path: path, Severity: kind.Severity(), Description: kind.String()}
	}

	missing := issue(check.MissingSourceMember, "phone")
	missing.Suggestions = []string{"phoneNumber"}

	return check.Result{
		HasNullabilityIssue: true,
		NullabilityDetail:   "?people.Person may be absent",
		MemberIssues: []check.MemberIssue{
			issue(check.TypeIncompatibility, "id"),
			issue(check.NullabilityMismatch, "name"),
			missing,
			issue(check.MissingSourceMember, "address.zip"),
			issue(check.MissingSourceMember, "[]"),
			issue(check.DangerousOverrideExpression, "created"),
			issue(check.OverrideTypeMismatch, "total"),
			issue(check.OverrideNullabilityRisk, "email"),
			issue(check.MissingDestinationMember, "extra"),
		},
	}
}

func codes(diags []diagnostic.Diagnostic) []string {
	var res []string
	for _, d := range diags {
		res = append(res, d.Code)
	}

	return res
}

func TestCode(t *testing.T) {
	tests := []struct {
		kind check.IssueKind
		path string
		code string
	}{
		{check.NullabilityMismatch, "name", "RULE-001M"},
		{check.TypeIncompatibility, "[].id", "RULE-002M"},
		{check.MissingSourceMember, "phone", "RULE-003"},
		{check.MissingSourceMember, "address.zip", "RULE-003M"},
		{check.MissingSourceMember, "[]", "RULE-003M"},
		{check.DangerousOverrideExpression, "", "RULE-004"},
		{check.OverrideTypeMismatch, "total", "RULE-005"},
		{check.OverrideNullabilityRisk, "email", "RULE-006"},
		{check.MissingDestinationMember, "extra", ""},
	}

	for _, tt := range tests {
		t.Run(tt.kind.String()+"/"+tt.path, func(t *testing.T) {
			assert.Equal(t, tt.code, Code(check.MemberIssue{Kind: tt.kind, Path: tt.path}))
		})
	}
}

func TestFromResult(t *testing.T) {
	diags, suppressed := FromResult(sampleCall(false), sampleResult(), Options{})

	assert.Zero(t, suppressed)
	assert.Equal(t, []string{"RULE-002M", "RULE-005"}, codes(diags.Errors))
	assert.Equal(t, []string{"RULE-001", "RULE-001M", "RULE-004", "RULE-006"}, codes(diags.Warnings))
	assert.Equal(t, []string{"RULE-003", "RULE-003M", "RULE-003M"}, codes(diags.Infos))

	first := diags.Infos[0]
	assert.Equal(t, "handlers.go:42:7", first.Location)
	assert.Equal(t, "people.Person->api.PersonDto", first.TypePair)
	assert.Equal(t, []string{"phoneNumber"}, first.Suggestions)
	assert.Contains(t, first.Message, "did you mean phoneNumber?")
}

func TestFromResult_RiskAcknowledged(t *testing.T) {
	diags, suppressed := FromResult(sampleCall(true), sampleResult(), Options{})

	assert.Equal(t, 4, suppressed)
	assert.Empty(t, diags.Warnings)
	assert.Len(t, diags.Errors, 2)
	assert.Len(t, diags.Infos, 3)
}

func TestFromResult_SeverityOverrides(t *testing.T) {
	opts := Options{Severity: map[string]diagnostic.DiagnosticSeverity{
		diagnostic.CodeMemberNullability: diagnostic.DiagnosticError,
		diagnostic.CodeOverrideType:      diagnostic.DiagnosticWarning,
	}}

	diags, suppressed := FromResult(sampleCall(true), sampleResult(), opts)

	// overrides apply before acknowledgement
	assert.Equal(t, 4, suppressed)
	assert.Equal(t, []string{"RULE-002M", "RULE-001M"}, codes(diags.Errors))
	assert.Empty(t, diags.Warnings)
}

func sampleRun() *discovery.Run {
	return &discovery.Run{
		ID:       uuid.MustParse("6f1c7d1e-8a43-4b8e-9f57-2f0d9b6c1a10"),
		Duration: 3 * time.Millisecond,
		Rules:    2,
		Sites: []discovery.SiteResult{
			{Unit: "a", Call: sampleCall(false), Result: sampleResult()},
			{Unit: "a", Call: sampleCall(true), Result: sampleResult()},
			{Unit: "b", Call: sampleCall(false), Result: check.Result{}},
		},
	}
}

func TestBuild(t *testing.T) {
	rep := Build(sampleRun(), Options{})

	assert.Equal(t, "6f1c7d1e-8a43-4b8e-9f57-2f0d9b6c1a10", rep.RunID)
	assert.Equal(t, Summary{Sites: 3, Rules: 2, Errors: 4, Warnings: 4, Infos: 6, Suppressed: 4}, rep.Summary)
	assert.True(t, rep.HasErrors())
}

func TestWriteJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteJSON(&buf, Build(sampleRun(), Options{})))

	var decoded struct {
		RunID       string `json:"run_id"`
		Summary     Summary
		Diagnostics struct {
			Errors []struct {
				Severity string `json:"severity"`
				Code     string `json:"code"`
			} `json:"errors"`
		} `json:"diagnostics"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))

	assert.Equal(t, "6f1c7d1e-8a43-4b8e-9f57-2f0d9b6c1a10", decoded.RunID)
	assert.Equal(t, 4, decoded.Summary.Errors)
	require.NotEmpty(t, decoded.Diagnostics.Errors)
	assert.Equal(t, "error", decoded.Diagnostics.Errors[0].Severity)
}

func TestWriteText(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteText(&buf, Build(sampleRun(), Options{}), true))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 15)

	assert.True(t, strings.HasPrefix(lines[0], "error   handlers.go:42:7: [people.Person->api.PersonDto] id: [RULE-002M]"), lines[0])
	assert.Equal(t, "3 mapping calls, 2 rules: 4 errors, 4 warnings, 6 infos, 4 acknowledged", lines[len(lines)-1])
}

func TestWriteDiagnostics(t *testing.T) {
	var diags diagnostic.Diagnostics
	diags.AddWarning("unknown_method", `chain method "AfterMap" is not recognized and will be ignored`, "A->B", "")
	diags.AddError("unknown_type", `dest type: unknown type "Nope"`, "A->Nope", "")

	var buf bytes.Buffer
	require.NoError(t, WriteDiagnostics(&buf, &diags, true))

	assert.Equal(t,
		"error   [A->Nope]: [unknown_type] dest type: unknown type \"Nope\"\n"+
			"warning [A->B]: [unknown_method] chain method \"AfterMap\" is not recognized and will be ignored\n",
		buf.String())
}
