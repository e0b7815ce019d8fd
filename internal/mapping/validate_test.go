package mapping

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mapcheck/internal/diagnostic"
)

func TestValidate_Valid(t *testing.T) {
	f, err := LoadFile(filepath.Join("testdata", "people.yaml"))
	require.NoError(t, err)

	diags := Validate(f, nil)
	assert.True(t, diags.IsValid(), diags.All())
	assert.Empty(t, diags.Warnings)
}

func TestValidate_Graph(t *testing.T) {
	f := &File{Units: []UnitDecl{{
		Name:     "orders.go",
		Mappings: []MappingDecl{{Source: "store.Order", Dest: "warehouse.OrderDTO", Excluded: StringOrArray{"ID"}}},
	}}}

	diags := Validate(f, buildTestTypeGraph())
	assert.Zero(t, diags.Len(), diags.All())
}

func TestValidate_Problems(t *testing.T) {
	base := []TypeDecl{
		{Name: "Src", Members: MemberList{{Name: "id", Type: "int"}}},
		{Name: "Dst", Members: MemberList{{Name: "id", Type: "int"}}},
	}

	tests := []struct {
		name     string
		file     *File
		severity diagnostic.DiagnosticSeverity
		code     string
		path     string
	}{
		{
			name:     "unknown member type",
			file:     &File{Types: []TypeDecl{{Name: "A", Members: MemberList{{Name: "x", Type: "Nope"}}}}},
			severity: diagnostic.DiagnosticError,
			code:     "unknown_type",
			path:     "x",
		},
		{
			name:     "duplicate member",
			file:     &File{Types: []TypeDecl{{Name: "A", Members: MemberList{{Name: "x", Type: "int"}, {Name: "x", Type: "int"}}}}},
			severity: diagnostic.DiagnosticError,
			code:     "duplicate_member",
			path:     "x",
		},
		{
			name:     "duplicate type",
			file:     &File{Types: []TypeDecl{{Name: "A"}, {Name: "A"}}},
			severity: diagnostic.DiagnosticError,
			code:     "duplicate_type",
		},
		{
			name:     "invalid member identifier",
			file:     &File{Types: []TypeDecl{{Name: "A", Members: MemberList{{Name: "first name", Type: "string"}}}}},
			severity: diagnostic.DiagnosticError,
			code:     "invalid_identifier",
			path:     "first name",
		},
		{
			name:     "malformed type expression",
			file:     &File{Types: []TypeDecl{{Name: "A", Members: MemberList{{Name: "x", Type: "list<int"}}}}},
			severity: diagnostic.DiagnosticError,
			code:     "invalid_type_expression",
			path:     "x",
		},
		{
			name: "unknown mapping dest",
			file: &File{Types: base, Units: []UnitDecl{{Name: "u", Mappings: []MappingDecl{
				{Source: "Src", Dest: "Missing"},
			}}}},
			severity: diagnostic.DiagnosticError,
			code:     "unknown_type",
		},
		{
			name: "chain call missing member",
			file: &File{Types: base, Units: []UnitDecl{{Name: "u", Configs: []ConfigDecl{
				{Source: "Src", Dest: "Dst", Chain: []ChainDecl{{Method: "ForMember", Expr: "src.id"}}},
			}}}},
			severity: diagnostic.DiagnosticError,
			code:     "missing_member",
		},
		{
			name: "unknown chain method",
			file: &File{Types: base, Units: []UnitDecl{{Name: "u", Configs: []ConfigDecl{
				{Source: "Src", Dest: "Dst", Chain: []ChainDecl{{Method: "AfterMap"}}},
			}}}},
			severity: diagnostic.DiagnosticWarning,
			code:     "unknown_method",
		},
		{
			name: "chain member not on destination",
			file: &File{Types: base, Units: []UnitDecl{{Name: "u", Configs: []ConfigDecl{
				{Source: "Src", Dest: "Dst", Chain: []ChainDecl{{Method: "Ignore", Member: "name"}}},
			}}}},
			severity: diagnostic.DiagnosticWarning,
			code:     "unknown_dest_member",
			path:     "name",
		},
		{
			name: "bad result type",
			file: &File{Types: base, Units: []UnitDecl{{Name: "u", Configs: []ConfigDecl{
				{Source: "Src", Dest: "Dst", Chain: []ChainDecl{{Method: "MapFrom", Member: "id", Result: "Nope"}}},
			}}}},
			severity: diagnostic.DiagnosticError,
			code:     "unknown_type",
			path:     "id",
		},
		{
			name: "excluded member not on destination",
			file: &File{Types: base, Units: []UnitDecl{{Name: "u", Mappings: []MappingDecl{
				{Source: "Src", Dest: "Dst", Excluded: StringOrArray{"name"}},
			}}}},
			severity: diagnostic.DiagnosticWarning,
			code:     "unknown_excluded_member",
			path:     "name",
		},
		{
			name: "invalid location",
			file: &File{Types: base, Units: []UnitDecl{{Name: "u", Mappings: []MappingDecl{
				{Source: "Src", Dest: "Dst", Location: ":3:4"},
			}}}},
			severity: diagnostic.DiagnosticError,
			code:     "invalid_location",
		},
		{
			name: "duplicate unit",
			file: &File{Types: base, Units: []UnitDecl{
				{Name: "u", Mappings: []MappingDecl{{Source: "Src", Dest: "Dst"}}},
				{Name: "u"},
			}},
			severity: diagnostic.DiagnosticWarning,
			code:     "duplicate_unit",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			diags := Validate(tt.file, nil)
			require.Equal(t, 1, diags.Len(), diags.All())

			got := diags.All()[0]
			assert.Equal(t, tt.severity, got.Severity)
			assert.Equal(t, tt.code, got.Code)
			assert.Equal(t, tt.path, got.FieldPath)
		})
	}
}

func TestValidate_Nil(t *testing.T) {
	diags := Validate(nil, nil)
	require.Len(t, diags.Errors, 1)
	assert.Equal(t, "manifest_is_nil", diags.Errors[0].Code)
}
