package mapping

// File represents the root of a call-site manifest.
// A manifest describes what a host scanner found: the types involved, and per
// analysis unit the configuration calls and the mapping calls to check.
type File struct {
	// Version of the manifest schema (for future compatibility).
	Version string `yaml:"version,omitempty"`

	// Packages are go/packages patterns whose named types become resolvable
	// by their Go-qualified names (e.g., "./store", "mapcheck/warehouse").
	Packages []string `yaml:"packages,omitempty"`

	// Types declares structured types and enums by name.
	Types []TypeDecl `yaml:"types,omitempty"`

	// Units lists the analysis units.
	Units []UnitDecl `yaml:"units"`
}

// TypeKind is the kind of a declared type.
type TypeKind string

const (
	// TypeStruct declares a structured type with members.
	TypeStruct TypeKind = "struct"
	// TypeEnum declares a named enumeration.
	TypeEnum TypeKind = "enum"
)

// IsValid returns true if the kind is a recognized value.
func (k TypeKind) IsValid() bool {
	return k == TypeStruct || k == TypeEnum
}

// TypeDecl declares a named type.
type TypeDecl struct {
	// Name is the declared name, referenced from type expressions.
	Name string `yaml:"name"`

	// Kind is "struct" (default) or "enum".
	Kind TypeKind `yaml:"kind,omitempty"`

	// Members are the ordered members of a structured type.
	// YAML formats supported:
	//   - Mapping: {ID: int, Name: "?string"}
	//   - Sequence: [{ID: int}, {name: Name, type: string, writable: false}]
	Members MemberList `yaml:"members,omitempty"`
}

// MemberDecl declares one member of a structured type.
type MemberDecl struct {
	Name     string `yaml:"name"`
	Type     string `yaml:"type"`
	Readable *bool  `yaml:"readable,omitempty"`
	Writable *bool  `yaml:"writable,omitempty"`
}

// IsReadable returns the declared readability, true by default.
func (m MemberDecl) IsReadable() bool {
	return m.Readable == nil || *m.Readable
}

// IsWritable returns the declared writability, true by default.
func (m MemberDecl) IsWritable() bool {
	return m.Writable == nil || *m.Writable
}

// MemberList is an ordered list of member declarations.
type MemberList []MemberDecl

// UnitDecl is one analysis unit.
type UnitDecl struct {
	Name     string        `yaml:"name"`
	Configs  []ConfigDecl  `yaml:"configs,omitempty"`
	Mappings []MappingDecl `yaml:"mappings,omitempty"`
}

// ConfigDecl is a configuration call fixing a type pair, with its chain.
type ConfigDecl struct {
	Source   string      `yaml:"source"`
	Dest     string      `yaml:"dest"`
	Location string      `yaml:"location,omitempty"`
	Chain    []ChainDecl `yaml:"chain,omitempty"`
}

// ChainDecl is one call chained onto a configuration call.
type ChainDecl struct {
	// Method is the host method name (e.g., "ForMember", "Ignore").
	Method string `yaml:"method"`

	// Member is the destination member the call targets, if any.
	Member string `yaml:"member,omitempty"`

	// Expr is the override expression source.
	Expr string `yaml:"expr,omitempty"`

	// Param names the identifier bound to the source object (default "src").
	Param string `yaml:"param,omitempty"`

	// Result is the type expression of the override's static result type.
	Result string `yaml:"result,omitempty"`

	Location string `yaml:"location,omitempty"`
}

// MappingDecl is a mapping call to check.
type MappingDecl struct {
	Source   string `yaml:"source"`
	Dest     string `yaml:"dest"`
	Location string `yaml:"location,omitempty"`

	// Excluded lists destination members assigned right after the call.
	// Accepts a single name or a list.
	Excluded StringOrArray `yaml:"excluded,omitempty"`

	// Acknowledged marks the call site as accepting nullability risk.
	Acknowledged bool `yaml:"acknowledged,omitempty"`
}

// StringOrArray represents a value that can be either a single string or an array of strings.
type StringOrArray []string
