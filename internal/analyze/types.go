package analyze

import (
	"errors"
	"fmt"
	"go/types"

	"mapcheck/internal/common"
	"mapcheck/primitive"
)

// ErrDuplicateMember is returned when a structured descriptor already has a member with the same name.
var ErrDuplicateMember = errors.New("duplicate member")

// TypeID uniquely identifies a named type by its package path and name.
type TypeID struct {
	PkgPath string // e.g., "mapcheck/store"
	Name    string // e.g., "Person"
}

// String returns a human-readable representation of the TypeID.
func (t TypeID) String() string {
	if t.PkgPath == "" {
		return t.Name
	}

	return t.PkgPath + "." + t.Name
}

// Short returns the name qualified by the last package path element only.
func (t TypeID) Short() string {
	if alias := common.PkgAlias(t.PkgPath); alias != "" {
		return alias + "." + t.Name
	}

	return t.Name
}

// IsZero reports whether the id is empty.
func (t TypeID) IsZero() bool {
	return t.Name == ""
}

// Kind is the tag of a Descriptor.
type Kind int

const (
	KindUnknown    Kind = iota // unresolved type, no conclusion can be drawn
	KindPrimitive              // numbers, text, bool, time, uuid, enums
	KindStructured             // record with named members
	KindCollection             // array, list, set or map
	KindOptional               // value that may be absent
)

// String returns a human-readable representation of the Kind.
func (k Kind) String() string {
	switch k {
	case KindPrimitive:
		return "primitive"
	case KindStructured:
		return "structured"
	case KindCollection:
		return "collection"
	case KindOptional:
		return "optional"
	case KindUnknown:
		return common.UnknownStr
	default:
		return common.UnknownStr
	}
}

// CollectionKind distinguishes collection shapes.
type CollectionKind int

const (
	CollectionArray CollectionKind = iota
	CollectionList
	CollectionSet
	CollectionMap
)

// String returns the type-expression name of the collection kind.
func (c CollectionKind) String() string {
	switch c {
	case CollectionArray:
		return "array"
	case CollectionList:
		return "list"
	case CollectionSet:
		return "set"
	case CollectionMap:
		return "map"
	default:
		return common.UnknownStr
	}
}

// Descriptor describes a static type.
//
// Which fields are meaningful depends on Kind:
//   - KindPrimitive: Primitive, and ID for named primitives (enums)
//   - KindStructured: ID and Members
//   - KindCollection: Collection, Elem, and MapKey for maps
//   - KindOptional: Elem (the wrapped type, never itself optional)
type Descriptor struct {
	Kind       Kind
	ID         TypeID
	Primitive  primitive.KindEnum
	Collection CollectionKind
	Elem       *Descriptor
	MapKey     *Descriptor
	Members    []Member
	GoType     types.Type // original go/types type when built by the Loader
}

// Member describes a slot of a structured type.
type Member struct {
	Name     string
	Type     *Descriptor
	Readable bool
	Writable bool
}

// unknown is shared; it carries no state.
var unknown = &Descriptor{Kind: KindUnknown}

// Unknown returns the descriptor for an unresolved type.
func Unknown() *Descriptor {
	return unknown
}

// NewPrimitive returns an unnamed primitive descriptor.
func NewPrimitive(kind primitive.KindEnum) *Descriptor {
	if !kind.IsValid() {
		return unknown
	}

	return &Descriptor{Kind: KindPrimitive, Primitive: kind}
}

// NewNamedPrimitive returns a named primitive descriptor such as an enum.
func NewNamedPrimitive(id TypeID, kind primitive.KindEnum) *Descriptor {
	if !kind.IsValid() {
		return unknown
	}

	return &Descriptor{Kind: KindPrimitive, ID: id, Primitive: kind}
}

// NewStructured returns a structured descriptor with the given members.
// It panics on duplicate member names; builders that read external input
// use AddMember instead.
func NewStructured(id TypeID, members ...Member) *Descriptor {
	d := &Descriptor{Kind: KindStructured, ID: id}
	for _, m := range members {
		if err := d.AddMember(m); err != nil {
			panic(err)
		}
	}

	return d
}

// AddMember appends a member to a structured descriptor.
func (d *Descriptor) AddMember(m Member) error {
	if d.Kind != KindStructured {
		return fmt.Errorf("cannot add member %q to %s descriptor", m.Name, d.Kind)
	}

	if d.FindMember(m.Name) != nil {
		return fmt.Errorf("%w %q in %s", ErrDuplicateMember, m.Name, d.ID)
	}

	if m.Type == nil {
		m.Type = unknown
	}

	d.Members = append(d.Members, m)

	return nil
}

// Field returns a readable and writable member, the common case.
func Field(name string, t *Descriptor) Member {
	return Member{Name: name, Type: t, Readable: true, Writable: true}
}

// NewCollection returns an array, list or set descriptor.
func NewCollection(kind CollectionKind, elem *Descriptor) *Descriptor {
	if kind == CollectionMap {
		return NewMap(unknown, elem)
	}

	if elem == nil {
		elem = unknown
	}

	return &Descriptor{Kind: KindCollection, Collection: kind, Elem: elem}
}

// NewList is shorthand for NewCollection(CollectionList, elem).
func NewList(elem *Descriptor) *Descriptor {
	return NewCollection(CollectionList, elem)
}

// NewMap returns a map descriptor.
func NewMap(key, value *Descriptor) *Descriptor {
	if key == nil {
		key = unknown
	}

	if value == nil {
		value = unknown
	}

	return &Descriptor{Kind: KindCollection, Collection: CollectionMap, MapKey: key, Elem: value}
}

// NewOptional wraps inner so that it may be absent.
// Optional descriptors are never nested, and unknown stays unknown.
func NewOptional(inner *Descriptor) *Descriptor {
	if inner == nil || inner.Kind == KindUnknown {
		return unknown
	}

	if inner.Kind == KindOptional {
		return inner
	}

	return &Descriptor{Kind: KindOptional, Elem: inner}
}

// IsNamed returns true if this type has a name (TypeID is set).
func (d *Descriptor) IsNamed() bool {
	return d != nil && !d.ID.IsZero()
}

// FindMember returns the member with exactly the given name, or nil.
func (d *Descriptor) FindMember(name string) *Member {
	if d == nil || d.Kind != KindStructured {
		return nil
	}

	for i := range d.Members {
		if d.Members[i].Name == name {
			return &d.Members[i]
		}
	}

	return nil
}

// TypeGraph holds all named descriptors extracted from loaded packages.
type TypeGraph struct {
	// Types maps TypeID to Descriptor for all named types.
	Types map[TypeID]*Descriptor
	// Packages maps package paths to their package info.
	Packages map[string]*PackageInfo
}

// NewTypeGraph creates a new empty TypeGraph.
func NewTypeGraph() *TypeGraph {
	return &TypeGraph{
		Types:    make(map[TypeID]*Descriptor),
		Packages: make(map[string]*PackageInfo),
	}
}

// GetType returns the Descriptor for a given TypeID, or nil if not found.
func (g *TypeGraph) GetType(id TypeID) *Descriptor {
	return g.Types[id]
}

// PackageInfo holds information about a loaded package.
type PackageInfo struct {
	Path  string   // Import path
	Name  string   // Package name
	Types []TypeID // Named types defined in this package
}
