package analyze

import (
	"fmt"
	"go/types"

	"golang.org/x/tools/go/packages"

	"mapcheck/primitive"
)

// LoadMode specifies what information to load from packages.
const LoadMode = packages.NeedName |
	packages.NeedFiles |
	packages.NeedTypes |
	packages.NeedTypesInfo |
	packages.NeedImports

// Loader loads Go packages and builds a graph of descriptors.
type Loader struct {
	graph     *TypeGraph
	typeCache map[types.Type]*Descriptor // Cache to handle recursive types
	dir       string
}

// NewLoader creates a new Loader. Package patterns are resolved relative to dir
// (the current directory when empty).
func NewLoader(dir string) *Loader {
	return &Loader{
		graph:     NewTypeGraph(),
		typeCache: make(map[types.Type]*Descriptor),
		dir:       dir,
	}
}

// LoadPackages loads the specified packages and builds the type graph.
// Patterns are standard Go package patterns (e.g., "./store", "mapcheck/warehouse").
func (l *Loader) LoadPackages(patterns ...string) (*TypeGraph, error) {
	cfg := &packages.Config{
		Mode: LoadMode,
		Dir:  l.dir,
	}

	pkgs, err := packages.Load(cfg, patterns...)
	if err != nil {
		return nil, fmt.Errorf("failed to load packages: %w", err)
	}

	// Check for package errors
	var errs []error
	for _, pkg := range pkgs {
		for _, e := range pkg.Errors {
			errs = append(errs, e)
		}
	}
	if len(errs) > 0 {
		return nil, fmt.Errorf("package errors: %v", errs)
	}

	// Register package paths first so cross-package references resolve
	// against the analyzed set.
	for _, pkg := range pkgs {
		l.graph.Packages[pkg.PkgPath] = &PackageInfo{Path: pkg.PkgPath, Name: pkg.Name}
	}

	for _, pkg := range pkgs {
		l.processPackage(pkg)
	}

	return l.graph, nil
}

// Graph returns the current type graph.
func (l *Loader) Graph() *TypeGraph {
	return l.graph
}

// Describe converts an arbitrary go/types type into a descriptor.
func (l *Loader) Describe(t types.Type) *Descriptor {
	return l.describe(t)
}

// processPackage extracts exported named types from a loaded package.
func (l *Loader) processPackage(pkg *packages.Package) {
	pkgInfo := l.graph.Packages[pkg.PkgPath]

	scope := pkg.Types.Scope()
	for _, name := range scope.Names() {
		typeName, ok := scope.Lookup(name).(*types.TypeName)
		if !ok || !typeName.Exported() {
			continue
		}

		typeID := TypeID{
			PkgPath: pkg.PkgPath,
			Name:    name,
		}

		d := l.describe(typeName.Type())
		if IsUnknown(d) {
			continue
		}

		l.graph.Types[typeID] = d
		pkgInfo.Types = append(pkgInfo.Types, typeID)
	}
}

// describe recursively converts a go/types.Type into a Descriptor.
func (l *Loader) describe(t types.Type) *Descriptor {
	if t == nil {
		return unknown
	}

	// Check cache to handle recursive types
	if cached, ok := l.typeCache[t]; ok {
		return cached
	}

	if kind := primitive.FromGoType(t); kind.IsValid() {
		var d *Descriptor
		if named, ok := t.(*types.Named); ok && (kind == primitive.KindPrimitiveEnum || kind == primitive.KindUUID) {
			d = NewNamedPrimitive(namedID(named), kind)
		} else {
			d = NewPrimitive(kind)
		}

		d.GoType = t
		l.typeCache[t] = d

		return d
	}

	switch tt := t.(type) {
	case *types.Named:
		if st, ok := tt.Underlying().(*types.Struct); ok {
			d := &Descriptor{Kind: KindStructured, ID: namedID(tt), GoType: t}
			// Pre-cache to handle recursive types (we'll fill in details)
			l.typeCache[t] = d
			l.describeStructFields(st, d)

			return d
		}

		// Named slices, maps and pointers behave like their underlying type.
		return l.describe(tt.Underlying())

	case *types.Alias:
		return l.describe(types.Unalias(tt))

	case *types.Pointer:
		return NewOptional(l.describe(tt.Elem()))

	case *types.Slice:
		return NewList(l.describe(tt.Elem()))

	case *types.Array:
		return NewCollection(CollectionArray, l.describe(tt.Elem()))

	case *types.Map:
		if st, ok := tt.Elem().Underlying().(*types.Struct); ok && st.NumFields() == 0 {
			return NewCollection(CollectionSet, l.describe(tt.Key()))
		}

		return NewMap(l.describe(tt.Key()), l.describe(tt.Elem()))

	case *types.Struct:
		d := &Descriptor{Kind: KindStructured, GoType: t}
		l.typeCache[t] = d
		l.describeStructFields(tt, d)

		return d

	default:
		// Interfaces, channels, signatures, type parameters: unresolved
		return unknown
	}
}

// describeStructFields extracts exported fields, promoting embedded struct fields.
func (l *Loader) describeStructFields(st *types.Struct, d *Descriptor) {
	var embedded []*Descriptor

	for i := 0; i < st.NumFields(); i++ {
		field := st.Field(i)

		if field.Embedded() {
			if inner := l.describe(field.Type()); IsStructured(inner) {
				embedded = append(embedded, inner)
				continue
			}
		}

		// Only exported fields are readable and writable from a mapper
		if !field.Exported() {
			continue
		}

		_ = d.AddMember(Field(field.Name(), l.describe(field.Type())))
	}

	for _, inner := range embedded {
		for _, m := range inner.Members {
			_ = d.AddMember(m)
		}
	}
}

// GetStruct returns the descriptor for a named struct.
func (l *Loader) GetStruct(pkgPath, typeName string) (*Descriptor, error) {
	id := TypeID{PkgPath: pkgPath, Name: typeName}

	d := l.graph.GetType(id)
	if d == nil {
		return nil, fmt.Errorf("type %s not found", id)
	}

	if d.Kind != KindStructured {
		return nil, fmt.Errorf("type %s is not a struct (kind: %s)", id, d.Kind)
	}

	return d, nil
}

func namedID(named *types.Named) TypeID {
	obj := named.Obj()
	if obj.Pkg() == nil {
		return TypeID{Name: obj.Name()}
	}

	return TypeID{PkgPath: obj.Pkg().Path(), Name: obj.Name()}
}
