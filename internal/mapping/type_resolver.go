package mapping

import (
	"errors"
	"fmt"
	"strings"
	"unicode"

	"mapcheck/internal/analyze"
	"mapcheck/primitive"
)

var (
	// ErrUnknownType is returned when a type expression names no known type.
	ErrUnknownType = errors.New("unknown type")
	// ErrInvalidTypeExpr is returned for malformed type expressions.
	ErrInvalidTypeExpr = errors.New("invalid type expression")
	// ErrDuplicateType is returned when a type name is declared twice.
	ErrDuplicateType = errors.New("duplicate type")
	// ErrInvalidIdent is returned for names that are not identifiers.
	ErrInvalidIdent = errors.New("invalid identifier")
)

// UnknownTypeName is the type expression for a type the host could not resolve.
const UnknownTypeName = "unknown"

// Resolver turns type expressions into descriptors.
// Names are looked up among declared manifest types first, then primitive
// kind names, then the named types of the loaded package graph.
type Resolver struct {
	graph    *analyze.TypeGraph
	declared map[string]*analyze.Descriptor
}

// NewResolver creates a resolver over graph, which may be nil.
func NewResolver(graph *analyze.TypeGraph) *Resolver {
	return &Resolver{
		graph:    graph,
		declared: make(map[string]*analyze.Descriptor),
	}
}

// Declare registers the manifest types. All problems are returned joined.
func (r *Resolver) Declare(decls []TypeDecl) error {
	var errs []error

	r.declare(decls, func(_ TypeDecl, _ string, err error) {
		errs = append(errs, err)
	})

	return errors.Join(errs...)
}

// declare creates every declared descriptor before resolving members, so
// members may refer to any declared type, including their own.
func (r *Resolver) declare(decls []TypeDecl, report func(decl TypeDecl, member string, err error)) {
	var structs []int

	for i, decl := range decls {
		if !isTypeName(decl.Name) {
			report(decl, "", fmt.Errorf("%w: type name %q", ErrInvalidIdent, decl.Name))
			continue
		}

		if _, ok := r.declared[decl.Name]; ok {
			report(decl, "", fmt.Errorf("%w %q", ErrDuplicateType, decl.Name))
			continue
		}

		switch decl.Kind {
		case TypeEnum:
			r.declared[decl.Name] = analyze.NewNamedPrimitive(declaredID(decl.Name), primitive.KindPrimitiveEnum)
		case TypeStruct, "":
			r.declared[decl.Name] = analyze.NewStructured(declaredID(decl.Name))
			structs = append(structs, i)
		default:
			report(decl, "", fmt.Errorf("type %s: unsupported kind %q", decl.Name, decl.Kind))
		}
	}

	for _, i := range structs {
		decl := decls[i]
		d := r.declared[decl.Name]

		for _, m := range decl.Members {
			if !isIdent(m.Name) {
				report(decl, m.Name, fmt.Errorf("%w: member %q of %s", ErrInvalidIdent, m.Name, decl.Name))
				continue
			}

			t, err := r.Resolve(m.Type)
			if err != nil {
				report(decl, m.Name, fmt.Errorf("member %s.%s: %w", decl.Name, m.Name, err))
				continue
			}

			err = d.AddMember(analyze.Member{
				Name:     m.Name,
				Type:     t,
				Readable: m.IsReadable(),
				Writable: m.IsWritable(),
			})
			if err != nil {
				report(decl, m.Name, err)
			}
		}
	}
}

// Declared returns the descriptor declared under name, or nil.
func (r *Resolver) Declared(name string) *analyze.Descriptor {
	return r.declared[name]
}

// Resolve parses a type expression:
//   - primitive names: "int", "string", "uuid", ...
//   - declared names: "Person"
//   - Go-qualified names: "store.Order", "mapcheck/store.Order"
//   - "?T" (may be absent), "list<T>", "array<T>", "set<T>", "map<K,V>"
//   - "unknown" for a type the host could not resolve
func (r *Resolver) Resolve(expr string) (*analyze.Descriptor, error) {
	p := &typeParser{src: expr, r: r}

	d, err := p.parse()
	if err != nil {
		return nil, err
	}

	p.skipSpace()

	if p.pos != len(p.src) {
		return nil, fmt.Errorf("%w %q: unexpected %q", ErrInvalidTypeExpr, expr, p.src[p.pos:])
	}

	return d, nil
}

func (r *Resolver) lookup(name string) (*analyze.Descriptor, error) {
	if name == UnknownTypeName {
		return analyze.Unknown(), nil
	}

	if d, ok := r.declared[name]; ok {
		return d, nil
	}

	if kind := primitive.FromName(name); kind.IsValid() {
		return analyze.NewPrimitive(kind), nil
	}

	if d := ResolveTypeID(name, r.graph); d != nil {
		return d, nil
	}

	return nil, fmt.Errorf("%w %q", ErrUnknownType, name)
}

// typeParser is a recursive-descent parser over one type expression.
type typeParser struct {
	src string
	pos int
	r   *Resolver
}

func (p *typeParser) parse() (*analyze.Descriptor, error) {
	p.skipSpace()

	if p.accept('?') {
		inner, err := p.parse()
		if err != nil {
			return nil, err
		}

		return analyze.NewOptional(inner), nil
	}

	name := p.name()
	if name == "" {
		return nil, p.fail("expected type name")
	}

	p.skipSpace()

	if !p.accept('<') {
		return p.r.lookup(name)
	}

	var kind analyze.CollectionKind

	switch name {
	case "list":
		kind = analyze.CollectionList
	case "array":
		kind = analyze.CollectionArray
	case "set":
		kind = analyze.CollectionSet
	case "map":
		return p.mapArgs()
	default:
		return nil, p.fail(fmt.Sprintf("%q takes no type arguments", name))
	}

	elem, err := p.parse()
	if err != nil {
		return nil, err
	}

	if err := p.expect('>'); err != nil {
		return nil, err
	}

	return analyze.NewCollection(kind, elem), nil
}

func (p *typeParser) mapArgs() (*analyze.Descriptor, error) {
	key, err := p.parse()
	if err != nil {
		return nil, err
	}

	if err := p.expect(','); err != nil {
		return nil, err
	}

	value, err := p.parse()
	if err != nil {
		return nil, err
	}

	if err := p.expect('>'); err != nil {
		return nil, err
	}

	return analyze.NewMap(key, value), nil
}

// name scans a possibly qualified name such as "mapcheck/store.Order".
func (p *typeParser) name() string {
	start := p.pos

	for p.pos < len(p.src) {
		c := rune(p.src[p.pos])
		if c == '.' || c == '/' || c == '_' || c == '-' || unicode.IsLetter(c) || unicode.IsDigit(c) || c >= 0x80 {
			p.pos++
			continue
		}

		break
	}

	return p.src[start:p.pos]
}

func (p *typeParser) skipSpace() {
	for p.pos < len(p.src) && (p.src[p.pos] == ' ' || p.src[p.pos] == '\t') {
		p.pos++
	}
}

func (p *typeParser) accept(c byte) bool {
	if p.pos < len(p.src) && p.src[p.pos] == c {
		p.pos++
		return true
	}

	return false
}

func (p *typeParser) expect(c byte) error {
	p.skipSpace()

	if !p.accept(c) {
		return p.fail(fmt.Sprintf("expected %q", c))
	}

	return nil
}

func (p *typeParser) fail(msg string) error {
	return fmt.Errorf("%w %q at %d: %s", ErrInvalidTypeExpr, p.src, p.pos, msg)
}

// ResolveTypeID resolves a type ID string like:
// - "store.Order" (short)
// - "mapcheck/store.Order" (full)
// - "Order" (name only).
func ResolveTypeID(typeIDStr string, graph *analyze.TypeGraph) *analyze.Descriptor {
	if graph == nil {
		return nil
	}

	// Name-only: best-effort match by type name.
	if !strings.Contains(typeIDStr, ".") {
		name := typeIDStr
		if name == "" {
			return nil
		}

		for id, t := range graph.Types {
			if id.Name == name {
				return t
			}
		}

		return nil
	}

	lastDot := strings.LastIndex(typeIDStr, ".")
	pkgStr := typeIDStr[:lastDot]

	name := typeIDStr[lastDot+1:]
	if pkgStr == "" || name == "" {
		return nil
	}

	// 1) exact match (for fully qualified import path)
	if t := graph.GetType(analyze.TypeID{PkgPath: pkgStr, Name: name}); t != nil {
		return t
	}

	// 2) suffix match (for short forms like "store.Order" vs "mapcheck/store.Order")
	for id, t := range graph.Types {
		if id.Name != name {
			continue
		}

		if strings.HasSuffix(id.PkgPath, "/"+pkgStr) {
			return t
		}
	}

	return nil
}

// declaredID splits "pkg.Name" into a TypeID; plain names have no package.
func declaredID(name string) analyze.TypeID {
	if i := strings.LastIndex(name, "."); i > 0 {
		return analyze.TypeID{PkgPath: name[:i], Name: name[i+1:]}
	}

	return analyze.TypeID{Name: name}
}

func isTypeName(name string) bool {
	if name == "" || name == UnknownTypeName {
		return false
	}

	for _, part := range strings.Split(name, ".") {
		if !isIdent(part) {
			return false
		}
	}

	return true
}

func isIdent(name string) bool {
	if name == "" {
		return false
	}

	for i, c := range name {
		if c == '_' || unicode.IsLetter(c) || (i > 0 && unicode.IsDigit(c)) {
			continue
		}

		return false
	}

	return true
}
