package analyze

import (
	"sort"
	"strings"
)

// ElementSegment marks a collection element within a member path.
const ElementSegment = "[]"

// TypePath builds a readable member path relative to a mapped pair.
// Examples:
//   - "" for the pair itself
//   - "address.street" for a nested member
//   - "[]" for the elements of a collection
//   - "items.[].sku" for a member within collection elements
type TypePath struct {
	parts []string
}

// NewTypePath creates a path from already split segments.
func NewTypePath(parts ...string) TypePath {
	return TypePath{parts: append([]string(nil), parts...)}
}

// Member appends a member name to the path.
func (p TypePath) Member(name string) TypePath {
	return TypePath{
		parts: append(append([]string{}, p.parts...), name),
	}
}

// Element appends a collection element indicator "[]" to the path.
func (p TypePath) Element() TypePath {
	return p.Member(ElementSegment)
}

// String returns the full path string.
func (p TypePath) String() string {
	return strings.Join(p.parts, ".")
}

// JoinPath prefixes a relative dotted path with another one.
func JoinPath(prefix, rel string) string {
	switch {
	case prefix == "":
		return rel
	case rel == "":
		return prefix
	default:
		return prefix + "." + rel
	}
}

// MemberPaths recursively lists the member paths reachable from a structured
// descriptor, up to maxDepth levels, sorted. Optionals are looked through and
// collections contribute an element segment.
func MemberPaths(root *Descriptor, maxDepth int) []string {
	seen := make(map[string]struct{})
	if !IsStructured(root) {
		return nil
	}

	visiting := map[*Descriptor]bool{}
	collectMemberPaths(root, NewTypePath(), seen, visiting, 0, maxDepth)

	res := make([]string, 0, len(seen))
	for p := range seen {
		res = append(res, p)
	}

	sort.Strings(res)

	return res
}

func collectMemberPaths(d *Descriptor, path TypePath, out map[string]struct{}, visiting map[*Descriptor]bool, depth, maxDepth int) {
	if depth > maxDepth || visiting[d] {
		return
	}

	visiting[d] = true
	defer delete(visiting, d)

	for i := range d.Members {
		m := &d.Members[i]
		memberPath := path.Member(m.Name)

		out[memberPath.String()] = struct{}{}

		collectNested(m.Type, memberPath, out, visiting, depth+1, maxDepth)
	}
}

func collectNested(t *Descriptor, path TypePath, out map[string]struct{}, visiting map[*Descriptor]bool, depth, maxDepth int) {
	if t == nil || depth > maxDepth {
		return
	}

	switch t.Kind {
	case KindStructured:
		collectMemberPaths(t, path, out, visiting, depth, maxDepth)

	case KindOptional:
		collectNested(t.Elem, path, out, visiting, depth, maxDepth)

	case KindCollection:
		collectNested(t.Elem, path.Element(), out, visiting, depth, maxDepth)

	case KindPrimitive, KindUnknown:
		// Terminal types - nothing to recurse into
	}
}
