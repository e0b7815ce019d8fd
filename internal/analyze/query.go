package analyze

import (
	"fmt"
	"strings"

	"mapcheck/internal/common"
)

// IsUnknown reports whether d carries no usable type information.
func IsUnknown(d *Descriptor) bool {
	return d == nil || d.Kind == KindUnknown
}

// IsStructured reports whether d is a record type.
func IsStructured(d *Descriptor) bool {
	return d != nil && d.Kind == KindStructured
}

// IsCollection reports whether d is an array, list, set or map.
// Text is a primitive and is never a collection.
func IsCollection(d *Descriptor) bool {
	return d != nil && d.Kind == KindCollection
}

// IsOptional reports whether d is an optional wrapper.
func IsOptional(d *Descriptor) bool {
	return d != nil && d.Kind == KindOptional
}

// IsText reports whether d is the textual primitive.
func IsText(d *Descriptor) bool {
	return d != nil && d.Kind == KindPrimitive && d.Primitive.IsText()
}

// CanBeAbsent reports whether a value of type d may be absent.
func CanBeAbsent(d *Descriptor) bool {
	return IsOptional(d)
}

// IsValueCategory reports whether d is a value-category primitive.
func IsValueCategory(d *Descriptor) bool {
	return d != nil && d.Kind == KindPrimitive && d.Primitive.IsValue()
}

// IsReferenceCategory reports whether d is a structured or collection type.
func IsReferenceCategory(d *Descriptor) bool {
	if d == nil {
		return false
	}

	switch d.Kind {
	case KindStructured, KindCollection:
		return true
	case KindUnknown, KindPrimitive, KindOptional:
		return false
	default:
		return false
	}
}

// UnderlyingIfOptional unwraps an optional; other descriptors are returned as-is.
func UnderlyingIfOptional(d *Descriptor) *Descriptor {
	if d == nil {
		return unknown
	}

	if d.Kind == KindOptional {
		return d.Elem
	}

	return d
}

// ElementType returns the element type of a collection (the value type for maps),
// or Unknown for anything else.
func ElementType(d *Descriptor) *Descriptor {
	if !IsCollection(d) || d.Elem == nil {
		return unknown
	}

	return d.Elem
}

// KeyType returns the key type of a map, or Unknown for anything else.
func KeyType(d *Descriptor) *Descriptor {
	if !IsCollection(d) || d.Collection != CollectionMap || d.MapKey == nil {
		return unknown
	}

	return d.MapKey
}

// MemberNames returns the names of the members of a structured descriptor.
func MemberNames(d *Descriptor) []string {
	if !IsStructured(d) {
		return nil
	}

	names := make([]string, 0, len(d.Members))
	for _, m := range d.Members {
		names = append(names, m.Name)
	}

	return names
}

// Identical reports whether two descriptors denote the same type.
// Unknown is never identical to anything, including itself, and neither is
// a composite with an unknown element, key or wrapped type.
func Identical(a, b *Descriptor) bool {
	if hasUnknownPart(a) || hasUnknownPart(b) {
		return false
	}

	if a == b {
		return true
	}

	return a.Key() == b.Key()
}

func hasUnknownPart(d *Descriptor) bool {
	switch {
	case IsUnknown(d):
		return true
	case IsOptional(d):
		return hasUnknownPart(d.Elem)
	case IsCollection(d):
		if d.Collection == CollectionMap && hasUnknownPart(KeyType(d)) {
			return true
		}

		return hasUnknownPart(ElementType(d))
	default:
		return false
	}
}

// Key returns the identity of the descriptor. Named types are identified by
// their qualified name only, so structurally equal named types stay distinct.
// The key is stable and suitable as a map key.
func (d *Descriptor) Key() string {
	if d == nil {
		return common.UnknownStr
	}

	switch d.Kind {
	case KindPrimitive:
		if d.IsNamed() {
			return d.ID.String()
		}

		return d.Primitive.String()

	case KindStructured:
		if d.IsNamed() {
			return d.ID.String()
		}

		// anonymous records have no stable name; identity is the instance
		return fmt.Sprintf("struct@%p", d)

	case KindCollection:
		if d.Collection == CollectionMap {
			return "map<" + KeyType(d).Key() + "," + ElementType(d).Key() + ">"
		}

		return d.Collection.String() + "<" + ElementType(d).Key() + ">"

	case KindOptional:
		return "?" + d.Elem.Key()

	case KindUnknown:
		return common.UnknownStr

	default:
		return common.UnknownStr
	}
}

// String returns a short human-readable type expression, e.g. "list<store.Person>".
func (d *Descriptor) String() string {
	if d == nil {
		return common.UnknownStr
	}

	switch d.Kind {
	case KindPrimitive:
		if d.IsNamed() {
			return d.ID.Short()
		}

		return d.Primitive.String()

	case KindStructured:
		if d.IsNamed() {
			return d.ID.Short()
		}

		return "struct{" + strings.Join(MemberNames(d), ",") + "}"

	case KindCollection:
		if d.Collection == CollectionMap {
			return "map<" + KeyType(d).String() + "," + ElementType(d).String() + ">"
		}

		return d.Collection.String() + "<" + ElementType(d).String() + ">"

	case KindOptional:
		return "?" + d.Elem.String()

	case KindUnknown:
		return common.UnknownStr

	default:
		return common.UnknownStr
	}
}
