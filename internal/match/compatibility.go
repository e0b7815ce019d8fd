package match

import (
	"mapcheck/internal/analyze"
	"mapcheck/primitive"
)

// TypeCompatibility represents the level of compatibility between two types.
type TypeCompatibility int

const (
	// TypeIncompatible means the types cannot be converted.
	TypeIncompatible TypeCompatibility = iota
	// TypeNeedsTransform means a conversion exists but is not enabled, or
	// requires an explicit override.
	TypeNeedsTransform
	// TypeConvertible means an enabled conversion category covers the pair.
	TypeConvertible
	// TypeAssignable means the values share a representation.
	TypeAssignable
	// TypeIdentical means the types are exactly the same.
	TypeIdentical
)

const (
	VerdictIdentical      = "identical"
	VerdictAssignable     = "assignable"
	VerdictConvertible    = "convertible"
	VerdictNeedsTransform = "needs_transform"
	VerdictIncompatible   = "incompatible"
)

// String returns a human-readable name for the compatibility level.
func (c TypeCompatibility) String() string {
	switch c {
	case TypeIdentical:
		return VerdictIdentical
	case TypeAssignable:
		return VerdictAssignable
	case TypeConvertible:
		return VerdictConvertible
	case TypeNeedsTransform:
		return VerdictNeedsTransform
	case TypeIncompatible:
		return VerdictIncompatible
	default:
		return "unknown"
	}
}

// Score returns a numeric score for sorting (higher is better).
func (c TypeCompatibility) Score() int {
	return int(c)
}

// Compatible reports whether a mapping may copy the value without an override.
func (c TypeCompatibility) Compatible() bool {
	return c >= TypeConvertible
}

// TypeCompatibilityResult contains detailed information about type compatibility.
type TypeCompatibilityResult struct {
	Compatibility TypeCompatibility
	Reason        string                 // Human-readable explanation
	Category      primitive.CategoryEnum // Category that converts the pair, if any
	SourceType    string                 // String representation of source type
	TargetType    string                 // String representation of target type
}

// ScoreCompatibility grades the conversion of a primitive source into a
// primitive destination. Optional wrappers on either side are looked
// through; nullability is judged separately by the checker.
func ScoreCompatibility(source, target *analyze.Descriptor, allowed primitive.CategoryEnum) TypeCompatibilityResult {
	res := TypeCompatibilityResult{
		SourceType: source.String(),
		TargetType: target.String(),
	}

	src := analyze.UnderlyingIfOptional(source)
	dst := analyze.UnderlyingIfOptional(target)

	if analyze.IsUnknown(src) || analyze.IsUnknown(dst) {
		res.Compatibility = TypeIncompatible
		res.Reason = "type information unavailable"

		return res
	}

	if analyze.Identical(src, dst) {
		res.Compatibility = TypeIdentical
		res.Reason = "types are identical"

		return res
	}

	if src.Kind != analyze.KindPrimitive || dst.Kind != analyze.KindPrimitive {
		res.Compatibility = TypeIncompatible
		res.Reason = "only primitive types are converted"

		return res
	}

	from, to := src.Primitive, dst.Primitive

	// distinct enums share a kind but still need a conversion through their text form
	if from == to && !(from == primitive.KindPrimitiveEnum && src.IsNamed() && dst.IsNamed()) {
		res.Compatibility = TypeAssignable
		res.Reason = "types share the " + from.String() + " representation"

		return res
	}

	res.Category = primitive.Category(from, to)

	switch {
	case res.Category == primitive.CategoryNone:
		res.Compatibility = TypeIncompatible
		res.Reason = "no conversion from " + from.String() + " to " + to.String()

	case allowed&res.Category != 0 || categoryCovers(from, to, allowed):
		res.Compatibility = TypeConvertible
		res.Reason = "converted by " + res.Category.String()

	default:
		res.Compatibility = TypeNeedsTransform
		res.Reason = "conversion category " + res.Category.String() + " is not enabled"
	}

	return res
}

// categoryCovers handles pairs that appear in more than one category, where
// Category reports only the first.
func categoryCovers(from, to primitive.KindEnum, allowed primitive.CategoryEnum) bool {
	if from == to {
		return allowed&primitive.CategoryEnumString != 0
	}

	return primitive.Convertible(from, to, allowed)
}
