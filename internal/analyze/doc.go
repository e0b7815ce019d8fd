// Package analyze provides the type descriptor model and its builders.
//
// A Descriptor is a normalized, host-independent view of a static type:
// a primitive value, a structured record with members, a collection
// (array, list, set, map) or an optional wrapper. Everything that checks
// mapping compatibility operates on descriptors, never on go/types values
// directly.
//
// Descriptors are built by the Loader, from Go packages via
// golang.org/x/tools/go/packages, or by the constructors (NewStructured,
// NewList, NewMap, NewOptional, ...).
//
// Key types:
//   - TypeID: package import path + type name
//   - Descriptor: kind-tagged type (unknown/primitive/structured/collection/optional)
//   - Member: name, type, readability and writability of a structured slot
//   - TypePath: dotted member path with "[]" for collection elements
package analyze
