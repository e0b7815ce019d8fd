// Package discovery runs an analysis over a fixed set of call-site units.
//
// Phase 1 registers the override rules declared by every configuration call
// and freezes the registry. Phase 2 checks every mapping call against the
// frozen registry on a bounded worker pool. Phase 2 never starts before
// Phase 1 has seen every unit, since rules may be declared after the calls
// that depend on them.
package discovery
