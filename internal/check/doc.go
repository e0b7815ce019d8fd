// Package check decides whether a mapping call between a source and a
// destination type is safe.
//
// A Checker compares the two descriptors, consults the frozen override
// registry, and walks the members of structured types and the elements of
// collections. Every call to Check owns its own memo cache and cycle stack,
// so a single Checker may serve any number of goroutines.
package check
