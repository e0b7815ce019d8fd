// Package mapping provides the YAML call-site manifest: schema definitions,
// parsing, validation, and conversion into analysis units.
//
// A manifest stands in for a host source scanner. It declares the types
// involved and, per analysis unit, the configuration calls (with their chained
// override calls) and the mapping calls to check.
//
// # Schema Overview
//
//	version: "1"
//	packages:
//	  - ./store
//	types:
//	  - name: Person
//	    members:
//	      id: int
//	      name: ?string
//	      tags: list<string>
//	  - name: PersonDto
//	    members:
//	      - id: int
//	      - {name: name, type: string, writable: true}
//	  - name: Status
//	    kind: enum
//	units:
//	  - name: people.go
//	    configs:
//	      - source: Person
//	        dest: PersonDto
//	        location: people.go:10:2
//	        chain:
//	          - method: ForMember
//	            member: name
//	            expr: src.name ?? ""
//	            result: string
//	    mappings:
//	      - source: Person
//	        dest: PersonDto
//	        location: people.go:20:9
//	        excluded: [tags]
//	        acknowledged: false
//
// # Type Expressions
//
// Type expressions are resolved in this order:
//  1. "unknown" (a type the host could not resolve)
//  2. types declared in the manifest
//  3. primitive kind names and their aliases ("int", "text", "uuid", ...)
//  4. named Go types of the loaded packages ("store.Order", "mapcheck/store.Order", "Order")
//
// Composite forms are "?T", "list<T>", "array<T>", "set<T>" and "map<K,V>".
package mapping
