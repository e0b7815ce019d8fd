package check

import "mapcheck/internal/analyze"

// collectionKinds[source][dest] tells whether one collection shape may be
// mapped onto another without an explicit override.
var collectionKinds = [4][4]bool{
	analyze.CollectionArray: {analyze.CollectionArray: true, analyze.CollectionList: true, analyze.CollectionSet: true},
	analyze.CollectionList:  {analyze.CollectionArray: true, analyze.CollectionList: true},
	analyze.CollectionSet:   {analyze.CollectionArray: true, analyze.CollectionSet: true},
	analyze.CollectionMap:   {analyze.CollectionMap: true},
}

// CollectionKindsCompatible reports whether a source collection shape maps
// onto a destination shape.
func CollectionKindsCompatible(source, dest analyze.CollectionKind) bool {
	if source < 0 || int(source) >= len(collectionKinds) || dest < 0 || int(dest) >= len(collectionKinds) {
		return false
	}

	return collectionKinds[source][dest]
}

// innermostElements descends through nested collections until it reaches a
// non-collection element on both sides.
func innermostElements(s, d *analyze.Descriptor) (*analyze.Descriptor, *analyze.Descriptor) {
	for analyze.IsCollection(s) && analyze.IsCollection(d) {
		s = analyze.UnderlyingIfOptional(analyze.ElementType(s))
		d = analyze.UnderlyingIfOptional(analyze.ElementType(d))
	}

	return s, d
}

// elements compares the element types of two collections. It returns the
// element issues, prefixed with "[]", and whether the element mismatch makes
// the collections themselves incompatible.
func (r *run) elements(s, d *analyze.Descriptor, depth int) ([]MemberIssue, bool) {
	path := analyze.NewTypePath().Element()

	se, de := analyze.ElementType(s), analyze.ElementType(d)

	v := r.compare(se, de, depth)

	var issues []MemberIssue

	if v.nullable {
		issue := newIssue(NullabilityMismatch, path.String(), v.nullDetail)
		issue.SourceType, issue.DestType = se.String(), de.String()
		issues = append(issues, issue)
	}

	if v.incompatible {
		issue := newIssue(TypeIncompatibility, path.String(), v.reason)
		issue.SourceType, issue.DestType = se.String(), de.String()
		issues = append(issues, issue)
	}

	issues = append(issues, prefixIssues(path.String(), v.issues)...)

	return issues, v.incompatible
}
