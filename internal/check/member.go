package check

import (
	"fmt"

	"mapcheck/internal/analyze"
	"mapcheck/internal/match"
	"mapcheck/internal/registry"
)

// analyze walks the writable members of dest and compares each with the
// same-named readable member of source. Issue paths are relative to the pair.
//
// The walk is memoized per pair and guarded against cycles; pairs deeper than
// MaxDepth are not inspected.
func (r *run) analyze(s, d *analyze.Descriptor, depth int) []MemberIssue {
	if depth >= r.opts.MaxDepth {
		r.maxDepthReached = true
		return nil
	}

	key := registry.PairOf(s, d)

	// the caller's exclusions apply to the root pair of this call only
	excluding := depth == 0 && key == r.root && len(r.excluded) > 0

	if !excluding {
		if cached, ok := r.cache[key]; ok {
			return cached
		}
	}

	if _, ok := r.stack[key]; ok {
		r.circular = true
		return nil
	}

	r.stack[key] = struct{}{}

	var issues []MemberIssue

	for _, dm := range d.Members {
		if !dm.Writable {
			continue
		}

		if excluding {
			if _, ok := r.excluded[dm.Name]; ok {
				continue
			}
		}

		issues = append(issues, r.member(s, dm, depth)...)
	}

	delete(r.stack, key)

	if !excluding {
		r.cache[key] = issues
	}

	return issues
}

// member checks a single destination member against the source type.
func (r *run) member(s *analyze.Descriptor, dm analyze.Member, depth int) []MemberIssue {
	path := dm.Name

	// member rules are looked up on the root pair by member name, at any
	// depth, and populate the member whether or not the source has it
	if rule, ok := r.reg.GetMemberMapping(r.rootSrc, r.rootDst, dm.Name); ok {
		return prefixIssues(path, r.validateRule(rule, r.rootSrc, dm.Type))
	}

	sm := s.FindMember(dm.Name)
	if sm == nil || !sm.Readable {
		issue := newIssue(MissingSourceMember, path,
			fmt.Sprintf("no readable source member %q on %s", dm.Name, s))
		issue.DestType = dm.Type.String()
		issue.Suggestions = match.SuggestMembers(dm.Name, s.Members)

		return []MemberIssue{issue}
	}

	v := r.compare(sm.Type, dm.Type, depth+1)

	var issues []MemberIssue

	if v.nullable {
		issue := newIssue(NullabilityMismatch, path, v.nullDetail)
		issue.SourceType, issue.DestType = sm.Type.String(), dm.Type.String()
		issues = append(issues, issue)
	}

	if v.incompatible {
		issue := newIssue(TypeIncompatibility, path, v.reason)
		issue.SourceType, issue.DestType = sm.Type.String(), dm.Type.String()
		issues = append(issues, issue)
	}

	return append(issues, prefixIssues(path, v.issues)...)
}
