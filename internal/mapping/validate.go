package mapping

import (
	"errors"
	"fmt"

	"mapcheck/internal/analyze"
	"mapcheck/internal/callsite"
	"mapcheck/internal/diagnostic"
	"mapcheck/internal/discovery"
)

// Validate validates a manifest against the given type graph.
// This is a structural validation step only; mapping compatibility is left to
// the checker.
func Validate(f *File, graph *analyze.TypeGraph) *diagnostic.Diagnostics {
	res := &diagnostic.Diagnostics{}
	if f == nil {
		res.AddError("manifest_is_nil", "manifest is nil", "", "")
		return res
	}

	r := NewResolver(graph)
	r.declare(f.Types, func(decl TypeDecl, member string, err error) {
		res.AddError(declCode(err), err.Error(), decl.Name, member)
	})

	seenUnits := map[string]struct{}{}

	for i := range f.Units {
		u := &f.Units[i]

		if _, ok := seenUnits[u.Name]; ok {
			res.AddWarning("duplicate_unit", fmt.Sprintf("duplicate unit %q", u.Name), "", "")
		}

		seenUnits[u.Name] = struct{}{}

		for j := range u.Configs {
			validateConfig(res, r, &u.Configs[j])
		}

		for j := range u.Mappings {
			validateMapping(res, r, &u.Mappings[j])
		}
	}

	return res
}

func validateConfig(res *diagnostic.Diagnostics, r *Resolver, c *ConfigDecl) {
	tpStr := fmt.Sprintf("%s->%s", c.Source, c.Dest)
	dst := validatePair(res, r, tpStr, c.Source, c.Dest, c.Location)

	for i := range c.Chain {
		call := &c.Chain[i]

		kind, ok := discovery.Classify(call.Method)
		if !ok {
			res.AddWarning("unknown_method", fmt.Sprintf("chain method %q is not recognized and will be ignored", call.Method), tpStr, call.Member)
			continue
		}

		if kind.IsMemberKind() && call.Member == "" {
			res.AddError("missing_member", fmt.Sprintf("chain method %q requires a member", call.Method), tpStr, "")
			continue
		}

		if call.Member != "" && analyze.IsStructured(dst) && dst.FindMember(call.Member) == nil {
			res.AddWarning("unknown_dest_member", fmt.Sprintf("destination %s has no member %q", c.Dest, call.Member), tpStr, call.Member)
		}

		if call.Result != "" {
			if _, err := r.Resolve(call.Result); err != nil {
				res.AddError(exprCode(err), fmt.Sprintf("result type of %s: %v", call.Method, err), tpStr, call.Member)
			}
		}

		validateLocation(res, call.Location, tpStr, call.Member)
	}
}

func validateMapping(res *diagnostic.Diagnostics, r *Resolver, m *MappingDecl) {
	tpStr := fmt.Sprintf("%s->%s", m.Source, m.Dest)
	dst := validatePair(res, r, tpStr, m.Source, m.Dest, m.Location)

	if !analyze.IsStructured(dst) {
		return
	}

	for _, name := range m.Excluded {
		if dst.FindMember(name) == nil {
			res.AddWarning("unknown_excluded_member", fmt.Sprintf("excluded member %q not found in %s", name, m.Dest), tpStr, name)
		}
	}
}

// validatePair resolves both sides, reporting failures. It returns the
// destination, or nil when it does not resolve.
func validatePair(res *diagnostic.Diagnostics, r *Resolver, tpStr, source, dest, loc string) *analyze.Descriptor {
	if _, err := r.Resolve(source); err != nil {
		res.AddError(exprCode(err), fmt.Sprintf("source type: %v", err), tpStr, "")
	}

	dst, err := r.Resolve(dest)
	if err != nil {
		res.AddError(exprCode(err), fmt.Sprintf("dest type: %v", err), tpStr, "")
	}

	validateLocation(res, loc, tpStr, "")

	return dst
}

func validateLocation(res *diagnostic.Diagnostics, loc, tpStr, member string) {
	if _, err := callsite.ParseLocation(loc); err != nil {
		res.AddError("invalid_location", err.Error(), tpStr, member)
	}
}

func declCode(err error) string {
	switch {
	case errors.Is(err, ErrDuplicateType):
		return "duplicate_type"
	case errors.Is(err, analyze.ErrDuplicateMember):
		return "duplicate_member"
	case errors.Is(err, ErrInvalidIdent):
		return "invalid_identifier"
	default:
		return exprCode(err)
	}
}

func exprCode(err error) string {
	switch {
	case errors.Is(err, ErrUnknownType):
		return "unknown_type"
	case errors.Is(err, ErrInvalidTypeExpr):
		return "invalid_type_expression"
	default:
		return "invalid_type"
	}
}
