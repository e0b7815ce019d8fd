package mapping

import (
	"fmt"

	"mapcheck/internal/analyze"
	"mapcheck/internal/callsite"
)

// Resolver creates a resolver over graph with the manifest types declared.
func (f *File) Resolver(graph *analyze.TypeGraph) (*Resolver, error) {
	r := NewResolver(graph)
	if err := r.Declare(f.Types); err != nil {
		return nil, fmt.Errorf("declaring manifest types: %w", err)
	}

	return r, nil
}

// BuildUnits builds the analysis units of the manifest. Type expressions are
// resolved with r, so the manifest types must already be declared.
func (f *File) BuildUnits(r *Resolver) ([]callsite.Unit, error) {
	units := make([]callsite.Unit, 0, len(f.Units))

	for i := range f.Units {
		u, err := f.Units[i].build(r)
		if err != nil {
			return nil, fmt.Errorf("unit %s: %w", f.Units[i].Name, err)
		}

		units = append(units, u)
	}

	return units, nil
}

func (u *UnitDecl) build(r *Resolver) (callsite.Unit, error) {
	unit := callsite.Unit{Name: u.Name}

	for i := range u.Configs {
		cfg, err := u.Configs[i].build(r)
		if err != nil {
			return callsite.Unit{}, fmt.Errorf("config %d: %w", i+1, err)
		}

		unit.ConfigCalls = append(unit.ConfigCalls, cfg)
	}

	for i := range u.Mappings {
		call, err := u.Mappings[i].build(r)
		if err != nil {
			return callsite.Unit{}, fmt.Errorf("mapping %d: %w", i+1, err)
		}

		unit.MappingCalls = append(unit.MappingCalls, call)
	}

	return unit, nil
}

func (c *ConfigDecl) build(r *Resolver) (callsite.ConfigCall, error) {
	src, dst, err := resolvePair(r, c.Source, c.Dest)
	if err != nil {
		return callsite.ConfigCall{}, err
	}

	loc, err := callsite.ParseLocation(c.Location)
	if err != nil {
		return callsite.ConfigCall{}, err
	}

	cfg := callsite.ConfigCall{Source: src, Dest: dst, Location: loc}

	for i := range c.Chain {
		call, err := c.Chain[i].build(r)
		if err != nil {
			return callsite.ConfigCall{}, fmt.Errorf("chain call %d (%s): %w", i+1, c.Chain[i].Method, err)
		}

		cfg.Chain = append(cfg.Chain, call)
	}

	return cfg, nil
}

func (c *ChainDecl) build(r *Resolver) (callsite.ChainCall, error) {
	loc, err := callsite.ParseLocation(c.Location)
	if err != nil {
		return callsite.ChainCall{}, err
	}

	call := callsite.ChainCall{Method: c.Method, Member: c.Member, Location: loc}

	if c.Expr == "" && c.Result == "" {
		return call, nil
	}

	call.Expr = &callsite.Expression{Text: c.Expr, Param: c.Param}

	if c.Result != "" {
		call.Expr.ResultType, err = r.Resolve(c.Result)
		if err != nil {
			return callsite.ChainCall{}, fmt.Errorf("result type: %w", err)
		}
	}

	return call, nil
}

func (m *MappingDecl) build(r *Resolver) (callsite.MappingCall, error) {
	src, dst, err := resolvePair(r, m.Source, m.Dest)
	if err != nil {
		return callsite.MappingCall{}, err
	}

	loc, err := callsite.ParseLocation(m.Location)
	if err != nil {
		return callsite.MappingCall{}, err
	}

	return callsite.MappingCall{
		Source:           src,
		Dest:             dst,
		Location:         loc,
		Excluded:         append([]string(nil), m.Excluded...),
		RiskAcknowledged: m.Acknowledged,
	}, nil
}

func resolvePair(r *Resolver, source, dest string) (*analyze.Descriptor, *analyze.Descriptor, error) {
	src, err := r.Resolve(source)
	if err != nil {
		return nil, nil, fmt.Errorf("source: %w", err)
	}

	dst, err := r.Resolve(dest)
	if err != nil {
		return nil, nil, fmt.Errorf("dest: %w", err)
	}

	return src, dst, nil
}
