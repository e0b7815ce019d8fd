// Package callsite defines the data a host source scanner hands to the
// checker: configuration calls with their chained sub-calls, mapping calls,
// override expressions and source locations.
package callsite

import (
	"fmt"
	"strconv"
	"strings"

	"mapcheck/internal/analyze"
)

// DefaultParam is the expression parameter name that denotes the source object.
const DefaultParam = "src"

// Location is a position in host source.
type Location struct {
	File   string `json:"file,omitempty"   yaml:"file,omitempty"`
	Line   int    `json:"line,omitempty"   yaml:"line,omitempty"`
	Column int    `json:"column,omitempty" yaml:"column,omitempty"`
}

// ParseLocation parses "file", "file:line" or "file:line:col".
func ParseLocation(s string) (Location, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Location{}, nil
	}

	parts := strings.Split(s, ":")

	// trailing numeric parts are line and column; everything before is the file
	var nums []int

	for len(parts) > 1 && len(nums) < 2 {
		n, err := strconv.Atoi(parts[len(parts)-1])
		if err != nil {
			break
		}

		nums = append([]int{n}, nums...)
		parts = parts[:len(parts)-1]
	}

	loc := Location{File: strings.Join(parts, ":")}
	if loc.File == "" {
		return Location{}, fmt.Errorf("invalid location %q: missing file", s)
	}

	if len(nums) > 0 {
		loc.Line = nums[0]
	}

	if len(nums) > 1 {
		loc.Column = nums[1]
	}

	return loc, nil
}

// IsZero reports whether no position is known.
func (l Location) IsZero() bool {
	return l.File == "" && l.Line == 0 && l.Column == 0
}

// String formats the location as "file:line:col", omitting unknown parts.
func (l Location) String() string {
	switch {
	case l.IsZero():
		return ""
	case l.Line == 0:
		return l.File
	case l.Column == 0:
		return fmt.Sprintf("%s:%d", l.File, l.Line)
	default:
		return fmt.Sprintf("%s:%d:%d", l.File, l.Line, l.Column)
	}
}

// Expression is an override expression as recorded by the host. Text is the
// expression source; Param names the identifier bound to the source object;
// ResultType is the host-resolved static type of the expression, or nil.
type Expression struct {
	Text       string
	Param      string
	ResultType *analyze.Descriptor
}

// ParamName returns Param or DefaultParam.
func (e *Expression) ParamName() string {
	if e == nil || e.Param == "" {
		return DefaultParam
	}

	return e.Param
}

// ChainCall is one call chained onto a configuration call,
// e.g. ForMember(dest => dest.ID, opt => opt.MapFrom(src => Parse(src.ID))).
type ChainCall struct {
	Method   string
	Member   string
	Expr     *Expression
	Location Location
}

// ConfigCall is a configuration-establishing call that fixes a type pair.
type ConfigCall struct {
	Source   *analyze.Descriptor
	Dest     *analyze.Descriptor
	Location Location
	Chain    []ChainCall
}

// MappingCall is a mapping invocation to be checked. Excluded lists
// destination members assigned right after the call; RiskAcknowledged is set
// when the call site carries a marker accepting nullability risk.
type MappingCall struct {
	Source           *analyze.Descriptor
	Dest             *analyze.Descriptor
	Location         Location
	Excluded         []string
	RiskAcknowledged bool
}

// Pair returns a "Source->Dest" label for the call.
func (m MappingCall) Pair() string {
	return PairLabel(m.Source, m.Dest)
}

// Unit is one analysis unit: the configuration and mapping calls of a
// single file or package as supplied by the host.
type Unit struct {
	Name         string
	ConfigCalls  []ConfigCall
	MappingCalls []MappingCall
}

// PairLabel formats a type pair for messages.
func PairLabel(src, dst *analyze.Descriptor) string {
	return src.String() + "->" + dst.String()
}
