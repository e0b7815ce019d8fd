package mapping

import (
	"errors"
	"fmt"
	"slices"

	"gopkg.in/yaml.v3"

	"mapcheck/internal/common"
)

// --- StringOrArray YAML methods ---

// UnmarshalYAML implements custom YAML unmarshaling for StringOrArray.
// Accepts either a single string or an array of strings.
func (s *StringOrArray) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		var str string

		err := node.Decode(&str)
		if err != nil {
			return err
		}

		if str != "" {
			*s = StringOrArray{str}
		} else {
			*s = StringOrArray{}
		}

		return nil

	case yaml.SequenceNode:
		var arr []string

		err := node.Decode(&arr)
		if err != nil {
			return err
		}

		*s = arr

		return nil

	default:
		return fmt.Errorf("expected string or array, got %v", node.Kind)
	}
}

// MarshalYAML implements custom YAML marshaling for StringOrArray.
// Outputs a single string if length is 1, otherwise an array.
func (s StringOrArray) MarshalYAML() (any, error) {
	if common.IsSingle(s) {
		return s[0], nil
	}

	return []string(s), nil
}

// First returns the first element or empty string if empty.
func (s StringOrArray) First() string {
	if v, ok := common.First(s); ok {
		return v
	}

	return ""
}

// IsEmpty returns true if the array is empty.
func (s StringOrArray) IsEmpty() bool {
	return common.IsEmpty(s)
}

// Contains returns true if the array contains the given string.
func (s StringOrArray) Contains(str string) bool {
	return slices.Contains(s, str)
}

// --- MemberList YAML methods ---

// UnmarshalYAML implements custom YAML unmarshaling for MemberList.
// Accepts:
//   - Mapping in declaration order: {ID: int, Name: string}
//   - Array of single pairs: [{ID: int}, {Name: string}]
//   - Array of full objects: [{name: ID, type: int, writable: false}]
func (m *MemberList) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.MappingNode:
		members := make(MemberList, 0, len(node.Content)/2)

		for i := 0; i+1 < len(node.Content); i += 2 {
			decl, err := parseMemberPair(node.Content[i], node.Content[i+1])
			if err != nil {
				return err
			}

			members = append(members, decl)
		}

		*m = members

		return nil

	case yaml.SequenceNode:
		members := make(MemberList, 0, len(node.Content))

		for _, item := range node.Content {
			decl, err := parseMemberItem(item)
			if err != nil {
				return err
			}

			members = append(members, decl)
		}

		*m = members

		return nil

	default:
		return fmt.Errorf("expected map or array of members, got %v", node.Kind)
	}
}

// parseMemberItem parses one element of a member sequence.
func parseMemberItem(node *yaml.Node) (MemberDecl, error) {
	if node.Kind != yaml.MappingNode {
		return MemberDecl{}, fmt.Errorf("line %d: expected member map, got %v", node.Line, node.Kind)
	}

	// an explicit object has a "name" key next to other keys
	if len(node.Content) > 2 && hasKey(node, "name") {
		var decl MemberDecl
		if err := node.Decode(&decl); err != nil {
			return MemberDecl{}, err
		}

		if decl.Name == "" {
			return MemberDecl{}, fmt.Errorf("line %d: member without name", node.Line)
		}

		return decl, nil
	}

	if len(node.Content) != 2 {
		return MemberDecl{}, fmt.Errorf("line %d: expected {name: type} or {name: ..., type: ...}", node.Line)
	}

	return parseMemberPair(node.Content[0], node.Content[1])
}

// parseMemberPair parses a "name: type" pair.
func parseMemberPair(key, value *yaml.Node) (MemberDecl, error) {
	var name, typ string

	if err := key.Decode(&name); err != nil {
		return MemberDecl{}, fmt.Errorf("invalid member name: %w", err)
	}

	if err := value.Decode(&typ); err != nil {
		return MemberDecl{}, fmt.Errorf("invalid type for member %s: %w", name, err)
	}

	if name == "" {
		return MemberDecl{}, errors.New("member without name")
	}

	return MemberDecl{Name: name, Type: typ}, nil
}

func hasKey(node *yaml.Node, key string) bool {
	for i := 0; i+1 < len(node.Content); i += 2 {
		if node.Content[i].Value == key {
			return true
		}
	}

	return false
}

// MarshalYAML implements custom YAML marshaling for MemberList.
// Members with default access are written as {name: type} pairs.
func (m MemberList) MarshalYAML() (any, error) {
	if len(m) == 0 {
		return nil, nil
	}

	result := make([]any, len(m))

	for i, decl := range m {
		if decl.Readable == nil && decl.Writable == nil {
			result[i] = map[string]string{decl.Name: decl.Type}
		} else {
			result[i] = decl
		}
	}

	return result, nil
}
