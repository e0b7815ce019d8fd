package analyze

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"mapcheck/primitive"
)

func TestTypePath(t *testing.T) {
	root := NewTypePath()
	assert.Equal(t, "", root.String())

	items := root.Member("items")
	assert.Equal(t, "items", items.String())

	elem := items.Element()
	assert.Equal(t, "items.[]", elem.String())

	sku := elem.Member("sku")
	assert.Equal(t, "items.[].sku", sku.String())
	assert.Equal(t, "address.zip", NewTypePath("address", "zip").String())

	// derived paths never alias their parent
	assert.Equal(t, "items", items.String())
	assert.Equal(t, "[].id", NewTypePath().Element().Member("id").String())
}

func TestJoinPath(t *testing.T) {
	assert.Equal(t, "a", JoinPath("", "a"))
	assert.Equal(t, "a", JoinPath("a", ""))
	assert.Equal(t, "[].a.b", JoinPath("[]", "a.b"))
}

func TestMemberPaths(t *testing.T) {
	text := NewPrimitive(primitive.KindString)
	item := NewStructured(TypeID{Name: "Item"}, Field("sku", text))
	node := NewStructured(TypeID{Name: "Node"}, Field("label", text))
	_ = node.AddMember(Field("next", NewOptional(node)))
	order := NewStructured(TypeID{Name: "Order"},
		Field("id", text),
		Field("items", NewList(item)),
		Field("head", node),
	)

	paths := MemberPaths(order, 5)
	assert.Equal(t, []string{
		"head",
		"head.label",
		"head.next",
		"id",
		"items",
		"items.[].sku",
	}, paths)

	assert.Nil(t, MemberPaths(text, 5))
}
