package match

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTokenizeIdent(t *testing.T) {
	tests := []struct {
		name string
		want []string
	}{
		{"fullName", []string{"full", "name"}},
		{"full name", []string{"full", "name"}},
		{"homeAddress.zip", []string{"home", "address", "zip"}},
		{"createdAtUTC", []string{"created", "at", "utc"}},
		{"ISBNNumber", []string{"isbn", "number"}},
		{"URLPath", []string{"url", "path"}},
		{"__tags_", []string{"tags"}},
		{"x", []string{"x"}},
		{"", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, TokenizeIdent(tt.name))
		})
	}
}

func TestNormalizeIdent_MemberSpellings(t *testing.T) {
	// every spelling of a member name folds to the same key
	for _, name := range []string{"fullName", "full_name", "Full-Name", "FULLNAME", "full.name"} {
		assert.Equal(t, "fullname", NormalizeIdent(name), name)
	}

	assert.Equal(t, "homeaddresszip", NormalizeIdent("homeAddress.zip"))
	assert.Empty(t, NormalizeIdent(""))
}

func TestNormalizeIdentWithSuffixStrip(t *testing.T) {
	tests := []struct {
		name string
		want string
	}{
		{"UserId", "user"},
		{"UpdatedAt", "updated"},
		{"PostalCodeNo", "postalcode"},
		{"ISBNNumber", "isbn"},
		{"createdAtUTC", "createdat"}, // one suffix only
		{"Status", "status"},
		{"ID", "id"}, // never strips the whole name
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeIdentWithSuffixStrip(tt.name))
		})
	}
}
