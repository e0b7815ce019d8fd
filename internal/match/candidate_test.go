package match

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mapcheck/internal/analyze"
	"mapcheck/primitive"
)

func members(names ...string) []analyze.Member {
	res := make([]analyze.Member, 0, len(names))
	for _, n := range names {
		res = append(res, analyze.Field(n, analyze.NewPrimitive(primitive.KindString)))
	}

	return res
}

func TestRankCandidates(t *testing.T) {
	sources := members("FullName", "Name", "Email", "Nickname", "UserName")
	sources = append(sources, analyze.Member{Name: "Names", Type: analyze.NewPrimitive(primitive.KindString)})

	ranked := RankCandidates("name", sources, DefaultMinSimilarity)
	require.NotEmpty(t, ranked)

	assert.Equal(t, "Name", ranked[0].Name)
	assert.InDelta(t, 1.0, ranked[0].Score, 1e-9)
	assert.NotContains(t, ranked.Names(), "Email")
	assert.NotContains(t, ranked.Names(), "Names", "unreadable members are never suggested")

	for i := 1; i < len(ranked); i++ {
		assert.GreaterOrEqual(t, ranked[i-1].Score, ranked[i].Score)
	}
}

func TestSuggestMembers(t *testing.T) {
	sources := members("Phone", "PhoneNumber", "Phones", "PhoneNo", "Email")

	got := SuggestMembers("phone_num", sources)
	assert.Len(t, got, DefaultSuggestions)
	assert.NotContains(t, got, "Email")

	assert.Nil(t, SuggestMembers("Zzz", sources))
}

func TestCandidateList_Top(t *testing.T) {
	list := CandidateList{{Name: "A", Score: 0.9}, {Name: "B", Score: 0.8}, {Name: "C", Score: 0.7}}

	assert.Len(t, list.Top(2), 2)
	assert.Len(t, list.Top(10), 3)
	assert.Equal(t, []string{"A", "B"}, list.Top(2).Names())
}
