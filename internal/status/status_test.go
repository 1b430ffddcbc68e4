package status

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCategory_String(t *testing.T) {
	tests := []struct {
		category Category
		expect   string
	}{
		{Unknown, "unknown"},
		{Building, "building"},
		{Failed, "failed"},
		{Successful, "successful"},
		{Category(99), "invalid"},
		{Category(-1), "invalid"},
	}

	for _, tt := range tests {
		t.Run(tt.expect, func(t *testing.T) {
			assert.Equal(t, tt.expect, tt.category.String())
		})
	}
}

func TestCategory_Valid(t *testing.T) {
	for _, c := range []Category{Unknown, Building, Failed, Successful} {
		assert.True(t, c.Valid(), c.String())
	}
	assert.False(t, Category(4).Valid())
	assert.False(t, Category(-1).Valid())
}

func TestParse(t *testing.T) {
	tests := []struct {
		raw    string
		expect Category
	}{
		{"running", Building},
		{"failure", Failed},
		{"success", Successful},
		{"aborted", Unknown},
		{"disabled", Unknown},
		{"", Unknown},
		{"SUCCESS", Unknown},
		{" success", Unknown},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got := Parse(tt.raw)
			assert.Equal(t, tt.expect, got)
			assert.True(t, got.Valid())
		})
	}
}

func TestRank(t *testing.T) {
	assert.Equal(t, 3, Rank(Failed))
	assert.Equal(t, 2, Rank(Building))
	assert.Equal(t, 1, Rank(Unknown))
	assert.Equal(t, 0, Rank(Successful))
	assert.Equal(t, -1, Rank(Category(42)))
}

func TestRank_TotalOrder(t *testing.T) {
	order := []Category{Failed, Building, Unknown, Successful}
	for i := 0; i < len(order)-1; i++ {
		assert.Greater(t, Rank(order[i]), Rank(order[i+1]),
			"%s should rank above %s", order[i], order[i+1])
	}
}

type item struct {
	name     string
	category Category
}

func TestSortByRank(t *testing.T) {
	items := []item{
		{"ok-1", Successful},
		{"new", Unknown},
		{"broken", Failed},
		{"ok-2", Successful},
		{"compiling", Building},
		{"broken-2", Failed},
		{"weird", Category(17)},
	}

	SortByRank(items, func(i item) Category { return i.category })

	require.Len(t, items, 7)
	var got []Category
	for _, it := range items {
		got = append(got, it.category)
	}
	assert.Equal(t, []Category{Failed, Failed, Building, Unknown, Successful, Successful, Category(17)}, got)
}

func TestSortByRank_BuildingBeforeSuccessful(t *testing.T) {
	items := []item{{"A", Successful}, {"B", Building}}

	SortByRank(items, func(i item) Category { return i.category })

	assert.Equal(t, "B", items[0].name)
	assert.Equal(t, "A", items[1].name)
}

func TestSortByRank_Empty(t *testing.T) {
	var items []item
	assert.NotPanics(t, func() {
		SortByRank(items, func(i item) Category { return i.category })
	})
}
