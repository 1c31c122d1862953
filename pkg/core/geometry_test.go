package core

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCell_RoundTripString(t *testing.T) {
	for _, c := range []Cell{{0, 0}, {12, 7}, {-3, 4}} {
		parsed, err := ParseCell(c.String())
		require.NoError(t, err)
		assert.Equal(t, c, parsed)
	}
}

func TestParseCell_Invalid(t *testing.T) {
	for _, s := range []string{"", "1", "a,2", "1,b"} {
		_, err := ParseCell(s)
		assert.Error(t, err, s)
	}
}

func TestCell_CanonicalOrder(t *testing.T) {
	cells := []Cell{{2, 1}, {0, 2}, {1, 1}, {5, 0}}
	sort.Slice(cells, func(i, j int) bool { return cells[i].Less(cells[j]) })
	assert.Equal(t, []Cell{{5, 0}, {1, 1}, {2, 1}, {0, 2}}, cells)
}

func TestCellRect_Contains(t *testing.T) {
	r := CellRect{Min: Cell{0, 0}, Max: Cell{3, 3}}
	assert.True(t, r.Contains(Cell{0, 0}))
	assert.True(t, r.Contains(Cell{3, 3}))
	assert.False(t, r.Contains(Cell{4, 0}))
	assert.False(t, r.Contains(Cell{0, -1}))
}

func TestColor_Similar(t *testing.T) {
	assert.True(t, RGB(1, 0.5, 0).Similar(Color{R: 1, G: 0.505, B: 0, A: 0.2}))
	assert.False(t, RGB(1, 0.5, 0).Similar(RGB(1, 0.6, 0)))
}
