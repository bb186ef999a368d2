package excel

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCellRef(t *testing.T) {
	cases := []struct {
		ref      string
		row, col int
	}{
		{"A1", 0, 0},
		{"B2", 1, 1},
		{"Z10", 9, 25},
		{"AA1", 0, 26},
		{"M6", 5, 12},
	}
	for _, c := range cases {
		row, col, err := ParseCellRef(c.ref)
		require.NoError(t, err, c.ref)
		assert.Equal(t, c.row, row, c.ref)
		assert.Equal(t, c.col, col, c.ref)
	}
}

func TestParseCellRefInvalid(t *testing.T) {
	for _, ref := range []string{"", "123", "ABC", "A0", "A-1", "1A"} {
		_, _, err := ParseCellRef(ref)
		assert.Error(t, err, ref)
	}
}

func TestParseCellRange(t *testing.T) {
	region, err := ParseCellRange("A1:B3")
	require.NoError(t, err)
	assert.Equal(t, MergedRegion{StartRow: 0, StartCol: 0, EndRow: 2, EndCol: 1}, region)

	assert.True(t, region.Contains(1, 0))
	assert.False(t, region.Contains(3, 0))
	assert.False(t, region.Contains(0, 2))

	_, err = ParseCellRange("A1")
	assert.Error(t, err)
	_, err = ParseCellRange("A1:??")
	assert.Error(t, err)
}

func TestColNameRoundTrip(t *testing.T) {
	for _, col := range []int{0, 1, 25, 26, 27, 51, 52, 701, 702} {
		name := ColToName(col)
		back, err := NameToCol(name)
		require.NoError(t, err, name)
		assert.Equal(t, col, back, name)
	}
	assert.Equal(t, "A", ColToName(0))
	assert.Equal(t, "Z", ColToName(25))
	assert.Equal(t, "AA", ColToName(26))
}
