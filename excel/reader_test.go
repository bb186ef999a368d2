package excel

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestGridSheet(t *testing.T) {
	s := NewGridSheet([][]string{
		{"a", "1", "2.5"},
		{"", " 3 "},
	})

	assert.Equal(t, 2, s.RowCount())
	assert.Equal(t, 3, s.ColCount())

	assert.Equal(t, "a", s.GetString(0, 0))
	assert.Equal(t, "", s.GetString(1, 2)) // ragged row reads empty
	assert.Equal(t, "", s.GetString(9, 9)) // out of bounds reads empty

	v, ok := s.GetFloat(0, 1)
	require.True(t, ok)
	assert.Equal(t, 1.0, v)

	v, ok = s.GetFloat(1, 1) // surrounding whitespace is tolerated
	require.True(t, ok)
	assert.Equal(t, 3.0, v)

	_, ok = s.GetFloat(0, 0)
	assert.False(t, ok)

	assert.True(t, s.IsEmpty(1, 0))
	assert.False(t, s.IsEmpty(0, 0))
}

func TestOpenFirstSheet(t *testing.T) {
	path := filepath.Join(t.TempDir(), "book.xlsx")
	f := excelize.NewFile()
	require.NoError(t, f.SetCellStr("Sheet1", "A1", "hello"))
	require.NoError(t, f.SetCellInt("Sheet1", "B2", 7))
	require.NoError(t, f.SaveAs(path))
	require.NoError(t, f.Close())

	s, err := OpenFirstSheet(path)
	require.NoError(t, err)
	assert.Equal(t, "hello", s.GetString(0, 0))
	assert.Equal(t, "7", s.GetString(1, 1))

	_, err = OpenFirstSheet(filepath.Join(t.TempDir(), "absent.xlsx"))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrFile)
}
