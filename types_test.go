package sheetsql

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewHeader(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		cells    []string
		expected header
	}{
		{
			name:     "plain names are kept",
			cells:    []string{"id", "name", "age"},
			expected: header{"id", "name", "age"},
		},
		{
			name:     "empty cells are unnamed by index",
			cells:    []string{"id", "", " ", "age"},
			expected: header{"id", "Unnamed: 1", "Unnamed: 2", "age"},
		},
		{
			name:     "duplicates get numeric suffixes",
			cells:    []string{"a", "a", "b", "a"},
			expected: header{"a", "a.1", "b", "a.2"},
		},
		{
			name:     "duplicates are detected case-insensitively",
			cells:    []string{"Name", "name"},
			expected: header{"Name", "name.1"},
		},
		{
			name:     "suffix does not collide with an existing column",
			cells:    []string{"a", "a.1", "a"},
			expected: header{"a", "a.1", "a.2"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.expected, newHeader(tt.cells))
		})
	}
}

func TestRecord_PadTo(t *testing.T) {
	t.Parallel()

	t.Run("short record is padded", func(t *testing.T) {
		t.Parallel()
		assert.Equal(t, record{"1", "", ""}, newRecord([]string{"1"}).padTo(3))
	})

	t.Run("full record is unchanged", func(t *testing.T) {
		t.Parallel()
		r := newRecord([]string{"1", "2"})
		assert.Equal(t, r, r.padTo(2))
	})
}

func TestRecord_IsBlank(t *testing.T) {
	t.Parallel()

	assert.True(t, record{}.isBlank())
	assert.True(t, record{"", "  "}.isBlank())
	assert.False(t, record{"", "x"}.isBlank())
}

func TestColumnType_String(t *testing.T) {
	t.Parallel()

	tests := []struct {
		ct       columnType
		expected string
	}{
		{columnTypeText, "TEXT"},
		{columnTypeInteger, "INTEGER"},
		{columnTypeReal, "REAL"},
		{columnTypeBoolean, "INTEGER"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.expected, tt.ct.String())
	}
}
