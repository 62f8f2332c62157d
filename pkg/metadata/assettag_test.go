package metadata

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNextAssetTag(t *testing.T) {
	tests := []struct {
		name     string
		lastTag  string
		expected string
	}{
		{
			name:     "First Tag",
			lastTag:  "",
			expected: "AST-00001",
		},
		{
			name:     "Increment",
			lastTag:  "AST-00041",
			expected: "AST-00042",
		},
		{
			name:     "Numeric Not Lexicographic",
			lastTag:  "AST-00099",
			expected: "AST-00100",
		},
		{
			name:     "Near Width Limit",
			lastTag:  "AST-09999",
			expected: "AST-10000",
		},
		{
			name:     "Malformed Tag Restarts Sequence",
			lastTag:  "AST-1",
			expected: "AST-00001",
		},
		{
			name:     "Foreign Prefix Ignored",
			lastTag:  "INV-00005",
			expected: "AST-00001",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, NextAssetTag(tt.lastTag))
		})
	}
}

func TestIsAssetTag(t *testing.T) {
	assert.True(t, IsAssetTag("AST-00001"))
	assert.True(t, IsAssetTag("AST-99999"))
	assert.False(t, IsAssetTag("AST-000001"))
	assert.False(t, IsAssetTag("ast-00001"))
	assert.False(t, IsAssetTag("AST-0001"))
	assert.False(t, IsAssetTag(""))
}

func TestNextCategoryCode(t *testing.T) {
	assert.Equal(t, "CAT001", NextCategoryCode(0))
	assert.Equal(t, "CAT013", NextCategoryCode(12))
	assert.Equal(t, "CAT1000", NextCategoryCode(999))
}
