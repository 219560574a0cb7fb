package util

import (
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
)

func TestCapwords(t *testing.T) {
	assert.Equal(t, "Limehouse Station", Capwords("LIMEHOUSE STATION"))
	assert.Equal(t, "Trafalgar Sq via CX", Capwords("trafalgar sq via CX"))
}

func TestTrimString(t *testing.T) {
	assert.Equal(t, "abc", TrimString("abc", 5))
	assert.Equal(t, "abc", TrimString("abcde", 3))

	// The limit counts characters, and never leaves a broken one behind.
	trimmed := TrimString("££££", 3)
	assert.Equal(t, "£££", trimmed)
	assert.True(t, utf8.ValidString(trimmed))
}

func TestContainsString(t *testing.T) {
	codes := []string{"546", "749"}
	assert.True(t, ContainsString(codes, "546"))
	assert.False(t, ContainsString(codes, "124"))
	assert.False(t, ContainsString(nil, "546"))
}

func TestRemoveDuplicateStrings(t *testing.T) {
	assert.Equal(t, []string{"15", "25"}, RemoveDuplicateStrings([]string{"15", "15", "25", "", "15"}, nil))
	assert.Equal(t, []string{"25"}, RemoveDuplicateStrings([]string{"15", "25"}, []string{"15"}))
}
