package middleware

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateSessionID(t *testing.T) {
	for _, id := range []string{"s1", "abc-DEF_123", strings.Repeat("a", 64)} {
		assert.NoError(t, ValidateSessionID(id), id)
	}
	for _, id := range []string{"", "has space", "slash/y", "dot.ted", strings.Repeat("a", 65)} {
		assert.Error(t, ValidateSessionID(id), id)
	}
}

func TestSanitizeString(t *testing.T) {
	assert.Equal(t, "hello", SanitizeString("  hello  "))
	assert.Equal(t, "ab", SanitizeString("a\x00b"))
	assert.Equal(t, "line1\nline2", SanitizeString("line1\nline2"))
	assert.Equal(t, "tabbed\there", SanitizeString("tabbed\there"))
	assert.Equal(t, "nobell", SanitizeString("no\x07bell"))
}

func TestValidateLimit(t *testing.T) {
	assert.Equal(t, 20, ValidateLimit(0))
	assert.Equal(t, 20, ValidateLimit(-5))
	assert.Equal(t, 50, ValidateLimit(50))
	assert.Equal(t, 100, ValidateLimit(500))
}

func TestValidatePage(t *testing.T) {
	assert.Equal(t, 1, ValidatePage(0))
	assert.Equal(t, 1, ValidatePage(-1))
	assert.Equal(t, 3, ValidatePage(3))
}
