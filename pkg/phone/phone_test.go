package phone

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	cases := []struct {
		name     string
		input    string
		expected string
	}{
		{"already normalized", "9876543210", "9876543210"},
		{"with country code", "919876543210", "9876543210"},
		{"plus country code", "+91 98765 43210", "9876543210"},
		{"leading zero", "09876543210", "9876543210"},
		{"hyphens and spaces", "98765-432 10", "9876543210"},
		{"too short stays", "98765", "98765"},
		{"letters stripped", "98a76b54c3210", "9876543210"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, Normalize(tc.input))
		})
	}
}

func TestIsValid(t *testing.T) {
	assert.True(t, IsValid("9876543210"))
	assert.True(t, IsValid("6000000000"))

	assert.False(t, IsValid("5876543210"), "first digit below 6")
	assert.False(t, IsValid("987654321"), "nine digits")
	assert.False(t, IsValid("98765432100"), "eleven digits")
	assert.False(t, IsValid(""))
}

func TestNormalizeAndValidate(t *testing.T) {
	normalized, ok := NormalizeAndValidate("+91-98765-43210")
	assert.True(t, ok)
	assert.Equal(t, "9876543210", normalized)

	// Normalizing twice changes nothing.
	again, ok := NormalizeAndValidate(normalized)
	assert.True(t, ok)
	assert.Equal(t, normalized, again)

	_, ok = NormalizeAndValidate("12345")
	assert.False(t, ok)

	// A "91" prefix on an already 10-digit number must not be stripped.
	normalized, ok = NormalizeAndValidate("9198765432")
	assert.True(t, ok)
	assert.Equal(t, "9198765432", normalized)
}
