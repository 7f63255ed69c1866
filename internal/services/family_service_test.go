package services

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateFamilyCode(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 50; i++ {
		code, err := generateFamilyCode()
		require.NoError(t, err)
		assert.Len(t, code, familyCodeLength)
		for _, r := range code {
			assert.True(t, strings.ContainsRune(familyCodeAlphabet, r),
				"unexpected character %q in code %s", r, code)
		}
		seen[code] = true
	}
	// 50 draws from a 32^6 space colliding down to a handful would mean
	// the generator is broken.
	assert.Greater(t, len(seen), 45)
}

func TestFamilyCodeAlphabetAvoidsAmbiguousGlyphs(t *testing.T) {
	for _, banned := range []string{"0", "O", "1", "I"} {
		assert.NotContains(t, familyCodeAlphabet, banned)
	}
}
