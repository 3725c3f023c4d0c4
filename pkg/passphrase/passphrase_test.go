package passphrase

import (
	"testing"
	"unicode"

	"github.com/stretchr/testify/assert"
)

func TestNewIsReadable(t *testing.T) {
	for i := 0; i < 100; i++ {
		p := New()
		assert.GreaterOrEqual(t, len(p), 8)

		for _, r := range p {
			assert.True(t, unicode.IsLetter(r) || unicode.IsDigit(r), "unexpected rune %q in %q", r, p)
		}
	}
}

func TestNewVaries(t *testing.T) {
	seen := make(map[string]struct{})
	for i := 0; i < 50; i++ {
		seen[New()] = struct{}{}
	}
	assert.Greater(t, len(seen), 1)
}
