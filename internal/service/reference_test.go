package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewReferenceID_Format(t *testing.T) {
	ref := NewReferenceID()

	assert.Len(t, ref, 9)
	assert.Equal(t, "TXN", ref[:3])
	for _, r := range ref[3:] {
		isDigit := r >= '0' && r <= '9'
		isUpperHex := r >= 'A' && r <= 'F'
		assert.True(t, isDigit || isUpperHex, "unexpected character %q in %s", r, ref)
	}
}

func TestNewReferenceID_Varies(t *testing.T) {
	seen := make(map[string]struct{})
	for range 1000 {
		seen[NewReferenceID()] = struct{}{}
	}

	// 24 bits of entropy: a handful of collisions over 1000 draws is
	// possible, identical output for everything is not
	assert.Greater(t, len(seen), 990)
}
