package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPseudonymizeEmail(t *testing.T) {
	a := PseudonymizeEmail("donor@example.org")

	assert.Equal(t, a, PseudonymizeEmail("donor@example.org"), "stable for the same input")
	assert.NotEqual(t, a, PseudonymizeEmail("other@example.org"))
	assert.Regexp(t, `^[0-9a-f]{64}$`, a)
	assert.NotContains(t, a, "donor")
	// sha256("") is well known
	assert.Equal(t, "e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855", PseudonymizeEmail(""))
}
