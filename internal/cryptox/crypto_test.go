package cryptox

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHashPassword_Deterministic(t *testing.T) {
	secret := []byte("thisIsASecret")

	h1 := HashPassword("secret1", secret)
	h2 := HashPassword("secret1", secret)

	assert.Equal(t, h1, h2)
	assert.Len(t, h1, 64)
	assert.NotContains(t, h1, "secret1")
}

func TestHashPassword_DifferentInputs(t *testing.T) {
	secret := []byte("thisIsASecret")

	assert.NotEqual(t, HashPassword("secret1", secret), HashPassword("secret2", secret))
	assert.NotEqual(t, HashPassword("secret1", secret), HashPassword("secret1", []byte("anotherSecret")))
}

func TestEqual(t *testing.T) {
	h := HashPassword("pw", []byte("s"))
	assert.True(t, Equal(h, HashPassword("pw", []byte("s"))))
	assert.False(t, Equal(h, HashPassword("pw2", []byte("s"))))
	assert.False(t, Equal(h, ""))
}
