package password

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestHashAndVerify(t *testing.T) {
	h, err := Hash("secret123")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(h, "$2a$"))
	assert.True(t, Verify(h, "secret123"))
	assert.False(t, Verify(h, "wrong"))
}

func TestHashUsesFixedCost(t *testing.T) {
	h, err := Hash("secret123")
	require.NoError(t, err)
	cost, err := bcrypt.Cost([]byte(h))
	require.NoError(t, err)
	assert.Equal(t, Cost, cost)
}

func TestVerify_FailsClosedOnGarbageHash(t *testing.T) {
	// A malformed stored hash must never verify.
	assert.False(t, Verify("not-a-bcrypt-hash", "secret123"))
	assert.False(t, Verify("", "secret123"))
}

func TestHashesAreSalted(t *testing.T) {
	h1, err := Hash("secret123")
	require.NoError(t, err)
	h2, err := Hash("secret123")
	require.NoError(t, err)
	assert.NotEqual(t, h1, h2)
}
