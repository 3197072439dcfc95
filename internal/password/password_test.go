package password

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestHasher_HashAndVerify(t *testing.T) {
	h := NewHasher(bcrypt.MinCost)

	hash, err := h.Hash("correct horse")
	require.NoError(t, err)
	assert.NotEqual(t, "correct horse", hash)

	ok, err := h.Verify(hash, "correct horse")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = h.Verify(hash, "wrong horse")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestHasher_VerifyMalformedHash(t *testing.T) {
	h := NewHasher(bcrypt.MinCost)

	ok, err := h.Verify("not-a-hash", "anything")
	require.Error(t, err)
	assert.False(t, ok)
}

func TestNewHasher_CostFallback(t *testing.T) {
	assert.Equal(t, bcrypt.DefaultCost, NewHasher(0).cost)
	assert.Equal(t, bcrypt.DefaultCost, NewHasher(bcrypt.MaxCost+1).cost)
	assert.Equal(t, 12, NewHasher(12).cost)
}
