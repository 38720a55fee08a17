package password

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHasher_HashAndVerify(t *testing.T) {
	h := NewHasher(bcryptTestCost)

	tests := []struct {
		name     string
		password string
	}{
		{name: "simple password", password: "Secret1!"},
		{name: "long password", password: strings.Repeat("Aa1!", 32)}, // 128 chars, beyond bcrypt's raw limit
		{name: "unicode password", password: "пароль-Секрет1!"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hash, err := h.Hash(tt.password)
			require.NoError(t, err)
			require.NotEmpty(t, hash)
			assert.NotContains(t, hash, tt.password)

			assert.True(t, h.Verify(tt.password, hash))
			assert.False(t, h.Verify(tt.password+"x", hash))
			assert.False(t, h.Verify("", hash))
		})
	}
}

func TestHasher_UniqueSaltPerHash(t *testing.T) {
	h := NewHasher(bcryptTestCost)

	hash1, err := h.Hash("Secret1!")
	require.NoError(t, err)
	hash2, err := h.Hash("Secret1!")
	require.NoError(t, err)

	// Same password, different salts, different hashes.
	assert.NotEqual(t, hash1, hash2)
	assert.True(t, h.Verify("Secret1!", hash1))
	assert.True(t, h.Verify("Secret1!", hash2))
}

func TestHasher_VerifyGarbageHash(t *testing.T) {
	h := NewHasher(bcryptTestCost)

	assert.False(t, h.Verify("Secret1!", ""))
	assert.False(t, h.Verify("Secret1!", "not-a-bcrypt-hash"))
}

func TestNewHasher_CostFallback(t *testing.T) {
	assert.Equal(t, DefaultCost, NewHasher(0).cost)
	assert.Equal(t, DefaultCost, NewHasher(99).cost)
	assert.Equal(t, bcryptTestCost, NewHasher(bcryptTestCost).cost)
}

// bcryptTestCost keeps the test suite fast; production uses DefaultCost.
const bcryptTestCost = 4
