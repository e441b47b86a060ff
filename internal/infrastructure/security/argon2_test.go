package security

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func cheapParams() Argon2Params {
	return Argon2Params{Memory: 8 * 1024, Iterations: 1, Parallelism: 1, SaltLength: 16, KeyLength: 32}
}

func TestArgon2HashAndVerify(t *testing.T) {
	h := NewArgon2Hasher(cheapParams())
	encoded, err := h.Hash("Password1!")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(encoded, "$argon2id$v=19$m=8192,t=1,p=1$"))

	assert.True(t, h.Verify("Password1!", encoded))
	assert.False(t, h.Verify("Password2!", encoded))

	other, err := h.Hash("Password1!")
	require.NoError(t, err)
	assert.NotEqual(t, encoded, other, "salt must differ per hash")
}

func TestArgon2VerifyUsesStoredCost(t *testing.T) {
	old := NewArgon2Hasher(cheapParams())
	encoded, err := old.Hash("Password1!")
	require.NoError(t, err)

	p := cheapParams()
	p.Iterations = 2
	p.KeyLength = 16
	assert.True(t, NewArgon2Hasher(p).Verify("Password1!", encoded))
}

func TestArgon2VerifyRejectsMalformed(t *testing.T) {
	h := NewArgon2Hasher(cheapParams())
	for _, encoded := range []string{
		"",
		"plain",
		"$argon2i$v=19$m=8192,t=1,p=1$c2FsdA$a2V5",
		"$argon2id$v=16$m=8192,t=1,p=1$c2FsdA$a2V5",
		"$argon2id$v=19$m=x,t=1,p=1$c2FsdA$a2V5",
		"$argon2id$v=19$m=8192,t=1,p=1$!!$a2V5",
		"$argon2id$v=19$m=8192,t=1,p=1$c2FsdA$",
	} {
		assert.False(t, h.Verify("Password1!", encoded), encoded)
	}
}
