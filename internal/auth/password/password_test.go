package password

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashAndVerify(t *testing.T) {
	encoded, err := Hash("correct-horse")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(encoded, "$argon2id$v=19$m=65536,t=1,p=4$"))

	assert.True(t, Verify("correct-horse", encoded))
	assert.False(t, Verify("battery-staple", encoded))
	assert.False(t, NeedsRehash(encoded))

	other, err := Hash("correct-horse")
	require.NoError(t, err)
	assert.NotEqual(t, encoded, other, "salt must differ")
}

func TestVerifyRejectsMalformed(t *testing.T) {
	for _, encoded := range []string{
		"",
		"plain",
		"$argon2i$v=19$m=65536,t=1,p=4$c2FsdA$a2V5",
		"$argon2id$v=18$m=65536,t=1,p=4$c2FsdA$a2V5",
		"$argon2id$v=19$m=0,t=1,p=4$c2FsdA$a2V5",
		"$argon2id$v=19$m=65536,t=1,p=4$!!$a2V5",
	} {
		assert.False(t, Verify("x", encoded), encoded)
		assert.True(t, NeedsRehash(encoded), encoded)
	}
}

func TestNeedsRehashOnOlderCost(t *testing.T) {
	prev := Current
	Current = Params{Memory: 32 * 1024, Time: 1, Threads: 2, KeyLen: 32, SaltLen: 16}
	old, err := Hash("pw")
	Current = prev
	require.NoError(t, err)

	assert.True(t, Verify("pw", old))
	assert.True(t, NeedsRehash(old))
}
