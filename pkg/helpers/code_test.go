package helpers

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGenVerificationCode(t *testing.T) {
	seen := map[string]bool{}
	for i := 0; i < 50; i++ {
		code, err := GenVerificationCode()
		require.NoError(t, err)
		require.Len(t, code, 6)
		require.Regexp(t, `^\d{6}$`, code)
		seen[code] = true
	}
	require.Greater(t, len(seen), 1, "codes should vary")
}

func TestKeyEmailVerification(t *testing.T) {
	require.Equal(t, "verification:a@b.c", KeyEmailVerification("a@b.c"))
}

func TestGenUserUUID(t *testing.T) {
	a := GenUserUUID()
	b := GenUserUUID()
	require.Regexp(t, `^\d+$`, a)
	require.NotEqual(t, a, b)
	require.LessOrEqual(t, len(a), 39, "fits a 128-bit decimal")
}
