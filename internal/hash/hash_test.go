package hash

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestHashPassword(t *testing.T) {
	h, err := HashPassword("P@ssw0rd1")
	require.NoError(t, err)
	require.NotEmpty(t, h)
	require.NotEqual(t, "P@ssw0rd1", h)

	h2, err := HashPassword("P@ssw0rd1")
	require.NoError(t, err)
	require.NotEqual(t, h, h2, "salts must differ between calls")
}

func TestCheckPassword(t *testing.T) {
	h, err := HashPassword("P@ssw0rd1")
	require.NoError(t, err)

	require.True(t, CheckPassword(h, "P@ssw0rd1"))
	require.False(t, CheckPassword(h, "wrong"))
	require.False(t, CheckPassword(h, ""))
}

func TestCheckPasswordMalformedHash(t *testing.T) {
	require.False(t, CheckPassword("not-a-bcrypt-hash", "P@ssw0rd1"))
	require.False(t, CheckPassword("", "P@ssw0rd1"))
}
