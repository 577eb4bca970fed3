package auth

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashPassword(t *testing.T) {
	hashed, err := HashPassword("secret12")
	require.NoError(t, err)
	assert.NotEqual(t, "secret12", hashed)
	assert.True(t, strings.HasPrefix(hashed, "$2a$"))
}

func TestCheckPassword(t *testing.T) {
	hashed, err := HashPassword("secret12")
	require.NoError(t, err)

	assert.True(t, CheckPassword(hashed, "secret12"))
	assert.False(t, CheckPassword(hashed, "wrong-pass"))
	assert.False(t, CheckPassword("not-a-hash", "secret12"))
}
