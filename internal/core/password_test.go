// AngelaMos | 2026
// password_test.go

package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashAndCheckPassword(t *testing.T) {
	hash, err := HashPassword("correct-horse-battery")
	require.NoError(t, err)
	assert.Contains(t, hash, "$argon2id$v=19$m=65536,t=1,p=4$")

	check, err := CheckPassword("correct-horse-battery", &hash)
	require.NoError(t, err)
	assert.True(t, check.Match)
	assert.Empty(t, check.Rehash)

	check, err = CheckPassword("wrong", &hash)
	require.NoError(t, err)
	assert.False(t, check.Match)
}

func TestCheckPasswordWithoutHash(t *testing.T) {
	check, err := CheckPassword("anything", nil)
	assert.NoError(t, err)
	assert.Equal(t, PasswordCheck{}, check)

	empty := ""
	check, err = CheckPassword("anything", &empty)
	assert.NoError(t, err)
	assert.False(t, check.Match)
}

func TestCheckPasswordUpgradesOldCosts(t *testing.T) {
	old := DefaultPasswordParams
	old.Memory = 8 * 1024

	hash, err := old.Hash("correct-horse-battery")
	require.NoError(t, err)

	check, err := CheckPassword("correct-horse-battery", &hash)
	require.NoError(t, err)
	require.True(t, check.Match)
	require.NotEmpty(t, check.Rehash)

	params, _, _, err := parseHash(check.Rehash)
	require.NoError(t, err)
	assert.Equal(t, DefaultPasswordParams, params)
}

func TestCheckPasswordMalformed(t *testing.T) {
	for _, stored := range []string{
		"plaintext",
		"$bcrypt$v=19$m=1,t=1,p=1$c2FsdA$a2V5",
		"$argon2id$v=18$m=1,t=1,p=1$c2FsdA$a2V5",
		"$argon2id$v=19$m=x,t=1,p=1$c2FsdA$a2V5",
		"$argon2id$v=19$m=1,t=1,p=1$!!$a2V5",
	} {
		_, err := CheckPassword("pw", &stored)
		assert.ErrorIs(t, err, ErrMalformedHash, stored)
	}
}
