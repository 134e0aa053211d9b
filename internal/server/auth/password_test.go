package auth

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func testHashers(t *testing.T) map[string]PasswordHasher {
	t.Helper()
	return map[string]PasswordHasher{
		"bcrypt":   &BcryptHasher{Cost: bcrypt.MinCost},
		"argon2id": &Argon2Hasher{Time: 1, Memory: 1024, Threads: 1, KeyLen: 32, SaltLen: 16},
	}
}

func TestHasher_RoundTrip(t *testing.T) {
	for name, h := range testHashers(t) {
		t.Run(name, func(t *testing.T) {
			for _, pw := range []string{"pw123", "", "пароль", strings.Repeat("x", MaxPasswordBytes)} {
				hash, err := h.Hash(pw)
				require.NoError(t, err)
				assert.NotEqual(t, pw, hash)
				assert.True(t, h.Verify(pw, hash), "password %q must verify", pw)
				assert.False(t, h.Verify(pw+"!", hash))
			}
		})
	}
}

func TestHasher_SaltedOutputDiffers(t *testing.T) {
	for name, h := range testHashers(t) {
		t.Run(name, func(t *testing.T) {
			a, err := h.Hash("same")
			require.NoError(t, err)
			b, err := h.Hash("same")
			require.NoError(t, err)
			assert.NotEqual(t, a, b)
		})
	}
}

func TestHasher_CrossAlgorithmVerify(t *testing.T) {
	hs := testHashers(t)

	argonHash, err := hs["argon2id"].Hash("secret")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(argonHash, "$argon2id$v=19$m=1024,t=1,p=1$"))
	assert.True(t, hs["bcrypt"].Verify("secret", argonHash))

	bcryptHash, err := hs["bcrypt"].Hash("secret")
	require.NoError(t, err)
	assert.True(t, hs["argon2id"].Verify("secret", bcryptHash))
}

func TestHasher_MalformedHashNeverMatches(t *testing.T) {
	h := &BcryptHasher{Cost: bcrypt.MinCost}
	for _, hash := range []string{
		"",
		"plain",
		"$argon2id$",
		"$argon2id$v=19$m=1024,t=1,p=1$!!$!!",
		"$argon2id$v=18$m=1024,t=1,p=1$c2FsdA$a2V5",
		"$argon2id$v=19$m=1024,t=0,p=1$c2FsdA$a2V5",
	} {
		assert.False(t, h.Verify("pw", hash), "hash %q", hash)
	}
}

func TestBcryptHasher_TooLong(t *testing.T) {
	h := &BcryptHasher{Cost: bcrypt.MinCost}
	_, err := h.Hash(strings.Repeat("x", MaxPasswordBytes+1))
	require.Error(t, err)
}

func TestNewPasswordHasher(t *testing.T) {
	h, err := NewPasswordHasher("", 0)
	require.NoError(t, err)
	assert.Equal(t, bcrypt.DefaultCost, h.(*BcryptHasher).Cost)

	h, err = NewPasswordHasher(AlgorithmArgon2id, 0)
	require.NoError(t, err)
	assert.IsType(t, &Argon2Hasher{}, h)

	_, err = NewPasswordHasher(AlgorithmBcrypt, 99)
	require.Error(t, err)

	_, err = NewPasswordHasher("md5", 0)
	require.Error(t, err)
}

func TestBcryptVerify_RejectsLongerPasswordSharingPrefix(t *testing.T) {
	h := &BcryptHasher{Cost: bcrypt.MinCost}
	p1 := strings.Repeat("x", MaxPasswordBytes)

	hash, err := h.Hash(p1)
	require.NoError(t, err)

	assert.True(t, h.Verify(p1, hash))
	assert.False(t, h.Verify(p1+"DIFFERENT-SUFFIX", hash))
	assert.False(t, h.Verify(p1+"!", hash))
}
