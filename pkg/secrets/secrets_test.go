package secrets_test

import (
	"testing"

	"github.com/bbrhub/mailblast/pkg/secrets"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBoxRoundTrip(t *testing.T) {
	box, err := secrets.NewBox([]byte("mailblast_secret_key"), []byte("mailblast_salt"))
	require.NoError(t, err)

	sealed, err := box.Encrypt("abcdefg123456")
	require.NoError(t, err)
	assert.NotEqual(t, "abcdefg123456", sealed)

	assert.Equal(t, "abcdefg123456", box.Decrypt(sealed))
}

func TestBoxDecryptLegacyPlaintext(t *testing.T) {
	box, err := secrets.NewBox([]byte("mailblast_secret_key"), []byte("mailblast_salt"))
	require.NoError(t, err)

	// rows written before encryption existed come back untouched
	assert.Equal(t, "plain-old-password", box.Decrypt("plain-old-password"))
	assert.Equal(t, "", box.Decrypt(""))
}

func TestBoxDifferentPassphraseCannotOpen(t *testing.T) {
	a, err := secrets.NewBox([]byte("key-a"), []byte("salt"))
	require.NoError(t, err)
	b, err := secrets.NewBox([]byte("key-b"), []byte("salt"))
	require.NoError(t, err)

	sealed, err := a.Encrypt("secret")
	require.NoError(t, err)

	// wrong key falls back to returning the stored value as-is
	assert.Equal(t, sealed, b.Decrypt(sealed))
}
