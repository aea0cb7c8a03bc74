package secrets_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/notifykit/pkg/secrets"
)

func TestEncryptDecryptString_Roundtrip(t *testing.T) {
	t.Parallel()

	appKey, err := secrets.GenerateKey()
	require.NoError(t, err)
	ownerKey := secrets.OwnerKey("user-1")

	ciphertext, err := secrets.EncryptString(appKey, ownerKey, "webhook-secret-value")
	require.NoError(t, err)
	assert.NotEqual(t, "webhook-secret-value", ciphertext)

	plaintext, err := secrets.DecryptString(appKey, ownerKey, ciphertext)
	require.NoError(t, err)
	assert.Equal(t, "webhook-secret-value", plaintext)
}

func TestEncryptString_NonDeterministic(t *testing.T) {
	t.Parallel()

	appKey, err := secrets.GenerateKey()
	require.NoError(t, err)
	ownerKey := secrets.OwnerKey("user-1")

	first, err := secrets.EncryptString(appKey, ownerKey, "same-plaintext")
	require.NoError(t, err)
	second, err := secrets.EncryptString(appKey, ownerKey, "same-plaintext")
	require.NoError(t, err)

	// A fresh nonce per call means identical plaintexts never share ciphertext.
	assert.NotEqual(t, first, second)
}

func TestDecryptString_WrongOwnerKeyFails(t *testing.T) {
	t.Parallel()

	appKey, err := secrets.GenerateKey()
	require.NoError(t, err)

	ciphertext, err := secrets.EncryptString(appKey, secrets.OwnerKey("user-1"), "secret")
	require.NoError(t, err)

	_, err = secrets.DecryptString(appKey, secrets.OwnerKey("user-2"), ciphertext)
	assert.ErrorIs(t, err, secrets.ErrDecryptionFailed)
}

func TestDecryptString_WrongAppKeyFails(t *testing.T) {
	t.Parallel()

	appKey, err := secrets.GenerateKey()
	require.NoError(t, err)
	otherKey, err := secrets.GenerateKey()
	require.NoError(t, err)
	ownerKey := secrets.OwnerKey("user-1")

	ciphertext, err := secrets.EncryptString(appKey, ownerKey, "secret")
	require.NoError(t, err)

	_, err = secrets.DecryptString(otherKey, ownerKey, ciphertext)
	assert.ErrorIs(t, err, secrets.ErrDecryptionFailed)
}

func TestValidateKeys(t *testing.T) {
	t.Parallel()

	good := make([]byte, secrets.KeySize)

	assert.NoError(t, secrets.ValidateKeys(good, good))
	assert.ErrorIs(t, secrets.ValidateKeys(good[:16], good), secrets.ErrInvalidAppKey)
	assert.ErrorIs(t, secrets.ValidateKeys(good, good[:16]), secrets.ErrInvalidOwnerKey)
	assert.ErrorIs(t, secrets.ValidateKeys(nil, good), secrets.ErrInvalidAppKey)
}

func TestDecryptString_MalformedCiphertext(t *testing.T) {
	t.Parallel()

	appKey, err := secrets.GenerateKey()
	require.NoError(t, err)
	ownerKey := secrets.OwnerKey("user-1")

	_, err = secrets.DecryptString(appKey, ownerKey, "not base64!!!")
	assert.ErrorIs(t, err, secrets.ErrInvalidCiphertext)

	// Valid base64 but shorter than a nonce.
	_, err = secrets.DecryptString(appKey, ownerKey, "YWJj")
	assert.ErrorIs(t, err, secrets.ErrInvalidCiphertext)
}
