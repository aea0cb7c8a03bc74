package secrets

import (
	"crypto/rand"
	"crypto/sha256"
	"errors"
	"io"

	"golang.org/x/crypto/hkdf"
)

const (
	// KeySize is the required size for both app and owner keys.
	KeySize = 32 // 256 bits for AES-256

	// saltInfo provides domain separation for HKDF key derivation.
	saltInfo = "notifykit-secrets-v1"
)

// ValidateKeys checks that both keys are the correct length.
func ValidateKeys(appKey, ownerKey []byte) error {
	validApp := len(appKey) == KeySize
	validOwner := len(ownerKey) == KeySize

	if !validApp {
		return ErrInvalidAppKey
	}
	if !validOwner {
		return ErrInvalidOwnerKey
	}
	return nil
}

// OwnerKey derives a per-owner key component from an opaque owner identifier.
// Combined with the app key through HKDF it yields a distinct encryption key
// per owner, so one user's ciphertexts are useless against another's rows.
func OwnerKey(ownerID string) []byte {
	sum := sha256.Sum256([]byte(ownerID))
	return sum[:]
}

// deriveKey creates the compound encryption key from app and owner keys
// using HKDF-SHA256. Callers clear the returned key when done.
func deriveKey(appKey, ownerKey []byte) ([]byte, error) {
	hkdfReader := hkdf.New(sha256.New, appKey, ownerKey, []byte(saltInfo))

	derivedKey := make([]byte, KeySize)
	if _, err := io.ReadFull(hkdfReader, derivedKey); err != nil {
		return nil, errors.Join(ErrKeyDerivationFailed, err)
	}

	return derivedKey, nil
}

// clearBytes zeros out a byte slice to remove key material from memory.
func clearBytes(b []byte) {
	for i := range b {
		b[i] = 0
	}
}

// GenerateKey creates a new random 32-byte key suitable for encryption.
func GenerateKey() ([]byte, error) {
	key := make([]byte, KeySize)
	if _, err := rand.Read(key); err != nil {
		return nil, err
	}
	return key, nil
}
