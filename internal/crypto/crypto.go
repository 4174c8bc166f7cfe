package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/subtle"
	"fmt"
	"io"
	"unicode/utf8"

	"golang.org/x/crypto/scrypt"
)

// Format constants. Changing any of them breaks every existing envelope.
const (
	SaltSize = 16 // Salt size in bytes
	IVSize   = 16 // GCM nonce size
	TagSize  = 16 // GCM authentication tag size
	KeySize  = 32 // AES-256 key size

	ScryptN = 16384 // CPU/memory cost factor (power of 2)
	ScryptR = 8     // Block size
	ScryptP = 1     // Parallelization factor

	Separator = ":"
)

// Suite names the fixed algorithm suite, for display.
const Suite = "AES-256-GCM / scrypt (N=16384, r=8, p=1)"

// randReader is the source for salts and IVs.
var randReader io.Reader = rand.Reader

// DeriveKey derives a KeySize-byte key from a password and salt with scrypt.
// The caller owns the returned key and must ClearBytes it after use.
func DeriveKey(password, salt []byte) ([]byte, error) {
	if len(salt) != SaltSize {
		return nil, fmt.Errorf("%w: salt must be %d bytes, got %d", ErrConfiguration, SaltSize, len(salt))
	}

	key, err := scrypt.Key(password, salt, ScryptN, ScryptR, ScryptP, KeySize)
	if err != nil {
		return nil, fmt.Errorf("%w: scrypt: %w", ErrConfiguration, err)
	}
	return key, nil
}

// Encrypt encrypts plaintext under a key derived from password and returns
// the envelope string. Each call uses a fresh salt and IV.
func Encrypt(plaintext, password string) (string, error) {
	// Decrypt refuses invalid UTF-8 plaintext
	if !utf8.ValidString(plaintext) {
		return "", encryptError(ErrEncoding, nil)
	}

	salt, err := GenerateRandom(SaltSize)
	if err != nil {
		return "", encryptError(ErrConfiguration, err)
	}
	iv, err := GenerateRandom(IVSize)
	if err != nil {
		return "", encryptError(ErrConfiguration, err)
	}

	pw := []byte(password)
	defer ClearBytes(pw)

	key, err := DeriveKey(pw, salt)
	if err != nil {
		return "", encryptError(ErrConfiguration, err)
	}
	defer ClearBytes(key)

	aead, err := newAEAD(key)
	if err != nil {
		return "", encryptError(ErrConfiguration, err)
	}

	pt := []byte(plaintext)
	defer ClearBytes(pt)

	// Seal appends the tag to the ciphertext
	sealed := aead.Seal(nil, iv, pt, nil)
	split := len(sealed) - TagSize

	env := Envelope{
		Salt:       salt,
		IV:         iv,
		Tag:        sealed[split:],
		Ciphertext: sealed[:split],
	}
	return env.String(), nil
}

// Decrypt opens an envelope produced by Encrypt. Every failure returns an
// *Error whose message is "decryption failed".
func Decrypt(envelope, password string) (string, error) {
	env, err := ParseEnvelope(envelope)
	if err != nil {
		return "", decryptError(ErrMalformedEnvelope, err)
	}

	pw := []byte(password)
	defer ClearBytes(pw)

	key, err := DeriveKey(pw, env.Salt)
	if err != nil {
		return "", decryptError(ErrConfiguration, err)
	}
	defer ClearBytes(key)

	aead, err := newAEAD(key)
	if err != nil {
		return "", decryptError(ErrConfiguration, err)
	}

	sealed := make([]byte, 0, len(env.Ciphertext)+TagSize)
	sealed = append(sealed, env.Ciphertext...)
	sealed = append(sealed, env.Tag...)

	// Open verifies the tag before writing any plaintext
	plaintext, err := aead.Open(nil, env.IV, sealed, nil)
	if err != nil {
		return "", decryptError(ErrAuthFailed, nil)
	}
	defer ClearBytes(plaintext)

	if !utf8.Valid(plaintext) {
		return "", decryptError(ErrEncoding, nil)
	}

	return string(plaintext), nil
}

func newAEAD(key []byte) (cipher.AEAD, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("failed to create cipher: %w", err)
	}

	gcm, err := cipher.NewGCMWithNonceSize(block, IVSize)
	if err != nil {
		return nil, fmt.Errorf("failed to create GCM: %w", err)
	}
	return gcm, nil
}

// ClearBytes securely clears a byte slice
func ClearBytes(b []byte) {
	for i := range b {
		b[i] = 0
	}
}

// ConstantTimeCompare performs a constant-time comparison of two byte slices
func ConstantTimeCompare(a, b []byte) bool {
	return subtle.ConstantTimeCompare(a, b) == 1
}

// GenerateRandom generates n random bytes
func GenerateRandom(n int) ([]byte, error) {
	b := make([]byte, n)
	if _, err := io.ReadFull(randReader, b); err != nil {
		return nil, fmt.Errorf("failed to generate random bytes: %w", err)
	}
	return b, nil
}
