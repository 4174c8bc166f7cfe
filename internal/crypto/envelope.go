package crypto

import (
	"encoding/hex"
	"fmt"
	"strings"
)

// Envelope holds the parts of an encrypted message.
type Envelope struct {
	Salt       []byte
	IV         []byte
	Tag        []byte
	Ciphertext []byte
}

// String serializes the envelope as saltHex:ivHex:tagHex:ciphertextHex.
func (e Envelope) String() string {
	return strings.Join([]string{
		hex.EncodeToString(e.Salt),
		hex.EncodeToString(e.IV),
		hex.EncodeToString(e.Tag),
		hex.EncodeToString(e.Ciphertext),
	}, Separator)
}

// ParseEnvelope splits and decodes an envelope string. The ciphertext field
// may be empty (empty plaintext); the other three must decode to exactly
// SaltSize, IVSize and TagSize bytes.
func ParseEnvelope(s string) (*Envelope, error) {
	parts := strings.Split(s, Separator)
	if len(parts) != 4 {
		return nil, fmt.Errorf("%w: expected 4 fields, got %d", ErrMalformedEnvelope, len(parts))
	}

	salt, err := decodeField("salt", parts[0], SaltSize)
	if err != nil {
		return nil, err
	}
	iv, err := decodeField("iv", parts[1], IVSize)
	if err != nil {
		return nil, err
	}
	tag, err := decodeField("tag", parts[2], TagSize)
	if err != nil {
		return nil, err
	}
	ciphertext, err := decodeField("ciphertext", parts[3], -1)
	if err != nil {
		return nil, err
	}

	return &Envelope{
		Salt:       salt,
		IV:         iv,
		Tag:        tag,
		Ciphertext: ciphertext,
	}, nil
}

// decodeField hex-decodes one field. size < 0 means any length.
func decodeField(name, field string, size int) ([]byte, error) {
	if size > 0 && len(field) != hex.EncodedLen(size) {
		return nil, fmt.Errorf("%w: %s must be %d hex characters, got %d",
			ErrMalformedEnvelope, name, hex.EncodedLen(size), len(field))
	}

	b, err := hex.DecodeString(field)
	if err != nil {
		return nil, fmt.Errorf("%w: %s is not valid hex", ErrMalformedEnvelope, name)
	}
	return b, nil
}
