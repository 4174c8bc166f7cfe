package crypto

import (
	"bytes"
	"encoding/hex"
	"errors"
	"regexp"
	"strings"
	"sync"
	"testing"
)

// Produced by the Node.js implementation the envelope format comes from.
const (
	vectorPassword = "correct-horse"
	vectorKey      = "9a78f8101c537304c239f736ed76cc0d14d85f6e7f0a4c799fd1ae5a78cc912d"
	vectorEnvelope = "000102030405060708090a0b0c0d0e0f:101112131415161718191a1b1c1d1e1f:49c8b2d233713eef340388290cc6f40d:906405bd41d84667765d5f"
	vectorEmpty    = "000102030405060708090a0b0c0d0e0f:101112131415161718191a1b1c1d1e1f:32547cc92cd783206e8490832868ba5b:"
	vectorBadUTF8  = "000102030405060708090a0b0c0d0e0f:101112131415161718191a1b1c1d1e1f:503979e00303ed13d3a7882f094b5043:07ff"
)

var envelopeShape = regexp.MustCompile(`^[0-9a-f]{32}:[0-9a-f]{32}:[0-9a-f]{32}:([0-9a-f]{2})*$`)

func TestDeriveKey(t *testing.T) {
	salt, _ := hex.DecodeString("000102030405060708090a0b0c0d0e0f")

	key, err := DeriveKey([]byte(vectorPassword), salt)
	if err != nil {
		t.Fatalf("DeriveKey failed: %v", err)
	}
	if len(key) != KeySize {
		t.Fatalf("key length = %d, want %d", len(key), KeySize)
	}
	if hex.EncodeToString(key) != vectorKey {
		t.Errorf("key = %x, want %s", key, vectorKey)
	}

	// Deterministic
	again, err := DeriveKey([]byte(vectorPassword), salt)
	if err != nil {
		t.Fatalf("DeriveKey failed: %v", err)
	}
	if !bytes.Equal(key, again) {
		t.Error("same password and salt should derive the same key")
	}

	// Different salt, different key
	otherSalt := bytes.Repeat([]byte{0xaa}, SaltSize)
	other, err := DeriveKey([]byte(vectorPassword), otherSalt)
	if err != nil {
		t.Fatalf("DeriveKey failed: %v", err)
	}
	if bytes.Equal(key, other) {
		t.Error("different salts should derive different keys")
	}
}

func TestDeriveKeyInvalidSalt(t *testing.T) {
	for _, size := range []int{0, 8, 32} {
		_, err := DeriveKey([]byte("pw"), make([]byte, size))
		if !errors.Is(err, ErrConfiguration) {
			t.Errorf("salt size %d: expected ErrConfiguration, got %v", size, err)
		}
	}
}

func TestDecryptKnownVectors(t *testing.T) {
	tests := []struct {
		name     string
		envelope string
		want     string
	}{
		{"hello world", vectorEnvelope, "hello world"},
		{"empty", vectorEmpty, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Decrypt(tt.envelope, vectorPassword)
			if err != nil {
				t.Fatalf("Decrypt failed: %v", err)
			}
			if got != tt.want {
				t.Errorf("Decrypt = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestEncryptDecryptRoundTrip(t *testing.T) {
	tests := []struct {
		name      string
		plaintext string
		password  string
	}{
		{"empty", "", "pw"},
		{"simple", "hello world", "correct-horse"},
		{"unicode", "пароль ключ 秘密 🔐", "ünïcødé"},
		{"multiline", "line one\nline two\r\n\ttabbed", "p"},
		{"separator in text", "a:b:c:d:e", "x:y"},
		{"empty password", "secret", ""},
		{"large", strings.Repeat("0123456789abcdef", 4096), "long-message"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			envelope, err := Encrypt(tt.plaintext, tt.password)
			if err != nil {
				t.Fatalf("Encrypt failed: %v", err)
			}

			got, err := Decrypt(envelope, tt.password)
			if err != nil {
				t.Fatalf("Decrypt failed: %v", err)
			}
			if got != tt.plaintext {
				t.Errorf("round trip mismatch: got %d bytes, want %d bytes", len(got), len(tt.plaintext))
			}
		})
	}
}

func TestEnvelopeShape(t *testing.T) {
	for _, msg := range []string{"", "a", "hello world", strings.Repeat("x", 1000)} {
		envelope, err := Encrypt(msg, "pw")
		if err != nil {
			t.Fatalf("Encrypt failed: %v", err)
		}

		if !envelopeShape.MatchString(envelope) {
			t.Errorf("envelope %q does not match salt:iv:tag:ciphertext shape", envelope)
		}

		parts := strings.Split(envelope, Separator)
		if len(parts[3]) != 2*len(msg) {
			t.Errorf("ciphertext hex length = %d, want %d", len(parts[3]), 2*len(msg))
		}
	}
}

func TestEncryptIsNotDeterministic(t *testing.T) {
	first, err := Encrypt("same message", "same password")
	if err != nil {
		t.Fatalf("Encrypt failed: %v", err)
	}
	second, err := Encrypt("same message", "same password")
	if err != nil {
		t.Fatalf("Encrypt failed: %v", err)
	}

	if first == second {
		t.Fatal("two encryptions produced the same envelope")
	}

	a := strings.Split(first, Separator)
	b := strings.Split(second, Separator)
	if a[0] == b[0] {
		t.Error("salt was reused")
	}
	if a[1] == b[1] {
		t.Error("IV was reused")
	}

	for _, envelope := range []string{first, second} {
		got, err := Decrypt(envelope, "same password")
		if err != nil {
			t.Fatalf("Decrypt failed: %v", err)
		}
		if got != "same message" {
			t.Errorf("Decrypt = %q, want %q", got, "same message")
		}
	}
}

func TestDecryptWrongPassword(t *testing.T) {
	envelope, err := Encrypt("hello world", "correct-horse")
	if err != nil {
		t.Fatalf("Encrypt failed: %v", err)
	}

	got, err := Decrypt(envelope, "wrong-password")
	if err == nil {
		t.Fatalf("Decrypt with wrong password returned %q", got)
	}
	if !errors.Is(err, ErrAuthFailed) {
		t.Errorf("expected ErrAuthFailed, got %v", err)
	}
	if !errors.Is(err, ErrDecryptionFailed) {
		t.Errorf("expected ErrDecryptionFailed, got %v", err)
	}
	if err.Error() != "decryption failed" {
		t.Errorf("error message = %q, want uniform message", err.Error())
	}
	if got != "" {
		t.Errorf("plaintext leaked on failure: %q", got)
	}
}

func TestDecryptTampered(t *testing.T) {
	envelope, err := Encrypt("attack at dawn", "pw")
	if err != nil {
		t.Fatalf("Encrypt failed: %v", err)
	}

	fields := []struct {
		name  string
		index int
	}{
		{"salt", 0},
		{"iv", 1},
		{"tag", 2},
		{"ciphertext", 3},
	}

	for _, f := range fields {
		for _, pos := range []string{"first", "last"} {
			t.Run(f.name+"/"+pos, func(t *testing.T) {
				parts := strings.Split(envelope, Separator)
				raw, err := hex.DecodeString(parts[f.index])
				if err != nil {
					t.Fatalf("failed to decode field: %v", err)
				}
				if pos == "first" {
					raw[0] ^= 0x01
				} else {
					raw[len(raw)-1] ^= 0x80
				}
				parts[f.index] = hex.EncodeToString(raw)

				_, err = Decrypt(strings.Join(parts, Separator), "pw")
				if !errors.Is(err, ErrAuthFailed) {
					t.Errorf("expected ErrAuthFailed, got %v", err)
				}
			})
		}
	}
}

func TestDecryptMalformed(t *testing.T) {
	valid := strings.Split(vectorEnvelope, Separator)

	tests := []struct {
		name     string
		envelope string
	}{
		{"no separators", "abc"},
		{"empty", ""},
		{"non-hex fields", "zz:zz:zz:zz"},
		{"three parts", strings.Join(valid[:3], Separator)},
		{"five parts", vectorEnvelope + ":00"},
		{"empty salt", ":" + strings.Join(valid[1:], Separator)},
		{"short salt", valid[0][:30] + ":" + strings.Join(valid[1:], Separator)},
		{"long iv", valid[0] + ":" + valid[1] + "00:" + valid[2] + ":" + valid[3]},
		{"short tag", valid[0] + ":" + valid[1] + ":" + valid[2][2:] + ":" + valid[3]},
		{"non-hex salt", "g" + valid[0][1:] + ":" + strings.Join(valid[1:], Separator)},
		{"odd ciphertext", strings.Join(valid[:3], Separator) + ":abc"},
		{"non-hex ciphertext", strings.Join(valid[:3], Separator) + ":zz"},
		{"whitespace", " " + vectorEnvelope},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decrypt(tt.envelope, "pw")
			if !errors.Is(err, ErrMalformedEnvelope) {
				t.Errorf("expected ErrMalformedEnvelope, got %v", err)
			}
			if err != nil && err.Error() != "decryption failed" {
				t.Errorf("error message = %q, want uniform message", err.Error())
			}
		})
	}
}

func TestDecryptAcceptsUppercaseHex(t *testing.T) {
	got, err := Decrypt(strings.ToUpper(vectorEnvelope), vectorPassword)
	if err != nil {
		t.Fatalf("Decrypt failed: %v", err)
	}
	if got != "hello world" {
		t.Errorf("Decrypt = %q, want %q", got, "hello world")
	}
}

func TestDecryptInvalidUTF8(t *testing.T) {
	_, err := Decrypt(vectorBadUTF8, vectorPassword)
	if !errors.Is(err, ErrEncoding) {
		t.Errorf("expected ErrEncoding, got %v", err)
	}
	if !errors.Is(err, ErrDecryptionFailed) {
		t.Errorf("expected ErrDecryptionFailed, got %v", err)
	}
}

func TestEncryptInvalidUTF8(t *testing.T) {
	_, err := Encrypt(string([]byte{0xff, 0xfe}), "pw")
	if !errors.Is(err, ErrEncoding) {
		t.Errorf("expected ErrEncoding, got %v", err)
	}
	if !errors.Is(err, ErrEncryptionFailed) {
		t.Errorf("expected ErrEncryptionFailed, got %v", err)
	}
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) {
	return 0, errors.New("entropy source unavailable")
}

func TestEncryptRandomSourceFailure(t *testing.T) {
	orig := randReader
	randReader = failingReader{}
	defer func() { randReader = orig }()

	_, err := Encrypt("msg", "pw")
	if !errors.Is(err, ErrConfiguration) {
		t.Errorf("expected ErrConfiguration, got %v", err)
	}
	if err == nil || err.Error() != "encryption failed" {
		t.Errorf("expected uniform encryption error, got %v", err)
	}
	if !strings.Contains(err.(*Error).Detail(), "entropy source unavailable") {
		t.Errorf("detail should carry the cause, got %q", err.(*Error).Detail())
	}
}

func TestErrorKindAndDetail(t *testing.T) {
	_, err := Decrypt("abc", "pw")
	if Kind(err) != ErrMalformedEnvelope {
		t.Errorf("Kind = %v, want ErrMalformedEnvelope", Kind(err))
	}

	var cerr *Error
	if !errors.As(err, &cerr) {
		t.Fatalf("expected *Error, got %T", err)
	}
	if cerr.Detail() != "malformed envelope: expected 4 fields, got 1" {
		t.Errorf("Detail = %q", cerr.Detail())
	}

	if Kind(errors.New("other")) != nil {
		t.Error("Kind of a foreign error should be nil")
	}
}

func TestParseEnvelope(t *testing.T) {
	env, err := ParseEnvelope(vectorEnvelope)
	if err != nil {
		t.Fatalf("ParseEnvelope failed: %v", err)
	}
	if len(env.Salt) != SaltSize || len(env.IV) != IVSize || len(env.Tag) != TagSize {
		t.Errorf("unexpected field sizes: %d/%d/%d", len(env.Salt), len(env.IV), len(env.Tag))
	}
	if len(env.Ciphertext) != len("hello world") {
		t.Errorf("ciphertext length = %d, want %d", len(env.Ciphertext), len("hello world"))
	}
	if env.String() != vectorEnvelope {
		t.Errorf("String() = %q, want %q", env.String(), vectorEnvelope)
	}
}

func TestConcurrentEncryptDecrypt(t *testing.T) {
	const workers = 4

	var wg sync.WaitGroup
	errs := make(chan error, workers)

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			msg := strings.Repeat(string(rune('a'+i)), i+1)
			envelope, err := Encrypt(msg, "shared")
			if err != nil {
				errs <- err
				return
			}
			got, err := Decrypt(envelope, "shared")
			if err != nil {
				errs <- err
				return
			}
			if got != msg {
				errs <- errors.New("round trip mismatch for " + msg)
			}
		}(i)
	}

	wg.Wait()
	close(errs)
	for err := range errs {
		t.Error(err)
	}
}

func TestClearBytes(t *testing.T) {
	b := []byte("secret key material")
	ClearBytes(b)
	for i, v := range b {
		if v != 0 {
			t.Fatalf("byte %d not cleared", i)
		}
	}
}

func TestConstantTimeCompare(t *testing.T) {
	if !ConstantTimeCompare([]byte("abc"), []byte("abc")) {
		t.Error("equal slices should compare equal")
	}
	if ConstantTimeCompare([]byte("abc"), []byte("abd")) {
		t.Error("different slices should not compare equal")
	}
	if ConstantTimeCompare([]byte("abc"), []byte("abcd")) {
		t.Error("different lengths should not compare equal")
	}
}
