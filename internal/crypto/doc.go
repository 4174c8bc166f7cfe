// Package crypto provides the password-based envelope encryption used by sealnote.
//
// Encryption uses AES-256-GCM with:
//   - 32-byte key derived from password via scrypt
//   - 16-byte random IV per encryption operation
//   - 16-byte authentication tag, verified before any plaintext is returned
//
// Key derivation uses scrypt with:
//   - 16-byte random salt per encryption (stored in the envelope)
//   - N=16384, r=8, p=1 (about 16 MiB of memory and tens of milliseconds per call)
//
// Envelope format:
//
//	saltHex:ivHex:tagHex:ciphertextHex
//
// The suite is fixed; envelopes carry no version or algorithm identifier.
//
// Failures are reported with a uniform message per operation ("encryption
// failed", "decryption failed"). The specific cause is available through
// errors.Is against ErrConfiguration, ErrMalformedEnvelope, ErrAuthFailed and
// ErrEncoding, for operator logs only.
//
// Memory safety:
//   - Derived keys are zeroed with ClearBytes on every exit path
//   - Callers holding password bytes should ClearBytes them after use
package crypto
