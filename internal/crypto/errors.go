package crypto

import "errors"

// Operation-level errors. These are the only messages callers should show.
var (
	ErrEncryptionFailed = errors.New("encryption failed")
	ErrDecryptionFailed = errors.New("decryption failed")
)

// Failure kinds, for diagnostics.
var (
	// ErrConfiguration covers an unavailable random source and cipher or KDF
	// misconfiguration.
	ErrConfiguration = errors.New("crypto configuration error")

	// ErrMalformedEnvelope is returned when the envelope does not have four
	// fields, a field is not hex, or a fixed-size field has the wrong length.
	ErrMalformedEnvelope = errors.New("malformed envelope")

	// ErrAuthFailed is returned when the GCM tag does not verify. A wrong
	// password and tampered data are indistinguishable here.
	ErrAuthFailed = errors.New("authentication failed")

	// ErrEncoding is returned when text is not valid UTF-8.
	ErrEncoding = errors.New("invalid UTF-8 text")
)

// Error is returned by Encrypt and Decrypt. Its message is the uniform
// operation error; Kind and the wrapped cause are reachable with errors.Is
// and errors.As but must never be shown to an end user.
type Error struct {
	Op    error // ErrEncryptionFailed or ErrDecryptionFailed
	Kind  error // one of the failure kinds above
	cause error
}

func (e *Error) Error() string {
	return e.Op.Error()
}

// Unwrap exposes the operation, the kind and the underlying cause.
func (e *Error) Unwrap() []error {
	errs := []error{e.Op, e.Kind}
	if e.cause != nil {
		errs = append(errs, e.cause)
	}
	return errs
}

// Detail describes the failure for operator logs. It never includes key
// material or passwords.
func (e *Error) Detail() string {
	switch {
	case e.cause == nil:
		return e.Kind.Error()
	case errors.Is(e.cause, e.Kind):
		return e.cause.Error()
	default:
		return e.Kind.Error() + ": " + e.cause.Error()
	}
}

func encryptError(kind, cause error) error {
	return &Error{Op: ErrEncryptionFailed, Kind: kind, cause: cause}
}

func decryptError(kind, cause error) error {
	return &Error{Op: ErrDecryptionFailed, Kind: kind, cause: cause}
}

// Kind returns the failure kind of err, or nil when err did not come from
// this package.
func Kind(err error) error {
	var cerr *Error
	if errors.As(err, &cerr) {
		return cerr.Kind
	}
	return nil
}
