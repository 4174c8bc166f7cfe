// Package storage provides persistence for sealed notes.
//
// A note is an opaque envelope string plus timestamps. Stores never parse,
// trim or re-encode the envelope, and never see the password.
//
// The default backend is a BBolt file with two buckets:
//   - config: format version, timestamps, store ID (unencrypted)
//   - notes: JSON-encoded notes keyed by note ID
//
// The mongo subpackage provides the same operations on a MongoDB collection.
//
// BBolt provides ACID transactions, file locking, and corruption detection.
package storage
