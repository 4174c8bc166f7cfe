// Package notes stores and opens password-sealed notes.
//
// The service is the boundary between callers (CLI, HTTP) and the envelope
// codec: it validates input, bounds how many scrypt derivations run at once,
// logs failure causes for operators, and returns only uniform errors.
package notes

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/semaphore"

	"github.com/illarion/sealnote/internal/crypto"
	"github.com/illarion/sealnote/internal/logging"
	"github.com/illarion/sealnote/internal/storage"
)

// DefaultMaxConcurrent is the default number of parallel encrypt/decrypt
// calls. Each holds about 16 MiB during key derivation.
const DefaultMaxConcurrent = 4

var (
	ErrMissingInput     = errors.New("message and password are required")
	ErrMissingNoteInput = errors.New("note ID and password are required")
	ErrNoteNotFound     = storage.ErrNoteNotFound
	ErrEncryptionFailed = crypto.ErrEncryptionFailed
	ErrDecryptionFailed = crypto.ErrDecryptionFailed
)

// Store persists notes
type Store interface {
	Put(ctx context.Context, note storage.Note) error
	Get(ctx context.Context, id string) (*storage.Note, error)
	Delete(ctx context.Context, id string) error
	List(ctx context.Context) ([]storage.Note, error)
	Close() error
}

// Service manages sealed notes
type Service struct {
	store Store
	sem   *semaphore.Weighted
	log   *slog.Logger
	newID func() string
}

// Option configures a Service
type Option func(*Service)

// WithLogger sets the logger
func WithLogger(log *slog.Logger) Option {
	return func(s *Service) {
		if log != nil {
			s.log = log
		}
	}
}

// WithMaxConcurrent bounds parallel encrypt/decrypt calls
func WithMaxConcurrent(n int64) Option {
	return func(s *Service) {
		if n > 0 {
			s.sem = semaphore.NewWeighted(n)
		}
	}
}

// WithIDGenerator replaces the UUID generator
func WithIDGenerator(fn func() string) Option {
	return func(s *Service) {
		if fn != nil {
			s.newID = fn
		}
	}
}

// New creates a Service. store may be nil for codec-only use.
func New(store Store, opts ...Option) *Service {
	s := &Service{
		store: store,
		sem:   semaphore.NewWeighted(DefaultMaxConcurrent),
		log:   logging.Discard(),
		newID: uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.log = s.log.With(logging.Component("notes"))
	return s
}

// Close closes the underlying store
func (s *Service) Close() error {
	if s.store == nil {
		return nil
	}
	return s.store.Close()
}

// Encrypt seals a message without storing it
func (s *Service) Encrypt(ctx context.Context, message, password string) (string, error) {
	if message == "" || password == "" {
		return "", ErrMissingInput
	}
	return s.encrypt(ctx, message, password)
}

// Decrypt opens an envelope without touching the store
func (s *Service) Decrypt(ctx context.Context, envelope, password string) (string, error) {
	if envelope == "" || password == "" {
		return "", ErrMissingInput
	}
	return s.decrypt(ctx, "", envelope, password)
}

// Create seals a message and stores it under a new ID
func (s *Service) Create(ctx context.Context, message, password string) (*storage.Note, error) {
	if message == "" || password == "" {
		return nil, ErrMissingInput
	}
	if s.store == nil {
		return nil, errors.New("no note store configured")
	}

	envelope, err := s.encrypt(ctx, message, password)
	if err != nil {
		return nil, err
	}

	note := storage.NewNote(s.newID(), envelope)
	if err := s.store.Put(ctx, note); err != nil {
		s.log.ErrorContext(ctx, "failed to store note", logging.NoteID(note.ID), logging.Error(err))
		return nil, fmt.Errorf("failed to store note: %w", err)
	}

	s.log.InfoContext(ctx, "note created", logging.NoteID(note.ID))
	return &note, nil
}

// Get returns a stored note without opening it
func (s *Service) Get(ctx context.Context, id string) (*storage.Note, error) {
	if s.store == nil {
		return nil, errors.New("no note store configured")
	}
	return s.store.Get(ctx, id)
}

// Reveal loads a note and opens it with password
func (s *Service) Reveal(ctx context.Context, id, password string) (string, error) {
	if id == "" || password == "" {
		return "", ErrMissingNoteInput
	}

	note, err := s.Get(ctx, id)
	if err != nil {
		if !errors.Is(err, ErrNoteNotFound) {
			s.log.ErrorContext(ctx, "failed to load note", logging.NoteID(id), logging.Error(err))
		}
		return "", err
	}

	return s.decrypt(ctx, id, note.Envelope, password)
}

// Remove deletes a stored note
func (s *Service) Remove(ctx context.Context, id string) error {
	if s.store == nil {
		return errors.New("no note store configured")
	}
	if err := s.store.Delete(ctx, id); err != nil {
		return err
	}
	s.log.InfoContext(ctx, "note removed", logging.NoteID(id))
	return nil
}

// List returns stored notes, oldest first
func (s *Service) List(ctx context.Context) ([]storage.Note, error) {
	if s.store == nil {
		return nil, errors.New("no note store configured")
	}
	return s.store.List(ctx)
}

func (s *Service) encrypt(ctx context.Context, message, password string) (string, error) {
	if err := s.sem.Acquire(ctx, 1); err != nil {
		return "", err
	}
	defer s.sem.Release(1)

	start := time.Now()
	envelope, err := crypto.Encrypt(message, password)
	if err != nil {
		s.log.ErrorContext(ctx, "encryption failed", logging.Reason(detail(err)), logging.Elapsed(start))
		return "", ErrEncryptionFailed
	}

	s.log.DebugContext(ctx, "message encrypted", logging.Elapsed(start))
	return envelope, nil
}

func (s *Service) decrypt(ctx context.Context, id, envelope, password string) (string, error) {
	if err := s.sem.Acquire(ctx, 1); err != nil {
		return "", err
	}
	defer s.sem.Release(1)

	start := time.Now()
	plaintext, err := crypto.Decrypt(envelope, password)
	if err != nil {
		level := slog.LevelWarn
		if errors.Is(err, crypto.ErrConfiguration) {
			level = slog.LevelError
		}
		s.log.Log(ctx, level, "decryption failed",
			logging.NoteID(id), logging.Reason(detail(err)), logging.Elapsed(start))
		return "", ErrDecryptionFailed
	}

	s.log.DebugContext(ctx, "message decrypted", logging.NoteID(id), logging.Elapsed(start))
	return plaintext, nil
}

func detail(err error) string {
	var cerr *crypto.Error
	if errors.As(err, &cerr) {
		return cerr.Detail()
	}
	return err.Error()
}
