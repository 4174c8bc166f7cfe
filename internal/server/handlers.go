// Package server exposes sealed notes over a small JSON/form HTTP API.
//
// Routes:
//
//	GET  /healthz
//	POST /api/encrypt              {message, password}  -> {envelope}
//	POST /api/decrypt              {envelope, password} -> {message}
//	POST /api/notes                {message, password}  -> 201 {id, url}
//	GET  /api/notes/{id}                                -> {id, createdAt}
//	POST /api/notes/{id}/decrypt   {password}           -> {message}
//
// Bodies may be JSON or application/x-www-form-urlencoded. Every decryption
// failure, whatever its cause, is answered with the same 422 response.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"mime"
	"net/http"
	"strings"
	"time"

	"github.com/illarion/sealnote/internal/logging"
	"github.com/illarion/sealnote/internal/notes"
	"github.com/illarion/sealnote/internal/storage"
)

// User-facing messages
const (
	msgMissingInput     = "Message and password are required."
	msgMissingNoteInput = "Note ID and password are required."
	msgNotFound         = "Note not found. It may have been deleted or the link is wrong."
	msgDecryptFailed    = "decryption failed, check your password"
	msgEncryptFailed    = "encryption failed"
	msgBusy             = "server busy, try again"
	msgBadRequest       = "invalid request body"
	msgInternal         = "internal error"
)

// DefaultMaxBodyBytes caps request bodies
const DefaultMaxBodyBytes = 1 << 20

// NoteService is what the handlers need from the notes package
type NoteService interface {
	Encrypt(ctx context.Context, message, password string) (string, error)
	Decrypt(ctx context.Context, envelope, password string) (string, error)
	Create(ctx context.Context, message, password string) (*storage.Note, error)
	Get(ctx context.Context, id string) (*storage.Note, error)
	Reveal(ctx context.Context, id, password string) (string, error)
}

// Handler serves the API
type Handler struct {
	notes   NoteService
	log     *slog.Logger
	baseURL string
	maxBody int64
	mux     *http.ServeMux
}

// Option configures a Handler
type Option func(*Handler)

// WithLogger sets the logger
func WithLogger(log *slog.Logger) Option {
	return func(h *Handler) {
		if log != nil {
			h.log = log
		}
	}
}

// WithBaseURL sets the public URL used for note links. When empty the
// request's scheme and host are used.
func WithBaseURL(u string) Option {
	return func(h *Handler) { h.baseURL = strings.TrimRight(u, "/") }
}

// WithMaxBodyBytes caps request bodies
func WithMaxBodyBytes(n int64) Option {
	return func(h *Handler) {
		if n > 0 {
			h.maxBody = n
		}
	}
}

// NewHandler creates the API handler
func NewHandler(svc NoteService, opts ...Option) *Handler {
	h := &Handler{
		notes:   svc,
		log:     logging.Discard(),
		maxBody: DefaultMaxBodyBytes,
		mux:     http.NewServeMux(),
	}
	for _, opt := range opts {
		opt(h)
	}
	h.log = h.log.With(logging.Component("http"))

	h.mux.HandleFunc("GET /healthz", h.health)
	h.mux.HandleFunc("POST /api/encrypt", h.encrypt)
	h.mux.HandleFunc("POST /api/decrypt", h.decrypt)
	h.mux.HandleFunc("POST /api/notes", h.createNote)
	h.mux.HandleFunc("GET /api/notes/{id}", h.getNote)
	h.mux.HandleFunc("POST /api/notes/{id}/decrypt", h.revealNote)

	return h
}

// ServeHTTP implements http.Handler with request logging and panic recovery
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

	defer func() {
		if p := recover(); p != nil {
			h.log.ErrorContext(r.Context(), "panic in handler", slog.Any("panic", p))
			writeError(rec, http.StatusInternalServerError, msgInternal)
		}
		h.log.InfoContext(r.Context(), "request",
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.Int("status", rec.status),
			logging.Duration(time.Since(start)),
		)
	}()

	h.mux.ServeHTTP(rec, r)
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

type sealRequest struct {
	Message  string `json:"message"`
	Password string `json:"password"`
	Envelope string `json:"envelope"`
}

func (h *Handler) health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) encrypt(w http.ResponseWriter, r *http.Request) {
	req, ok := h.decode(w, r)
	if !ok {
		return
	}

	envelope, err := h.notes.Encrypt(r.Context(), req.Message, req.Password)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"envelope": envelope})
}

func (h *Handler) decrypt(w http.ResponseWriter, r *http.Request) {
	req, ok := h.decode(w, r)
	if !ok {
		return
	}

	message, err := h.notes.Decrypt(r.Context(), req.Envelope, req.Password)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": message})
}

func (h *Handler) createNote(w http.ResponseWriter, r *http.Request) {
	req, ok := h.decode(w, r)
	if !ok {
		return
	}

	note, err := h.notes.Create(r.Context(), req.Message, req.Password)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]string{
		"id":  note.ID,
		"url": h.noteURL(r, note.ID),
	})
}

func (h *Handler) getNote(w http.ResponseWriter, r *http.Request) {
	note, err := h.notes.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		h.fail(w, r, err)
		return
	}

	// The envelope is never served back
	writeJSON(w, http.StatusOK, map[string]any{
		"id":        note.ID,
		"createdAt": note.Created,
	})
}

func (h *Handler) revealNote(w http.ResponseWriter, r *http.Request) {
	req, ok := h.decode(w, r)
	if !ok {
		return
	}

	message, err := h.notes.Reveal(r.Context(), r.PathValue("id"), req.Password)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": message})
}

// decode reads a JSON or form body. It writes the error response itself.
func (h *Handler) decode(w http.ResponseWriter, r *http.Request) (sealRequest, bool) {
	var req sealRequest
	r.Body = http.MaxBytesReader(w, r.Body, h.maxBody)

	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	switch mediaType {
	case "application/x-www-form-urlencoded":
		if err := r.ParseForm(); err != nil {
			writeError(w, http.StatusBadRequest, msgBadRequest)
			return req, false
		}
		req.Message = r.PostForm.Get("message")
		req.Password = r.PostForm.Get("password")
		req.Envelope = r.PostForm.Get("envelope")
	default:
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			var maxErr *http.MaxBytesError
			if errors.As(err, &maxErr) {
				writeError(w, http.StatusRequestEntityTooLarge, msgBadRequest)
				return req, false
			}
			writeError(w, http.StatusBadRequest, msgBadRequest)
			return req, false
		}
	}
	return req, true
}

// fail maps service errors to responses. Decryption failures all look alike.
func (h *Handler) fail(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, notes.ErrMissingInput):
		writeError(w, http.StatusBadRequest, msgMissingInput)
	case errors.Is(err, notes.ErrMissingNoteInput):
		writeError(w, http.StatusBadRequest, msgMissingNoteInput)
	case errors.Is(err, notes.ErrNoteNotFound):
		writeError(w, http.StatusNotFound, msgNotFound)
	case errors.Is(err, notes.ErrDecryptionFailed):
		writeError(w, http.StatusUnprocessableEntity, msgDecryptFailed)
	case errors.Is(err, notes.ErrEncryptionFailed):
		writeError(w, http.StatusInternalServerError, msgEncryptFailed)
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		writeError(w, http.StatusServiceUnavailable, msgBusy)
	default:
		h.log.ErrorContext(r.Context(), "request failed", logging.Error(err))
		writeError(w, http.StatusInternalServerError, msgInternal)
	}
}

func (h *Handler) noteURL(r *http.Request, id string) string {
	base := h.baseURL
	if base == "" {
		scheme := "http"
		if r.TLS != nil || r.Header.Get("X-Forwarded-Proto") == "https" {
			scheme = "https"
		}
		base = fmt.Sprintf("%s://%s", scheme, r.Host)
	}
	return base + "/api/notes/" + id
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
