package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/illarion/sealnote/internal/config"
	"github.com/illarion/sealnote/internal/crypto"
	"github.com/illarion/sealnote/internal/logging"
	"github.com/illarion/sealnote/internal/notes"
	"github.com/illarion/sealnote/internal/prompt"
	"github.com/illarion/sealnote/internal/storage"
	"github.com/illarion/sealnote/internal/storage/mongo"
)

// GetPassword retrieves password from environment or prompts user
// The caller is responsible for calling crypto.ClearBytes on the returned password
func GetPassword(message string) ([]byte, error) {
	if password := prompt.GetPasswordFromEnv(); password != nil {
		return password, nil
	}
	return prompt.ReadPassword(message)
}

// GetPasswordOrExit is like GetPassword but exits on error
func GetPasswordOrExit(message string) []byte {
	password, err := GetPassword(message)
	if err != nil {
		HandleError(err)
	}
	return password
}

// GetNewPasswordOrExit reads a password for sealing.
// Checks environment variable first, then prompts with confirmation.
func GetNewPasswordOrExit() []byte {
	if password := prompt.GetPasswordFromEnv(); password != nil {
		return password
	}
	password, err := prompt.ReadPasswordConfirm()
	if err != nil {
		HandleError(err)
	}
	return password
}

// readInput returns arg, or reads stdin when arg is empty
func readInput(arg, what string) string {
	if arg != "" {
		return arg
	}
	if prompt.IsTerminal() {
		fmt.Fprintf(os.Stderr, "Enter %s, then Ctrl-D:\n", what)
	}
	msg, err := prompt.ReadMessage(os.Stdin)
	if err != nil {
		HandleError(err)
	}
	return msg
}

// cliLogger reports warnings and errors on stderr
func cliLogger() *slog.Logger {
	return logging.New(logging.WithLevel(slog.LevelWarn))
}

// openStore opens the store selected by the configuration
func openStore(ctx context.Context, cfg *config.Config) (notes.Store, error) {
	if cfg.Store == config.StoreMongo {
		store, err := mongo.Open(ctx, mongo.Config{
			URI:      cfg.MongoURI,
			Database: cfg.MongoDatabase,
		})
		if err != nil {
			return nil, err
		}
		return store, nil
	}

	store, err := storage.Open(cfg.DBPath)
	if err != nil {
		return nil, err
	}
	return store, nil
}

// openService loads configuration and opens a store-backed service
func openService(ctx context.Context) (*notes.Service, notes.Store) {
	cfg, err := config.Load()
	if err != nil {
		HandleError(err)
	}

	store, err := openStore(ctx, cfg)
	if err != nil {
		HandleError(err)
	}

	svc := notes.New(store,
		notes.WithLogger(cliLogger()),
		notes.WithMaxConcurrent(cfg.MaxConcurrentKDF),
	)
	return svc, store
}

// HandleError handles common errors consistently
func HandleError(err error) {
	switch {
	case errors.Is(err, notes.ErrDecryptionFailed):
		fmt.Fprintf(os.Stderr, "Error: %s\n", crypto.ErrDecryptionFailed)
		fmt.Fprintf(os.Stderr, "Check the password and that the envelope was copied completely\n")
	case errors.Is(err, notes.ErrEncryptionFailed):
		fmt.Fprintf(os.Stderr, "Error: %s\n", crypto.ErrEncryptionFailed)
	case errors.Is(err, notes.ErrNoteNotFound):
		fmt.Fprintf(os.Stderr, "Error: note not found\n")
		fmt.Fprintf(os.Stderr, "Use 'sealnote ls' to see stored notes\n")
	case errors.Is(err, notes.ErrMissingInput), errors.Is(err, notes.ErrMissingNoteInput):
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
	case errors.Is(err, prompt.ErrPasswordMismatch):
		fmt.Fprintf(os.Stderr, "Error: passwords do not match\n")
	case errors.Is(err, prompt.ErrEmptyMessage):
		fmt.Fprintf(os.Stderr, "Error: nothing to seal\n")
		fmt.Fprintf(os.Stderr, "Pass a message with -m or pipe it on stdin\n")
	case errors.Is(err, context.Canceled):
		fmt.Fprintf(os.Stderr, "Interrupted\n")
	default:
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
	}
	os.Exit(1)
}

func formatSize(size int64) string {
	const (
		KB = 1024
		MB = KB * 1024
		GB = MB * 1024
	)

	switch {
	case size >= GB:
		return fmt.Sprintf("%.1f GB", float64(size)/GB)
	case size >= MB:
		return fmt.Sprintf("%.1f MB", float64(size)/MB)
	case size >= KB:
		return fmt.Sprintf("%.1f KB", float64(size)/KB)
	default:
		return fmt.Sprintf("%d bytes", size)
	}
}
