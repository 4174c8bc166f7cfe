// Package prompt reads passwords and messages from the terminal.
package prompt

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"syscall"

	"golang.org/x/term"

	"github.com/illarion/sealnote/internal/crypto"
)

// PasswordEnv names the variable checked before prompting
const PasswordEnv = "SEALNOTE_PASSWORD"

var (
	ErrPasswordMismatch = errors.New("passwords do not match")
	ErrEmptyMessage     = errors.New("message is empty")
)

// ReadPassword reads a password from the terminal without echoing
func ReadPassword(prompt string) ([]byte, error) {
	fmt.Fprint(os.Stderr, prompt)

	password, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Fprintln(os.Stderr)

	if err != nil {
		return nil, fmt.Errorf("failed to read password: %w", err)
	}

	return password, nil
}

// ReadPasswordConfirm reads a password twice and ensures they match
func ReadPasswordConfirm() ([]byte, error) {
	return confirm(ReadPassword)
}

func confirm(read func(string) ([]byte, error)) ([]byte, error) {
	password1, err := read("Enter password: ")
	if err != nil {
		return nil, err
	}
	defer crypto.ClearBytes(password1)

	password2, err := read("Confirm password: ")
	if err != nil {
		return nil, err
	}
	defer crypto.ClearBytes(password2)

	if !crypto.ConstantTimeCompare(password1, password2) {
		return nil, ErrPasswordMismatch
	}

	result := make([]byte, len(password1))
	copy(result, password1)
	return result, nil
}

// GetPasswordFromEnv returns a copy of SEALNOTE_PASSWORD, or nil when unset
func GetPasswordFromEnv() []byte {
	password := os.Getenv(PasswordEnv)
	if password == "" {
		return nil
	}
	result := make([]byte, len(password))
	copy(result, password)
	return result
}

// IsTerminal reports whether stdin is a terminal
func IsTerminal() bool {
	return term.IsTerminal(int(syscall.Stdin))
}

// ReadMessage reads r to EOF and strips one trailing newline
func ReadMessage(r io.Reader) (string, error) {
	data, err := io.ReadAll(bufio.NewReader(r))
	if err != nil {
		return "", fmt.Errorf("failed to read message: %w", err)
	}

	msg := strings.TrimSuffix(string(data), "\n")
	msg = strings.TrimSuffix(msg, "\r")
	if msg == "" {
		return "", ErrEmptyMessage
	}
	return msg, nil
}
