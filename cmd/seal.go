package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/illarion/sealnote/internal/crypto"
	"github.com/illarion/sealnote/internal/notes"
)

// Encrypt seals a message and prints the envelope without storing it
func Encrypt(ctx context.Context, message string) {
	message = readInput(message, "message")

	password := GetNewPasswordOrExit()
	defer crypto.ClearBytes(password)

	svc := notes.New(nil, notes.WithLogger(cliLogger()))
	envelope, err := svc.Encrypt(ctx, message, string(password))
	if err != nil {
		HandleError(err)
	}

	fmt.Println(envelope)
}

// Decrypt opens an envelope given as argument or on stdin
func Decrypt(ctx context.Context, envelope string) {
	envelope = strings.TrimSpace(readInput(envelope, "envelope"))

	password := GetPasswordOrExit("Enter password: ")
	defer crypto.ClearBytes(password)

	svc := notes.New(nil, notes.WithLogger(cliLogger()))
	message, err := svc.Decrypt(ctx, envelope, string(password))
	if err != nil {
		HandleError(err)
	}

	fmt.Println(message)
}
