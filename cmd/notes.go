package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/illarion/sealnote/internal/crypto"
)

// Put seals a message and stores it, printing the new note ID
func Put(ctx context.Context, message string) {
	message = readInput(message, "message")

	password := GetNewPasswordOrExit()
	defer crypto.ClearBytes(password)

	svc, _ := openService(ctx)
	defer svc.Close()

	note, err := svc.Create(ctx, message, string(password))
	if err != nil {
		HandleError(err)
	}

	fmt.Println(note.ID)
}

// Get opens a stored note and prints its message
func Get(ctx context.Context, id string) {
	if id == "" {
		fmt.Fprintf(os.Stderr, "Error: get requires a note ID\n")
		fmt.Fprintf(os.Stderr, "Usage: sealnote get <id>\n")
		os.Exit(1)
	}

	svc, _ := openService(ctx)
	defer svc.Close()

	// Fail on a missing note before asking for a password
	if _, err := svc.Get(ctx, id); err != nil {
		HandleError(err)
	}

	password := GetPasswordOrExit("Enter password: ")
	defer crypto.ClearBytes(password)

	message, err := svc.Reveal(ctx, id, string(password))
	if err != nil {
		HandleError(err)
	}

	fmt.Println(message)
}
