package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/illarion/sealnote/internal/storage"
)

// Remove deletes notes from the store. No password is needed; envelopes
// are dropped without being opened.
func Remove(ctx context.Context, ids []string) {
	if len(ids) == 0 {
		fmt.Fprintf(os.Stderr, "Error: rm requires at least one note ID\n")
		fmt.Fprintf(os.Stderr, "Usage: sealnote rm <id> [id...]\n")
		os.Exit(1)
	}

	svc, store := openService(ctx)
	defer svc.Close()

	failed := false
	for _, id := range ids {
		if err := svc.Remove(ctx, id); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %s: %s\n", id, err)
			failed = true
			continue
		}
		fmt.Printf("Removed %s\n", id)
	}

	// Compact database to reclaim space
	if db, ok := store.(*storage.Storage); ok {
		if err := db.Compact(); err != nil {
			fmt.Fprintf(os.Stderr, "warning: compaction failed: %s\n", err)
		}
	}

	if failed {
		svc.Close()
		os.Exit(1)
	}
}
