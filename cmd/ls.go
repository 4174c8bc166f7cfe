package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/illarion/sealnote/internal/crypto"
	"github.com/illarion/sealnote/internal/storage"
)

// Ls lists stored notes. Does not require a password.
func Ls(ctx context.Context) {
	svc, store := openService(ctx)
	defer svc.Close()

	list, err := svc.List(ctx)
	if err != nil {
		HandleError(err)
	}

	fmt.Printf("Encryption: %s\n", crypto.Suite)
	if db, ok := store.(*storage.Storage); ok {
		fmt.Printf("Store: %s\n", db.Path())
		if id, err := db.GetOrCreateStoreID(); err == nil {
			fmt.Printf("Store ID: %s\n", id)
		}
		if modified, err := db.GetModified(); err == nil {
			fmt.Printf("Modified: %s\n", modified.Local().Format(time.DateTime))
		}
	}
	fmt.Println()

	if len(list) == 0 {
		fmt.Println("No notes stored")
		return
	}

	fmt.Printf("Notes (%d):\n", len(list))
	for _, note := range list {
		fmt.Printf("  %s  %s  (%s sealed)\n",
			note.ID,
			note.Created.Local().Format(time.DateTime),
			formatSize(int64(len(note.Envelope))),
		)
	}
}
