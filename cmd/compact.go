package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/illarion/sealnote/internal/storage"
)

// Compact compacts the bolt database to reclaim unused space
func Compact(ctx context.Context) {
	svc, store := openService(ctx)
	defer svc.Close()

	db, ok := store.(*storage.Storage)
	if !ok {
		fmt.Fprintf(os.Stderr, "Error: compact only applies to the bolt store\n")
		svc.Close()
		os.Exit(1)
	}

	info, err := os.Stat(db.Path())
	if err != nil {
		HandleError(err)
	}
	sizeBefore := info.Size()

	if err := db.Compact(); err != nil {
		HandleError(err)
	}

	info, err = os.Stat(db.Path())
	if err != nil {
		HandleError(err)
	}
	sizeAfter := info.Size()

	fmt.Printf("Compacted: %s -> %s\n", formatSize(sizeBefore), formatSize(sizeAfter))
}
