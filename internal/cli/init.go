package cli

import (
	"fmt"

	"github.com/dgoldman0/scholar.app/internal/blobstore"
	"github.com/dgoldman0/scholar.app/internal/config"
	"github.com/dgoldman0/scholar.app/internal/store"
	"github.com/spf13/cobra"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize a new Scholar repository",
	Long: `Initialize a new Scholar repository in the current directory.
This creates a .scholar directory holding the SQLite ledger and the
content-addressed blob store.`,
	Run: runInit,
}

func runInit(cmd *cobra.Command, args []string) {
	// Check if already initialized
	if _, err := config.FindScholarRoot(); err == nil {
		exitError("scholar repository already exists")
	}

	cfg, err := config.Initialize()
	if err != nil {
		exitError("failed to initialize config: %v", err)
	}

	st, err := store.New(cfg.DatabasePath())
	if err != nil {
		exitError("failed to create store: %v", err)
	}
	defer st.Close()

	if err := st.Initialize(); err != nil {
		exitError("failed to initialize store: %v", err)
	}

	if _, err := blobstore.NewFSStore(cfg.BlobsPath()); err != nil {
		exitError("failed to create blob store: %v", err)
	}

	fmt.Printf("Initialized empty Scholar repository in %s/\n", config.ScholarDir)
	fmt.Printf("Blob store at %s\n", cfg.BlobsPath())
}
