// Package cli implements the command-line interface for Scholar.
package cli

import (
	"fmt"
	"os"

	"github.com/dgoldman0/scholar.app/internal/blobstore"
	"github.com/dgoldman0/scholar.app/internal/config"
	"github.com/dgoldman0/scholar.app/internal/store"
	"github.com/spf13/cobra"
)

// cmdContext holds common resources for CLI commands
type cmdContext struct {
	Config *config.Config
	Store  *store.Store
	Blobs  blobstore.BlobStore
}

// Close releases resources held by cmdContext
func (c *cmdContext) Close() {
	if c.Store != nil {
		c.Store.Close()
	}
}

// initContext initializes config and store (no blob store)
func initContext() *cmdContext {
	cfg, err := config.Load()
	if err != nil {
		exitError("%v", err)
	}

	st, err := store.New(cfg.DatabasePath())
	if err != nil {
		exitError("failed to open store: %v", err)
	}

	if err := st.RunMigrations(); err != nil {
		st.Close()
		exitError("failed to run migrations: %v", err)
	}

	return &cmdContext{Config: cfg, Store: st}
}

// initFullContext initializes config, store, and the blob store
func initFullContext() *cmdContext {
	ctx := initContext()

	blobs, err := blobstore.NewFSStore(ctx.Config.BlobsPath())
	if err != nil {
		ctx.Close()
		exitError("failed to open blob store: %v", err)
	}
	ctx.Blobs = blobs

	return ctx
}

var rootCmd = &cobra.Command{
	Use:   "scholar",
	Short: "Scholar paper ingestion",
	Long: `Scholar ingests versioned papers and their supplemental assets into a
content-addressed blob store, recording authors, versions, and provenance
in a local SQLite ledger.`,
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(ingestCmd)
	rootCmd.AddCommand(papersCmd)
	rootCmd.AddCommand(logCmd)
	rootCmd.AddCommand(blobsCmd)
}

// exitError prints an error and exits
func exitError(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, "error: "+format+"\n", args...)
	os.Exit(1)
}

// shortCID returns the first 12 characters of a content identifier
func shortCID(cid string) string {
	if len(cid) > 12 {
		return cid[:12]
	}
	return cid
}
