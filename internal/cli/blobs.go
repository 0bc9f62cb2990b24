package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var blobsCmd = &cobra.Command{
	Use:   "blobs",
	Short: "Show blob store contents",
	Long: `List the content identifiers held in the blob store. Blobs from
aborted ingestions stay on disk until reused; this makes them visible.`,
	Run: runBlobs,
}

func runBlobs(cmd *cobra.Command, args []string) {
	bgCtx := context.Background()
	c := initFullContext()
	defer c.Close()

	cids, err := c.Blobs.ListCIDs(bgCtx)
	if err != nil {
		exitError("failed to scan blob store: %v", err)
	}

	for _, cid := range cids {
		fmt.Println(cid)
	}
	fmt.Printf("%d blob(s)\n", len(cids))
}
