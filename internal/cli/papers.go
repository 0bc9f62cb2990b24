package cli

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var papersCmd = &cobra.Command{
	Use:   "papers",
	Short: "List papers in the ledger",
	Run:   runPapers,
}

func runPapers(cmd *cobra.Command, args []string) {
	c := initContext()
	defer c.Close()

	papers, err := c.Store.ListPapers()
	if err != nil {
		exitError("failed to list papers: %v", err)
	}

	if len(papers) == 0 {
		fmt.Println("No papers yet")
		return
	}

	yellow := color.New(color.FgYellow)
	for _, p := range papers {
		yellow.Printf("%s ", p.Slug)
		fmt.Printf("%s\n", p.Title)
		fmt.Printf("  latest %s  updated %s\n", shortCID(p.LatestVersionCID), p.UpdatedAt.Format("2006-01-02 15:04"))
	}
}
