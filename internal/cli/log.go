package cli

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var logCmd = &cobra.Command{
	Use:   "log <slug>",
	Short: "Show a paper's version history",
	Long:  `Display the recorded versions of a paper, newest first.`,
	Args:  cobra.ExactArgs(1),
	Run:   runLog,
}

var logAssets bool

func init() {
	logCmd.Flags().BoolVar(&logAssets, "assets", false, "Show supplemental assets for each version")
}

func runLog(cmd *cobra.Command, args []string) {
	c := initContext()
	defer c.Close()

	slug := args[0]
	paper, err := c.Store.GetPaper(slug)
	if err != nil {
		exitError("%v", err)
	}

	versions, err := c.Store.ListVersions(slug)
	if err != nil {
		exitError("failed to list versions: %v", err)
	}

	yellow := color.New(color.FgYellow)
	cyan := color.New(color.FgCyan)

	for _, v := range versions {
		yellow.Printf("v%d %s", v.VersionNumber, v.BodyCID)
		if v.BodyCID == paper.LatestVersionCID {
			cyan.Print(" (latest)")
		}
		fmt.Println()
		fmt.Printf("Date:   %s\n", v.UploadedAt.Format("Mon Jan 2 15:04:05 2006"))
		if v.Notes != "" {
			fmt.Printf("\n    %s\n", v.Notes)
		}

		if logAssets {
			assets, err := c.Store.ListAssets(slug, v.VersionNumber)
			if err != nil {
				exitError("failed to list assets: %v", err)
			}
			for _, a := range assets {
				fmt.Printf("    asset %s  %s (%s)\n", shortCID(a.AssetCID), a.Filename, a.MimeType)
			}
		}
		fmt.Println()
	}
}
