package cli

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/dgoldman0/scholar.app/internal/core"
	"github.com/dgoldman0/scholar.app/internal/models"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var ingestCmd = &cobra.Command{
	Use:   "ingest",
	Short: "Ingest a paper and its supplemental assets",
	Long: `Ingest a PDF or Markdown paper (and optional supplemental assets) into
the Scholar ledger. The file content is stored under its content
identifier and a new immutable version is recorded for the slug.

Authors are given as DID[,name,orcid] and may be repeated. Assets are
given as PATH[,description] and may be repeated.`,
	Run: runIngest,
}

var (
	ingestFile        string
	ingestSlug        string
	ingestTitle       string
	ingestAbstract    string
	ingestPublishedAt string
	ingestNotes       string
	ingestAuthors     []string
	ingestAssets      []string
)

func init() {
	ingestCmd.Flags().StringVar(&ingestFile, "file", "", "Path to the main PDF or Markdown file (required)")
	ingestCmd.Flags().StringVar(&ingestSlug, "slug", "", "Paper slug (lowercase a-z, 0-9, hyphens) (required)")
	ingestCmd.Flags().StringVar(&ingestTitle, "title", "", "Paper title (required)")
	ingestCmd.Flags().StringVar(&ingestAbstract, "abstract", "", "Abstract")
	ingestCmd.Flags().StringVar(&ingestPublishedAt, "published-at", "", "RFC 3339 publication timestamp (defaults to now)")
	ingestCmd.Flags().StringVar(&ingestNotes, "notes", "", "Version notes")
	ingestCmd.Flags().StringArrayVar(&ingestAuthors, "author", nil, `Author as "DID[,name,orcid]" (repeatable, required)`)
	ingestCmd.Flags().StringArrayVar(&ingestAssets, "asset", nil, `Supplemental asset as "PATH[,description]" (repeatable)`)
	ingestCmd.MarkFlagRequired("file")
	ingestCmd.MarkFlagRequired("slug")
	ingestCmd.MarkFlagRequired("title")
	ingestCmd.MarkFlagRequired("author")
}

func runIngest(cmd *cobra.Command, args []string) {
	bgCtx := context.Background()
	c := initFullContext()
	defer c.Close()

	var publishedAt time.Time
	if ingestPublishedAt != "" {
		t, err := time.Parse(time.RFC3339, ingestPublishedAt)
		if err != nil {
			exitError("invalid --published-at %q: %v", ingestPublishedAt, err)
		}
		publishedAt = t
	}

	authors := make([]models.Author, 0, len(ingestAuthors))
	for _, arg := range ingestAuthors {
		authors = append(authors, parseAuthor(arg))
	}

	assets := make([]models.AssetInput, 0, len(ingestAssets))
	for _, arg := range ingestAssets {
		assets = append(assets, parseAsset(arg))
	}

	summary, err := core.Ingest(bgCtx, c.Store, c.Blobs, core.IngestInput{
		FilePath:    ingestFile,
		Slug:        ingestSlug,
		Title:       ingestTitle,
		Abstract:    ingestAbstract,
		PublishedAt: publishedAt,
		Notes:       ingestNotes,
		Authors:     authors,
		Assets:      assets,
	})
	if err != nil {
		exitError("%v", err)
	}

	green := color.New(color.FgGreen)
	green.Printf("Ingested %s v%d\n", summary.Slug, summary.VersionNumber)
	fmt.Printf(" %d asset(s)\n", summary.AssetCount)
}

// parseAuthor parses "DID[,name,orcid]" into an Author.
func parseAuthor(arg string) models.Author {
	parts := strings.SplitN(arg, ",", 3)
	a := models.Author{DID: strings.TrimSpace(parts[0])}
	if len(parts) > 1 {
		a.Name = strings.TrimSpace(parts[1])
	}
	if len(parts) > 2 {
		a.ORCID = strings.TrimSpace(parts[2])
	}
	return a
}

// parseAsset parses "PATH[,description]" into an AssetInput.
func parseAsset(arg string) models.AssetInput {
	if i := strings.IndexByte(arg, ','); i >= 0 {
		return models.AssetInput{
			Path:        strings.TrimSpace(arg[:i]),
			Description: strings.TrimSpace(arg[i+1:]),
		}
	}
	return models.AssetInput{Path: strings.TrimSpace(arg)}
}
