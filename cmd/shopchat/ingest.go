package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/fyrsmithlabs/shopchat/internal/app"
	"github.com/fyrsmithlabs/shopchat/internal/ingest"
)

var (
	dataPath string
	reload   bool
)

var ingestCmd = &cobra.Command{
	Use:   "ingest",
	Short: "Load the review CSV into the vector index",
	Long: `Ingest converts the review CSV into documents, embeds them, and
upserts them into the configured vector store.

By default an already-populated collection is reused untouched. Pass
--reload to re-embed every row; stable document ids make this an
in-place overwrite, not a duplication.

Examples:
  # Ingest using the configured data path
  shopchat ingest

  # Ingest a specific file, re-embedding everything
  shopchat ingest --data reviews.csv --reload`,
	RunE: runIngest,
}

func init() {
	ingestCmd.Flags().StringVar(&dataPath, "data", "", "review CSV path (defaults to configured path)")
	ingestCmd.Flags().BoolVar(&reload, "reload", false, "re-embed even when the collection is populated")
}

func runIngest(cmd *cobra.Command, args []string) error {
	application, err := app.New(configPath)
	if err != nil {
		return err
	}
	defer application.Close()

	path := dataPath
	if path == "" {
		path = application.Config.Ingest.DataPath
	}

	var stats ingest.Stats
	if reload {
		stats, err = application.Ingestor.Ingest(cmd.Context(), path, false)
	} else {
		stats, err = application.Bootstrap(cmd.Context(), path)
	}
	if err != nil {
		return err
	}

	if stats.Reused {
		fmt.Printf("Collection already populated with %d documents, nothing to do.\n", stats.Documents)
		return nil
	}
	fmt.Printf("Ingested %d documents in %d batches.\n", stats.Documents, stats.Batches)
	return nil
}
