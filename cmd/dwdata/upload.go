package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/dogwitch-wiki/data/internal/importer"
	"github.com/dogwitch-wiki/data/internal/wiki"
)

func newUploadImagesCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "upload-images",
		Short: "Upload copied item images to the wiki through Pywikibot",
		Long: "Logs in with Pywikibot, then uploads every file in <data_dir>/images that is\n" +
			"missing from the wiki. Files already on the wiki are compared by SHA-1 and\n" +
			"reported when outdated.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := ctx.ensure()
			if err != nil {
				return err
			}
			bot, err := wiki.NewBot(cfg.Wiki, logger)
			if err != nil {
				return err
			}
			imagesDir := filepath.Join(cfg.DataDir, importer.ImagesDirName)
			summary, err := wiki.NewUploader(bot, cfg.Wiki.Description, logger).Run(cmd.Context(), imagesDir)
			if summary != nil {
				fmt.Fprintf(cmd.OutOrStdout(), "uploaded %d, unchanged %d, outdated %d\n",
					summary.Uploaded, summary.Unchanged, len(summary.Stale))
			}
			return err
		},
	}
}
