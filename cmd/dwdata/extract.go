package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/dogwitch-wiki/data/internal/images"
	"github.com/dogwitch-wiki/data/internal/importer"
	"github.com/dogwitch-wiki/data/internal/importer/unity"
)

func newExtractCommand(ctx *commandContext) *cobra.Command {
	var skipImages bool

	cmd := &cobra.Command{
		Use:   "extract [extracted-files-path]",
		Short: "Write equipment.json and copy item images from an AssetRipper export",
		Long: "Reads every equipment asset below ExportedProject/Assets/Resources/equipment,\n" +
			"validates it, writes <data_dir>/equipment.json and copies the referenced\n" +
			"sprites to <data_dir>/images. The path argument overrides extracted_files_path.",
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := ctx.ensure()
			if err != nil {
				return err
			}
			if len(args) == 1 && strings.TrimSpace(args[0]) != "" {
				cfg.ExtractedFilesPath = args[0]
			}
			if err := cfg.RequireExtractedFiles(); err != nil {
				return err
			}
			root := cfg.ExtractedFilesPath
			if info, err := os.Stat(root); err != nil || !info.IsDir() {
				return fmt.Errorf("failed to find the extracted Dog Witch game files at: %s", root)
			}
			logger.Info("looking through the extracted Dog Witch files", zap.String("path", root))

			source := unity.NewSource(cfg.Extract.Workers, logger)
			var copier importer.ImageCopier
			if !cfg.Images.Skip && !skipImages {
				copier = images.NewCopier(cfg.Images.Workers, logger)
			}

			summary, err := importer.New(source, copier, logger).Run(cmd.Context(), root, cfg.DataDir)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderSummary(summary))
			return nil
		},
	}

	cmd.Flags().BoolVar(&skipImages, "skip-images", false, "Write equipment.json only")
	return cmd
}
