package main

import (
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/dogwitch-wiki/data/internal/importer"
	"github.com/dogwitch-wiki/data/internal/wiki"
)

func newCreatePagesCommand(ctx *commandContext) *cobra.Command {
	var always bool

	cmd := &cobra.Command{
		Use:   "create-pages",
		Short: "Create an infobox stub page on the wiki for every extracted item",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := ctx.ensure()
			if err != nil {
				return err
			}
			jsonPath := filepath.Join(cfg.DataDir, importer.OutputFileName)
			records, err := importer.ReadJSON(jsonPath)
			if err != nil {
				return err
			}
			bot, err := wiki.NewBot(cfg.Wiki, logger)
			if err != nil {
				return err
			}
			logger.Info("creating pages", zap.String("path", jsonPath), zap.Int("items", len(records)))
			return bot.CreatePages(cmd.Context(), jsonPath, always)
		},
	}

	cmd.Flags().BoolVar(&always, "always", false, "Create pages without asking for confirmation")
	return cmd
}
