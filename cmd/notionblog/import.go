package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hoafnganh/notionblog"
)

var importCmd = &cobra.Command{
	Use:   "import <file.json>...",
	Short: "Import record map files into the database",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if cfg.DatabasePath == "" {
			cfg.DatabasePath = "data/blog.db"
		}
		log := newLogger(cfg.LogLevel)

		store, err := notionblog.NewStore(cfg.DatabasePath)
		if err != nil {
			return err
		}
		defer store.Close()

		im := notionblog.NewImporter(store, log.WithField("component", "import"))
		failed := 0
		for _, path := range args {
			page, err := im.ImportFile(cmd.Context(), path)
			if err != nil {
				log.WithError(err).Error("Import failed")
				failed++
				continue
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\t%s\n", page.Slug, page.Date, page.Title)
		}
		if failed > 0 {
			return fmt.Errorf("%d of %d files failed", failed, len(args))
		}
		return nil
	},
}
