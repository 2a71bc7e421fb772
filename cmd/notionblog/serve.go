package main

import (
	"github.com/spf13/cobra"

	"github.com/hoafnganh/notionblog"
	"github.com/hoafnganh/notionblog/views"
)

var (
	serveAddr   string
	serveStatic string
	serveWatch  bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Import the content directory and serve the blog",
	Long: `Import every record map in the content directory and start the HTTP server.

With --watch, files added, changed or removed in the content directory are
picked up while the server runs.

Examples:
  notionblog serve --config blog.yaml
  notionblog serve --addr :8080 --watch`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if serveAddr != "" {
			cfg.Addr = serveAddr
		}
		if cmd.Flags().Changed("watch") {
			cfg.Watch = serveWatch
		}

		app := notionblog.New(cfg, views.Default(),
			notionblog.WithStaticDir(serveStatic),
			notionblog.WithLogger(newLogger(cfg.LogLevel)),
		)
		defer app.Close()
		return app.Start(cmd.Context())
	},
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (overrides config)")
	serveCmd.Flags().StringVar(&serveStatic, "static", "public", "static asset directory")
	serveCmd.Flags().BoolVar(&serveWatch, "watch", false, "re-import content as it changes")
}
