package main

import (
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/hoafnganh/notionblog"
)

var (
	cfgFile  string
	logLevel string
)

var rootCmd = &cobra.Command{
	Use:   "notionblog",
	Short: "Blog engine for exported Notion pages",
	Long: `notionblog serves exported Notion record maps as a blog.

Every page gets a table of contents built from its headings. In the
browser the current heading is highlighted as the reader scrolls and
entries scroll smoothly to their section.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "YAML config file")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (overrides config)")

	rootCmd.AddCommand(serveCmd, importCmd, tocCmd, versionCmd)
}

// loadConfig reads --config if given, then applies BLOG_* variables and
// --log-level.
func loadConfig() (notionblog.SiteConfig, error) {
	var cfg notionblog.SiteConfig
	if cfgFile != "" {
		var err error
		if cfg, err = notionblog.LoadConfigFile(cfgFile); err != nil {
			return cfg, err
		}
	}
	cfg.ApplyEnv()
	if logLevel != "" {
		cfg.LogLevel = logLevel
	}
	return cfg, nil
}

func newLogger(level string) *logrus.Logger {
	if level == "" {
		level = "info"
	}
	log, err := notionblog.NewLogger(level)
	if err != nil {
		log.WithError(err).Warn("Falling back to info level")
	}
	return log
}
