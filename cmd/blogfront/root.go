package main

import (
	"github.com/spf13/cobra"

	"github.com/asmari/blogfront"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:   "blogfront",
	Short: "Web front-end and static prerenderer for the blog",
	Long: `blogfront serves the blog from a headless WordPress instance and
prerenders static HTML per post for crawlers.

Configuration comes from site.yaml overlaid with environment variables
(SITE_URL, WP_API_BASE, GEMINI_API_KEY, SESSION_SECRET, ...).`,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "site.yaml", "path to the site config file")
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(buildCmd)
}

func loadConfig() (blogfront.SiteConfig, error) {
	return blogfront.LoadConfig(configPath)
}
