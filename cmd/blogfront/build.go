package main

import (
	"github.com/spf13/cobra"

	"github.com/asmari/blogfront"
)

var (
	buildOut    string
	buildImages bool
)

var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Prerender the static site (post pages, sitemap.xml, robots.txt)",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if buildOut != "" {
			cfg.OutputDir = buildOut
		}
		p, err := blogfront.NewPrerenderer(cfg)
		if err != nil {
			return err
		}
		p.MirrorImages = buildImages
		return p.Run(cmd.Context())
	},
}

func init() {
	buildCmd.Flags().StringVarP(&buildOut, "out", "o", "", "output directory (default from config, \"dist\")")
	buildCmd.Flags().BoolVar(&buildImages, "images", false, "mirror featured images locally, resized for cards")
}
