package main

import (
	"log"

	"github.com/spf13/cobra"

	"github.com/asmari/blogfront"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the blog HTTP server",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		app := blogfront.New(cfg)
		defer func() {
			if err := app.Close(); err != nil {
				log.Printf("close: %v", err)
			}
		}()
		return app.Start()
	},
}
