package main

import (
	"github.com/spf13/cobra"

	"spotr/internal/di"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the spotr HTTP server",
	Long:  `Start the spotr HTTP server. Settings come from the config file and can be overridden with SPOTR_* environment variables (e.g. SPOTR_PORT=9000), which may also be placed in a .env file.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := di.InitApp(flags)
		if err != nil {
			return err
		}
		return app.Run()
	},
}
