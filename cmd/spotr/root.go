package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"spotr/internal/structures"
)

const Version = "0.3.0"

var (
	flags = &structures.CliFlags{}

	// RootCmd represents the base command when called without any subcommands
	RootCmd = &cobra.Command{
		Use:   "spotr",
		Short: "car spotting session and storage service",
		Long: fmt.Sprintf(`spotr (v%s)

Local persistence and session state for the spotr app: profile,
favorites, uploaded media and votes behind a small HTTP API.`, Version),
		SilenceUsage: true,
	}
	versionCmd = &cobra.Command{
		Use:   "version",
		Short: "Print the version number of spotr",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("spotr v%s\n", Version)
		},
	}
)

func init() {
	cobra.OnInitialize(loadEnv)

	RootCmd.AddCommand(serveCmd)
	RootCmd.AddCommand(resetCmd)
	RootCmd.AddCommand(versionCmd)

	RootCmd.PersistentFlags().StringVarP(&flags.ConfigPath, "config", "c", "./config.yaml", "path to the yaml config file")
	RootCmd.PersistentFlags().BoolVarP(&flags.DebugMode, "debug", "d", false, "log to stdout instead of the log file")
}

func loadEnv() {
	_ = godotenv.Load(".env")
	_ = godotenv.Load(".env.local")
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := RootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
