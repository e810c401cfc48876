package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/Geoany/MapWindow5/cli"
)

// Set via ldflags at build time.
var version = "dev"

func main() {
	if err := rootCmd.Execute(); err != nil {
		var exitErr *cli.ExitError
		if errors.As(err, &exitErr) {
			os.Exit(exitErr.Code)
		}
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "mapwindow",
	Short: "MapWindow geoprocessing CLI",
	Long:  "MapWindow is a CLI for listing, validating, and running declarative geoprocessing jobs.",
	// SilenceUsage prevents printing usage on every error
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		verbose, _ := cmd.Flags().GetBool("verbose")
		level := slog.LevelInfo
		if verbose {
			level = slog.LevelDebug
		}
		slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: level,
		})))
	},
}

func init() {
	rootCmd.PersistentFlags().Bool("verbose", false, "Enable verbose/debug logging")

	rootCmd.Version = version
	rootCmd.SetVersionTemplate(fmt.Sprintf("mapwindow version %s\n", version))

	rootCmd.AddCommand(cli.NewToolsCmd())
	rootCmd.AddCommand(cli.NewValidateCmd())
	rootCmd.AddCommand(cli.NewRunCmd())
}
