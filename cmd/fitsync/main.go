// Command fitsync runs the local-first persistence and sync core of the
// workout logger: the local store, the sync outbox and processor, and the
// local control API used by the app shell.
//
// @title          Fitness Sync Local API
// @version        1.0
// @description    Local control API for the offline-first workout store and its sync queue.
// @BasePath       /api/v1
// @schemes        http
package main

import (
	"os"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

var envFiles []string

var rootCmd = &cobra.Command{
	Use:           "fitsync",
	Short:         "Offline-first workout store with a background sync queue",
	SilenceUsage:  true,
	SilenceErrors: true,
	Version:       version,
}

func init() {
	rootCmd.PersistentFlags().StringSliceVar(&envFiles, "env-file", nil, "dotenv files to load before reading the environment (default .env)")
	rootCmd.AddGroup(
		&cobra.Group{ID: "run", Title: "Running:"},
		&cobra.Group{ID: "data", Title: "Local data:"},
	)
	rootCmd.AddCommand(serveCmd, initCmd, queueCmd, statsCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		log.Error().Err(err).Msg("fitsync_failed")
		os.Exit(1)
	}
}
