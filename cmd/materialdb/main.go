// Package main provides the materialdb CLI.
package main

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/dukaforge/materialdb/internal/sqlite"
)

var (
	// configDir is set by the --config flag.
	configDir string

	// store is the global store handle, initialized on startup.
	store *sqlite.Store

	config *viper.Viper
	logger zerolog.Logger
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "materialdb",
	Short: "materialdb is a material and model library store",
	Long: `materialdb persists libraries of materials and their property models
in a relational database. It provides commands for managing libraries and
inspecting their contents, and can serve the store over HTTP.`,
	PersistentPreRunE: initStore,
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		return closeStore()
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configDir, "config", "", "config directory (default: ~/.materialdb)")
	rootCmd.PersistentFlags().Bool("verbose", false, "enable debug logging")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(libraryCmd)
	rootCmd.AddCommand(modelCmd)
	rootCmd.AddCommand(materialCmd)
}

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create the database and provision the schema",
	Long: `Create a fresh database at the configured path, replacing any
existing one, and provision all tables and indexes.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		// PersistentPreRunE already created and provisioned the database.
		fmt.Println("database initialized")
		return nil
	},
}

// initStore loads config, sets up logging, and opens the store.
func initStore(cmd *cobra.Command, args []string) error {
	if cmd.Name() == "version" {
		return nil
	}

	logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()
	logger = logger.Level(zerolog.InfoLevel)
	if verbose, _ := cmd.Flags().GetBool("verbose"); verbose {
		logger = logger.Level(zerolog.DebugLevel)
	}

	cfg, err := loadConfig(configDir)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	config = cfg

	path := databasePath(cfg)
	if cmd.Name() == "init" {
		store, err = sqlite.Create(path, logger)
	} else {
		store, err = sqlite.Open(path, logger)
	}
	if err != nil {
		return err
	}
	return nil
}

// closeStore releases the database handle.
func closeStore() error {
	if store != nil {
		return store.Close()
	}
	return nil
}
