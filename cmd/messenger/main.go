package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"messenger/internal/config"
	"messenger/internal/logging"
)

var (
	verbose     bool
	driver      string
	databaseURL string

	cfg    *config.Config
	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "messenger",
	Short: "Messenger with contact lists, block lists, chats and paged history",
	Long: `messenger stores users, their contact and block lists, chats and chat
messages in PostgreSQL or SQLite.

Use "serve" for the JSON API, "shell" for the interactive menus and
"migrate" to create the schema.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		if driver != "" {
			cfg.DatabaseDriver = driver
			cfg.DatabaseURL = ""
			if err := cfg.ResolveDatabaseURL(); err != nil {
				return err
			}
		}
		if databaseURL != "" {
			cfg.DatabaseURL = databaseURL
		}
		if verbose {
			cfg.LogLevel = "debug"
		}

		logger, err = logging.New(cfg.Env, cfg.LogLevel)
		if err != nil {
			return fmt.Errorf("init logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
	rootCmd.PersistentFlags().StringVar(&driver, "driver", "", "Database driver, postgres or sqlite (default from DATABASE_DRIVER)")
	rootCmd.PersistentFlags().StringVar(&databaseURL, "database-url", "", "Database URL or SQLite path (default from DATABASE_URL)")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(shellCmd)
	rootCmd.AddCommand(migrateCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
