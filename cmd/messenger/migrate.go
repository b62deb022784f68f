package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"messenger/internal/store"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create the database schema if it does not exist",
	RunE: func(cmd *cobra.Command, args []string) error {
		_, db, err := store.Open(cmd.Context(), cfg)
		if err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
		defer db.Close()

		logger.Info("schema is up to date", zap.String("driver", cfg.DatabaseDriver))
		return nil
	},
}
