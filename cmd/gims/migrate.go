package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"gims/internal/config"
	"gims/internal/infrastructure/storage/postgres"
)

var migrateDown bool

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply database migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}

		if migrateDown {
			if err := postgres.MigrateDown(cfg.DatabaseURL); err != nil {
				return fmt.Errorf("rollback migration: %w", err)
			}
			fmt.Println("rolled back one migration")
			return nil
		}

		if err := postgres.Migrate(cfg.DatabaseURL); err != nil {
			return fmt.Errorf("apply migrations: %w", err)
		}
		fmt.Println("migrations applied")
		return nil
	},
}

func init() {
	migrateCmd.Flags().BoolVar(&migrateDown, "down", false, "Roll back the most recent migration")
	rootCmd.AddCommand(migrateCmd)
}
