package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"clientreg/internal/platform/config"
	"clientreg/internal/platform/postgres"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Manage the database schema",
}

func init() {
	migrateCmd.AddCommand(
		&cobra.Command{
			Use:   "up",
			Short: "Apply all pending migrations",
			RunE: func(cmd *cobra.Command, _ []string) error {
				url, err := databaseURL()
				if err != nil {
					return err
				}
				if err := postgres.MigrateUp(url); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "migrations applied")
				return nil
			},
		},
		&cobra.Command{
			Use:   "down",
			Short: "Roll back every migration",
			RunE: func(cmd *cobra.Command, _ []string) error {
				url, err := databaseURL()
				if err != nil {
					return err
				}
				if err := postgres.MigrateDown(url); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "migrations rolled back")
				return nil
			},
		},
		&cobra.Command{
			Use:   "version",
			Short: "Print the current schema version",
			RunE: func(cmd *cobra.Command, _ []string) error {
				url, err := databaseURL()
				if err != nil {
					return err
				}
				version, dirty, err := postgres.Version(url)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "version=%d dirty=%t\n", version, dirty)
				return nil
			},
		},
	)
}

func databaseURL() (string, error) {
	cfg, err := config.FromEnv()
	if err != nil {
		return "", fmt.Errorf("load config: %w", err)
	}
	if cfg.Postgres.URL == "" {
		return "", errors.New("DATABASE_URL is required")
	}
	return cfg.Postgres.URL, nil
}
