package cli

import (
	"fmt"

	"gatebot/internal/config"
	"gatebot/internal/repository/postgres"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(migrateCmd)
	migrateCmd.AddCommand(migrateUpCmd, migrateDownCmd)
}

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply or roll back the postgres schema",
}

var migrateUpCmd = &cobra.Command{
	Use:   "up",
	Short: "Apply all pending migrations",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runMigrate(cmd, postgres.Up)
	},
}

var migrateDownCmd = &cobra.Command{
	Use:   "down",
	Short: "Roll back every migration (drops the users table)",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runMigrate(cmd, postgres.Down)
	},
}

func runMigrate(cmd *cobra.Command, dir postgres.Direction) error {
	cfg, err := config.LoadStore()
	if err != nil {
		return err
	}
	if cfg.StoreBackend != config.StorePostgres {
		return fmt.Errorf("migrations only apply to the %s backend, STORE_BACKEND is %s", config.StorePostgres, cfg.StoreBackend)
	}

	logger := newLogger()
	defer logger.Sync()

	db, err := postgres.Connect(cfg.DSN(), postgres.ConnectOptions{MaxRetries: 1}, logger)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := postgres.Migrate(db, dir, logger); err != nil {
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), "Migrations done")
	return nil
}
