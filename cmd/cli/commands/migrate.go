package commands

import (
	"ougadgets/cmd/cli/output"
	"ougadgets/internal/config"

	"github.com/spf13/cobra"
)

// migrateCmd represents the migrate command.
var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Run database migrations",
}

var migrateUpCmd = &cobra.Command{
	Use:   "up",
	Short: "Apply all up migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		dbCfg, err := config.LoadDBConfig()
		if err != nil {
			return err
		}
		if err := config.MigrateUp(dbCfg); err != nil {
			return err
		}
		output.Success("Database schema is up to date")
		return nil
	},
}

var migrateDownCmd = &cobra.Command{
	Use:   "down",
	Short: "Roll back all migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		dbCfg, err := config.LoadDBConfig()
		if err != nil {
			return err
		}
		if err := config.MigrateDown(dbCfg); err != nil {
			return err
		}
		output.Warning("All migrations rolled back")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd)
	migrateCmd.AddCommand(migrateUpCmd, migrateDownCmd)
}
