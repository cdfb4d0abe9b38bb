package cmd

import (
	"fmt"

	"fuel-dashboard/core/database"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// migrateCmd creates the tables and checks the resulting schema.
var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the database schema",
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := bootstrap()
		if err != nil {
			return err
		}
		defer rt.logger.Sync()

		if err := database.Migrate(rt.db); err != nil {
			return err
		}

		missing, err := database.VerifySchema(rt.db)
		if err != nil {
			return err
		}
		if len(missing) > 0 {
			for table, cols := range missing {
				rt.logger.Error("Missing columns", zap.String("table", table), zap.Strings("columns", cols))
			}
			return fmt.Errorf("schema verification failed for %d table(s)", len(missing))
		}

		rt.logger.Info("Schema is up to date")
		return nil
	},
}

func init() {
	RootCmd.AddCommand(migrateCmd)
}
