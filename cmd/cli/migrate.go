package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cdmasterk/orcafx/config"
	"github.com/cdmasterk/orcafx/internal/database"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply pending database migrations",
	Long: `Apply every pending schema migration embedded in the binary and print
the resulting schema version.`,
	Args: cobra.NoArgs,
	RunE: runMigrate,
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}

func runMigrate(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	dbURL := config.GetDatabaseURL()
	if dbURL == "" {
		return fmt.Errorf("DATABASE_URL not set")
	}

	if err := database.Migrate(ctx, dbURL); err != nil {
		return err
	}

	version, err := database.MigrationVersion(ctx, dbURL)
	if err != nil {
		return err
	}
	logger.Info().Int64("version", version).Msg("Migrations applied")
	return nil
}
