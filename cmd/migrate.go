package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/killallgit/ieeg-clips/internal/database"
	"github.com/killallgit/ieeg-clips/internal/models"
	"github.com/killallgit/ieeg-clips/pkg/config"
)

// migrateCmd represents the migrate command
var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Run database migrations",
	Long: `Apply the database schema for the iEEG Clip Engine.

Runs GORM auto migration for the recording, annotation, clip and job
models against the configured SQLite database. Safe to run repeatedly.`,
	RunE: runMigrate,
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}

func runMigrate(cmd *cobra.Command, args []string) error {
	cfg, err := config.GetConfig()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	db, err := database.Initialize(cfg.Database)
	if err != nil {
		return fmt.Errorf("initializing database: %w", err)
	}
	defer db.Close()

	if err := db.AutoMigrate(
		&models.Recording{},
		&models.Annotation{},
		&models.Clip{},
		&models.Job{},
	); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Schema up to date at %s\n", cfg.Database.Path)
	return nil
}
