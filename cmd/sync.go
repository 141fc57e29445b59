package cmd

import (
	"context"
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/killallgit/ieeg-clips/internal/database"
	"github.com/killallgit/ieeg-clips/internal/models"
	annotationsService "github.com/killallgit/ieeg-clips/internal/services/annotations"
	"github.com/killallgit/ieeg-clips/internal/services/ingest"
	recordingsService "github.com/killallgit/ieeg-clips/internal/services/recordings"
	"github.com/killallgit/ieeg-clips/internal/services/redcap"
	"github.com/killallgit/ieeg-clips/internal/services/validation"
	"github.com/killallgit/ieeg-clips/pkg/config"
)

var (
	syncSkipManifest   bool
	syncSkipValidation bool
)

// syncCmd represents the sync command
var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Pull the REDCap manifest and validation sheet",
	Long: `Synchronize external study data into the local store.

Pulls the REDCap patient manifest, expands D-number range tokens into
per-segment dataset IDs, and links stored recordings to their study
records. Then pulls the manual validation sheet and replaces the
manually validated seizure annotations and start time overrides.

Example:
  ieeg-clips sync
  ieeg-clips sync --skip-manifest
  ieeg-clips sync --skip-validation`,
	RunE: runSync,
}

func init() {
	rootCmd.AddCommand(syncCmd)

	syncCmd.Flags().BoolVar(&syncSkipManifest, "skip-manifest", false, "skip the REDCap manifest")
	syncCmd.Flags().BoolVar(&syncSkipValidation, "skip-validation", false, "skip the validation sheet")
}

func runSync(cmd *cobra.Command, args []string) error {
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

	recordingService := recordingsService.NewService(recordingsService.NewRepository(db.DB))
	annotationService := annotationsService.NewService(annotationsService.NewRepository(db.DB))

	var manifest ingest.ManifestFetcher
	if !syncSkipManifest {
		manifest = redcap.NewClient(redcap.Config{
			BaseURL:           cfg.REDCap.URL,
			Token:             cfg.REDCap.Token,
			ReportID:          cfg.REDCap.ReportID,
			RequestsPerMinute: cfg.REDCap.RateLimit,
			Timeout:           cfg.REDCap.Timeout,
		})
	}

	var validationFetcher ingest.ValidationFetcher
	if !syncSkipValidation {
		validationFetcher = validation.NewClient(validation.Config{
			SheetID:        cfg.Sheets.SheetID,
			SeizureSheet:   cfg.Sheets.SeizureSheet,
			StartTimeSheet: cfg.Sheets.StartTimeSheet,
			Timeout:        cfg.Sheets.Timeout,
			Timezone:       cfg.Clips.Timezone,
		})
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	service := ingest.NewService(manifest, validationFetcher, recordingService, annotationService)
	report, err := service.Sync(ctx)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()

	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)
	tw.AppendRow(table.Row{"Manifest rows", report.ManifestRows})
	tw.AppendRow(table.Row{"Expanded datasets", report.ExpandedDatasets})
	tw.AppendRow(table.Row{"Linked datasets", report.LinkedDatasets})
	tw.AppendRow(table.Row{"Seizure datasets", report.SeizureDatasets})
	tw.AppendRow(table.Row{"Start overrides", report.StartOverrides})
	tw.AppendRow(table.Row{"Anomalies", len(report.Anomalies)})
	fmt.Fprintln(out, tw.Render())

	for _, a := range report.Anomalies {
		fmt.Fprintf(out, "anomaly: %s\n", a.String())
	}

	return nil
}
