package cmd

import (
	"context"
	"fmt"
	"strconv"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/spf13/cobra"

	"github.com/killallgit/ieeg-clips/internal/database"
	"github.com/killallgit/ieeg-clips/internal/models"
	annotationsService "github.com/killallgit/ieeg-clips/internal/services/annotations"
	clipsService "github.com/killallgit/ieeg-clips/internal/services/clips"
	"github.com/killallgit/ieeg-clips/internal/services/export"
	"github.com/killallgit/ieeg-clips/internal/services/pipeline"
	recordingsService "github.com/killallgit/ieeg-clips/internal/services/recordings"
	"github.com/killallgit/ieeg-clips/pkg/config"
)

var (
	generateDataset  string
	generateNoExport bool
)

// generateCmd represents the generate command
var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Run clip generation for stored datasets",
	Long: `Run the clip generation pipeline for every dataset in the store,
or for a single dataset with --dataset.

Each dataset is processed independently: one dataset's failure is
reported in the summary and never aborts the batch. Results are stored
in the database and exported as CSV per dataset.

Example:
  ieeg-clips generate
  ieeg-clips generate --dataset HUP172_phaseII_D01
  ieeg-clips generate --no-export`,
	RunE: runGenerate,
}

func init() {
	rootCmd.AddCommand(generateCmd)

	generateCmd.Flags().StringVar(&generateDataset, "dataset", "", "generate for a single dataset ID")
	generateCmd.Flags().BoolVar(&generateNoExport, "no-export", false, "skip writing CSV export files")
}

// datasetOutcome is one row of the generation summary table
type datasetOutcome struct {
	datasetID  string
	clips      int
	interictal int
	excluded   int
	anomalies  int
	err        error
}

func runGenerate(cmd *cobra.Command, args []string) error {
	cfg, err := config.GetConfig()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	pipelineCfg, err := pipelineConfigFrom(cfg)
	if err != nil {
		return err
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
	clipService := clipsService.NewService(clipsService.NewRepository(db.DB))

	var exporter *export.Writer
	if !generateNoExport {
		exporter = export.NewWriter(cfg.Export.Dir)
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	var recs []models.Recording
	if generateDataset != "" {
		rec, err := recordingService.GetRecording(ctx, generateDataset)
		if err != nil {
			return fmt.Errorf("getting dataset %s: %w", generateDataset, err)
		}
		recs = []models.Recording{*rec}
	} else {
		recs, err = recordingService.ListRecordings(ctx)
		if err != nil {
			return fmt.Errorf("listing datasets: %w", err)
		}
	}

	if len(recs) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No datasets in store; load recording metadata first")
		return nil
	}

	outcomes := make([]datasetOutcome, 0, len(recs))
	failed := 0
	for i := range recs {
		outcome := generateDatasetClips(ctx, &recs[i], annotationService, clipService, exporter, pipelineCfg)
		if outcome.err != nil {
			failed++
		}
		outcomes = append(outcomes, outcome)
	}

	fmt.Fprintln(cmd.OutOrStdout(), renderSummary(outcomes))
	fmt.Fprintf(cmd.OutOrStdout(), "%d dataset(s) processed, %d failed\n", len(outcomes), failed)

	if failed == len(outcomes) {
		return fmt.Errorf("all %d dataset(s) failed", failed)
	}
	return nil
}

func generateDatasetClips(
	ctx context.Context,
	rec *models.Recording,
	annotationService annotationsService.Service,
	clipService clipsService.Service,
	exporter *export.Writer,
	cfg pipeline.Config,
) datasetOutcome {
	outcome := datasetOutcome{datasetID: rec.DatasetID}

	anns, err := annotationService.GetMergedAnnotations(ctx, rec.DatasetID)
	if err != nil {
		outcome.err = err
		return outcome
	}

	result, err := pipeline.Run(rec, anns, cfg)
	if err != nil {
		outcome.err = err
		return outcome
	}

	if err := clipService.StoreGeneration(ctx, rec.DatasetID, result.Clips); err != nil {
		outcome.err = err
		return outcome
	}

	if exporter != nil {
		if _, err := exporter.WriteDataset(rec, result, anns); err != nil {
			outcome.err = err
			return outcome
		}
	}

	outcome.clips = len(result.Clips)
	outcome.interictal = len(result.Interictal)
	outcome.excluded = len(result.Excluded)
	outcome.anomalies = len(result.Report.Anomalies)
	return outcome
}

func renderSummary(outcomes []datasetOutcome) string {
	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)
	tw.AppendHeader(table.Row{"Dataset", "Clips", "Interictal", "Excluded", "Anomalies", "Status"})

	for _, o := range outcomes {
		status := "ok"
		if o.err != nil {
			status = o.err.Error()
		}
		tw.AppendRow(table.Row{
			o.datasetID,
			strconv.Itoa(o.clips),
			strconv.Itoa(o.interictal),
			strconv.Itoa(o.excluded),
			strconv.Itoa(o.anomalies),
			status,
		})
	}

	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 2, Align: text.AlignRight},
		{Number: 3, Align: text.AlignRight},
		{Number: 4, Align: text.AlignRight},
		{Number: 5, Align: text.AlignRight},
	})

	return tw.Render()
}
