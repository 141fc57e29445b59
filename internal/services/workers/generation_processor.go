package workers

import (
	"context"
	"fmt"
	"log"

	"github.com/killallgit/ieeg-clips/internal/models"
	"github.com/killallgit/ieeg-clips/internal/services/annotations"
	"github.com/killallgit/ieeg-clips/internal/services/clips"
	"github.com/killallgit/ieeg-clips/internal/services/export"
	"github.com/killallgit/ieeg-clips/internal/services/jobs"
	"github.com/killallgit/ieeg-clips/internal/services/pipeline"
	"github.com/killallgit/ieeg-clips/internal/services/recordings"
)

// GenerationProcessor runs the clip generation pipeline for one dataset
// per job.
type GenerationProcessor struct {
	jobService        jobs.Service
	recordingService  recordings.Service
	annotationService annotations.Service
	clipService       clips.Service
	exporter          *export.Writer
	config            pipeline.Config
}

func NewGenerationProcessor(
	jobService jobs.Service,
	recordingService recordings.Service,
	annotationService annotations.Service,
	clipService clips.Service,
	exporter *export.Writer,
	config pipeline.Config,
) *GenerationProcessor {
	return &GenerationProcessor{
		jobService:        jobService,
		recordingService:  recordingService,
		annotationService: annotationService,
		clipService:       clipService,
		exporter:          exporter,
		config:            config,
	}
}

func (p *GenerationProcessor) CanProcess(jobType models.JobType) bool {
	return jobType == models.JobTypeClipGeneration
}

func (p *GenerationProcessor) ProcessJob(ctx context.Context, job *models.Job) error {
	if !p.CanProcess(job.Type) {
		return fmt.Errorf("unsupported job type: %s", job.Type)
	}

	datasetID, ok := job.GetPayloadString("dataset_id")
	if !ok || datasetID == "" {
		return fmt.Errorf("job %d payload is missing dataset_id", job.ID)
	}

	log.Printf("[DEBUG] Processing clip generation job %d for dataset %s", job.ID, datasetID)

	if err := p.jobService.UpdateProgress(ctx, job.ID, 10); err != nil {
		log.Printf("[WARN] Failed to update job progress: %v", err)
	}

	rec, err := p.recordingService.GetRecording(ctx, datasetID)
	if err != nil {
		return fmt.Errorf("loading recording %s: %w", datasetID, err)
	}

	anns, err := p.annotationService.GetMergedAnnotations(ctx, datasetID)
	if err != nil {
		return fmt.Errorf("loading annotations for %s: %w", datasetID, err)
	}

	if err := p.jobService.UpdateProgress(ctx, job.ID, 30); err != nil {
		log.Printf("[WARN] Failed to update job progress: %v", err)
	}

	result, err := pipeline.Run(rec, anns, p.config)
	if err != nil {
		return fmt.Errorf("generating clips for %s: %w", datasetID, err)
	}

	if err := p.jobService.UpdateProgress(ctx, job.ID, 60); err != nil {
		log.Printf("[WARN] Failed to update job progress: %v", err)
	}

	if err := p.clipService.StoreGeneration(ctx, datasetID, result.Clips); err != nil {
		return fmt.Errorf("storing clips for %s: %w", datasetID, err)
	}

	if err := p.jobService.UpdateProgress(ctx, job.ID, 80); err != nil {
		log.Printf("[WARN] Failed to update job progress: %v", err)
	}

	jobResult := models.JobResult{
		"dataset_id":       datasetID,
		"clips":            len(result.Clips),
		"interictal_clips": len(result.Interictal),
		"excluded_clips":   len(result.Excluded),
		"anomalies":        len(result.Report.Anomalies),
	}

	if p.exporter != nil {
		dir, err := p.exporter.WriteDataset(rec, result, anns)
		if err != nil {
			return fmt.Errorf("exporting dataset %s: %w", datasetID, err)
		}
		jobResult["export_dir"] = dir
	}

	for _, a := range result.Report.Anomalies {
		log.Printf("[WARN] Dataset %s anomaly: %s", datasetID, a.String())
	}

	if err := p.jobService.CompleteJob(ctx, job.ID, jobResult); err != nil {
		return fmt.Errorf("completing job %d: %w", job.ID, err)
	}

	return nil
}
