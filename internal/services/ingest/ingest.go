// Package ingest pulls the external study data into the local store: the
// REDCap patient manifest and the manually validated seizure and start
// times from the validation sheet.
package ingest

import (
	"context"
	"fmt"
	"log"
	"sort"

	"github.com/killallgit/ieeg-clips/internal/models"
	"github.com/killallgit/ieeg-clips/internal/services/annotations"
	"github.com/killallgit/ieeg-clips/internal/services/recordings"
	"github.com/killallgit/ieeg-clips/internal/services/segments"
	"github.com/killallgit/ieeg-clips/internal/services/validation"
)

// ManifestFetcher provides the patient manifest rows.
type ManifestFetcher interface {
	FetchManifest(ctx context.Context) ([]segments.Row, error)
}

// ValidationFetcher provides the manually validated annotations and
// start-time overrides.
type ValidationFetcher interface {
	FetchSeizureAnnotations(ctx context.Context) ([]models.Annotation, error)
	FetchStartTimeOverrides(ctx context.Context) ([]validation.StartTimeOverride, error)
}

// Report summarizes one sync run. Anomalies are recoverable per-row
// problems; a row's failure never aborts the run.
type Report struct {
	ManifestRows     int
	ExpandedDatasets int
	LinkedDatasets   int
	SeizureDatasets  int
	StartOverrides   int
	Anomalies        []models.Anomaly
}

func (r *Report) addAnomaly(code models.AnomalyCode, format string, args ...interface{}) {
	r.Anomalies = append(r.Anomalies, models.Anomaly{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	})
}

// Service synchronizes external study data into the store.
type Service struct {
	manifest   ManifestFetcher
	validation ValidationFetcher
	recordings recordings.Service
	anns       annotations.Service
}

// NewService creates an ingest service. Either fetcher may be nil, in
// which case its part of the sync is skipped.
func NewService(
	manifest ManifestFetcher,
	validationFetcher ValidationFetcher,
	recordingService recordings.Service,
	annotationService annotations.Service,
) *Service {
	return &Service{
		manifest:   manifest,
		validation: validationFetcher,
		recordings: recordingService,
		anns:       annotationService,
	}
}

// Sync runs a full ingest pass and returns the report.
func (s *Service) Sync(ctx context.Context) (*Report, error) {
	report := &Report{}

	if s.manifest != nil {
		if err := s.syncManifest(ctx, report); err != nil {
			return nil, err
		}
	}

	if s.validation != nil {
		if err := s.syncValidation(ctx, report); err != nil {
			return nil, err
		}
	}

	return report, nil
}

// syncManifest expands the manifest's D-number ranges and links existing
// recordings to their record IDs. Datasets the portal has not been loaded
// for yet are reported, not created: a recording without sample metadata
// cannot be tiled.
func (s *Service) syncManifest(ctx context.Context, report *Report) error {
	rows, err := s.manifest.FetchManifest(ctx)
	if err != nil {
		return fmt.Errorf("fetching manifest: %w", err)
	}
	report.ManifestRows = len(rows)

	expanded, errs := segments.Expand(rows)
	for _, e := range errs {
		report.addAnomaly(models.AnomalyRangeParse, "%v", e)
	}
	report.ExpandedDatasets = len(expanded)

	for _, row := range expanded {
		rec, err := s.recordings.GetRecording(ctx, row.DatasetID)
		if err != nil {
			report.addAnomaly(models.AnomalyTimestampResolution,
				"dataset %s from record %s has no portal metadata yet", row.DatasetID, row.RecordID)
			continue
		}

		rec.RecordID = row.RecordID
		rec.HUPNumber = row.HUPNumber
		rec.SegmentIndex = row.SegmentIndex
		if err := s.recordings.SaveRecording(ctx, rec); err != nil {
			return fmt.Errorf("linking dataset %s: %w", row.DatasetID, err)
		}
		report.LinkedDatasets++
	}

	return nil
}

func (s *Service) syncValidation(ctx context.Context, report *Report) error {
	anns, err := s.validation.FetchSeizureAnnotations(ctx)
	if err != nil {
		return fmt.Errorf("fetching validated seizures: %w", err)
	}

	byDataset := make(map[string][]models.Annotation)
	for _, a := range anns {
		byDataset[a.DatasetID] = append(byDataset[a.DatasetID], a)
	}

	datasetIDs := make([]string, 0, len(byDataset))
	for id := range byDataset {
		datasetIDs = append(datasetIDs, id)
	}
	sort.Strings(datasetIDs)

	for _, id := range datasetIDs {
		if err := s.anns.ReplaceSourceAnnotations(ctx, id,
			models.SourceManualValidation, byDataset[id]); err != nil {
			return fmt.Errorf("replacing validated seizures for %s: %w", id, err)
		}
		report.SeizureDatasets++
	}

	overrides, err := s.validation.FetchStartTimeOverrides(ctx)
	if err != nil {
		return fmt.Errorf("fetching start time overrides: %w", err)
	}

	for _, o := range overrides {
		if err := s.recordings.OverrideStartTime(ctx, o.DatasetID, o.Start); err != nil {
			// The sheet often lists datasets before their portal metadata
			// lands; skip and report rather than failing the run
			report.addAnomaly(models.AnomalyTimestampResolution,
				"start time override for %s not applied: %v", o.DatasetID, err)
			log.Printf("[WARN] Start time override for %s not applied: %v", o.DatasetID, err)
			continue
		}
		report.StartOverrides++
	}

	return nil
}
