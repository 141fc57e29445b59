// Package pipeline runs the per-dataset clip generation flow: timeline
// resolution, window tiling, annotation mapping, diurnal classification
// and interictal selection.
//
// Every step is a pure transformation over in-memory collections; the
// pipeline does no I/O and holds no state between runs. Datasets are
// independent, so callers may run many pipelines concurrently as long as
// each run owns its own inputs.
package pipeline

import (
	"github.com/killallgit/ieeg-clips/internal/models"
	"github.com/killallgit/ieeg-clips/internal/services/annotations"
	"github.com/killallgit/ieeg-clips/internal/services/diurnal"
	"github.com/killallgit/ieeg-clips/internal/services/interictal"
	"github.com/killallgit/ieeg-clips/internal/services/mapper"
	"github.com/killallgit/ieeg-clips/internal/services/tiler"
	"github.com/killallgit/ieeg-clips/internal/services/timeline"
)

// Config holds the pipeline parameters for one run.
type Config struct {
	WindowSeconds float64
	BufferSeconds float64
	DayWindow     diurnal.Window
}

// DefaultConfig mirrors the production defaults: 1-minute windows, 1-hour
// seizure buffer, day = [06:00, 20:00).
func DefaultConfig() Config {
	return Config{
		WindowSeconds: 60,
		BufferSeconds: interictal.DefaultBufferSeconds,
		DayWindow:     diurnal.DefaultWindow,
	}
}

// Result is the complete outcome of one dataset run.
type Result struct {
	Clips      []models.Clip
	Interictal []models.Clip
	Excluded   []models.ExcludedClip
	Report     models.GenerationReport
}

// Run executes the full flow for one dataset. Fatal errors (invalid
// metadata, invalid window) abort this dataset only and are returned;
// recoverable anomalies are collected into the result's report. Identical
// inputs always yield identical results.
func Run(rec *models.Recording, anns []models.Annotation, cfg Config) (*Result, error) {
	tl, err := timeline.Resolve(rec)
	if err != nil {
		return nil, err
	}

	clips, err := tiler.Tile(rec.DatasetID, tl.Duration(), cfg.WindowSeconds)
	if err != nil {
		return nil, err
	}

	res := &Result{
		Report: models.GenerationReport{DatasetID: rec.DatasetID},
	}

	merged := annotations.Merge(anns)
	clips = mapper.Apply(clips, merged)

	// Absolute timestamps and diurnal classes. One unresolvable dataset
	// start means every clip is affected, so report the anomaly once
	// instead of once per clip.
	if tl.HasAbsoluteTime() {
		for i := range clips {
			ts, err := tl.AbsoluteTime(clips[i].Start)
			if err != nil {
				res.Report.Add(models.AnomalyTimestampResolution, "%v", err)
				break
			}
			clips[i].AbsoluteStart = &ts
		}
	} else if len(clips) > 0 {
		res.Report.Add(models.AnomalyTimestampResolution,
			"no resolvable start time; diurnal class is unknown for all clips")
	}
	for i := range clips {
		clips[i].Diurnal = diurnal.ClassifyClip(&clips[i], cfg.DayWindow)
	}

	sel := interictal.Select(clips, seizuresOf(merged), cfg.BufferSeconds)

	res.Clips = clips
	res.Interictal = sel.Interictal
	res.Excluded = sel.Excluded
	return res, nil
}

func seizuresOf(anns []models.Annotation) []models.Annotation {
	var out []models.Annotation
	for _, a := range anns {
		if a.IsSeizure() {
			out = append(out, a)
		}
	}
	return out
}
