// Package export writes the per-dataset clip artifacts to disk as CSV.
//
// Each dataset gets its own directory under the export root:
//
//	<root>/<dataset_id>/clips.csv
//	<root>/<dataset_id>/interictal_clips.csv
//	<root>/<dataset_id>/excluded_clips.csv
//	<root>/<dataset_id>/annotations.csv
//	<root>/<dataset_id>/metadata.txt
//
// Writes replace any previous export for the dataset, so re-running a
// generation produces the same files.
package export

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"gonum.org/v1/gonum/stat"

	"github.com/killallgit/ieeg-clips/internal/models"
	"github.com/killallgit/ieeg-clips/internal/services/pipeline"
)

// Writer writes dataset exports under a root directory.
type Writer struct {
	root string
}

// NewWriter creates a Writer rooted at dir.
func NewWriter(dir string) *Writer {
	return &Writer{root: dir}
}

// Root returns the export root directory.
func (w *Writer) Root() string {
	return w.root
}

// WriteDataset writes all artifacts for one generation result and returns
// the dataset's export directory.
func (w *Writer) WriteDataset(rec *models.Recording, res *pipeline.Result, annotations []models.Annotation) (string, error) {
	dir := filepath.Join(w.root, rec.DatasetID)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("creating export dir: %w", err)
	}

	if err := writeClipsCSV(filepath.Join(dir, "clips.csv"), res.Clips); err != nil {
		return "", err
	}
	if err := writeClipsCSV(filepath.Join(dir, "interictal_clips.csv"), res.Interictal); err != nil {
		return "", err
	}
	if err := writeExcludedCSV(filepath.Join(dir, "excluded_clips.csv"), res.Excluded); err != nil {
		return "", err
	}
	if err := writeAnnotationsCSV(filepath.Join(dir, "annotations.csv"), annotations); err != nil {
		return "", err
	}
	if err := writeMetadata(filepath.Join(dir, "metadata.txt"), rec, res); err != nil {
		return "", err
	}

	return dir, nil
}

func writeClipsCSV(path string, clips []models.Clip) error {
	return writeCSV(path, clipHeader, len(clips), func(i int) []string {
		return clipRecord(&clips[i])
	})
}

func writeExcludedCSV(path string, excluded []models.ExcludedClip) error {
	header := append(append([]string{}, clipHeader...), "exclusion_reason")
	return writeCSV(path, header, len(excluded), func(i int) []string {
		return append(clipRecord(&excluded[i].Clip), string(excluded[i].Reason))
	})
}

func writeAnnotationsCSV(path string, anns []models.Annotation) error {
	header := []string{"dataset_id", "label", "start_seconds", "end_seconds", "source", "annotator"}
	return writeCSV(path, header, len(anns), func(i int) []string {
		a := &anns[i]
		return []string{
			a.DatasetID,
			a.Label,
			formatSeconds(a.Start),
			formatSeconds(a.End),
			string(a.Source),
			a.Annotator,
		}
	})
}

var clipHeader = []string{
	"dataset_id", "clip_index", "start_seconds", "end_seconds",
	"absolute_start", "labels", "diurnal", "interictal",
}

func clipRecord(c *models.Clip) []string {
	absolute := ""
	if c.AbsoluteStart != nil {
		absolute = c.AbsoluteStart.Format(time.RFC3339)
	}
	return []string{
		c.DatasetID,
		strconv.Itoa(c.Index),
		formatSeconds(c.Start),
		formatSeconds(c.End),
		absolute,
		strings.Join(c.Labels, ";"),
		string(c.Diurnal),
		strconv.FormatBool(c.Interictal),
	}
}

func writeCSV(path string, header []string, n int, record func(i int) []string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", filepath.Base(path), err)
	}
	defer f.Close()

	cw := csv.NewWriter(f)
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("writing %s: %w", filepath.Base(path), err)
	}
	for i := 0; i < n; i++ {
		if err := cw.Write(record(i)); err != nil {
			return fmt.Errorf("writing %s: %w", filepath.Base(path), err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("flushing %s: %w", filepath.Base(path), err)
	}
	return f.Close()
}

// writeMetadata records the recording parameters and summary statistics
// for one generation.
func writeMetadata(path string, rec *models.Recording, res *pipeline.Result) error {
	var b strings.Builder

	fmt.Fprintf(&b, "dataset_id: %s\n", rec.DatasetID)
	fmt.Fprintf(&b, "record_id: %s\n", rec.RecordID)
	fmt.Fprintf(&b, "segment_index: %d\n", rec.SegmentIndex)
	fmt.Fprintf(&b, "sample_rate_hz: %s\n", formatSeconds(rec.SampleRate))
	fmt.Fprintf(&b, "num_samples: %d\n", rec.NumSamples)
	fmt.Fprintf(&b, "duration_seconds: %s\n", formatSeconds(rec.DurationSeconds()))
	if rec.StartTime != nil {
		fmt.Fprintf(&b, "start_time: %s\n", rec.StartTime.Format(time.RFC3339))
	}

	fmt.Fprintf(&b, "clips: %d\n", len(res.Clips))
	fmt.Fprintf(&b, "interictal_clips: %d\n", len(res.Interictal))
	fmt.Fprintf(&b, "excluded_clips: %d\n", len(res.Excluded))
	fmt.Fprintf(&b, "day_clips: %d\n", countDiurnal(res.Clips, models.DiurnalDay))
	fmt.Fprintf(&b, "night_clips: %d\n", countDiurnal(res.Clips, models.DiurnalNight))

	if durations := clipDurations(res.Clips); len(durations) > 0 {
		mean, std := stat.MeanStdDev(durations, nil)
		fmt.Fprintf(&b, "clip_duration_mean_seconds: %s\n", formatSeconds(mean))
		if len(durations) > 1 {
			fmt.Fprintf(&b, "clip_duration_stddev_seconds: %s\n", formatSeconds(std))
		}
	}

	for _, a := range res.Report.Anomalies {
		fmt.Fprintf(&b, "anomaly: %s\n", a.String())
	}

	return os.WriteFile(path, []byte(b.String()), 0o644)
}

func clipDurations(clips []models.Clip) []float64 {
	out := make([]float64, 0, len(clips))
	for _, c := range clips {
		out = append(out, c.End-c.Start)
	}
	sort.Float64s(out)
	return out
}

func countDiurnal(clips []models.Clip, class models.DiurnalClass) int {
	n := 0
	for _, c := range clips {
		if c.Diurnal == class {
			n++
		}
	}
	return n
}

func formatSeconds(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
