// Package validation fetches manually validated seizure times and
// recording start times from a shared spreadsheet.
//
// The sheet is read through the CSV export endpoint, one tab for seizure
// annotations and one for start-time corrections. Values from these tabs
// outrank anything reported by the portal.
package validation

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/killallgit/ieeg-clips/internal/models"
)

// ErrMissingSheetID indicates no spreadsheet was configured
var ErrMissingSheetID = errors.New("validation sheet id is not configured")

// StartTimeOverride is a manually validated recording start time.
type StartTimeOverride struct {
	DatasetID string
	Start     time.Time
}

// Config holds configuration for the validation sheet client
type Config struct {
	SheetID        string
	SeizureSheet   string        // tab name, default "seizure_times"
	StartTimeSheet string        // tab name, default "start_times"
	Timeout        time.Duration // Default: 30s

	// Timezone is the IANA zone zone-naive sheet timestamps are
	// interpreted in. Sheet editors enter local hospital clock times, so
	// parsing them as UTC would shift the clock and flip diurnal classes.
	// Default: UTC.
	Timezone string

	// BaseURL overrides the spreadsheet host (for testing)
	BaseURL string
}

// Client reads validation data from the spreadsheet
type Client struct {
	httpClient *http.Client
	config     Config
	loc        *time.Location
}

// NewClient creates a new validation sheet client
func NewClient(cfg Config) *Client {
	if cfg.SeizureSheet == "" {
		cfg.SeizureSheet = "seizure_times"
	}
	if cfg.StartTimeSheet == "" {
		cfg.StartTimeSheet = "start_times"
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 30 * time.Second
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://docs.google.com"
	}

	// An unresolvable zone falls back to UTC, matching the timeline's
	// handling of bad recording zones.
	loc := time.UTC
	if cfg.Timezone != "" {
		if l, err := time.LoadLocation(cfg.Timezone); err == nil {
			loc = l
		}
	}

	return &Client{
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		config: cfg,
		loc:    loc,
	}
}

// FetchSeizureAnnotations returns the validated seizure annotations,
// keyed to dataset IDs, with source set to manual validation.
func (c *Client) FetchSeizureAnnotations(ctx context.Context) ([]models.Annotation, error) {
	records, header, err := c.fetchSheet(ctx, c.config.SeizureSheet)
	if err != nil {
		return nil, err
	}

	datasetCol, ok := findColumn(header, "dataset_id", "portal_name", "ieeg_portal_name")
	if !ok {
		return nil, fmt.Errorf("sheet %s is missing dataset column", c.config.SeizureSheet)
	}
	startCol, ok := findColumn(header, "start_seconds", "onset_seconds", "seizure_start")
	if !ok {
		return nil, fmt.Errorf("sheet %s is missing start column", c.config.SeizureSheet)
	}
	endCol, _ := findColumn(header, "end_seconds", "offset_seconds", "seizure_end")
	annotatorCol, _ := findColumn(header, "annotator", "validated_by")

	var anns []models.Annotation
	for _, record := range records {
		datasetID := field(record, datasetCol)
		if datasetID == "" {
			continue
		}

		start, err := strconv.ParseFloat(field(record, startCol), 64)
		if err != nil {
			return nil, fmt.Errorf("sheet %s: bad start time for %s: %w",
				c.config.SeizureSheet, datasetID, err)
		}

		// A missing end time marks an instantaneous onset annotation
		end := start
		if endCol >= 0 {
			if raw := field(record, endCol); raw != "" {
				end, err = strconv.ParseFloat(raw, 64)
				if err != nil {
					return nil, fmt.Errorf("sheet %s: bad end time for %s: %w",
						c.config.SeizureSheet, datasetID, err)
				}
			}
		}

		ann := models.Annotation{
			DatasetID: datasetID,
			Label:     models.LabelSeizure,
			Start:     start,
			End:       end,
			Source:    models.SourceManualValidation,
		}
		if annotatorCol >= 0 {
			ann.Annotator = field(record, annotatorCol)
		}
		anns = append(anns, ann)
	}

	return anns, nil
}

// FetchStartTimeOverrides returns the manually validated recording start
// times.
func (c *Client) FetchStartTimeOverrides(ctx context.Context) ([]StartTimeOverride, error) {
	records, header, err := c.fetchSheet(ctx, c.config.StartTimeSheet)
	if err != nil {
		return nil, err
	}

	datasetCol, ok := findColumn(header, "dataset_id", "portal_name", "ieeg_portal_name")
	if !ok {
		return nil, fmt.Errorf("sheet %s is missing dataset column", c.config.StartTimeSheet)
	}
	startCol, ok := findColumn(header, "start_time", "recording_start", "validated_start")
	if !ok {
		return nil, fmt.Errorf("sheet %s is missing start_time column", c.config.StartTimeSheet)
	}

	var overrides []StartTimeOverride
	for _, record := range records {
		datasetID := field(record, datasetCol)
		raw := field(record, startCol)
		if datasetID == "" || raw == "" {
			continue
		}

		start, err := parseTimestamp(raw, c.loc)
		if err != nil {
			return nil, fmt.Errorf("sheet %s: bad start time for %s: %w",
				c.config.StartTimeSheet, datasetID, err)
		}

		overrides = append(overrides, StartTimeOverride{
			DatasetID: datasetID,
			Start:     start,
		})
	}

	return overrides, nil
}

func (c *Client) fetchSheet(ctx context.Context, sheet string) ([][]string, map[string]int, error) {
	if c.config.SheetID == "" {
		return nil, nil, ErrMissingSheetID
	}

	u := fmt.Sprintf("%s/spreadsheets/d/%s/gviz/tq?tqx=out:csv&sheet=%s",
		c.config.BaseURL, url.PathEscape(c.config.SheetID), url.QueryEscape(sheet))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, nil, fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, nil, fmt.Errorf("fetching sheet %s: %w", sheet, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, nil, fmt.Errorf("fetching sheet %s: unexpected status %d", sheet, resp.StatusCode)
	}

	reader := csv.NewReader(resp.Body)
	reader.TrimLeadingSpace = true

	headerRow, err := reader.Read()
	if err != nil {
		if err == io.EOF {
			return nil, nil, fmt.Errorf("sheet %s is empty", sheet)
		}
		return nil, nil, fmt.Errorf("reading sheet %s: %w", sheet, err)
	}

	header := make(map[string]int, len(headerRow))
	for i, name := range headerRow {
		header[strings.ToLower(strings.TrimSpace(name))] = i
	}

	var records [][]string
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, nil, fmt.Errorf("reading sheet %s: %w", sheet, err)
		}
		records = append(records, record)
	}

	return records, header, nil
}

var timestampLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"1/2/2006 15:04:05",
	"1/2/2006 15:04",
}

// parseTimestamp reads zone-naive layouts in loc; layouts that carry
// their own zone offset keep it.
func parseTimestamp(raw string, loc *time.Location) (time.Time, error) {
	for _, layout := range timestampLayouts {
		if t, err := time.ParseInLocation(layout, raw, loc); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized timestamp %q", raw)
}

func findColumn(header map[string]int, names ...string) (int, bool) {
	for _, name := range names {
		if i, ok := header[name]; ok {
			return i, true
		}
	}
	return -1, false
}

func field(record []string, i int) string {
	if i < 0 || i >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[i])
}
