// Package redcap fetches the patient manifest from a REDCap report.
//
// The report export is a CSV with one row per patient linking the study
// record to the portal dataset naming: record_id, the portal name column
// (which may carry a D-number range suffix) and the HUP number.
package redcap

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/killallgit/ieeg-clips/internal/services/segments"
)

var (
	// ErrRateLimited indicates the API rate limit was exceeded
	ErrRateLimited = errors.New("redcap api rate limit exceeded")

	// ErrMissingToken indicates no API token was configured
	ErrMissingToken = errors.New("redcap api token is not configured")
)

// Config holds configuration for the REDCap client
type Config struct {
	BaseURL  string // REDCap API endpoint
	Token    string
	ReportID string

	// Rate limiting
	RequestsPerMinute int // Default: 30
	BurstSize         int // Default: 2

	// HTTP configuration
	Timeout      time.Duration // Default: 30s
	MaxRetries   int           // Default: 3
	RetryBackoff time.Duration // Default: 1s
}

// Client handles communication with the REDCap API
type Client struct {
	httpClient  *http.Client
	rateLimiter *rate.Limiter
	config      Config
}

// NewClient creates a new REDCap API client
func NewClient(cfg Config) *Client {
	if cfg.RequestsPerMinute == 0 {
		cfg.RequestsPerMinute = 30
	}
	if cfg.BurstSize == 0 {
		cfg.BurstSize = 2
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 30 * time.Second
	}
	if cfg.MaxRetries == 0 {
		cfg.MaxRetries = 3
	}
	if cfg.RetryBackoff == 0 {
		cfg.RetryBackoff = time.Second
	}

	limiter := rate.NewLimiter(
		rate.Every(time.Minute/time.Duration(cfg.RequestsPerMinute)),
		cfg.BurstSize,
	)

	return &Client{
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		rateLimiter: limiter,
		config:      cfg,
	}
}

// FetchManifest exports the configured report and returns one row per
// patient record.
func (c *Client) FetchManifest(ctx context.Context) ([]segments.Row, error) {
	if c.config.Token == "" {
		return nil, ErrMissingToken
	}

	body, err := c.doRequestWithRetry(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetching redcap report %s: %w", c.config.ReportID, err)
	}

	rows, err := parseManifestCSV(body)
	if err != nil {
		return nil, fmt.Errorf("parsing redcap report %s: %w", c.config.ReportID, err)
	}

	return rows, nil
}

func (c *Client) doRequestWithRetry(ctx context.Context) ([]byte, error) {
	var lastErr error
	backoff := c.config.RetryBackoff

	for attempt := 0; attempt < c.config.MaxRetries; attempt++ {
		body, err := c.doRequest(ctx)
		if err == nil {
			return body, nil
		}

		if errors.Is(err, ErrRateLimited) || isTemporaryError(err) {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(backoff):
				backoff *= 2
				lastErr = err
				continue
			}
		}

		return nil, err
	}

	return nil, fmt.Errorf("max retries exceeded: %w", lastErr)
}

func (c *Client) doRequest(ctx context.Context) ([]byte, error) {
	if err := c.rateLimiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter wait: %w", err)
	}

	form := url.Values{}
	form.Set("token", c.config.Token)
	form.Set("content", "report")
	form.Set("report_id", c.config.ReportID)
	form.Set("format", "csv")
	form.Set("rawOrLabel", "raw")
	form.Set("returnFormat", "csv")

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.config.BaseURL,
		strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "text/csv")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("http request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests {
		return nil, ErrRateLimited
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status: %d", resp.StatusCode)
	}

	return io.ReadAll(resp.Body)
}

// parseManifestCSV maps the report columns onto manifest rows. Column
// matching is by header name so report field ordering does not matter.
func parseManifestCSV(data []byte) ([]segments.Row, error) {
	reader := csv.NewReader(strings.NewReader(string(data)))
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		if err == io.EOF {
			return nil, errors.New("empty report")
		}
		return nil, err
	}

	cols := make(map[string]int, len(header))
	for i, name := range header {
		cols[strings.ToLower(strings.TrimSpace(name))] = i
	}

	recordCol, ok := findColumn(cols, "record_id", "record")
	if !ok {
		return nil, errors.New("report is missing record_id column")
	}
	portalCol, ok := findColumn(cols, "portal_name", "ieeg_portal_name", "portal_deidentified_name")
	if !ok {
		return nil, errors.New("report is missing portal name column")
	}
	hupCol, _ := findColumn(cols, "hup_number", "hup_id", "hupsubjno")

	var rows []segments.Row
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}

		row := segments.Row{
			RecordID:   field(record, recordCol),
			PortalName: field(record, portalCol),
		}
		if hupCol >= 0 {
			row.HUPNumber = field(record, hupCol)
		}

		// Rows with no portal name have no dataset to process
		if row.PortalName == "" {
			continue
		}
		rows = append(rows, row)
	}

	return rows, nil
}

func findColumn(cols map[string]int, names ...string) (int, bool) {
	for _, name := range names {
		if i, ok := cols[name]; ok {
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

// isTemporaryError checks if an error is temporary and should be retried
func isTemporaryError(err error) bool {
	if netErr, ok := err.(interface{ Temporary() bool }); ok {
		return netErr.Temporary()
	}
	if netErr, ok := err.(interface{ Timeout() bool }); ok {
		return netErr.Timeout()
	}
	return false
}
